package entity

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a post-event rating and comment. At most one row exists per
// (event, user) pair, and a row may only be created once the user holds an
// active registration and the event date is strictly past.
type Feedback struct {
	ID           uuid.UUID `db:"id" json:"id"`
	EventID      uuid.UUID `db:"event_id" json:"event_id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	Username     string    `db:"username" json:"username"`
	Rating       int       `db:"rating" json:"rating"`
	Comment      string    `db:"comment" json:"comment"`
	FeedbackText string    `db:"feedback_text" json:"feedback_text"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserEventTracking is a derived view, not a table: a user's registration
// combined with the event date to show whether they are registered for an
// upcoming event or attended a past one, and whether feedback exists.
type UserEventTracking struct {
	EventID           uuid.UUID `json:"event_id"`
	EventTitle        string    `json:"event_title"`
	EventDate         string    `json:"event_date"`
	Status            string    `json:"status"` // registered | attended
	FeedbackSubmitted bool      `json:"feedback_submitted"`
	RegisteredAt      time.Time `json:"registered_at"`
}

// Tracking statuses for UserEventTracking.
const (
	TrackingStatusRegistered = "registered"
	TrackingStatusAttended   = "attended"
)
