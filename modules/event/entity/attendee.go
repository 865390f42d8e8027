package entity

import (
	"time"

	"github.com/google/uuid"
)

// Attendee relates a user to an event. At most one active (confirmed) row
// exists per (event, user) pair.
type Attendee struct {
	ID        uuid.UUID `db:"id" json:"id"`
	EventID   uuid.UUID `db:"event_id" json:"event_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AttendeeView is an attendee row joined with user profile fields for
// display. Name and Email carry generated placeholders when the user record
// cannot be resolved.
type AttendeeView struct {
	ID           uuid.UUID `db:"id" json:"id"`
	EventID      uuid.UUID `db:"event_id" json:"event_id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	Status       string    `db:"status" json:"status"`
	RegisteredAt time.Time `db:"created_at" json:"registered_at"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
}
