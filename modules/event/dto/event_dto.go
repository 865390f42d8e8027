package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Location     string   `json:"location"`
	CoverImage   string   `json:"cover_image"`
	Category     string   `json:"category"`
	Featured     bool     `json:"featured"`
	Type         string   `json:"type"`
	MaxCapacity  int      `json:"max_capacity"`
	Organizer    string   `json:"organizer"`
	Tags         []string `json:"tags"`
	Requirements []string `json:"requirements"`
	Materials    []string `json:"materials"`
}

// UpdateEventRequest is a sparse patch: nil fields are left untouched.
type UpdateEventRequest struct {
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Date         *string   `json:"date,omitempty"`
	Time         *string   `json:"time,omitempty"`
	Location     *string   `json:"location,omitempty"`
	CoverImage   *string   `json:"cover_image,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Featured     *bool     `json:"featured,omitempty"`
	Status       *string   `json:"status,omitempty"`
	Type         *string   `json:"type,omitempty"`
	MaxCapacity  *int      `json:"max_capacity,omitempty"`
	Organizer    *string   `json:"organizer,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
	Requirements *[]string `json:"requirements,omitempty"`
	Materials    *[]string `json:"materials,omitempty"`
}

// EventFilter is the always-bypass-cache query. Empty fields are skipped;
// Search matches title or description as a case-insensitive substring.
type EventFilter struct {
	Status   string `query:"status"`
	Category string `query:"category"`
	Location string `query:"location"`
	Search   string `query:"search"`
}

type EventResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Location      string    `json:"location"`
	CoverImageURL string    `json:"cover_image_url"`
	Category      string    `json:"category"`
	Featured      bool      `json:"featured"`
	Status        string    `json:"status"`
	Type          string    `json:"type"`
	MaxCapacity   int       `json:"max_capacity"`
	Organizer     string    `json:"organizer"`
	Tags          []string  `json:"tags"`
	Requirements  []string  `json:"requirements"`
	Materials     []string  `json:"materials"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type EventListResponse struct {
	Events []EventResponse `json:"events"`
	Total  int             `json:"total"`
}

type AttendeeResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registered_at"`
}

type AttendeeListResponse struct {
	Attendees []AttendeeResponse `json:"attendees"`
	Total     int                `json:"total"`
}

type SubmitFeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type TrackingListResponse struct {
	Tracking []TrackingResponse `json:"tracking"`
	Total    int                `json:"total"`
}

type TrackingResponse struct {
	EventID           uuid.UUID `json:"event_id"`
	EventTitle        string    `json:"event_title"`
	EventDate         string    `json:"event_date"`
	Status            string    `json:"status"`
	FeedbackSubmitted bool      `json:"feedback_submitted"`
	RegisteredAt      time.Time `json:"registered_at"`
}

type RecomputeResponse struct {
	Changed int `json:"changed"`
}

type UploadURLResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
