package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Event is one schedulable activity. Date and Time are always stored
// normalized (ISO date, 24-hour clock); Status is a persisted derivation that
// is only refreshed by explicit recomputation.
type Event struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	Title        string         `db:"title" json:"title"`
	Slug         string         `db:"slug" json:"slug"`
	Description  string         `db:"description" json:"description"`
	Date         string         `db:"date" json:"date"`
	Time         string         `db:"time" json:"time"`
	Location     string         `db:"location" json:"location"`
	CoverImage   string         `db:"cover_image" json:"cover_image"`
	Category     string         `db:"category" json:"category"`
	Featured     bool           `db:"featured" json:"featured"`
	Status       string         `db:"status" json:"status"`
	Type         string         `db:"type" json:"type"`
	MaxCapacity  int            `db:"max_capacity" json:"max_capacity"`
	Organizer    string         `db:"organizer" json:"organizer"`
	Tags         pq.StringArray `db:"tags" json:"tags"`
	Requirements pq.StringArray `db:"requirements" json:"requirements"`
	Materials    pq.StringArray `db:"materials" json:"materials"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}
