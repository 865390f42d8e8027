package entity

import (
	"time"

	"github.com/google/uuid"
)

// Bookmark marks an event as saved by a user. Existence alone is the signal;
// there is no status column.
type Bookmark struct {
	ID        uuid.UUID `db:"id" json:"id"`
	EventID   uuid.UUID `db:"event_id" json:"event_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
