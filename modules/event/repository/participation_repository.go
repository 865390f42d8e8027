package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventhub/core/constants"
	"eventhub/core/logger"
	"eventhub/modules/event/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// GetActiveRegistration returns the confirmed attendee row for the pair, or
// nil when none exists.
func (r *EventRepository) GetActiveRegistration(ctx context.Context, eventID, userID uuid.UUID) (*entity.Attendee, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at
		FROM event_attendees
		WHERE event_id = $1 AND user_id = $2 AND status = $3
	`
	var attendee entity.Attendee
	err := r.db.GetContext(ctx, &attendee, query, eventID, userID, constants.AttendeeStatusConfirmed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.Error("EventRepository:GetActiveRegistration:Error:", err)
		return nil, err
	}
	return &attendee, nil
}

func (r *EventRepository) InsertAttendee(ctx context.Context, attendee *entity.Attendee) error {
	query := `
		INSERT INTO event_attendees (event_id, user_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	attendee.CreatedAt = time.Now()
	if attendee.Status == "" {
		attendee.Status = constants.AttendeeStatusConfirmed
	}
	row := r.db.QueryRowContext(ctx, query, attendee.EventID, attendee.UserID, attendee.Status, attendee.CreatedAt)
	if err := row.Scan(&attendee.ID); err != nil {
		logger.Error("EventRepository:InsertAttendee:Error:", err)
		return err
	}
	return nil
}

// CancelAttendee flips the active registration to cancelled rather than
// deleting the row, preserving the registration history.
func (r *EventRepository) CancelAttendee(ctx context.Context, eventID, userID uuid.UUID) error {
	query := `
		UPDATE event_attendees SET status = $1
		WHERE event_id = $2 AND user_id = $3 AND status = $4
	`
	err := r.db.ExecContext(ctx, query,
		constants.AttendeeStatusCancelled, eventID, userID, constants.AttendeeStatusConfirmed)
	if err != nil {
		logger.Error("EventRepository:CancelAttendee:Error:", err)
		return err
	}
	return nil
}

// ListAttendeesJoined is the preferred single-query path: attendee rows
// joined with user profiles.
func (r *EventRepository) ListAttendeesJoined(ctx context.Context, eventID uuid.UUID) ([]entity.AttendeeView, error) {
	query := `
		SELECT a.id, a.event_id, a.user_id, a.status, a.created_at, u.name, u.email
		FROM event_attendees a
		JOIN users u ON u.id = a.user_id
		WHERE a.event_id = $1 AND a.status = $2
		ORDER BY a.created_at ASC
	`
	var views []entity.AttendeeView
	err := r.db.SelectContext(ctx, &views, query, eventID, constants.AttendeeStatusConfirmed)
	if err != nil {
		logger.Error("EventRepository:ListAttendeesJoined:Error:", err)
		return nil, err
	}
	return views, nil
}

// ListAttendeeRows is the first half of the fallback path: flat attendee rows
// with no join.
func (r *EventRepository) ListAttendeeRows(ctx context.Context, eventID uuid.UUID) ([]entity.Attendee, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at
		FROM event_attendees
		WHERE event_id = $1 AND status = $2
		ORDER BY created_at ASC
	`
	var attendees []entity.Attendee
	err := r.db.SelectContext(ctx, &attendees, query, eventID, constants.AttendeeStatusConfirmed)
	if err != nil {
		logger.Error("EventRepository:ListAttendeeRows:Error:", err)
		return nil, err
	}
	return attendees, nil
}

// ListUsersByIDs is the second half of the fallback path.
func (r *EventRepository) ListUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]UserRow, error) {
	if len(ids) == 0 {
		return []UserRow{}, nil
	}
	query := `SELECT id, name, email, role FROM users WHERE id = ANY($1)`
	var users []UserRow
	err := r.db.SelectContext(ctx, &users, query, pq.Array(ids))
	if err != nil {
		logger.Error("EventRepository:ListUsersByIDs:Error:", err)
		return nil, err
	}
	return users, nil
}

func (r *EventRepository) ListRegisteredEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT event_id FROM event_attendees
		WHERE user_id = $1 AND status = $2
	`
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, query, userID, constants.AttendeeStatusConfirmed)
	if err != nil {
		logger.Error("EventRepository:ListRegisteredEventIDs:Error:", err)
		return nil, err
	}
	return ids, nil
}

func (r *EventRepository) GetBookmark(ctx context.Context, eventID, userID uuid.UUID) (*entity.Bookmark, error) {
	query := `
		SELECT id, event_id, user_id, created_at
		FROM event_bookmarks
		WHERE event_id = $1 AND user_id = $2
	`
	var bookmark entity.Bookmark
	err := r.db.GetContext(ctx, &bookmark, query, eventID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.Error("EventRepository:GetBookmark:Error:", err)
		return nil, err
	}
	return &bookmark, nil
}

func (r *EventRepository) InsertBookmark(ctx context.Context, bookmark *entity.Bookmark) error {
	query := `
		INSERT INTO event_bookmarks (event_id, user_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	bookmark.CreatedAt = time.Now()
	row := r.db.QueryRowContext(ctx, query, bookmark.EventID, bookmark.UserID, bookmark.CreatedAt)
	if err := row.Scan(&bookmark.ID); err != nil {
		logger.Error("EventRepository:InsertBookmark:Error:", err)
		return err
	}
	return nil
}

func (r *EventRepository) DeleteBookmark(ctx context.Context, eventID, userID uuid.UUID) error {
	query := `DELETE FROM event_bookmarks WHERE event_id = $1 AND user_id = $2`
	if err := r.db.ExecContext(ctx, query, eventID, userID); err != nil {
		logger.Error("EventRepository:DeleteBookmark:Error:", err)
		return err
	}
	return nil
}

func (r *EventRepository) ListBookmarkedEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT event_id FROM event_bookmarks WHERE user_id = $1`
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, query, userID)
	if err != nil {
		logger.Error("EventRepository:ListBookmarkedEventIDs:Error:", err)
		return nil, err
	}
	return ids, nil
}
