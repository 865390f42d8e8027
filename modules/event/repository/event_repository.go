package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eventhub/core/database"
	"eventhub/core/logger"
	"eventhub/core/realtime"
	"eventhub/modules/event/dto"
	"eventhub/modules/event/entity"

	"github.com/google/uuid"
)

// EventRepositoryInterface is what the service and tests depend on.
type EventRepositoryInterface interface {
	ListAll(ctx context.Context) ([]entity.Event, error)
	ListByFilter(ctx context.Context, filter dto.EventFilter) ([]entity.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	Insert(ctx context.Context, event *entity.Event) error
	Update(ctx context.Context, event *entity.Event) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	DeleteFeedbackByEvent(ctx context.Context, eventID uuid.UUID) error
	DeleteAttendeesByEvent(ctx context.Context, eventID uuid.UUID) error
	DeleteBookmarksByEvent(ctx context.Context, eventID uuid.UUID) error

	GetActiveRegistration(ctx context.Context, eventID, userID uuid.UUID) (*entity.Attendee, error)
	InsertAttendee(ctx context.Context, attendee *entity.Attendee) error
	CancelAttendee(ctx context.Context, eventID, userID uuid.UUID) error
	ListAttendeesJoined(ctx context.Context, eventID uuid.UUID) ([]entity.AttendeeView, error)
	ListAttendeeRows(ctx context.Context, eventID uuid.UUID) ([]entity.Attendee, error)
	ListUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]UserRow, error)
	ListRegisteredEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	GetBookmark(ctx context.Context, eventID, userID uuid.UUID) (*entity.Bookmark, error)
	InsertBookmark(ctx context.Context, bookmark *entity.Bookmark) error
	DeleteBookmark(ctx context.Context, eventID, userID uuid.UUID) error
	ListBookmarkedEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	GetFeedback(ctx context.Context, eventID, userID uuid.UUID) (*entity.Feedback, error)
	InsertFeedback(ctx context.Context, feedback *entity.Feedback) error
	ListUserTracking(ctx context.Context, userID uuid.UUID) ([]TrackingRow, error)
}

// UserRow is the read-only slice of the users table this module consumes for
// attendee display names.
type UserRow struct {
	ID    uuid.UUID `db:"id"`
	Name  string    `db:"name"`
	Email string    `db:"email"`
	Role  string    `db:"role"`
}

type EventRepository struct {
	db   database.IDatabase
	feed realtime.Feed
}

func NewEventRepository(db database.IDatabase, feed realtime.Feed) *EventRepository {
	return &EventRepository{db: db, feed: feed}
}

const eventColumns = `id, title, slug, description, date, time, location, cover_image,
	category, featured, status, type, max_capacity, organizer,
	tags, requirements, materials, created_at, updated_at`

// ListAll returns the full collection ordered by date.
func (r *EventRepository) ListAll(ctx context.Context) ([]entity.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events ORDER BY date ASC, time ASC`, eventColumns)
	var events []entity.Event
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		logger.Error("EventRepository:ListAll:Error:", err)
		return nil, err
	}
	return events, nil
}

// ListByFilter builds a conjunctive equality query plus an optional
// disjunctive title/description substring match.
func (r *EventRepository) ListByFilter(ctx context.Context, filter dto.EventFilter) ([]entity.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE 1=1`, eventColumns)
	args := []any{}
	idx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", idx)
		args = append(args, filter.Category)
		idx++
	}
	if filter.Location != "" {
		query += fmt.Sprintf(" AND location = $%d", idx)
		args = append(args, filter.Location)
		idx++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", idx, idx+1)
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
		idx += 2
	}
	query += " ORDER BY date ASC, time ASC"

	var events []entity.Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		logger.Error("EventRepository:ListByFilter:Error:", err)
		return nil, err
	}
	return events, nil
}

// GetByID returns nil, nil when no row matches.
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	var event entity.Event
	err := r.db.GetContext(ctx, &event, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.Error("EventRepository:GetByID:Error:", err)
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) Insert(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (title, slug, description, date, time, location, cover_image,
			category, featured, status, type, max_capacity, organizer,
			tags, requirements, materials, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id
	`
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	row := r.db.QueryRowContext(ctx, query,
		event.Title, event.Slug, event.Description, event.Date, event.Time,
		event.Location, event.CoverImage, event.Category, event.Featured,
		event.Status, event.Type, event.MaxCapacity, event.Organizer,
		event.Tags, event.Requirements, event.Materials,
		event.CreatedAt, event.UpdatedAt,
	)
	if err := row.Scan(&event.ID); err != nil {
		logger.Error("EventRepository:Insert:Error:", err)
		return err
	}

	r.publish(ctx, realtime.ChangeInsert, event, nil)
	return nil
}

// Update writes the full row; the service is responsible for merging the
// sparse patch into the current row first.
func (r *EventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET title = $1, slug = $2, description = $3, date = $4, time = $5,
			location = $6, cover_image = $7, category = $8, featured = $9,
			status = $10, type = $11, max_capacity = $12, organizer = $13,
			tags = $14, requirements = $15, materials = $16, updated_at = $17
		WHERE id = $18
	`
	event.UpdatedAt = time.Now()
	err := r.db.ExecContext(ctx, query,
		event.Title, event.Slug, event.Description, event.Date, event.Time,
		event.Location, event.CoverImage, event.Category, event.Featured,
		event.Status, event.Type, event.MaxCapacity, event.Organizer,
		event.Tags, event.Requirements, event.Materials,
		event.UpdatedAt, event.ID,
	)
	if err != nil {
		logger.Error("EventRepository:Update:Error:", err)
		return err
	}

	r.publish(ctx, realtime.ChangeUpdate, event, nil)
	return nil
}

// UpdateStatus writes only the derived status column.
func (r *EventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE events SET status = $1, updated_at = $2 WHERE id = $3`
	if err := r.db.ExecContext(ctx, query, status, time.Now(), id); err != nil {
		logger.Error("EventRepository:UpdateStatus:Error:", err)
		return err
	}

	event, err := r.GetByID(ctx, id)
	if err == nil && event != nil {
		r.publish(ctx, realtime.ChangeUpdate, event, nil)
	}
	return nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM events WHERE id = $1`
	if err := r.db.ExecContext(ctx, query, id); err != nil {
		logger.Error("EventRepository:DeleteEvent:Error:", err)
		return err
	}

	r.publish(ctx, realtime.ChangeDelete, nil, &realtime.ChangeRef{ID: id})
	return nil
}

func (r *EventRepository) DeleteFeedbackByEvent(ctx context.Context, eventID uuid.UUID) error {
	if err := r.db.ExecContext(ctx, `DELETE FROM event_feedback WHERE event_id = $1`, eventID); err != nil {
		logger.Error("EventRepository:DeleteFeedbackByEvent:Error:", err)
		return err
	}
	return nil
}

func (r *EventRepository) DeleteAttendeesByEvent(ctx context.Context, eventID uuid.UUID) error {
	if err := r.db.ExecContext(ctx, `DELETE FROM event_attendees WHERE event_id = $1`, eventID); err != nil {
		logger.Error("EventRepository:DeleteAttendeesByEvent:Error:", err)
		return err
	}
	return nil
}

func (r *EventRepository) DeleteBookmarksByEvent(ctx context.Context, eventID uuid.UUID) error {
	if err := r.db.ExecContext(ctx, `DELETE FROM event_bookmarks WHERE event_id = $1`, eventID); err != nil {
		logger.Error("EventRepository:DeleteBookmarksByEvent:Error:", err)
		return err
	}
	return nil
}

// publish pushes a change notification onto the feed. Feed failures are
// logged, never propagated: the write already succeeded.
func (r *EventRepository) publish(ctx context.Context, changeType string, event *entity.Event, old *realtime.ChangeRef) {
	if r.feed == nil {
		return
	}
	change := realtime.Change{Type: changeType, Old: old}
	if event != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			logger.Error("EventRepository:publish:Marshal:Error:", err)
			return
		}
		change.New = payload
	}
	if err := r.feed.Publish(ctx, change); err != nil {
		logger.Error("EventRepository:publish:Error:", err, "type", changeType)
	}
}
