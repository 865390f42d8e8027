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
)

func (r *EventRepository) GetFeedback(ctx context.Context, eventID, userID uuid.UUID) (*entity.Feedback, error) {
	query := `
		SELECT id, event_id, user_id, username, rating, comment, feedback_text, created_at
		FROM event_feedback
		WHERE event_id = $1 AND user_id = $2
	`
	var feedback entity.Feedback
	err := r.db.GetContext(ctx, &feedback, query, eventID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.Error("EventRepository:GetFeedback:Error:", err)
		return nil, err
	}
	return &feedback, nil
}

func (r *EventRepository) InsertFeedback(ctx context.Context, feedback *entity.Feedback) error {
	query := `
		INSERT INTO event_feedback (event_id, user_id, username, rating, comment, feedback_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	feedback.CreatedAt = time.Now()
	row := r.db.QueryRowContext(ctx, query,
		feedback.EventID, feedback.UserID, feedback.Username,
		feedback.Rating, feedback.Comment, feedback.FeedbackText, feedback.CreatedAt)
	if err := row.Scan(&feedback.ID); err != nil {
		logger.Error("EventRepository:InsertFeedback:Error:", err)
		return err
	}
	return nil
}

// TrackingRow backs the derived UserEventTracking view.
type TrackingRow struct {
	EventID           uuid.UUID `db:"event_id"`
	EventTitle        string    `db:"title"`
	EventDate         string    `db:"date"`
	RegisteredAt      time.Time `db:"created_at"`
	FeedbackSubmitted bool      `db:"feedback_submitted"`
}

// ListUserTracking returns one row per active registration with the event's
// title/date and whether feedback exists for the pair.
func (r *EventRepository) ListUserTracking(ctx context.Context, userID uuid.UUID) ([]TrackingRow, error) {
	query := `
		SELECT a.event_id, e.title, e.date, a.created_at,
			EXISTS (
				SELECT 1 FROM event_feedback f
				WHERE f.event_id = a.event_id AND f.user_id = a.user_id
			) AS feedback_submitted
		FROM event_attendees a
		JOIN events e ON e.id = a.event_id
		WHERE a.user_id = $1 AND a.status = $2
		ORDER BY e.date ASC
	`
	var rows []TrackingRow
	err := r.db.SelectContext(ctx, &rows, query, userID, constants.AttendeeStatusConfirmed)
	if err != nil {
		logger.Error("EventRepository:ListUserTracking:Error:", err)
		return nil, err
	}
	return rows, nil
}
