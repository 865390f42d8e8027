package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"eventhub/core/constants"
	"eventhub/core/datetime"
	"eventhub/core/errors"
	"eventhub/core/logger"
	"eventhub/core/storage"
	"eventhub/core/utils"
	"eventhub/modules/event/dto"
	"eventhub/modules/event/entity"
	"eventhub/modules/event/mapper"
	"eventhub/modules/event/repository"
	"eventhub/modules/event/store"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// EventService owns every read and write on the event collection and its
// sub-resources. Reads go through the snapshot cache; every write path ends
// by invalidating it.
type EventService struct {
	repo   repository.EventRepositoryInterface
	cache  *store.Store
	images storage.ImageResolver
	now    func() time.Time
}

func NewEventService(repo repository.EventRepositoryInterface, cache *store.Store, images storage.ImageResolver) *EventService {
	return &EventService{
		repo:   repo,
		cache:  cache,
		images: images,
		now:    time.Now,
	}
}

// NewEventServiceWithClock is used by tests to pin the wall clock.
func NewEventServiceWithClock(repo repository.EventRepositoryInterface, cache *store.Store, images storage.ImageResolver, now func() time.Time) *EventService {
	return &EventService{repo: repo, cache: cache, images: images, now: now}
}

// ListAll serves from the snapshot cache when fresh, otherwise fetches the
// full ordered collection and re-primes the cache.
func (s *EventService) ListAll(ctx context.Context) ([]dto.EventResponse, error) {
	if events, ok := s.cache.Get(); ok {
		return mapper.ToEventResponses(events, s.images), nil
	}

	events, err := s.repo.ListAll(ctx)
	if err != nil {
		logger.Error("EventService:ListAll:Error:", err)
		return []dto.EventResponse{}, nil
	}
	s.cache.Put(events)
	return mapper.ToEventResponses(events, s.images), nil
}

// ListRaw is ListAll without DTO mapping, used by the coordinator to seed its
// in-memory view. The returned slice is a copy: the coordinator rewrites its
// list in place while reconciling, and those writes must never reach the
// cached snapshot.
func (s *EventService) ListRaw(ctx context.Context) ([]entity.Event, error) {
	events, ok := s.cache.Get()
	if !ok {
		fetched, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.Put(fetched)
		events = fetched
	}
	out := make([]entity.Event, len(events))
	copy(out, events)
	return out, nil
}

// ListByFilter always bypasses the cache.
func (s *EventService) ListByFilter(ctx context.Context, filter dto.EventFilter) ([]dto.EventResponse, error) {
	events, err := s.repo.ListByFilter(ctx, filter)
	if err != nil {
		logger.Error("EventService:ListByFilter:Error:", err)
		return []dto.EventResponse{}, nil
	}
	return mapper.ToEventResponses(events, s.images), nil
}

// Search falls back to ListAll for blank input.
func (s *EventService) Search(ctx context.Context, text string) ([]dto.EventResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return s.ListAll(ctx)
	}
	return s.ListByFilter(ctx, dto.EventFilter{Search: text})
}

// GetByID returns nil for a missing id rather than an error.
func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*dto.EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.Error("EventService:GetByID:Error:", err)
		return nil, nil
	}
	if event == nil {
		return nil, nil
	}
	resp := mapper.ToEventResponse(*event, s.images)
	return &resp, nil
}

// Create validates required fields, normalizes date and time, derives the
// initial status and slug, and invalidates the cache.
func (s *EventService) Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	if strings.TrimSpace(req.Title) == "" ||
		strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.Date) == "" ||
		strings.TrimSpace(req.Time) == "" ||
		strings.TrimSpace(req.Location) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title, description, date, time and location are required", nil)
	}

	isoDate, err := datetime.ValidateAndFormatDate(req.Date)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid date", err)
	}
	clock, err := datetime.NormalizeTimeFormat(req.Time)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid time", err)
	}

	// Past-dated events are accepted but flagged; rejecting would be a
	// behavior change that has not been confirmed with the product side.
	if datetime.IsPastDate(isoDate, s.now()) {
		logger.Warn("EventService:Create:PastDate", "date", isoDate, "title", req.Title)
	}

	event := &entity.Event{
		Title:        req.Title,
		Slug:         slug.Make(req.Title),
		Description:  req.Description,
		Date:         isoDate,
		Time:         clock,
		Location:     req.Location,
		CoverImage:   req.CoverImage,
		Category:     req.Category,
		Featured:     req.Featured,
		Status:       datetime.ComputeStatus(isoDate, clock, s.now()),
		Type:         req.Type,
		MaxCapacity:  req.MaxCapacity,
		Organizer:    req.Organizer,
		Tags:         req.Tags,
		Requirements: req.Requirements,
		Materials:    req.Materials,
	}

	if err := s.repo.Insert(ctx, event); err != nil {
		logger.Error("EventService:Create:Insert:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create event", err)
	}

	s.cache.Invalidate()
	resp := mapper.ToEventResponse(*event, s.images)
	return &resp, nil
}

// Update applies a sparse patch. Nil fields are untouched; a provided but
// empty text value is also skipped, so Update cannot clear a text field to
// "" (longstanding client behavior, kept deliberately).
func (s *EventService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateEventRequest) (bool, *errors.AppError) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil || current == nil {
		return false, nil
	}

	changedDate := false
	if req.Date != nil && *req.Date != "" {
		isoDate, derr := datetime.ValidateAndFormatDate(*req.Date)
		if derr != nil {
			return false, errors.NewAppError(errors.ErrInvalidInput, "invalid date", derr)
		}
		req.Date = &isoDate
		changedDate = true
	}
	if req.Time != nil && *req.Time != "" {
		clock, terr := datetime.NormalizeTimeFormat(*req.Time)
		if terr != nil {
			return false, errors.NewAppError(errors.ErrInvalidInput, "invalid time", terr)
		}
		req.Time = &clock
		changedDate = true
	}

	applyEventPatch(current, req)

	if req.Title != nil && *req.Title != "" {
		current.Slug = slug.Make(current.Title)
	}
	// A moved event may flip between upcoming and completed; re-derive unless
	// an administrator pinned the status.
	if changedDate && (current.Status == constants.EventStatusUpcoming || current.Status == constants.EventStatusCompleted) {
		current.Status = datetime.ComputeStatus(current.Date, current.Time, s.now())
	}

	if err := s.repo.Update(ctx, current); err != nil {
		logger.Error("EventService:Update:Error:", err)
		return false, nil
	}

	s.cache.Invalidate()
	return true, nil
}

// applyEventPatch merges non-nil, non-empty patch fields into the row.
// Booleans and integers are applied whenever present since false/0 cannot be
// distinguished from "cleared" in the original client either.
func applyEventPatch(event *entity.Event, patch *dto.UpdateEventRequest) {
	if patch.Title != nil && *patch.Title != "" {
		event.Title = *patch.Title
	}
	if patch.Description != nil && *patch.Description != "" {
		event.Description = *patch.Description
	}
	if patch.Date != nil && *patch.Date != "" {
		event.Date = *patch.Date
	}
	if patch.Time != nil && *patch.Time != "" {
		event.Time = *patch.Time
	}
	if patch.Location != nil && *patch.Location != "" {
		event.Location = *patch.Location
	}
	if patch.CoverImage != nil && *patch.CoverImage != "" {
		event.CoverImage = *patch.CoverImage
	}
	if patch.Category != nil && *patch.Category != "" {
		event.Category = *patch.Category
	}
	if patch.Featured != nil {
		event.Featured = *patch.Featured
	}
	if patch.Status != nil && *patch.Status != "" {
		event.Status = *patch.Status
	}
	if patch.Type != nil && *patch.Type != "" {
		event.Type = *patch.Type
	}
	if patch.MaxCapacity != nil {
		event.MaxCapacity = *patch.MaxCapacity
	}
	if patch.Organizer != nil && *patch.Organizer != "" {
		event.Organizer = *patch.Organizer
	}
	if patch.Tags != nil {
		event.Tags = *patch.Tags
	}
	if patch.Requirements != nil {
		event.Requirements = *patch.Requirements
	}
	if patch.Materials != nil {
		event.Materials = *patch.Materials
	}
}

// Delete cascades through feedback, attendees and bookmarks before the event
// row itself. Each step is best-effort: a failed step is logged and the rest
// still run. The cache is invalidated regardless of partial failure.
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) bool {
	defer s.cache.Invalidate()

	ok := true
	if err := s.repo.DeleteFeedbackByEvent(ctx, id); err != nil {
		logger.Error("EventService:Delete:Feedback:Error:", err, "event_id", id)
		ok = false
	}
	if err := s.repo.DeleteAttendeesByEvent(ctx, id); err != nil {
		logger.Error("EventService:Delete:Attendees:Error:", err, "event_id", id)
		ok = false
	}
	if err := s.repo.DeleteBookmarksByEvent(ctx, id); err != nil {
		logger.Error("EventService:Delete:Bookmarks:Error:", err, "event_id", id)
		ok = false
	}
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		logger.Error("EventService:Delete:Event:Error:", err, "event_id", id)
		return false
	}
	return ok
}

// GetAttendees prefers the single joined query; on any failure it falls back
// to two flat queries merged by user id, generating placeholder identities
// for users that cannot be resolved.
func (s *EventService) GetAttendees(ctx context.Context, eventID uuid.UUID) ([]dto.AttendeeResponse, error) {
	views, err := s.repo.ListAttendeesJoined(ctx, eventID)
	if err == nil {
		responses := make([]dto.AttendeeResponse, 0, len(views))
		for _, v := range views {
			responses = append(responses, mapper.ToAttendeeResponse(v))
		}
		return responses, nil
	}
	logger.Warn("EventService:GetAttendees:JoinFailed", "error", err, "event_id", eventID)

	attendees, err := s.repo.ListAttendeeRows(ctx, eventID)
	if err != nil {
		logger.Error("EventService:GetAttendees:Fallback:Error:", err)
		return []dto.AttendeeResponse{}, nil
	}

	ids := make([]uuid.UUID, 0, len(attendees))
	for _, a := range attendees {
		ids = append(ids, a.UserID)
	}
	users, err := s.repo.ListUsersByIDs(ctx, ids)
	if err != nil {
		logger.Error("EventService:GetAttendees:FallbackUsers:Error:", err)
		users = nil
	}
	byID := make(map[uuid.UUID]repository.UserRow, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	responses := make([]dto.AttendeeResponse, 0, len(attendees))
	for _, a := range attendees {
		resp := dto.AttendeeResponse{
			UserID:       a.UserID,
			Status:       a.Status,
			RegisteredAt: a.CreatedAt,
		}
		if u, found := byID[a.UserID]; found {
			resp.Name = u.Name
			resp.Email = u.Email
		} else {
			short := strings.Split(a.UserID.String(), "-")[0]
			resp.Name = "Member " + short
			resp.Email = fmt.Sprintf("member-%s@unknown", short)
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// Register creates the active registration, failing on a duplicate.
func (s *EventService) Register(ctx context.Context, eventID, userID uuid.UUID) *errors.AppError {
	existing, err := s.repo.GetActiveRegistration(ctx, eventID, userID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to check registration", err)
	}
	if existing != nil {
		return errors.NewAppError(errors.ErrAlreadyExists, "already registered", nil)
	}

	attendee := &entity.Attendee{
		EventID: eventID,
		UserID:  userID,
		Status:  constants.AttendeeStatusConfirmed,
	}
	if err := s.repo.InsertAttendee(ctx, attendee); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to register", err)
	}
	s.cache.Invalidate()
	return nil
}

func (s *EventService) Unregister(ctx context.Context, eventID, userID uuid.UUID) *errors.AppError {
	if err := s.repo.CancelAttendee(ctx, eventID, userID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to unregister", err)
	}
	s.cache.Invalidate()
	return nil
}

// Bookmark is idempotent: re-bookmarking an already saved event succeeds
// without a second row.
func (s *EventService) Bookmark(ctx context.Context, eventID, userID uuid.UUID) *errors.AppError {
	existing, err := s.repo.GetBookmark(ctx, eventID, userID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to check bookmark", err)
	}
	if existing != nil {
		return nil
	}
	bookmark := &entity.Bookmark{EventID: eventID, UserID: userID}
	if err := s.repo.InsertBookmark(ctx, bookmark); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to bookmark", err)
	}
	s.cache.Invalidate()
	return nil
}

func (s *EventService) Unbookmark(ctx context.Context, eventID, userID uuid.UUID) *errors.AppError {
	if err := s.repo.DeleteBookmark(ctx, eventID, userID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to remove bookmark", err)
	}
	s.cache.Invalidate()
	return nil
}

func (s *EventService) ListRegisteredEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.ListRegisteredEventIDs(ctx, userID)
}

func (s *EventService) ListBookmarkedEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.ListBookmarkedEventIDs(ctx, userID)
}

// SubmitFeedback gates on rating range, an active registration, a strictly
// past event date, and feedback uniqueness, in that order.
func (s *EventService) SubmitFeedback(ctx context.Context, eventID, userID uuid.UUID, username string, rating int, comment string) *errors.AppError {
	if rating < constants.FeedbackRatingMin || rating > constants.FeedbackRatingMax {
		return errors.NewAppError(errors.ErrInvalidInput, "rating must be between 1 and 5", nil)
	}

	registration, err := s.repo.GetActiveRegistration(ctx, eventID, userID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to check registration", err)
	}
	if registration == nil {
		return errors.NewAppError(errors.ErrForbidden, "feedback requires an active registration", nil)
	}

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil || event == nil {
		return errors.NewAppError(errors.ErrNotFound, "event not found", err)
	}
	if !datetime.IsPastDate(event.Date, s.now()) {
		return errors.NewAppError(errors.ErrInvalidInput, "feedback is only accepted after the event date", nil)
	}

	existing, err := s.repo.GetFeedback(ctx, eventID, userID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to check feedback", err)
	}
	if existing != nil {
		return errors.NewAppError(errors.ErrAlreadyExists, "feedback already submitted", nil)
	}

	feedback := &entity.Feedback{
		EventID:      eventID,
		UserID:       userID,
		Username:     username,
		Rating:       rating,
		Comment:      comment,
		FeedbackText: comment,
	}
	if err := s.repo.InsertFeedback(ctx, feedback); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to submit feedback", err)
	}
	return nil
}

// GetUserTracking derives the registered/attended view from registrations
// and event dates.
func (s *EventService) GetUserTracking(ctx context.Context, userID uuid.UUID) ([]entity.UserEventTracking, error) {
	rows, err := s.repo.ListUserTracking(ctx, userID)
	if err != nil {
		logger.Error("EventService:GetUserTracking:Error:", err)
		return []entity.UserEventTracking{}, nil
	}

	tracking := make([]entity.UserEventTracking, 0, len(rows))
	for _, row := range rows {
		status := entity.TrackingStatusRegistered
		if datetime.IsPastDate(row.EventDate, s.now()) {
			status = entity.TrackingStatusAttended
		}
		tracking = append(tracking, entity.UserEventTracking{
			EventID:           row.EventID,
			EventTitle:        row.EventTitle,
			EventDate:         row.EventDate,
			Status:            status,
			FeedbackSubmitted: row.FeedbackSubmitted,
			RegisteredAt:      row.RegisteredAt,
		})
	}
	return tracking, nil
}

// RecomputeStatus refreshes one event's derived status. Only upcoming events
// ever transition automatically, and only to completed; ongoing and cancelled
// are administrator-set and left alone. Returns whether a write happened.
func (s *EventService) RecomputeStatus(ctx context.Context, id uuid.UUID) (bool, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if event == nil {
		return false, nil
	}
	if event.Status != constants.EventStatusUpcoming {
		return false, nil
	}

	derived := datetime.ComputeStatus(event.Date, event.Time, s.now())
	if derived == event.Status {
		return false, nil
	}
	if err := s.repo.UpdateStatus(ctx, id, derived); err != nil {
		return false, err
	}
	s.cache.Invalidate()
	return true, nil
}

// RecomputeAllStatuses sweeps the whole collection and returns how many rows
// changed.
func (s *EventService) RecomputeAllStatuses(ctx context.Context) (int, error) {
	events, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, event := range events {
		if event.Status != constants.EventStatusUpcoming {
			continue
		}
		derived := datetime.ComputeStatus(event.Date, event.Time, s.now())
		if derived == event.Status {
			continue
		}
		if err := s.repo.UpdateStatus(ctx, event.ID, derived); err != nil {
			logger.Error("EventService:RecomputeAllStatuses:Error:", err, "event_id", event.ID)
			continue
		}
		changed++
	}
	if changed > 0 {
		s.cache.Invalidate()
	}
	return changed, nil
}

// InvalidateCache is exposed for the coordinator's manual refresh paths.
func (s *EventService) InvalidateCache() {
	s.cache.Invalidate()
}

// PresignCoverUpload mints an object key for a new cover image and returns a
// short-lived PUT URL for it alongside the key to store on the event.
func (s *EventService) PresignCoverUpload(ctx context.Context, filename string) (string, string, *errors.AppError) {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", "", errors.NewAppError(errors.ErrInvalidInput, "unsupported image type", nil)
	}

	key := "events/covers/" + utils.GenerateID() + ext
	url, err := s.images.PresignUpload(ctx, key, 15*time.Minute)
	if err != nil {
		logger.Error("EventService:PresignCoverUpload:Error:", err)
		return "", "", errors.NewAppError(errors.ErrInternalServer, "failed to presign upload", err)
	}
	return key, url, nil
}
