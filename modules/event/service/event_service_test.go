package service

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "eventhub/core/errors"
	"eventhub/modules/event/dto"
	"eventhub/modules/event/entity"
	"eventhub/modules/event/repository"
	"eventhub/modules/event/store"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory EventRepositoryInterface for service tests.
type fakeRepo struct {
	events    map[uuid.UUID]*entity.Event
	attendees []entity.Attendee
	bookmarks []entity.Bookmark
	feedback  []entity.Feedback

	listCalls    int
	joinErr      error
	deleteErrs   map[string]error
	cascadeOrder []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		events:     make(map[uuid.UUID]*entity.Event),
		deleteErrs: make(map[string]error),
	}
}

func (f *fakeRepo) ListAll(ctx context.Context) ([]entity.Event, error) {
	f.listCalls++
	out := make([]entity.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeRepo) ListByFilter(ctx context.Context, filter dto.EventFilter) ([]entity.Event, error) {
	return f.ListAll(ctx)
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	clone := *e
	return &clone, nil
}

func (f *fakeRepo) Insert(ctx context.Context, event *entity.Event) error {
	event.ID = uuid.New()
	stored := *event
	f.events[event.ID] = &stored
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, event *entity.Event) error {
	stored := *event
	f.events[event.ID] = &stored
	return nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if e, ok := f.events[id]; ok {
		e.Status = status
	}
	return nil
}

func (f *fakeRepo) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	f.cascadeOrder = append(f.cascadeOrder, "event")
	if err := f.deleteErrs["event"]; err != nil {
		return err
	}
	delete(f.events, id)
	return nil
}

func (f *fakeRepo) DeleteFeedbackByEvent(ctx context.Context, eventID uuid.UUID) error {
	f.cascadeOrder = append(f.cascadeOrder, "feedback")
	if err := f.deleteErrs["feedback"]; err != nil {
		return err
	}
	kept := f.feedback[:0]
	for _, fb := range f.feedback {
		if fb.EventID != eventID {
			kept = append(kept, fb)
		}
	}
	f.feedback = kept
	return nil
}

func (f *fakeRepo) DeleteAttendeesByEvent(ctx context.Context, eventID uuid.UUID) error {
	f.cascadeOrder = append(f.cascadeOrder, "attendees")
	if err := f.deleteErrs["attendees"]; err != nil {
		return err
	}
	kept := f.attendees[:0]
	for _, a := range f.attendees {
		if a.EventID != eventID {
			kept = append(kept, a)
		}
	}
	f.attendees = kept
	return nil
}

func (f *fakeRepo) DeleteBookmarksByEvent(ctx context.Context, eventID uuid.UUID) error {
	f.cascadeOrder = append(f.cascadeOrder, "bookmarks")
	if err := f.deleteErrs["bookmarks"]; err != nil {
		return err
	}
	kept := f.bookmarks[:0]
	for _, b := range f.bookmarks {
		if b.EventID != eventID {
			kept = append(kept, b)
		}
	}
	f.bookmarks = kept
	return nil
}

func (f *fakeRepo) GetActiveRegistration(ctx context.Context, eventID, userID uuid.UUID) (*entity.Attendee, error) {
	for i := range f.attendees {
		a := f.attendees[i]
		if a.EventID == eventID && a.UserID == userID && a.Status == "confirmed" {
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) InsertAttendee(ctx context.Context, attendee *entity.Attendee) error {
	attendee.ID = uuid.New()
	attendee.CreatedAt = time.Now()
	f.attendees = append(f.attendees, *attendee)
	return nil
}

func (f *fakeRepo) CancelAttendee(ctx context.Context, eventID, userID uuid.UUID) error {
	for i := range f.attendees {
		if f.attendees[i].EventID == eventID && f.attendees[i].UserID == userID && f.attendees[i].Status == "confirmed" {
			f.attendees[i].Status = "cancelled"
		}
	}
	return nil
}

func (f *fakeRepo) ListAttendeesJoined(ctx context.Context, eventID uuid.UUID) ([]entity.AttendeeView, error) {
	if f.joinErr != nil {
		return nil, f.joinErr
	}
	var views []entity.AttendeeView
	for _, a := range f.attendees {
		if a.EventID == eventID && a.Status == "confirmed" {
			views = append(views, entity.AttendeeView{
				ID: a.ID, EventID: a.EventID, UserID: a.UserID,
				Status: a.Status, RegisteredAt: a.CreatedAt,
				Name: "Joined User", Email: "joined@example.com",
			})
		}
	}
	return views, nil
}

func (f *fakeRepo) ListAttendeeRows(ctx context.Context, eventID uuid.UUID) ([]entity.Attendee, error) {
	var rows []entity.Attendee
	for _, a := range f.attendees {
		if a.EventID == eventID && a.Status == "confirmed" {
			rows = append(rows, a)
		}
	}
	return rows, nil
}

func (f *fakeRepo) ListUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]repository.UserRow, error) {
	return nil, nil
}

func (f *fakeRepo) ListRegisteredEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, a := range f.attendees {
		if a.UserID == userID && a.Status == "confirmed" {
			ids = append(ids, a.EventID)
		}
	}
	return ids, nil
}

func (f *fakeRepo) GetBookmark(ctx context.Context, eventID, userID uuid.UUID) (*entity.Bookmark, error) {
	for i := range f.bookmarks {
		b := f.bookmarks[i]
		if b.EventID == eventID && b.UserID == userID {
			return &b, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) InsertBookmark(ctx context.Context, bookmark *entity.Bookmark) error {
	bookmark.ID = uuid.New()
	f.bookmarks = append(f.bookmarks, *bookmark)
	return nil
}

func (f *fakeRepo) DeleteBookmark(ctx context.Context, eventID, userID uuid.UUID) error {
	kept := f.bookmarks[:0]
	for _, b := range f.bookmarks {
		if !(b.EventID == eventID && b.UserID == userID) {
			kept = append(kept, b)
		}
	}
	f.bookmarks = kept
	return nil
}

func (f *fakeRepo) ListBookmarkedEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, b := range f.bookmarks {
		if b.UserID == userID {
			ids = append(ids, b.EventID)
		}
	}
	return ids, nil
}

func (f *fakeRepo) GetFeedback(ctx context.Context, eventID, userID uuid.UUID) (*entity.Feedback, error) {
	for i := range f.feedback {
		fb := f.feedback[i]
		if fb.EventID == eventID && fb.UserID == userID {
			return &fb, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) InsertFeedback(ctx context.Context, feedback *entity.Feedback) error {
	feedback.ID = uuid.New()
	f.feedback = append(f.feedback, *feedback)
	return nil
}

func (f *fakeRepo) ListUserTracking(ctx context.Context, userID uuid.UUID) ([]repository.TrackingRow, error) {
	var rows []repository.TrackingRow
	for _, a := range f.attendees {
		if a.UserID != userID || a.Status != "confirmed" {
			continue
		}
		e, ok := f.events[a.EventID]
		if !ok {
			continue
		}
		submitted := false
		for _, fb := range f.feedback {
			if fb.EventID == a.EventID && fb.UserID == userID {
				submitted = true
			}
		}
		rows = append(rows, repository.TrackingRow{
			EventID: a.EventID, EventTitle: e.Title, EventDate: e.Date,
			RegisteredAt: a.CreatedAt, FeedbackSubmitted: submitted,
		})
	}
	return rows, nil
}

var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo) *EventService {
	cache := store.NewStoreWithClock(5*time.Minute, func() time.Time { return testNow })
	return NewEventServiceWithClock(repo, cache, nil, func() time.Time { return testNow })
}

func seedEvent(repo *fakeRepo, date, clock, status string) uuid.UUID {
	id := uuid.New()
	repo.events[id] = &entity.Event{
		ID: id, Title: "Seeded", Description: "seeded event",
		Date: date, Time: clock, Location: "Hall A", Status: status,
	}
	return id
}

func TestCreateRejectsMissingRequiredFields(t *testing.T) {
	svc := newTestService(newFakeRepo())

	reqs := []dto.CreateEventRequest{
		{Description: "d", Date: "2025-02-01", Time: "10:00", Location: "l"},
		{Title: "t", Date: "2025-02-01", Time: "10:00", Location: "l"},
		{Title: "t", Description: "d", Time: "10:00", Location: "l"},
		{Title: "t", Description: "d", Date: "2025-02-01", Location: "l"},
		{Title: "t", Description: "d", Date: "2025-02-01", Time: "10:00"},
	}
	for i, req := range reqs {
		if _, err := svc.Create(context.Background(), &req); err == nil {
			t.Errorf("case %d: Create should reject missing required field", i)
		}
	}
}

func TestCreateNormalizesDateAndTime(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	resp, err := svc.Create(context.Background(), &dto.CreateEventRequest{
		Title: "Workshop", Description: "Intro", Date: "01/20/2025",
		Time: "2:30 PM", Location: "Lab",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if resp.Date != "2025-01-20" {
		t.Errorf("date = %q, want 2025-01-20", resp.Date)
	}
	if resp.Time != "14:30" {
		t.Errorf("time = %q, want 14:30", resp.Time)
	}
	if resp.Status != "upcoming" {
		t.Errorf("status = %q, want upcoming", resp.Status)
	}
	if resp.Slug != "workshop" {
		t.Errorf("slug = %q, want workshop", resp.Slug)
	}
}

func TestCreateRejectsBadDateOrTime(t *testing.T) {
	svc := newTestService(newFakeRepo())

	if _, err := svc.Create(context.Background(), &dto.CreateEventRequest{
		Title: "t", Description: "d", Date: "not a date", Time: "10:00", Location: "l",
	}); err == nil || err.Code != apperrors.ErrInvalidInput {
		t.Error("Create should reject an unparseable date")
	}
	if _, err := svc.Create(context.Background(), &dto.CreateEventRequest{
		Title: "t", Description: "d", Date: "2025-02-01", Time: "25:00", Location: "l",
	}); err == nil || err.Code != apperrors.ErrInvalidInput {
		t.Error("Create should reject an out-of-range time")
	}
}

func TestCreateAcceptsPastDate(t *testing.T) {
	svc := newTestService(newFakeRepo())

	resp, err := svc.Create(context.Background(), &dto.CreateEventRequest{
		Title: "Retro", Description: "d", Date: "2024-12-01", Time: "10:00", Location: "l",
	})
	if err != nil {
		t.Fatalf("past-dated create should be accepted, got %v", err)
	}
	if resp.Status != "completed" {
		t.Errorf("past event status = %q, want completed", resp.Status)
	}
}

func TestListAllUsesCacheWithinTTL(t *testing.T) {
	repo := newFakeRepo()
	seedEvent(repo, "2025-02-01", "10:00", "upcoming")
	svc := newTestService(repo)

	if _, err := svc.ListAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ListAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if repo.listCalls != 1 {
		t.Errorf("ListAll hit the backend %d times, want 1 (second read served from cache)", repo.listCalls)
	}
}

func TestListAllRefetchesAfterMutation(t *testing.T) {
	repo := newFakeRepo()
	seedEvent(repo, "2025-02-01", "10:00", "upcoming")
	svc := newTestService(repo)

	if _, err := svc.ListAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, appErr := svc.Create(context.Background(), &dto.CreateEventRequest{
		Title: "New", Description: "d", Date: "2025-03-01", Time: "10:00", Location: "l",
	}); appErr != nil {
		t.Fatal(appErr)
	}
	if _, err := svc.ListAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if repo.listCalls != 2 {
		t.Errorf("ListAll hit the backend %d times, want 2 (create invalidates)", repo.listCalls)
	}
}

func TestFilterBypassesCache(t *testing.T) {
	repo := newFakeRepo()
	seedEvent(repo, "2025-02-01", "10:00", "upcoming")
	svc := newTestService(repo)

	if _, err := svc.ListAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ListByFilter(context.Background(), dto.EventFilter{Category: "tech"}); err != nil {
		t.Fatal(err)
	}
	if repo.listCalls != 2 {
		t.Errorf("filter should bypass cache, backend calls = %d, want 2", repo.listCalls)
	}
}

func TestUpdatePatchSkipsNilAndEmpty(t *testing.T) {
	repo := newFakeRepo()
	id := seedEvent(repo, "2025-02-01", "10:00", "upcoming")
	svc := newTestService(repo)

	empty := ""
	newLoc := "Hall B"
	ok, appErr := svc.Update(context.Background(), id, &dto.UpdateEventRequest{
		Title:    &empty, // provided but empty: skipped (cannot clear via patch)
		Location: &newLoc,
	})
	if appErr != nil || !ok {
		t.Fatalf("Update failed: ok=%v err=%v", ok, appErr)
	}

	got := repo.events[id]
	if got.Title != "Seeded" {
		t.Errorf("empty title overwrote the stored value: %q", got.Title)
	}
	if got.Location != "Hall B" {
		t.Errorf("location = %q, want Hall B", got.Location)
	}
}

func TestUpdateMissingEventReturnsFalse(t *testing.T) {
	svc := newTestService(newFakeRepo())
	title := "x"
	ok, appErr := svc.Update(context.Background(), uuid.New(), &dto.UpdateEventRequest{Title: &title})
	if ok || appErr != nil {
		t.Errorf("Update of a missing event: ok=%v err=%v, want false,nil", ok, appErr)
	}
}

func TestUpdateRederivesStatusOnDateChange(t *testing.T) {
	repo := newFakeRepo()
	id := seedEvent(repo, "2025-02-01", "10:00", "upcoming")
	svc := newTestService(repo)

	past := "2025-01-01"
	ok, appErr := svc.Update(context.Background(), id, &dto.UpdateEventRequest{Date: &past})
	if appErr != nil || !ok {
		t.Fatalf("Update failed: %v", appErr)
	}
	if repo.events[id].Status != "completed" {
		t.Errorf("status = %q, want completed after moving date into the past", repo.events[id].Status)
	}
}

func TestUpdateNeverTouchesAdminStatuses(t *testing.T) {
	repo := newFakeRepo()
	id := seedEvent(repo, "2025-02-01", "10:00", "cancelled")
	svc := newTestService(repo)

	past := "2025-01-01"
	if _, appErr := svc.Update(context.Background(), id, &dto.UpdateEventRequest{Date: &past}); appErr != nil {
		t.Fatal(appErr)
	}
	if repo.events[id].Status != "cancelled" {
		t.Errorf("cancelled status was overwritten to %q", repo.events[id].Status)
	}
}

func TestDeleteCascadeOrder(t *testing.T) {
	repo := newFakeRepo()
	id := seedEvent(repo, "2025-01-01", "10:00", "completed")
	userID := uuid.New()
	repo.attendees = append(repo.attendees, entity.Attendee{ID: uuid.New(), EventID: id, UserID: userID, Status: "confirmed"})
	repo.bookmarks = append(repo.bookmarks, entity.Bookmark{ID: uuid.New(), EventID: id, UserID: userID})
	repo.feedback = append(repo.feedback, entity.Feedback{ID: uuid.New(), EventID: id, UserID: userID, Rating: 5})
	svc := newTestService(repo)

	if !svc.Delete(context.Background(), id) {
		t.Fatal("Delete failed")
	}

	want := []string{"feedback", "attendees", "bookmarks", "event"}
	if len(repo.cascadeOrder) != len(want) {
		t.Fatalf("cascade steps = %v, want %v", repo.cascadeOrder, want)
	}
	for i := range want {
		if repo.cascadeOrder[i] != want[i] {
			t.Fatalf("cascade order = %v, want %v", repo.cascadeOrder, want)
		}
	}
	if len(repo.feedback) != 0 || len(repo.attendees) != 0 || len(repo.bookmarks) != 0 {
		t.Error("dependent rows survived the cascade")
	}
	if _, ok := repo.events[id]; ok {
		t.Error("event row survived the cascade")
	}
}

func TestDeleteContinuesPastFailedStep(t *testing.T) {
	repo := newFakeRepo()
	id := seedEvent(repo, "2025-01-01", "10:00", "completed")
	repo.deleteErrs["feedback"] = errors.New("boom")
	svc := newTestService(repo)

	svc.Delete(context.Background(), id)

	want := []string{"feedback", "attendees", "bookmarks", "event"}
	if len(repo.cascadeOrder) != len(want) {
		t.Fatalf("a failed cascade step aborted the rest: %v", repo.cascadeOrder)
	}
	if _, ok := repo.events[id]; ok {
		t.Error("event row should still be deleted after a failed cascade step")
	}
}

func TestRegisterIsUniquePerUserAndEvent(t *testing.T) {
	repo := newFakeRepo()
	id := seedEvent(repo, "2025-02-01", "10:00", "upcoming")
	userID := uuid.New()
	svc := newTestService(repo)

	if err := svc.Register(context.Background(), id, userID); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	err := svc.Register(context.Background(), id, userID)
	if err == nil || err.Code != apperrors.ErrAlreadyExists {
		t.Fatalf("second register = %v, want ErrAlreadyExists", err)
	}

	active := 0
	for _, a := range repo.attendees {
		if a.EventID == id && a.UserID == userID && a.Status == "confirmed" {
			active++
		}
	}
	if active != 1 {
		t.Errorf("active registrations = %d, want exactly 1", active)
	}
}

func TestRegisterAllowedAgainAfterUnregister(t *testing.T) {
	repo := newFakeRepo()
	id := seedEvent(repo, "2025-02-01", "10:00", "upcoming")
	userID := uuid.New()
	svc := newTestService(repo)

	if err := svc.Register(context.Background(), id, userID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Unregister(context.Background(), id, userID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Register(context.Background(), id, userID); err != nil {
		t.Errorf("register after unregister failed: %v", err)
	}
}

func TestSubmitFeedbackGates(t *testing.T) {
	repo := newFakeRepo()
	pastEvent := seedEvent(repo, "2025-01-01", "10:00", "completed")
	todayEvent := seedEvent(repo, "2025-01-15", "10:00", "upcoming")
	futureEvent := seedEvent(repo, "2025-02-01", "10:00", "upcoming")
	userID := uuid.New()
	svc := newTestService(repo)

	for _, id := range []uuid.UUID{pastEvent, todayEvent, futureEvent} {
		if err := svc.Register(context.Background(), id, userID); err != nil {
			t.Fatal(err)
		}
	}

	if err := svc.SubmitFeedback(context.Background(), pastEvent, userID, "user", 0, "c"); err == nil || err.Code != apperrors.ErrInvalidInput {
		t.Error("rating 0 should be rejected")
	}
	if err := svc.SubmitFeedback(context.Background(), pastEvent, userID, "user", 6, "c"); err == nil || err.Code != apperrors.ErrInvalidInput {
		t.Error("rating 6 should be rejected")
	}
	if err := svc.SubmitFeedback(context.Background(), todayEvent, userID, "user", 4, "c"); err == nil {
		t.Error("feedback for a same-day event should be rejected")
	}
	if err := svc.SubmitFeedback(context.Background(), futureEvent, userID, "user", 4, "c"); err == nil {
		t.Error("feedback for a future event should be rejected")
	}

	stranger := uuid.New()
	if err := svc.SubmitFeedback(context.Background(), pastEvent, stranger, "user", 4, "c"); err == nil || err.Code != apperrors.ErrForbidden {
		t.Error("feedback without a registration should be rejected")
	}

	if err := svc.SubmitFeedback(context.Background(), pastEvent, userID, "user", 4, "great"); err != nil {
		t.Fatalf("valid feedback rejected: %v", err)
	}
	if err := svc.SubmitFeedback(context.Background(), pastEvent, userID, "user", 5, "again"); err == nil || err.Code != apperrors.ErrAlreadyExists {
		t.Error("duplicate feedback should be rejected")
	}
}

func TestRecomputeStatusOnlyMovesUpcomingToCompleted(t *testing.T) {
	repo := newFakeRepo()
	stale := seedEvent(repo, "2025-01-01", "10:00", "upcoming")
	future := seedEvent(repo, "2025-02-01", "10:00", "upcoming")
	ongoing := seedEvent(repo, "2025-01-01", "10:00", "ongoing")
	cancelled := seedEvent(repo, "2025-01-01", "10:00", "cancelled")
	svc := newTestService(repo)

	changed, err := svc.RecomputeStatus(context.Background(), stale)
	if err != nil || !changed {
		t.Fatalf("stale upcoming event should flip to completed: changed=%v err=%v", changed, err)
	}
	if repo.events[stale].Status != "completed" {
		t.Errorf("status = %q, want completed", repo.events[stale].Status)
	}

	for name, id := range map[string]uuid.UUID{"future": future, "ongoing": ongoing, "cancelled": cancelled} {
		changed, err := svc.RecomputeStatus(context.Background(), id)
		if err != nil {
			t.Fatal(err)
		}
		if changed {
			t.Errorf("%s event should not change", name)
		}
	}
	if repo.events[ongoing].Status != "ongoing" || repo.events[cancelled].Status != "cancelled" {
		t.Error("admin-set statuses must never be overwritten")
	}
}

func TestRecomputeAllCountsChanges(t *testing.T) {
	repo := newFakeRepo()
	seedEvent(repo, "2025-01-01", "10:00", "upcoming")
	seedEvent(repo, "2025-01-02", "10:00", "upcoming")
	seedEvent(repo, "2025-02-01", "10:00", "upcoming")
	seedEvent(repo, "2025-01-01", "10:00", "cancelled")
	svc := newTestService(repo)

	changed, err := svc.RecomputeAllStatuses(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if changed != 2 {
		t.Errorf("changed = %d, want 2", changed)
	}
}

func TestGetAttendeesFallsBackOnJoinFailure(t *testing.T) {
	repo := newFakeRepo()
	id := seedEvent(repo, "2025-02-01", "10:00", "upcoming")
	userID := uuid.New()
	repo.attendees = append(repo.attendees, entity.Attendee{ID: uuid.New(), EventID: id, UserID: userID, Status: "confirmed"})
	repo.joinErr = errors.New("join not available")
	svc := newTestService(repo)

	attendees, err := svc.GetAttendees(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if len(attendees) != 1 {
		t.Fatalf("attendees = %d, want 1 from fallback path", len(attendees))
	}
	if attendees[0].Name == "" || attendees[0].Email == "" {
		t.Error("fallback should generate placeholder identity for unresolved users")
	}
}

func TestGetUserTrackingDerivesStatus(t *testing.T) {
	repo := newFakeRepo()
	past := seedEvent(repo, "2025-01-01", "10:00", "completed")
	future := seedEvent(repo, "2025-02-01", "10:00", "upcoming")
	userID := uuid.New()
	svc := newTestService(repo)

	for _, id := range []uuid.UUID{past, future} {
		if err := svc.Register(context.Background(), id, userID); err != nil {
			t.Fatal(err)
		}
	}
	if err := svc.SubmitFeedback(context.Background(), past, userID, "user", 5, "c"); err != nil {
		t.Fatal(err)
	}

	tracking, err := svc.GetUserTracking(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracking) != 2 {
		t.Fatalf("tracking rows = %d, want 2", len(tracking))
	}
	for _, row := range tracking {
		switch row.EventID {
		case past:
			if row.Status != "attended" || !row.FeedbackSubmitted {
				t.Errorf("past event tracking = %+v, want attended with feedback", row)
			}
		case future:
			if row.Status != "registered" || row.FeedbackSubmitted {
				t.Errorf("future event tracking = %+v, want registered without feedback", row)
			}
		}
	}
}

func TestListRawHandsOutDetachedSlice(t *testing.T) {
	repo := newFakeRepo()
	seedEvent(repo, "2025-02-01", "10:00", "upcoming")
	svc := newTestService(repo)

	first, err := svc.ListRaw(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	first[0].Title = "rewritten by caller"

	second, err := svc.ListRaw(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if second[0].Title != "Seeded" {
		t.Errorf("caller write leaked into the cached snapshot: title = %q", second[0].Title)
	}
	if repo.listCalls != 1 {
		t.Errorf("second ListRaw hit the backend %d times, want 1 (served from cache)", repo.listCalls)
	}

	listed, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if listed[0].Title != "Seeded" {
		t.Errorf("ListAll saw the caller's write: title = %q", listed[0].Title)
	}
}

func TestBookmarkMutationsInvalidateSnapshot(t *testing.T) {
	repo := newFakeRepo()
	id := seedEvent(repo, "2025-02-01", "10:00", "upcoming")
	userID := uuid.New()
	svc := newTestService(repo)

	if _, err := svc.ListAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := svc.Bookmark(context.Background(), id, userID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ListAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if repo.listCalls != 2 {
		t.Fatalf("backend calls = %d, want 2 (bookmark invalidates)", repo.listCalls)
	}

	if err := svc.Unbookmark(context.Background(), id, userID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ListAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if repo.listCalls != 3 {
		t.Errorf("backend calls = %d, want 3 (unbookmark invalidates)", repo.listCalls)
	}
}
