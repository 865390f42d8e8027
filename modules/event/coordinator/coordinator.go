package coordinator

import (
	"context"
	"encoding/json"
	"sync"

	"eventhub/core/constants"
	"eventhub/core/errors"
	"eventhub/core/logger"
	"eventhub/core/realtime"
	"eventhub/modules/event/entity"

	"github.com/google/uuid"
)

// eventService is the slice of the event service the coordinator needs.
type eventService interface {
	ListRaw(ctx context.Context) ([]entity.Event, error)
	ListRegisteredEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListBookmarkedEventIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Register(ctx context.Context, eventID, userID uuid.UUID) *errors.AppError
	Unregister(ctx context.Context, eventID, userID uuid.UUID) *errors.AppError
	Bookmark(ctx context.Context, eventID, userID uuid.UUID) *errors.AppError
	Unbookmark(ctx context.Context, eventID, userID uuid.UUID) *errors.AppError
	SubmitFeedback(ctx context.Context, eventID, userID uuid.UUID, username string, rating int, comment string) *errors.AppError
	InvalidateCache()
}

// Coordinator is the state container screens talk to. It keeps the rendered
// event list and the user's registered/bookmarked id sets, applies realtime
// change notifications from the feed, and runs optimistic mutations that are
// rolled back when the backend rejects them.
//
// It is an explicit object with caller-controlled lifecycle: construct it,
// Start it, Stop it when the owning screen tree goes away.
type Coordinator struct {
	userID   uuid.UUID
	username string
	svc      eventService
	feed     realtime.Feed

	mu         sync.Mutex
	events     []entity.Event
	registered map[uuid.UUID]struct{}
	bookmarked map[uuid.UUID]struct{}

	subscribers []chan struct{}
	stopFeed    func()
	cancel      context.CancelFunc
}

func NewCoordinator(userID uuid.UUID, username string, svc eventService, feed realtime.Feed) *Coordinator {
	return &Coordinator{
		userID:     userID,
		username:   username,
		svc:        svc,
		feed:       feed,
		registered: make(map[uuid.UUID]struct{}),
		bookmarked: make(map[uuid.UUID]struct{}),
	}
}

// Start loads the initial state and begins consuming the change feed.
func (c *Coordinator) Start(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil {
		return err
	}

	feedCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	changes, stop := c.feed.Subscribe(feedCtx)
	c.stopFeed = stop

	go func() {
		for change := range changes {
			c.apply(change)
		}
	}()
	return nil
}

// Stop tears down the feed subscription.
func (c *Coordinator) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	if c.stopFeed != nil {
		c.stopFeed()
	}
}

// Subscribe returns a channel that receives a tick after every state change.
// The UI layer selects on it to re-render.
func (c *Coordinator) Subscribe() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan struct{}, 1)
	c.subscribers = append(c.subscribers, ch)
	return ch
}

func (c *Coordinator) notify() {
	for _, ch := range c.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// apply reconciles one feed notification into the in-memory state. Changes
// are applied in arrival order with no deduplication: insert and delete are
// idempotent through the id-presence checks, and re-applying an update just
// rewrites the same values. Every branch invalidates the read cache so the
// next full fetch comes from the backend, not the pushed payload.
func (c *Coordinator) apply(change realtime.Change) {
	switch change.Type {
	case realtime.ChangeInsert, realtime.ChangeUpdate:
		var event entity.Event
		if err := json.Unmarshal(change.New, &event); err != nil {
			logger.Error("Coordinator:apply:Unmarshal:Error:", err, "type", change.Type)
			return
		}
		c.mu.Lock()
		if idx := c.indexOf(event.ID); idx >= 0 {
			c.events[idx] = event
		} else {
			c.events = append(c.events, event)
		}
		c.notify()
		c.mu.Unlock()
	case realtime.ChangeDelete:
		if change.Old == nil {
			logger.Warn("Coordinator:apply:DeleteWithoutRef")
			return
		}
		c.mu.Lock()
		c.removeLocked(change.Old.ID)
		c.notify()
		c.mu.Unlock()
	default:
		logger.Warn("Coordinator:apply:UnknownChangeType", "type", change.Type)
		return
	}
	c.svc.InvalidateCache()
}

func (c *Coordinator) indexOf(id uuid.UUID) int {
	for i := range c.events {
		if c.events[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Coordinator) removeLocked(id uuid.UUID) {
	if idx := c.indexOf(id); idx >= 0 {
		c.events = append(c.events[:idx], c.events[idx+1:]...)
	}
	delete(c.registered, id)
	delete(c.bookmarked, id)
}

// Events returns a copy of the current view list.
func (c *Coordinator) Events() []entity.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]entity.Event, len(c.events))
	copy(out, c.events)
	return out
}

func (c *Coordinator) IsRegistered(eventID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.registered[eventID]
	return ok
}

func (c *Coordinator) IsBookmarked(eventID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.bookmarked[eventID]
	return ok
}

// Refresh reloads the view list and both id sets from the backend.
func (c *Coordinator) Refresh(ctx context.Context) error {
	events, err := c.svc.ListRaw(ctx)
	if err != nil {
		logger.Error("Coordinator:Refresh:ListRaw:Error:", err)
		return err
	}
	registered, err := c.svc.ListRegisteredEventIDs(ctx, c.userID)
	if err != nil {
		logger.Error("Coordinator:Refresh:Registered:Error:", err)
		registered = nil
	}
	bookmarked, err := c.svc.ListBookmarkedEventIDs(ctx, c.userID)
	if err != nil {
		logger.Error("Coordinator:Refresh:Bookmarked:Error:", err)
		bookmarked = nil
	}

	c.mu.Lock()
	c.events = events
	c.registered = make(map[uuid.UUID]struct{}, len(registered))
	for _, id := range registered {
		c.registered[id] = struct{}{}
	}
	c.bookmarked = make(map[uuid.UUID]struct{}, len(bookmarked))
	for _, id := range bookmarked {
		c.bookmarked[id] = struct{}{}
	}
	c.notify()
	c.mu.Unlock()
	return nil
}

// Register optimistically marks the event registered, persists, and rolls
// the optimistic flag back when the backend rejects the write.
func (c *Coordinator) Register(ctx context.Context, eventID uuid.UUID) bool {
	c.mu.Lock()
	c.registered[eventID] = struct{}{}
	c.notify()
	c.mu.Unlock()

	if err := c.svc.Register(ctx, eventID, c.userID); err != nil {
		logger.Warn("Coordinator:Register:Rollback", "event_id", eventID, "error", err)
		c.mu.Lock()
		delete(c.registered, eventID)
		c.notify()
		c.mu.Unlock()
		return false
	}

	c.refreshUserState(ctx)
	return true
}

func (c *Coordinator) Unregister(ctx context.Context, eventID uuid.UUID) bool {
	c.mu.Lock()
	_, wasRegistered := c.registered[eventID]
	delete(c.registered, eventID)
	c.notify()
	c.mu.Unlock()

	if err := c.svc.Unregister(ctx, eventID, c.userID); err != nil {
		logger.Warn("Coordinator:Unregister:Rollback", "event_id", eventID, "error", err)
		if wasRegistered {
			c.mu.Lock()
			c.registered[eventID] = struct{}{}
			c.notify()
			c.mu.Unlock()
		}
		return false
	}

	c.refreshUserState(ctx)
	return true
}

func (c *Coordinator) Bookmark(ctx context.Context, eventID uuid.UUID) bool {
	c.mu.Lock()
	c.bookmarked[eventID] = struct{}{}
	c.notify()
	c.mu.Unlock()

	if err := c.svc.Bookmark(ctx, eventID, c.userID); err != nil {
		logger.Warn("Coordinator:Bookmark:Rollback", "event_id", eventID, "error", err)
		c.mu.Lock()
		delete(c.bookmarked, eventID)
		c.notify()
		c.mu.Unlock()
		return false
	}

	c.refreshUserState(ctx)
	return true
}

func (c *Coordinator) Unbookmark(ctx context.Context, eventID uuid.UUID) bool {
	c.mu.Lock()
	_, wasBookmarked := c.bookmarked[eventID]
	delete(c.bookmarked, eventID)
	c.notify()
	c.mu.Unlock()

	if err := c.svc.Unbookmark(ctx, eventID, c.userID); err != nil {
		logger.Warn("Coordinator:Unbookmark:Rollback", "event_id", eventID, "error", err)
		if wasBookmarked {
			c.mu.Lock()
			c.bookmarked[eventID] = struct{}{}
			c.notify()
			c.mu.Unlock()
		}
		return false
	}

	c.refreshUserState(ctx)
	return true
}

// SubmitFeedback checks the rating bounds locally before going to the
// backend; the service enforces the registration and past-date gates.
func (c *Coordinator) SubmitFeedback(ctx context.Context, eventID uuid.UUID, rating int, comment string) bool {
	if rating < constants.FeedbackRatingMin || rating > constants.FeedbackRatingMax {
		return false
	}
	if err := c.svc.SubmitFeedback(ctx, eventID, c.userID, c.username, rating, comment); err != nil {
		logger.Warn("Coordinator:SubmitFeedback:Rejected", "event_id", eventID, "error", err)
		return false
	}
	return true
}

// refreshUserState re-reads the id sets after a confirmed mutation so the
// local optimistic state converges on what the backend holds.
func (c *Coordinator) refreshUserState(ctx context.Context) {
	registered, err := c.svc.ListRegisteredEventIDs(ctx, c.userID)
	if err != nil {
		logger.Error("Coordinator:refreshUserState:Registered:Error:", err)
		return
	}
	bookmarked, err := c.svc.ListBookmarkedEventIDs(ctx, c.userID)
	if err != nil {
		logger.Error("Coordinator:refreshUserState:Bookmarked:Error:", err)
		return
	}

	c.mu.Lock()
	c.registered = make(map[uuid.UUID]struct{}, len(registered))
	for _, id := range registered {
		c.registered[id] = struct{}{}
	}
	c.bookmarked = make(map[uuid.UUID]struct{}, len(bookmarked))
	for _, id := range bookmarked {
		c.bookmarked[id] = struct{}{}
	}
	c.notify()
	c.mu.Unlock()
}

// The manual counterparts below duplicate the reconciler's mutations on
// purpose: a screen that just finished its own CRUD call needs the updated
// state immediately, without waiting for the feed to deliver.

func (c *Coordinator) HandleDeletion(ctx context.Context, eventID uuid.UUID) {
	c.mu.Lock()
	c.removeLocked(eventID)
	c.notify()
	c.mu.Unlock()

	c.svc.InvalidateCache()
	if err := c.Refresh(ctx); err != nil {
		logger.Error("Coordinator:HandleDeletion:Refresh:Error:", err)
	}
}

func (c *Coordinator) AddNew(ctx context.Context, event entity.Event) {
	c.mu.Lock()
	if c.indexOf(event.ID) < 0 {
		c.events = append(c.events, event)
	}
	c.notify()
	c.mu.Unlock()

	c.svc.InvalidateCache()
	if err := c.Refresh(ctx); err != nil {
		logger.Error("Coordinator:AddNew:Refresh:Error:", err)
	}
}

func (c *Coordinator) UpdateInPlace(ctx context.Context, event entity.Event) {
	c.mu.Lock()
	if idx := c.indexOf(event.ID); idx >= 0 {
		c.events[idx] = event
	} else {
		c.events = append(c.events, event)
	}
	c.notify()
	c.mu.Unlock()

	c.svc.InvalidateCache()
	if err := c.Refresh(ctx); err != nil {
		logger.Error("Coordinator:UpdateInPlace:Refresh:Error:", err)
	}
}

// RemoveFromView drops an event from the rendered list only; the id sets and
// the backend are untouched.
func (c *Coordinator) RemoveFromView(eventID uuid.UUID) {
	c.mu.Lock()
	if idx := c.indexOf(eventID); idx >= 0 {
		c.events = append(c.events[:idx], c.events[idx+1:]...)
	}
	c.notify()
	c.mu.Unlock()
}
