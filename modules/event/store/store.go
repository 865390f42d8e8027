package store

import (
	"sync"
	"time"

	"eventhub/core/constants"
	"eventhub/modules/event/entity"
)

// Store holds one whole-collection snapshot with a TTL. Any write path
// invalidates the entire snapshot; there is no per-id invalidation because
// the full collection stays small enough that a refetch is cheap.
type Store struct {
	mu        sync.RWMutex
	snapshot  []entity.Event
	fetchedAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

func NewStore() *Store {
	return &Store{
		ttl: constants.EventCacheTTL,
		now: time.Now,
	}
}

// NewStoreWithClock is used by tests to control expiry.
func NewStoreWithClock(ttl time.Duration, now func() time.Time) *Store {
	return &Store{ttl: ttl, now: now}
}

// Get returns the cached snapshot, or ok=false when nothing has been stored
// or the snapshot is older than the TTL.
func (s *Store) Get() ([]entity.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, false
	}
	if s.now().Sub(s.fetchedAt) > s.ttl {
		return nil, false
	}
	return s.snapshot, true
}

// Put replaces the snapshot wholesale and restarts the TTL window.
func (s *Store) Put(events []entity.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if events == nil {
		events = []entity.Event{}
	}
	s.snapshot = events
	s.fetchedAt = s.now()
}

// Invalidate drops the snapshot so the next Get misses.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	s.fetchedAt = time.Time{}
}
