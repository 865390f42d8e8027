package store

import (
	"testing"
	"time"

	"eventhub/modules/event/entity"

	"github.com/google/uuid"
)

func TestGetMissesWhenEmpty(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get(); ok {
		t.Fatal("Get on empty store should miss")
	}
}

func TestPutThenGetWithinTTL(t *testing.T) {
	current := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	s := NewStoreWithClock(5*time.Minute, func() time.Time { return current })

	events := []entity.Event{{ID: uuid.New(), Title: "Orientation"}}
	s.Put(events)

	got, ok := s.Get()
	if !ok {
		t.Fatal("Get within TTL should hit")
	}
	if len(got) != 1 || got[0].Title != "Orientation" {
		t.Fatalf("Get returned %+v", got)
	}

	// A second read inside the window returns the same snapshot slice.
	again, ok := s.Get()
	if !ok {
		t.Fatal("second Get within TTL should hit")
	}
	if &again[0] != &got[0] {
		t.Error("Get should return the same underlying snapshot inside the TTL window")
	}
}

func TestGetMissesAfterTTL(t *testing.T) {
	current := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	s := NewStoreWithClock(5*time.Minute, func() time.Time { return current })

	s.Put([]entity.Event{{ID: uuid.New()}})

	current = current.Add(5*time.Minute + time.Second)
	if _, ok := s.Get(); ok {
		t.Fatal("Get after TTL expiry should miss")
	}
}

func TestGetHitsAtExactTTLBoundary(t *testing.T) {
	current := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	s := NewStoreWithClock(5*time.Minute, func() time.Time { return current })

	s.Put([]entity.Event{{ID: uuid.New()}})

	current = current.Add(5 * time.Minute)
	if _, ok := s.Get(); !ok {
		t.Fatal("Get at exactly the TTL should still hit (expiry is strict)")
	}
}

func TestInvalidateDropsSnapshot(t *testing.T) {
	s := NewStore()
	s.Put([]entity.Event{{ID: uuid.New()}})
	s.Invalidate()
	if _, ok := s.Get(); ok {
		t.Fatal("Get after Invalidate should miss")
	}
}

func TestPutEmptySliceIsAHit(t *testing.T) {
	s := NewStore()
	s.Put(nil)
	got, ok := s.Get()
	if !ok {
		t.Fatal("an empty collection is still a valid snapshot")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty snapshot, got %d entries", len(got))
	}
}
