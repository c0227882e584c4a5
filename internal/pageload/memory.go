package pageload

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wayne-enterprises/bidash/internal/feed"
)

// MemoryStore is a process-local Store with TTL expiry.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	pages map[string]Record
	seen  map[string]time.Time
	now   func() time.Time
}

// NewMemoryStore returns an empty store. A non-positive ttl disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, pages: make(map[string]Record), seen: make(map[string]time.Time), now: time.Now}
}

// WithNow overrides the store clock for testing.
func (s *MemoryStore) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Create registers a new page load and sweeps expired ones.
func (s *MemoryStore) Create(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key := range s.pages {
		if s.expired(key, now) {
			s.drop(key)
		}
	}
	if _, ok := s.pages[id]; ok {
		return fmt.Errorf("pageload: page %s already exists", id)
	}
	s.pages[id] = newRecord(id, now)
	s.seen[id] = now
	return nil
}

// Touch restarts the expiry of a live page load.
func (s *MemoryStore) Touch(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.lookup(id); err != nil {
		return err
	}
	s.seen[id] = s.now()
	return nil
}

// Put writes a slot once.
func (s *MemoryStore) Put(_ context.Context, id string, slot feed.Slot, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.lookup(id)
	if err != nil {
		return err
	}
	if _, ok := rec.Slots[slot]; ok {
		return ErrSlotFilled
	}
	rec.Slots[slot] = append([]byte(nil), raw...)
	return nil
}

// Fail records the reason a slot stayed empty. The first reason wins.
func (s *MemoryStore) Fail(_ context.Context, id string, slot feed.Slot, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.lookup(id)
	if err != nil {
		return err
	}
	if _, ok := rec.Failures[slot]; !ok {
		rec.Failures[slot] = reason
	}
	return nil
}

// Get returns a copy of the page load.
func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.lookup(id)
	if err != nil {
		return Record{}, err
	}
	return rec.clone(), nil
}

func (s *MemoryStore) lookup(id string) (Record, error) {
	rec, ok := s.pages[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	if s.expired(id, s.now()) {
		s.drop(id)
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// expired measures the ttl from the last Create or Touch.
func (s *MemoryStore) expired(id string, now time.Time) bool {
	return s.ttl > 0 && now.Sub(s.seen[id]) >= s.ttl
}

func (s *MemoryStore) drop(id string) {
	delete(s.pages, id)
	delete(s.seen, id)
}
