// Package pageload holds the five independently filled slots of a dashboard
// page load and the loader that fills them.
package pageload

import (
	"context"
	"errors"
	"time"

	"github.com/wayne-enterprises/bidash/internal/feed"
)

var (
	// ErrNotFound is returned when a page load is unknown or expired.
	ErrNotFound = errors.New("pageload: not found")
	// ErrSlotFilled is returned when a slot has already been written.
	ErrSlotFilled = errors.New("pageload: slot already filled")
)

// Store keeps raw feed bodies per page load. Every slot is written at most once.
type Store interface {
	Create(ctx context.Context, id string) error
	Put(ctx context.Context, id string, slot feed.Slot, raw []byte) error
	Fail(ctx context.Context, id string, slot feed.Slot, reason string) error
	Get(ctx context.Context, id string) (Record, error)
	// Touch restarts the ttl so a page still waiting on its gating feeds stays
	// reachable while its placeholder keeps refreshing.
	Touch(ctx context.Context, id string) error
}

// Record is the stored state of one page load.
type Record struct {
	ID        string
	CreatedAt time.Time
	Slots     map[feed.Slot][]byte
	Failures  map[feed.Slot]string
}

func newRecord(id string, createdAt time.Time) Record {
	return Record{
		ID:        id,
		CreatedAt: createdAt,
		Slots:     make(map[feed.Slot][]byte, len(feed.Slots)),
		Failures:  make(map[feed.Slot]string),
	}
}

func (r Record) clone() Record {
	out := newRecord(r.ID, r.CreatedAt)
	for slot, raw := range r.Slots {
		out.Slots[slot] = append([]byte(nil), raw...)
	}
	for slot, reason := range r.Failures {
		out.Failures[slot] = reason
	}
	return out
}
