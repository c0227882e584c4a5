package pageload

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wayne-enterprises/bidash/internal/feed"
)

const (
	keyPrefix     = "dashboard:page"
	fieldCreated  = "created"
	slotPrefix    = "slot:"
	failurePrefix = "fail:"
)

// RedisStore keeps each page load in a Redis hash that expires after the TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore wires a Redis client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, now: time.Now}
}

// Create registers the page load hash and sets its expiry.
func (s *RedisStore) Create(ctx context.Context, id string) error {
	if s == nil || s.client == nil {
		return errors.New("pageload: redis store not configured")
	}
	key := pageKey(id)
	created, err := s.client.HSetNX(ctx, key, fieldCreated, s.now().UTC().UnixMilli()).Result()
	if err != nil {
		return err
	}
	if !created {
		return errors.New("pageload: page " + id + " already exists")
	}
	if s.ttl > 0 {
		return s.client.Expire(ctx, key, s.ttl).Err()
	}
	return nil
}

// Touch resets the expiry of a live page load.
func (s *RedisStore) Touch(ctx context.Context, id string) error {
	if err := s.ensure(ctx, id); err != nil {
		return err
	}
	if s.ttl <= 0 {
		return nil
	}
	return s.client.Expire(ctx, pageKey(id), s.ttl).Err()
}

// Put writes a slot field with HSETNX so the first write wins.
func (s *RedisStore) Put(ctx context.Context, id string, slot feed.Slot, raw []byte) error {
	if err := s.ensure(ctx, id); err != nil {
		return err
	}
	ok, err := s.client.HSetNX(ctx, pageKey(id), slotPrefix+string(slot), raw).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrSlotFilled
	}
	return nil
}

// Fail records why a slot stayed empty.
func (s *RedisStore) Fail(ctx context.Context, id string, slot feed.Slot, reason string) error {
	if err := s.ensure(ctx, id); err != nil {
		return err
	}
	return s.client.HSetNX(ctx, pageKey(id), failurePrefix+string(slot), reason).Err()
}

// Get loads every field of the page load hash.
func (s *RedisStore) Get(ctx context.Context, id string) (Record, error) {
	if s == nil || s.client == nil {
		return Record{}, errors.New("pageload: redis store not configured")
	}
	fields, err := s.client.HGetAll(ctx, pageKey(id)).Result()
	if err != nil {
		return Record{}, err
	}
	createdRaw, ok := fields[fieldCreated]
	if !ok {
		return Record{}, ErrNotFound
	}
	millis, err := strconv.ParseInt(createdRaw, 10, 64)
	if err != nil {
		return Record{}, err
	}
	rec := newRecord(id, time.UnixMilli(millis).UTC())
	for field, value := range fields {
		switch {
		case strings.HasPrefix(field, slotPrefix):
			rec.Slots[feed.Slot(strings.TrimPrefix(field, slotPrefix))] = []byte(value)
		case strings.HasPrefix(field, failurePrefix):
			rec.Failures[feed.Slot(strings.TrimPrefix(field, failurePrefix))] = value
		}
	}
	return rec, nil
}

// ensure guards against writing into an expired page load, which would
// recreate the hash without a TTL.
func (s *RedisStore) ensure(ctx context.Context, id string) error {
	if s == nil || s.client == nil {
		return errors.New("pageload: redis store not configured")
	}
	exists, err := s.client.HExists(ctx, pageKey(id), fieldCreated).Result()
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

func pageKey(id string) string {
	return strings.Join([]string{keyPrefix, id}, ":")
}
