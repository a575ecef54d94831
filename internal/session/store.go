// Package session keeps loan journeys alive between jobs: snapshots live in
// Redis, step changes are audited in Postgres.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"loan-journey-workers/internal/journey/wizard"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("SESSION_NOT_FOUND")

// Store persists journey snapshots.
type Store interface {
	Load(ctx context.Context, id string) (wizard.Snapshot, error)
	Save(ctx context.Context, s wizard.Snapshot) error
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps one JSON snapshot per application, refreshed to the
// full TTL on every save.
type RedisStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (wizard.Snapshot, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return wizard.Snapshot{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return wizard.Snapshot{}, fmt.Errorf("load session %s: %w", id, err)
	}

	var snap wizard.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return wizard.Snapshot{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return snap, nil
}

func (s *RedisStore) Save(ctx context.Context, snap wizard.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", snap.ID, err)
	}
	if err := s.client.Set(ctx, s.key(snap.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", snap.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}
