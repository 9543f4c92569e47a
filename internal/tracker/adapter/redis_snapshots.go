package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/okolari/tracktimer/internal/redis"
	"github.com/okolari/tracktimer/internal/tracker/app"
)

// Compile-time check: RedisSnapshotStore satisfies app.SnapshotStore.
var _ app.SnapshotStore = (*RedisSnapshotStore)(nil)

// RedisSnapshotStore persists the timer snapshot as a JSON value under a
// single fixed key. Every Save resets the key TTL to the restore window,
// so snapshots the timer would refuse to restore also age out of Redis on
// their own. Concurrent writers to the same key are last-write-wins.
type RedisSnapshotStore struct {
	cmd redis.Cmdable
	key string
	ttl time.Duration
}

// NewRedisSnapshotStore creates a store that keeps the snapshot under key
// with the given TTL (normally the 24h restore window).
func NewRedisSnapshotStore(cmd redis.Cmdable, key string, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{cmd: cmd, key: key, ttl: ttl}
}

// Load reads and decodes the snapshot. Returns (nil, nil) when the key is
// absent or expired.
func (s *RedisSnapshotStore) Load(ctx context.Context) (*app.Snapshot, error) {
	ctx, span := tracer.Start(ctx, "redis.snapshots.load")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "redis"),
		attribute.String("db.operation", "GET"),
	)

	payload, err := s.cmd.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("load snapshot %q: %w", s.key, err)
	}

	var snap app.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("decode snapshot %q: %w", s.key, err)
	}

	return &snap, nil
}

// Save overwrites the snapshot, refreshing the TTL.
func (s *RedisSnapshotStore) Save(ctx context.Context, snap app.Snapshot) error {
	ctx, span := tracer.Start(ctx, "redis.snapshots.save")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "redis"),
		attribute.String("db.operation", "SET"),
	)

	payload, err := json.Marshal(snap)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("encode snapshot %q: %w", s.key, err)
	}

	if err := s.cmd.Set(ctx, s.key, payload, s.ttl).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("save snapshot %q: %w", s.key, err)
	}

	return nil
}

// Clear deletes the snapshot. Deleting an absent key is not an error.
func (s *RedisSnapshotStore) Clear(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "redis.snapshots.clear")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "redis"),
		attribute.String("db.operation", "DEL"),
	)

	if err := s.cmd.Del(ctx, s.key).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("clear snapshot %q: %w", s.key, err)
	}

	return nil
}
