// Package cache wraps the shared Redis client behind a small store used
// by the repository layer for read-through caching and write
// invalidation. The store is handed to each repository at construction;
// there is no package-level client. Every operation tolerates an absent
// client (nil Store or nil Redis handle) so the database remains the
// single source of truth when Redis is down.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by GetJSON when the key is absent or the cache is
// unavailable. Callers treat both the same way: fall through to the
// database.
var ErrMiss = errors.New("cache miss")

// Store provides get/set/delete over serialized JSON snapshots plus the
// counter primitives the rate limiter needs. A nil *Store behaves as a
// permanently empty cache.
type Store struct {
	rdb *redis.Client
}

// New constructs a Store around the given Redis client. A nil client is
// allowed and yields a store whose reads always miss and whose writes
// are no-ops.
func New(rdb *redis.Client) *Store {
	if rdb == nil {
		return nil
	}
	return &Store{rdb: rdb}
}

// GetJSON reads the key and unmarshals its value into dst. Absent keys,
// I/O failures and corrupt payloads all surface as ErrMiss: a cache
// entry is a best-effort accelerator, never an error source.
func (s *Store) GetJSON(ctx context.Context, key string, dst any) error {
	if s == nil || s.rdb == nil {
		return ErrMiss
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return ErrMiss
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return ErrMiss
	}
	return nil
}

// SetJSON marshals v and stores it under key with the given TTL.
func (s *Store) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, raw, ttl).Err()
}

// Delete removes the given keys. Deleting keys that are already absent
// is not an error.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if s == nil || s.rdb == nil || len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

// DeleteByPattern removes every key matching the glob pattern, scanning
// in batches. Used for bulk invalidation of an entity's whole namespace.
func (s *Store) DeleteByPattern(ctx context.Context, pattern string) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	iter := s.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.rdb.Del(ctx, batch...).Err()
	}
	return nil
}

// Incr atomically increments the integer stored at key and returns the
// new value. The increment is a single Redis command, so concurrent
// callers never observe a read-then-write race.
func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	if s == nil || s.rdb == nil {
		return 0, errors.New("cache unavailable")
	}
	return s.rdb.Incr(ctx, key).Result()
}

// Expire sets the TTL for an existing key.
func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if s == nil || s.rdb == nil {
		return errors.New("cache unavailable")
	}
	return s.rdb.Expire(ctx, key, ttl).Err()
}

// Available reports whether a Redis handle is wired in. Handlers use it
// only for diagnostics; repositories just call the methods and let them
// degrade.
func (s *Store) Available() bool { return s != nil && s.rdb != nil }
