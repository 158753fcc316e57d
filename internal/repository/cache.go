package repository

import (
	"context"
	"log"
	"time"

	"github.com/gymkit/gym-api/internal/cache"
)

// The helpers below implement the failure policy shared by every
// repository: a cache problem is never a request problem. Reads that
// fail degrade to a miss, writes that fail degrade to a no-op, and both
// are logged so an unhealthy Redis shows up in the logs rather than in
// responses.

// cacheGet attempts a read-through hit. It returns true only when the
// key was present and deserialized cleanly.
func cacheGet(ctx context.Context, store *cache.Store, key string, dst any) bool {
	return store.GetJSON(ctx, key, dst) == nil
}

// cachePut populates a key after a database read. Failures are logged
// and swallowed.
func cachePut(ctx context.Context, store *cache.Store, key string, v any, ttl time.Duration) {
	if err := store.SetJSON(ctx, key, v, ttl); err != nil {
		log.Printf("cache: set %s failed: %v", key, err)
	}
}

// cacheInvalidate deletes the given keys after a committed write. It is
// called synchronously before the write path returns, to keep the
// staleness window small, but its outcome never affects the request.
func cacheInvalidate(ctx context.Context, store *cache.Store, keys ...string) {
	if err := store.Delete(ctx, keys...); err != nil {
		log.Printf("cache: invalidate %v failed: %v", keys, err)
	}
}
