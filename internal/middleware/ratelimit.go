package middleware

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gymkit/gym-api/internal/cache"
	"github.com/gymkit/gym-api/internal/config"
)

// RateLimiter counts requests per credential in fixed, non-overlapping
// windows. The counter lives in Redis under rate:{credential}:{bucket}
// where bucket = floor(unix_seconds / window). INCR makes the count
// atomic across concurrent requests; the key expires with the window,
// so an expired bucket is simply absent rather than zero.
type RateLimiter struct {
	store *cache.Store
	cfg   config.RateLimitConfig
	now   func() time.Time // overridable in tests
}

// NewRateLimiter constructs a RateLimiter over the shared cache store.
func NewRateLimiter(store *cache.Store, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{store: store, cfg: cfg, now: time.Now}
}

// Check increments the credential's counter for the current window and
// reports whether the request is within quota. The increment happens
// before the request's business logic runs, so even requests that later
// fail count against the quota.
//
// A non-nil error means the limiter infrastructure itself failed (cache
// unreachable); the caller decides between failing open and failing
// closed. Quota exhaustion is not an error.
func (l *RateLimiter) Check(ctx context.Context, credential string) (bool, error) {
	if l == nil || !l.cfg.Enabled {
		return true, nil
	}
	bucket := l.now().Unix() / int64(l.cfg.Window/time.Second)
	key := fmt.Sprintf("%s:%s:%d", l.cfg.Prefix, credential, bucket)

	n, err := l.store.Incr(ctx, key)
	if err != nil {
		return false, err
	}
	if n == 1 {
		// First hit in this window owns setting the expiry. If EXPIRE
		// fails the key lingers one extra window at worst; log and move on.
		if err := l.store.Expire(ctx, key, l.cfg.Window); err != nil {
			log.Printf("ratelimit: expire %s failed: %v", key, err)
		}
	}
	return n <= int64(l.cfg.Threshold), nil
}

// Threshold exposes the configured per-window quota for response headers.
func (l *RateLimiter) Threshold() int {
	if l == nil {
		return 0
	}
	return l.cfg.Threshold
}
