package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gymkit/gym-api/internal/model"
	"github.com/gymkit/gym-api/internal/repository"
)

// HeaderAPIKey is the request header carrying the credential.
const HeaderAPIKey = "X-API-Key"

// principalKey is the echo context key the authenticated member is
// stored under.
const principalKey = "principal"

// CredentialStore resolves a presented API key to its owning member.
// The lookup must require the active flag: an inactive member's key is
// indistinguishable from an unknown one. Implemented by
// repository.MemberRepo.
type CredentialStore interface {
	FindActiveByKey(ctx context.Context, key string) (model.Member, error)
}

// APIKeyAuth returns an Echo middleware that authenticates every
// request by its X-API-Key header and applies per-credential rate
// limiting. On success the member is attached to the context for
// downstream middleware and handlers; any failure terminates the
// request with a JSON error body.
//
// The failOpen flag governs limiter infrastructure failures only: when
// true (the default policy) a request is let through without rate
// limiting if Redis is unreachable, trading strict enforcement for
// availability. Quota exhaustion always terminates with 429.
func APIKeyAuth(store CredentialStore, limiter *RateLimiter, failOpen bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get(HeaderAPIKey)
			if key == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing API key"})
			}

			ctx := c.Request().Context()
			m, err := store.FindActiveByKey(ctx, key)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					// One body for wrong key and inactive member alike, so
					// responses cannot be used to enumerate valid keys.
					return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid or inactive API key"})
				}
				log.Printf("auth: credential lookup failed: %v", err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
			}

			allowed, lerr := limiter.Check(ctx, key)
			if lerr != nil {
				if !failOpen {
					return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "rate limiter unavailable"})
				}
				// Availability over enforcement: log and continue.
				log.Printf("ratelimit: check failed, continuing without limit: %v", lerr)
			} else if !allowed {
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
			}

			c.Set(principalKey, m)
			return next(c)
		}
	}
}

// Principal returns the member attached by APIKeyAuth. The second
// return value is false on routes that skipped authentication.
func Principal(c echo.Context) (model.Member, bool) {
	m, ok := c.Get(principalKey).(model.Member)
	return m, ok
}
