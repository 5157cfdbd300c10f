package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"pulseboard/internal/errors"
)

// Counter bumps a fixed-window counter and reports the remaining window.
// A zero count means the backend is unavailable; the limiter fails open.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// Policy is one rate-limit tier, applied per client IP.
type Policy struct {
	Scope  string
	Limit  int64
	Window time.Duration
}

// The three tiers of the public API surface.
var (
	GeneralPolicy = Policy{Scope: "general", Limit: 100, Window: 15 * time.Minute}
	AuthPolicy    = Policy{Scope: "auth", Limit: 5, Window: 15 * time.Minute}
	StreamPolicy  = Policy{Scope: "stream", Limit: 10, Window: time.Minute}
)

// RateLimit enforces the policy with fixed-window counters in the
// counter backend, keyed by tier and client IP.
func RateLimit(counter Counter, p Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("ratelimit:%s:%s", p.Scope, c.RealIP())
			count, ttl, err := counter.Incr(c.Request().Context(), key, p.Window)
			if err != nil || count == 0 {
				return next(c)
			}
			if count > p.Limit {
				retryAfter := int64(ttl.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				return c.JSON(http.StatusTooManyRequests, errors.RateLimitResponse{
					Error:      "rate limit exceeded",
					RetryAfter: retryAfter,
				})
			}
			return next(c)
		}
	}
}
