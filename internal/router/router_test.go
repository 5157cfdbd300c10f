package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"pulseboard/internal/config"
	"pulseboard/internal/errors"
	"pulseboard/internal/handler"
	"pulseboard/internal/realtime"
)

type fixedCounter struct {
	count int64
	ttl   time.Duration
}

func (c *fixedCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	return c.count, c.ttl, nil
}

func newTestEcho(t *testing.T, counter *fixedCounter) *echo.Echo {
	t.Helper()

	e := echo.New()
	log := zap.NewNop()
	cfg := &config.Config{
		JWTSecret:      "test-secret",
		AllowedOrigins: []string{"*"},
		DemoMode:       true,
	}

	Register(
		e,
		cfg,
		log,
		counter,
		handler.NewAuthHandler(nil),
		handler.NewEntryHandler(nil),
		handler.NewEventsHandler(realtime.NewHub(log), log),
		handler.NewSeedHandler(nil, nil),
	)
	return e
}

func TestWrongMethodReturns405(t *testing.T) {
	e := newTestEcho(t, &fixedCounter{count: 1, ttl: time.Minute})

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"get on login", http.MethodGet, "/api/auth/login"},
		{"delete on register", http.MethodDelete, "/api/auth/register"},
		{"post on me", http.MethodPost, "/api/auth/me"},
		{"patch on user-data", http.MethodPatch, "/api/user-data"},
		{"post on events", http.MethodPost, "/api/dashboards/d1/events"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

			var body errors.ErrorResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "METHOD_NOT_ALLOWED", body.Code)
		})
	}
}

func TestUnknownPathReturns404(t *testing.T) {
	e := newTestEcho(t, &fixedCounter{count: 1, ttl: time.Minute})

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSecuredRouteWithoutTokenReturns401(t *testing.T) {
	e := newTestEcho(t, &fixedCounter{count: 1, ttl: time.Minute})

	req := httptest.NewRequest(http.MethodGet, "/api/user-data", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRouteRateLimited(t *testing.T) {
	e := newTestEcho(t, &fixedCounter{count: 6, ttl: 30 * time.Second})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
}

func TestHealthz(t *testing.T) {
	e := newTestEcho(t, &fixedCounter{count: 1, ttl: time.Minute})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
