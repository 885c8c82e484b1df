package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestDefaultRateLimiterConfig(t *testing.T) {
	cfg := DefaultRateLimiterConfig()
	if cfg.RequestsPerSecond != 50 {
		t.Errorf("RequestsPerSecond = %f, want 50", cfg.RequestsPerSecond)
	}
	if cfg.Burst != 100 {
		t.Errorf("Burst = %d, want 100", cfg.Burst)
	}
	if cfg.CleanupInterval != 5*time.Minute {
		t.Errorf("CleanupInterval = %v, want 5m", cfg.CleanupInterval)
	}
}

func TestRateLimiterStore_GetLimiter(t *testing.T) {
	store := newRateLimiterStore(RateLimiterConfig{RequestsPerSecond: 10, Burst: 20, CleanupInterval: time.Minute})

	limiter1 := store.getLimiter("key1")
	if limiter1 == nil {
		t.Fatal("expected limiter to be created")
	}
	if limiter2 := store.getLimiter("key1"); limiter1 != limiter2 {
		t.Error("expected same limiter to be returned")
	}
	if limiter3 := store.getLimiter("key2"); limiter1 == limiter3 {
		t.Error("expected different limiter for different key")
	}
}

func TestRateLimiterStore_EvictIdle(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newRateLimiterStore(RateLimiterConfig{RequestsPerSecond: 1, Burst: 1, CleanupInterval: time.Minute})
	store.now = func() time.Time { return now }

	store.getLimiter("old")
	now = now.Add(50 * time.Second)
	store.getLimiter("fresh")
	now = now.Add(20 * time.Second)

	if n := store.evictIdle(); n != 1 {
		t.Fatalf("evictIdle() = %d, want 1", n)
	}
	if _, ok := store.limiters["old"]; ok {
		t.Error("expected idle limiter to be evicted")
	}
	if _, ok := store.limiters["fresh"]; !ok {
		t.Error("expected recent limiter to survive")
	}
}

func newLimitedHandler(t *testing.T, cfg RateLimiterConfig) echo.HandlerFunc {
	rl := NewRateLimiter(cfg)
	t.Cleanup(rl.Stop)
	return rl.Middleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, "success")
	})
}

func TestRateLimiter_AllowsRequests(t *testing.T) {
	e := echo.New()
	handler := newLimitedHandler(t, RateLimiterConfig{RequestsPerSecond: 100, Burst: 100, CleanupInterval: time.Hour})

	req := httptest.NewRequest(http.MethodGet, "/v1/agents", nil)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status code = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRateLimiter_BlocksExcessiveRequests(t *testing.T) {
	e := echo.New()
	handler := newLimitedHandler(t, RateLimiterConfig{RequestsPerSecond: 1, Burst: 1, CleanupInterval: time.Hour})

	var limited int
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/agents", nil)
		err := handler(e.NewContext(req, httptest.NewRecorder()))
		if err == nil {
			continue
		}
		he, ok := err.(*echo.HTTPError)
		if !ok {
			t.Fatalf("expected *echo.HTTPError, got %T", err)
		}
		if he.Code != http.StatusTooManyRequests {
			t.Errorf("request %d status = %d, want 429", i+1, he.Code)
		}
		limited++
	}
	if limited == 0 {
		t.Error("expected at least one request to be limited")
	}
}

func TestRateLimiter_KeysByAgentHeader(t *testing.T) {
	e := echo.New()
	handler := newLimitedHandler(t, RateLimiterConfig{RequestsPerSecond: 1, Burst: 1, CleanupInterval: time.Hour})

	for _, id := range []string{"agent-1", "agent-2"} {
		req := httptest.NewRequest(http.MethodPost, "/v1/agents/"+id+"/heartbeat", nil)
		req.Header.Set(AgentIDHeader, id)
		if err := handler(e.NewContext(req, httptest.NewRecorder())); err != nil {
			t.Errorf("first request for %s should succeed: %v", id, err)
		}
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, Burst: 1})
	rl.Stop()
	rl.Stop()
}
