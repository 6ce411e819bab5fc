package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// limiterAt builds a limiter on a caller-controlled clock, without the
// sweep goroutine, so window expiry is deterministic.
func limiterAt(limit int, window time.Duration, clock *time.Time) *RateLimiter {
	return &RateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		stop:   make(chan struct{}),
		now:    func() time.Time { return *clock },
	}
}

func TestAllowEnforcesLimit(t *testing.T) {
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rl := limiterAt(3, time.Minute, &clock)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1:4455"), "request %d", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1:4455"))
	assert.True(t, rl.Allow("10.0.0.2:4455"), "the budget is per client")
}

func TestAllowRecoversAfterWindow(t *testing.T) {
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rl := limiterAt(2, time.Minute, &clock)

	assert.True(t, rl.Allow("10.0.0.1:4455"))
	assert.True(t, rl.Allow("10.0.0.1:4455"))
	assert.False(t, rl.Allow("10.0.0.1:4455"))

	clock = clock.Add(time.Minute + time.Second)
	assert.True(t, rl.Allow("10.0.0.1:4455"))
}

func TestSweepDropsIdleClients(t *testing.T) {
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rl := limiterAt(5, time.Minute, &clock)

	rl.Allow("10.0.0.1:4455")
	rl.Allow("10.0.0.2:4455")

	clock = clock.Add(2 * time.Minute)
	rl.sweepOnce()

	rl.mu.Lock()
	remaining := len(rl.hits)
	rl.mu.Unlock()
	assert.Zero(t, remaining)
}

func TestStopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Stop()
	rl.Stop()
}

func TestRateLimitMiddleware(t *testing.T) {
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rl := limiterAt(1, time.Minute, &clock)

	handler := RateLimitMiddleware(rl)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/reports/ports.pdf", nil)
	req.RemoteAddr = "10.0.0.1:4455"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
