// Package middleware holds HTTP middleware shared by the route table.
package middleware

import (
	"net/http"
	"sync"
	"time"
)

const sweepInterval = time.Minute

// RateLimiter is a sliding-window request limiter keyed by client address.
// A background sweep drops idle clients so the map does not grow with
// every address ever seen; Stop ends the sweep.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration

	stop     chan struct{}
	stopOnce sync.Once

	now func() time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window for
// each client address and starts its sweep goroutine.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		stop:   make(chan struct{}),
		now:    time.Now,
	}
	go rl.sweep()
	return rl
}

// Allow records a hit for addr and reports whether it fits the window.
func (rl *RateLimiter) Allow(addr string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	live := pruneBefore(rl.hits[addr], now.Add(-rl.window))
	if len(live) >= rl.limit {
		rl.hits[addr] = live
		return false
	}
	rl.hits[addr] = append(live, now)
	return true
}

// Stop ends the background sweep. Idempotent.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.sweepOnce()
		}
	}
}

func (rl *RateLimiter) sweepOnce() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.window)
	for addr, hits := range rl.hits {
		if live := pruneBefore(hits, cutoff); len(live) == 0 {
			delete(rl.hits, addr)
		} else {
			rl.hits[addr] = live
		}
	}
}

// pruneBefore drops timestamps at or before the cutoff. Hits are recorded
// in order, so the survivors are a suffix of the slice.
func pruneBefore(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}

// RateLimitMiddleware rejects requests over the limiter's budget with a
// 429.
func RateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(r.RemoteAddr) {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
