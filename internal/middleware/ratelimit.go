package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrKriegler/go-eduloan/pkg/problem"
)

// RateLimiter is an in-memory sliding-window limiter keyed per client. A
// client is its API key when one is sent, otherwise its IP. Limits are per
// process; replicas each keep their own window.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// StartWithContext prunes idle clients every window until ctx is done.
func (rl *RateLimiter) StartWithContext(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(rl.window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				rl.Stop()
				return
			case <-rl.stopCh:
				return
			case <-ticker.C:
				rl.prune()
			}
		}
	}()
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *RateLimiter) prune() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-rl.window)
	for key, times := range rl.requests {
		if live := within(times, cutoff); len(live) > 0 {
			rl.requests[key] = live
		} else {
			delete(rl.requests, key)
		}
	}
}

// allow records a hit for key and reports whether it fits the window. When it
// does not, it also returns how long until the oldest hit ages out.
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	live := within(rl.requests[key], now.Add(-rl.window))
	if len(live) >= rl.limit {
		rl.requests[key] = live
		return false, live[0].Add(rl.window).Sub(now)
	}
	rl.requests[key] = append(live, now)
	return true, 0
}

func within(times []time.Time, cutoff time.Time) []time.Time {
	var live []time.Time
	for _, t := range times {
		if t.After(cutoff) {
			live = append(live, t)
		}
	}
	return live
}

// Middleware must run after chi's RealIP so RemoteAddr is the client address.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := rl.allow(clientKey(r))
		if !ok {
			secs := int(wait.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			problem.Write(w, http.StatusTooManyRequests, "Rate Limit Exceeded",
				"Too many requests. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey is the caller's IP. The limiter runs before authentication, so a
// presented API key is unverified and must not select the bucket.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
