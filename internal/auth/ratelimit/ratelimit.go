// Package ratelimit provides a per-key token-bucket rate limiter built on
// golang.org/x/time/rate, with periodic cleanup of idle keys.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter tracks one token bucket per key (session token or remote
// address). Each key gets perMinute tokens per minute with the given burst.
type Limiter struct {
	mu        sync.Mutex
	entries   map[string]*entry
	perMinute int
	burst     int
}

// New creates a rate limiter allowing perMinute requests per key, with
// burst capacity for short spikes.
func New(perMinute, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	l := &Limiter{
		entries:   make(map[string]*entry),
		perMinute: perMinute,
		burst:     burst,
	}
	go l.cleanup()
	return l
}

// Allow reports whether the key has remaining capacity, consuming one token
// on success.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{
			limiter: rate.NewLimiter(rate.Limit(float64(l.perMinute)/60.0), l.burst),
		}
		l.entries[key] = e
	}
	e.lastSeen = time.Now()
	return e.limiter.Allow()
}

// Reset clears the rate-limit state for a specific key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
}

// cleanup periodically removes stale entries to prevent unbounded growth.
func (l *Limiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		cutoff := time.Now().Add(-10 * time.Minute)
		for key, e := range l.entries {
			if e.lastSeen.Before(cutoff) {
				delete(l.entries, key)
			}
		}
		l.mu.Unlock()
	}
}
