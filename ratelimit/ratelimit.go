// Package ratelimit provides a token-bucket limiter used to throttle
// diagnostic logging in hot pipeline stages (currently the timestamp
// injector).
package ratelimit

import (
	"sync"
	"time"
)

// Limiter allows one event every interval, independent of how many times
// Allow is called in between. It is safe for concurrent use, though in
// practice each pipeline stage owns its own Limiter and calls it from a
// single goroutine.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// New returns a Limiter that allows at most one Allow==true per interval.
func New(interval time.Duration) *Limiter {
	return &Limiter{interval: interval}
}

// Allow reports whether an event may be logged now, and if so records the
// time so the next interval starts from here.
func (l *Limiter) Allow() bool {
	return l.AllowAt(time.Now())
}

// AllowAt is like Allow but takes the current time explicitly, useful in
// tests that want deterministic timing.
func (l *Limiter) AllowAt(now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.last.IsZero() || now.Sub(l.last) >= l.interval {
		l.last = now
		return true
	}
	return false
}
