// Package ratelimit implements process-local fixed-window request counting.
//
// State is shared across requests and keyed by (client key, policy name).
// There is no persistence and no distributed store; counters reset on
// restart.
package ratelimit

import (
	"sync"
	"time"
)

// Policy defines one counting rule: at most MaxCount calls per Window.
type Policy struct {
	Name     string
	Window   time.Duration
	MaxCount int
}

// Built-in policies mirroring the deployed thresholds.
var (
	// LoginPolicy throttles credential guessing: 5 attempts per 15 minutes.
	LoginPolicy = Policy{Name: "login", Window: 15 * time.Minute, MaxCount: 5}
	// APIPolicy bounds overall per-client traffic: 100 calls per minute.
	APIPolicy = Policy{Name: "api", Window: time.Minute, MaxCount: 100}
)

type window struct {
	start time.Time
	count int
}

// Limiter counts calls per (key, policy) in fixed windows. Safe for
// concurrent use; increments are atomic under the mutex so no updates are
// lost.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// New returns a Limiter using the wall clock.
func New() *Limiter {
	return NewWithClock(time.Now)
}

// NewWithClock returns a Limiter with an injectable clock for tests.
func NewWithClock(now func() time.Time) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		now:     now,
	}
}

// Allow records one call for key under policy and reports whether it is
// within the limit. A fresh or expired window restarts the count at 1.
func (l *Limiter) Allow(key string, policy Policy) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	k := policy.Name + ":" + key
	w, ok := l.windows[k]
	if !ok || now.Sub(w.start) >= policy.Window {
		l.windows[k] = &window{start: now, count: 1}
		return true
	}

	w.count++
	return w.count <= policy.MaxCount
}

// Prune drops windows that expired before now. Callers may run it
// periodically to bound memory on long-lived processes.
func (l *Limiter) Prune(maxWindow time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, w := range l.windows {
		if now.Sub(w.start) >= maxWindow {
			delete(l.windows, k)
		}
	}
}
