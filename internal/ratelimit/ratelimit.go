// Package ratelimit implements sliding-window admission control for chat
// turns. State is in-memory and per-process; a restart resets all windows.
package ratelimit

import (
	"sync"
	"time"
)

// Config holds the window parameters for a Limiter.
type Config struct {
	// MaxRequests is the number of requests allowed per identifier within
	// the window. Zero or negative means the default (20).
	MaxRequests int `yaml:"max_requests"`

	// Window is the trailing window duration. Zero means the default (1m).
	Window time.Duration `yaml:"window"`
}

func (c *Config) defaults() {
	if c.MaxRequests <= 0 {
		c.MaxRequests = 20
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
}

// Limiter is a sliding-window rate limiter. Each identifier tracks the
// timestamps of its recent requests; timestamps outside the window are
// pruned lazily on every check. Safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	cfg     Config
	now     func() time.Time
}

// New creates a Limiter with the given config. Zero-value fields are
// replaced with defaults.
func New(cfg Config) *Limiter {
	cfg.defaults()
	return &Limiter{
		windows: make(map[string][]time.Time),
		cfg:     cfg,
		now:     time.Now,
	}
}

// Admit decides whether a request for identifier is allowed right now.
// On admission the request is recorded and the remaining quota returned;
// on denial nothing is recorded and remaining is zero. Admit cannot fail:
// it is a pure bookkeeping decision.
func (l *Limiter) Admit(identifier string) (allowed bool, remaining int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(identifier, now)

	if len(recent) >= l.cfg.MaxRequests {
		return false, 0
	}

	l.windows[identifier] = append(recent, now)
	return true, l.cfg.MaxRequests - len(recent) - 1
}

// Remaining returns the quota left for identifier without consuming any of
// it. Uses the same pruning logic as Admit.
func (l *Limiter) Remaining(identifier string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.prune(identifier, l.now())
	if n := l.cfg.MaxRequests - len(recent); n > 0 {
		return n
	}
	return 0
}

// Reset clears the window for identifier. Administrative and testing use.
func (l *Limiter) Reset(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, identifier)
}

// prune drops timestamps older than the window and stores the survivors.
// Caller must hold l.mu. Timestamps are appended in order, so the first
// in-window entry marks the cut point.
func (l *Limiter) prune(identifier string, now time.Time) []time.Time {
	cutoff := now.Add(-l.cfg.Window)
	events := l.windows[identifier]

	i := 0
	for i < len(events) && !events[i].After(cutoff) {
		i++
	}
	if i > 0 {
		events = events[i:]
		if len(events) == 0 {
			delete(l.windows, identifier)
		} else {
			l.windows[identifier] = events
		}
	}
	return events
}
