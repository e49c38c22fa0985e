// Package dedup collapses duplicate generation requests so a double-click or
// client retry does not pay for a second backend call.
//
// Two concurrent calls that both miss on the same key will each execute the
// inner function once: the mutex is released around the expensive call so a
// slow generation never blocks lookups for unrelated keys. This narrow race
// is accepted deliberately; only the second *sequential* call within the
// TTL is guaranteed to hit the cache.
package dedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// Config holds cache parameters for a Deduplicator.
type Config struct {
	// TTL is how long a cached result stays live. Zero means 60s.
	TTL time.Duration `yaml:"ttl"`

	// MaxEntries caps the cache size. Zero means 1000.
	MaxEntries int `yaml:"max_entries"`
}

func (c *Config) defaults() {
	if c.TTL <= 0 {
		c.TTL = 60 * time.Second
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = 1000
	}
}

// Stats is a point-in-time view of the cache, for observability.
type Stats struct {
	TotalEntries   int           `json:"total_entries"`
	ValidEntries   int           `json:"valid_entries"`
	ExpiredEntries int           `json:"expired_entries"`
	MaxEntries     int           `json:"max_entries"`
	TTL            time.Duration `json:"ttl"`
}

type entry[T any] struct {
	result  T
	written time.Time
}

// Deduplicator is a TTL-bounded result cache keyed by the logical identity
// of a request. Safe for concurrent use.
type Deduplicator[T any] struct {
	mu    sync.Mutex
	cache map[string]entry[T]
	cfg   Config
	now   func() time.Time
}

// New creates a Deduplicator. Zero-value config fields get defaults.
func New[T any](cfg Config) *Deduplicator[T] {
	cfg.defaults()
	return &Deduplicator[T]{
		cache: make(map[string]entry[T]),
		cfg:   cfg,
		now:   time.Now,
	}
}

// Key derives the stable cache key for a request. The message is trimmed and
// lowercased so retries with incidental whitespace or casing differences
// still collapse; the hash is deterministic across processes.
func Key(userID, message, conversationID string) string {
	if conversationID == "" {
		conversationID = "new"
	}
	content := userID + ":" + conversationID + ":" + strings.ToLower(strings.TrimSpace(message))
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// GetOrExecute returns the cached result for the request if a live entry
// exists, otherwise runs fn and caches its result. wasCached reports which
// path was taken. Errors from fn are propagated and never cached.
func (d *Deduplicator[T]) GetOrExecute(
	ctx context.Context,
	userID, message, conversationID string,
	fn func(context.Context) (T, error),
) (result T, wasCached bool, err error) {
	key := Key(userID, message, conversationID)

	d.mu.Lock()
	now := d.now()
	if e, ok := d.cache[key]; ok {
		if now.Sub(e.written) < d.cfg.TTL {
			d.mu.Unlock()
			return e.result, true, nil
		}
		delete(d.cache, key)
	}

	if len(d.cache) >= d.cfg.MaxEntries {
		d.evictExpired(now)
	}
	if len(d.cache) >= d.cfg.MaxEntries {
		d.evictOldest()
	}
	// Release before the expensive call so unrelated keys are not blocked.
	d.mu.Unlock()

	result, err = fn(ctx)
	if err != nil {
		return result, false, err
	}

	d.mu.Lock()
	d.cache[key] = entry[T]{result: result, written: d.now()}
	d.mu.Unlock()

	return result, false, nil
}

// Purge removes all expired entries and returns how many were dropped.
func (d *Deduplicator[T]) Purge() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.evictExpired(d.now())
}

// Clear drops every cached entry.
func (d *Deduplicator[T]) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache = make(map[string]entry[T])
}

// Stats returns entry counts split into live and expired.
func (d *Deduplicator[T]) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	valid := 0
	for _, e := range d.cache {
		if now.Sub(e.written) < d.cfg.TTL {
			valid++
		}
	}
	return Stats{
		TotalEntries:   len(d.cache),
		ValidEntries:   valid,
		ExpiredEntries: len(d.cache) - valid,
		MaxEntries:     d.cfg.MaxEntries,
		TTL:            d.cfg.TTL,
	}
}

// evictExpired removes entries at or past the TTL. Caller must hold d.mu.
func (d *Deduplicator[T]) evictExpired(now time.Time) int {
	n := 0
	for key, e := range d.cache {
		if now.Sub(e.written) >= d.cfg.TTL {
			delete(d.cache, key)
			n++
		}
	}
	return n
}

// evictOldest removes the single entry with the oldest write timestamp.
// Caller must hold d.mu.
func (d *Deduplicator[T]) evictOldest() {
	var oldestKey string
	var oldest time.Time
	first := true
	for key, e := range d.cache {
		if first || e.written.Before(oldest) {
			oldestKey, oldest = key, e.written
			first = false
		}
	}
	if oldestKey != "" {
		delete(d.cache, oldestKey)
	}
}
