// Package cache provides request-level memoization for discovery runs.
//
// Two implementations share the same shape: an in-memory generic cache
// for long-running processes, and a SQLite-backed byte cache so separate
// CLI invocations within the TTL window reuse a previous run's fan-out.
// Both are constructed and injected; there is no package-level singleton.
package cache

import (
	"strings"
	"sync"
	"time"
)

// Key builds a cache key from the query plus an option fingerprint. The
// query is case- and whitespace-insensitive.
func Key(query string, fingerprint ...string) string {
	parts := append([]string{strings.ToLower(strings.TrimSpace(query))}, fingerprint...)
	return strings.Join(parts, "|")
}

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Entries int `json:"entries"`
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
}

type entry[V any] struct {
	value   V
	savedAt time.Time
}

// Cache is an in-memory TTL cache with a max-entry cap. Safe for
// concurrent use.
type Cache[V any] struct {
	mu         sync.RWMutex
	entries    map[string]entry[V]
	ttl        time.Duration
	maxEntries int
	hits       int
	misses     int
}

// New creates a cache. ttl <= 0 disables expiry; maxEntries <= 0 means
// unbounded.
func New[V any](ttl time.Duration, maxEntries int) *Cache[V] {
	return &Cache[V]{
		entries:    make(map[string]entry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// Get returns the cached value for key if present and fresh.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok && c.expired(e) {
		delete(c.entries, key)
		ok = false
	}
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	return e.value, true
}

// Set stores a value, evicting the oldest entry when the cap is reached.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	c.entries[key] = entry[V]{value: value, savedAt: time.Now()}
}

// Invalidate removes one key, or every key when key is empty.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == "" {
		c.entries = make(map[string]entry[V])
		return
	}
	delete(c.entries, key)
}

// Stats reports current size and hit counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}

// WithCache returns the cached value for key, or computes, stores and
// returns a fresh one. The second return reports whether the value came
// from the cache. compute errors are returned without caching.
func (c *Cache[V]) WithCache(key string, compute func() (V, error)) (V, bool, error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}
	v, err := compute()
	if err != nil {
		var zero V
		return zero, false, err
	}
	c.Set(key, v)
	return v, false, nil
}

func (c *Cache[V]) expired(e entry[V]) bool {
	return c.ttl > 0 && time.Since(e.savedAt) > c.ttl
}

// evictOldest removes the entry with the earliest save time. Caller holds
// the write lock.
func (c *Cache[V]) evictOldest() {
	var oldestKey string
	var oldest time.Time
	first := true
	for k, e := range c.entries {
		if first || e.savedAt.Before(oldest) {
			oldestKey, oldest = k, e.savedAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}
