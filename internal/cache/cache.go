// Package cache provides a small TTL cache shared by the classification and
// strategy services. Instances are constructed at startup and passed into the
// components that need them; there is no package-level state.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value  interface{}
	expiry time.Time
}

// Cache is a mutex-protected key/value map with per-instance TTL. Entries are
// immutable snapshots once written; expired entries are deleted lazily on the
// next read, or in bulk by DeleteExpired.
type Cache struct {
	mu    sync.Mutex
	items map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

// New creates a cache whose entries live for ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		items: make(map[string]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// NewWithClock creates a cache with an injected clock, used by tests to
// simulate TTL expiry.
func NewWithClock(ttl time.Duration, now func() time.Time) *Cache {
	c := New(ttl)
	c.now = now
	return c
}

// Get returns the cached value for key, or false if absent or expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiry) {
		delete(c.items, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the cache's TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry{value: value, expiry: c.now().Add(c.ttl)}
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]entry)
}

// DeleteExpired removes only the entries whose TTL has elapsed and returns
// how many were dropped.
func (c *Cache) DeleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.items {
		if !now.Before(e.expiry) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries currently stored, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}
