package service

import (
	"sync"
	"time"
)

type cacheEntry struct {
	payload    any
	computedAt time.Time
	ttl        time.Duration
}

// ViewCache memoizes computed view payloads, each entry expiring independently.
// Stale entries behave as absent; recomputation overwrites them. This is a
// load-shedding cache: stale reads inside the TTL window are acceptable.
type ViewCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewViewCache creates a cache whose entries expire after ttl by default.
func NewViewCache(ttl time.Duration) *ViewCache {
	return &ViewCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached payload for key while it is still fresh.
func (c *ViewCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.computedAt) >= entry.ttl {
		return nil, false
	}
	return entry.payload, true
}

// Put stores payload under key with the default TTL, overwriting any
// previous entry.
func (c *ViewCache) Put(key string, payload any) {
	c.PutFor(key, payload, c.ttl)
}

// PutFor stores payload under key with an entry-specific TTL.
func (c *ViewCache) PutFor(key string, payload any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{payload: payload, computedAt: c.now(), ttl: ttl}
}

// Clear drops all entries.
func (c *ViewCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
