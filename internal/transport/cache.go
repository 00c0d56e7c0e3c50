package transport

import (
	"sync"
	"time"
)

// maxCacheEntries bounds memory; the cache is per-client and short-lived, so
// eviction is a full reset rather than LRU bookkeeping.
const maxCacheEntries = 256

type cacheEntry struct {
	data    []byte
	expires time.Time
}

// responseCache is a TTL cache for GET responses. Status polling never goes
// through it (GetFresh), so staleness here only affects listings and app
// metadata.
type responseCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *responseCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.data, true
}

func (c *responseCache) put(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= maxCacheEntries {
		c.entries = make(map[string]cacheEntry)
	}
	c.entries[key] = cacheEntry{data: data, expires: time.Now().Add(c.ttl)}
}
