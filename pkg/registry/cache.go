package registry

import (
	"sync"
	"time"
)

// timeNowFunc is a variable that holds the time.Now function.
// This allows for clock injection during testing.
var timeNowFunc = time.Now

// versionCache is a short-lived in-memory cache of index responses keyed by
// lowercased package id.
type versionCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

// cacheEntry holds one cached response and its expiry instant.
type cacheEntry struct {
	versions []string
	expires  time.Time
}

// newVersionCache creates a cache with the given entry lifetime.
//
// Parameters:
//   - ttl: How long entries are served before expiring; zero disables caching
//
// Returns:
//   - *versionCache: The initialized cache
func newVersionCache(ttl time.Duration) *versionCache {
	return &versionCache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

// get returns the cached versions for a key if present and unexpired.
//
// Parameters:
//   - key: Lowercased package id
//
// Returns:
//   - []string: The cached versions
//   - bool: true on a fresh cache hit
func (c *versionCache) get(key string) ([]string, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || timeNowFunc().After(entry.expires) {
		return nil, false
	}
	return entry.versions, true
}

// put stores a response under a key with the cache's lifetime.
//
// Parameters:
//   - key: Lowercased package id
//   - versions: The response to cache
func (c *versionCache) put(key string, versions []string) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{versions: versions, expires: timeNowFunc().Add(c.ttl)}
	c.mu.Unlock()
}
