// Package cache provides an in-memory TTL cache with ETag support. It holds
// rendered stats responses keyed by subscriber and goal.
package cache

import (
	"crypto/md5"
	"fmt"
	"strings"
	"sync"
	"time"
)

const evictEvery = 5 * time.Minute

type entry struct {
	data      []byte
	etag      string
	expiresAt time.Time
}

// Cache is a thread-safe in-memory TTL cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	gens    map[string]uint64 // bumped by DeletePrefix, keyed by prefix
	enabled bool
	now     func() time.Time
}

// New creates a new cache. Pass enabled=false to create a no-op cache.
func New(enabled bool) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		gens:    make(map[string]uint64),
		enabled: enabled,
		now:     time.Now,
	}
}

// StatsKey is the cache key for one subscriber's stats at one goal.
func StatsKey(userID string, goal int) string {
	return fmt.Sprintf("%s%d", StatsPrefix(userID), goal)
}

// StatsPrefix covers every cached stats entry of a subscriber.
func StatsPrefix(userID string) string {
	return "stats:" + userID + ":"
}

// Get retrieves a cached value. Returns data, etag, and whether the entry was found.
func (c *Cache) Get(key string) (data []byte, etag string, ok bool) {
	if !c.enabled {
		return nil, "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, exists := c.entries[key]
	if !exists || c.now().After(e.expiresAt) {
		return nil, "", false
	}
	return e.data, e.etag, true
}

// Set stores a value with a TTL and returns its ETag.
func (c *Cache) Set(key string, data []byte, ttl time.Duration) string {
	etag := ComputeETag(data)
	if !c.enabled {
		return etag
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		data:      data,
		etag:      etag,
		expiresAt: c.now().Add(ttl),
	}
	return etag
}

// Generation returns the invalidation counter for prefix. Read it before
// computing a value and hand it to SetIfCurrent.
func (c *Cache) Generation(prefix string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[prefix]
}

// SetIfCurrent stores a value under key only if prefix has not been
// invalidated since gen was read. It returns the ETag and whether the value
// was stored.
func (c *Cache) SetIfCurrent(key, prefix string, gen uint64, data []byte, ttl time.Duration) (string, bool) {
	etag := ComputeETag(data)
	if !c.enabled {
		return etag, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[prefix] != gen {
		return etag, false
	}
	c.entries[key] = entry{
		data:      data,
		etag:      etag,
		expiresAt: c.now().Add(ttl),
	}
	return etag, true
}

// DeletePrefix drops every key starting with prefix, bumps the prefix's
// generation and reports how many keys were removed.
func (c *Cache) DeletePrefix(prefix string) int {
	if !c.enabled {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[prefix]++
	n := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

// Stats returns cache statistics.
func (c *Cache) Stats() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	active := 0
	now := c.now()
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			active++
		}
	}
	return map[string]any{
		"enabled":      c.enabled,
		"total_keys":   len(c.entries),
		"active_keys":  active,
		"expired_keys": len(c.entries) - active,
	}
}

// RunEvictor periodically removes expired entries until done is closed.
func (c *Cache) RunEvictor(done <-chan struct{}) {
	if !c.enabled {
		return
	}
	ticker := time.NewTicker(evictEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.evict()
		case <-done:
			return
		}
	}
}

func (c *Cache) evict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// ComputeETag generates a weak ETag from response data using MD5.
func ComputeETag(data []byte) string {
	hash := md5.Sum(data)
	return fmt.Sprintf(`W/"%x"`, hash[:8])
}

// CheckETagMatch checks if If-None-Match header matches the current ETag.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		if strings.TrimSpace(candidate) == etag {
			return true
		}
	}
	return false
}
