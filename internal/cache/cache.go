// Package cache holds rendered reports in memory with a TTL and a weak ETag,
// so repeated downloads of the same league do not hit the FPL API again.
package cache

import (
	"crypto/md5"
	"fmt"
	"sync"
	"time"
)

// Kind distinguishes the renderings cached per league.
type Kind string

const (
	KindWorkbook Kind = "xlsx"
	KindSummary  Kind = "summary"
)

// Key is the cache key for one rendering of one league's report.
func Key(kind Kind, leagueID int) string {
	return fmt.Sprintf("%s:%d", kind, leagueID)
}

// Entry is a cached rendering.
type Entry struct {
	Data        []byte
	ETag        string
	GeneratedAt time.Time
	expiresAt   time.Time
}

// Cache is a thread-safe in-memory TTL cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	enabled bool
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache whose entries live for ttl. Pass enabled=false for a
// no-op cache that never hits.
func New(enabled bool, ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]Entry),
		enabled: enabled,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Enabled reports whether the cache stores anything.
func (c *Cache) Enabled() bool { return c.enabled }

// TTL is the lifetime of every entry.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get retrieves a live entry.
func (c *Cache) Get(key string) (Entry, bool) {
	if !c.enabled {
		return Entry{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, exists := c.entries[key]
	if !exists || c.now().After(e.expiresAt) {
		return Entry{}, false
	}
	return e, true
}

// Set stores data under key and returns its ETag. The ETag is computed even
// when the cache is disabled so responses can still carry one.
func (c *Cache) Set(key string, data []byte) string {
	etag := ComputeETag(data)
	if !c.enabled {
		return etag
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{
		Data:        data,
		ETag:        etag,
		GeneratedAt: now,
		expiresAt:   now.Add(c.ttl),
	}
	return etag
}

// Invalidate drops every rendering of a league.
func (c *Cache) Invalidate(leagueID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, Key(KindWorkbook, leagueID))
	delete(c.entries, Key(KindSummary, leagueID))
}

// Stats is the health view of the cache.
type Stats struct {
	Enabled     bool    `json:"enabled"`
	TTLSeconds  float64 `json:"ttl_seconds"`
	TotalKeys   int     `json:"total_keys"`
	ActiveKeys  int     `json:"active_keys"`
	ExpiredKeys int     `json:"expired_keys"`
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	active := 0
	now := c.now()
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			active++
		}
	}
	return Stats{
		Enabled:     c.enabled,
		TTLSeconds:  c.ttl.Seconds(),
		TotalKeys:   len(c.entries),
		ActiveKeys:  active,
		ExpiredKeys: len(c.entries) - active,
	}
}

// Evict removes expired entries and returns how many it dropped.
func (c *Cache) Evict() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	dropped := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
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
	return ifNoneMatch == etag
}
