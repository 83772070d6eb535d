package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is a process-local TTL cache for decoded API responses. Values are
// shared, not copied, so callers must treat them as read-only.
type Memory struct {
	c *gocache.Cache
}

// NewMemory returns a cache whose entries expire after ttl. Expired entries
// are swept every cleanup interval; zero cleanup disables the sweeper.
func NewMemory(ttl, cleanup time.Duration) *Memory {
	return &Memory{c: gocache.New(ttl, cleanup)}
}

// Get returns the value stored under prefix:key.
func (m *Memory) Get(prefix, key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	return m.c.Get(prefix + ":" + key)
}

// Set stores v under prefix:key with the default expiration.
func (m *Memory) Set(prefix, key string, v any) {
	if m == nil {
		return
	}
	m.c.SetDefault(prefix+":"+key, v)
}

// Flush drops every entry.
func (m *Memory) Flush() {
	if m == nil {
		return
	}
	m.c.Flush()
}

// Len reports the number of stored entries, including expired ones not yet swept.
func (m *Memory) Len() int {
	if m == nil {
		return 0
	}
	return m.c.ItemCount()
}
