package cache

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps translations for the lifetime of the process
type MemoryCache struct {
	items *gocache.Cache
	hits  atomic.Int64
	miss  atomic.Int64
}

// NewMemoryCache creates a memory cache; expired entries are swept every cleanupInterval
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &MemoryCache{items: gocache.New(defaultTTL, cleanupInterval)}
}

func (c *MemoryCache) Get(key string) ([]byte, bool) {
	raw, found := c.items.Get(key)
	if b, ok := raw.([]byte); found && ok {
		c.hits.Add(1)
		return b, true
	}
	c.miss.Add(1)
	return nil, false
}

// Set stores value; ttl 0 means the cache default
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.items.Set(key, value, ttl)
	return nil
}

func (c *MemoryCache) Delete(key string) error {
	c.items.Delete(key)
	return nil
}

func (c *MemoryCache) Clear() error {
	c.items.Flush()
	return nil
}

// Len counts entries, including expired ones not yet swept
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}

// Stats reports lookups since creation
func (c *MemoryCache) Stats() Stats {
	return Stats{MemoryHits: c.hits.Load(), Misses: c.miss.Load()}
}
