package cache

import (
	"sync/atomic"
	"time"
)

// LayeredCache fronts the disk memo with a memory layer. Disk hits are
// promoted so repeated fields in one run never touch the filesystem twice.
type LayeredCache struct {
	memory   *MemoryCache
	disk     *DiskCache
	diskHits atomic.Int64
	misses   atomic.Int64
}

// NewLayeredCache creates a memory layer with memoryTTL over a disk layer in diskDir
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, ok := c.memory.Get(key); ok {
		return val, true
	}

	val, ok := c.disk.Get(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.diskHits.Add(1)
	_ = c.memory.Set(key, val, 0)
	return val, true
}

// Set writes through to both layers; the disk error wins
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	_ = c.memory.Set(key, value, ttl)
	return c.disk.Set(key, value, ttl)
}

func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	return c.disk.Delete(key)
}

func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}

// Stats reports lookups since creation, split by the layer that answered
func (c *LayeredCache) Stats() Stats {
	return Stats{
		MemoryHits: c.memory.Stats().MemoryHits,
		DiskHits:   c.diskHits.Load(),
		Misses:     c.misses.Load(),
	}
}
