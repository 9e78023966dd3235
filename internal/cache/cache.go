// Package cache memoizes translations across runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ppiankov/yojana/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Stats counts memo lookups by outcome
type Stats struct {
	MemoryHits int64 `json:"memory_hits"`
	DiskHits   int64 `json:"disk_hits"`
	Misses     int64 `json:"misses"`
}

// Hits is the number of lookups answered by any layer
func (s Stats) Hits() int64 {
	return s.MemoryHits + s.DiskHits
}

// StatsReporter is implemented by caches that count lookups
type StatsReporter interface {
	Stats() Stats
}

// TranslationKey generates the memo key for a text in a target language.
// scope names the backend chain and model that produced the entry.
// Keys are file-name safe so the disk layer can use them directly.
func TranslationKey(scope, lang, text string) string {
	hash := sha256.Sum256([]byte(scope + "\x00" + text))
	return fmt.Sprintf("tr-v2-%s-%s", lang, hex.EncodeToString(hash[:]))
}

// New builds the configured cache; nil when caching is disabled
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}
