package cache

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bbernstein/tidegauge/internal/config"
	"github.com/bbernstein/tidegauge/internal/models"
	"github.com/hashicorp/golang-lru/v2"
)

// TableCacheEntry wraps a parsed station file with its expiry
type TableCacheEntry struct {
	Info      models.StationInfo
	Table     models.Table
	ExpiresAt time.Time
}

// TableCache keeps recently parsed station files in memory. Keys must change
// whenever the file content may have changed (see Key).
type TableCache struct {
	lru    *lru.Cache[string, *TableCacheEntry]
	ttl    time.Duration
	clock  clock
	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewTableCache(cfg *config.CacheConfig) (*TableCache, error) {
	lruCache, err := lru.New[string, *TableCacheEntry](cfg.TableLRUSize)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}

	return &TableCache{
		lru:   lruCache,
		ttl:   cfg.GetTableTTL(),
		clock: systemClock{},
	}, nil
}

// Key builds the cache key for one version of a station file.
func Key(location, name, version string) string {
	return fmt.Sprintf("%s|%s|%s", location, name, version)
}

// Get returns the cached file for key if present and not expired.
func (c *TableCache) Get(key string) (models.StationInfo, models.Table, bool) {
	entry, ok := c.lru.Get(key)
	if ok && c.clock.Now().Before(entry.ExpiresAt) {
		c.hits.Add(1)
		return entry.Info, entry.Table, true
	}
	if ok {
		c.lru.Remove(key)
	}
	c.misses.Add(1)
	return models.StationInfo{}, models.Table{}, false
}

func (c *TableCache) Add(key string, info models.StationInfo, table models.Table) {
	c.lru.Add(key, &TableCacheEntry{
		Info:      info,
		Table:     table,
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})
}

// GetCacheStats returns statistics about cache hits and misses
func (c *TableCache) GetCacheStats() map[string]uint64 {
	return map[string]uint64{
		"table_hits":    c.hits.Load(),
		"table_misses":  c.misses.Load(),
		"table_entries": uint64(c.lru.Len()),
	}
}
