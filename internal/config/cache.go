package config

import (
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds the parsed-table cache settings
type CacheConfig struct {
	TableLRUSize       int
	TableLRUTTLMinutes int
	EnableTableCache   bool
	// MaxTableTTL caps any TTL read from the environment
	MaxTableTTL time.Duration
}

const (
	defaultTableLRUSize       = 256
	defaultTableLRUTTLMinutes = 60
	defaultMaxTableTTL        = 24 * time.Hour
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		TableLRUSize:       getEnvInt("CACHE_TABLE_LRU_SIZE", defaultTableLRUSize),
		TableLRUTTLMinutes: getEnvInt("CACHE_TABLE_TTL_MINUTES", defaultTableLRUTTLMinutes),
		EnableTableCache:   getEnvBool("CACHE_ENABLE_TABLES", true),
		MaxTableTTL:        getDurationEnvOrDefault("CACHE_TABLE_MAX_TTL", defaultMaxTableTTL),
	}

	log.Debug().
		Int("TableLRUSize", config.TableLRUSize).
		Int("TableLRUTTLMinutes", config.TableLRUTTLMinutes).
		Bool("EnableTableCache", config.EnableTableCache).
		Dur("MaxTableTTL", config.MaxTableTTL).
		Msg("Cache configuration loaded")

	return config
}

// GetTableTTL returns the table cache TTL, capped at MaxTableTTL
func (c *CacheConfig) GetTableTTL() time.Duration {
	ttl := time.Duration(c.TableLRUTTLMinutes) * time.Minute
	if c.MaxTableTTL > 0 && ttl > c.MaxTableTTL {
		return c.MaxTableTTL
	}
	return ttl
}
