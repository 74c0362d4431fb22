package data

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/yunqiangwu/etf-grid-master/internal/model"
)

type cacheEntry struct {
	Bars      []model.HistoricalBar
	ExpiresAt time.Time
}

// BarCache is an in-memory TTL cache for historical bar responses. It
// exists to spare the quote gateway during local iteration on grid
// parameters, where the same series is fetched over and over. It is
// opt-in via ENABLE_QUOTE_CACHE=true and never enabled when
// API_ENV=production.
type BarCache struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
	ttl   time.Duration
}

var globalCache *BarCache
var cacheOnce sync.Once

// GetCache returns the global cache instance, or nil when caching is
// disabled.
func GetCache() *BarCache {
	if os.Getenv("ENABLE_QUOTE_CACHE") != "true" {
		return nil
	}
	if os.Getenv("API_ENV") == "production" {
		return nil
	}

	cacheOnce.Do(func() {
		ttl := 1 * time.Hour
		if ttlStr := os.Getenv("QUOTE_CACHE_TTL"); ttlStr != "" {
			if parsed, err := time.ParseDuration(ttlStr); err == nil {
				ttl = parsed
			}
		}
		globalCache = &BarCache{
			store: make(map[string]*cacheEntry),
			ttl:   ttl,
		}
		go globalCache.cleanup()
	})
	return globalCache
}

// Get retrieves cached bars if present and not expired.
func (c *BarCache) Get(key string) ([]model.HistoricalBar, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists || time.Now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Bars, true
}

// Set stores bars under key for the cache TTL.
func (c *BarCache) Set(key string, bars []model.HistoricalBar) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &cacheEntry{
		Bars:      bars,
		ExpiresAt: time.Now().Add(c.ttl),
	}
}

// Clear removes all entries.
func (c *BarCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*cacheEntry)
}

func (c *BarCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.store {
			if now.After(entry.ExpiresAt) {
				delete(c.store, key)
			}
		}
		c.mu.Unlock()
	}
}

// CacheKey builds a deterministic key for one historical-data query.
func CacheKey(symbol string, start, end model.Day) string {
	keyStr := fmt.Sprintf("%s:%s:%s:%s:%s", symbol, start, end, quoteAdjust, quoteSource)
	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}
