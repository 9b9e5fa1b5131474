package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// FareCacheEntry is the cached minimum fare for one route and date.
type FareCacheEntry struct {
	MinPrice decimal.Decimal `json:"min_price"`
	Currency string          `json:"currency"`
	CachedAt time.Time       `json:"cached_at"`
}

// FareCacheStats tracks cache performance metrics.
type FareCacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
	mu     sync.RWMutex
}

// RedisFareCache caches the minimum observed fare per (origin,
// destination, departure date, currency). The flex-date scanner
// consults it before touching history or re-querying providers.
type RedisFareCache struct {
	redis  *redis.Client
	ttl    time.Duration
	stats  *FareCacheStats
	prefix string
	logger *logrus.Logger
}

// NewRedisFareCache creates a Redis-backed fare cache.
func NewRedisFareCache(redisClient *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisFareCache {
	return &RedisFareCache{
		redis:  redisClient,
		ttl:    ttl,
		stats:  &FareCacheStats{},
		prefix: "fare_cache:",
		logger: logger,
	}
}

func (c *RedisFareCache) key(origin, destination string, date time.Time, currency string) string {
	return fmt.Sprintf("%s%s:%s:%s:%s", c.prefix, origin, destination, date.Format("2006-01-02"), currency)
}

// GetMinFare retrieves the cached minimum fare for a route and date.
func (c *RedisFareCache) GetMinFare(ctx context.Context, origin, destination string, date time.Time, currency string) (decimal.Decimal, bool) {
	data, err := c.redis.Get(ctx, c.key(origin, destination, date, currency)).Result()
	if err == redis.Nil {
		c.recordMiss()
		return decimal.Zero, false
	}
	if err != nil {
		c.logger.WithError(err).Debug("Fare cache read failed")
		c.recordMiss()
		return decimal.Zero, false
	}

	var entry FareCacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		c.logger.WithError(err).Debug("Fare cache entry malformed, ignoring")
		c.recordMiss()
		return decimal.Zero, false
	}

	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()
	return entry.MinPrice, true
}

// SetMinFare stores the minimum fare for a route and date.
func (c *RedisFareCache) SetMinFare(ctx context.Context, origin, destination string, date time.Time, currency string, minPrice decimal.Decimal) error {
	entry := FareCacheEntry{
		MinPrice: minPrice,
		Currency: currency,
		CachedAt: time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal fare cache entry: %w", err)
	}

	if err := c.redis.Set(ctx, c.key(origin, destination, date, currency), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache fare: %w", err)
	}

	c.stats.mu.Lock()
	c.stats.Sets++
	c.stats.mu.Unlock()
	return nil
}

// Stats returns a copy of the cache counters.
func (c *RedisFareCache) Stats() (hits, misses, sets int64) {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()
	return c.stats.Hits, c.stats.Misses, c.stats.Sets
}

func (c *RedisFareCache) recordMiss() {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()
}
