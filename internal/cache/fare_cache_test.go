package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFareCache(t *testing.T) (*RedisFareCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return NewRedisFareCache(client, 30*time.Minute, logger), mr
}

func TestRedisFareCache_SetAndGet(t *testing.T) {
	cache, _ := setupFareCache(t)
	ctx := context.Background()
	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("149.99")

	err := cache.SetMinFare(ctx, "DEL", "BOM", date, "USD", price)
	require.NoError(t, err)

	got, found := cache.GetMinFare(ctx, "DEL", "BOM", date, "USD")
	require.True(t, found)
	assert.True(t, got.Equal(price))

	hits, misses, sets := cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(0), misses)
	assert.Equal(t, int64(1), sets)
}

func TestRedisFareCache_MissOnUnknownRoute(t *testing.T) {
	cache, _ := setupFareCache(t)
	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	_, found := cache.GetMinFare(context.Background(), "DEL", "BOM", date, "USD")
	assert.False(t, found)

	_, misses, _ := cache.Stats()
	assert.Equal(t, int64(1), misses)
}

func TestRedisFareCache_KeyIsCurrencyScoped(t *testing.T) {
	cache, _ := setupFareCache(t)
	ctx := context.Background()
	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, cache.SetMinFare(ctx, "DEL", "BOM", date, "USD", decimal.NewFromInt(150)))

	_, found := cache.GetMinFare(ctx, "DEL", "BOM", date, "EUR")
	assert.False(t, found)
}

func TestRedisFareCache_EntryExpires(t *testing.T) {
	cache, mr := setupFareCache(t)
	ctx := context.Background()
	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, cache.SetMinFare(ctx, "DEL", "BOM", date, "USD", decimal.NewFromInt(150)))

	mr.FastForward(31 * time.Minute)

	_, found := cache.GetMinFare(ctx, "DEL", "BOM", date, "USD")
	assert.False(t, found)
}

func TestRedisFareCache_MalformedEntryIsIgnored(t *testing.T) {
	cache, mr := setupFareCache(t)
	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, mr.Set("fare_cache:DEL:BOM:2026-10-15:USD", "not json"))

	_, found := cache.GetMinFare(context.Background(), "DEL", "BOM", date, "USD")
	assert.False(t, found)

	_, misses, _ := cache.Stats()
	assert.Equal(t, int64(1), misses)
}

func TestRedisFareCache_OverwriteKeepsLatest(t *testing.T) {
	cache, _ := setupFareCache(t)
	ctx := context.Background()
	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, cache.SetMinFare(ctx, "DEL", "BOM", date, "USD", decimal.NewFromInt(180)))
	require.NoError(t, cache.SetMinFare(ctx, "DEL", "BOM", date, "USD", decimal.NewFromInt(150)))

	got, found := cache.GetMinFare(ctx, "DEL", "BOM", date, "USD")
	require.True(t, found)
	assert.Equal(t, "150", got.String())
}
