package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// countingProvider records upstream hits for cache assertions.
type countingProvider struct {
	price      decimal.Decimal
	priceErr   error
	priceCalls int
	histCalls  int
}

func (c *countingProvider) GetHistoricalData(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error) {
	c.histCalls++
	return nil, nil
}

func (c *countingProvider) GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	c.priceCalls++
	if c.priceErr != nil {
		return decimal.Zero, c.priceErr
	}
	return c.price, nil
}

func TestCachedProvider(t *testing.T) {
	ctx := context.Background()

	newCache := func(t *testing.T, upstream Provider, ttl time.Duration) (*CachedProvider, *miniredis.Miniredis) {
		t.Helper()
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { rdb.Close() })
		return NewCachedProvider(upstream, rdb, ttl), mr
	}

	t.Run("second read is served from the cache", func(t *testing.T) {
		upstream := &countingProvider{price: decimal.NewFromInt(64000)}
		cache, _ := newCache(t, upstream, 30*time.Second)

		first, err := cache.GetCurrentPrice(ctx, "BTC")
		require.NoError(t, err)
		second, err := cache.GetCurrentPrice(ctx, "BTC")
		require.NoError(t, err)

		assert.True(t, first.Equal(second))
		assert.Equal(t, 1, upstream.priceCalls)
	})

	t.Run("symbols are cached independently", func(t *testing.T) {
		upstream := &countingProvider{price: decimal.NewFromInt(100)}
		cache, _ := newCache(t, upstream, 30*time.Second)

		_, err := cache.GetCurrentPrice(ctx, "BTC")
		require.NoError(t, err)
		_, err = cache.GetCurrentPrice(ctx, "ETH")
		require.NoError(t, err)

		assert.Equal(t, 2, upstream.priceCalls)
	})

	t.Run("cached price expires after the TTL", func(t *testing.T) {
		upstream := &countingProvider{price: decimal.NewFromInt(64000)}
		cache, mr := newCache(t, upstream, 30*time.Second)

		_, err := cache.GetCurrentPrice(ctx, "BTC")
		require.NoError(t, err)

		mr.FastForward(31 * time.Second)

		_, err = cache.GetCurrentPrice(ctx, "BTC")
		require.NoError(t, err)
		assert.Equal(t, 2, upstream.priceCalls)
	})

	t.Run("unparseable cached value falls through to the upstream", func(t *testing.T) {
		upstream := &countingProvider{price: decimal.NewFromInt(64000)}
		cache, mr := newCache(t, upstream, 30*time.Second)

		require.NoError(t, mr.Set("price:BTC", "garbage"))

		price, err := cache.GetCurrentPrice(ctx, "BTC")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(64000).Equal(price))
		assert.Equal(t, 1, upstream.priceCalls)

		// The bad entry is overwritten with the fresh price.
		cached, err := mr.Get("price:BTC")
		require.NoError(t, err)
		assert.Equal(t, "64000", cached)
	})

	t.Run("cache failure degrades to the upstream", func(t *testing.T) {
		upstream := &countingProvider{price: decimal.NewFromInt(64000)}
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { rdb.Close() })
		cache := NewCachedProvider(upstream, rdb, 30*time.Second)

		mr.Close()

		price, err := cache.GetCurrentPrice(ctx, "BTC")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(64000).Equal(price))
		assert.Equal(t, 1, upstream.priceCalls)
	})

	t.Run("upstream error propagates on a cache miss", func(t *testing.T) {
		upstream := &countingProvider{priceErr: errors.New("quote service down")}
		cache, _ := newCache(t, upstream, 30*time.Second)

		_, err := cache.GetCurrentPrice(ctx, "BTC")
		require.Error(t, err)
	})

	t.Run("historical data always passes through", func(t *testing.T) {
		upstream := &countingProvider{}
		cache, _ := newCache(t, upstream, 30*time.Second)

		_, err := cache.GetHistoricalData(ctx, "BTC", models.Interval1Day, 100)
		require.NoError(t, err)
		_, err = cache.GetHistoricalData(ctx, "BTC", models.Interval1Day, 100)
		require.NoError(t, err)
		assert.Equal(t, 2, upstream.histCalls)
	})
}
