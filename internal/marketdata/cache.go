package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// Provider is the market data interface the cache wraps and satisfies.
type Provider interface {
	GetHistoricalData(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error)
	GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// CachedProvider wraps a Provider with a short-TTL Redis cache for
// current prices. Candle history is not cached: evaluations want the
// freshest closing bar, and the upstream already bounds the fetch.
// Cache failures degrade to the upstream, never to an error.
type CachedProvider struct {
	upstream Provider
	rdb      *redis.Client
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewCachedProvider wraps upstream with a Redis price cache.
func NewCachedProvider(upstream Provider, rdb *redis.Client, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedProvider{
		upstream: upstream,
		rdb:      rdb,
		ttl:      ttl,
		logger:   log.With().Str("component", "marketdata_cache").Logger(),
	}
}

// GetHistoricalData passes through to the upstream provider.
func (c *CachedProvider) GetHistoricalData(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error) {
	return c.upstream.GetHistoricalData(ctx, symbol, interval, limit)
}

// GetCurrentPrice returns the cached price when fresh, otherwise asks
// the upstream and caches the answer.
func (c *CachedProvider) GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	key := priceKey(symbol)

	if cached, err := c.rdb.Get(ctx, key).Result(); err == nil {
		price, perr := decimal.NewFromString(cached)
		if perr == nil {
			return price, nil
		}
		c.logger.Warn().Str("symbol", symbol).Str("value", cached).Msg("discarding unparseable cached price")
	} else if err != redis.Nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Msg("price cache read failed")
	}

	price, err := c.upstream.GetCurrentPrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}

	if err := c.rdb.Set(ctx, key, price.String(), c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Msg("price cache write failed")
	}
	return price, nil
}

func priceKey(symbol string) string {
	return fmt.Sprintf("price:%s", symbol)
}
