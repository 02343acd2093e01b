// Package marketdata implements the MarketDataProvider collaborator:
// an HTTP client against the market data service, with retry on
// transient failures and an optional Redis price cache in front.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// Client fetches candles and quotes from the market data service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries uint64
	logger     zerolog.Logger
}

// ClientOptions configures a market data client.
type ClientOptions struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
	MaxRetries     uint64
}

// NewClient creates a market data client.
func NewClient(opts ClientOptions) *Client {
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	return &Client{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		httpClient: &http.Client{Timeout: opts.RequestTimeout},
		maxRetries: opts.MaxRetries,
		logger:     log.With().Str("component", "marketdata_client").Logger(),
	}
}

type candleResponse struct {
	Symbol  string `json:"symbol"`
	Candles []struct {
		Timestamp int64   `json:"timestamp"`
		Open      float64 `json:"open"`
		High      float64 `json:"high"`
		Low       float64 `json:"low"`
		Close     float64 `json:"close"`
		Volume    float64 `json:"volume"`
	} `json:"candles"`
}

type quoteResponse struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

// GetHistoricalData fetches up to limit candles for a symbol/interval,
// returned ascending by timestamp. Fails with a descriptive error when
// the service has no data for the pair.
func (c *Client) GetHistoricalData(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error) {
	endpoint := fmt.Sprintf("%s/api/v1/candles?symbol=%s&interval=%s&limit=%d",
		c.baseURL, url.QueryEscape(symbol), url.QueryEscape(interval), limit)

	var resp candleResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch candles for %s/%s: %w", symbol, interval, err)
	}
	if len(resp.Candles) == 0 {
		return nil, fmt.Errorf("no market data available for %s at interval %s", symbol, interval)
	}

	candles := make([]models.Candle, 0, len(resp.Candles))
	for _, raw := range resp.Candles {
		candles = append(candles, models.Candle{
			Symbol:    symbol,
			Interval:  interval,
			Timestamp: time.UnixMilli(raw.Timestamp).UTC(),
			Open:      raw.Open,
			High:      raw.High,
			Low:       raw.Low,
			Close:     raw.Close,
			Volume:    raw.Volume,
		})
	}
	models.SortCandles(candles)
	return candles, nil
}

// GetCurrentPrice fetches the latest quote for a symbol.
func (c *Client) GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", c.baseURL, url.QueryEscape(symbol))

	var resp quoteResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch current price for %s: %w", symbol, err)
	}
	if resp.Price.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("no price available for %s", symbol)
	}
	return resp.Price, nil
}

// getJSON performs a GET with exponential backoff on transient errors.
// 4xx responses are permanent; network errors and 5xx retry.
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error %d: %s", resp.StatusCode, body)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body))
		}
		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)

	return backoff.RetryNotify(operation, policy, func(err error, wait time.Duration) {
		c.logger.Warn().Err(err).Dur("retry_in", wait).Msg("market data request failed, retrying")
	})
}
