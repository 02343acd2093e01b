package indicator

import (
	"math"
	"time"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

var testBase = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// candlesFromCloses builds a daily candle series from close prices.
// Volume defaults to 1000 per bar.
func candlesFromCloses(closes []float64) []models.Candle {
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = models.Candle{
			Symbol:    "BTC",
			Interval:  models.Interval1Day,
			Timestamp: testBase.AddDate(0, 0, i),
			Open:      c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    1000,
		}
	}
	return candles
}

// trendingCloses generates n closes starting at base, moving by step
// with a small oscillation so the series is not perfectly smooth.
func trendingCloses(n int, base, step float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = base + step*float64(i) + 0.3*math.Sin(float64(i))
	}
	return closes
}
