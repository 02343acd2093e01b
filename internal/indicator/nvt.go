package indicator

import (
	"time"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// TxValue is one day of on-chain transaction value, supplied by an
// external collaborator for NVT calculation.
type TxValue struct {
	Date  time.Time
	Value float64
}

// NVT calculates a simplified Network Value to Transactions ratio: the
// close price (market-cap proxy) divided by the trailing average of
// daily transaction value over the window. A bar is skipped when fewer
// than half the window's transaction-value days are present.
func NVT(candles []models.Candle, txValues []TxValue, period int) ([]*models.IndicatorPoint, error) {
	if period <= 0 {
		period = 28
	}
	if len(candles) < period {
		return nil, insufficientData("NVT", period, len(candles))
	}

	byDay := make(map[string]float64, len(txValues))
	for _, tx := range txValues {
		byDay[tx.Date.UTC().Format("2006-01-02")] = tx.Value
	}

	var points []*models.IndicatorPoint
	for i := period - 1; i < len(candles); i++ {
		var sum float64
		var present int
		for j := i - period + 1; j <= i; j++ {
			day := candles[j].Timestamp.UTC().Format("2006-01-02")
			if v, ok := byDay[day]; ok {
				sum += v
				present++
			}
		}
		// Too sparse a window produces a misleading ratio; skip the bar.
		if present < period/2 || sum == 0 {
			continue
		}
		avgTx := sum / float64(present)

		p := newPoint(candles[i])
		p.NVTRatio = models.Float64Ptr(candles[i].Close / avgTx)
		points = append(points, p)
	}

	return points, nil
}
