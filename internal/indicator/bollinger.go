package indicator

import (
	"math"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// BollingerBands calculates a volatility envelope: the middle band is
// SMA(period), the upper and lower bands sit mult standard deviations
// above and below it. One point per bar from period-1 onward.
func BollingerBands(candles []models.Candle, period int, mult float64) ([]*models.IndicatorPoint, error) {
	if period <= 0 {
		period = 20
	}
	if mult <= 0 {
		mult = 2
	}
	if len(candles) < period {
		return nil, insufficientData("BollingerBands", period, len(candles))
	}

	points := make([]*models.IndicatorPoint, 0, len(candles)-period+1)
	for i := period - 1; i < len(candles); i++ {
		var sum float64
		for j := i - period + 1; j <= i; j++ {
			sum += candles[j].Close
		}
		middle := sum / float64(period)

		var variance float64
		for j := i - period + 1; j <= i; j++ {
			d := candles[j].Close - middle
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period))

		p := newPoint(candles[i])
		p.BBMiddle = models.Float64Ptr(middle)
		p.BBUpper = models.Float64Ptr(middle + mult*sd)
		p.BBLower = models.Float64Ptr(middle - mult*sd)
		points = append(points, p)
	}

	return points, nil
}
