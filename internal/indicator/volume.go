package indicator

import (
	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// VolumeMetrics carries the raw volume of each bar alongside its
// trailing average over the given period. One point per bar from
// period-1 onward.
func VolumeMetrics(candles []models.Candle, period int) ([]*models.IndicatorPoint, error) {
	if period <= 0 {
		period = 20
	}
	if len(candles) < period {
		return nil, insufficientData("VolumeMetrics", period, len(candles))
	}

	points := make([]*models.IndicatorPoint, 0, len(candles)-period+1)
	for i := period - 1; i < len(candles); i++ {
		var sum float64
		for j := i - period + 1; j <= i; j++ {
			sum += candles[j].Volume
		}
		p := newPoint(candles[i])
		p.Volume = models.Float64Ptr(candles[i].Volume)
		p.VolumeAvg = models.Float64Ptr(sum / float64(period))
		points = append(points, p)
	}

	return points, nil
}
