package indicator

import (
	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// MovingAverages calculates simple trailing averages for each requested
// period, merged into one point per bar. Points are emitted once the
// longest period's window is satisfied so every emitted point carries a
// value for every requested period.
func MovingAverages(candles []models.Candle, periods ...int) ([]*models.IndicatorPoint, error) {
	if len(periods) == 0 {
		periods = []int{20, 50}
	}
	longest := 0
	for _, p := range periods {
		if p > longest {
			longest = p
		}
	}
	if longest <= 0 || len(candles) < longest {
		return nil, insufficientData("MovingAverages", longest, len(candles))
	}

	points := make([]*models.IndicatorPoint, 0, len(candles)-longest+1)
	for i := longest - 1; i < len(candles); i++ {
		p := newPoint(candles[i])
		p.MA = make(map[int]float64, len(periods))
		for _, period := range periods {
			var sum float64
			for j := i - period + 1; j <= i; j++ {
				sum += candles[j].Close
			}
			p.MA[period] = sum / float64(period)
		}
		points = append(points, p)
	}

	return points, nil
}
