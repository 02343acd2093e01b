package indicator

import (
	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// avgLoss is floored at this epsilon so RSI never divides by zero on a
// series with no down moves.
const lossEpsilon = 1e-10

// RSI calculates the Relative Strength Index using Wilder smoothing.
// The first period bars seed the average gain/loss from raw deltas;
// every later bar applies avg = (avg*(period-1) + delta) / period
// separately for gains and losses. Emits one point per bar starting at
// index period (the first bar after the seed window).
func RSI(candles []models.Candle, period int) ([]*models.IndicatorPoint, error) {
	if period <= 0 {
		period = 14
	}
	if len(candles) < period+1 {
		return nil, insufficientData("RSI", period+1, len(candles))
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := candles[i].Close - candles[i-1].Close
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	points := make([]*models.IndicatorPoint, 0, len(candles)-period)
	points = append(points, rsiPoint(candles[period], avgGain, avgLoss))

	for i := period + 1; i < len(candles); i++ {
		change := candles[i].Close - candles[i-1].Close
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		points = append(points, rsiPoint(candles[i], avgGain, avgLoss))
	}

	return points, nil
}

func rsiPoint(c models.Candle, avgGain, avgLoss float64) *models.IndicatorPoint {
	if avgLoss < lossEpsilon {
		avgLoss = lossEpsilon
	}
	rs := avgGain / avgLoss
	rsi := 100.0 - (100.0 / (1.0 + rs))
	p := newPoint(c)
	p.RSI = models.Float64Ptr(rsi)
	return p
}
