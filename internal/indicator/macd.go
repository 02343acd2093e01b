package indicator

import (
	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// MACD calculates Moving Average Convergence Divergence. The MACD line
// is EMA(fast) - EMA(slow); the signal line is EMA(signalPeriod) of the
// MACD line; the histogram is MACD - signal.
//
// Alignment is done by bar, carried on the candle timestamp: the MACD
// line exists from bar slowPeriod-1, the signal line from bar
// slowPeriod+signalPeriod-2. Points before the signal line is available
// carry only the MACD value.
func MACD(candles []models.Candle, fastPeriod, slowPeriod, signalPeriod int) ([]*models.IndicatorPoint, error) {
	if fastPeriod <= 0 {
		fastPeriod = 12
	}
	if slowPeriod <= 0 {
		slowPeriod = 26
	}
	if signalPeriod <= 0 {
		signalPeriod = 9
	}
	required := slowPeriod + signalPeriod
	if len(candles) < required {
		return nil, insufficientData("MACD", required, len(candles))
	}

	closes := models.Closes(candles)

	fastEMA, err := EMASeries(closes, fastPeriod)
	if err != nil {
		return nil, err
	}
	slowEMA, err := EMASeries(closes, slowPeriod)
	if err != nil {
		return nil, err
	}

	// MACD line values, one per bar from slowPeriod-1. The fast EMA
	// series starts earlier, so index into it with the bar offset.
	macdStart := slowPeriod - 1
	macdLine := make([]float64, len(slowEMA))
	for i := range slowEMA {
		bar := macdStart + i
		macdLine[i] = fastEMA[bar-(fastPeriod-1)] - slowEMA[i]
	}

	signalLine, err := EMASeries(macdLine, signalPeriod)
	if err != nil {
		return nil, err
	}
	signalStart := macdStart + signalPeriod - 1

	points := make([]*models.IndicatorPoint, 0, len(macdLine))
	for i, macd := range macdLine {
		bar := macdStart + i
		p := newPoint(candles[bar])
		p.MACD = models.Float64Ptr(macd)
		if bar >= signalStart {
			sig := signalLine[bar-signalStart]
			p.MACDSig = models.Float64Ptr(sig)
			p.MACDHist = models.Float64Ptr(macd - sig)
		}
		points = append(points, p)
	}

	return points, nil
}
