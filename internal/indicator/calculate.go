package indicator

import (
	"fmt"
	"sort"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// MinCalculationBars is the minimum series length CalculateAll accepts.
// Below this the longest default warm-up window (MA 50) leaves nothing
// usable to evaluate.
const MinCalculationBars = 50

func newPoint(c models.Candle) *models.IndicatorPoint {
	return &models.IndicatorPoint{
		Symbol:    c.Symbol,
		Timestamp: c.Timestamp,
		Interval:  c.Interval,
		Open:      c.Open,
		High:      c.High,
		Low:       c.Low,
		Close:     c.Close,
	}
}

// mergePoints folds partial per-indicator results into one point per
// (symbol, timestamp, interval) key. Later passes fill fields the
// earlier passes left nil; OHLC comes from whichever pass saw the bar
// first (all passes carry the same candle).
func mergePoints(passes ...[]*models.IndicatorPoint) []*models.IndicatorPoint {
	merged := make(map[models.IndicatorKey]*models.IndicatorPoint)
	for _, pass := range passes {
		for _, p := range pass {
			key := p.Key()
			existing, ok := merged[key]
			if !ok {
				cp := *p
				merged[key] = &cp
				continue
			}
			fillPoint(existing, p)
		}
	}

	out := make([]*models.IndicatorPoint, 0, len(merged))
	for _, p := range merged {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func fillPoint(dst, src *models.IndicatorPoint) {
	if dst.RSI == nil {
		dst.RSI = src.RSI
	}
	if dst.MACD == nil {
		dst.MACD = src.MACD
	}
	if dst.MACDSig == nil {
		dst.MACDSig = src.MACDSig
	}
	if dst.MACDHist == nil {
		dst.MACDHist = src.MACDHist
	}
	if src.MA != nil {
		if dst.MA == nil {
			dst.MA = make(map[int]float64, len(src.MA))
		}
		for period, v := range src.MA {
			if _, ok := dst.MA[period]; !ok {
				dst.MA[period] = v
			}
		}
	}
	if dst.BBUpper == nil {
		dst.BBUpper = src.BBUpper
	}
	if dst.BBMiddle == nil {
		dst.BBMiddle = src.BBMiddle
	}
	if dst.BBLower == nil {
		dst.BBLower = src.BBLower
	}
	if dst.Volume == nil {
		dst.Volume = src.Volume
	}
	if dst.VolumeAvg == nil {
		dst.VolumeAvg = src.VolumeAvg
	}
	if dst.NVTRatio == nil {
		dst.NVTRatio = src.NVTRatio
	}
}

// CalculateAll runs every indicator with its default parameterization
// and merges the results into complete points: only bars for which all
// sub-indicators produced values are kept, so the output length is
// governed by the indicator with the largest warm-up window. txValues
// may be nil, in which case NVT is skipped. Fail-closed: any
// sub-calculation error returns an error rather than a partial merge.
func CalculateAll(candles []models.Candle, txValues []TxValue) ([]*models.IndicatorPoint, error) {
	if len(candles) < MinCalculationBars {
		return nil, insufficientData("CalculateAll", MinCalculationBars, len(candles))
	}
	models.SortCandles(candles)

	rsi, err := RSI(candles, 14)
	if err != nil {
		return nil, fmt.Errorf("rsi: %w", err)
	}
	macd, err := MACD(candles, 12, 26, 9)
	if err != nil {
		return nil, fmt.Errorf("macd: %w", err)
	}
	ma, err := MovingAverages(candles, 20, 50)
	if err != nil {
		return nil, fmt.Errorf("moving averages: %w", err)
	}
	bb, err := BollingerBands(candles, 20, 2)
	if err != nil {
		return nil, fmt.Errorf("bollinger bands: %w", err)
	}
	vol, err := VolumeMetrics(candles, 20)
	if err != nil {
		return nil, fmt.Errorf("volume metrics: %w", err)
	}

	passes := [][]*models.IndicatorPoint{rsi, macd, ma, bb, vol}
	if len(txValues) > 0 {
		nvt, err := NVT(candles, txValues, 28)
		if err != nil {
			return nil, fmt.Errorf("nvt: %w", err)
		}
		passes = append(passes, nvt)
	}

	merged := mergePoints(passes...)

	complete := merged[:0]
	for _, p := range merged {
		if p.RSI != nil && p.MACD != nil && p.MACDSig != nil && p.MACDHist != nil &&
			p.MA != nil && p.BBUpper != nil && p.Volume != nil {
			complete = append(complete, p)
		}
	}
	return complete, nil
}

// CalculateForSettings runs only the indicators a strategy enabled,
// with the strategy's parameters, merged by bar. The trailing bars of
// the result carry every enabled indicator; leading bars may be sparse
// where warm-up windows differ. Fail-closed like CalculateAll.
func CalculateForSettings(candles []models.Candle, settings models.IndicatorSettings) ([]*models.IndicatorPoint, error) {
	models.SortCandles(candles)

	var passes [][]*models.IndicatorPoint

	if settings.RSI.Enabled {
		rsi, err := RSI(candles, settings.RSI.Period)
		if err != nil {
			return nil, fmt.Errorf("rsi: %w", err)
		}
		passes = append(passes, rsi)
	}
	if settings.MACD.Enabled {
		macd, err := MACD(candles, settings.MACD.FastPeriod, settings.MACD.SlowPeriod, settings.MACD.SignalPeriod)
		if err != nil {
			return nil, fmt.Errorf("macd: %w", err)
		}
		passes = append(passes, macd)
	}
	if settings.MA.Enabled {
		ma, err := MovingAverages(candles, settings.MA.FastPeriod, settings.MA.SlowPeriod)
		if err != nil {
			return nil, fmt.Errorf("moving averages: %w", err)
		}
		passes = append(passes, ma)
	}
	if settings.Bollinger.Enabled {
		bb, err := BollingerBands(candles, settings.Bollinger.Period, settings.Bollinger.Deviations)
		if err != nil {
			return nil, fmt.Errorf("bollinger bands: %w", err)
		}
		passes = append(passes, bb)
	}
	if settings.Volume.Enabled {
		vol, err := VolumeMetrics(candles, settings.Volume.Period)
		if err != nil {
			return nil, fmt.Errorf("volume metrics: %w", err)
		}
		passes = append(passes, vol)
	}

	if len(passes) == 0 {
		return nil, nil
	}
	return mergePoints(passes...), nil
}
