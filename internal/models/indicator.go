package models

import "time"

// Indicator field name constants, used when extracting the subset of
// values that triggered a signal.
const (
	IndicatorRSI       = "rsi"
	IndicatorMACD      = "macd"
	IndicatorMACDSig   = "macd_signal"
	IndicatorMACDHist  = "macd_histogram"
	IndicatorBBUpper   = "bb_upper"
	IndicatorBBMiddle  = "bb_middle"
	IndicatorBBLower   = "bb_lower"
	IndicatorVolume    = "volume"
	IndicatorVolumeAvg = "volume_avg"
	IndicatorNVT       = "nvt_ratio"
)

// IndicatorKey identifies one bar of indicator data. Timestamp is epoch
// milliseconds so the key is usable as a map key without time.Time
// equality surprises.
type IndicatorKey struct {
	Symbol    string
	Timestamp int64
	Interval  string
}

// NewIndicatorKey builds the composite key for a candle.
func NewIndicatorKey(symbol string, ts time.Time, interval string) IndicatorKey {
	return IndicatorKey{
		Symbol:    symbol,
		Timestamp: ts.UnixMilli(),
		Interval:  interval,
	}
}

// IndicatorPoint is a sparse record of whichever indicator values were
// computed for one bar. Nil pointer fields mean the indicator was not
// computed for that bar (warm-up window not yet satisfied, or the
// indicator was not requested). OHLC is carried through from the source
// candle for convenience.
type IndicatorPoint struct {
	Symbol    string          `json:"symbol"`
	Timestamp time.Time       `json:"timestamp"`
	Interval  string          `json:"interval"`
	Open      float64         `json:"open"`
	High      float64         `json:"high"`
	Low       float64         `json:"low"`
	Close     float64         `json:"close"`
	RSI       *float64        `json:"rsi,omitempty"`
	MACD      *float64        `json:"macd,omitempty"`
	MACDSig   *float64        `json:"macd_signal,omitempty"`
	MACDHist  *float64        `json:"macd_histogram,omitempty"`
	MA        map[int]float64 `json:"ma,omitempty"`
	BBUpper   *float64        `json:"bb_upper,omitempty"`
	BBMiddle  *float64        `json:"bb_middle,omitempty"`
	BBLower   *float64        `json:"bb_lower,omitempty"`
	Volume    *float64        `json:"volume,omitempty"`
	VolumeAvg *float64        `json:"volume_avg,omitempty"`
	NVTRatio  *float64        `json:"nvt_ratio,omitempty"`
}

// Key returns the composite key for this point.
func (p *IndicatorPoint) Key() IndicatorKey {
	return NewIndicatorKey(p.Symbol, p.Timestamp, p.Interval)
}

// MAValue returns the moving average for the given period, if present.
func (p *IndicatorPoint) MAValue(period int) (float64, bool) {
	if p.MA == nil {
		return 0, false
	}
	v, ok := p.MA[period]
	return v, ok
}

// Float64Ptr is a convenience helper for building sparse indicator points.
func Float64Ptr(v float64) *float64 {
	return &v
}
