package models

import (
	"sort"
	"time"
)

// Interval constants for candle data
const (
	Interval1Min  = "1m"
	Interval5Min  = "5m"
	Interval15Min = "15m"
	Interval1Hour = "1h"
	Interval4Hour = "4h"
	Interval1Day  = "1d"
)

// Candle represents a single OHLCV observation for a symbol.
// Candle series must be sorted ascending by timestamp before any
// indicator calculation; use SortCandles to enforce this.
type Candle struct {
	Symbol    string    `json:"symbol"`
	Interval  string    `json:"interval"`
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// SortCandles sorts a candle series ascending by timestamp in place.
func SortCandles(candles []Candle) {
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})
}

// Closes extracts the close prices from a candle series.
func Closes(candles []Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}
