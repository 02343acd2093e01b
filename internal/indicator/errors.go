// Package indicator provides pure technical indicator calculations over
// OHLCV candle series. All functions expect candles sorted ascending by
// timestamp and produce one sparse IndicatorPoint per bar once the
// indicator's warm-up window is satisfied. No I/O, no side effects.
package indicator

import "fmt"

// InsufficientDataError is returned when a candle series is shorter
// than an indicator's required warm-up window. Recoverable: the caller
// should fetch more history.
type InsufficientDataError struct {
	Indicator string
	Required  int
	Got       int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: need at least %d bars, got %d",
		e.Indicator, e.Required, e.Got)
}

func insufficientData(indicator string, required, got int) error {
	return &InsufficientDataError{Indicator: indicator, Required: required, Got: got}
}
