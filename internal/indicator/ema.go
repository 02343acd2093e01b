package indicator

// EMASeries calculates an exponential moving average over a value
// series. The output has one entry per input value from index period-1
// onward (length len(values)-period+1). The first output is the simple
// average of the first period values; later outputs apply the standard
// multiplier k = 2/(period+1).
func EMASeries(values []float64, period int) ([]float64, error) {
	if period <= 0 || len(values) < period {
		return nil, insufficientData("EMA", period, len(values))
	}

	var sum float64
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	ema := sum / float64(period)
	multiplier := 2.0 / float64(period+1)

	out := make([]float64, 0, len(values)-period+1)
	out = append(out, ema)
	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
		out = append(out, ema)
	}
	return out, nil
}
