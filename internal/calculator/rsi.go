package calculator

import "errors"

// CalculateRSI returns the Wilder-smoothed RSI of a daily price series.
// Fewer than period+1 prices give the neutral 50, as does a series that
// never moved (retail rates often repeat over holidays).
func CalculateRSI(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period+1 {
		return 50.0, nil
	}

	// seed with the simple mean of the first period moves
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		g, l := split(prices[i] - prices[i-1])
		avgGain += g
		avgLoss += l
	}
	n := float64(period)
	avgGain /= n
	avgLoss /= n

	for i := period + 1; i < len(prices); i++ {
		g, l := split(prices[i] - prices[i-1])
		avgGain = (avgGain*(n-1) + g) / n
		avgLoss = (avgLoss*(n-1) + l) / n
	}

	switch {
	case avgGain == 0 && avgLoss == 0:
		return 50.0, nil
	case avgLoss == 0:
		return 100.0, nil
	}
	return 100.0 - 100.0/(1.0+avgGain/avgLoss), nil
}

// split returns a day's move as (gain, loss), both non-negative.
func split(change float64) (float64, float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}
