package calculator

import (
	"errors"
	"math"
)

// CalculateRange returns the high and low of the most recent window prices.
func CalculateRange(prices []float64, window int) (high, low float64, err error) {
	if len(prices) == 0 {
		return 0, 0, errors.New("no prices provided")
	}
	if window <= 0 {
		return 0, 0, errors.New("window must be positive")
	}
	start := len(prices) - window
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, p := range prices[start:] {
		high = math.Max(high, p)
		low = math.Min(low, p)
	}
	return high, low, nil
}
