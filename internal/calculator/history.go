package calculator

import "GoldSentinel/internal/model"

// Summarize derives trend statistics from chronologically ordered prices.
// Averages that lack data are left at zero.
func Summarize(prices []float64) *model.PriceHistory {
	h := &model.PriceHistory{Samples: len(prices)}
	if len(prices) == 0 {
		return h
	}
	h.Last = prices[len(prices)-1]
	if v, err := CalculateSMA(prices, 7); err == nil {
		h.SMA7 = v
	}
	if v, err := CalculateSMA(prices, 30); err == nil {
		h.SMA30 = v
	}
	if v, err := CalculateRSI(prices, 14); err == nil {
		h.RSI14 = v
	}
	if hi, lo, err := CalculateRange(prices, 30); err == nil {
		h.High30, h.Low30 = hi, lo
	}
	return h
}
