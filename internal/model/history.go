package model

// PriceHistory summarises recorded 24K prices from earlier runs.
type PriceHistory struct {
	Samples int
	SMA7    float64
	SMA30   float64
	RSI14   float64
	High30  float64
	Low30   float64
	Last    float64
}
