package model

// Indicator keys used in MarketSnapshot.Estimated.
const (
	IndicatorBitcoin   = "bitcoin"
	IndicatorUSDINR    = "usd_inr"
	IndicatorUSDIndex  = "usd_index"
	IndicatorOil       = "oil_price"
	IndicatorVIX       = "vix"
	IndicatorBondYield = "bond_yield"
	IndicatorGoldUSD   = "gold_usd"
)

// MarketSnapshot holds the global indicators that feed the forecast.
type MarketSnapshot struct {
	Bitcoin   float64
	USDINR    float64
	USDIndex  float64
	OilPrice  float64
	VIX       float64
	BondYield float64
	GoldUSDOz float64 // COMEX front-month, zero when unavailable

	// Estimated marks indicators that are fallbacks or seasonal models
	// rather than values read from a live feed.
	Estimated map[string]bool
}

// IsEstimated reports whether the named indicator is not live data.
func (m *MarketSnapshot) IsEstimated(key string) bool {
	return m.Estimated != nil && m.Estimated[key]
}

// MarkEstimated flags the named indicator as not live.
func (m *MarketSnapshot) MarkEstimated(key string) {
	if m.Estimated == nil {
		m.Estimated = make(map[string]bool)
	}
	m.Estimated[key] = true
}
