package model

// Impact is the directional read of a single factor.
type Impact string

const (
	ImpactStronglyBullish Impact = "STRONGLY BULLISH"
	ImpactBullish         Impact = "BULLISH"
	ImpactNeutral         Impact = "NEUTRAL"
	ImpactBearish         Impact = "BEARISH"
)

// FactorScore is one weighted input to the sentiment score.
type FactorScore struct {
	Name       string
	Icon       string
	Weight     float64
	Bullish    float64
	Bearish    float64
	Impact     Impact
	Commentary string
}

// Forecast is the next-day outlook produced by the strategy engine.
type Forecast struct {
	Predicted24K   int64
	Predicted22K   int64
	ChangePct      float64
	Confidence     float64
	SentimentScore float64
	Trend          string
	Action         string
	RangeLower     int64
	RangeUpper     int64
	Factors        []FactorScore
	KeyDrivers     []string
}
