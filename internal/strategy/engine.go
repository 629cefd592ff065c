package strategy

import (
	"hash/fnv"
	"math"
	"time"

	"GoldSentinel/internal/model"
)

// Daily move limits, in percent.
const (
	MaxDailyChangePct = 2.5
	MinConfidence     = 70.0
	MaxConfidence     = 95.0
)

// Tiers maps a sentiment score to a trend label and suggested action.
// The first tier also requires confidence above 85.
var Tiers = []struct {
	MinScore float64
	Trend    string
	Action   string
}{
	{70, "STRONGLY BULLISH", "STRONG BUY"},
	{60, "BULLISH", "BUY on dips"},
	{55, "MODERATELY BULLISH", "SELECTIVE buying"},
	{45, "NEUTRAL", "HOLD positions"},
	{35, "MODERATELY BEARISH", "REDUCE exposure"},
}

// DefaultTier applies when the score is at or below the last threshold.
var DefaultTier = struct{ Trend, Action string }{"BEARISH", "AVOID buying"}

func mapTier(score, confidence float64) (trend, action string) {
	for i, t := range Tiers {
		if i == 0 && confidence <= 85 {
			continue
		}
		if score > t.MinScore {
			return t.Trend, t.Action
		}
	}
	return DefaultTier.Trend, DefaultTier.Action
}

// DailyNoise is a stable per-date perturbation in [-0.25, +0.245] percent.
func DailyNoise(now time.Time) float64 {
	h := fnv.New32a()
	h.Write([]byte(now.Format("2006-01-02")))
	return (float64(h.Sum32()%100) - 50) / 100 * 0.5
}

// Evaluate produces the next-day forecast for a 24K per-10g price.
func Evaluate(price int64, m *model.MarketSnapshot, now time.Time) *model.Forecast {
	return evaluate(price, m, now, DailyNoise(now))
}

func evaluate(price int64, m *model.MarketSnapshot, now time.Time, noise float64) *model.Forecast {
	factors := []model.FactorScore{
		scoreUSDIndex(m),
		scoreFestivalSeason(now),
		scoreInterestRates(m),
		scoreRiskSentiment(m),
	}

	var bullish, total float64
	for _, f := range factors {
		bullish += f.Bullish
		total += f.Weight
	}
	score := 50.0
	if total > 0 {
		score = bullish / total * 100
	}

	change := (score-50)/100*2.0 + noise
	change = math.Max(-MaxDailyChangePct, math.Min(MaxDailyChangePct, change))

	predicted := roundPrice(float64(price) * (1 + change/100))
	confidence := math.Min(MaxConfidence, math.Max(MinConfidence, 75+math.Abs(score-50)))

	rangePct := 0.5 + math.Abs(change)*0.2
	trend, action := mapTier(score, confidence)

	return &model.Forecast{
		Predicted24K:   predicted,
		Predicted22K:   roundPrice(float64(predicted) * model.Karat22Ratio),
		ChangePct:      roundTo(change, 2),
		Confidence:     roundTo(confidence, 1),
		SentimentScore: roundTo(score, 1),
		Trend:          trend,
		Action:         action,
		RangeLower:     roundPrice(float64(predicted) * (1 - rangePct/100)),
		RangeUpper:     roundPrice(float64(predicted) * (1 + rangePct/100)),
		Factors:        factors,
		KeyDrivers:     keyDrivers(m, now),
	}
}

func roundPrice(v float64) int64 { return int64(math.RoundToEven(v)) }

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
