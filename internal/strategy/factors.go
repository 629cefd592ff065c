package strategy

import (
	"fmt"
	"time"

	"GoldSentinel/internal/model"
)

// Factor weights; they sum to 10 so each weight reads as a tenth of the score.
const (
	WeightUSD      = 4.0
	WeightFestival = 3.0
	WeightRates    = 2.0
	WeightRisk     = 1.0
)

// scoreUSDIndex: a strong dollar weighs on gold.
func scoreUSDIndex(m *model.MarketSnapshot) model.FactorScore {
	f := model.FactorScore{Name: "USD Index", Icon: "🔵", Weight: WeightUSD}
	switch {
	case m.USDIndex > 104:
		f.Bearish = WeightUSD
		f.Impact = model.ImpactBearish
		f.Commentary = fmt.Sprintf("Strong USD (%.1f) creating headwinds", m.USDIndex)
	case m.USDIndex < 102:
		f.Bullish = WeightUSD
		f.Impact = model.ImpactBullish
		f.Commentary = fmt.Sprintf("Weak USD (%.1f) supporting gold", m.USDIndex)
	default:
		f.Bullish = WeightUSD * 0.3
		f.Bearish = WeightUSD * 0.7
		f.Impact = model.ImpactNeutral
		f.Commentary = fmt.Sprintf("USD (%.1f) in neutral range", m.USDIndex)
	}
	return f
}

// scoreFestivalSeason: Diwali in October, then weddings in Nov, Apr and May.
func scoreFestivalSeason(now time.Time) model.FactorScore {
	f := model.FactorScore{Name: "Festival Season", Icon: "🪔", Weight: WeightFestival}
	switch now.Month() {
	case time.October:
		f.Bullish = WeightFestival
		f.Impact = model.ImpactStronglyBullish
		f.Commentary = "Peak Diwali buying season active"
	case time.November, time.April, time.May:
		f.Bullish = WeightFestival * 0.6
		f.Impact = model.ImpactBullish
		f.Commentary = "Seasonal demand supporting prices"
	default:
		f.Bullish = WeightFestival * 0.2
		f.Impact = model.ImpactNeutral
		f.Commentary = "Normal seasonal patterns"
	}
	return f
}

// scoreInterestRates: higher yields raise the opportunity cost of holding gold.
func scoreInterestRates(m *model.MarketSnapshot) model.FactorScore {
	f := model.FactorScore{Name: "Interest Rates", Icon: "📊", Weight: WeightRates}
	switch {
	case m.BondYield > 5.0:
		f.Bearish = WeightRates
		f.Impact = model.ImpactBearish
		f.Commentary = fmt.Sprintf("High yields (%.2f%%) reducing appeal", m.BondYield)
	case m.BondYield < 4.5:
		f.Bullish = WeightRates
		f.Impact = model.ImpactBullish
		f.Commentary = fmt.Sprintf("Lower yields (%.2f%%) supportive", m.BondYield)
	default:
		f.Bearish = WeightRates * 0.6
		f.Impact = model.ImpactNeutral
		f.Commentary = fmt.Sprintf("Moderate yields (%.2f%%)", m.BondYield)
	}
	return f
}

// scoreRiskSentiment: fear drives safe-haven demand.
func scoreRiskSentiment(m *model.MarketSnapshot) model.FactorScore {
	f := model.FactorScore{Name: "Risk Sentiment", Icon: "😰", Weight: WeightRisk}
	switch {
	case m.VIX > 25:
		f.Bullish = WeightRisk
		f.Impact = model.ImpactBullish
		f.Commentary = fmt.Sprintf("High fear (VIX %.1f) boosting safe haven demand", m.VIX)
	case m.VIX < 15:
		f.Bearish = WeightRisk
		f.Impact = model.ImpactBearish
		f.Commentary = fmt.Sprintf("Low fear (VIX %.1f) reducing defensive buying", m.VIX)
	default:
		f.Impact = model.ImpactNeutral
		f.Commentary = fmt.Sprintf("Moderate fear levels (VIX %.1f)", m.VIX)
	}
	return f
}

func keyDrivers(m *model.MarketSnapshot, now time.Time) []string {
	pick := func(cond bool, yes, no string) string {
		if cond {
			return yes
		}
		return no
	}
	return []string{
		fmt.Sprintf("USD Index at %.1f (%s gold)", m.USDIndex, pick(m.USDIndex < 103, "supporting", "pressuring")),
		fmt.Sprintf("Diwali season %s", pick(now.Month() == time.October, "peak demand", "normal demand")),
		fmt.Sprintf("Interest rates at %.2f%% (%s)", m.BondYield, pick(m.BondYield < 4.5, "favorable", "challenging")),
		fmt.Sprintf("Market sentiment: VIX at %.1f (%s)", m.VIX, pick(m.VIX > 22, "elevated", "stable")),
		fmt.Sprintf("INR at %.2f (%s)", m.USDINR, pick(m.USDINR > 83.5, "supporting", "neutral")),
	}
}
