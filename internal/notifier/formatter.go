package notifier

import (
	"fmt"
	"math"
	"strings"
	"time"

	"GoldSentinel/internal/model"

	"github.com/dustin/go-humanize"
)

const (
	rule       = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	ruleWide   = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	gramsPerOz = 31.1035
)

// Report bundles everything the formatter needs for one run.
type Report struct {
	Quote    *model.GoldQuote
	Forecast *model.Forecast
	Market   *model.MarketSnapshot
	History  *model.PriceHistory // optional
	Now      time.Time
}

// Rupees formats v with the rupee sign and thousands separators.
func Rupees(v int64) string { return "₹" + humanize.Comma(v) }

// TrendGlyph picks the headline emoji for a trend label.
func TrendGlyph(trend string) string {
	switch {
	case trend == "STRONGLY BULLISH":
		return "🚀"
	case strings.Contains(trend, "BULLISH"):
		return "📈"
	case trend == "NEUTRAL":
		return "➡️"
	default:
		return "📉"
	}
}

// FormatSubject returns the email subject line for a report date.
func FormatSubject(now time.Time) string {
	return fmt.Sprintf("🎯 Gold Analysis - %s", now.Format("02 Jan 2006"))
}

func tag(m *model.MarketSnapshot, key, live string) string {
	if !m.IsEstimated(key) {
		return live
	}
	switch key {
	case model.IndicatorBitcoin, model.IndicatorUSDINR:
		return "estimate"
	default:
		return "seasonal model"
	}
}

// FormatReport renders the full plain-text analysis.
func FormatReport(r *Report) string {
	q, f, m := r.Quote, r.Forecast, r.Market
	var b strings.Builder

	fmt.Fprintf(&b, "🏆 GOLD PRICE TRACKING & NEXT-DAY FORECAST %s\n", TrendGlyph(f.Trend))
	fmt.Fprintf(&b, "📅 %s\n%s\n\n", r.Now.Format("2006-01-02 15:04:05 MST"), ruleWide)

	// Current prices
	fmt.Fprintf(&b, "💰 CURRENT GOLD PRICES:\n%s\n", rule)
	fmt.Fprintf(&b, "   • 24K Gold: %s/10g (%s/gram)\n", Rupees(q.Price24K10g), Rupees(q.PerGram24K))
	fmt.Fprintf(&b, "   • 22K Gold: %s/10g (%s/gram)\n\n", Rupees(q.Price22K10g), Rupees(q.PerGram22K))
	fmt.Fprintf(&b, "📡 Data Source: %s\n", q.Source)
	if q.Estimated {
		b.WriteString("⚠️ Price Status: ESTIMATED, no live source responded\n")
	} else {
		b.WriteString("✅ Price Validation: Passed (realistic market range)\n")
	}
	if q.Note != "" {
		fmt.Fprintf(&b, "📝 Note: %s\n", q.Note)
	}

	// Forecast
	fmt.Fprintf(&b, "\n🔮 NEXT-DAY FORECAST:\n%s\n", rule)
	fmt.Fprintf(&b, "   • 24K Gold: %s/10g (%+.2f%%)\n", Rupees(f.Predicted24K), f.ChangePct)
	fmt.Fprintf(&b, "   • 22K Gold: %s/10g (%+.2f%%)\n\n", Rupees(f.Predicted22K), f.ChangePct)
	fmt.Fprintf(&b, "📏 Expected Range: %s - %s\n", Rupees(f.RangeLower), Rupees(f.RangeUpper))
	fmt.Fprintf(&b, "🎪 Confidence Level: %.1f%%\n", f.Confidence)
	fmt.Fprintf(&b, "🎯 Market Trend: %s\n", f.Trend)
	fmt.Fprintf(&b, "⚡ Action Signal: %s\n", f.Action)

	// Indicators
	fmt.Fprintf(&b, "\n🌍 MARKET INDICATORS:\n%s\n", rule)
	fmt.Fprintf(&b, "💵 USD Index: %.1f (%s)\n", m.USDIndex, tag(m, model.IndicatorUSDIndex, "primary driver"))
	fmt.Fprintf(&b, "💱 USD/INR: %.2f (%s)\n", m.USDINR, tag(m, model.IndicatorUSDINR, "local impact"))
	fmt.Fprintf(&b, "₿ Bitcoin: $%s (%s)\n", humanize.Comma(int64(math.Round(m.Bitcoin))), tag(m, model.IndicatorBitcoin, "alternative asset"))
	fmt.Fprintf(&b, "🛢️ Oil Price: $%.1f (%s)\n", m.OilPrice, tag(m, model.IndicatorOil, "inflation proxy"))
	fmt.Fprintf(&b, "📊 10Y Yield: %.2f%% (%s)\n", m.BondYield, tag(m, model.IndicatorBondYield, "opportunity cost"))
	fmt.Fprintf(&b, "😰 VIX: %.1f (%s)\n", m.VIX, tag(m, model.IndicatorVIX, "fear gauge"))

	// Factors
	fmt.Fprintf(&b, "\n🔍 FACTOR ANALYSIS:\n%s\n", rule)
	for _, fs := range f.Factors {
		fmt.Fprintf(&b, "%s %s: %s - %s\n", fs.Icon, fs.Name, fs.Impact, fs.Commentary)
	}

	fmt.Fprintf(&b, "\n🎯 KEY MARKET DRIVERS:\n%s\n", rule)
	for _, d := range f.KeyDrivers {
		fmt.Fprintf(&b, "• %s\n", d)
	}

	writeStrategy(&b, q, f)
	writeFestival(&b, r.Now)
	writeComparative(&b, q, m)
	if r.History != nil && r.History.Samples >= 2 {
		writeHistory(&b, r.History)
	}
	writeRisk(&b, q)

	fmt.Fprintf(&b, "\nNext Update: Tomorrow 6:30 AM IST\n%s\n", ruleWide)
	return b.String()
}

// PositionSize maps forecast confidence to a suggested allocation.
func PositionSize(confidence float64) string {
	switch {
	case confidence > 85:
		return "Full allocation"
	case confidence > 75:
		return "75% allocation"
	default:
		return "50% allocation"
	}
}

func writeStrategy(b *strings.Builder, q *model.GoldQuote, f *model.Forecast) {
	p24, p22 := float64(f.Predicted24K), float64(f.Predicted22K)
	fmt.Fprintf(b, "\n⚡ TRADING STRATEGY:\n%s\n", rule)
	fmt.Fprintf(b, "🎪 Primary Recommendation: %s\n", f.Action)
	fmt.Fprintf(b, "📊 Market Sentiment: %.1f/100\n\n", f.SentimentScore)
	fmt.Fprintf(b, "• Entry Range (24K): %s - %s\n", Rupees(int64(p24*0.999)), Rupees(int64(p24*1.001)))
	fmt.Fprintf(b, "• Entry Range (22K): %s - %s\n", Rupees(int64(p22*0.999)), Rupees(int64(p22*1.001)))
	fmt.Fprintf(b, "• Stop Loss: Below %s (24K)\n", Rupees(int64(float64(q.Price24K10g)*0.975)))
	fmt.Fprintf(b, "• Target Price: %s (%+.2f%%)\n", Rupees(f.Predicted24K), f.ChangePct)
	fmt.Fprintf(b, "• Position Size: %s\n", PositionSize(f.Confidence))
}

func writeFestival(b *strings.Builder, now time.Time) {
	status, premium, advice, markup := "NORMAL", "Normal levels", "Normal buying strategy", "15-25% normal range"
	switch now.Month() {
	case time.October:
		status, premium, advice, markup = "PEAK SEASON", "5-8% above normal", "Buy before Dhanteras for festival gifts", "25-35% at jewelry stores"
	case time.November:
		status, premium, advice, markup = "POST-SEASON", "2-4% residual premium", "Take advantage of post-festival correction", "20-30% normal markup"
	}
	fmt.Fprintf(b, "\n🪔 FESTIVAL SEASON ANALYSIS (%s):\n%s\n", strings.ToUpper(now.Format("January 2006")), rule)
	fmt.Fprintf(b, "• 🎊 Festival Status: %s\n", status)
	fmt.Fprintf(b, "• 📈 Expected Premium: %s\n", premium)
	fmt.Fprintf(b, "• 🛒 Best Strategy: %s\n", advice)
	fmt.Fprintf(b, "• 💍 Retail Markup: %s\n", markup)
}

func writeComparative(b *strings.Builder, q *model.GoldQuote, m *model.MarketSnapshot) {
	fmt.Fprintf(b, "\n🌍 COMPARATIVE ANALYSIS:\n%s\n", rule)
	if m.GoldUSDOz > 0 && !m.IsEstimated(model.IndicatorGoldUSD) {
		implied := ImpliedINR10g(m.GoldUSDOz, m.USDINR)
		premium := (float64(q.Price24K10g) - implied) / implied * 100
		fmt.Fprintf(b, "• International Gold: $%s/oz (COMEX)\n", humanize.Comma(int64(math.Round(m.GoldUSDOz))))
		fmt.Fprintf(b, "• Landed Equivalent: %s/10g before duties\n", Rupees(int64(math.Round(implied))))
		fmt.Fprintf(b, "• Indian Premium: %+.1f%% over international spot\n", premium)
	} else {
		b.WriteString("• International Gold: unavailable\n")
	}
	fmt.Fprintf(b, "• MCX Futures: Active around %s/10g levels\n", Rupees(q.Price24K10g))
	b.WriteString("• GST Impact: 3% on gold + 5% on making charges\n")
}

// ImpliedINR10g converts a USD/oz price to rupees per 10 grams.
func ImpliedINR10g(usdPerOz, usdINR float64) float64 {
	return usdPerOz * usdINR / gramsPerOz * 10
}

func writeHistory(b *strings.Builder, h *model.PriceHistory) {
	fmt.Fprintf(b, "\n📚 RECORDED HISTORY (%d runs):\n%s\n", h.Samples, rule)
	if h.SMA7 > 0 {
		fmt.Fprintf(b, "• 7-run average: %s\n", Rupees(int64(math.Round(h.SMA7))))
	}
	if h.SMA30 > 0 {
		fmt.Fprintf(b, "• 30-run average: %s\n", Rupees(int64(math.Round(h.SMA30))))
	}
	fmt.Fprintf(b, "• 30-run range: %s - %s\n", Rupees(int64(h.Low30)), Rupees(int64(h.High30)))
	fmt.Fprintf(b, "• RSI(14): %.0f\n", h.RSI14)
}

func writeRisk(b *strings.Builder, q *model.GoldQuote) {
	fmt.Fprintf(b, "\n⚠️ RISK MANAGEMENT GUIDELINES:\n%s\n", rule)
	b.WriteString("• Forecast moves are capped at ±2.5% per day\n")
	fmt.Fprintf(b, "• Stop-loss mandatory: Below %s for long positions\n", Rupees(int64(float64(q.Price24K10g)*0.97)))
	b.WriteString("• Position sizing: Never risk more than 5% of portfolio on single day moves\n")
	b.WriteString("• Confirmation signals: Wait for 2+ factors alignment for high-confidence trades\n")
	b.WriteString("• This forecast is a weighted heuristic, not investment advice\n")
}

// FormatAlert renders a short SMS-sized alert.
func FormatAlert(q *model.GoldQuote, f *model.Forecast) string {
	return fmt.Sprintf("%s Gold %s: 24K %s/10g, tomorrow %s (%+.2f%%). %s",
		TrendGlyph(f.Trend), f.Trend, Rupees(q.Price24K10g), Rupees(f.Predicted24K), f.ChangePct, f.Action)
}

// FormatPrice renders the current quote for chat commands.
func FormatPrice(q *model.GoldQuote) string {
	s := fmt.Sprintf("💰 24K: %s/10g (%s/g)\n💰 22K: %s/10g (%s/g)\n📡 %s",
		Rupees(q.Price24K10g), Rupees(q.PerGram24K), Rupees(q.Price22K10g), Rupees(q.PerGram22K), q.Source)
	if q.Estimated {
		s += " (estimated)"
	}
	return s
}

// FormatForecast renders the forecast headline for chat commands.
func FormatForecast(f *model.Forecast) string {
	return fmt.Sprintf("🔮 Tomorrow: %s/10g (%+.2f%%)\n📏 Range: %s - %s\n🎯 %s | ⚡ %s | 🎪 %.1f%%",
		Rupees(f.Predicted24K), f.ChangePct, Rupees(f.RangeLower), Rupees(f.RangeUpper), f.Trend, f.Action, f.Confidence)
}
