package notifier

import (
	"math"
	"strings"
	"testing"
	"time"

	"GoldSentinel/internal/model"
)

func sampleReport() *Report {
	m := &model.MarketSnapshot{
		Bitcoin: 67500, USDINR: 84.12, USDIndex: 101.4, OilPrice: 77, VIX: 26.5, BondYield: 4.24, GoldUSDOz: 2650,
	}
	m.MarkEstimated(model.IndicatorBitcoin)
	m.MarkEstimated(model.IndicatorVIX)
	return &Report{
		Quote: &model.GoldQuote{
			Price24K10g: 119020, Price22K10g: 109022, PerGram24K: 11902, PerGram22K: 10902,
			Source: "MoneyControl Mumbai",
		},
		Forecast: &model.Forecast{
			Predicted24K: 120210, Predicted22K: 110112, ChangePct: 1.0, Confidence: 95, SentimentScore: 100,
			Trend: "STRONGLY BULLISH", Action: "STRONG BUY", RangeLower: 119369, RangeUpper: 121051,
			Factors: []model.FactorScore{
				{Name: "USD Index", Icon: "🔵", Impact: model.ImpactBullish, Commentary: "Weak USD (101.4) supporting gold"},
			},
			KeyDrivers: []string{"USD Index at 101.4 (supporting gold)"},
		},
		Market:  m,
		History: &model.PriceHistory{Samples: 8, SMA7: 118500.4, RSI14: 61, High30: 119500, Low30: 117000, Last: 119020},
		Now:     time.Date(2025, time.October, 15, 6, 30, 0, 0, time.FixedZone("IST", 19800)),
	}
}

func TestFormatReport_Sections(t *testing.T) {
	out := FormatReport(sampleReport())
	for _, want := range []string{
		"🚀",
		"2025-10-15 06:30:00 IST",
		"24K Gold: ₹119,020/10g (₹11,902/gram)",
		"22K Gold: ₹109,022/10g (₹10,902/gram)",
		"✅ Price Validation: Passed",
		"24K Gold: ₹120,210/10g (+1.00%)",
		"Expected Range: ₹119,369 - ₹121,051",
		"Bitcoin: $67,500 (estimate)",
		"VIX: 26.5 (seasonal model)",
		"USD Index: 101.4 (primary driver)",
		"🔵 USD Index: BULLISH - Weak USD",
		"Position Size: Full allocation",
		"Stop Loss: Below ₹116,044 (24K)",
		"FESTIVAL SEASON ANALYSIS (OCTOBER 2025)",
		"Festival Status: PEAK SEASON",
		"International Gold: $2,650/oz (COMEX)",
		"RECORDED HISTORY (8 runs)",
		"7-run average: ₹118,500",
		"Below ₹115,449 for long positions",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if strings.Contains(out, "30-run average") {
		t.Error("30-run average should be omitted without enough history")
	}
}

func TestFormatReport_EstimatedQuote(t *testing.T) {
	r := sampleReport()
	r.Quote.Estimated = true
	r.Quote.Note = "Adjusted from verified Oct 8, 2025 base price"
	r.History = nil
	r.Market.GoldUSDOz = 0
	r.Market.MarkEstimated(model.IndicatorGoldUSD)

	out := FormatReport(r)
	if !strings.Contains(out, "ESTIMATED") {
		t.Error("estimated quote must be called out")
	}
	if strings.Contains(out, "Price Validation: Passed") {
		t.Error("estimated quote must not claim validation")
	}
	if !strings.Contains(out, "International Gold: unavailable") {
		t.Error("missing international gold should be reported as unavailable")
	}
	if strings.Contains(out, "RECORDED HISTORY") {
		t.Error("history section should be omitted")
	}
}

func TestTrendGlyph(t *testing.T) {
	tests := map[string]string{
		"STRONGLY BULLISH":   "🚀",
		"BULLISH":            "📈",
		"MODERATELY BULLISH": "📈",
		"NEUTRAL":            "➡️",
		"MODERATELY BEARISH": "📉",
		"BEARISH":            "📉",
	}
	for trend, want := range tests {
		if got := TrendGlyph(trend); got != want {
			t.Errorf("%s: expected %s, got %s", trend, want, got)
		}
	}
}

func TestPositionSize(t *testing.T) {
	if PositionSize(90) != "Full allocation" || PositionSize(80) != "75% allocation" || PositionSize(75) != "50% allocation" {
		t.Error("unexpected position size mapping")
	}
}

func TestFormatSubject(t *testing.T) {
	got := FormatSubject(time.Date(2025, time.October, 8, 6, 30, 0, 0, time.UTC))
	if got != "🎯 Gold Analysis - 08 Oct 2025" {
		t.Errorf("unexpected subject %q", got)
	}
}

func TestImpliedINR10g(t *testing.T) {
	got := ImpliedINR10g(2650, 84)
	if math.Abs(got-71567.8) > 1 {
		t.Errorf("expected about 71568, got %v", got)
	}
}

func TestFormatAlert(t *testing.T) {
	r := sampleReport()
	got := FormatAlert(r.Quote, r.Forecast)
	if !strings.Contains(got, "₹119,020") || !strings.Contains(got, "+1.00%") || !strings.Contains(got, "STRONG BUY") {
		t.Errorf("unexpected alert %q", got)
	}
}
