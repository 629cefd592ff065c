package strategy

import (
	"strings"
	"testing"
	"time"

	"GoldSentinel/internal/model"
)

func day(month time.Month) time.Time {
	return time.Date(2025, month, 15, 6, 30, 0, 0, time.UTC)
}

func TestEvaluate_AllBullish(t *testing.T) {
	m := &model.MarketSnapshot{USDIndex: 101, BondYield: 4.3, VIX: 26, USDINR: 84}
	f := evaluate(119020, m, day(time.October), 0)

	if f.SentimentScore != 100 {
		t.Errorf("expected score 100, got %v", f.SentimentScore)
	}
	if f.ChangePct != 1.0 {
		t.Errorf("expected +1.00%%, got %v", f.ChangePct)
	}
	if f.Predicted24K != 120210 || f.Predicted22K != 110112 {
		t.Errorf("unexpected prediction %d/%d", f.Predicted24K, f.Predicted22K)
	}
	if f.RangeLower != 119369 || f.RangeUpper != 121051 {
		t.Errorf("unexpected range %d-%d", f.RangeLower, f.RangeUpper)
	}
	if f.Confidence != 95 {
		t.Errorf("confidence should cap at 95, got %v", f.Confidence)
	}
	if f.Trend != "STRONGLY BULLISH" || f.Action != "STRONG BUY" {
		t.Errorf("unexpected trend %q/%q", f.Trend, f.Action)
	}
	if len(f.Factors) != 4 {
		t.Fatalf("expected 4 factors, got %d", len(f.Factors))
	}
}

func TestEvaluate_AllBearish(t *testing.T) {
	m := &model.MarketSnapshot{USDIndex: 105, BondYield: 5.2, VIX: 14, USDINR: 83}
	f := evaluate(119020, m, day(time.July), 0)

	if f.SentimentScore != 6 {
		t.Errorf("expected score 6, got %v", f.SentimentScore)
	}
	if f.ChangePct != -0.88 {
		t.Errorf("expected -0.88%%, got %v", f.ChangePct)
	}
	if f.Predicted24K != 117973 {
		t.Errorf("expected 117973, got %d", f.Predicted24K)
	}
	if f.Trend != "BEARISH" || f.Action != "AVOID buying" {
		t.Errorf("unexpected trend %q/%q", f.Trend, f.Action)
	}
}

func TestEvaluate_Neutral(t *testing.T) {
	m := &model.MarketSnapshot{USDIndex: 103, BondYield: 4.3, VIX: 20}
	f := evaluate(119020, m, day(time.November), 0)

	if f.SentimentScore != 50 {
		t.Errorf("expected score 50, got %v", f.SentimentScore)
	}
	if f.Predicted24K != 119020 || f.ChangePct != 0 {
		t.Errorf("neutral score should not move price, got %d (%v%%)", f.Predicted24K, f.ChangePct)
	}
	if f.Confidence != 75 {
		t.Errorf("expected confidence 75, got %v", f.Confidence)
	}
	if f.Trend != "NEUTRAL" {
		t.Errorf("expected NEUTRAL, got %q", f.Trend)
	}
}

func TestEvaluate_ClampsChange(t *testing.T) {
	m := &model.MarketSnapshot{USDIndex: 101, BondYield: 4.3, VIX: 26}
	up := evaluate(100000, m, day(time.October), 5)
	if up.ChangePct != MaxDailyChangePct {
		t.Errorf("expected clamp to %v, got %v", MaxDailyChangePct, up.ChangePct)
	}
	if up.Predicted24K != 102500 {
		t.Errorf("expected 102500, got %d", up.Predicted24K)
	}

	down := evaluate(100000, m, day(time.October), -10)
	if down.ChangePct != -MaxDailyChangePct {
		t.Errorf("expected clamp to %v, got %v", -MaxDailyChangePct, down.ChangePct)
	}
}

func TestMapTier_Boundaries(t *testing.T) {
	tests := []struct {
		score, confidence float64
		trend             string
	}{
		{90, 95, "STRONGLY BULLISH"},
		{70.1, 95, "STRONGLY BULLISH"},
		{75, 85, "BULLISH"},
		{70, 95, "BULLISH"},
		{60.5, 85, "BULLISH"},
		{60, 85, "MODERATELY BULLISH"},
		{55, 80, "NEUTRAL"},
		{45.5, 75, "NEUTRAL"},
		{45, 75, "MODERATELY BEARISH"},
		{35, 90, "BEARISH"},
		{0, 95, "BEARISH"},
	}
	for _, tt := range tests {
		trend, _ := mapTier(tt.score, tt.confidence)
		if trend != tt.trend {
			t.Errorf("score %.1f conf %.0f: expected %q, got %q", tt.score, tt.confidence, tt.trend, trend)
		}
	}
}

func TestFestivalSeason(t *testing.T) {
	tests := []struct {
		month   time.Month
		bullish float64
		impact  model.Impact
	}{
		{time.October, 3.0, model.ImpactStronglyBullish},
		{time.November, 1.8, model.ImpactBullish},
		{time.April, 1.8, model.ImpactBullish},
		{time.May, 1.8, model.ImpactBullish},
		{time.February, 0.6, model.ImpactNeutral},
	}
	for _, tt := range tests {
		f := scoreFestivalSeason(day(tt.month))
		if f.Bullish != tt.bullish || f.Impact != tt.impact {
			t.Errorf("%s: expected %v/%s, got %v/%s", tt.month, tt.bullish, tt.impact, f.Bullish, f.Impact)
		}
	}
}

func TestDailyNoise_StableAndBounded(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 400; i++ {
		d := start.AddDate(0, 0, i)
		n := DailyNoise(d)
		if n < -0.25 || n > 0.25 {
			t.Fatalf("%s: noise %v out of band", d.Format("2006-01-02"), n)
		}
		if n != DailyNoise(d.Add(5*time.Hour)) {
			t.Fatalf("%s: noise must depend only on the date", d.Format("2006-01-02"))
		}
	}
}

func TestKeyDrivers(t *testing.T) {
	m := &model.MarketSnapshot{USDIndex: 102.5, BondYield: 4.8, VIX: 23, USDINR: 84.1}
	f := evaluate(119020, m, day(time.October), 0)
	joined := strings.Join(f.KeyDrivers, "\n")
	for _, want := range []string{"supporting gold", "peak demand", "challenging", "elevated", "INR at 84.10 (supporting)"} {
		if !strings.Contains(joined, want) {
			t.Errorf("key drivers missing %q:\n%s", want, joined)
		}
	}
}

func TestKeyDrivers_UnroundedINR(t *testing.T) {
	m := &model.MarketSnapshot{USDIndex: 102.5, BondYield: 4.8, VIX: 23, USDINR: 83.504}
	f := evaluate(119020, m, day(time.October), 0)
	if got := f.KeyDrivers[4]; got != "INR at 83.50 (supporting)" {
		t.Errorf("83.504 is above 83.5, got %q", got)
	}
}
