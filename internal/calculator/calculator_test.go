package calculator

import (
	"math"
	"testing"
)

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != 4 {
		t.Errorf("expected 4, got %v", got)
	}
	if _, err := CalculateSMA([]float64{1}, 3); err == nil {
		t.Error("expected error for short series")
	}
	if _, err := CalculateSMA([]float64{1}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateRSI(t *testing.T) {
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(100 + i)
	}
	rsi, err := CalculateRSI(rising, 14)
	if err != nil {
		t.Fatal(err)
	}
	if rsi != 100 {
		t.Errorf("monotonic rise should give RSI 100, got %v", rsi)
	}

	short, _ := CalculateRSI([]float64{1, 2, 3}, 14)
	if short != 50 {
		t.Errorf("insufficient data should give 50, got %v", short)
	}

	zigzag := []float64{10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11}
	mid, _ := CalculateRSI(zigzag, 14)
	if math.Abs(mid-50) > 5 {
		t.Errorf("alternating series should be near 50, got %v", mid)
	}

	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 119020
	}
	if v, _ := CalculateRSI(flat, 14); v != 50 {
		t.Errorf("unchanged prices should give 50, got %v", v)
	}

	falling := make([]float64, 20)
	for i := range falling {
		falling[i] = float64(200 - i)
	}
	if v, _ := CalculateRSI(falling, 14); v != 0 {
		t.Errorf("monotonic fall should give RSI 0, got %v", v)
	}
}

func TestCalculateRange(t *testing.T) {
	hi, lo, err := CalculateRange([]float64{5, 1, 9, 3, 4}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if hi != 9 || lo != 3 {
		t.Errorf("expected 9/3, got %v/%v", hi, lo)
	}
	if _, _, err := CalculateRange(nil, 3); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestSummarize(t *testing.T) {
	if h := Summarize(nil); h.Samples != 0 || h.SMA7 != 0 {
		t.Errorf("empty history should be zero, got %+v", h)
	}
	prices := make([]float64, 10)
	for i := range prices {
		prices[i] = 119000 + float64(i)*10
	}
	h := Summarize(prices)
	if h.Samples != 10 || h.Last != 119090 {
		t.Errorf("unexpected summary %+v", h)
	}
	if h.SMA7 != 119060 {
		t.Errorf("expected SMA7 119060, got %v", h.SMA7)
	}
	if h.SMA30 != 0 {
		t.Errorf("SMA30 should be unset with 10 samples, got %v", h.SMA30)
	}
	if h.High30 != 119090 || h.Low30 != 119000 {
		t.Errorf("unexpected range %v/%v", h.High30, h.Low30)
	}
}
