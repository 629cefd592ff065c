package collector

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// MockSource returns a fixed per-gram price, or Err when set.
type MockSource struct {
	Label   string
	PerGram decimal.Decimal
	Err     error
	Calls   int
}

func (m *MockSource) Name() string {
	if m.Label == "" {
		return "mock"
	}
	return m.Label
}

func (m *MockSource) FetchPerGram24K(_ context.Context) (decimal.Decimal, error) {
	m.Calls++
	if m.Err != nil {
		return decimal.Zero, m.Err
	}
	return m.PerGram, nil
}

// MockQuotes serves indicator values from a map; missing keys fail.
type MockQuotes struct {
	Values map[string]float64
}

func (m *MockQuotes) Name() string { return "mock" }

func (m *MockQuotes) FetchLatest(_ context.Context, symbol string) (float64, error) {
	if v, ok := m.Values[symbol]; ok {
		return v, nil
	}
	return 0, errors.New("no quote for " + symbol)
}
