package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"GoldSentinel/internal/model"
	"GoldSentinel/internal/retry"
)

// Fallbacks used when the live feeds are unreachable.
const (
	FallbackBitcoin = 67500.0
	FallbackUSDINR  = 83.45
)

// SeasonalIndicators models the global indicators from the day of year.
// Used only when no live quote is available; every field is an estimate.
func SeasonalIndicators(now time.Time) model.MarketSnapshot {
	d := float64(now.YearDay())
	return model.MarketSnapshot{
		USDIndex:  round(103.5+math.Sin(d*2*math.Pi/365)*1.2, 1),
		OilPrice:  round(89+math.Sin((d-60)*2*math.Pi/365)*6, 1),
		VIX:       math.Max(12, round(19+math.Sin(d*3*math.Pi/365)*4, 1)),
		BondYield: round(4.7+math.Sin(d*2*math.Pi/365)*0.3, 2),
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

type coindeskPrice struct {
	BPI struct {
		USD struct {
			Rate string `json:"rate"`
		} `json:"USD"`
	} `json:"bpi"`
}

type exchangeRates struct {
	Rates map[string]float64 `json:"rates"`
}

func (c *Collector) fetchBitcoin(ctx context.Context) (float64, error) {
	var body coindeskPrice
	if err := c.getJSON(ctx, c.BitcoinURL, &body); err != nil {
		return 0, err
	}
	v, err := ParseRupees(body.BPI.USD.Rate)
	if err != nil {
		return 0, retry.Permanent(fmt.Errorf("bitcoin rate: %w", err))
	}
	f, _ := v.Float64()
	return f, nil
}

func (c *Collector) fetchUSDINR(ctx context.Context) (float64, error) {
	var body exchangeRates
	if err := c.getJSON(ctx, c.FXURL, &body); err != nil {
		return 0, err
	}
	inr, ok := body.Rates["INR"]
	if !ok || inr <= 0 {
		return 0, retry.Permanent(fmt.Errorf("exchange rates: INR missing"))
	}
	return inr, nil
}

func (c *Collector) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return retry.StatusError("get "+endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return retry.Permanent(fmt.Errorf("decode %s: %w", endpoint, err))
	}
	return nil
}
