package collector

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"GoldSentinel/internal/model"
	"GoldSentinel/internal/retry"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Collector gathers the gold quote and the market indicators for one run.
type Collector struct {
	Sources    []PriceSource
	Quotes     QuoteFetcher // optional live source for global indicators
	Client     *http.Client
	BitcoinURL string
	FXURL      string
	Retry      retry.Policy
	Log        *zap.Logger
}

// NewCollector creates a Collector over the given price sources.
func NewCollector(sources []PriceSource, quotes QuoteFetcher, client *http.Client, bitcoinURL, fxURL string, policy retry.Policy, lg *zap.Logger) *Collector {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Collector{
		Sources:    sources,
		Quotes:     quotes,
		Client:     client,
		BitcoinURL: bitcoinURL,
		FXURL:      fxURL,
		Retry:      policy,
		Log:        lg,
	}
}

// FetchQuote tries each source in order and falls back to an estimate when all fail.
// The returned quote always passes Validate.
func (c *Collector) FetchQuote(ctx context.Context, now time.Time) *model.GoldQuote {
	var q *model.GoldQuote
	for _, src := range c.Sources {
		perGram, err := c.fetchWithRetry(ctx, src)
		if err != nil {
			c.Log.Warn("price source failed", zap.String("source", src.Name()), zap.Error(err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		q = QuoteFromPerGram(perGram, src.Name(), now)
		c.Log.Info("price fetched",
			zap.String("source", src.Name()),
			zap.Int64("per_gram_24k", q.PerGram24K),
			zap.Int64("price_24k_10g", q.Price24K10g))
		break
	}

	if q == nil {
		q = EstimateQuote(now)
		c.Log.Warn("all price sources failed, using estimate",
			zap.String("source", q.Source), zap.Int64("price_24k_10g", q.Price24K10g))
	}

	if err := Validate(q); err != nil {
		c.Log.Warn("price validation failed, using verified fallback", zap.Error(err), zap.String("source", q.Source))
		q = ValidatedFallback(now)
	}
	return q
}

func (c *Collector) fetchWithRetry(ctx context.Context, src PriceSource) (v decimal.Decimal, err error) {
	err = retry.Do(ctx, c.Retry, func() error {
		got, ferr := src.FetchPerGram24K(ctx)
		if ferr != nil {
			return ferr
		}
		v = got
		return nil
	}, func(err error, wait time.Duration) {
		c.Log.Debug("retrying price source", zap.String("source", src.Name()), zap.Duration("wait", wait), zap.Error(err))
	})
	return v, err
}

// FetchMarket gathers all indicators concurrently. Failures are replaced by
// fallbacks and flagged in MarketSnapshot.Estimated; it never returns nil.
// Live values are kept at full precision and only rounded for display.
func (c *Collector) FetchMarket(ctx context.Context, now time.Time) *model.MarketSnapshot {
	seasonal := SeasonalIndicators(now)
	snap := &model.MarketSnapshot{}
	var mu sync.Mutex

	set := func(key string, live func(context.Context) (float64, error), fallback float64, dst *float64) func() error {
		return func() error {
			var v float64
			err := errors.New("no live source")
			if live != nil {
				err = retry.Do(ctx, c.Retry, func() error {
					got, ferr := live(ctx)
					if ferr != nil {
						return ferr
					}
					v = got
					return nil
				}, nil)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.Log.Warn("indicator unavailable, using fallback", zap.String("indicator", key), zap.Float64("fallback", fallback), zap.Error(err))
				*dst = fallback
				snap.MarkEstimated(key)
				return nil
			}
			*dst = v
			return nil
		}
	}

	quote := func(key string) func(context.Context) (float64, error) {
		if c.Quotes == nil {
			return nil
		}
		return func(ctx context.Context) (float64, error) { return c.Quotes.FetchLatest(ctx, key) }
	}

	var g errgroup.Group
	g.Go(set(model.IndicatorBitcoin, c.fetchBitcoin, FallbackBitcoin, &snap.Bitcoin))
	g.Go(set(model.IndicatorUSDINR, c.fetchUSDINR, FallbackUSDINR, &snap.USDINR))
	g.Go(set(model.IndicatorUSDIndex, quote(model.IndicatorUSDIndex), seasonal.USDIndex, &snap.USDIndex))
	g.Go(set(model.IndicatorOil, quote(model.IndicatorOil), seasonal.OilPrice, &snap.OilPrice))
	g.Go(set(model.IndicatorVIX, quote(model.IndicatorVIX), seasonal.VIX, &snap.VIX))
	g.Go(set(model.IndicatorBondYield, quote(model.IndicatorBondYield), seasonal.BondYield, &snap.BondYield))
	g.Go(set(model.IndicatorGoldUSD, quote(model.IndicatorGoldUSD), 0, &snap.GoldUSDOz))
	_ = g.Wait()

	c.Log.Info("market indicators collected",
		zap.Float64("usd_index", snap.USDIndex),
		zap.Float64("usd_inr", snap.USDINR),
		zap.Float64("vix", snap.VIX),
		zap.Float64("bond_yield", snap.BondYield),
		zap.Int("estimated", len(snap.Estimated)))
	return snap
}
