package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoMatch is returned when a page loads but carries no recognisable price.
var ErrNoMatch = errors.New("price pattern not found")

// PriceSource yields the current 24K gold price per gram in rupees.
type PriceSource interface {
	FetchPerGram24K(ctx context.Context) (decimal.Decimal, error)
	Name() string
}

// QuoteFetcher returns the latest price of a market symbol.
type QuoteFetcher interface {
	FetchLatest(ctx context.Context, symbol string) (float64, error)
	Name() string
}

// NewHTTPClient builds a client with optional proxy support.
func NewHTTPClient(timeout time.Duration, proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}
