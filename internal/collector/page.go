package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"GoldSentinel/internal/retry"

	"github.com/shopspring/decimal"
)

// PageSource scrapes a rupee-per-gram figure out of an HTML page.
type PageSource struct {
	Label     string
	URL       string
	Pattern   *regexp.Regexp
	Lowercase bool // match against the lowercased body
	UserAgent string
	Client    *http.Client
}

func (p *PageSource) Name() string { return p.Label }

// FetchPerGram24K downloads the page and parses the first submatch of Pattern.
func (p *PageSource) FetchPerGram24K(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return decimal.Zero, retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s fetch: %w", p.Label, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, retry.StatusError(p.Label, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s read body: %w", p.Label, err)
	}

	return p.extract(string(body))
}

func (p *PageSource) extract(text string) (decimal.Decimal, error) {
	if p.Lowercase {
		text = strings.ToLower(text)
	}
	m := p.Pattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return decimal.Zero, retry.Permanent(fmt.Errorf("%s: %w", p.Label, ErrNoMatch))
	}
	v, err := ParseRupees(m[1])
	if err != nil {
		return decimal.Zero, retry.Permanent(fmt.Errorf("%s: %w", p.Label, err))
	}
	return v, nil
}

// ParseRupees parses a comma-grouped amount such as "11,902.50".
func ParseRupees(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer(",", "", "₹", "", "$", "", " ", "").Replace(s)
	v, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return v, nil
}

var (
	moneyControlPattern = regexp.MustCompile(`₹\s*([0-9,]+)\.0\s*per\s*gram\s*for\s*24\s*karat\s*gold`)
	goodReturnsPattern  = regexp.MustCompile(`₹([0-9,]+)\s*per gram for 24 karat gold`)
	angelOnePattern     = regexp.MustCompile(`₹([0-9,]+\.[0-9]+).*24K Gold`)
)

// DefaultSources returns the Indian retail price pages in priority order.
func DefaultSources(client *http.Client, userAgent string) []PriceSource {
	return []PriceSource{
		&PageSource{
			Label:     "MoneyControl Mumbai",
			URL:       "https://www.moneycontrol.com/news/gold-rates-today/mumbai/",
			Pattern:   moneyControlPattern,
			Lowercase: true,
			UserAgent: userAgent,
			Client:    client,
		},
		&PageSource{
			Label:     "GoodReturns",
			URL:       "https://www.goodreturns.in/gold-rates/",
			Pattern:   goodReturnsPattern,
			UserAgent: userAgent,
			Client:    client,
		},
		&PageSource{
			Label:     "AngelOne",
			URL:       "https://www.angelone.in/gold-rates-today",
			Pattern:   angelOnePattern,
			UserAgent: userAgent,
			Client:    client,
		},
	}
}
