package recorder

import (
	"context"
	"time"

	"GoldSentinel/internal/model"
)

// RunRecord holds everything produced by one report run.
type RunRecord struct {
	RunID     string
	Timestamp time.Time
	Quote     *model.GoldQuote
	Forecast  *model.Forecast
	Market    *model.MarketSnapshot
	EmailSent bool
}

// DeliveryEvent records one delivery attempt on a channel.
type DeliveryEvent struct {
	RunID     string
	Timestamp time.Time
	Channel   string // "email", "telegram", "sms"
	Kind      string // "report" or "alert"
	Success   bool
	Error     string
}

// RunSummary is a compact row for history listings.
type RunSummary struct {
	RunID        string
	Timestamp    time.Time
	Price24K     int64
	Source       string
	Estimated    bool
	Predicted24K int64
	ChangePct    float64
	Trend        string
	EmailSent    bool
}

// Recorder persists run history for trend statistics and auditing.
type Recorder interface {
	RecordRun(ctx context.Context, rec *RunRecord) error
	RecordDelivery(ctx context.Context, evt *DeliveryEvent) error
	// RecentPrices returns up to n live (non-estimated) 24K prices, oldest first.
	RecentPrices(ctx context.Context, n int) ([]float64, error)
	// RecentRuns returns up to n runs, newest first.
	RecentRuns(ctx context.Context, n int) ([]RunSummary, error)
	Close() error
}
