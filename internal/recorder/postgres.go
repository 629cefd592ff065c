package recorder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// goldRun is the gorm model for the runs table. Column names match the
// SQLite schema so both stores can be queried the same way.
type goldRun struct {
	ID             uint      `gorm:"primaryKey"`
	RunID          string    `gorm:"column:run_id;uniqueIndex;size:36;not null"`
	Timestamp      time.Time `gorm:"column:timestamp;index;not null"`
	Price24K       int64     `gorm:"column:price_24k"`
	Price22K       int64     `gorm:"column:price_22k"`
	Source         string    `gorm:"column:source"`
	Estimated      bool      `gorm:"column:estimated"`
	Bitcoin        float64   `gorm:"column:bitcoin"`
	USDINR         float64   `gorm:"column:usd_inr"`
	USDIndex       float64   `gorm:"column:usd_index"`
	OilPrice       float64   `gorm:"column:oil_price"`
	VIX            float64   `gorm:"column:vix"`
	BondYield      float64   `gorm:"column:bond_yield"`
	GoldUSDOz      float64   `gorm:"column:gold_usd_oz"`
	SentimentScore float64   `gorm:"column:sentiment_score"`
	ChangePct      float64   `gorm:"column:change_pct"`
	Confidence     float64   `gorm:"column:confidence"`
	Predicted24K   int64     `gorm:"column:predicted_24k"`
	Predicted22K   int64     `gorm:"column:predicted_22k"`
	RangeLower     int64     `gorm:"column:range_lower"`
	RangeUpper     int64     `gorm:"column:range_upper"`
	Trend          string    `gorm:"column:trend"`
	Action         string    `gorm:"column:action"`
	EmailSent      bool      `gorm:"column:email_sent"`
}

func (goldRun) TableName() string { return "gold_runs" }

type delivery struct {
	ID        uint      `gorm:"primaryKey"`
	RunID     string    `gorm:"column:run_id;index;size:36;not null"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	Channel   string    `gorm:"column:channel"`
	Kind      string    `gorm:"column:kind"`
	Success   bool      `gorm:"column:success"`
	Error     string    `gorm:"column:error"`
}

func (delivery) TableName() string { return "gold_deliveries" }

// PostgresRecorder persists run history to PostgreSQL through gorm.
type PostgresRecorder struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewPostgresRecorder connects and auto-migrates the history tables.
func NewPostgresRecorder(dsn string, lg *zap.Logger) (*PostgresRecorder, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&goldRun{}, &delivery{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	lg.Info("postgres recorder opened")
	return &PostgresRecorder{db: db, log: lg}, nil
}

func toGoldRun(rec *RunRecord) *goldRun {
	q, f, m := rec.Quote, rec.Forecast, rec.Market
	return &goldRun{
		RunID:          rec.RunID,
		Timestamp:      rec.Timestamp,
		Price24K:       q.Price24K10g,
		Price22K:       q.Price22K10g,
		Source:         q.Source,
		Estimated:      q.Estimated,
		Bitcoin:        m.Bitcoin,
		USDINR:         m.USDINR,
		USDIndex:       m.USDIndex,
		OilPrice:       m.OilPrice,
		VIX:            m.VIX,
		BondYield:      m.BondYield,
		GoldUSDOz:      m.GoldUSDOz,
		SentimentScore: f.SentimentScore,
		ChangePct:      f.ChangePct,
		Confidence:     f.Confidence,
		Predicted24K:   f.Predicted24K,
		Predicted22K:   f.Predicted22K,
		RangeLower:     f.RangeLower,
		RangeUpper:     f.RangeUpper,
		Trend:          f.Trend,
		Action:         f.Action,
		EmailSent:      rec.EmailSent,
	}
}

func (g *goldRun) summary() RunSummary {
	return RunSummary{
		RunID:        g.RunID,
		Timestamp:    g.Timestamp,
		Price24K:     g.Price24K,
		Source:       g.Source,
		Estimated:    g.Estimated,
		Predicted24K: g.Predicted24K,
		ChangePct:    g.ChangePct,
		Trend:        g.Trend,
		EmailSent:    g.EmailSent,
	}
}

func (r *PostgresRecorder) RecordRun(ctx context.Context, rec *RunRecord) error {
	return r.db.WithContext(ctx).Create(toGoldRun(rec)).Error
}

func (r *PostgresRecorder) RecordDelivery(ctx context.Context, evt *DeliveryEvent) error {
	return r.db.WithContext(ctx).Create(&delivery{
		RunID:     evt.RunID,
		Timestamp: evt.Timestamp,
		Channel:   evt.Channel,
		Kind:      evt.Kind,
		Success:   evt.Success,
		Error:     evt.Error,
	}).Error
}

func (r *PostgresRecorder) RecentPrices(ctx context.Context, n int) ([]float64, error) {
	var prices []int64
	err := r.db.WithContext(ctx).Model(&goldRun{}).
		Where("estimated = ?", false).
		Order("timestamp DESC").Limit(n).
		Pluck("price_24k", &prices).Error
	if err != nil {
		return nil, fmt.Errorf("query recent prices: %w", err)
	}
	out := make([]float64, len(prices))
	for i, p := range prices {
		out[len(prices)-1-i] = float64(p)
	}
	return out, nil
}

func (r *PostgresRecorder) RecentRuns(ctx context.Context, n int) ([]RunSummary, error) {
	var rows []goldRun
	if err := r.db.WithContext(ctx).Order("timestamp DESC").Limit(n).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	out := make([]RunSummary, len(rows))
	for i := range rows {
		out[i] = rows[i].summary()
	}
	return out, nil
}

func (r *PostgresRecorder) Close() error {
	r.log.Info("closing postgres recorder")
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
