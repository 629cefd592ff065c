package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, lg *zap.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the history command read while a scheduled run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: lg}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	lg.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL UNIQUE,
			timestamp       INTEGER NOT NULL,
			price_24k       INTEGER,
			price_22k       INTEGER,
			source          TEXT,
			estimated       INTEGER,
			bitcoin         REAL,
			usd_inr         REAL,
			usd_index       REAL,
			oil_price       REAL,
			vix             REAL,
			bond_yield      REAL,
			gold_usd_oz     REAL,
			sentiment_score REAL,
			change_pct      REAL,
			confidence      REAL,
			predicted_24k   INTEGER,
			predicted_22k   INTEGER,
			range_lower     INTEGER,
			range_upper     INTEGER,
			trend           TEXT,
			action          TEXT,
			email_sent      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS deliveries (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			channel   TEXT,
			kind      TEXT,
			success   INTEGER,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_deliveries_run ON deliveries(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(ctx context.Context, rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, f, m := rec.Quote, rec.Forecast, rec.Market
	_, err := r.db.ExecContext(ctx, `INSERT INTO runs
		(run_id, timestamp, price_24k, price_22k, source, estimated,
		 bitcoin, usd_inr, usd_index, oil_price, vix, bond_yield, gold_usd_oz,
		 sentiment_score, change_pct, confidence, predicted_24k, predicted_22k,
		 range_lower, range_upper, trend, action, email_sent)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.RunID, rec.Timestamp.Unix(), q.Price24K10g, q.Price22K10g, q.Source, q.Estimated,
		m.Bitcoin, m.USDINR, m.USDIndex, m.OilPrice, m.VIX, m.BondYield, m.GoldUSDOz,
		f.SentimentScore, f.ChangePct, f.Confidence, f.Predicted24K, f.Predicted22K,
		f.RangeLower, f.RangeUpper, f.Trend, f.Action, rec.EmailSent,
	)
	return err
}

func (r *SQLiteRecorder) RecordDelivery(ctx context.Context, evt *DeliveryEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO deliveries
		(run_id, timestamp, channel, kind, success, error)
		VALUES (?,?,?,?,?,?)`,
		evt.RunID, evt.Timestamp.Unix(), evt.Channel, evt.Kind, evt.Success, evt.Error,
	)
	return err
}

func (r *SQLiteRecorder) RecentPrices(ctx context.Context, n int) ([]float64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT price_24k FROM runs WHERE estimated = 0 ORDER BY timestamp DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query recent prices: %w", err)
	}
	defer rows.Close()

	var prices []float64
	for rows.Next() {
		var p int64
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		prices = append(prices, float64(p))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// oldest first
	for i, j := 0, len(prices)-1; i < j; i, j = i+1, j-1 {
		prices[i], prices[j] = prices[j], prices[i]
	}
	return prices, nil
}

func (r *SQLiteRecorder) RecentRuns(ctx context.Context, n int) ([]RunSummary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT run_id, timestamp, price_24k, source, estimated,
		predicted_24k, change_pct, trend, email_sent
		FROM runs ORDER BY timestamp DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var ts int64
		if err := rows.Scan(&s.RunID, &ts, &s.Price24K, &s.Source, &s.Estimated,
			&s.Predicted24K, &s.ChangePct, &s.Trend, &s.EmailSent); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.Timestamp = time.Unix(ts, 0)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
