package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"GoldSentinel/internal/alert"
	"GoldSentinel/internal/calculator"
	"GoldSentinel/internal/collector"
	"GoldSentinel/internal/model"
	"GoldSentinel/internal/notifier"
	"GoldSentinel/internal/recorder"
	"GoldSentinel/internal/retry"
	"GoldSentinel/internal/strategy"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// historyWindow is how many recorded prices feed the report's trend section.
const historyWindow = 30

// jobTimeout bounds a single scheduled run.
const jobTimeout = 5 * time.Minute

// Scheduler runs the daily report and the optional intraday price check.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Alerts    *alert.Manager
	Recorder  recorder.Recorder

	// Email receives the full report. Telegram gets a copy and alerts when set;
	// SMS only ever carries alerts.
	Email    notifier.Notifier
	Telegram notifier.Notifier
	SMS      notifier.Notifier

	Retry    retry.Policy
	Location *time.Location
	Now      func() time.Time
	Log      *zap.Logger
	Ctx      context.Context
}

// RunResult summarises one report run.
type RunResult struct {
	RunID       string
	Quote       *model.GoldQuote
	Forecast    *model.Forecast
	Market      *model.MarketSnapshot
	Report      string
	EmailSent   bool
	Alerted     bool
	AlertReason string
}

// analysis is the delivery-free part of a run, shared with chat commands.
type analysis struct {
	now      time.Time
	quote    *model.GoldQuote
	market   *model.MarketSnapshot
	forecast *model.Forecast
	history  *model.PriceHistory
}

// NewScheduler creates a Scheduler whose cron runs in loc.
func NewScheduler(ctx context.Context, col *collector.Collector, am *alert.Manager, rec recorder.Recorder, loc *time.Location, policy retry.Policy, lg *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	cl := cronLogger{lg.Sugar()}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Collector: col,
		Alerts:    am,
		Recorder:  rec,
		Retry:     policy,
		Location:  loc,
		Now:       time.Now,
		Log:       lg,
		Ctx:       ctx,
	}
}

// RegisterAll registers the daily report and, if priceCheckCron is non-empty,
// the intraday price check.
func (s *Scheduler) RegisterAll(reportCron, priceCheckCron string) error {
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	if priceCheckCron != "" {
		if _, err := s.Cron.AddFunc(priceCheckCron, s.priceCheckTask); err != nil {
			return fmt.Errorf("register price check task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started", zap.String("location", s.Location.String()), zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

func (s *Scheduler) reportTask() {
	ctx, cancel := context.WithTimeout(s.Ctx, jobTimeout)
	defer cancel()
	if _, err := s.RunReport(ctx); err != nil {
		s.Log.Error("scheduled report failed", zap.Error(err))
	}
}

func (s *Scheduler) priceCheckTask() {
	ctx, cancel := context.WithTimeout(s.Ctx, jobTimeout)
	defer cancel()
	if err := s.CheckPrice(ctx); err != nil {
		s.Log.Error("price check failed", zap.Error(err))
	}
}

func (s *Scheduler) now() time.Time {
	return s.Now().In(s.Location)
}

func (s *Scheduler) analyze(ctx context.Context) *analysis {
	a := &analysis{now: s.now()}
	a.quote = s.Collector.FetchQuote(ctx, a.now)
	a.market = s.Collector.FetchMarket(ctx, a.now)
	a.forecast = strategy.Evaluate(a.quote.Price24K10g, a.market, a.now)

	prices, err := s.Recorder.RecentPrices(ctx, historyWindow)
	if err != nil {
		s.Log.Warn("load price history", zap.Error(err))
	}
	if len(prices) > 0 {
		a.history = calculator.Summarize(prices)
	}
	return a
}

func (a *analysis) report() string {
	return notifier.FormatReport(&notifier.Report{
		Quote:    a.quote,
		Forecast: a.forecast,
		Market:   a.market,
		History:  a.history,
		Now:      a.now,
	})
}

// RunReport performs one complete run: collect, forecast, deliver, alert and
// record. Delivery failures are logged and reflected in the result; only a
// cancelled context is returned as an error.
func (s *Scheduler) RunReport(ctx context.Context) (*RunResult, error) {
	runID := uuid.NewString()
	lg := s.Log.With(zap.String("run_id", runID))
	lg.Info("running daily report")

	a := s.analyze(ctx)
	res := &RunResult{
		RunID:    runID,
		Quote:    a.quote,
		Forecast: a.forecast,
		Market:   a.market,
		Report:   a.report(),
	}
	subject := notifier.FormatSubject(a.now)

	if s.Email != nil {
		res.EmailSent = s.deliver(ctx, runID, s.Email, "report", subject, res.Report)
	}
	if s.Telegram != nil {
		s.deliver(ctx, runID, s.Telegram, "report", subject, res.Report)
	}

	if s.Alerts != nil {
		if err := s.Alerts.ObserveRun(a.forecast, a.now); err != nil {
			lg.Warn("update alert state", zap.Error(err))
		}
		res.Alerted, res.AlertReason = s.alert(ctx, runID, a)
	}

	if err := s.Recorder.RecordRun(ctx, &recorder.RunRecord{
		RunID:     runID,
		Timestamp: a.now,
		Quote:     a.quote,
		Forecast:  a.forecast,
		Market:    a.market,
		EmailSent: res.EmailSent,
	}); err != nil {
		lg.Error("record run", zap.Error(err))
	}

	lg.Info("daily report complete",
		zap.Int64("price_24k", a.quote.Price24K10g),
		zap.String("source", a.quote.Source),
		zap.Bool("price_estimated", a.quote.Estimated),
		zap.Int64("predicted_24k", a.forecast.Predicted24K),
		zap.Float64("change_pct", a.forecast.ChangePct),
		zap.String("trend", a.forecast.Trend),
		zap.Float64("confidence", a.forecast.Confidence),
		zap.Bool("email_sent", res.EmailSent),
		zap.Bool("alerted", res.Alerted))

	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("run %s: %w", runID, err)
	}
	return res, nil
}

// CheckPrice refreshes the quote and forecast and sends an alert if one is
// due. No report is mailed and nothing is recorded as a run.
func (s *Scheduler) CheckPrice(ctx context.Context) error {
	if s.Alerts == nil {
		return nil
	}
	a := s.analyze(ctx)
	s.alert(ctx, "check-"+uuid.NewString(), a)
	return ctx.Err()
}

func (s *Scheduler) alert(ctx context.Context, runID string, a *analysis) (bool, string) {
	ok, reason := s.Alerts.ShouldAlert(a.forecast, a.now)
	if !ok {
		return false, ""
	}
	if s.SMS == nil && s.Telegram == nil {
		s.Log.Info("alert due but no alert channel configured", zap.String("reason", reason))
		return false, reason
	}

	msg := notifier.FormatAlert(a.quote, a.forecast)
	sent := false
	for _, n := range []notifier.Notifier{s.SMS, s.Telegram} {
		if n != nil && s.deliver(ctx, runID, n, "alert", "Gold alert", msg) {
			sent = true
		}
	}
	if !sent {
		return false, reason
	}
	if err := s.Alerts.RecordAlert(a.quote, a.forecast, a.now); err != nil {
		s.Log.Warn("persist alert state", zap.Error(err))
	}
	s.Log.Info("alert sent", zap.String("reason", reason), zap.String("trend", a.forecast.Trend))
	return true, reason
}

func (s *Scheduler) deliver(ctx context.Context, runID string, n notifier.Notifier, kind, subject, body string) bool {
	err := notifier.Deliver(ctx, n, subject, body, s.Retry, s.Log)
	evt := &recorder.DeliveryEvent{
		RunID:     runID,
		Timestamp: s.now(),
		Channel:   n.Name(),
		Kind:      kind,
		Success:   err == nil,
	}
	if err != nil {
		evt.Error = err.Error()
		s.Log.Error("delivery failed", zap.String("channel", n.Name()), zap.String("kind", kind), zap.Error(err))
	}
	if rerr := s.Recorder.RecordDelivery(ctx, evt); rerr != nil {
		s.Log.Warn("record delivery", zap.Error(rerr))
	}
	return err == nil
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	cmd := fields[0]
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}

	switch strings.ToLower(cmd) {
	case "/price":
		return notifier.FormatPrice(s.Collector.FetchQuote(ctx, s.now()))
	case "/forecast":
		a := s.analyze(ctx)
		return notifier.FormatPrice(a.quote) + "\n\n" + notifier.FormatForecast(a.forecast)
	case "/report":
		return s.analyze(ctx).report()
	case "/history":
		return s.formatHistory(ctx, 10)
	default:
		return helpText
	}
}

const helpText = "Available commands:\n" +
	"• /price - current 24K and 22K rates\n" +
	"• /forecast - tomorrow's forecast\n" +
	"• /report - full analysis report\n" +
	"• /history - recent runs"

func (s *Scheduler) formatHistory(ctx context.Context, n int) string {
	runs, err := s.Recorder.RecentRuns(ctx, n)
	if err != nil {
		return "❌ history unavailable: " + err.Error()
	}
	if len(runs) == 0 {
		return "No runs recorded yet."
	}
	return FormatRuns(runs, s.Location)
}

// FormatRuns renders run summaries one per line, newest first.
func FormatRuns(runs []recorder.RunSummary, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("📜 Recent runs\n")
	for _, r := range runs {
		mark := ""
		if r.Estimated {
			mark = "*"
		}
		mail := "✓"
		if !r.EmailSent {
			mail = "✗"
		}
		fmt.Fprintf(&b, "%s  %s%s → %s (%+.2f%%) %s %s\n",
			r.Timestamp.In(loc).Format("02 Jan 15:04"),
			notifier.Rupees(r.Price24K), mark, notifier.Rupees(r.Predicted24K), r.ChangePct,
			r.Trend, mail)
	}
	return strings.TrimRight(b.String(), "\n")
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	*zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.Errorw(msg, append(keysAndValues, "error", err)...)
}
