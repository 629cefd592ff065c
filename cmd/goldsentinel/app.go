package main

import (
	"context"
	"fmt"
	"sync"

	"GoldSentinel/internal/alert"
	"GoldSentinel/internal/collector"
	"GoldSentinel/internal/config"
	"GoldSentinel/internal/logger"
	"GoldSentinel/internal/notifier"
	"GoldSentinel/internal/recorder"
	"GoldSentinel/internal/retry"
	"GoldSentinel/internal/scheduler"

	"go.uber.org/zap"
)

// app holds the wired components shared by every command.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	rec      recorder.Recorder
	sched    *scheduler.Scheduler
	telegram *notifier.TelegramNotifier
	bg       sync.WaitGroup
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newApp(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	lg, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	policy := retry.DefaultPolicy
	policy.MaxRetries = uint64(cfg.Sources.Retries)

	client := collector.NewHTTPClient(cfg.Sources.Timeout, cfg.Proxy)
	col := collector.NewCollector(
		collector.DefaultSources(client, cfg.Sources.UserAgent),
		collector.NewYahooFetcher(client),
		client,
		cfg.Sources.BitcoinURL,
		cfg.Sources.FXURL,
		policy,
		lg,
	)

	am, err := alert.NewManager(cfg.Alert.StateFile, cfg.Alert.ChangeThresholdPct)
	if err != nil {
		return nil, fmt.Errorf("init alert manager: %w", err)
	}

	a := &app{cfg: cfg, log: lg, rec: openRecorder(cfg, lg)}
	a.sched = scheduler.NewScheduler(ctx, col, am, a.rec, cfg.Location(), policy, lg)

	// Always wired so that missing credentials surface as a failed delivery.
	a.sched.Email = notifier.NewEmailNotifier(cfg.Email.SMTPHost, cfg.Email.SMTPPort,
		cfg.Email.Sender, cfg.Email.Password, cfg.Email.Recipient)
	if !cfg.EmailConfigured() {
		lg.Warn("email credentials missing; set SENDER_EMAIL, SENDER_PASSWORD and RECIPIENT_EMAIL")
	}
	if cfg.TelegramConfigured() {
		a.telegram = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, client)
		a.sched.Telegram = a.telegram
	}
	if cfg.SMSConfigured() {
		a.sched.SMS = notifier.NewSMSNotifier(cfg.SMS.BaseURL, cfg.SMS.AccountSID, cfg.SMS.AuthToken,
			cfg.SMS.From, cfg.SMS.To, client)
	}
	return a, nil
}

// openRecorder prefers Postgres, then SQLite; any failure degrades to noop.
func openRecorder(cfg *config.Config, lg *zap.Logger) recorder.Recorder {
	if dsn := cfg.Database.PostgresDSN; dsn != "" {
		pr, err := recorder.NewPostgresRecorder(dsn, lg)
		if err == nil {
			return pr
		}
		lg.Warn("init postgres recorder failed", zap.Error(err))
	}
	if path := cfg.Database.SQLitePath; path != "" {
		sr, err := recorder.NewSQLiteRecorder(path, lg)
		if err == nil {
			return sr
		}
		lg.Warn("init sqlite recorder failed, using noop", zap.Error(err))
	}
	return recorder.NewNoopRecorder()
}

// goReport runs one report in the background. Close waits for it.
func (a *app) goReport(ctx context.Context) {
	a.bg.Add(1)
	go func() {
		defer a.bg.Done()
		if _, err := a.sched.RunReport(ctx); err != nil {
			a.log.Error("background report failed", zap.Error(err))
		}
	}()
}

// Close waits for background reports, then releases the recorder.
func (a *app) Close() {
	a.bg.Wait()
	if err := a.rec.Close(); err != nil {
		a.log.Warn("close recorder", zap.Error(err))
	}
	_ = a.log.Sync()
}
