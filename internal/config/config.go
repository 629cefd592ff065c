package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // schedule zones must resolve in minimal containers

	"gopkg.in/yaml.v3"
)

const defaultRetries = 2

// Config holds all application configuration.
type Config struct {
	Log   LogConfig `yaml:"log"`
	Email struct {
		SMTPHost  string `yaml:"smtp_host"`
		SMTPPort  int    `yaml:"smtp_port"`
		Sender    string `yaml:"sender"`
		Password  string `yaml:"password"`
		Recipient string `yaml:"recipient"`
	} `yaml:"email"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	SMS struct {
		AccountSID string `yaml:"account_sid"`
		AuthToken  string `yaml:"auth_token"`
		From       string `yaml:"from"`
		To         string `yaml:"to"`
		BaseURL    string `yaml:"base_url"`
	} `yaml:"sms"`
	Sources struct {
		Timeout    time.Duration `yaml:"timeout"`
		Retries    int           `yaml:"retries"`
		UserAgent  string        `yaml:"user_agent"`
		BitcoinURL string        `yaml:"bitcoin_url"`
		FXURL      string        `yaml:"fx_url"`
	} `yaml:"sources"`
	Schedule struct {
		ReportCron     string `yaml:"report_cron"`
		PriceCheckCron string `yaml:"price_check_cron"`
		Timezone       string `yaml:"timezone"`
	} `yaml:"schedule"`
	Alert struct {
		StateFile          string  `yaml:"state_file"`
		ChangeThresholdPct float64 `yaml:"change_threshold_pct"`
	} `yaml:"alert"`
	Database struct {
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// LogConfig defines the logger options.
type LogConfig struct {
	Level       string `yaml:"level"`       // debug, info, warn, error
	Format      string `yaml:"format"`      // json or console
	OutputFile  string `yaml:"output_file"` // optional rotated log file
	Environment string `yaml:"environment"` // dev or prod
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error: env and defaults are enough for a one-shot run.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// preset so that an explicit "retries: 0" survives
	cfg.Sources.Retries = defaultRetries

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SENDER_EMAIL"); v != "" {
		cfg.Email.Sender = v
	}
	if v := os.Getenv("SENDER_PASSWORD"); v != "" {
		cfg.Email.Password = v
	}
	if v := os.Getenv("RECIPIENT_EMAIL"); v != "" {
		cfg.Email.Recipient = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Email.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Email.SMTPPort = port
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("TWILIO_ACCOUNT_SID"); v != "" {
		cfg.SMS.AccountSID = v
	}
	if v := os.Getenv("TWILIO_AUTH_TOKEN"); v != "" {
		cfg.SMS.AuthToken = v
	}
	if v := os.Getenv("TWILIO_FROM_NUMBER"); v != "" {
		cfg.SMS.From = v
	}
	if v := os.Getenv("ALERT_PHONE_NUMBER"); v != "" {
		cfg.SMS.To = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_REPORT"); v != "" {
		cfg.Schedule.ReportCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Database.PostgresDSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Email.SMTPHost == "" {
		cfg.Email.SMTPHost = "smtp.gmail.com"
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.SMS.BaseURL == "" {
		cfg.SMS.BaseURL = "https://api.twilio.com"
	}
	if cfg.Sources.Timeout == 0 {
		cfg.Sources.Timeout = 15 * time.Second
	}
	if cfg.Sources.UserAgent == "" {
		cfg.Sources.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	}
	if cfg.Sources.BitcoinURL == "" {
		cfg.Sources.BitcoinURL = "https://api.coindesk.com/v1/bpi/currentprice.json"
	}
	if cfg.Sources.FXURL == "" {
		cfg.Sources.FXURL = "https://api.exchangerate-api.com/v4/latest/USD"
	}
	if cfg.Schedule.ReportCron == "" {
		cfg.Schedule.ReportCron = "0 30 6 * * *"
	}
	if cfg.Schedule.Timezone == "" {
		cfg.Schedule.Timezone = "Asia/Kolkata"
	}
	if cfg.Alert.StateFile == "" {
		cfg.Alert.StateFile = "data/alert_state.json"
	}
	if cfg.Alert.ChangeThresholdPct == 0 {
		cfg.Alert.ChangeThresholdPct = 1.5
	}
	if cfg.Database.SQLitePath == "" && cfg.Database.PostgresDSN == "" {
		cfg.Database.SQLitePath = "data/gold_sentinel.db"
	}
}

// Validate checks that the loaded values are usable.
func (c *Config) Validate() error {
	if c.Email.SMTPPort <= 0 || c.Email.SMTPPort > 65535 {
		return fmt.Errorf("email.smtp_port out of range: %d", c.Email.SMTPPort)
	}
	if c.Sources.Retries < 0 {
		return fmt.Errorf("sources.retries must not be negative")
	}
	if c.Alert.ChangeThresholdPct < 0 {
		return fmt.Errorf("alert.change_threshold_pct must not be negative")
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule.timezone: %w", err)
	}
	if strings.TrimSpace(c.Schedule.ReportCron) == "" {
		return fmt.Errorf("schedule.report_cron is required")
	}
	return nil
}

// EmailConfigured reports whether all mail credentials are present.
func (c *Config) EmailConfigured() bool {
	return c.Email.Sender != "" && c.Email.Password != "" && c.Email.Recipient != ""
}

// TelegramConfigured reports whether a Telegram bot is configured.
func (c *Config) TelegramConfigured() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// SMSConfigured reports whether SMS alerts can be sent.
func (c *Config) SMSConfigured() bool {
	return c.SMS.AccountSID != "" && c.SMS.AuthToken != "" && c.SMS.From != "" && c.SMS.To != ""
}

// Location returns the configured schedule time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
