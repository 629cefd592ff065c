package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("SENDER_EMAIL", "")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("POSTGRES_DSN", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Email.SMTPHost != "smtp.gmail.com" || cfg.Email.SMTPPort != 587 {
		t.Errorf("unexpected smtp defaults: %s:%d", cfg.Email.SMTPHost, cfg.Email.SMTPPort)
	}
	if cfg.Schedule.ReportCron != "0 30 6 * * *" {
		t.Errorf("unexpected report cron %q", cfg.Schedule.ReportCron)
	}
	if cfg.Sources.Timeout != 15*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Sources.Timeout)
	}
	if cfg.EmailConfigured() {
		t.Error("email should not be configured without credentials")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte(`
email:
  sender: file@example.com
  recipient: to@example.com
  smtp_port: 2525
sources:
  timeout: 3s
alert:
  change_threshold_pct: 2.0
`)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SENDER_EMAIL", "env@example.com")
	t.Setenv("SENDER_PASSWORD", "secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Email.Sender != "env@example.com" {
		t.Errorf("env should override file, got %q", cfg.Email.Sender)
	}
	if cfg.Email.SMTPPort != 2525 {
		t.Errorf("expected port from file, got %d", cfg.Email.SMTPPort)
	}
	if cfg.Sources.Timeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", cfg.Sources.Timeout)
	}
	if cfg.Alert.ChangeThresholdPct != 2.0 {
		t.Errorf("expected threshold 2.0, got %v", cfg.Alert.ChangeThresholdPct)
	}
	if !cfg.EmailConfigured() {
		t.Error("expected email to be configured")
	}
}

func TestValidate_BadTimezone(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Schedule.Timezone = "Mars/Olympus"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestLoad_Retries(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
		want int
	}{
		{"absent", "sources:\n  timeout: 3s\n", 2},
		{"disabled", "sources:\n  retries: 0\n", 0},
		{"explicit", "sources:\n  retries: 5\n", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Sources.Retries != tt.want {
				t.Errorf("retries = %d, want %d", cfg.Sources.Retries, tt.want)
			}
		})
	}
}
