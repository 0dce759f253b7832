package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_BOT_TOKEN", "123:abc")
	t.Setenv("TEST_API_URL", "https://api.example.com")

	path := writeConfig(t, `
telegram:
  bot_token: "${TEST_BOT_TOKEN}"
api:
  base_url: "${TEST_API_URL}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Telegram.BotToken != "123:abc" {
		t.Errorf("BotToken = %q", cfg.Telegram.BotToken)
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  bot_token: "123:abc"
api:
  base_url: "https://api.example.com"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.RetryAttempts != 3 {
		t.Errorf("RetryAttempts = %d", cfg.API.RetryAttempts)
	}
	if cfg.API.RetryDelay() != time.Second {
		t.Errorf("RetryDelay = %v", cfg.API.RetryDelay())
	}
	if cfg.Storage.MaxFiles != 10 {
		t.Errorf("MaxFiles = %d", cfg.Storage.MaxFiles)
	}
	if cfg.Telegram.Currency != "NGN" {
		t.Errorf("Currency = %q", cfg.Telegram.Currency)
	}
	if cfg.Redis.StateTTL() != time.Hour {
		t.Errorf("StateTTL = %v", cfg.Redis.StateTTL())
	}
	if cfg.Exports.RetentionDays != 7 {
		t.Errorf("RetentionDays = %d", cfg.Exports.RetentionDays)
	}
}

func TestLoadRejectsMissingToken(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: "https://api.example.com"
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for missing bot token")
	}
}

func TestLoadRejectsMissingBaseURL(t *testing.T) {
	path := writeConfig(t, `
telegram:
  bot_token: "123:abc"
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for missing api base url")
	}
}
