package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	API        APIConfig        `yaml:"api"`
	Storage    StorageConfig    `yaml:"storage"`
	Redis      RedisConfig      `yaml:"redis"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Exports    ExportConfig     `yaml:"exports"`
	Managers   []int64          `yaml:"managers"`
	Blacklist  []int64          `yaml:"blacklist"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type TelegramConfig struct {
	BotToken             string `yaml:"bot_token"`
	Debug                bool   `yaml:"debug"`
	PaymentProviderToken string `yaml:"payment_provider_token"`
	Currency             string `yaml:"currency"`
}

type APIConfig struct {
	BaseURL            string `yaml:"base_url"`
	RetryAttempts      int    `yaml:"retry_attempts"`
	RetryDelaySeconds  int    `yaml:"retry_delay_seconds"`
	VerifyEmailEnabled bool   `yaml:"verify_email_enabled"`
}

func (a APIConfig) RetryDelay() time.Duration {
	return time.Duration(a.RetryDelaySeconds) * time.Second
}

type StorageConfig struct {
	BaseURL        string `yaml:"base_url"`
	PlaceholderURL string `yaml:"placeholder_url"`
	MaxFiles       int    `yaml:"max_files"`
}

type RedisConfig struct {
	Address         string `yaml:"address"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	PoolSize        int    `yaml:"pool_size"`
	StateTTLMinutes int    `yaml:"state_ttl_minutes"`
}

func (r RedisConfig) StateTTL() time.Duration {
	return time.Duration(r.StateTTLMinutes) * time.Minute
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

type ExportConfig struct {
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; the YAML below may reference its variables.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if cfg.Telegram.BotToken == "" || cfg.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		return nil, fmt.Errorf("telegram.bot_token is not set")
	}
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("api.base_url is not set")
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API.RetryAttempts <= 0 {
		c.API.RetryAttempts = 3
	}
	if c.API.RetryDelaySeconds <= 0 {
		c.API.RetryDelaySeconds = 1
	}
	if c.Storage.PlaceholderURL == "" {
		c.Storage.PlaceholderURL = "https://via.placeholder.com/800x600"
	}
	if c.Storage.MaxFiles <= 0 {
		c.Storage.MaxFiles = 10
	}
	if c.Telegram.Currency == "" {
		c.Telegram.Currency = "NGN"
	}
	if c.Redis.StateTTLMinutes <= 0 {
		c.Redis.StateTTLMinutes = 60
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
	if c.Exports.RetentionDays <= 0 {
		c.Exports.RetentionDays = 7
	}
}
