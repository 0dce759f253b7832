package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"urbannest-bot/internal/api"
	"urbannest-bot/internal/bot"
	"urbannest-bot/internal/config"
	"urbannest-bot/internal/session"
	"urbannest-bot/internal/uploader"
	"urbannest-bot/internal/worker"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	logger.Info().
		Str("app", cfg.App.Name).
		Str("version", cfg.App.Version).
		Str("environment", cfg.App.Environment).
		Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err := session.Ping(ctx, rdb); err != nil {
		logger.Fatal().Err(err).Msg("redis unavailable")
	}
	defer rdb.Close()
	sessions := session.NewStore(rdb, cfg.Redis.StateTTL())

	var metrics *bot.Metrics
	if cfg.Monitoring.PrometheusEnabled {
		metrics = bot.NewMetrics()
		go serveMetrics(cfg.Monitoring.PrometheusPort, logger)
	}

	apiClient := api.New(cfg.API.BaseURL, logger,
		api.WithRetry(cfg.API.RetryAttempts, cfg.API.RetryDelay()))
	up := uploader.New(apiClient, logger)

	cleaner := worker.NewExportCleaner(cfg.Exports.Path, cfg.Exports.RetentionDays, logger)
	if err := cleaner.Start(); err != nil {
		logger.Fatal().Err(err).Msg("start export cleaner")
	}
	defer cleaner.Stop()

	b, err := bot.New(cfg, apiClient, sessions, up, metrics, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("create bot")
	}

	b.Start(ctx)
	logger.Info().Msg("shut down")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Logging.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func serveMetrics(port int, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Msg("metrics listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics server stopped")
	}
}
