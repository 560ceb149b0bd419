// Package main provides the entry point for the dashboard API server.
package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sipico/dashboard-api/internal/access"
	"github.com/sipico/dashboard-api/internal/api"
	"github.com/sipico/dashboard-api/internal/auth"
	"github.com/sipico/dashboard-api/internal/config"
	"github.com/sipico/dashboard-api/internal/metrics"
	"github.com/sipico/dashboard-api/internal/storage"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logLevel := new(slog.LevelVar)
	logLevel.Set(parseLogLevel(cfg.LogLevel))
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	encryptionKey, err := cfg.EncryptionKeyBytes()
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.DatabasePath, encryptionKey)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := metrics.Init(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	tokens := auth.NewCodec([]byte(cfg.JWTSecret), cfg.TokenMaxAge)
	accessCtrl := access.NewController(store)
	handler := api.NewHandler(store, accessCtrl, tokens, logLevel, logger)

	// Metrics on a separate listener so it is never exposed publicly
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		logger.Info("metrics listener starting", "addr", cfg.MetricsListenAddr)
		if err := http.ListenAndServe(cfg.MetricsListenAddr, mux); err != nil {
			logger.Error("metrics listener failed", "error", err)
		}
	}()

	logger.Info("dashboard API starting", "version", version, "addr", cfg.ListenAddr)
	return http.ListenAndServe(cfg.ListenAddr, handler.NewRouter())
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
