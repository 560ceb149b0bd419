// Package config provides configuration loading and validation from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration.
type Config struct {
	LogLevel          string        // debug, info, warn, error
	ListenAddr        string        // Server listen address (e.g., ":8080")
	DatabasePath      string        // SQLite database path
	MetricsListenAddr string        // Metrics listener address (e.g., "localhost:9090")
	JWTSecret         string        // Required: signing secret for identity tokens
	TokenMaxAge       time.Duration // Maximum identity token age
	EncryptionKey     string        // Required: 64 hex chars (32 bytes) for passcode encryption at rest
}

// Load parses configuration from environment variables.
// Optional fields have sensible defaults for ease of deployment.
func Load() (*Config, error) {
	logLevel := os.Getenv("LOG_LEVEL")
	listenAddr := os.Getenv("LISTEN_ADDR")
	databasePath := os.Getenv("DATABASE_PATH")
	metricsListenAddr := os.Getenv("METRICS_LISTEN_ADDR")
	jwtSecret := os.Getenv("JWT_SECRET")
	tokenMaxAge := os.Getenv("TOKEN_MAX_AGE")
	encryptionKey := os.Getenv("ENCRYPTION_KEY")

	if logLevel == "" {
		logLevel = "info"
	}

	if listenAddr == "" {
		listenAddr = ":8080"
	}

	if databasePath == "" {
		databasePath = "/data/dashboards.db"
	}

	if metricsListenAddr == "" {
		metricsListenAddr = "localhost:9090"
	}

	maxAge := 24 * time.Hour
	if tokenMaxAge != "" {
		parsed, err := time.ParseDuration(tokenMaxAge)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_MAX_AGE: %w", err)
		}
		maxAge = parsed
	}

	cfg := &Config{
		LogLevel:          logLevel,
		ListenAddr:        listenAddr,
		DatabasePath:      databasePath,
		MetricsListenAddr: metricsListenAddr,
		JWTSecret:         jwtSecret,
		TokenMaxAge:       maxAge,
		EncryptionKey:     encryptionKey,
	}

	return cfg, nil
}

// Validate checks all configuration constraints.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if c.EncryptionKey == "" {
		return fmt.Errorf("ENCRYPTION_KEY environment variable is required")
	}
	if _, err := c.EncryptionKeyBytes(); err != nil {
		return err
	}
	if c.TokenMaxAge <= 0 {
		return fmt.Errorf("TOKEN_MAX_AGE must be positive")
	}
	return nil
}

// EncryptionKeyBytes decodes the hex-encoded encryption key and checks its size.
func (c *Config) EncryptionKeyBytes() ([]byte, error) {
	key, err := hex.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be hex-encoded: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}
