package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every runtime parameter the services need. It is built once
// at startup and passed to component constructors; nothing reads the
// environment after Load returns.
type Config struct {
	RPCEndpoint string
	TokenMint   string

	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	Monitor  MonitorConfig
}

// DatabaseConfig holds the PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

// RabbitMQConfig holds the optional RabbitMQ connection parameters. The
// monitor publishes stored transactions only when Host is set.
type RabbitMQConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Queue    string
}

// MonitorConfig holds the tick intervals, tier thresholds and the chain RPC
// rate limit. Tests construct it directly to drive the loops deterministically.
type MonitorConfig struct {
	// PollInterval is the scheduler tick deciding which wallets are due.
	PollInterval time.Duration
	// ProcessInterval is the processor tick; one queue item per tick.
	ProcessInterval time.Duration

	// Per-tier minimum staleness before a wallet is polled again.
	ActiveInterval   time.Duration
	ModerateInterval time.Duration
	InactiveInterval time.Duration

	// Reclassification thresholds: stored transactions in the trailing
	// hour (active) and six hours (moderate).
	ActiveThreshold   int
	ModerateThreshold int

	// Chain RPC budget: at most RateLimit dispatches per RateWindow.
	RateLimit  int
	RateWindow time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		RPCEndpoint: os.Getenv("RPC_ENDPOINT"),
		TokenMint:   os.Getenv("TOKEN_MINT_ADDRESS"),
		Database: DatabaseConfig{
			Host:     envOr("DB_HOST", "localhost"),
			User:     envOr("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     envOr("DB_NAME", "tokenwise"),
			Port:     envOr("DB_PORT", "5432"),
		},
		RabbitMQ: RabbitMQConfig{
			Host:     os.Getenv("RABBITMQ_HOST"),
			Port:     envOr("RABBITMQ_PORT", "5672"),
			User:     envOr("RABBITMQ_USER", "guest"),
			Password: envOr("RABBITMQ_PASSWORD", "guest"),
			Queue:    envOr("RABBITMQ_QUEUE", "wallet_transactions"),
		},
		Monitor: MonitorConfig{
			PollInterval:      envDurationOr("POLL_INTERVAL", 5*time.Second),
			ProcessInterval:   envDurationOr("PROCESS_INTERVAL", 100*time.Millisecond),
			ActiveInterval:    envDurationOr("ACTIVE_WALLET_INTERVAL", 30*time.Second),
			ModerateInterval:  envDurationOr("MODERATE_WALLET_INTERVAL", 2*time.Minute),
			InactiveInterval:  envDurationOr("INACTIVE_WALLET_INTERVAL", 10*time.Minute),
			ActiveThreshold:   envIntOr("ACTIVE_THRESHOLD", 5),
			ModerateThreshold: envIntOr("MODERATE_THRESHOLD", 1),
			RateLimit:         envIntOr("RPC_RATE_LIMIT", 8),
			RateWindow:        envDurationOr("RPC_RATE_WINDOW", time.Second),
		},
	}

	if cfg.RPCEndpoint == "" {
		return nil, fmt.Errorf("RPC_ENDPOINT environment variable is not set")
	}
	if cfg.TokenMint == "" {
		return nil, fmt.Errorf("TOKEN_MINT_ADDRESS environment variable is not set")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
