// Package config provides centralized configuration for habitd runtime values.
package config

import (
	"os"
	"strconv"
	"time"
)

// RuntimeConfig holds all runtime configuration values.
type RuntimeConfig struct {
	// Server configuration
	Server ServerConfig

	// Auth configuration
	Auth AuthConfig

	// Notify configuration
	Notify NotifyConfig

	// Scheduler configuration
	Scheduler SchedulerConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: ":8080"
	Addr string

	// ShutdownTimeout is the grace period for in-flight requests.
	// Default: 10s
	ShutdownTimeout time.Duration
}

// AuthConfig holds token issuance configuration.
type AuthConfig struct {
	// JWTSecret signs API tokens. Must be set for the server to start.
	JWTSecret string

	// TokenTTL is the token lifetime.
	// Default: 24h
	TokenTTL time.Duration
}

// NotifyConfig holds reminder delivery configuration.
type NotifyConfig struct {
	// TelegramToken is the bot token used for delivery.
	TelegramToken string

	// SendTimeout bounds a single outbound delivery.
	// Default: 30s
	SendTimeout time.Duration

	// MaxRetries is the maximum number of retry attempts per request.
	// Default: 3
	MaxRetries int

	// RetryDelays are the delays between retry attempts.
	// Default: [0s, 5s, 30s]
	RetryDelays []time.Duration
}

// SchedulerConfig holds reminder scheduling configuration.
type SchedulerConfig struct {
	// CronSpec is the daily trigger, with seconds field.
	// Default: "0 0 9 * * *"
	CronSpec string
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Notify: NotifyConfig{
			SendTimeout: 30 * time.Second,
			MaxRetries:  3,
			RetryDelays: []time.Duration{
				0,                // Immediate first attempt
				5 * time.Second,  // Retry after 5s
				30 * time.Second, // Retry after 30s
			},
		},
		Scheduler: SchedulerConfig{
			CronSpec: "0 0 9 * * *",
		},
	}
}

// Load builds the runtime configuration from defaults plus environment
// overrides.
func Load() *RuntimeConfig {
	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()
	return cfg
}

// loadFromEnv loads configuration overrides from environment variables.
func (c *RuntimeConfig) loadFromEnv() {
	if v := os.Getenv("HABITD_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("HABITD_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Server.ShutdownTimeout = d
		}
	}

	if v := os.Getenv("HABITD_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("HABITD_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Auth.TokenTTL = d
		}
	}

	if v := os.Getenv("HABITD_TELEGRAM_TOKEN"); v != "" {
		c.Notify.TelegramToken = v
	}
	if v := os.Getenv("HABITD_SEND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Notify.SendTimeout = d
		}
	}
	if v := os.Getenv("HABITD_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Notify.MaxRetries = n
		}
	}

	if v := os.Getenv("HABITD_REMINDER_CRON"); v != "" {
		c.Scheduler.CronSpec = v
	}
}

// ReloadFromEnv reloads configuration from environment variables.
// This is useful for testing or when environment variables change.
func (c *RuntimeConfig) ReloadFromEnv() {
	c.loadFromEnv()
}
