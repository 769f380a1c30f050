// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment
// variables.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// Backend API the dashboard is a front for.
	APIBaseURL   string `env:"TNT_API_BASE_URL,required"`
	AssetBaseURL string `env:"TNT_ASSET_BASE_URL" envDefault:"https://tnt-local.s3.us-east-1.amazonaws.com/"`

	SessionSecret string `env:"TNT_SESSION_SECRET,required"`
	SessionDBPath string `env:"TNT_SESSION_DB_PATH" envDefault:"./data/sessions.db"`
	ServerHost    string `env:"TNT_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"TNT_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"TNT_ENV" envDefault:"development"`
	LogLevel      string `env:"TNT_LOG_LEVEL" envDefault:"info"`

	// Outgoing request handling.
	RequestTimeout time.Duration `env:"TNT_REQUEST_TIMEOUT" envDefault:"15s"`
	ItemsPerPage   int           `env:"TNT_ITEMS_PER_PAGE" envDefault:"10"`

	// Category filter cache. Redis is optional; the in-memory store is
	// used when no URL is configured.
	RedisURL    string        `env:"TNT_REDIS_URL"`
	CachePrefix string        `env:"TNT_CACHE_PREFIX" envDefault:"tnt:"`
	CacheTTL    time.Duration `env:"TNT_CACHE_TTL" envDefault:"5m"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("TNT_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("TNT_API_BASE_URL must be an absolute URL, got %q", cfg.APIBaseURL)
	}
	cfg.APIBaseURL = strings.TrimSuffix(cfg.APIBaseURL, "/")

	if cfg.ItemsPerPage < 1 {
		return nil, fmt.Errorf("TNT_ITEMS_PER_PAGE must be positive, got %d", cfg.ItemsPerPage)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("TNT_REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}

	return cfg, nil
}
