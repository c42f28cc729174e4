// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

// Package config loads and validates the FeedRank service configuration
// from layered sources: built-in defaults, an optional YAML file, and
// FEEDRANK_-prefixed environment variables, in ascending precedence.
package config

import (
	"fmt"
	"time"

	"github.com/driftlab/feedrank/internal/feed"
	"github.com/driftlab/feedrank/internal/feed/scoring"
	"github.com/driftlab/feedrank/internal/feed/seen"
	"github.com/driftlab/feedrank/internal/logging"
)

// Config is the root service configuration.
type Config struct {
	Server  ServerConfig   `koanf:"server" json:"server"`
	Logging logging.Config `koanf:"logging" json:"logging"`
	Scoring scoring.Config `koanf:"scoring" json:"scoring"`
	Seen    seen.Config    `koanf:"seen" json:"seen"`
	Ranking feed.Config    `koanf:"ranking" json:"ranking"`
	API     APIConfig      `koanf:"api" json:"api"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `koanf:"host" json:"host"`
	Port int    `koanf:"port" json:"port"`

	// ReadTimeout and WriteTimeout bound a single request's I/O.
	ReadTimeout  time.Duration `koanf:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout" json:"write_timeout"`

	// ShutdownTimeout bounds graceful drain on stop.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout"`
}

// APIConfig holds the API surface settings.
type APIConfig struct {
	// MaxBatchSize caps the candidate count accepted per rank request.
	MaxBatchSize int `koanf:"max_batch_size" json:"max_batch_size"`

	// RateLimitReqs per RateLimitWindow per client IP. Zero disables
	// rate limiting.
	RateLimitReqs   int           `koanf:"rate_limit_reqs" json:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" json:"rate_limit_window"`

	// CORSOrigins lists allowed origins. Default: any.
	CORSOrigins []string `koanf:"cors_origins" json:"cors_origins"`
}

// defaultConfig returns the full default configuration. Defaults load
// first, then file and environment layers override.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8439,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: logging.DefaultConfig(),
		Scoring: scoring.DefaultConfig(),
		Seen:    seen.DefaultConfig(),
		Ranking: *feed.DefaultConfig(),
		API: APIConfig{
			MaxBatchSize:    1000,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}
	if c.API.MaxBatchSize < 1 {
		return fmt.Errorf("api.max_batch_size must be at least 1, got %d", c.API.MaxBatchSize)
	}
	if c.API.RateLimitReqs < 0 {
		return fmt.Errorf("api.rate_limit_reqs must not be negative")
	}
	if c.Seen.WindowDays < 1 {
		return fmt.Errorf("seen.window_days must be at least 1, got %d", c.Seen.WindowDays)
	}
	if c.Seen.Backend == seen.BackendBadger && c.Seen.Path == "" {
		return fmt.Errorf("seen.path is required for the badger backend")
	}
	if err := c.Ranking.Validate(); err != nil {
		return fmt.Errorf("ranking: %w", err)
	}
	return nil
}
