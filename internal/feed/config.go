// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package feed

import "fmt"

// Config contains the operational limits of the ranking pipeline.
type Config struct {
	// DefaultLimit is the display limit applied when the caller supplies
	// none, further capped by the candidate count. Default: 10.
	DefaultLimit int `koanf:"default_limit" json:"default_limit"`

	// MaxLimit is the hard ceiling on a caller-supplied display limit.
	// Default: 60.
	MaxLimit int `koanf:"max_limit" json:"max_limit"`

	// PoolMultiplier sizes the selection working pool as
	// limit * PoolMultiplier, floored at PoolMin. Default: 3.
	PoolMultiplier int `koanf:"pool_multiplier" json:"pool_multiplier"`

	// PoolMin is the minimum working pool size. Default: 20.
	PoolMin int `koanf:"pool_min" json:"pool_min"`

	// ShuffleWindow bounds the top-slot partial shuffle. Default: 4.
	ShuffleWindow int `koanf:"shuffle_window" json:"shuffle_window"`

	// MarkSeenTop is how many of the selected items are recorded as shown
	// per pass. Bounding writes leaves lower-ranked items eligible for
	// immediate resurfacing. Default: 10.
	MarkSeenTop int `koanf:"mark_seen_top" json:"mark_seen_top"`

	// Seed is the random seed for jitter and shuffles. Zero seeds from the
	// clock; a fixed value makes ranking output reproducible.
	Seed int64 `koanf:"seed" json:"seed"`
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultLimit:   10,
		MaxLimit:       60,
		PoolMultiplier: 3,
		PoolMin:        20,
		ShuffleWindow:  4,
		MarkSeenTop:    10,
		Seed:           0,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be at least 1, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit %d must be >= default_limit %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.PoolMultiplier < 1 {
		return fmt.Errorf("pool_multiplier must be at least 1, got %d", c.PoolMultiplier)
	}
	if c.PoolMin < 1 {
		return fmt.Errorf("pool_min must be at least 1, got %d", c.PoolMin)
	}
	if c.ShuffleWindow < 0 {
		return fmt.Errorf("shuffle_window must not be negative, got %d", c.ShuffleWindow)
	}
	if c.MarkSeenTop < 0 {
		return fmt.Errorf("mark_seen_top must not be negative, got %d", c.MarkSeenTop)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
