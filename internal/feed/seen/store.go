// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package seen

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/driftlab/feedrank/internal/feed"
)

// Store backend identifiers.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Store persists seen records. Implementations must make RecordShown a
// last-write-wins upsert per (user, id) pair so overlapping ranking
// passes for one user only race on the freshest timestamp.
type Store interface {
	// RecordShown upserts one record per id with the given instant.
	RecordShown(ctx context.Context, userID string, ids []string, at time.Time) error

	// ReadRecent returns the user's records with seen_at at or after
	// since. Records with unusable timestamps are returned with a zero
	// time rather than dropped.
	ReadRecent(ctx context.Context, userID string, since time.Time) (feed.SeenMap, error)

	// Cleanup physically removes records older than before, across all
	// users, and returns how many were deleted.
	Cleanup(ctx context.Context, before time.Time) (int, error)

	// Close releases backend resources.
	Close() error
}

// Config selects and parameterizes the seen store.
type Config struct {
	// Backend is "memory" or "badger".
	Backend string `koanf:"backend" json:"backend" validate:"oneof=memory badger"`

	// Path is the BadgerDB directory. Ignored by the memory backend.
	Path string `koanf:"path" json:"path"`

	// WindowDays is the read window; records older than this are excluded
	// from reads and eligible for cleanup. Default: 7.
	WindowDays int `koanf:"window_days" json:"window_days" validate:"min=1"`

	// CleanupInterval is how often the background janitor deletes expired
	// records. Default: 1h.
	CleanupInterval time.Duration `koanf:"cleanup_interval" json:"cleanup_interval"`
}

// DefaultConfig returns the default seen store configuration.
func DefaultConfig() Config {
	return Config{
		Backend:         BackendMemory,
		Path:            "data/seen",
		WindowDays:      7,
		CleanupInterval: time.Hour,
	}
}

// NewStore builds the configured store backend.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStore(cfg Config, logger zerolog.Logger) (Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		logger.Info().Str("backend", BackendMemory).Msg("seen store initialized")
		return NewMemoryStore(), nil

	case BackendBadger:
		opts := badger.DefaultOptions(cfg.Path).
			WithLogger(nil).
			WithCompactL0OnClose(true)
		db, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("open badger seen store at %s: %w", cfg.Path, err)
		}
		logger.Info().Str("backend", BackendBadger).Str("path", cfg.Path).
			Msg("seen store initialized")
		return NewBadgerStore(db), nil

	default:
		return nil, fmt.Errorf("unknown seen store backend %q", cfg.Backend)
	}
}
