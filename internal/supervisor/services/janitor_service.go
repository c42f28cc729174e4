// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/driftlab/feedrank/internal/metrics"
)

// Cleaner deletes expired records and reports how many were removed.
// Satisfied by the seen tracker.
type Cleaner interface {
	Cleanup(ctx context.Context) (int, error)
}

// SeenJanitorService periodically purges seen records that aged out of
// the read window. Reads already exclude them, so a failed run only
// delays space reclamation; the error is logged and the ticker keeps
// going.
type SeenJanitorService struct {
	cleaner  Cleaner
	interval time.Duration
	logger   zerolog.Logger
}

// NewSeenJanitorService creates the cleanup janitor.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSeenJanitorService(cleaner Cleaner, interval time.Duration, logger zerolog.Logger) *SeenJanitorService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SeenJanitorService{
		cleaner:  cleaner,
		interval: interval,
		logger:   logger.With().Str("component", "seen-janitor").Logger(),
	}
}

// Serve implements suture.Service.
func (s *SeenJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *SeenJanitorService) runOnce(ctx context.Context) {
	deleted, err := s.cleaner.Cleanup(ctx)
	if err != nil {
		metrics.SeenCleanupRuns.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Msg("seen cleanup failed")
		return
	}
	metrics.SeenCleanupRuns.WithLabelValues("ok").Inc()
	metrics.SeenCleanupDeleted.Add(float64(deleted))
	if deleted > 0 {
		s.logger.Debug().Int("deleted", deleted).Msg("seen cleanup complete")
	}
}

// String identifies the service in supervisor logs.
func (s *SeenJanitorService) String() string {
	return "seen-janitor"
}
