// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

// Package main is the entry point for the FeedRank ranking service.
//
// rankd is a sidecar the feed-serving application calls with a candidate
// batch and, optionally, a user id. It scores candidates with the active
// scoring strategy (a native shared-library artifact when available,
// otherwise the builtin heuristic), applies diversity-constrained
// selection, and remembers what each user was shown so repeat content
// decays on future passes.
//
// Startup order:
//
//  1. Configuration: layered load via Koanf v2 (defaults, YAML file,
//     FEEDRANK_ environment variables)
//  2. Logging: zerolog, JSON by default
//  3. Scoring strategy: probe for the native artifact, fall back to the
//     builtin heuristic; never fatal
//  4. Seen store: in-memory or BadgerDB
//  5. Supervision tree: seen-store janitor and HTTP server under suture
//
// Shutdown on SIGINT/SIGTERM drains in-flight requests within
// server.shutdown_timeout and closes the seen store.
//
// Example:
//
//	export FEEDRANK_SEEN_BACKEND=badger
//	export FEEDRANK_SEEN_PATH=/data/seen
//	export FEEDRANK_SCORING_LIBRARY_PATH=/opt/feedrank/algorithm.so
//	./rankd
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/driftlab/feedrank/internal/api"
	"github.com/driftlab/feedrank/internal/config"
	"github.com/driftlab/feedrank/internal/feed"
	"github.com/driftlab/feedrank/internal/feed/scoring"
	"github.com/driftlab/feedrank/internal/feed/seen"
	"github.com/driftlab/feedrank/internal/logging"
	"github.com/driftlab/feedrank/internal/metrics"
	"github.com/driftlab/feedrank/internal/supervisor"
	"github.com/driftlab/feedrank/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging)
	logger := logging.Logger()

	strategy := scoring.Load(cfg.Scoring, logger)
	if strategy != nil && strategy.Name() == "native" {
		metrics.NativeStrategyLoaded.Set(1)
	} else {
		metrics.NativeStrategyLoaded.Set(0)
	}

	store, err := seen.NewStore(cfg.Seen, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize seen store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close seen store")
		}
	}()

	tracker := seen.NewTracker(store, cfg.Seen.WindowDays)

	ranker, err := feed.NewRanker(&cfg.Ranking, strategy, tracker, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create ranker")
	}

	handler := api.NewHandler(ranker, cfg.API.MaxBatchSize, logger)
	router := api.NewRouter(handler, api.RouterConfig{
		RateLimitReqs:   cfg.API.RateLimitReqs,
		RateLimitWindow: cfg.API.RateLimitWindow,
		CORSOrigins:     cfg.API.CORSOrigins,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)

	tree.AddStorageService(services.NewSeenJanitorService(tracker, cfg.Seen.CleanupInterval, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().
		Str("addr", server.Addr).
		Str("strategy", ranker.StrategyName()).
		Str("seen_backend", cfg.Seen.Backend).
		Msg("Starting feedrank")

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Feedrank stopped gracefully")
}
