// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

// Package metrics defines the Prometheus collectors for ranking passes,
// seen-store traffic, and the HTTP surface. Collectors are registered via
// promauto at package load; the /metrics endpoint exposes them.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ranking pipeline metrics.
	RankingPasses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_ranking_passes_total",
			Help: "Total number of ranking passes by strategy (builtin, native, chronological)",
		},
		[]string{"strategy"},
	)

	RankingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feedrank_ranking_duration_seconds",
			Help:    "Duration of one ranking pass in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"strategy"},
	)

	RankingBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feedrank_ranking_batch_size",
			Help:    "Candidate count per ranking pass",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// Seen store metrics.
	SeenReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_seen_reads_total",
			Help: "Total seen-history reads by result",
		},
		[]string{"result"}, // "ok", "error"
	)

	SeenWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_seen_writes_total",
			Help: "Total seen-history writes by result",
		},
		[]string{"result"},
	)

	SeenCleanupDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedrank_seen_cleanup_deleted_total",
			Help: "Total seen records removed by the cleanup janitor",
		},
	)

	SeenCleanupRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_seen_cleanup_runs_total",
			Help: "Total cleanup janitor runs by result",
		},
		[]string{"result"},
	)

	// API metrics.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_api_requests_total",
			Help: "Total API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feedrank_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	// NativeStrategyLoaded is 1 when the native scoring artifact loaded
	// at startup, else 0.
	NativeStrategyLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feedrank_native_strategy_loaded",
			Help: "Whether the native scoring artifact is loaded (1) or not (0)",
		},
	)
)

// RecordRankingPass observes one completed pass.
func RecordRankingPass(strategy string, batchSize int, elapsed time.Duration) {
	RankingPasses.WithLabelValues(strategy).Inc()
	RankingDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	RankingBatchSize.Observe(float64(batchSize))
}

// RecordAPIRequest observes one completed HTTP request.
func RecordAPIRequest(method, endpoint string, status int, elapsed time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// resultLabel maps an error to the result label value.
func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordSeenRead observes one seen-history read.
func RecordSeenRead(err error) {
	SeenReads.WithLabelValues(resultLabel(err)).Inc()
}

// RecordSeenWrite observes one seen-history write.
func RecordSeenWrite(err error) {
	SeenWrites.WithLabelValues(resultLabel(err)).Inc()
}
