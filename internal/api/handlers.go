// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/driftlab/feedrank/internal/feed"
	"github.com/driftlab/feedrank/internal/metrics"
)

// maxRequestBody bounds the rank request body size.
const maxRequestBody = 16 << 20

// strategyChronological labels passes that ran without scoring.
const strategyChronological = "chronological"

// Handler serves the ranking endpoints.
type Handler struct {
	ranker       *feed.Ranker
	maxBatchSize int
	logger       zerolog.Logger
	startTime    time.Time
}

// NewHandler creates the API handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(ranker *feed.Ranker, maxBatchSize int, logger zerolog.Logger) *Handler {
	return &Handler{
		ranker:       ranker,
		maxBatchSize: maxBatchSize,
		logger:       logger.With().Str("component", "api").Logger(),
		startTime:    time.Now(),
	}
}

// Rank handles POST /api/v1/rank: score and select a display list from
// the submitted candidate batch.
func (h *Handler) Rank(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validateRequest(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}
	if len(req.Candidates) > h.maxBatchSize {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed,
			"candidate batch exceeds the maximum size")
		return
	}

	useAlgorithm := req.UseAlgorithm == nil || *req.UseAlgorithm

	start := time.Now()
	var (
		items    []*feed.Candidate
		strategy string
	)
	switch {
	case !useAlgorithm || !h.ranker.ScoringAvailable():
		items = h.ranker.RankChronological(req.Candidates, req.DisplayLimit)
		strategy = strategyChronological
	case req.UserID != "":
		items = h.ranker.RankForUser(r.Context(), req.UserID, req.Candidates, req.DisplayLimit)
		strategy = h.ranker.StrategyName()
	default:
		items = h.ranker.Rank(req.Candidates, seenMapFromRequest(req.Seen), req.DisplayLimit)
		strategy = h.ranker.StrategyName()
	}
	metrics.RecordRankingPass(strategy, len(req.Candidates), time.Since(start))

	respondSuccess(w, r, http.StatusOK, map[string]any{
		"items":    items,
		"count":    len(items),
		"strategy": strategy,
	})
}

// Availability handles GET /api/v1/rank/availability: the probe callers
// use to decide whether to offer the relevance-ranking preference.
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]any{
		"available": h.ranker.ScoringAvailable(),
		"strategy":  h.ranker.StrategyName(),
	})
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"scoring":        h.ranker.ScoringAvailable(),
	})
}

// HealthLive handles GET /api/v1/health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]any{"status": "alive"})
}

// HealthReady handles GET /api/v1/health/ready.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.ranker == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeInternalError, "ranker not initialized")
		return
	}
	respondSuccess(w, r, http.StatusOK, map[string]any{"status": "ready"})
}

// seenMapFromRequest converts the wire seen map to the pipeline's form.
// Unparseable timestamps decode to zero values and stay in the map, so
// the item still counts as present.
func seenMapFromRequest(seen map[string]feed.Timestamp) feed.SeenMap {
	if len(seen) == 0 {
		return nil
	}
	out := make(feed.SeenMap, len(seen))
	for id, ts := range seen {
		out[id] = ts.Time
	}
	return out
}
