// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/driftlab/feedrank/internal/feed"
	"github.com/driftlab/feedrank/internal/feed/scoring"
)

func newTestServer(t *testing.T, strategy scoring.Strategy) http.Handler {
	t.Helper()
	cfg := feed.DefaultConfig()
	cfg.Seed = 42
	ranker, err := feed.NewRanker(cfg, strategy, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRanker() error = %v", err)
	}
	handler := NewHandler(ranker, 100, zerolog.Nop())
	return NewRouter(handler, RouterConfig{})
}

func rankBody(t *testing.T, req map[string]any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return bytes.NewReader(data)
}

func doRank(t *testing.T, srv http.Handler, body *bytes.Reader) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rank", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
	return rec, resp
}

func testCandidates(n int) []map[string]any {
	out := make([]map[string]any, n)
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < n; i++ {
		out[i] = map[string]any{
			"id":         fmt.Sprintf("t%03d", i),
			"user_id":    fmt.Sprintf("u%03d", i),
			"content":    fmt.Sprintf("post %d", i),
			"created_at": base.Add(-time.Duration(i) * time.Minute).Format(time.RFC3339),
			"like_count": 100 - i,
		}
	}
	return out
}

func TestRankEndpoint(t *testing.T) {
	srv := newTestServer(t, scoring.NewHeuristic())

	t.Run("default limit", func(t *testing.T) {
		rec, resp := doRank(t, srv, rankBody(t, map[string]any{
			"candidates": testCandidates(25),
		}))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
		}
		if !resp.Success {
			t.Fatal("success = false, want true")
		}

		data := resp.Data.(map[string]any)
		if got := data["count"].(float64); got != 10 {
			t.Errorf("count = %v, want 10", got)
		}
		if got := data["strategy"].(string); got != "builtin" {
			t.Errorf("strategy = %q, want %q", got, "builtin")
		}
		if items := data["items"].([]any); len(items) != 10 {
			t.Errorf("items length = %d, want 10", len(items))
		}
	})

	t.Run("explicit limit", func(t *testing.T) {
		_, resp := doRank(t, srv, rankBody(t, map[string]any{
			"candidates":    testCandidates(25),
			"display_limit": 5,
		}))
		data := resp.Data.(map[string]any)
		if got := data["count"].(float64); got != 5 {
			t.Errorf("count = %v, want 5", got)
		}
	})

	t.Run("inline seen map", func(t *testing.T) {
		rec, _ := doRank(t, srv, rankBody(t, map[string]any{
			"candidates": testCandidates(10),
			"seen": map[string]any{
				"t000": time.Now().UTC().Add(-2 * time.Hour).Format(time.RFC3339),
				"t001": "not a timestamp",
			},
		}))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 with lenient seen timestamps", rec.Code)
		}
	})

	t.Run("algorithm disabled returns chronological", func(t *testing.T) {
		_, resp := doRank(t, srv, rankBody(t, map[string]any{
			"candidates":    testCandidates(10),
			"use_algorithm": false,
			"display_limit": 10,
		}))
		data := resp.Data.(map[string]any)
		if got := data["strategy"].(string); got != "chronological" {
			t.Fatalf("strategy = %q, want %q", got, "chronological")
		}

		// Newest first regardless of engagement.
		items := data["items"].([]any)
		first := items[0].(map[string]any)
		if first["id"].(string) != "t000" {
			t.Errorf("first item = %v, want newest t000", first["id"])
		}
	})
}

func TestRankEndpointValidation(t *testing.T) {
	srv := newTestServer(t, scoring.NewHeuristic())

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"malformed json", `{"candidates": [`, ErrCodeBadRequest},
		{"missing candidates", `{}`, ErrCodeValidationFailed},
		{"empty candidates", `{"candidates": []}`, ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doRank(t, srv, bytes.NewReader([]byte(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if resp.Success {
				t.Error("success = true on invalid request")
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error code = %v, want %q", resp.Error, tt.wantCode)
			}
		})
	}

	t.Run("batch too large", func(t *testing.T) {
		rec, resp := doRank(t, srv, rankBody(t, map[string]any{
			"candidates": testCandidates(101),
		}))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if resp.Error == nil || resp.Error.Code != ErrCodeValidationFailed {
			t.Errorf("error code = %v, want %q", resp.Error, ErrCodeValidationFailed)
		}
	})
}

func TestRankEndpointWithoutStrategy(t *testing.T) {
	srv := newTestServer(t, nil)

	_, resp := doRank(t, srv, rankBody(t, map[string]any{
		"candidates": testCandidates(5),
	}))
	data := resp.Data.(map[string]any)
	if got := data["strategy"].(string); got != "chronological" {
		t.Errorf("strategy = %q, want %q when no strategy is loaded", got, "chronological")
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	tests := []struct {
		name          string
		strategy      scoring.Strategy
		wantAvailable bool
		wantStrategy  string
	}{
		{"with builtin", scoring.NewHeuristic(), true, "builtin"},
		{"without strategy", nil, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.strategy)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/rank/availability", nil)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var resp APIResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			data := resp.Data.(map[string]any)
			if got := data["available"].(bool); got != tt.wantAvailable {
				t.Errorf("available = %v, want %v", got, tt.wantAvailable)
			}
			if got := data["strategy"].(string); got != tt.wantStrategy {
				t.Errorf("strategy = %q, want %q", got, tt.wantStrategy)
			}
		})
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, scoring.NewHeuristic())

	for _, path := range []string{"/api/v1/health", "/api/v1/health/live", "/api/v1/health/ready"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, scoring.NewHeuristic())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestValidateRequest(t *testing.T) {
	valid := &RankRequest{Candidates: []*feed.Candidate{{ID: "t1"}}}
	if err := validateRequest(valid); err != nil {
		t.Errorf("validateRequest(valid) error = %v", err)
	}

	invalid := &RankRequest{}
	if err := validateRequest(invalid); err == nil {
		t.Error("validateRequest(no candidates) error = nil, want error")
	}
}
