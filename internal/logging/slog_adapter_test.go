// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSlogHandlerForwardsRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

	logger.Info("pass complete", "candidates", 42, "strategy", "builtin")

	out := buf.String()
	if !strings.Contains(out, `"message":"pass complete"`) {
		t.Errorf("output missing message: %s", out)
	}
	if !strings.Contains(out, `"candidates":42`) {
		t.Errorf("output missing int attr: %s", out)
	}
	if !strings.Contains(out, `"strategy":"builtin"`) {
		t.Errorf("output missing string attr: %s", out)
	}
	if !strings.Contains(out, `"level":"info"`) {
		t.Errorf("output missing level: %s", out)
	}
}

func TestSlogHandlerLevels(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, "debug"},
		{slog.LevelInfo, "info"},
		{slog.LevelWarn, "warn"},
		{slog.LevelError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

			logger.Log(context.Background(), tt.level, "msg")

			if !strings.Contains(buf.String(), `"level":"`+tt.want+`"`) {
				t.Errorf("output level mismatch: %s", buf.String())
			}
		})
	}
}

func TestSlogHandlerWithAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

	logger.With("service", "feedrank").WithGroup("http").Info("request", "status", 200)

	out := buf.String()
	if !strings.Contains(out, `"service":"feedrank"`) {
		t.Errorf("output missing pre-bound attr: %s", out)
	}
	if !strings.Contains(out, `"http.status":200`) {
		t.Errorf("output missing group-prefixed attr: %s", out)
	}
}

func TestSlogHandlerEnabled(t *testing.T) {
	quiet := NewTestLogger(&bytes.Buffer{}).Level(zerolog.WarnLevel)
	h := NewSlogHandlerWithLogger(quiet)

	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Enabled(debug) = true on a warn-level logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("Enabled(error) = false on a warn-level logger")
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
