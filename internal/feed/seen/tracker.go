// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package seen

import (
	"context"
	"time"

	"github.com/driftlab/feedrank/internal/feed"
	"github.com/driftlab/feedrank/internal/metrics"
)

// defaultWindowDays bounds how far back reads reach when no window is
// configured.
const defaultWindowDays = 7

// Tracker applies the read window on top of a Store and satisfies the
// pipeline's seen-history contract.
type Tracker struct {
	store  Store
	window time.Duration

	// now is the clock, overridable in tests.
	now func() time.Time
}

// NewTracker wraps a store with a read window of windowDays. A value
// below 1 selects the default window.
func NewTracker(store Store, windowDays int) *Tracker {
	if windowDays < 1 {
		windowDays = defaultWindowDays
	}
	return &Tracker{
		store:  store,
		window: time.Duration(windowDays) * 24 * time.Hour,
		now:    time.Now,
	}
}

// Window returns the tracker's read window.
func (t *Tracker) Window() time.Duration {
	return t.window
}

// Recent returns the user's seen map restricted to the window.
func (t *Tracker) Recent(ctx context.Context, userID string) (feed.SeenMap, error) {
	m, err := t.store.ReadRecent(ctx, userID, t.now().Add(-t.window))
	metrics.RecordSeenRead(err)
	return m, err
}

// MarkShown records the ids as shown to the user now.
func (t *Tracker) MarkShown(ctx context.Context, userID string, ids []string) error {
	err := t.store.RecordShown(ctx, userID, ids, t.now())
	metrics.RecordSeenWrite(err)
	return err
}

// Cleanup deletes records that have aged out of the window, across all
// users, and returns how many were removed.
func (t *Tracker) Cleanup(ctx context.Context) (int, error) {
	return t.store.Cleanup(ctx, t.now().Add(-t.window))
}
