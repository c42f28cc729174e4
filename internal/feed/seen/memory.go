// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package seen

import (
	"context"
	"sync"
	"time"

	"github.com/driftlab/feedrank/internal/feed"
)

// MemoryStore is an in-memory Store for tests and ephemeral single-node
// deployments. State does not survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]map[string]time.Time
}

// NewMemoryStore creates an empty in-memory seen store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]map[string]time.Time),
	}
}

// RecordShown upserts one record per id. Re-recording an id refreshes
// its timestamp only when the new instant is not older, so overlapping
// writes settle on the freshest one.
func (s *MemoryStore) RecordShown(ctx context.Context, userID string, ids []string, at time.Time) error {
	if userID == "" || len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.users[userID]
	if records == nil {
		records = make(map[string]time.Time, len(ids))
		s.users[userID] = records
	}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if prev, ok := records[id]; !ok || !at.Before(prev) {
			records[id] = at
		}
	}
	return nil
}

// ReadRecent returns the user's records with seen_at at or after since.
func (s *MemoryStore) ReadRecent(ctx context.Context, userID string, since time.Time) (feed.SeenMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(feed.SeenMap)
	for id, at := range s.users[userID] {
		if at.Before(since) {
			continue
		}
		out[id] = at
	}
	return out, nil
}

// Cleanup removes records older than before across all users.
func (s *MemoryStore) Cleanup(ctx context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for userID, records := range s.users {
		for id, at := range records {
			if at.Before(before) {
				delete(records, id)
				deleted++
			}
		}
		if len(records) == 0 {
			delete(s.users, userID)
		}
	}
	return deleted, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close() error {
	return nil
}
