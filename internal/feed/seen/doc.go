// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

// Package seen persists the per-user short-term memory of displayed
// items. A Store holds timestamped (user, item) records; the Tracker
// wraps a Store with the read window and feeds the ranking pipeline.
// Two backends exist: an in-memory store for tests and single-node
// ephemeral use, and a BadgerDB store for durable state across restarts.
package seen
