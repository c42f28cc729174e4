// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

// Package api provides the HTTP surface of the ranking service using the
// chi router: the rank endpoint the feed-serving collaborator calls with
// a candidate batch, the scoring availability probe, health
// endpoints, and Prometheus metrics.
package api
