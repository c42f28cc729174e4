// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

// Package feed implements the personalized feed ranking pipeline:
// candidate enrichment, pluggable scoring, descending sort, and greedy
// diversity-constrained selection, plus the contracts for per-user seen
// history.
//
// A pass is a synchronous, stateless computation: given a candidate batch
// and a seen-map snapshot it produces one display list, deterministic
// modulo the injected jitter source. All I/O (candidate assembly, seen
// persistence) lives in collaborators; this package only ranks. Passes
// for different users share nothing but the Ranker's rng seed source.
package feed
