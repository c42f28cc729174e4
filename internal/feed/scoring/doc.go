// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

// Package scoring defines the pluggable scoring strategy contract and its
// two implementations: an optional native shared-library strategy loaded
// at process start, and a builtin pure-Go heuristic. The rest of the
// pipeline depends only on the Strategy interface, never on load
// mechanics; when neither implementation is available the pipeline orders
// candidates chronologically instead.
package scoring
