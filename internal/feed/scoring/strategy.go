// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package scoring

// Features is the per-candidate input contract for a scoring strategy.
// All values are passed by value; a strategy must be pure and free of side
// effects so a pass can call it once per candidate in any order.
type Features struct {
	// CreatedAt is the post creation time in epoch seconds.
	CreatedAt int64

	LikeCount    int
	RetweetCount int
	ReplyCount   int
	QuoteCount   int

	// HasMedia indicates the post or its quoted post carries attachments.
	HasMedia bool

	// HoursSinceSeen is the hours since this user last saw the post, or
	// -1 when the post was never seen.
	HoursSinceSeen float64

	// AuthorRepeats and ContentRepeats count the extra occurrences of the
	// same author / normalized content in the batch (own occurrence
	// excluded).
	AuthorRepeats  int
	ContentRepeats int

	// NoveltyFactor is the enricher's novelty multiplier (1.0-1.2).
	NoveltyFactor float64

	// RandomFactor is a per-call jitter value in [0, 1).
	RandomFactor float64

	// AllSeen indicates every candidate in the batch has a seen record,
	// signalling exhausted fresh content.
	AllSeen bool

	// PositionInFeed is the provisional display position hint; zero for
	// the initial pass.
	PositionInFeed int

	Verified      bool
	Gold          bool
	FollowerCount int

	// HasCommunityNote suppresses the post's score.
	HasCommunityNote bool

	// SuperTweeterBoost is the resolved editorial boost, zero when the
	// post and author carry no boost flag.
	SuperTweeterBoost float64
}

// Strategy maps a candidate's features to a relevance score. Implementations
// must be reentrant and safe for concurrent use; a single instance is shared
// by every ranking pass in the process.
type Strategy interface {
	// Name returns the strategy identifier (e.g. "builtin", "native").
	Name() string

	// Score computes the relevance score for one candidate.
	// Higher is better; scores are never negative.
	Score(f Features) float64
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
