// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package scoring

// calculateScoreFunc mirrors the calculate_score export of the native
// scoring artifact. Argument order matches the shared library's C
// signature and must not change.
type calculateScoreFunc func(
	createdAt int64,
	likeCount int32,
	retweetCount int32,
	replyCount int32,
	quoteCount int32,
	hasMedia int32,
	hoursSinceSeen float64,
	authorRepeats int32,
	contentRepeats int32,
	noveltyFactor float64,
	randomFactor float64,
	allSeenFlag int32,
	positionInFeed int32,
	userVerified int32,
	userGold int32,
	followerCount int32,
	hasCommunityNote int32,
	superTweeterBoost float64,
) float64

// Native is a scoring strategy backed by a dynamically loaded shared
// library. The library is opened once at process start and the symbol is
// treated as a read-only, reentrant callable thereafter.
type Native struct {
	fn   calculateScoreFunc
	path string
}

// Name returns the strategy identifier.
func (n *Native) Name() string {
	return "native"
}

// Path returns the artifact path the strategy was loaded from.
func (n *Native) Path() string {
	return n.path
}

// Score invokes the native calculate_score export.
func (n *Native) Score(f Features) float64 {
	f = clampFeatures(f)
	return n.fn(
		f.CreatedAt,
		int32(f.LikeCount),
		int32(f.RetweetCount),
		int32(f.ReplyCount),
		int32(f.QuoteCount),
		int32(boolToInt(f.HasMedia)),
		f.HoursSinceSeen,
		int32(f.AuthorRepeats),
		int32(f.ContentRepeats),
		f.NoveltyFactor,
		f.RandomFactor,
		int32(boolToInt(f.AllSeen)),
		int32(f.PositionInFeed),
		int32(boolToInt(f.Verified)),
		int32(boolToInt(f.Gold)),
		int32(f.FollowerCount),
		int32(boolToInt(f.HasCommunityNote)),
		f.SuperTweeterBoost,
	)
}

// Ensure Native implements the interface.
var _ Strategy = (*Native)(nil)
