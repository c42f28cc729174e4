// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package scoring

import (
	"math"
	"time"
)

// Age and engagement thresholds for the builtin formula.
const (
	maxAgeHours     = 48.0
	freshHours      = 6.0
	superFreshHours = 2.0
	viralThreshold  = 100
)

// Heuristic is the builtin scoring strategy. It blends time decay,
// engagement quality, virality, media presence, seen-recency penalties,
// batch repetition penalties, account-tier boosts, and bounded randomness
// into a single multiplicative score.
//
// The formula favors fresh posts with diverse engagement; posts older than
// 48 hours with little engagement score zero, and posts carrying a
// community note are suppressed outright.
type Heuristic struct {
	// now is injectable for deterministic tests.
	now func() time.Time
}

// NewHeuristic creates the builtin strategy.
func NewHeuristic() *Heuristic {
	return &Heuristic{now: time.Now}
}

// Name returns the strategy identifier.
func (h *Heuristic) Name() string {
	return "builtin"
}

// Score computes the relevance score for one candidate. All inputs are
// clamped into valid ranges first; non-finite values fall back to their
// safe defaults.
func (h *Heuristic) Score(f Features) float64 {
	f = clampFeatures(f)

	ageHours := h.now().UTC().Sub(time.Unix(f.CreatedAt, 0)).Hours()

	totalEngagement := f.LikeCount + f.RetweetCount + f.ReplyCount + f.QuoteCount
	if ageHours > maxAgeHours && totalEngagement < 10 {
		return 0
	}

	// Community notes suppress the post. Very recent noted posts keep an
	// epsilon score so a note applied mid-surge demotes rather than
	// vanishes the post from an otherwise-empty feed.
	if f.HasCommunityNote {
		if ageHours < 12 {
			return 0.001
		}
		return 0
	}

	base := safeLog(float64(f.LikeCount))*2.5 +
		safeLog(float64(f.RetweetCount))*2.0 +
		safeLog(float64(f.ReplyCount))*1.2 +
		safeLog(float64(f.QuoteCount))*1.5

	score := base *
		timeDecay(ageHours) *
		engagementQuality(f.LikeCount, f.RetweetCount, f.ReplyCount, f.QuoteCount) *
		viralityBoost(f.LikeCount, f.RetweetCount, ageHours) *
		mediaBoost(f.HasMedia, f.QuoteCount, ageHours) *
		seenPenalty(f.HoursSinceSeen) *
		repeatPenalty(f.AuthorRepeats, 0.85, 0.12) *
		repeatPenalty(f.ContentRepeats, 2.0, 0.05) *
		positionPenalty(f.PositionInFeed, f.AuthorRepeats, f.ContentRepeats) *
		recencyAdjust(ageHours) *
		discussionBoost(f.ReplyCount, f.LikeCount) *
		noveltyBoost(f.NoveltyFactor, f.HoursSinceSeen) *
		diversityPenalty(f.AuthorRepeats, f.ContentRepeats, f.RandomFactor) *
		tierBoost(f)

	span, offset := 0.04, 0.02
	if f.AllSeen {
		span, offset = 1.8, 0.5
	}
	randomComponent := offset + f.RandomFactor*span
	if f.AllSeen {
		score *= 1.0 + randomComponent*0.35
	} else {
		score *= 1.0 + randomComponent*0.08
	}
	if f.AuthorRepeats > 3 || f.ContentRepeats > 2 {
		score *= 1.0 + f.RandomFactor*0.5
	}

	// Widened additive randomness reshuffles an exhausted feed instead of
	// replaying the previous order.
	if f.AllSeen {
		score += randomComponent * 2.5
	} else {
		score += randomComponent
	}

	if f.SuperTweeterBoost > 0 {
		score += f.SuperTweeterBoost
	}

	if score < 0 {
		return 0
	}
	return score
}

// clampFeatures forces every input into its valid range. Non-finite
// floats become their documented defaults.
func clampFeatures(f Features) Features {
	if f.CreatedAt < 0 {
		f.CreatedAt = 0
	}
	f.LikeCount = max(f.LikeCount, 0)
	f.RetweetCount = max(f.RetweetCount, 0)
	f.ReplyCount = max(f.ReplyCount, 0)
	f.QuoteCount = max(f.QuoteCount, 0)
	f.AuthorRepeats = max(f.AuthorRepeats, 0)
	f.ContentRepeats = max(f.ContentRepeats, 0)
	f.FollowerCount = max(f.FollowerCount, 0)
	f.PositionInFeed = max(f.PositionInFeed, 0)

	if math.IsNaN(f.HoursSinceSeen) || math.IsInf(f.HoursSinceSeen, 0) || f.HoursSinceSeen < -1 {
		f.HoursSinceSeen = -1
	}
	if math.IsNaN(f.NoveltyFactor) || math.IsInf(f.NoveltyFactor, 0) || f.NoveltyFactor <= 0 {
		f.NoveltyFactor = 1.0
	}
	if math.IsNaN(f.RandomFactor) || math.IsInf(f.RandomFactor, 0) || f.RandomFactor < 0 {
		f.RandomFactor = 0
	}
	if f.RandomFactor > 1 {
		f.RandomFactor = 1
	}
	if math.IsNaN(f.SuperTweeterBoost) || math.IsInf(f.SuperTweeterBoost, 0) || f.SuperTweeterBoost < 0 {
		f.SuperTweeterBoost = 0
	}
	return f
}

// safeLog is log(x+1), zero for non-positive input.
func safeLog(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Log(x + 1)
}

// timeDecay maps post age to a freshness multiplier. The curve is steep in
// the first six hours and exponential beyond.
func timeDecay(ageHours float64) float64 {
	if ageHours < 0 {
		ageHours = 0
	}
	switch {
	case ageHours < superFreshHours:
		return 2.2 - ageHours*0.15
	case ageHours < freshHours:
		return 1.9 - (ageHours-superFreshHours)*0.2
	case ageHours < 12:
		return 1.1 * math.Exp(-(ageHours-freshHours)*0.08)
	case ageHours < 24:
		return 0.65 * math.Exp(-(ageHours-12)*0.06)
	case ageHours < maxAgeHours:
		return 0.35 * math.Exp(-(ageHours-24)*0.08)
	default:
		return 0.12 * math.Exp(-(ageHours-maxAgeHours)*0.1)
	}
}

// engagementQuality rewards diverse engagement over raw like counts.
// Retweet/reply/quote-heavy distributions boost; like-only distributions
// on posts with real traffic dampen.
func engagementQuality(likes, retweets, replies, quotes int) float64 {
	weighted := likes + retweets*2 + replies + quotes
	if weighted == 0 {
		return 0.05
	}

	total := float64(likes + retweets + replies + quotes)
	if total < 1 {
		total = 1
	}

	quality := 1.0
	if float64(retweets)/total > 0.15 {
		quality *= 1.5
	}
	if float64(replies)/total > 0.12 {
		quality *= 1.4
	}
	if float64(quotes)/total > 0.08 {
		quality *= 1.35
	}
	if float64(likes)/total > 0.95 && weighted > 10 {
		quality *= 0.7
	}

	types := 0
	for _, n := range []int{likes, retweets, replies, quotes} {
		if n > 0 {
			types++
		}
	}
	quality *= 0.7 + float64(types)*0.15

	// Reply floods on barely-liked posts usually mean ratio, not discussion.
	if float64(replies)/float64(max(likes, 1)) > 1.5 && likes < 10 {
		quality *= 0.5
	}

	return quality
}

// viralityBoost rewards engagement velocity and early momentum.
func viralityBoost(likes, retweets int, ageHours float64) float64 {
	totalActions := likes + retweets*3
	if retweets > 0 {
		totalActions += retweets
	}
	if ageHours < 0.05 {
		ageHours = 0.05
	}

	velocity := float64(totalActions) / ageHours
	momentum := float64(retweets*2+likes) / (ageHours + 1)

	boost := 1.0
	switch {
	case totalActions >= viralThreshold:
		boost = 2.0 + safeLog(float64(totalActions)/float64(viralThreshold))*0.5
	case totalActions >= 50:
		boost = 1.4 + float64(totalActions-50)/50.0*0.6
	case totalActions >= 20:
		boost = 1.0 + float64(totalActions-20)/30.0*0.4
	}

	switch {
	case velocity > 20:
		boost *= 1.5 + safeLog(velocity/20)*0.3
	case velocity > 10:
		boost *= 1.2 + safeLog(velocity/10)*0.25
	}

	if momentum > 15 && ageHours < 3 {
		boost *= 1.4
	}
	if ageHours < 1 && velocity > 5 {
		boost *= 1.3
	}

	return boost
}

func mediaBoost(hasMedia bool, quotes int, ageHours float64) float64 {
	if !hasMedia {
		return 1.0
	}
	boost := 1.25
	if ageHours < freshHours {
		boost *= 1.15
	}
	if quotes > 0 {
		boost *= 1.12
	}
	return boost
}

// seenPenalty maps hours-since-seen to a dampening multiplier. The ladder
// is severe for a just-shown post and recovers toward neutral over a week.
func seenPenalty(hoursSinceSeen float64) float64 {
	if hoursSinceSeen < 0 {
		return 1.0
	}
	switch {
	case hoursSinceSeen < 0.5:
		return 0.02
	case hoursSinceSeen < 2:
		return 0.05
	case hoursSinceSeen < 6:
		return 0.10
	case hoursSinceSeen < 12:
		return 0.18
	case hoursSinceSeen < 24:
		return 0.32
	case hoursSinceSeen < 48:
		return 0.50
	case hoursSinceSeen < 96:
		return 0.68
	case hoursSinceSeen < 168:
		return 0.82
	default:
		return 0.92
	}
}

// repeatPenalty is a hyperbolic penalty on batch repetition with a floor.
func repeatPenalty(repeats int, slope, floor float64) float64 {
	p := 1.0 / (1.0 + float64(repeats)*slope)
	if p < floor {
		return floor
	}
	return p
}

// positionPenalty dampens repeat authors/content in the first five slots
// during the position-aware re-score pass.
func positionPenalty(position, authorRepeats, contentRepeats int) float64 {
	if position >= 5 {
		return 1.0
	}
	strength := (5.0 - float64(position)) / 5.0
	p := 1.0
	if authorRepeats > 0 {
		p *= 1.0 - strength*0.4
	}
	if contentRepeats > 0 {
		p *= 1.0 - strength*0.5
	}
	return p
}

func recencyAdjust(ageHours float64) float64 {
	switch {
	case ageHours < 0.25:
		return 1.35
	case ageHours < 1:
		return 1.25
	case ageHours < 3:
		return 1.15
	case ageHours < 6:
		return 1.05
	case ageHours > maxAgeHours:
		return 0.5
	case ageHours > 36:
		return 0.65
	case ageHours > 24:
		return 0.75
	default:
		return 1.0
	}
}

// discussionBoost rewards a healthy reply-to-like ratio, capped at +35%.
func discussionBoost(replies, likes int) float64 {
	if replies <= 0 || likes <= 0 {
		return 1.0
	}
	ratio := float64(replies) / float64(max(likes, 1))
	if ratio > 0.5 {
		ratio = 0.5
	}
	return 1.0 + ratio*0.7
}

// noveltyBoost applies the enricher's novelty factor with an extra bump
// for never-seen posts, bounded to [0.75, 1.5].
func noveltyBoost(noveltyFactor, hoursSinceSeen float64) float64 {
	boost := noveltyFactor
	if hoursSinceSeen < 0 {
		boost += 0.12
	}
	if boost < 0.75 {
		return 0.75
	}
	if boost > 1.5 {
		return 1.5
	}
	return boost
}

// diversityPenalty randomizes heavy repeaters so they don't cluster.
func diversityPenalty(authorRepeats, contentRepeats int, random float64) float64 {
	if authorRepeats > 2 || contentRepeats > 1 {
		return 0.6 + random*0.35
	}
	return 1.0
}

// tierBoost rewards verified and gold accounts, scaled by engagement and
// reach, and dampened hard for content the user has already seen. Repeat
// authors lose most of the boost so tier status cannot flood a batch.
func tierBoost(f Features) float64 {
	boost := 1.0
	engagement := float64(f.LikeCount + f.RetweetCount + f.ReplyCount + f.QuoteCount)

	switch {
	case f.Gold:
		boost = 1.15 + safeLog(engagement)*0.05 + safeLog(float64(f.FollowerCount))*0.02
		if boost > 1.35 {
			boost = 1.35
		}
		boost *= tierSeenDamp(f.HoursSinceSeen, 0.4, 0.7, 0.85)
	case f.Verified:
		boost = 1.08 + safeLog(engagement)*0.03 + safeLog(float64(f.FollowerCount))*0.01
		if boost > 1.18 {
			boost = 1.18
		}
		boost *= tierSeenDamp(f.HoursSinceSeen, 0.5, 0.75, 0.9)
	default:
		return 1.0
	}

	if f.AuthorRepeats > 0 {
		boost *= 1.0 / (1.0 + float64(f.AuthorRepeats)*1.2)
		if boost < 0.5 {
			boost = 0.5
		}
	}
	return boost
}

func tierSeenDamp(hoursSinceSeen, under24, under48, older float64) float64 {
	if hoursSinceSeen < 0 {
		return 1.0
	}
	switch {
	case hoursSinceSeen < 24:
		return under24
	case hoursSinceSeen < 48:
		return under48
	default:
		return older
	}
}

// Ensure Heuristic implements the interface.
var _ Strategy = (*Heuristic)(nil)
