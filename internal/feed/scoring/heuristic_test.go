// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package scoring

import (
	"math"
	"testing"
	"time"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func testHeuristic() *Heuristic {
	h := NewHeuristic()
	h.now = func() time.Time { return testNow }
	return h
}

// baseFeatures is a healthy two-hour-old post with mixed engagement.
func baseFeatures() Features {
	return Features{
		CreatedAt:      testNow.Add(-2 * time.Hour).Unix(),
		LikeCount:      40,
		RetweetCount:   10,
		ReplyCount:     8,
		QuoteCount:     2,
		HoursSinceSeen: -1,
		NoveltyFactor:  1.2,
		RandomFactor:   0.5,
	}
}

func TestHeuristicNeverSeenOutranksSeen(t *testing.T) {
	h := testHeuristic()

	fresh := baseFeatures()
	seen := baseFeatures()
	seen.HoursSinceSeen = 1
	seen.NoveltyFactor = 1.0

	if sf, ss := h.Score(fresh), h.Score(seen); sf <= ss {
		t.Errorf("never-seen score %f <= seen score %f", sf, ss)
	}
}

func TestHeuristicSeenPenaltyRecovers(t *testing.T) {
	h := testHeuristic()

	// The penalty must ease as the sighting ages.
	hours := []float64{0.1, 1, 4, 10, 20, 36, 72, 120, 200}
	prev := -1.0
	for _, hrs := range hours {
		f := baseFeatures()
		f.HoursSinceSeen = hrs
		f.NoveltyFactor = 1.0
		score := h.Score(f)
		if score < prev {
			t.Errorf("score at %v hours = %f, below score at younger sighting %f", hrs, score, prev)
		}
		prev = score
	}
}

func TestHeuristicStaleLowEngagementScoresZero(t *testing.T) {
	h := testHeuristic()

	tests := []struct {
		name     string
		ageHours float64
		likes    int
		wantZero bool
	}{
		{"old and quiet", 72, 3, true},
		{"old but engaged", 72, 500, false},
		{"fresh and quiet", 1, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Features{
				CreatedAt:      testNow.Add(-time.Duration(tt.ageHours * float64(time.Hour))).Unix(),
				LikeCount:      tt.likes,
				HoursSinceSeen: -1,
				NoveltyFactor:  1.2,
			}
			score := h.Score(f)
			if tt.wantZero && score != 0 {
				t.Errorf("Score() = %f, want 0", score)
			}
			if !tt.wantZero && score <= 0 {
				t.Errorf("Score() = %f, want positive", score)
			}
		})
	}
}

func TestHeuristicCommunityNote(t *testing.T) {
	h := testHeuristic()

	recent := baseFeatures()
	recent.HasCommunityNote = true
	if got := h.Score(recent); got != 0.001 {
		t.Errorf("noted post under 12h Score() = %f, want 0.001", got)
	}

	old := baseFeatures()
	old.CreatedAt = testNow.Add(-20 * time.Hour).Unix()
	old.HasCommunityNote = true
	if got := h.Score(old); got != 0 {
		t.Errorf("noted post over 12h Score() = %f, want 0", got)
	}
}

func TestHeuristicNonFiniteInputs(t *testing.T) {
	h := testHeuristic()

	tests := []struct {
		name   string
		mutate func(*Features)
	}{
		{"nan hours since seen", func(f *Features) { f.HoursSinceSeen = math.NaN() }},
		{"inf novelty", func(f *Features) { f.NoveltyFactor = math.Inf(1) }},
		{"nan random factor", func(f *Features) { f.RandomFactor = math.NaN() }},
		{"random factor above one", func(f *Features) { f.RandomFactor = 42 }},
		{"negative counts", func(f *Features) { f.LikeCount, f.ReplyCount = -5, -2 }},
		{"negative created_at", func(f *Features) { f.CreatedAt = -1 }},
		{"inf super tweeter boost", func(f *Features) { f.SuperTweeterBoost = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := baseFeatures()
			tt.mutate(&f)
			score := h.Score(f)
			if math.IsNaN(score) || math.IsInf(score, 0) {
				t.Errorf("Score() = %f, want finite", score)
			}
			if score < 0 {
				t.Errorf("Score() = %f, want non-negative", score)
			}
		})
	}
}

func TestHeuristicSuperTweeterBoostIsAdditive(t *testing.T) {
	h := testHeuristic()

	plain := baseFeatures()
	boosted := baseFeatures()
	boosted.SuperTweeterBoost = 50

	sp, sb := h.Score(plain), h.Score(boosted)
	if diff := sb - sp; math.Abs(diff-50) > 1e-9 {
		t.Errorf("boost added %f to the score, want exactly 50", diff)
	}
}

func TestHeuristicRepetitionDampens(t *testing.T) {
	h := testHeuristic()

	solo := baseFeatures()
	repeat := baseFeatures()
	repeat.AuthorRepeats = 4
	repeat.RandomFactor = 0 // drop the repeater reshuffle bonus

	solo.RandomFactor = 0
	if ss, sr := h.Score(solo), h.Score(repeat); sr >= ss {
		t.Errorf("repeat author score %f >= solo score %f", sr, ss)
	}
}

func TestHeuristicTierBoost(t *testing.T) {
	h := testHeuristic()

	plain := baseFeatures()
	gold := baseFeatures()
	gold.Gold = true
	gold.FollowerCount = 10000
	verified := baseFeatures()
	verified.Verified = true
	verified.FollowerCount = 10000

	sp, sg, sv := h.Score(plain), h.Score(gold), h.Score(verified)
	if sg <= sv {
		t.Errorf("gold score %f <= verified score %f", sg, sv)
	}
	if sv <= sp {
		t.Errorf("verified score %f <= plain score %f", sv, sp)
	}
}

func TestHeuristicName(t *testing.T) {
	if got := NewHeuristic().Name(); got != "builtin" {
		t.Errorf("Name() = %q, want %q", got, "builtin")
	}
}
