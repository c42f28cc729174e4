// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package feed

import (
	"math"
	"math/rand"
)

// Selection penalty and boost multipliers. The early-slot content penalty
// is much harsher than the late-slot one so the top of the feed never
// opens with near-duplicates, while the tail may still carry them when
// the batch is repetitive.
const (
	maxJitter = 0.05

	contentDupEarlyPenalty = 0.12
	contentDupLatePenalty  = 0.8
	contentDupEarlySlots   = 3

	authorRepeatPenalty = 0.5
	authorFloodPenalty  = 0.3

	seenPenaltyFloor = 0.6
	seenDecayPerHour = 0.03
	neverSeenBoost   = 1.05
)

// selector builds a bounded, diversified display list from a scored,
// descending-ordered candidate list. It is stateless between passes; all
// per-pass state lives in local maps.
type selector struct {
	cfg *Config
}

// apply reorders the scored list so the first limit entries form the
// display selection and the rest follow in score order. The scored slice
// must already be sorted descending by score; limit must not exceed its
// length.
func (s selector) apply(scored []scoredCandidate, batch *batchEnrichment, limit int, rng *rand.Rand) []scoredCandidate {
	if len(scored) == 0 || limit <= 0 {
		return scored
	}

	poolSize := min(len(scored), max(limit*s.cfg.PoolMultiplier, s.cfg.PoolMin))

	chosen := make([]bool, len(scored))
	selIdx := make([]int, 0, limit)
	authorCount := make(map[string]int, limit)
	contentUsed := make(map[string]bool, limit)

	// Greedy loop: each step picks the pool item with the highest
	// penalty-adjusted value given what has already been chosen.
	for len(selIdx) < limit {
		best := -1
		bestVal := math.Inf(-1)
		for i := 0; i < poolSize; i++ {
			if chosen[i] {
				continue
			}
			v := s.adjustedValue(&scored[i], batch, len(selIdx), authorCount, contentUsed, rng)
			if v > bestVal {
				bestVal = v
				best = i
			}
		}
		if best < 0 {
			break
		}

		chosen[best] = true
		selIdx = append(selIdx, best)

		e := &batch.perCandidate[scored[best].enrich]
		if e.authorKey != "" {
			authorCount[e.authorKey]++
		}
		if e.contentKey != "" {
			contentUsed[e.contentKey] = true
		}
	}

	// Backfill from the full scored list, ignoring diversity constraints,
	// when the pool could not fill the limit.
	for i := 0; i < len(scored) && len(selIdx) < limit; i++ {
		if chosen[i] {
			continue
		}
		chosen[i] = true
		selIdx = append(selIdx, i)
	}

	s.shuffleTop(selIdx, rng)
	s.enforceTopDiversity(selIdx, scored, batch, chosen, poolSize)

	out := make([]scoredCandidate, 0, len(scored))
	for _, idx := range selIdx {
		out = append(out, scored[idx])
	}
	for i := range scored {
		if !chosen[i] {
			out = append(out, scored[i])
		}
	}
	return out
}

// adjustedValue computes one pool item's value for the current greedy
// step: raw score with bounded jitter, scaled by the content, author, and
// seen penalties. Items without a resolvable author or content key are
// exempt from the corresponding penalty.
func (s selector) adjustedValue(sc *scoredCandidate, batch *batchEnrichment, chosenSoFar int, authorCount map[string]int, contentUsed map[string]bool, rng *rand.Rand) float64 {
	e := &batch.perCandidate[sc.enrich]
	v := sc.score * (1 + rng.Float64()*maxJitter)

	if e.contentKey != "" && contentUsed[e.contentKey] {
		if chosenSoFar < contentDupEarlySlots {
			v *= contentDupEarlyPenalty
		} else {
			v *= contentDupLatePenalty
		}
	}

	if e.authorKey != "" {
		if n := authorCount[e.authorKey]; n >= 2 {
			v *= authorRepeatPenalty
			if n > 3 {
				v *= authorFloodPenalty
			}
		}
	}

	if e.hoursSinceSeen >= 0 {
		v *= math.Max(seenPenaltyFloor, 1-e.hoursSinceSeen*seenDecayPerHour)
	} else {
		v *= neverSeenBoost
	}

	return v
}

// shuffleTop applies a partial Fisher-Yates shuffle over the first
// min(len, ShuffleWindow) selected slots so the top of the feed is not
// fully deterministic across passes.
func (s selector) shuffleTop(selIdx []int, rng *rand.Rand) {
	w := min(len(selIdx), s.cfg.ShuffleWindow)
	for i := w - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		selIdx[i], selIdx[j] = selIdx[j], selIdx[i]
	}
}

// enforceTopDiversity guarantees positions 0 and 1 differ in author and
// content after the shuffle. When they collide, the first non-selected
// pool item differing from position 0 in both keys takes slot 1 and the
// displaced item rejoins the unselected remainder. When no such item
// exists the pair stays as is.
func (s selector) enforceTopDiversity(selIdx []int, scored []scoredCandidate, batch *batchEnrichment, chosen []bool, poolSize int) {
	if len(selIdx) < 2 {
		return
	}

	e0 := &batch.perCandidate[scored[selIdx[0]].enrich]
	e1 := &batch.perCandidate[scored[selIdx[1]].enrich]
	if !sameKey(e0.authorKey, e1.authorKey) && !sameKey(e0.contentKey, e1.contentKey) {
		return
	}

	for i := 0; i < poolSize; i++ {
		if chosen[i] {
			continue
		}
		e := &batch.perCandidate[scored[i].enrich]
		if sameKey(e.authorKey, e0.authorKey) || sameKey(e.contentKey, e0.contentKey) {
			continue
		}
		chosen[selIdx[1]] = false
		chosen[i] = true
		selIdx[1] = i
		return
	}
}

// sameKey reports whether two keys are equal and non-empty. Candidates
// without a resolvable key never collide with each other.
func sameKey(a, b string) bool {
	return a != "" && a == b
}
