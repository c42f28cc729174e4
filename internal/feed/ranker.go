// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package feed

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/driftlab/feedrank/internal/feed/scoring"
)

// rerankTop is how many leading items are re-scored with their
// provisional display position after the initial sort.
const rerankTop = 10

// SeenHistory is the per-user view of recently shown items. The pipeline
// reads it before scoring and writes the top of each selection back after.
// Implementations must make MarkShown a last-write-wins upsert so
// overlapping passes for one user cannot corrupt state.
type SeenHistory interface {
	// Recent returns the ids shown to the user within the tracker's
	// window, mapped to the instant they were last shown.
	Recent(ctx context.Context, userID string) (SeenMap, error)

	// MarkShown records that the ids were displayed to the user now.
	MarkShown(ctx context.Context, userID string, ids []string) error
}

// Ranker is the feed ranking pipeline: enrichment, scoring, descending
// sort, and diversity-constrained selection. A single Ranker is shared by
// all requests; passes for different users are fully independent.
type Ranker struct {
	cfg      *Config
	strategy scoring.Strategy
	history  SeenHistory
	logger   zerolog.Logger

	enricher enricher
	selector selector

	mu  sync.Mutex
	rng *rand.Rand

	// now is the clock, overridable in tests.
	now func() time.Time
}

// NewRanker builds a ranking pipeline. strategy may be nil, in which case
// every pass orders candidates chronologically. history may be nil when
// the caller manages seen state itself and uses Rank directly.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRanker(cfg *Config, strategy scoring.Strategy, history SeenHistory, logger zerolog.Logger) (*Ranker, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Ranker{
		cfg:      cfg.Clone(),
		strategy: strategy,
		history:  history,
		logger:   logger.With().Str("component", "ranker").Logger(),
		selector: selector{cfg: cfg.Clone()},
		rng:      rand.New(rand.NewSource(seed)),
		now:      time.Now,
	}, nil
}

// ScoringAvailable reports whether a scoring strategy is active. When
// false, every pass runs in chronological order.
func (r *Ranker) ScoringAvailable() bool {
	return r.strategy != nil
}

// StrategyName returns the active strategy identifier, or empty when the
// pipeline runs in chronological fallback.
func (r *Ranker) StrategyName() string {
	if r.strategy == nil {
		return ""
	}
	return r.strategy.Name()
}

// Rank scores the batch against the seen snapshot and returns the final
// display list, bounded by the resolved limit. A nil limit selects the
// default of min(DefaultLimit, len(candidates)); a supplied limit is
// clamped to [1, MaxLimit] and capped at the candidate count. The output
// never exceeds the resolved limit, never repeats an id the input did not
// repeat, and never carries internal scores.
//
// Rank never fails: scoring panics and unusable input degrade to
// chronological order for the whole batch.
func (r *Ranker) Rank(candidates []*Candidate, seenMap SeenMap, limit *int) []*Candidate {
	if len(candidates) == 0 {
		return []*Candidate{}
	}
	resolved := r.resolveLimit(limit, len(candidates))

	if r.strategy == nil {
		return chronological(candidates, resolved)
	}

	start := r.now()
	scored, batch, ok := r.scoreBatch(candidates, seenMap)
	if !ok {
		return chronological(candidates, resolved)
	}

	rng := rand.New(rand.NewSource(r.passSeed()))
	ordered := r.selector.apply(scored, &batch, resolved, rng)

	out := make([]*Candidate, 0, resolved)
	for i := 0; i < resolved && i < len(ordered); i++ {
		out = append(out, ordered[i].candidate)
	}

	r.logger.Debug().
		Str("strategy", r.strategy.Name()).
		Int("candidates", len(candidates)).
		Int("selected", len(out)).
		Dur("elapsed", r.now().Sub(start)).
		Msg("ranking pass complete")

	return out
}

// RankChronological orders the batch purely by recency, ignoring seen
// state and scoring. Used when the caller's preference disables relevance
// ranking.
func (r *Ranker) RankChronological(candidates []*Candidate, limit *int) []*Candidate {
	if len(candidates) == 0 {
		return []*Candidate{}
	}
	return chronological(candidates, r.resolveLimit(limit, len(candidates)))
}

// RankForUser runs a full pass for one user: read the seen window, rank,
// and mark the top of the selection as shown. Seen-store failures degrade
// to an empty snapshot or a skipped write with a warning; they never fail
// the pass.
func (r *Ranker) RankForUser(ctx context.Context, userID string, candidates []*Candidate, limit *int) []*Candidate {
	var seenMap SeenMap
	if r.history != nil {
		m, err := r.history.Recent(ctx, userID)
		if err != nil {
			r.logger.Warn().Str("user_id", userID).Err(err).
				Msg("seen history read failed, ranking with empty snapshot")
		} else {
			seenMap = m
		}
	}

	out := r.Rank(candidates, seenMap, limit)

	if r.history != nil && len(out) > 0 && r.cfg.MarkSeenTop > 0 {
		ids := make([]string, 0, min(len(out), r.cfg.MarkSeenTop))
		for i := 0; i < len(out) && i < r.cfg.MarkSeenTop; i++ {
			ids = append(ids, out[i].ID)
		}
		if err := r.history.MarkShown(ctx, userID, ids); err != nil {
			r.logger.Warn().Str("user_id", userID).Err(err).
				Msg("seen history write failed, continuing")
		}
	}

	return out
}

// resolveLimit applies the display limit rules: nil defaults to
// min(DefaultLimit, n), anything else clamps to [1, MaxLimit] and caps
// at n.
func (r *Ranker) resolveLimit(limit *int, n int) int {
	if limit == nil {
		return min(r.cfg.DefaultLimit, n)
	}
	l := *limit
	if l < 1 {
		l = 1
	}
	if l > r.cfg.MaxLimit {
		l = r.cfg.MaxLimit
	}
	return min(l, n)
}

// passSeed derives an independent seed for one pass so concurrent passes
// never share rng state.
func (r *Ranker) passSeed() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Int63()
}

// scoreBatch enriches and scores every candidate, sorts descending, then
// re-scores the leading items with their provisional position and sorts
// that window again. Each candidate keeps one random factor across both
// passes. A panic from the strategy abandons the batch; the caller falls
// back to chronological order.
func (r *Ranker) scoreBatch(candidates []*Candidate, seenMap SeenMap) (scored []scoredCandidate, batch batchEnrichment, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().
				Str("strategy", r.strategy.Name()).
				Interface("panic", rec).
				Msg("scoring strategy panicked, falling back to chronological order")
			ok = false
		}
	}()

	now := r.now()
	batch = r.enricher.enrich(candidates, seenMap, now)

	randoms := make([]float64, len(candidates))
	rng := rand.New(rand.NewSource(r.passSeed()))
	for i := range randoms {
		randoms[i] = rng.Float64()
	}

	scored = make([]scoredCandidate, len(candidates))
	for i, c := range candidates {
		f := buildFeatures(c, &batch.perCandidate[i], batch.allSeen, randoms[i], 0)
		scored[i] = scoredCandidate{
			candidate: c,
			score:     r.strategy.Score(f),
			enrich:    i,
		}
	}

	sortByScore(scored)

	top := min(rerankTop, len(scored))
	for i := 0; i < top; i++ {
		sc := &scored[i]
		f := buildFeatures(sc.candidate, &batch.perCandidate[sc.enrich], batch.allSeen, randoms[sc.enrich], i)
		sc.score = r.strategy.Score(f)
	}
	sortByScore(scored[:top])

	return scored, batch, true
}

// buildFeatures assembles the strategy input for one candidate.
func buildFeatures(c *Candidate, e *enrichment, allSeen bool, randomFactor float64, position int) scoring.Features {
	return scoring.Features{
		CreatedAt:         e.createdAt.Unix(),
		LikeCount:         c.LikeCount,
		RetweetCount:      c.RetweetCount,
		ReplyCount:        c.ReplyCount,
		QuoteCount:        c.QuoteCount,
		HasMedia:          e.hasMedia,
		HoursSinceSeen:    e.hoursSinceSeen,
		AuthorRepeats:     e.authorRepeats,
		ContentRepeats:    e.contentRepeats,
		NoveltyFactor:     e.noveltyFactor,
		RandomFactor:      randomFactor,
		AllSeen:           allSeen,
		PositionInFeed:    position,
		Verified:          c.IsVerified(),
		Gold:              c.IsGold(),
		FollowerCount:     c.Followers(),
		HasCommunityNote:  c.HasCommunityNote,
		SuperTweeterBoost: e.superTweeterBoost,
	}
}

// sortByScore sorts descending by score, stable so ties keep their
// original relative order.
func sortByScore(scored []scoredCandidate) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
}

// chronological returns up to limit candidates ordered by creation time
// descending, ties broken by lexicographically greater id first. The
// ordering is fully deterministic so fallback pagination stays stable.
func chronological(candidates []*Candidate, limit int) []*Candidate {
	out := make([]*Candidate, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].CreatedAt.Time, out[j].CreatedAt.Time
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].ID > out[j].ID
	})
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}
