// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package feed

import (
	"regexp"
	"strings"
	"time"
)

// Novelty multipliers. Brand-new-to-user content is favored over
// stale-but-not-ancient reshows; the asymmetry is deliberate.
const (
	noveltyNeverSeen = 1.2
	noveltyStaleSeen = 1.05
	noveltyRecent    = 1.0

	// staleSeenHours is the age past which a seen record stops counting
	// as a recent impression.
	staleSeenHours = 72
)

var urlPattern = regexp.MustCompile(`https?://\S+`)
var whitespacePattern = regexp.MustCompile(`\s+`)

// normalizeContent lower-cases text, strips URLs, and collapses
// whitespace, producing the key used for near-duplicate detection.
func normalizeContent(content string) string {
	s := strings.ToLower(content)
	s = urlPattern.ReplaceAllString(s, "")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// enrichment holds the per-candidate signals derived before scoring.
type enrichment struct {
	authorKey  string
	contentKey string

	// createdAt is the parsed creation time, with the current time
	// substituted for unparseable input.
	createdAt time.Time

	// hoursSinceSeen is -1 when the user never saw the candidate.
	hoursSinceSeen float64

	noveltyFactor float64

	// authorRepeats / contentRepeats are the extra occurrences in the
	// batch beyond the candidate's own.
	authorRepeats  int
	contentRepeats int

	hasMedia          bool
	superTweeterBoost float64
}

// batchEnrichment is the output of one enrichment pass.
type batchEnrichment struct {
	perCandidate []enrichment

	// allSeen is true only when every candidate has a seen record,
	// signalling the user has exhausted fresh content.
	allSeen bool
}

// enricher derives per-batch repetition signals and per-item
// recency-since-seen. It is stateless; a zero value is usable.
type enricher struct{}

// enrich computes batch statistics and per-candidate signals at the given
// instant. The seen map is a snapshot; ids absent from it are treated as
// never seen.
func (enricher) enrich(candidates []*Candidate, seen SeenMap, now time.Time) batchEnrichment {
	authorCounts := make(map[string]int, len(candidates))
	contentCounts := make(map[string]int, len(candidates))

	out := batchEnrichment{
		perCandidate: make([]enrichment, len(candidates)),
		allSeen:      len(candidates) > 0,
	}

	for i, c := range candidates {
		e := &out.perCandidate[i]
		e.authorKey = resolveAuthorKey(c)
		e.contentKey = normalizeContent(c.Content)

		if e.authorKey != "" {
			authorCounts[e.authorKey]++
		}
		if e.contentKey != "" {
			contentCounts[e.contentKey]++
		}

		if _, ok := seen[c.ID]; !ok {
			out.allSeen = false
		}
	}

	for i, c := range candidates {
		e := &out.perCandidate[i]

		e.createdAt = c.CreatedAt.Time
		if e.createdAt.IsZero() {
			e.createdAt = now
		}

		if e.authorKey != "" {
			e.authorRepeats = max(authorCounts[e.authorKey]-1, 0)
		}
		if e.contentKey != "" {
			e.contentRepeats = max(contentCounts[e.contentKey]-1, 0)
		}

		e.hoursSinceSeen = hoursSinceSeen(seen, c.ID, now)
		e.noveltyFactor = noveltyFactor(e.hoursSinceSeen)
		e.hasMedia = c.HasMedia()
		e.superTweeterBoost = superTweeterBoost(c)
	}

	return out
}

// hoursSinceSeen returns the hours since the user last saw the id, or -1
// when the id was never seen or its record timestamp is unusable. Negative
// elapsed time (clock skew on the seen record) clamps to zero.
func hoursSinceSeen(seen SeenMap, id string, now time.Time) float64 {
	seenAt, ok := seen[id]
	if !ok || seenAt.IsZero() {
		return -1
	}
	hours := now.Sub(seenAt).Hours()
	if hours < 0 {
		return 0
	}
	return hours
}

// noveltyFactor maps seen recency to the novelty multiplier.
func noveltyFactor(hoursSinceSeen float64) float64 {
	switch {
	case hoursSinceSeen < 0:
		return noveltyNeverSeen
	case hoursSinceSeen > staleSeenHours:
		return noveltyStaleSeen
	default:
		return noveltyRecent
	}
}
