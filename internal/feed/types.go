// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package feed

import (
	"math"
	"time"
)

// Author carries the nested author object some upstream queries attach to
// a candidate. All fields are optional; flat Candidate fields take
// precedence during key resolution.
type Author struct {
	// ID is the author's user identifier.
	ID string `json:"id,omitempty"`

	// Username is the author's handle.
	Username string `json:"username,omitempty"`

	// Verified indicates a verified account.
	Verified bool `json:"verified,omitempty"`

	// Gold indicates a gold-tier account.
	Gold bool `json:"gold,omitempty"`

	// FollowerCount is the author's follower count.
	FollowerCount int `json:"follower_count,omitempty"`

	// SuperTweeter marks an account designated for an editorial boost.
	SuperTweeter bool `json:"super_tweeter,omitempty"`

	// SuperTweeterBoost overrides the default boost value for the account.
	SuperTweeterBoost float64 `json:"super_tweeter_boost,omitempty"`
}

// Attachment is a media attachment on a candidate or its quoted post.
// Only presence matters for ranking; the pipeline never inspects content.
type Attachment struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type,omitempty"`
	URL  string `json:"url,omitempty"`
}

// QuotedPost is the quoted post embedded in a candidate. Ranking only
// cares whether it carries attachments.
type QuotedPost struct {
	ID          string       `json:"id,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Candidate is an immutable view of a post at ranking time. Candidates are
// supplied fresh per request; the pipeline never persists or mutates them.
//
// Author identity may arrive as flat fields, a nested Author object, or
// both, depending on which upstream query produced the batch. Use
// resolveAuthorKey rather than reading the fields directly.
type Candidate struct {
	// ID is the opaque unique post identifier.
	ID string `json:"id"`

	// UserID is the flat author user id.
	UserID string `json:"user_id,omitempty"`

	// AuthorID is an alternative flat author id.
	AuthorID string `json:"author_id,omitempty"`

	// Username is the flat author handle.
	Username string `json:"username,omitempty"`

	// Author is the nested author object, when present.
	Author *Author `json:"author,omitempty"`

	// CreatedAt is the post creation instant. Unqualified timestamps are
	// treated as UTC; unparseable values decode to the zero value and the
	// enricher substitutes the current time.
	CreatedAt Timestamp `json:"created_at"`

	// Content is the post text, used only for normalization and dedup.
	Content string `json:"content,omitempty"`

	LikeCount    int `json:"like_count,omitempty"`
	RetweetCount int `json:"retweet_count,omitempty"`
	ReplyCount   int `json:"reply_count,omitempty"`
	QuoteCount   int `json:"quote_count,omitempty"`

	// Attachments are the post's own media attachments.
	Attachments []Attachment `json:"attachments,omitempty"`

	// QuotedPost is the quoted post, when present. Its attachments count
	// toward the media flag.
	QuotedPost *QuotedPost `json:"quoted_tweet,omitempty"`

	// Verified and Gold are flat account-tier flags.
	Verified bool `json:"verified,omitempty"`
	Gold     bool `json:"gold,omitempty"`

	// FollowerCount is the flat author follower count.
	FollowerCount int `json:"follower_count,omitempty"`

	// HasCommunityNote indicates an attached community note.
	HasCommunityNote bool `json:"has_community_note,omitempty"`

	// SuperTweeter marks the post itself as boosted.
	SuperTweeter bool `json:"super_tweeter,omitempty"`

	// SuperTweeterBoost overrides the default post-level boost value.
	SuperTweeterBoost float64 `json:"super_tweeter_boost,omitempty"`
}

// HasMedia reports whether the candidate carries media, either its own
// attachments or attachments on the quoted post.
func (c *Candidate) HasMedia() bool {
	if len(c.Attachments) > 0 {
		return true
	}
	return c.QuotedPost != nil && len(c.QuotedPost.Attachments) > 0
}

// IsVerified reports the verified flag from the flat field or the nested
// author object.
func (c *Candidate) IsVerified() bool {
	if c.Verified {
		return true
	}
	return c.Author != nil && c.Author.Verified
}

// IsGold reports the gold-tier flag from the flat field or the nested
// author object.
func (c *Candidate) IsGold() bool {
	if c.Gold {
		return true
	}
	return c.Author != nil && c.Author.Gold
}

// Followers returns the follower count from the flat field or the nested
// author object, whichever is set.
func (c *Candidate) Followers() int {
	if c.FollowerCount > 0 {
		return c.FollowerCount
	}
	if c.Author != nil {
		return c.Author.FollowerCount
	}
	return 0
}

// resolveAuthorKey returns the author grouping key for a candidate.
// Precedence: user_id, author_id, author.id, username, author.username.
// The first non-empty field wins; an empty string means the candidate has
// no resolvable author and is exempt from author diversity constraints.
func resolveAuthorKey(c *Candidate) string {
	if c.UserID != "" {
		return c.UserID
	}
	if c.AuthorID != "" {
		return c.AuthorID
	}
	if c.Author != nil && c.Author.ID != "" {
		return c.Author.ID
	}
	if c.Username != "" {
		return c.Username
	}
	if c.Author != nil {
		return c.Author.Username
	}
	return ""
}

// defaultSuperTweeterBoost applies when a boost flag is set without an
// explicit override value.
const defaultSuperTweeterBoost = 50.0

// resolveBoost returns the effective boost for one flag/override pair.
// Without the flag the boost is zero; with the flag, a positive finite
// override wins, otherwise the default applies.
func resolveBoost(flagged bool, override float64) float64 {
	if !flagged {
		return 0
	}
	if override > 0 && !math.IsInf(override, 0) && !math.IsNaN(override) {
		return override
	}
	return defaultSuperTweeterBoost
}

// superTweeterBoost resolves the candidate's effective boost as the max of
// the author-level and post-level boosts.
func superTweeterBoost(c *Candidate) float64 {
	post := resolveBoost(c.SuperTweeter, c.SuperTweeterBoost)
	var author float64
	if c.Author != nil {
		author = resolveBoost(c.Author.SuperTweeter, c.Author.SuperTweeterBoost)
	}
	return math.Max(author, post)
}

// scoredCandidate pairs a candidate with its transient pipeline score.
// Scores never leave this package; output lists carry bare Candidates.
type scoredCandidate struct {
	candidate *Candidate
	score     float64

	// enrichment index into the pass's enrichment slice, kept so the
	// selector can reuse seen-recency without recomputing.
	enrich int
}

// SeenMap maps candidate ids to the instant they were last shown to the
// user. A zero time means the record exists but its timestamp could not be
// parsed; the id still counts toward the all-seen flag but scores as
// never seen. Absent ids are maximally novel.
type SeenMap map[string]time.Time
