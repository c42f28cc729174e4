// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package feed

import (
	"math"
	"testing"
)

func TestResolveAuthorKey(t *testing.T) {
	tests := []struct {
		name string
		c    Candidate
		want string
	}{
		{
			name: "user_id wins over everything",
			c: Candidate{
				UserID:   "u1",
				AuthorID: "a1",
				Username: "alice",
				Author:   &Author{ID: "n1", Username: "nested"},
			},
			want: "u1",
		},
		{
			name: "author_id when no user_id",
			c:    Candidate{AuthorID: "a1", Username: "alice"},
			want: "a1",
		},
		{
			name: "nested author id before flat username",
			c:    Candidate{Username: "alice", Author: &Author{ID: "n1"}},
			want: "n1",
		},
		{
			name: "flat username before nested username",
			c:    Candidate{Username: "alice", Author: &Author{Username: "nested"}},
			want: "alice",
		},
		{
			name: "nested username last",
			c:    Candidate{Author: &Author{Username: "nested"}},
			want: "nested",
		},
		{
			name: "no identity at all",
			c:    Candidate{ID: "t1"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveAuthorKey(&tt.c); got != tt.want {
				t.Errorf("resolveAuthorKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSuperTweeterBoost(t *testing.T) {
	tests := []struct {
		name string
		c    Candidate
		want float64
	}{
		{
			name: "no flags means zero",
			c:    Candidate{SuperTweeterBoost: 80},
			want: 0,
		},
		{
			name: "post flag without override defaults",
			c:    Candidate{SuperTweeter: true},
			want: defaultSuperTweeterBoost,
		},
		{
			name: "post flag with override",
			c:    Candidate{SuperTweeter: true, SuperTweeterBoost: 70},
			want: 70,
		},
		{
			name: "author flag without override defaults",
			c:    Candidate{Author: &Author{SuperTweeter: true}},
			want: defaultSuperTweeterBoost,
		},
		{
			name: "max of author and post boosts",
			c: Candidate{
				SuperTweeter:      true,
				SuperTweeterBoost: 30,
				Author:            &Author{SuperTweeter: true, SuperTweeterBoost: 90},
			},
			want: 90,
		},
		{
			name: "negative override falls back to default",
			c:    Candidate{SuperTweeter: true, SuperTweeterBoost: -5},
			want: defaultSuperTweeterBoost,
		},
		{
			name: "nan override falls back to default",
			c:    Candidate{SuperTweeter: true, SuperTweeterBoost: math.NaN()},
			want: defaultSuperTweeterBoost,
		},
		{
			name: "infinite override falls back to default",
			c:    Candidate{SuperTweeter: true, SuperTweeterBoost: math.Inf(1)},
			want: defaultSuperTweeterBoost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := superTweeterBoost(&tt.c); got != tt.want {
				t.Errorf("superTweeterBoost() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCandidateHasMedia(t *testing.T) {
	tests := []struct {
		name string
		c    Candidate
		want bool
	}{
		{"no attachments", Candidate{}, false},
		{"own attachment", Candidate{Attachments: []Attachment{{ID: "m1"}}}, true},
		{
			"quoted post attachment",
			Candidate{QuotedPost: &QuotedPost{Attachments: []Attachment{{ID: "m2"}}}},
			true,
		},
		{"quoted post without attachments", Candidate{QuotedPost: &QuotedPost{ID: "q1"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.HasMedia(); got != tt.want {
				t.Errorf("HasMedia() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCandidateTierAccessors(t *testing.T) {
	t.Run("flat fields win", func(t *testing.T) {
		c := Candidate{Verified: true, FollowerCount: 500, Author: &Author{FollowerCount: 100}}
		if !c.IsVerified() {
			t.Error("IsVerified() = false, want true")
		}
		if got := c.Followers(); got != 500 {
			t.Errorf("Followers() = %d, want 500", got)
		}
	})

	t.Run("nested author fills gaps", func(t *testing.T) {
		c := Candidate{Author: &Author{Gold: true, Verified: true, FollowerCount: 100}}
		if !c.IsGold() || !c.IsVerified() {
			t.Error("nested tier flags not picked up")
		}
		if got := c.Followers(); got != 100 {
			t.Errorf("Followers() = %d, want 100", got)
		}
	})
}
