// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/driftlab/feedrank/internal/feed"
)

// validate is the shared validator instance; validator.Validate caches
// struct metadata and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// RankRequest is the body of POST /api/v1/rank.
//
// Candidates is the batch to rank. When UserID is set, the service reads
// the user's seen window from its own store and records the top of the
// selection back; the inline Seen map is then ignored. Without a UserID
// the caller owns seen state and supplies it inline.
type RankRequest struct {
	// UserID selects server-side seen tracking.
	UserID string `json:"user_id" validate:"omitempty,max=256"`

	// Candidates is the batch to rank.
	Candidates []*feed.Candidate `json:"candidates" validate:"required,min=1,dive,required"`

	// Seen maps candidate id to the last-shown timestamp. Values are
	// decoded leniently; unparseable timestamps count as present but
	// unusable.
	Seen map[string]feed.Timestamp `json:"seen" validate:"omitempty"`

	// DisplayLimit bounds the output. Absent selects the default.
	DisplayLimit *int `json:"display_limit" validate:"omitempty"`

	// UseAlgorithm disables relevance ranking when false; absent means
	// true. Mirrors the per-user feed preference.
	UseAlgorithm *bool `json:"use_algorithm" validate:"omitempty"`
}

// validateRequest runs validator tags and flattens the error into one
// client-facing message.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
