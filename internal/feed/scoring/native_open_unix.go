// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

//go:build linux || darwin

package scoring

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// openNative loads the shared library at path and binds calculate_score.
func openNative(path string) (*Native, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("dlopen %s: %w", path, err)
	}

	if _, err := purego.Dlsym(lib, "calculate_score"); err != nil {
		return nil, fmt.Errorf("resolve calculate_score in %s: %w", path, err)
	}

	var fn calculateScoreFunc
	purego.RegisterLibFunc(&fn, lib, "calculate_score")

	return &Native{fn: fn, path: path}, nil
}
