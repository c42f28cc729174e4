// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

//go:build !linux && !darwin

package scoring

import "fmt"

// openNative is unavailable on platforms without dlopen support; the
// loader falls through to the builtin strategy.
func openNative(path string) (*Native, error) {
	return nil, fmt.Errorf("native scoring artifact %s: dynamic loading not supported on this platform", path)
}
