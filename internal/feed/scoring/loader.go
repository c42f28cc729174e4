// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package scoring

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
)

// Config controls strategy resolution at startup.
type Config struct {
	// LibraryPath points at the native scoring artifact (a shared library
	// exporting calculate_score), or at a directory containing one named
	// with the platform suffix. Empty disables native loading.
	LibraryPath string `koanf:"library_path" json:"library_path"`

	// Builtin enables the pure-Go strategy when no native artifact is
	// loaded. Disabling both leaves the system in chronological fallback.
	Builtin bool `koanf:"builtin" json:"builtin"`
}

// DefaultConfig returns the default scoring configuration.
func DefaultConfig() Config {
	return Config{
		LibraryPath: "",
		Builtin:     true,
	}
}

// libraryName returns the platform-specific artifact file name.
func libraryName() string {
	if runtime.GOOS == "darwin" {
		return "algorithm.dylib"
	}
	return "algorithm.so"
}

// Load resolves the active scoring strategy once at process start.
//
// Resolution order: the native artifact when configured and present, else
// the builtin strategy when enabled, else nil. A nil strategy means the
// pipeline runs in chronological fallback mode. Load never fails; a
// missing or broken artifact logs one warning and resolution continues.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Load(cfg Config, logger zerolog.Logger) Strategy {
	logger = logger.With().Str("component", "scoring").Logger()

	if cfg.LibraryPath != "" {
		if native := loadNative(cfg.LibraryPath, logger); native != nil {
			return native
		}
	}

	if cfg.Builtin {
		logger.Info().Str("strategy", "builtin").Msg("scoring strategy loaded")
		return NewHeuristic()
	}

	logger.Warn().Msg("no scoring strategy available, ranking falls back to chronological order")
	return nil
}

// loadNative probes the configured path and attempts the dlopen. Any
// failure is a warning, never fatal.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func loadNative(path string, logger zerolog.Logger) Strategy {
	info, err := os.Stat(path)
	if err != nil {
		logger.Warn().Str("path", path).Err(err).
			Msg("native scoring artifact not found, continuing without it")
		return nil
	}
	if info.IsDir() {
		path = filepath.Join(path, libraryName())
		if _, err := os.Stat(path); err != nil {
			logger.Warn().Str("path", path).Err(err).
				Msg("native scoring artifact not found, continuing without it")
			return nil
		}
	}

	native, err := openNative(path)
	if err != nil {
		logger.Warn().Str("path", path).Err(err).
			Msg("failed to load native scoring artifact, continuing without it")
		return nil
	}

	logger.Info().Str("strategy", "native").Str("path", path).Msg("scoring strategy loaded")
	return native
}
