// Copyright 2026 The Stringer Authors
// SPDX-License-Identifier: MIT

package config

import (
	"log/slog"
	"regexp"

	"github.com/davetashner/dupcheck/internal/dup"
)

// Merge combines a .dupcheck.yaml file config with the analyzer defaults,
// producing the dup.Config that AnalyzeWithConfig should run with. A field
// already set in base wins over the file's value; file values only fill in
// fields that base leaves zero.
func Merge(fileCfg *Config, base dup.Config) dup.Config {
	result := base

	if result.MinBlockSize == 0 && fileCfg.MinBlockSize > 0 {
		result.MinBlockSize = fileCfg.MinBlockSize
	}
	if result.SimilarityThreshold == 0 && fileCfg.SimilarityThreshold > 0 {
		result.SimilarityThreshold = fileCfg.SimilarityThreshold
	}
	if result.ClusterSimilarityThreshold == 0 && fileCfg.ClusterSimilarityThreshold > 0 {
		result.ClusterSimilarityThreshold = fileCfg.ClusterSimilarityThreshold
	}
	if result.SeverityMediumThreshold == 0 && fileCfg.SeverityMediumThreshold > 0 {
		result.SeverityMediumThreshold = fileCfg.SeverityMediumThreshold
	}
	if result.SeverityHighThreshold == 0 && fileCfg.SeverityHighThreshold > 0 {
		result.SeverityHighThreshold = fileCfg.SeverityHighThreshold
	}
	if len(result.ExtraSkipPatterns) == 0 && len(fileCfg.ExtraSkipPatterns) > 0 {
		result.ExtraSkipPatterns = compilePatterns(fileCfg.ExtraSkipPatterns)
	}

	return result
}

// compilePatterns compiles each pattern independently, logging and skipping
// any that fail rather than rejecting the whole config file.
func compilePatterns(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			slog.Warn("skipping invalid extra_skip_patterns entry", "pattern", p, "error", err)
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}
