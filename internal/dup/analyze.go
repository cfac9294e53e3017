// Copyright 2026 The Stringer Authors
// SPDX-License-Identifier: MIT

package dup

import (
	"log/slog"
	"math"
	"regexp"
	"strconv"
)

// Config holds construction-time overrides for the analyzer's thresholds.
// All fields default to the package's built-in values when zero-valued, so
// the zero Config behaves identically to DefaultConfig.
type Config struct {
	// MinBlockSize overrides MinBlockSize. Zero uses the default.
	MinBlockSize int

	// SimilarityThreshold overrides SimilarityThreshold. Zero uses the default.
	SimilarityThreshold float64

	// ClusterSimilarityThreshold overrides ClusterSimilarityThreshold. Zero
	// uses the default.
	ClusterSimilarityThreshold float64

	// SeverityMediumThreshold is the percentage at or above which severity
	// is at least "medium". Zero uses the default (15).
	SeverityMediumThreshold float64

	// SeverityHighThreshold is the percentage at or above which severity is
	// "high". Zero uses the default (30).
	SeverityHighThreshold float64

	// ExtraSkipPatterns are additional filename patterns excluded from
	// analysis, beyond the built-in default set.
	ExtraSkipPatterns []*regexp.Regexp
}

// DefaultConfig returns the Config matching the package's built-in defaults.
func DefaultConfig() Config {
	return Config{
		MinBlockSize:               MinBlockSize,
		SimilarityThreshold:        SimilarityThreshold,
		ClusterSimilarityThreshold: ClusterSimilarityThreshold,
		SeverityMediumThreshold:    15,
		SeverityHighThreshold:      30,
	}
}

// withDefaults fills zero-valued fields with the package defaults.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MinBlockSize <= 0 {
		c.MinBlockSize = d.MinBlockSize
	}
	if c.SimilarityThreshold <= 0 {
		c.SimilarityThreshold = d.SimilarityThreshold
	}
	if c.ClusterSimilarityThreshold <= 0 {
		c.ClusterSimilarityThreshold = d.ClusterSimilarityThreshold
	}
	if c.SeverityMediumThreshold <= 0 {
		c.SeverityMediumThreshold = d.SeverityMediumThreshold
	}
	if c.SeverityHighThreshold <= 0 {
		c.SeverityHighThreshold = d.SeverityHighThreshold
	}
	return c
}

// Analyze runs the full duplication-detection pipeline over files using the
// package's default thresholds. It never returns an error: any internal
// failure is logged and converted into the empty report.
func Analyze(files []FileDescriptor) DuplicationReport {
	return AnalyzeWithConfig(files, DefaultConfig())
}

// AnalyzeWithConfig runs the pipeline with caller-supplied threshold
// overrides. Like Analyze, it is total: failures are recovered and logged,
// never propagated.
func AnalyzeWithConfig(files []FileDescriptor, cfg Config) (report DuplicationReport) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("duplication analysis failed, returning empty report", "panic", r)
			report = EmptyReport()
		}
	}()

	if len(files) == 0 {
		return EmptyReport()
	}

	cfg = cfg.withDefaults()

	totalLines := 0
	var blocks []Block

	for _, f := range files {
		if shouldSkip(f.Filename, cfg.ExtraSkipPatterns) {
			continue
		}
		totalLines += f.Additions

		if f.Patch == "" {
			continue
		}

		lines := parsePatch(f.Patch)
		if len(lines) < cfg.MinBlockSize {
			continue
		}

		blocks = append(blocks, extractBlocks(f.Filename, lines, cfg.MinBlockSize)...)
	}

	pairs := detectDuplicates(blocks, cfg.SimilarityThreshold)
	merged := mergeOverlaps(pairs)
	findings := clusterPairs(merged, cfg.ClusterSimilarityThreshold)

	duplicatedLines := countDuplicatedLines(findings)

	percentage := 0.0
	if totalLines > 0 {
		percentage = round1(100 * float64(duplicatedLines) / float64(totalLines))
	}

	return DuplicationReport{
		Percentage:      percentage,
		Severity:        severityFor(percentage, cfg),
		DuplicateBlocks: findings,
		TotalLines:      totalLines,
		DuplicatedLines: duplicatedLines,
	}
}

// countDuplicatedLines counts the distinct (file, line) locations touched
// by every finding's two representative sides. Locations enumerated only
// in a clustered finding's AllFiles do not contribute, matching the
// reference behavior preserved intentionally.
func countDuplicatedLines(findings []ClusteredFinding) int {
	seen := make(map[string]bool)
	for _, f := range findings {
		addRangeLines(seen, f.File1, f.Lines1)
		addRangeLines(seen, f.File2, f.Lines2)
	}
	return len(seen)
}

func addRangeLines(seen map[string]bool, file string, r LineRange) {
	for n := r.Start; n <= r.End; n++ {
		seen[lineKey(file, n)] = true
	}
}

func lineKey(file string, n int) string {
	// A separator byte that cannot appear in a filename keeps this
	// collision-free.
	return file + "\x00" + strconv.Itoa(n)
}

// severityFor maps a percentage to a severity tier per the configured
// thresholds.
func severityFor(percentage float64, cfg Config) string {
	switch {
	case percentage >= cfg.SeverityHighThreshold:
		return SeverityHigh
	case percentage >= cfg.SeverityMediumThreshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// round1 rounds v to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
