// Copyright 2026 The Stringer Authors
// SPDX-License-Identifier: MIT

// Package config handles .dupcheck.yaml configuration files.
package config

// Config represents the contents of a .dupcheck.yaml file. Every field is
// optional; a zero value means "use the analyzer default" and is filled in
// by dup.Config.withDefaults at analysis time.
type Config struct {
	OutputFormat string `yaml:"output_format,omitempty"`
	NoNarrate    bool   `yaml:"no_narrate,omitempty"`
	MaxPRFiles   int    `yaml:"max_pr_files,omitempty"`

	MinBlockSize                int      `yaml:"min_block_size,omitempty"`
	SimilarityThreshold         float64  `yaml:"similarity_threshold,omitempty"`
	ClusterSimilarityThreshold  float64  `yaml:"cluster_similarity_threshold,omitempty"`
	SeverityMediumThreshold     float64  `yaml:"severity_medium_threshold,omitempty"`
	SeverityHighThreshold       float64  `yaml:"severity_high_threshold,omitempty"`
	ExtraSkipPatterns           []string `yaml:"extra_skip_patterns,omitempty"`
}

// FileName is the expected config file name in a repository root.
const FileName = ".dupcheck.yaml"
