// Copyright 2026 The Stringer Authors
// SPDX-License-Identifier: MIT

package dup

import "regexp"

// skipPatterns are the default filename patterns excluded from analysis,
// Matching is case-sensitive.
var skipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.json$`),
	regexp.MustCompile(`\.md$`),
	regexp.MustCompile(`\.txt$`),
	regexp.MustCompile(`\.yaml$`),
	regexp.MustCompile(`\.yml$`),
	regexp.MustCompile(`\.lock$`),
	regexp.MustCompile(`package-lock\.json$`),
	regexp.MustCompile(`yarn\.lock$`),
	regexp.MustCompile(`\.min\.js$`),
	regexp.MustCompile(`\.test\.`),
	regexp.MustCompile(`\.spec\.`),
	regexp.MustCompile(`/__tests__/`),
	regexp.MustCompile(`/node_modules/`),
	regexp.MustCompile(`/dist/`),
	regexp.MustCompile(`/build/`),
}

// shouldSkip reports whether filename matches any default skip pattern or
// any extra pattern supplied via Config.ExtraSkipPatterns.
func shouldSkip(filename string, extra []*regexp.Regexp) bool {
	for _, re := range skipPatterns {
		if re.MatchString(filename) {
			return true
		}
	}
	for _, re := range extra {
		if re.MatchString(filename) {
			return true
		}
	}
	return false
}
