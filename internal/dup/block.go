// Copyright 2026 The Stringer Authors
// SPDX-License-Identifier: MIT

package dup

import (
	"regexp"
	"strings"
)

// MinBlockSize is the number of consecutive added lines that form one
// candidate duplication block.
const MinBlockSize = 10

// requireAssignRe matches "const <ident> = require(" lines.
var requireAssignRe = regexp.MustCompile(`^const\s+\S+\s*=\s*require\s*\(`)

// classAttrRe counts occurrences of "classname" or "class=" for the
// markup-density triviality check.
var classAttrRe = regexp.MustCompile(`classname|class=`)

// extractBlocks slides a window of minBlockSize over a file's added lines,
// discarding windows whose normalized form is trivial.
func extractBlocks(file string, lines []AddedLine, minBlockSize int) []Block {
	if len(lines) < minBlockSize {
		return nil
	}

	var blocks []Block
	for i := 0; i <= len(lines)-minBlockSize; i++ {
		window := lines[i : i+minBlockSize]

		contents := make([]string, len(window))
		for j, l := range window {
			contents[j] = l.Content
		}
		raw := strings.Join(contents, "\n")
		normalized := normalize(raw)

		if isTrivial(normalized) {
			continue
		}

		blocks = append(blocks, Block{
			File:           file,
			StartLine:      window[0].LineNumber,
			EndLine:        window[len(window)-1].LineNumber,
			RawCode:        raw,
			NormalizedCode: normalized,
			Fingerprint:    fingerprint(normalized),
		})
	}

	return blocks
}

// isTrivial reports whether a normalized block carries too little signal
// to be worth comparing.
func isTrivial(normalized string) bool {
	if len(normalized) < 30 {
		return true
	}

	if len(classAttrRe.FindAllString(normalized, -1)) > 2 && len(normalized) < 100 {
		return true
	}

	if strings.HasPrefix(normalized, "import ") ||
		strings.HasPrefix(normalized, "export ") ||
		requireAssignRe.MatchString(normalized) {
		return true
	}

	switch strings.TrimSpace(normalized) {
	case "{", "}", "(", ")":
		return true
	}

	return false
}
