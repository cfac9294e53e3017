// Copyright 2026 The Stringer Authors
// SPDX-License-Identifier: MIT

package dup

import (
	"crypto/md5" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/hex"
	"regexp"
	"strings"
)

// blockCommentRe matches a /* ... */ span, including across lines.
var blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)

// whitespaceRunRe matches any run of whitespace.
var whitespaceRunRe = regexp.MustCompile(`\s+`)

// normalize reduces raw source text to a form where superficial
// differences — comments, string contents, incidental whitespace, case —
// no longer affect equality.
func normalize(raw string) string {
	s := stripLineComments(raw)
	s = blockCommentRe.ReplaceAllString(s, "")
	s = elideStringLiterals(s)
	s = whitespaceRunRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return s
}

// stripLineComments deletes a trailing "//" comment from each line. It does
// not attempt to distinguish a "//" inside a string literal from a real
// comment marker; this matches the reference's line-based, AST-free pass.
func stripLineComments(raw string) string {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, "//"); idx >= 0 {
			lines[i] = line[:idx]
		}
	}
	return strings.Join(lines, "\n")
}

// elideStringLiterals replaces every maximal double-, single-, or
// backtick-quoted literal with the empty-literal form of the same quote
// character, honoring backslash escapes within double/single quotes.
func elideStringLiterals(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '"' || r == '\'' || r == '`' {
			quote := r
			b.WriteRune(quote)
			b.WriteRune(quote)
			i++
			for i < len(runes) {
				if runes[i] == '\\' && quote != '`' && i+1 < len(runes) {
					i += 2
					continue
				}
				if runes[i] == quote {
					break
				}
				i++
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// fingerprint returns the hex-encoded MD5 digest of s, used as a
// fixed-width hash-bucket key for exact matches.
func fingerprint(s string) string {
	sum := md5.Sum([]byte(s)) //nolint:gosec // content fingerprint, not a security boundary
	return hex.EncodeToString(sum[:])
}
