// Copyright 2026 The Stringer Authors
// SPDX-License-Identifier: MIT

package dup

import (
	"fmt"
	"sort"
	"strings"
)

// SimilarityThreshold is the minimum Jaccard similarity for a fuzzy match
// fuzzy similarity pass.
const SimilarityThreshold = 0.85

// blockKey returns a block's half of a dedup key.
func blockKey(b Block) string {
	return fmt.Sprintf("%s:%d-%d", b.File, b.StartLine, b.EndLine)
}

// dedupKey returns the canonical, order-independent key for an unordered
// pair of blocks.
func dedupKey(a, b Block) string {
	ka, kb := blockKey(a), blockKey(b)
	if ka > kb {
		ka, kb = kb, ka
	}
	return ka + "|" + kb
}

// detectDuplicates runs the two detection passes over blocks and returns
// pairwise DuplicatePair records, deduplicated by dedupKey.
func detectDuplicates(blocks []Block, similarityThreshold float64) []DuplicatePair {
	seen := make(map[string]bool)
	var out []DuplicatePair

	out = append(out, detectExactMatches(blocks, seen)...)
	out = append(out, detectFuzzyMatches(blocks, seen, similarityThreshold)...)

	return out
}

// detectExactMatches implements pass 1: group by fingerprint, emit a pair
// for every ordered (i<j) index pair within a bucket of size >= 2.
func detectExactMatches(blocks []Block, seen map[string]bool) []DuplicatePair {
	buckets := make(map[string][]int)
	for i, b := range blocks {
		buckets[b.Fingerprint] = append(buckets[b.Fingerprint], i)
	}

	// Deterministic iteration: sort bucket keys.
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []DuplicatePair
	for _, k := range keys {
		idxs := buckets[k]
		if len(idxs) < 2 {
			continue
		}
		for ii := 0; ii < len(idxs); ii++ {
			for jj := ii + 1; jj < len(idxs); jj++ {
				bi, bj := blocks[idxs[ii]], blocks[idxs[jj]]
				if bi.File == bj.File {
					continue
				}
				key := dedupKey(bi, bj)
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, newPair(bi, bj, 1.0))
			}
		}
	}
	return out
}

// detectFuzzyMatches implements pass 2: all-pairs Jaccard similarity over
// normalized tokens, emitting matches in [similarityThreshold, 1.0).
func detectFuzzyMatches(blocks []Block, seen map[string]bool, similarityThreshold float64) []DuplicatePair {
	var out []DuplicatePair
	for i := 0; i < len(blocks); i++ {
		for j := i + 1; j < len(blocks); j++ {
			bi, bj := blocks[i], blocks[j]
			if bi.File == bj.File {
				continue
			}

			sim := jaccardTokens(bi.NormalizedCode, bj.NormalizedCode)
			if sim < similarityThreshold || sim >= 1.0 {
				continue
			}

			key := dedupKey(bi, bj)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, newPair(bi, bj, sim))
		}
	}
	return out
}

// newPair builds a DuplicatePair from two blocks, preserving block order as
// file1/file2 (the reference's "implementation-chosen, typically the
// first" side for Code).
func newPair(a, b Block, similarity float64) DuplicatePair {
	return DuplicatePair{
		File1:      a.File,
		File2:      b.File,
		Lines1:     LineRange{Start: a.StartLine, End: a.EndLine},
		Lines2:     LineRange{Start: b.StartLine, End: b.EndLine},
		Code:       a.RawCode,
		Similarity: similarity,
	}
}

// jaccardTokens computes the Jaccard similarity between the whitespace-
// delimited token sets of two strings. Tokens come from strings.Fields, so
// an empty token is never part of either set. Returns 0 when the union is
// empty.
func jaccardTokens(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// tokenSet splits s on runs of whitespace and returns the set of tokens.
func tokenSet(s string) map[string]bool {
	fields := strings.Fields(s)
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
