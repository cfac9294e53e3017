// Copyright 2026 The Stringer Authors
// SPDX-License-Identifier: MIT

package dup

import "sort"

// mergeSlack is the line-distance slack within which two overlapping
// windows on both sides of a pair are coalesced.
const mergeSlack = 2

// filePairKey canonicalizes an unordered file pair for partitioning.
func filePairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// mergeOverlaps partitions pairwise findings by unordered file pair and
// coalesces overlapping or abutting line ranges within each partition
// coalesced.
func mergeOverlaps(pairs []DuplicatePair) []DuplicatePair {
	partitions := make(map[string][]DuplicatePair)
	var order []string

	for _, p := range pairs {
		k := filePairKey(p.File1, p.File2)
		if _, ok := partitions[k]; !ok {
			order = append(order, k)
		}
		partitions[k] = append(partitions[k], p)
	}

	var out []DuplicatePair
	for _, k := range order {
		out = append(out, mergePartition(partitions[k])...)
	}
	return out
}

// mergePartition merges overlapping/abutting pairs within a single file
// pair's partition.
func mergePartition(pairs []DuplicatePair) []DuplicatePair {
	if len(pairs) == 0 {
		return nil
	}

	sorted := make([]DuplicatePair, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Lines1.Start < sorted[j].Lines1.Start
	})

	var out []DuplicatePair
	current := sorted[0]

	for _, next := range sorted[1:] {
		if next.Lines1.Start <= current.Lines1.End+mergeSlack &&
			next.Lines2.Start <= current.Lines2.End+mergeSlack {
			current = mergePair(current, next)
			continue
		}
		out = append(out, current)
		current = next
	}
	out = append(out, current)

	return out
}

// mergePair coalesces two overlapping/abutting pairs into one.
func mergePair(current, next DuplicatePair) DuplicatePair {
	merged := current

	merged.Lines1 = LineRange{
		Start: minInt(current.Lines1.Start, next.Lines1.Start),
		End:   maxInt(current.Lines1.End, next.Lines1.End),
	}
	merged.Lines2 = LineRange{
		Start: minInt(current.Lines2.Start, next.Lines2.Start),
		End:   maxInt(current.Lines2.End, next.Lines2.End),
	}
	merged.Similarity = maxFloat(current.Similarity, next.Similarity)

	return merged
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
