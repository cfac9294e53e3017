// Copyright 2026 The Stringer Authors
// SPDX-License-Identifier: MIT

package dup

import "testing"

func TestMergeOverlapsCoalescesAbuttingRanges(t *testing.T) {
	pairs := []DuplicatePair{
		{File1: "a.go", File2: "b.go", Lines1: LineRange{1, 10}, Lines2: LineRange{1, 10}, Code: "x", Similarity: 0.9},
		{File1: "a.go", File2: "b.go", Lines1: LineRange{11, 20}, Lines2: LineRange{11, 20}, Code: "y", Similarity: 0.95},
	}
	merged := mergeOverlaps(pairs)
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged pair, got %d", len(merged))
	}
	if merged[0].Lines1 != (LineRange{1, 20}) {
		t.Errorf("expected merged range 1-20, got %+v", merged[0].Lines1)
	}
	if merged[0].Similarity != 0.95 {
		t.Errorf("expected max similarity 0.95, got %f", merged[0].Similarity)
	}
}

func TestMergeOverlapsKeepsDistantRangesSeparate(t *testing.T) {
	pairs := []DuplicatePair{
		{File1: "a.go", File2: "b.go", Lines1: LineRange{1, 10}, Lines2: LineRange{1, 10}, Code: "x", Similarity: 0.9},
		{File1: "a.go", File2: "b.go", Lines1: LineRange{50, 60}, Lines2: LineRange{50, 60}, Code: "y", Similarity: 0.9},
	}
	merged := mergeOverlaps(pairs)
	if len(merged) != 2 {
		t.Fatalf("expected 2 separate pairs, got %d", len(merged))
	}
}

func TestMergeOverlapsPartitionsByFilePair(t *testing.T) {
	pairs := []DuplicatePair{
		{File1: "a.go", File2: "b.go", Lines1: LineRange{1, 10}, Lines2: LineRange{1, 10}, Code: "x", Similarity: 0.9},
		{File1: "a.go", File2: "c.go", Lines1: LineRange{1, 10}, Lines2: LineRange{1, 10}, Code: "x", Similarity: 0.9},
	}
	merged := mergeOverlaps(pairs)
	if len(merged) != 2 {
		t.Fatalf("expected pairs in distinct file-pair partitions to remain separate, got %d", len(merged))
	}
}

func TestMergeOverlapsRespectsSlackBoundary(t *testing.T) {
	// Gap of exactly mergeSlack (2) should still merge ("<=" in the rule).
	pairs := []DuplicatePair{
		{File1: "a.go", File2: "b.go", Lines1: LineRange{1, 10}, Lines2: LineRange{1, 10}, Code: "x", Similarity: 0.9},
		{File1: "a.go", File2: "b.go", Lines1: LineRange{12, 20}, Lines2: LineRange{12, 20}, Code: "y", Similarity: 0.9},
	}
	merged := mergeOverlaps(pairs)
	if len(merged) != 1 {
		t.Fatalf("expected boundary gap of exactly slack to merge, got %d pairs", len(merged))
	}

	pairs[1].Lines1 = LineRange{13, 21}
	pairs[1].Lines2 = LineRange{13, 21}
	merged = mergeOverlaps(pairs)
	if len(merged) != 2 {
		t.Fatalf("expected gap beyond slack to not merge, got %d pairs", len(merged))
	}
}
