// Copyright 2026 The Stringer Authors
// SPDX-License-Identifier: MIT

package dup

import "sort"

// ClusterSimilarityThreshold is the raw-code Jaccard threshold above which
// two post-merge pairs are unioned into the same cluster.
const ClusterSimilarityThreshold = 0.90

// unionFind is a disjoint-set forest with path compression, indexed by
// pair ordinal.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p}
}

func (u *unionFind) find(x int) int {
	if u.parent[x] != x {
		u.parent[x] = u.find(u.parent[x])
	}
	return u.parent[x]
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}

// clusterPairs unions post-merge pairs whose raw-code Jaccard similarity is
// at least clusterThreshold, then flattens each connected component into a
// single ClusteredFinding. The result is sorted by
// (clusterSize desc, similarity desc).
func clusterPairs(pairs []DuplicatePair, clusterThreshold float64) []ClusteredFinding {
	if len(pairs) == 0 {
		return nil
	}

	uf := newUnionFind(len(pairs))
	for i := 0; i < len(pairs); i++ {
		for j := i + 1; j < len(pairs); j++ {
			if jaccardTokens(pairs[i].Code, pairs[j].Code) >= clusterThreshold {
				uf.union(i, j)
			}
		}
	}

	return flattenClusters(pairs, uf)
}

// flattenClusters groups pairs by their union-find root, builds one
// ClusteredFinding per connected component, and sorts the result by
// (clusterSize desc, similarity desc). Shared by the serial and parallel
// clustering paths so both produce identical output for the same edges.
func flattenClusters(pairs []DuplicatePair, uf *unionFind) []ClusteredFinding {
	groups := make(map[int][]int)
	var order []int
	for i := range pairs {
		root := uf.find(i)
		if _, ok := groups[root]; !ok {
			order = append(order, root)
		}
		groups[root] = append(groups[root], i)
	}

	findings := make([]ClusteredFinding, 0, len(order))
	for _, root := range order {
		members := groups[root]
		findings = append(findings, buildFinding(pairs, members))
	}

	sort.SliceStable(findings, func(i, j int) bool {
		si, sj := clusterSizeOrOne(findings[i]), clusterSizeOrOne(findings[j])
		if si != sj {
			return si > sj
		}
		return findings[i].Similarity > findings[j].Similarity
	})

	return findings
}

func clusterSizeOrOne(f ClusteredFinding) int {
	if f.ClusterSize == 0 {
		return 1
	}
	return f.ClusterSize
}

// buildFinding turns a connected component (a set of pair indices) into a
// single ClusteredFinding.
func buildFinding(pairs []DuplicatePair, memberIdx []int) ClusteredFinding {
	if len(memberIdx) == 1 {
		p := pairs[memberIdx[0]]
		return ClusteredFinding{DuplicatePair: p}
	}

	// Sort members deterministically before scanning for the representative,
	// so tie-breaking by "iteration order" is reproducible.
	sorted := make([]int, len(memberIdx))
	copy(sorted, memberIdx)
	sort.Slice(sorted, func(a, b int) bool {
		pa, pb := pairs[sorted[a]], pairs[sorted[b]]
		return lessPair(pa, pb)
	})

	fileLocations := make(map[string][]LineRange)
	var fileOrder []string

	rep := pairs[sorted[0]]
	for _, idx := range sorted {
		p := pairs[idx]
		if p.Similarity > rep.Similarity {
			rep = p
		}

		if _, ok := fileLocations[p.File1]; !ok {
			fileOrder = append(fileOrder, p.File1)
		}
		fileLocations[p.File1] = append(fileLocations[p.File1], p.Lines1)

		if _, ok := fileLocations[p.File2]; !ok {
			fileOrder = append(fileOrder, p.File2)
		}
		fileLocations[p.File2] = append(fileLocations[p.File2], p.Lines2)
	}

	var allFiles []FileLocation
	for _, f := range fileOrder {
		for _, r := range mergeRanges(fileLocations[f]) {
			allFiles = append(allFiles, FileLocation{File: f, Lines: r})
		}
	}

	return ClusteredFinding{
		DuplicatePair: rep,
		ClusterSize:   len(fileLocations),
		AllFiles:      allFiles,
		PatternHash:   fingerprint(rep.Code),
	}
}

// lessPair orders pairs deterministically by their endpoints, used only to
// fix representative tie-breaking order.
func lessPair(a, b DuplicatePair) bool {
	if a.File1 != b.File1 {
		return a.File1 < b.File1
	}
	if a.Lines1.Start != b.Lines1.Start {
		return a.Lines1.Start < b.Lines1.Start
	}
	if a.File2 != b.File2 {
		return a.File2 < b.File2
	}
	return a.Lines2.Start < b.Lines2.Start
}

// mergeRanges sorts and coalesces overlapping/adjacent ranges using the
// same +2 slack rule as the overlap merger.
func mergeRanges(ranges []LineRange) []LineRange {
	if len(ranges) == 0 {
		return nil
	}

	sorted := make([]LineRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var out []LineRange
	current := sorted[0]
	for _, next := range sorted[1:] {
		if next.Start <= current.End+mergeSlack {
			current.End = maxInt(current.End, next.End)
			continue
		}
		out = append(out, current)
		current = next
	}
	out = append(out, current)

	return out
}
