// Copyright 2026 The Stringer Authors
// SPDX-License-Identifier: MIT

package dup

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Parallelizing the pairwise passes (fuzzy detection and
// clustering) across worker goroutines, provided the final output is
// identical to the serial result: each worker computes independent pair
// results, and a single serial reduction pass applies them through the
// same dedup-key / union-find logic. This file is that optional path; it
// is never invoked by Analyze itself (the reference does not parallelize),
// only by AnalyzeParallel below.

// fuzzyEdge is one candidate match discovered by a fuzzy-pass worker.
type fuzzyEdge struct {
	i, j       int
	similarity float64
}

// parallelWorkers returns a worker count bounded by available CPUs, never
// fewer than 1.
func parallelWorkers() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	return n
}

// computeFuzzyEdgesParallel computes every (i, j) pair's raw Jaccard
// similarity over normalized tokens, fanning the outer loop index out
// across workers. Each worker owns a disjoint range of i and writes only
// to its own slice, so no locking is needed; results are concatenated in i
// order before the caller applies the same serial dedup-key logic used by
// detectFuzzyMatches, which makes the final output independent of
// goroutine scheduling.
func computeFuzzyEdgesParallel(ctx context.Context, blocks []Block, threshold float64) ([]fuzzyEdge, error) {
	n := len(blocks)
	if n < 2 {
		return nil, nil
	}

	workers := parallelWorkers()
	if workers > n {
		workers = n
	}

	partial := make([][]fuzzyEdge, workers)
	g, ctx := errgroup.WithContext(ctx)

	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		w := w
		start := w * chunk
		end := start + chunk
		if start >= n {
			continue
		}
		if end > n {
			end = n
		}

		g.Go(func() error {
			var local []fuzzyEdge
			for i := start; i < end; i++ {
				if i%64 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				for j := i + 1; j < n; j++ {
					bi, bj := blocks[i], blocks[j]
					if bi.File == bj.File {
						continue
					}
					sim := jaccardTokens(bi.NormalizedCode, bj.NormalizedCode)
					if sim < threshold || sim >= 1.0 {
						continue
					}
					local = append(local, fuzzyEdge{i: i, j: j, similarity: sim})
				}
			}
			partial[w] = local
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var edges []fuzzyEdge
	for _, p := range partial {
		edges = append(edges, p...)
	}
	return edges, nil
}

// detectFuzzyMatchesParallel is equivalent to detectFuzzyMatches but
// computes candidate edges concurrently before applying the same serial
// dedup-key reduction, so its output matches the serial pass exactly.
func detectFuzzyMatchesParallel(ctx context.Context, blocks []Block, seen map[string]bool, threshold float64) ([]DuplicatePair, error) {
	edges, err := computeFuzzyEdgesParallel(ctx, blocks, threshold)
	if err != nil {
		return nil, err
	}

	var out []DuplicatePair
	for _, e := range edges {
		bi, bj := blocks[e.i], blocks[e.j]
		key := dedupKey(bi, bj)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, newPair(bi, bj, e.similarity))
	}
	return out, nil
}

// clusterEdge is one candidate union discovered by a clustering worker.
type clusterEdge struct{ i, j int }

// computeClusterEdgesParallel computes every (i, j) pair's raw-code
// Jaccard similarity in parallel, returning the edges at or above
// threshold. Union-find's final partition does not depend on the order
// unions are applied in, so concurrent edge discovery followed by a
// serial union pass is deterministic.
func computeClusterEdgesParallel(ctx context.Context, pairs []DuplicatePair, threshold float64) ([]clusterEdge, error) {
	n := len(pairs)
	if n < 2 {
		return nil, nil
	}

	workers := parallelWorkers()
	if workers > n {
		workers = n
	}

	partial := make([][]clusterEdge, workers)
	g, ctx := errgroup.WithContext(ctx)

	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		w := w
		start := w * chunk
		end := start + chunk
		if start >= n {
			continue
		}
		if end > n {
			end = n
		}

		g.Go(func() error {
			var local []clusterEdge
			for i := start; i < end; i++ {
				if i%64 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				for j := i + 1; j < n; j++ {
					if jaccardTokens(pairs[i].Code, pairs[j].Code) >= threshold {
						local = append(local, clusterEdge{i: i, j: j})
					}
				}
			}
			partial[w] = local
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var edges []clusterEdge
	for _, p := range partial {
		edges = append(edges, p...)
	}
	return edges, nil
}

// clusterPairsParallel mirrors clusterPairs but discovers union edges
// concurrently before the same serial union-find and flattening logic.
func clusterPairsParallel(ctx context.Context, pairs []DuplicatePair, clusterThreshold float64) ([]ClusteredFinding, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	edges, err := computeClusterEdgesParallel(ctx, pairs, clusterThreshold)
	if err != nil {
		return nil, err
	}

	uf := newUnionFind(len(pairs))
	for _, e := range edges {
		uf.union(e.i, e.j)
	}

	return flattenClusters(pairs, uf), nil
}

// AnalyzeParallel is equivalent to AnalyzeWithConfig but fans the fuzzy
// detection and clustering passes out across worker goroutines. Output is
// byte-for-byte identical to the serial path for the same input.
func AnalyzeParallel(ctx context.Context, files []FileDescriptor, cfg Config) (report DuplicationReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			report = EmptyReport()
			err = nil
		}
	}()

	if len(files) == 0 {
		return EmptyReport(), nil
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

	seen := make(map[string]bool)
	pairs := detectExactMatches(blocks, seen)

	fuzzy, err := detectFuzzyMatchesParallel(ctx, blocks, seen, cfg.SimilarityThreshold)
	if err != nil {
		return EmptyReport(), err
	}
	pairs = append(pairs, fuzzy...)

	merged := mergeOverlaps(pairs)

	findings, err := clusterPairsParallel(ctx, merged, cfg.ClusterSimilarityThreshold)
	if err != nil {
		return EmptyReport(), err
	}

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
	}, nil
}
