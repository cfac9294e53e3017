// Copyright 2026 The Stringer Authors
// SPDX-License-Identifier: MIT

// Package report renders a dup.DuplicationReport to the console or as JSON.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/davetashner/dupcheck/internal/dup"
)

// WriteConsole renders report as a human-readable table to w.
func WriteConsole(w io.Writer, report dup.DuplicationReport) error {
	fmt.Fprintln(w, SectionTitle("Duplication Report"))
	fmt.Fprintf(w, "  %.1f%% duplicated (%d of %d lines) — severity: %s\n\n",
		report.Percentage, report.DuplicatedLines, report.TotalLines, ColorSeverity(report.Severity))

	if len(report.DuplicateBlocks) == 0 {
		fmt.Fprintln(w, "  no duplicate code found")
		return nil
	}

	table := NewTable(
		Column{Header: "FILES"},
		Column{Header: "SIMILARITY", Align: AlignRight, Color: func(v string) string {
			var sim float64
			fmt.Sscanf(v, "%f", &sim) //nolint:errcheck // best-effort formatting only
			return colorSimilarity(sim)
		}},
		Column{Header: "SIZE", Align: AlignRight},
	)

	for _, f := range report.DuplicateBlocks {
		table.AddRow(describeFiles(f), fmt.Sprintf("%.2f", f.Similarity), clusterSizeLabel(f))
	}

	return table.Render(w)
}

// describeFiles renders the file(s) involved in a finding for the FILES column.
func describeFiles(f dup.ClusteredFinding) string {
	if f.ClusterSize == 0 {
		return fmt.Sprintf("%s:%d-%d <-> %s:%d-%d", f.File1, f.Lines1.Start, f.Lines1.End, f.File2, f.Lines2.Start, f.Lines2.End)
	}
	names := make([]string, len(f.AllFiles))
	for i, loc := range f.AllFiles {
		names[i] = loc.File
	}
	return strings.Join(names, ", ")
}

// clusterSizeLabel renders the SIZE column for a finding.
func clusterSizeLabel(f dup.ClusteredFinding) string {
	if f.ClusterSize == 0 {
		return "pair"
	}
	return fmt.Sprintf("%d files", f.ClusterSize)
}
