// Copyright 2026 The Stringer Authors
// SPDX-License-Identifier: MIT

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/davetashner/dupcheck/internal/dup"
)

// JSONLineRange is the wire form of dup.LineRange.
type JSONLineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// JSONFileLocation is the wire form of dup.FileLocation.
type JSONFileLocation struct {
	File  string        `json:"file"`
	Lines JSONLineRange `json:"lines"`
}

// JSONFinding is the wire form of dup.ClusteredFinding.
type JSONFinding struct {
	File1       string             `json:"file1"`
	File2       string             `json:"file2"`
	Lines1      JSONLineRange      `json:"lines1"`
	Lines2      JSONLineRange      `json:"lines2"`
	Code        string             `json:"code"`
	Similarity  float64            `json:"similarity"`
	ClusterSize int                `json:"clusterSize,omitempty"`
	AllFiles    []JSONFileLocation `json:"allFiles,omitempty"`
	PatternHash string             `json:"patternHash,omitempty"`
}

// JSONReport is the wire form of dup.DuplicationReport.
type JSONReport struct {
	Percentage      float64       `json:"percentage"`
	Severity        string        `json:"severity"`
	TotalLines      int           `json:"totalLines"`
	DuplicatedLines int           `json:"duplicatedLines"`
	DuplicateBlocks []JSONFinding `json:"duplicateBlocks"`
	Summary         string        `json:"summary,omitempty"`
}

// JSONFormatter writes a dup.DuplicationReport as JSON.
type JSONFormatter struct {
	// Compact forces single-line output regardless of destination. When
	// false, output auto-detects: pretty-printed for a terminal, compact
	// for a pipe or regular file.
	Compact bool

	// Summary, if set, is attached to the envelope's "summary" field (the
	// narrate package's output, when narration was requested).
	Summary string
}

// WriteJSON renders report as JSON to w using f's settings.
func (f *JSONFormatter) WriteJSON(w io.Writer, report dup.DuplicationReport) error {
	envelope := toJSONReport(report, f.Summary)

	var data []byte
	var err error
	if f.shouldCompact(w) {
		data, err = json.Marshal(envelope)
	} else {
		data, err = json.MarshalIndent(envelope, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal duplication report: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write duplication report: %w", err)
	}
	_, err = w.Write([]byte("\n"))
	return err
}

// shouldCompact mirrors the analyzer CLI's general convention: pretty-print
// for an interactive terminal, compact for anything piped or redirected.
func (f *JSONFormatter) shouldCompact(w io.Writer) bool {
	if f.Compact {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := file.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice == 0
}

func toJSONReport(report dup.DuplicationReport, summary string) JSONReport {
	blocks := make([]JSONFinding, len(report.DuplicateBlocks))
	for i, f := range report.DuplicateBlocks {
		blocks[i] = toJSONFinding(f)
	}
	return JSONReport{
		Percentage:      report.Percentage,
		Severity:        report.Severity,
		TotalLines:      report.TotalLines,
		DuplicatedLines: report.DuplicatedLines,
		DuplicateBlocks: blocks,
		Summary:         summary,
	}
}

func toJSONFinding(f dup.ClusteredFinding) JSONFinding {
	out := JSONFinding{
		File1:       f.File1,
		File2:       f.File2,
		Lines1:      JSONLineRange{Start: f.Lines1.Start, End: f.Lines1.End},
		Lines2:      JSONLineRange{Start: f.Lines2.Start, End: f.Lines2.End},
		Code:        f.Code,
		Similarity:  f.Similarity,
		ClusterSize: f.ClusterSize,
		PatternHash: f.PatternHash,
	}
	if len(f.AllFiles) > 0 {
		out.AllFiles = make([]JSONFileLocation, len(f.AllFiles))
		for i, loc := range f.AllFiles {
			out.AllFiles[i] = JSONFileLocation{
				File:  loc.File,
				Lines: JSONLineRange{Start: loc.Lines.Start, End: loc.Lines.End},
			}
		}
	}
	return out
}
