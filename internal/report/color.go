// Copyright 2026 The Stringer Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/davetashner/dupcheck/internal/dup"
)

// Shared color printers for report sections.
var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorBold   = color.New(color.Bold)
)

// ColorSeverity colors a severity label (low/medium/high).
func ColorSeverity(val string) string {
	switch val {
	case dup.SeverityHigh:
		return colorRed.Sprint(val)
	case dup.SeverityMedium:
		return colorYellow.Sprint(val)
	case dup.SeverityLow:
		return colorGreen.Sprint(val)
	default:
		return val
	}
}

// SectionTitle renders a bold section title.
func SectionTitle(title string) string {
	return colorBold.Sprint(title)
}

// colorSimilarity colors a similarity ratio: >=0.95 red, >=0.85 yellow, else plain.
func colorSimilarity(sim float64) string {
	s := fmt.Sprintf("%.2f", sim)
	switch {
	case sim >= 0.95:
		return colorRed.Sprint(s)
	case sim >= dup.SimilarityThreshold:
		return colorYellow.Sprint(s)
	default:
		return s
	}
}
