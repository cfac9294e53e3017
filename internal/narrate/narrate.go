// Copyright 2026 The Stringer Authors
// SPDX-License-Identifier: MIT

// Package narrate turns a dup.DuplicationReport into a short natural-language
// summary suitable for posting as a PR comment, using an LLM provider with a
// templated fallback when the provider is unavailable or fails.
package narrate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/davetashner/dupcheck/internal/dup"
	"github.com/davetashner/dupcheck/internal/llm"
)

const systemPrompt = `You are a terse code reviewer. Given a plain-text
duplication report, write a 2-4 sentence summary for a pull request comment. Mention the
overall duplication percentage, the most significant cluster, and one concrete
suggestion. Do not use markdown headers.`

// Summarize produces a narrative summary of report. If provider is nil or the
// completion fails, it falls back to a templated summary built directly from
// the report's fields.
func Summarize(ctx context.Context, report dup.DuplicationReport, provider llm.Provider) string {
	if provider == nil {
		return fallbackSummary(report)
	}

	resp, err := provider.Complete(ctx, llm.Request{
		SystemPrompt: systemPrompt,
		Prompt:       renderPrompt(report),
		MaxTokens:    300,
	})
	if err != nil {
		slog.Warn("LLM narration failed, falling back to templated summary", "error", err)
		return fallbackSummary(report)
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return fallbackSummary(report)
	}
	return content
}

// renderPrompt builds the user prompt sent to the LLM from the report.
func renderPrompt(report dup.DuplicationReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "duplication: %.1f%% (%d of %d lines), severity: %s\n",
		report.Percentage, report.DuplicatedLines, report.TotalLines, report.Severity)
	fmt.Fprintf(&b, "findings: %d\n", len(report.DuplicateBlocks))
	for i, f := range report.DuplicateBlocks {
		if i >= 5 {
			fmt.Fprintf(&b, "...and %d more findings\n", len(report.DuplicateBlocks)-i)
			break
		}
		if f.ClusterSize > 0 {
			fmt.Fprintf(&b, "- cluster of %d files, similarity %.2f: %s\n", f.ClusterSize, f.Similarity, firstLine(f.Code))
		} else {
			fmt.Fprintf(&b, "- %s <-> %s, similarity %.2f: %s\n", f.File1, f.File2, f.Similarity, firstLine(f.Code))
		}
	}
	return b.String()
}

// fallbackSummary builds a deterministic, templated summary with no LLM call.
func fallbackSummary(report dup.DuplicationReport) string {
	if len(report.DuplicateBlocks) == 0 {
		return fmt.Sprintf("No duplicate code detected across %d added lines.", report.TotalLines)
	}

	worst := report.DuplicateBlocks[0]
	var where string
	if worst.ClusterSize > 0 {
		where = fmt.Sprintf("a %d-file cluster", worst.ClusterSize)
	} else {
		where = fmt.Sprintf("%s and %s", worst.File1, worst.File2)
	}

	return fmt.Sprintf(
		"Found %d duplicate code finding(s) totalling %.1f%% of added lines (%s severity). "+
			"The largest is %s at %.0f%% similarity. Consider extracting the shared logic into a common function.",
		len(report.DuplicateBlocks), report.Percentage, report.Severity, where, worst.Similarity*100,
	)
}

func firstLine(code string) string {
	if idx := strings.IndexByte(code, '\n'); idx >= 0 {
		code = code[:idx]
	}
	code = strings.TrimSpace(code)
	if len(code) > 80 {
		return code[:80] + "..."
	}
	return code
}
