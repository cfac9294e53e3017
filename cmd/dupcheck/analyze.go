// Copyright 2026 The Stringer Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/davetashner/dupcheck/internal/config"
	"github.com/davetashner/dupcheck/internal/dup"
	"github.com/davetashner/dupcheck/internal/ghclient"
	"github.com/davetashner/dupcheck/internal/llm"
	"github.com/davetashner/dupcheck/internal/narrate"
	"github.com/davetashner/dupcheck/internal/report"
)

// Analyze-specific flag values.
var (
	analyzeFiles      string
	analyzePR         string
	analyzeFormat     string
	analyzeOutput     string
	analyzeNoNarrate  bool
	analyzeMaxPRFiles int
	analyzeTimeout    time.Duration
)

// analyzeCmd scans a PR's changed files for duplicate code.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a pull request's changed files for duplicate code",
	Long: `Analyze reads a set of changed files — either from a JSON document
via --files, or fetched live from GitHub via --pr owner/repo#number — and
reports duplicated code blocks across them.

Examples:
  dupcheck analyze --files changed.json
  dupcheck analyze --pr acme/widgets#142
  dupcheck analyze --pr 142   (owner/repo resolved from the local git remote)`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFiles, "files", "", "path to a JSON document of []dup.FileDescriptor")
	analyzeCmd.Flags().StringVar(&analyzePR, "pr", "", "pull request reference: owner/repo#number, or just #number to resolve owner/repo from the local git remote")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "console", "output format: console or json")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "output file path (default: stdout)")
	analyzeCmd.Flags().BoolVar(&analyzeNoNarrate, "no-narrate", false, "skip LLM narration, print only the structured report")
	analyzeCmd.Flags().IntVar(&analyzeMaxPRFiles, "max-pr-files", 0, "cap the number of PR files fetched (0 = use config/default)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 30*time.Second, "timeout for the GitHub fetch and LLM narration")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if analyzeFiles == "" && analyzePR == "" {
		return exitError(ExitInvalidArgs, "dupcheck: one of --files or --pr is required")
	}
	if analyzeFiles != "" && analyzePR != "" {
		return exitError(ExitInvalidArgs, "dupcheck: --files and --pr are mutually exclusive")
	}

	repoCfg, err := loadMergedConfig(".")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	files, err := resolveFiles(ctx, repoCfg)
	if err != nil {
		return err
	}

	dupCfg := config.Merge(repoCfg, dup.Config{})
	result := dup.AnalyzeWithConfig(files, dupCfg)

	summary := ""
	if !analyzeNoNarrate && !repoCfg.NoNarrate {
		summary = narrateReport(ctx, result)
	}

	if err := writeAnalyzeOutput(cmd, result, summary); err != nil {
		return err
	}

	slog.Info("analysis complete", "files", len(files), "findings", len(result.DuplicateBlocks), "severity", result.Severity)
	return nil
}

// loadMergedConfig loads the global and repo-level .dupcheck.yaml files,
// with repo-level settings taking precedence over global ones.
func loadMergedConfig(repoPath string) (*config.Config, error) {
	global, err := config.LoadGlobal()
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "dupcheck: failed to load global config (%v)", err)
	}
	local, err := config.Load(repoPath)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "dupcheck: failed to load %s (%v)", config.FileName, err)
	}

	merged := *global
	if local.OutputFormat != "" {
		merged.OutputFormat = local.OutputFormat
	}
	if local.NoNarrate {
		merged.NoNarrate = true
	}
	if local.MaxPRFiles > 0 {
		merged.MaxPRFiles = local.MaxPRFiles
	}
	if local.MinBlockSize > 0 {
		merged.MinBlockSize = local.MinBlockSize
	}
	if local.SimilarityThreshold > 0 {
		merged.SimilarityThreshold = local.SimilarityThreshold
	}
	if local.ClusterSimilarityThreshold > 0 {
		merged.ClusterSimilarityThreshold = local.ClusterSimilarityThreshold
	}
	if local.SeverityMediumThreshold > 0 {
		merged.SeverityMediumThreshold = local.SeverityMediumThreshold
	}
	if local.SeverityHighThreshold > 0 {
		merged.SeverityHighThreshold = local.SeverityHighThreshold
	}
	if len(local.ExtraSkipPatterns) > 0 {
		merged.ExtraSkipPatterns = local.ExtraSkipPatterns
	}

	return &merged, nil
}

// resolveFiles loads the file descriptors to analyze, either from --files
// or by fetching them live from GitHub via --pr.
func resolveFiles(ctx context.Context, cfg *config.Config) ([]dup.FileDescriptor, error) {
	if analyzeFiles != "" {
		return loadFilesDocument(analyzeFiles)
	}
	return fetchPRFiles(ctx, cfg)
}

// loadFilesDocument reads and decodes a JSON []dup.FileDescriptor document.
func loadFilesDocument(path string) ([]dup.FileDescriptor, error) {
	data, err := cmdFS.ReadFile(path)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "dupcheck: cannot read %q (%v)", path, err)
	}

	var files []dup.FileDescriptor
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, exitError(ExitInvalidArgs, "dupcheck: %q is not a valid file-descriptor document (%v)", path, err)
	}
	return files, nil
}

// fetchPRFiles resolves owner/repo/number from --pr (falling back to the
// local git remote when owner/repo is omitted) and fetches the changed
// files from GitHub.
func fetchPRFiles(ctx context.Context, cfg *config.Config) ([]dup.FileDescriptor, error) {
	owner, repo, number, err := ghclient.ParsePRRef(analyzePR)
	if err != nil {
		owner, repo, number, err = resolvePRRefFromRemote(analyzePR)
		if err != nil {
			return nil, exitError(ExitInvalidArgs, "dupcheck: %v", err)
		}
	}

	maxFiles := analyzeMaxPRFiles
	if maxFiles <= 0 {
		maxFiles = cfg.MaxPRFiles
	}

	client := ghclient.New(os.Getenv("GITHUB_TOKEN"), maxFiles)
	files, err := client.ListPRFiles(ctx, owner, repo, number)
	if err != nil {
		return nil, exitError(ExitFetchFailed, "dupcheck: %v", err)
	}
	return files, nil
}

// resolvePRRefFromRemote handles a bare "#number" or "number" reference by
// resolving owner/repo from the local repository's origin remote.
func resolvePRRefFromRemote(ref string) (owner, repo string, number int, err error) {
	owner, repo, err = ghclient.ResolveRemote(cmdGitOpener, ".")
	if err != nil {
		return "", "", 0, fmt.Errorf("resolving owner/repo from local remote: %w", err)
	}

	numStr := strings.TrimPrefix(ref, "#")
	number, convErr := strconv.Atoi(numStr)
	if convErr != nil || number <= 0 {
		return "", "", 0, fmt.Errorf("invalid PR reference %q; expected owner/repo#number or #number", ref)
	}
	return owner, repo, number, nil
}

// narrateReport produces a best-effort natural-language summary, using the
// Anthropic provider when ANTHROPIC_API_KEY is set and falling back to a
// templated summary otherwise (narrate.Summarize handles both).
func narrateReport(ctx context.Context, result dup.DuplicationReport) string {
	var provider llm.Provider
	anthropicProvider, err := llm.NewAnthropicProvider()
	if err != nil {
		slog.Debug("LLM narration unavailable, using templated summary", "error", err)
	} else {
		provider = anthropicProvider
	}
	return narrate.Summarize(ctx, result, provider)
}

// writeAnalyzeOutput renders result in the configured format to stdout or
// --output.
func writeAnalyzeOutput(cmd *cobra.Command, result dup.DuplicationReport, summary string) error {
	w := cmd.OutOrStdout()
	if analyzeOutput != "" {
		f, err := os.Create(analyzeOutput) //nolint:gosec // user-provided output path
		if err != nil {
			return exitError(ExitInvalidArgs, "dupcheck: cannot create output file %q (%v)", analyzeOutput, err)
		}
		defer f.Close() //nolint:errcheck // best-effort close on output file
		w = f
	}

	switch analyzeFormat {
	case "json":
		formatter := &report.JSONFormatter{Summary: summary}
		if err := formatter.WriteJSON(w, result); err != nil {
			return exitError(ExitAnalysisFailed, "dupcheck: %v", err)
		}
	case "console", "":
		if err := report.WriteConsole(w, result); err != nil {
			return exitError(ExitAnalysisFailed, "dupcheck: %v", err)
		}
		if summary != "" {
			fmt.Fprintf(w, "\n%s\n", summary)
		}
	default:
		return exitError(ExitInvalidArgs, "dupcheck: unknown format %q (want console or json)", analyzeFormat)
	}

	return nil
}
