// Copyright 2026 The Stringer Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/davetashner/dupcheck/internal/testable"
)

// newTestCmd creates a fresh root command with analyze attached, using
// isolated buffers for stdout and stderr.
func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd, stdout, stderr
}

// resetAnalyzeFlags restores analyze's flag values and cobra's "Changed"
// bookkeeping between tests.
func resetAnalyzeFlags() {
	analyzeFiles = ""
	analyzePR = ""
	analyzeFormat = "console"
	analyzeOutput = ""
	analyzeNoNarrate = false
	analyzeMaxPRFiles = 0

	analyzeCmd.Flags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
}

// withMockFS swaps cmdFS with the given mock and restores it on cleanup.
func withMockFS(t *testing.T, mock *testable.MockFileSystem) {
	t.Helper()
	orig := cmdFS
	cmdFS = mock
	t.Cleanup(func() { cmdFS = orig })
}

// withMockGitOpener swaps cmdGitOpener with the given mock and restores it
// on cleanup.
func withMockGitOpener(t *testing.T, mock *testable.MockGitOpener) {
	t.Helper()
	orig := cmdGitOpener
	cmdGitOpener = mock
	t.Cleanup(func() { cmdGitOpener = orig })
}
