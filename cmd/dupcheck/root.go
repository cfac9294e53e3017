package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	dupchecklog "github.com/davetashner/dupcheck/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
)

// rootCmd is the base command for dupcheck.
var rootCmd = &cobra.Command{
	Use:   "dupcheck",
	Short: "Detect copy-pasted code across a pull request's changed files",
	Long: `Dupcheck analyzes the files changed in a pull request and reports
duplicated code blocks — both exact copies and near-duplicates — so
reviewers can catch copy-paste before it merges.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		dupchecklog.Setup(verbose, quiet)
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(versionCmd)
}
