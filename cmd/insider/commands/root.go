package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "insider",
	Short: "Insider Tracker - SEC Form 4 ingestion and signal derivation",
	Long: `Insider Tracker Unified CLI

Polls the SEC EDGAR Form 4 feed, extracts insider transactions,
stores them idempotently and derives sentiment scores and
cluster-buy events.

Usage:
  go run ./cmd/insider [command]

Examples:
  go run ./cmd/insider api
  go run ./cmd/insider ingest
  go run ./cmd/insider scheduler
  go run ./cmd/insider status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
