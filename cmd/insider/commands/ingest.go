package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one ingestion pass",
	Long: `Polls the EDGAR Form 4 feed once, resolves and extracts each
filing, stores transactions idempotently and recomputes scores and
cluster events.

Example:
  go run ./cmd/insider ingest`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Insider Tracker Ingestion ===")

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	start := time.Now()
	summary := a.pipeline.Ingest(cmd.Context())
	duration := time.Since(start)

	if !summary.Success {
		return fmt.Errorf("ingestion failed: %s", summary.Error)
	}

	fmt.Println()
	fmt.Printf("Candidates : %d\n", summary.TotalCandidates)
	fmt.Printf("Processed  : %d\n", summary.Processed)
	fmt.Printf("Skipped    : %d\n", summary.Skipped)
	fmt.Printf("Errors     : %d\n", summary.Errors)
	fmt.Printf("Duration   : %.2fs\n", duration.Seconds())

	return nil
}
