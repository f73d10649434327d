package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status",
	Long: `Checks database and Redis connectivity and prints the stored
data counters.

Example:
  go run ./cmd/insider status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Insider Tracker Status ===")

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	health, err := a.db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("database health check: %w", err)
	}
	fmt.Printf("Database   : ok (%s, %d/%d conns)\n",
		health.ResponseTime, health.Stats.TotalConns, health.Stats.MaxConns)

	if a.redis.Enabled() {
		if err := a.redis.Ping(ctx); err != nil {
			fmt.Printf("Redis      : error (%v)\n", err)
		} else {
			fmt.Println("Redis      : ok")
		}
	} else {
		fmt.Println("Redis      : disabled")
	}

	stats, err := a.store.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	fmt.Println()
	fmt.Printf("Companies      : %d\n", stats.TotalCompanies)
	fmt.Printf("Transactions   : %d\n", stats.TotalTransactions)
	fmt.Printf("Filings today  : %d\n", stats.TodayFilings)
	fmt.Printf("Clusters (7d)  : %d\n", stats.ClusterBuys7d)
	fmt.Printf("Exec buys today: %d\n", stats.ExecBuysToday)

	return nil
}
