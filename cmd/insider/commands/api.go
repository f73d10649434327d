package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/insidertracker/backend/internal/api"
	"github.com/wonny/insidertracker/backend/internal/api/handlers"
	"github.com/wonny/insidertracker/backend/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server over the stored filing data.

Endpoints:
  GET  /health                   - Health check
  GET  /api/transactions         - List transactions (filterable)
  GET  /api/transactions/recent  - Transactions filed recently
  GET  /api/companies            - Tracked companies with scores
  GET  /api/companies/top        - Highest-scored companies
  GET  /api/clusters             - Cluster-buy events
  GET  /api/stats                - Aggregate counters
  POST /api/ingest               - Trigger an ingestion pass

Example:
  go run ./cmd/insider api
  go run ./cmd/insider api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Insider Tracker API Server ===")

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	cache := redis.NewCache(a.redis, "insider")

	h := &api.Handlers{
		Transactions: handlers.NewTransactionHandler(a.store, a.log),
		Companies:    handlers.NewCompanyHandler(a.store, a.log),
		Clusters:     handlers.NewClusterHandler(a.store, a.log),
		Stats:        handlers.NewStatsHandler(a.store, cache, a.log),
		Ingest:       handlers.NewIngestHandler(a.pipeline, a.log),
	}

	server := api.New(a.cfg, a.log, api.NewRouter(h, a.log))

	// Serve until interrupted
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
