package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/insidertracker/backend/internal/scheduler"
	"github.com/wonny/insidertracker/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the ingestion scheduler",
	Long: `Runs ingestion on a recurring schedule (every ten minutes,
matching the feed's refresh cadence) until interrupted.

Example:
  go run ./cmd/insider scheduler
  go run ./cmd/insider scheduler --immediate`,
	RunE: runScheduler,
}

var schedulerImmediate bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&schedulerImmediate, "immediate", false, "run one ingestion pass on startup")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Insider Tracker Scheduler ===")

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	sched := scheduler.New(a.log)
	job := jobs.NewIngestionJob(a.pipeline, a.log)
	if err := sched.AddJob(job); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	if schedulerImmediate {
		if err := sched.RunNow(job.Name()); err != nil {
			return err
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	a.log.WithField("signal", sig.String()).Info("Shutdown signal received")
	return nil
}
