package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/insidertracker/backend/internal/ingest"
	"github.com/wonny/insidertracker/backend/pkg/logger"
)

// IngestionJob runs the ingestion pipeline on a fixed schedule, mirroring
// the feed's refresh cadence
type IngestionJob struct {
	pipeline *ingest.Pipeline
	logger   *logger.Logger
}

// NewIngestionJob creates the recurring ingestion job
func NewIngestionJob(pipeline *ingest.Pipeline, log *logger.Logger) *IngestionJob {
	return &IngestionJob{
		pipeline: pipeline,
		logger:   log,
	}
}

// Name returns the job name
func (j *IngestionJob) Name() string {
	return "form4-ingestion"
}

// Schedule runs every ten minutes
func (j *IngestionJob) Schedule() string {
	return "0 */10 * * * *"
}

// Run executes one ingestion pass. Per-filing skips and errors are already
// accounted inside the summary; only a feed-level failure fails the job.
func (j *IngestionJob) Run(ctx context.Context) error {
	summary := j.pipeline.Ingest(ctx)
	if !summary.Success {
		return fmt.Errorf("ingestion run failed: %s", summary.Error)
	}

	j.logger.WithFields(map[string]interface{}{
		"processed": summary.Processed,
		"skipped":   summary.Skipped,
		"errors":    summary.Errors,
	}).Info("Scheduled ingestion finished")

	return nil
}
