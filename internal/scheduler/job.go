package scheduler

import (
	"context"
	"time"
)

// Job is a recurring task driven by the scheduler
// ⭐ SSOT: the scheduled job interface is defined here only
type Job interface {
	// Name returns the job name
	Name() string

	// Run executes one pass of the job
	Run(ctx context.Context) error

	// Schedule returns the cron expression (with seconds field),
	// e.g. "0 */10 * * * *" for every ten minutes
	Schedule() string
}

// RunRecord is the result of one job execution
type RunRecord struct {
	JobName   string        `json:"job_name"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// history keeps the most recent run records for one job
type history struct {
	records []RunRecord
}

const historyLimit = 100

func (h *history) add(r RunRecord) {
	h.records = append(h.records, r)
	if len(h.records) > historyLimit {
		h.records = h.records[len(h.records)-historyLimit:]
	}
}

func (h *history) latest(n int) []RunRecord {
	if n > len(h.records) {
		n = len(h.records)
	}
	return h.records[len(h.records)-n:]
}
