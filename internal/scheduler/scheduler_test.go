package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/wonny/insidertracker/backend/pkg/config"
	"github.com/wonny/insidertracker/backend/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	err      error
}

func (j *fakeJob) Name() string                { return j.name }
func (j *fakeJob) Schedule() string            { return j.schedule }
func (j *fakeJob) Run(_ context.Context) error { return j.err }

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "test", LogLevel: "error"})
}

func TestAddJob(t *testing.T) {
	s := New(testLogger())
	job := &fakeJob{name: "ingest", schedule: "0 */10 * * * *"}

	if err := s.AddJob(job); err != nil {
		t.Fatalf("AddJob() error = %v", err)
	}
	if err := s.AddJob(job); err == nil {
		t.Error("duplicate AddJob() error = nil, want error")
	}

	jobs := s.Jobs()
	if len(jobs) != 1 || jobs[0] != "ingest" {
		t.Errorf("Jobs() = %v, want [ingest]", jobs)
	}
}

func TestAddJobInvalidSchedule(t *testing.T) {
	s := New(testLogger())
	job := &fakeJob{name: "broken", schedule: "not a cron expression"}

	if err := s.AddJob(job); err == nil {
		t.Error("AddJob() error = nil, want schedule parse error")
	}
}

func TestRunJobRecordsHistory(t *testing.T) {
	s := New(testLogger())
	good := &fakeJob{name: "good", schedule: "0 0 0 1 1 *"}
	bad := &fakeJob{name: "bad", schedule: "0 0 0 1 1 *", err: fmt.Errorf("boom")}

	for _, j := range []Job{good, bad} {
		if err := s.AddJob(j); err != nil {
			t.Fatalf("AddJob() error = %v", err)
		}
	}

	s.runJob(good)
	s.runJob(bad)

	goodRuns, err := s.RecentRuns("good", 10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(goodRuns) != 1 || !goodRuns[0].Success {
		t.Errorf("good runs = %+v, want one success", goodRuns)
	}

	badRuns, err := s.RecentRuns("bad", 10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(badRuns) != 1 || badRuns[0].Success || badRuns[0].Error != "boom" {
		t.Errorf("bad runs = %+v, want one failure with error", badRuns)
	}

	if _, err := s.RecentRuns("unknown", 1); err == nil {
		t.Error("RecentRuns(unknown) error = nil, want error")
	}
}

func TestHistoryBounded(t *testing.T) {
	h := &history{}
	for i := 0; i < historyLimit+25; i++ {
		h.add(RunRecord{JobName: "x", StartedAt: time.Now(), Success: true})
	}

	if len(h.records) != historyLimit {
		t.Errorf("len(records) = %d, want %d", len(h.records), historyLimit)
	}
	if got := h.latest(5); len(got) != 5 {
		t.Errorf("latest(5) returned %d records", len(got))
	}
}
