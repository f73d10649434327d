package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wonny/insidertracker/backend/pkg/logger"
)

// Scheduler drives recurring jobs on cron schedules and keeps a bounded
// run history per job.
// ⭐ SSOT: all scheduling goes through this scheduler
type Scheduler struct {
	cron      *cron.Cron
	logger    *logger.Logger
	jobs      map[string]Job
	histories map[string]*history
	mu        sync.RWMutex
}

// New creates a scheduler. Schedules use the six-field cron syntax with a
// leading seconds field.
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		logger:    log,
		jobs:      make(map[string]Job),
		histories: make(map[string]*history),
	}
}

// AddJob registers a job on its own schedule
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	if _, err := s.cron.AddFunc(job.Schedule(), func() {
		s.runJob(job)
	}); err != nil {
		return fmt.Errorf("schedule job %s: %w", name, err)
	}

	s.jobs[name] = job
	s.histories[name] = &history{}

	s.logger.WithFields(map[string]interface{}{
		"job":      name,
		"schedule": job.Schedule(),
	}).Info("Job registered")

	return nil
}

// Start begins running registered jobs on their schedules
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// RunNow triggers a registered job immediately, outside its schedule
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	job, exists := s.jobs[name]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("job %s not found", name)
	}

	go s.runJob(job)
	return nil
}

// runJob executes one job pass and records the result
func (s *Scheduler) runJob(job Job) {
	name := job.Name()
	start := time.Now()

	s.logger.WithField("job", name).Info("Job started")

	err := job.Run(context.Background())

	record := RunRecord{
		JobName:   name,
		StartedAt: start,
		Duration:  time.Since(start),
		Success:   err == nil,
	}
	if err != nil {
		record.Error = err.Error()
	}

	s.mu.Lock()
	if h, exists := s.histories[name]; exists {
		h.add(record)
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"job":      name,
			"duration": record.Duration,
		}).Error("Job failed")
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"job":      name,
		"duration": record.Duration,
	}).Info("Job completed")
}

// RecentRuns returns the latest n run records for a job
func (s *Scheduler) RecentRuns(name string, n int) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, exists := s.histories[name]
	if !exists {
		return nil, fmt.Errorf("job %s not found", name)
	}
	return h.latest(n), nil
}

// Jobs returns the names of all registered jobs
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}
