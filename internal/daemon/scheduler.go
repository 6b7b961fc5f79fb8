package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler wraps gocron for managing the periodic validation sweep.
type Scheduler struct {
	mu        sync.Mutex
	scheduler gocron.Scheduler
	rescanJob gocron.Job
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// ScheduleRescan schedules the periodic validation sweep.
// Returns the job ID for later management.
func (s *Scheduler) ScheduleRescan(interval time.Duration, task func()) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName("rescan"),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create rescan job: %w", err)
	}
	s.rescanJob = job
	return job.ID().String(), nil
}

// Reschedule replaces the rescan job with a new interval, used on
// configuration reload.
func (s *Scheduler) Reschedule(interval time.Duration, task func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rescanJob != nil {
		if err := s.scheduler.RemoveJob(s.rescanJob.ID()); err != nil {
			slog.Warn("Failed to remove previous rescan job", "error", err)
		}
		s.rescanJob = nil
	}

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName("rescan"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rescan job: %w", err)
	}
	s.rescanJob = job
	slog.Info("Rescheduled periodic validation", "interval", interval)
	return nil
}
