package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/hoops-edge/internal/service"
	"github.com/yourusername/hoops-edge/internal/tracing"
)

// SlateRunner refreshes absences and scores a slate
type SlateRunner interface {
	Refresh(ctx context.Context, slate *service.Slate, persist bool) (*service.SlateResult, error)
}

// SlateLoader produces the slate to score on each run
type SlateLoader func(ctx context.Context) (*service.Slate, error)

// RunStatus describes the most recent slate refresh
type RunStatus struct {
	StartedAt time.Time
	Finished  time.Time
	Games     int
	Skipped   int
	Persisted int
	Err       error
}

// Scheduler manages the scheduled slate refresh job
type Scheduler struct {
	cron            *cron.Cron
	runner          SlateRunner
	loader          SlateLoader
	logger          *logrus.Entry
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	last            *RunStatus
	runTimeout      time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(runner SlateRunner, loader SlateLoader, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		runner:          runner,
		loader:          loader,
		logger:          logger.WithField("component", "scheduler"),
		jobIDs:          make([]cron.EntryID, 0),
		runTimeout:      5 * time.Minute,
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleSlateRefresh schedules a slate refresh on a standard five-field cron spec
func (s *Scheduler) ScheduleSlateRefresh(cronExpression string, persist bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		defer cancel()
		s.RunOnce(ctx, persist)
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"cron":    cronExpression,
		"persist": persist,
	}).Info("Scheduled slate refresh")

	return nil
}

// RunOnce loads and scores the slate now, recording the outcome
func (s *Scheduler) RunOnce(ctx context.Context, persist bool) RunStatus {
	status := RunStatus{StartedAt: time.Now().UTC()}
	ctx, end := tracing.StartSegment(ctx, "slate-refresh")
	defer func() { end(status.Err) }()

	slate, err := s.loader(ctx)
	if err != nil {
		status.Err = fmt.Errorf("failed to load slate: %w", err)
	} else {
		var result *service.SlateResult
		result, err = s.runner.Refresh(ctx, slate, persist)
		if result != nil {
			status.Games = len(result.Games)
			status.Skipped = len(result.Skipped)
			status.Persisted = result.Persisted
		}
		status.Err = err
	}
	status.Finished = time.Now().UTC()
	tracing.AddAnnotation(ctx, "games", status.Games)
	tracing.AddAnnotation(ctx, "skipped", status.Skipped)

	entry := s.logger.WithFields(logrus.Fields{
		"games":       status.Games,
		"skipped":     status.Skipped,
		"persisted":   status.Persisted,
		"duration_ms": status.Finished.Sub(status.StartedAt).Milliseconds(),
	})
	if status.Err != nil {
		entry.WithError(status.Err).Error("Slate refresh failed")
	} else {
		entry.Info("Slate refresh completed")
	}

	s.mu.Lock()
	s.last = &status
	s.mu.Unlock()

	return status
}

// LastRun returns the most recent refresh, or false if none has run
func (s *Scheduler) LastRun() (RunStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return RunStatus{}, false
	}
	return *s.last, true
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler, waiting up to the graceful timeout for a running job
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler stop timed out after %s", s.gracefulTimeout)
	}
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
