package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/vinyl-pricer/internal/metrics"
)

const staleRunAge = time.Hour

// Intervals configures how often each scheduled job runs. A zero interval
// disables the job.
type Intervals struct {
	Pending time.Duration
	Refresh time.Duration
	Quota   time.Duration
}

// Scheduler runs pricing batches and quota syncs on intervals.
type Scheduler struct {
	cron    *cron.Cron
	engine  *Engine
	log     *slog.Logger
	entries map[string]cron.EntryID
}

// NewScheduler creates a new Scheduler that runs engine tasks on a schedule.
func NewScheduler(eng *Engine, iv Intervals, log *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		engine:  eng,
		log:     log,
		entries: make(map[string]cron.EntryID),
	}

	jobs := []struct {
		name     string
		interval time.Duration
		run      func()
	}{
		{JobPricePending, iv.Pending, s.runPending},
		{JobRefreshStale, iv.Refresh, s.runRefresh},
		{JobSyncQuota, iv.Quota, s.runQuotaSync},
	}

	for _, j := range jobs {
		if j.interval <= 0 {
			continue
		}
		id, err := s.cron.AddFunc("@every "+j.interval.String(), j.run)
		if err != nil {
			return nil, err
		}
		s.entries[j.name] = id
	}

	return s, nil
}

// Start recovers job runs orphaned by a previous process and begins running
// scheduled tasks.
func (s *Scheduler) Start() {
	s.engine.RecoverStaleRuns(context.Background(), staleRunAge)
	s.log.Info("scheduler started", "jobs", len(s.entries))
	s.cron.Start()
	s.SyncNextRunTimestamps()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// SyncNextRunTimestamps publishes each job's next run time.
func (s *Scheduler) SyncNextRunTimestamps() {
	for name, id := range s.entries {
		next := s.cron.Entry(id).Next
		if next.IsZero() {
			continue
		}
		metrics.SchedulerNextRunTimestamp.WithLabelValues(name).Set(float64(next.Unix()))
	}
}

func (s *Scheduler) runPending() {
	defer s.SyncNextRunTimestamps()
	s.log.Info("scheduled pricing starting")
	if _, err := s.engine.RunPending(context.Background()); err != nil {
		s.log.Error("scheduled pricing failed", "error", err)
	}
}

func (s *Scheduler) runRefresh() {
	defer s.SyncNextRunTimestamps()
	s.log.Info("scheduled refresh starting")
	if _, err := s.engine.RunRefresh(context.Background()); err != nil {
		s.log.Error("scheduled refresh failed", "error", err)
	}
}

func (s *Scheduler) runQuotaSync() {
	defer s.SyncNextRunTimestamps()
	if err := s.engine.SyncQuota(context.Background()); err != nil {
		s.log.Error("scheduled quota sync failed", "error", err)
	}
}
