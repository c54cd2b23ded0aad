// Package scheduler wraps robfig/cron for the daemon's periodic tasks,
// chiefly the daily quota rollover at UTC midnight.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a scheduled task.
type Job func(ctx context.Context) error

// Scheduler runs jobs on cron schedules in UTC.
type Scheduler struct {
	cron *cron.Cron
	jobs map[string]cron.EntryID
	log  *slog.Logger
}

func New(log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		jobs: make(map[string]cron.EntryID),
		log:  log,
	}
}

// AddJob schedules a named job. The schedule uses standard cron syntax,
// e.g. "0 0 * * *" for midnight daily.
func (s *Scheduler) AddJob(name, schedule string, job Job) error {
	entryID, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			s.log.Error("scheduled job failed", "job", name, "error", err)
			return
		}
		s.log.Debug("scheduled job completed", "job", name, "duration", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.log.Info("scheduled job", "job", name, "schedule", schedule)
	return nil
}

const rolloverJobName = "quota-rollover"

// AddDailyRollover schedules a job at UTC midnight.
func (s *Scheduler) AddDailyRollover(job Job) error {
	return s.AddJob(rolloverJobName, "0 0 * * *", job)
}

// NextRollover returns when the daily rollover fires next. Zero until
// the scheduler has started.
func (s *Scheduler) NextRollover() time.Time {
	return s.NextRun(rolloverJobName)
}

// NextRun returns when the named job fires next, or the zero time if the
// job is unknown.
func (s *Scheduler) NextRun(name string) time.Time {
	entryID, ok := s.jobs[name]
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(entryID).Next
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling. The returned context is done once running jobs
// have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
