// Package scheduler runs the daily jobs on cron schedules. Content
// generation, streak warnings, re-engagement and cleanup run on UTC; the
// morning reminder and the eco tip follow the reminder timezone.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron"

	"github.com/ecopilot/ecopilot-backend/internal/content"
	"github.com/ecopilot/ecopilot-backend/internal/jobs"
)

// Cron specs, seconds first.
const (
	SpecDailyContent   = "0 0 0 * * *"
	SpecStreakWarnings = "0 0 21 * * *"
	SpecReEngagement   = "0 0 10 * * *"
	SpecCleanup        = "0 30 3 * * *"
	SpecDailyReminder  = "0 0 8 * * *"
	SpecEcoTip         = "0 0 12 * * *"

	taskTimeout = 15 * time.Minute
)

// Runner is the subset of jobs.Runner the schedules call.
type Runner interface {
	GenerateChallenges(ctx context.Context, from time.Time, days int) (jobs.Result, []content.DailyChallenges, error)
	GenerateTips(ctx context.Context, from time.Time, days int) (jobs.Result, []content.DailyTip, error)
	SendStreakWarnings(ctx context.Context, date time.Time) jobs.Result
	SendReEngagement(ctx context.Context, date time.Time) jobs.Result
	SendDailyReminders(ctx context.Context, date time.Time) jobs.Result
	SendEcoTip(ctx context.Context, date time.Time) jobs.Result
	Cleanup(ctx context.Context) jobs.Result
}

// Task is one scheduled job.
type Task struct {
	Name     string
	Spec     string
	Location *time.Location
	Run      func(ctx context.Context, now time.Time) error

	running atomic.Bool
}

// Tasks returns the daily schedule. reminderLoc controls the two
// user-facing reminders; nil means UTC.
func Tasks(r Runner, reminderLoc *time.Location) []*Task {
	if reminderLoc == nil {
		reminderLoc = time.UTC
	}
	return []*Task{
		{Name: "daily_content", Spec: SpecDailyContent, Location: time.UTC, Run: func(ctx context.Context, now time.Time) error {
			if _, _, err := r.GenerateChallenges(ctx, now, 1); err != nil {
				return fmt.Errorf("generate challenges: %w", err)
			}
			if _, _, err := r.GenerateTips(ctx, now, 1); err != nil {
				return fmt.Errorf("generate tips: %w", err)
			}
			return nil
		}},
		{Name: jobs.JobStreakWarnings, Spec: SpecStreakWarnings, Location: time.UTC, Run: func(ctx context.Context, now time.Time) error {
			r.SendStreakWarnings(ctx, now)
			return nil
		}},
		{Name: jobs.JobReEngagement, Spec: SpecReEngagement, Location: time.UTC, Run: func(ctx context.Context, now time.Time) error {
			r.SendReEngagement(ctx, now)
			return nil
		}},
		{Name: jobs.JobCleanup, Spec: SpecCleanup, Location: time.UTC, Run: func(ctx context.Context, _ time.Time) error {
			r.Cleanup(ctx)
			return nil
		}},
		{Name: jobs.JobDailyReminder, Spec: SpecDailyReminder, Location: reminderLoc, Run: func(ctx context.Context, now time.Time) error {
			r.SendDailyReminders(ctx, now)
			return nil
		}},
		{Name: jobs.JobEcoTip, Spec: SpecEcoTip, Location: reminderLoc, Run: func(ctx context.Context, now time.Time) error {
			r.SendEcoTip(ctx, now)
			return nil
		}},
	}
}

// Scheduler owns one cron instance per timezone.
type Scheduler struct {
	crons  []*cron.Cron
	tasks  []*Task
	logger *slog.Logger
	now    func() time.Time
	ctx    context.Context
}

// New registers tasks. It fails on an invalid spec.
func New(tasks []*Task, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{tasks: tasks, logger: logger, now: time.Now, ctx: context.Background()}
	byLoc := make(map[string]*cron.Cron)
	for _, t := range tasks {
		loc := t.Location
		if loc == nil {
			loc = time.UTC
		}
		c, ok := byLoc[loc.String()]
		if !ok {
			c = cron.NewWithLocation(loc)
			byLoc[loc.String()] = c
			s.crons = append(s.crons, c)
		}
		if err := c.AddFunc(t.Spec, func() { s.run(t, loc) }); err != nil {
			return nil, fmt.Errorf("schedule %s %q: %w", t.Name, t.Spec, err)
		}
	}
	return s, nil
}

// Entries returns the number of registered schedules.
func (s *Scheduler) Entries() int {
	n := 0
	for _, c := range s.crons {
		n += len(c.Entries())
	}
	return n
}

// Start runs the schedules. Blocks until ctx is cancelled. Intended to be
// called with `go`.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	for _, c := range s.crons {
		c.Start()
	}
	for _, t := range s.tasks {
		s.logger.Info("Job scheduled", "job", t.Name, "spec", t.Spec, "tz", t.Location.String())
	}

	<-ctx.Done()
	for _, c := range s.crons {
		c.Stop()
	}
	s.logger.Info("Scheduler stopped")
}

// run executes one firing. A task still running from the previous firing is
// skipped.
func (s *Scheduler) run(t *Task, loc *time.Location) {
	if !t.running.CompareAndSwap(false, true) {
		s.logger.Warn("Job still running, skipping", "job", t.Name)
		return
	}
	defer t.running.Store(false)

	ctx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	start := time.Now()
	now := s.now().In(loc)
	s.logger.Info("Scheduled job started", "job", t.Name, "date", content.FormatDate(now))
	if err := t.Run(ctx, now); err != nil {
		s.logger.Error("Scheduled job failed", "job", t.Name, "error", err)
		return
	}
	s.logger.Info("Scheduled job completed", "job", t.Name, "duration", time.Since(start).Round(time.Millisecond))
}
