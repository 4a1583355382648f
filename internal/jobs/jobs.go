// Package jobs implements the scheduled and manual jobs: daily content
// generation, reminder fan-outs, broadcasts and housekeeping. Every job takes
// its date explicitly, so a manual run for a date produces exactly what the
// scheduled run would have.
package jobs

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ecopilot/ecopilot-backend/internal/content"
	"github.com/ecopilot/ecopilot-backend/internal/notifications"
	"github.com/ecopilot/ecopilot-backend/internal/store"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// DefaultGenerateDays matches the seeding tool: today plus a week.
	DefaultGenerateDays = 8
	maxGenerateDays     = 366
)

// Job names, used in results and logs.
const (
	JobChallenges     = "challenges"
	JobTips           = "tips"
	JobStreakWarnings = "streak_warnings"
	JobReEngagement   = "re_engagement"
	JobDailyReminder  = "daily_reminder"
	JobEcoTip         = "eco_tip"
	JobBroadcast      = "broadcast"
	JobCleanup        = "cleanup"
)

var (
	ErrNoPushToken = errors.New("user has no push token")
	ErrInvalidDays = errors.New("days out of range")
)

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Result tracks the outcome of one job run.
type Result struct {
	Job        string                     `json:"job"`
	Date       string                     `json:"date"`
	Generated  int                        `json:"generated,omitempty"`
	Dates      []string                   `json:"dates,omitempty"`
	Recipients int                        `json:"recipients,omitempty"`
	Skipped    int                        `json:"skipped,omitempty"`
	Purged     int                        `json:"purged,omitempty"`
	Delivery   *notifications.BatchResult `json:"delivery,omitempty"`
	Duration   time.Duration              `json:"duration"`
	Errors     []string                   `json:"errors,omitempty"`
}

// Summary returns a human-readable summary.
func (r *Result) Summary() string {
	s := fmt.Sprintf("job=%s date=%s", r.Job, r.Date)
	if r.Generated > 0 {
		s += fmt.Sprintf(" generated=%d", r.Generated)
	}
	if r.Delivery != nil {
		s += fmt.Sprintf(" recipients=%d persisted=%d pushed=%d push_failed=%d failed=%d",
			r.Recipients, r.Delivery.Persisted, r.Delivery.Pushed, r.Delivery.PushFailed, r.Delivery.Failed)
	}
	if r.Skipped > 0 {
		s += fmt.Sprintf(" skipped=%d", r.Skipped)
	}
	if r.Job == JobCleanup {
		s += fmt.Sprintf(" purged=%d", r.Purged)
	}
	s += fmt.Sprintf(" errors=%d dur=%s", len(r.Errors), r.Duration.Round(time.Millisecond))
	return s
}

// StreakCheck is the result of a manual streak check for one user.
type StreakCheck struct {
	UserID         string                 `json:"userId"`
	Date           string                 `json:"date"`
	Streak         int                    `json:"streak"`
	CompletedToday bool                   `json:"completedToday"`
	Sent           bool                   `json:"sent"`
	Outcome        *notifications.Outcome `json:"outcome,omitempty"`
}

// Options configure a Runner.
type Options struct {
	InactiveDays int
	Retention    time.Duration
}

// Runner executes jobs against a store.
type Runner struct {
	store      store.Store
	catalog    *content.Catalog
	dispatcher *notifications.Dispatcher
	opts       Options
	logger     *slog.Logger
	now        func() time.Time
}

// NewRunner creates a job runner.
func NewRunner(st store.Store, catalog *content.Catalog, dispatcher *notifications.Dispatcher, opts Options, logger *slog.Logger) *Runner {
	if opts.InactiveDays <= 0 {
		opts.InactiveDays = 3
	}
	if opts.Retention <= 0 {
		opts.Retention = 30 * 24 * time.Hour
	}
	return &Runner{
		store:      st,
		catalog:    catalog,
		dispatcher: dispatcher,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

// Catalog returns the loaded content catalog.
func (r *Runner) Catalog() *content.Catalog {
	return r.catalog
}

func (r *Runner) finish(res *Result, start time.Time) {
	res.Duration = time.Since(start)
	if len(res.Errors) > 0 {
		r.logger.Error("Job finished with errors", "summary", res.Summary())
		return
	}
	r.logger.Info("Job finished", "summary", res.Summary())
}
