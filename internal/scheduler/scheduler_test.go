package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/robfig/cron"

	"github.com/ecopilot/ecopilot-backend/internal/content"
	"github.com/ecopilot/ecopilot-backend/internal/jobs"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls []string
	dates []string
}

func (f *fakeRunner) record(name string, date time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	f.dates = append(f.dates, content.FormatDate(date))
}

func (f *fakeRunner) GenerateChallenges(_ context.Context, from time.Time, _ int) (jobs.Result, []content.DailyChallenges, error) {
	f.record("challenges", from)
	return jobs.Result{}, nil, nil
}

func (f *fakeRunner) GenerateTips(_ context.Context, from time.Time, _ int) (jobs.Result, []content.DailyTip, error) {
	f.record("tips", from)
	return jobs.Result{}, nil, nil
}

func (f *fakeRunner) SendStreakWarnings(_ context.Context, d time.Time) jobs.Result {
	f.record("streak", d)
	return jobs.Result{}
}

func (f *fakeRunner) SendReEngagement(_ context.Context, d time.Time) jobs.Result {
	f.record("reengage", d)
	return jobs.Result{}
}

func (f *fakeRunner) SendDailyReminders(_ context.Context, d time.Time) jobs.Result {
	f.record("reminder", d)
	return jobs.Result{}
}

func (f *fakeRunner) SendEcoTip(_ context.Context, d time.Time) jobs.Result {
	f.record("ecotip", d)
	return jobs.Result{}
}

func (f *fakeRunner) Cleanup(context.Context) jobs.Result {
	f.record("cleanup", time.Time{})
	return jobs.Result{}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTasks_NextRun(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	tasks := Tasks(&fakeRunner{}, ny)
	if len(tasks) != 6 {
		t.Fatalf("tasks = %d, want 6", len(tasks))
	}

	from := time.Date(2025, time.November, 9, 1, 0, 0, 0, time.UTC)
	// 08:00 and 12:00 EST are 13:00 and 17:00 UTC.
	want := map[string]time.Time{
		"daily_content":        time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC),
		jobs.JobStreakWarnings: time.Date(2025, time.November, 9, 21, 0, 0, 0, time.UTC),
		jobs.JobReEngagement:   time.Date(2025, time.November, 9, 10, 0, 0, 0, time.UTC),
		jobs.JobCleanup:        time.Date(2025, time.November, 9, 3, 30, 0, 0, time.UTC),
		jobs.JobDailyReminder:  time.Date(2025, time.November, 9, 13, 0, 0, 0, time.UTC),
		jobs.JobEcoTip:         time.Date(2025, time.November, 9, 17, 0, 0, 0, time.UTC),
	}
	for _, task := range tasks {
		sched, err := cron.Parse(task.Spec)
		if err != nil {
			t.Fatalf("%s: Parse(%q) error: %v", task.Name, task.Spec, err)
		}
		next := sched.Next(from.In(task.Location))
		if w, ok := want[task.Name]; !ok || !next.Equal(w) {
			t.Errorf("%s next = %s, want %s", task.Name, next.UTC(), w)
		}
	}
}

func TestNew_RegistersEntries(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	s, err := New(Tasks(&fakeRunner{}, ny), testLogger())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if s.Entries() != 6 || len(s.crons) != 2 {
		t.Errorf("entries = %d crons = %d", s.Entries(), len(s.crons))
	}
}

func TestNew_InvalidSpec(t *testing.T) {
	tasks := []*Task{{Name: "bad", Spec: "every day", Run: func(context.Context, time.Time) error { return nil }}}
	if _, err := New(tasks, testLogger()); err == nil {
		t.Error("expected error for invalid spec")
	}
}

func TestRun_PassesFiringDate(t *testing.T) {
	f := &fakeRunner{}
	s, err := New(Tasks(f, nil), testLogger())
	if err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return time.Date(2025, time.November, 9, 0, 0, 0, 0, time.UTC) }

	s.run(s.tasks[0], time.UTC)
	if len(f.calls) != 2 || f.calls[0] != "challenges" || f.calls[1] != "tips" {
		t.Fatalf("calls = %v", f.calls)
	}
	if f.dates[0] != "2025-11-09" {
		t.Errorf("date = %s", f.dates[0])
	}
}

func TestRun_SkipsOverlap(t *testing.T) {
	f := &fakeRunner{}
	s, err := New(Tasks(f, nil), testLogger())
	if err != nil {
		t.Fatal(err)
	}
	task := s.tasks[1]
	task.running.Store(true)
	s.run(task, time.UTC)
	if len(f.calls) != 0 {
		t.Errorf("overlapping run executed: %v", f.calls)
	}
}
