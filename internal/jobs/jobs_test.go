package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ecopilot/ecopilot-backend/internal/content"
	"github.com/ecopilot/ecopilot-backend/internal/domain"
	"github.com/ecopilot/ecopilot-backend/internal/notifications"
	"github.com/ecopilot/ecopilot-backend/internal/store"
)

type recordingPusher struct {
	mu   sync.Mutex
	msgs map[string][]notifications.Message
}

func (p *recordingPusher) Push(_ context.Context, token string, msg notifications.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.msgs == nil {
		p.msgs = make(map[string][]notifications.Message)
	}
	p.msgs[token] = append(p.msgs[token], msg)
	return nil
}

func (p *recordingPusher) sent(token string) []notifications.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.msgs[token]
}

func intPtr(v int) *int { return &v }

var nov9 = time.Date(2025, time.November, 9, 0, 0, 0, 0, time.UTC)

func newTestRunner(t *testing.T) (*Runner, *store.Memory, *recordingPusher) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := store.NewMemory()
	pusher := &recordingPusher{}
	d := notifications.NewDispatcher(mem, pusher, nil, 4, logger)
	r := NewRunner(mem, content.MustDefault(), d, Options{InactiveDays: 3}, logger)
	r.now = func() time.Time { return nov9.Add(6 * time.Hour) }
	return r, mem, pusher
}

func TestGenerateChallenges(t *testing.T) {
	ctx := context.Background()
	r, mem, _ := newTestRunner(t)

	res, out, err := r.GenerateChallenges(ctx, nov9, DefaultGenerateDays)
	if err != nil {
		t.Fatalf("GenerateChallenges() error: %v", err)
	}
	if res.Generated != 8 || len(out) != 8 {
		t.Fatalf("generated = %d (%d)", res.Generated, len(out))
	}
	if res.Dates[0] != "2025-11-09" || res.Dates[7] != "2025-11-16" {
		t.Errorf("dates = %v", res.Dates)
	}

	dc, err := mem.GetDailyChallenges(ctx, "2025-11-09")
	if err != nil {
		t.Fatal(err)
	}
	if len(dc.Challenges) != 2 || dc.Challenges[0].ID != "transportation_1" || dc.Challenges[1].ID != "recycling_1" {
		t.Errorf("challenges = %+v", dc.Challenges)
	}

	// The preview equals what was persisted.
	if p := r.PreviewChallenges(nov9); p.Challenges[0].ID != dc.Challenges[0].ID || p.Challenges[1].ID != dc.Challenges[1].ID {
		t.Errorf("preview = %+v", p.Challenges)
	}
}

func TestGenerate_InvalidDays(t *testing.T) {
	r, _, _ := newTestRunner(t)
	for _, days := range []int{0, -1, 400} {
		if _, _, err := r.GenerateChallenges(context.Background(), nov9, days); !errors.Is(err, ErrInvalidDays) {
			t.Errorf("days=%d: error = %v", days, err)
		}
		if _, _, err := r.GenerateTips(context.Background(), nov9, days); !errors.Is(err, ErrInvalidDays) {
			t.Errorf("days=%d: error = %v", days, err)
		}
	}
}

func TestGenerateTips(t *testing.T) {
	ctx := context.Background()
	r, mem, _ := newTestRunner(t)

	res, _, err := r.GenerateTips(ctx, nov9, 1)
	if err != nil || res.Generated != 1 {
		t.Fatalf("res = %+v err = %v", res, err)
	}
	tip, err := mem.GetDailyTip(ctx, "2025-11-09")
	if err != nil {
		t.Fatal(err)
	}
	if tip.ID != "sustainable_shopping_5" || !strings.HasPrefix(tip.Tip, "Avoid fast fashion") {
		t.Errorf("tip = %+v", tip)
	}
}

func TestSendStreakWarnings(t *testing.T) {
	ctx := context.Background()
	r, mem, pusher := newTestRunner(t)

	mem.PutUser(domain.User{ID: "at-risk", Streak: intPtr(12), FCMToken: "t1"})
	mem.PutUser(domain.User{ID: "done", Streak: intPtr(4), FCMToken: "t2"})
	mem.PutUser(domain.User{ID: "partial", Streak: intPtr(1), FCMToken: "t3"})
	mem.PutUser(domain.User{ID: "nostreak", FCMToken: "t4"})
	mem.PutUser(domain.User{ID: "notoken", Streak: intPtr(9)})
	mem.PutUserChallenge(domain.UserChallenge{UserID: "done", Date: "2025-11-09", Completed: []bool{true, true}})
	mem.PutUserChallenge(domain.UserChallenge{UserID: "partial", Date: "2025-11-09", Completed: []bool{true, false}})

	res := r.SendStreakWarnings(ctx, nov9)
	if len(res.Errors) != 0 {
		t.Fatalf("errors = %v", res.Errors)
	}
	if res.Recipients != 2 || res.Delivery.Pushed != 2 {
		t.Fatalf("result = %s", res.Summary())
	}
	if got := pusher.sent("t1"); len(got) != 1 || got[0].Title != "🚨 URGENT: Streak Warning!" {
		t.Errorf("t1 = %+v", got)
	}
	if got := pusher.sent("t3"); len(got) != 1 || got[0].Kind != notifications.KindStreakWarning {
		t.Errorf("t3 = %+v", got)
	}
	for _, tok := range []string{"t2", "t4"} {
		if len(pusher.sent(tok)) != 0 {
			t.Errorf("%s was warned", tok)
		}
	}

	// A re-run for the same date overwrites the same records.
	r.SendStreakWarnings(ctx, nov9)
	if n := len(mem.Notifications()); n != 2 {
		t.Errorf("records = %d, want 2", n)
	}
}

func TestSendReEngagement(t *testing.T) {
	r, mem, pusher := newTestRunner(t)
	mem.PutUser(domain.User{ID: "never", FCMToken: "t1"})
	mem.PutUser(domain.User{ID: "lapsed", Streak: intPtr(8), LastChallengeDate: "2025-11-05", FCMToken: "t2"})
	mem.PutUser(domain.User{ID: "recent", Streak: intPtr(2), LastChallengeDate: "2025-11-06", FCMToken: "t3"})

	res := r.SendReEngagement(context.Background(), nov9)
	if res.Recipients != 2 || res.Skipped != 1 {
		t.Fatalf("result = %s", res.Summary())
	}
	if got := pusher.sent("t2"); len(got) != 1 || got[0].Title != "🔥 Your 8-Day Streak Awaits!" {
		t.Errorf("t2 = %+v", got)
	}
	if got := pusher.sent("t1"); len(got) != 1 || got[0].Title != "🌱 Ready to Start?" {
		t.Errorf("t1 = %+v", got)
	}
	if len(pusher.sent("t3")) != 0 {
		t.Error("recent user was nudged")
	}
}

func TestSendDailyRemindersAndEcoTip(t *testing.T) {
	ctx := context.Background()
	r, mem, pusher := newTestRunner(t)
	mem.PutUser(domain.User{ID: "a", FCMToken: "t1"})
	mem.PutUser(domain.User{ID: "b", FCMToken: "t2"})

	if res := r.SendDailyReminders(ctx, nov9); res.Delivery.Pushed != 2 {
		t.Errorf("reminders = %s", res.Summary())
	}
	if res := r.SendEcoTip(ctx, nov9); res.Delivery.Pushed != 2 {
		t.Errorf("eco tip = %s", res.Summary())
	}

	got := pusher.sent("t1")
	if len(got) != 2 {
		t.Fatalf("t1 messages = %d", len(got))
	}
	if got[0].Kind != notifications.KindDailyReminder {
		t.Errorf("first = %+v", got[0])
	}
	tip := got[1]
	if tip.Kind != notifications.KindEcoTip || !strings.HasPrefix(tip.Body, "📦 Recycle cardboard boxes") {
		t.Errorf("eco tip = %+v", tip)
	}
	if len(mem.Notifications()) != 4 {
		t.Errorf("records = %d, want 4", len(mem.Notifications()))
	}
}

func TestBroadcast(t *testing.T) {
	ctx := context.Background()
	r, mem, pusher := newTestRunner(t)
	mem.PutUser(domain.User{ID: "a", FCMToken: "t1"})

	if _, err := r.Broadcast(ctx, " ", "body", ""); !errors.Is(err, notifications.ErrMalformed) {
		t.Errorf("error = %v, want ErrMalformed", err)
	}

	res, err := r.Broadcast(ctx, "Earth Hour", "Lights out at 8:30pm", "")
	if err != nil || res.Delivery.Pushed != 1 {
		t.Fatalf("res = %+v err = %v", res, err)
	}
	// Every broadcast is a distinct event.
	if _, err := r.Broadcast(ctx, "Earth Hour", "Lights out at 8:30pm", ""); err != nil {
		t.Fatal(err)
	}
	if len(pusher.sent("t1")) != 2 || len(mem.Notifications()) != 2 {
		t.Errorf("pushes = %d records = %d", len(pusher.sent("t1")), len(mem.Notifications()))
	}
	if c := mem.Notifications()[0].Category; c != notifications.CategoryGeneral {
		t.Errorf("category = %q", c)
	}
}

func TestCheckStreak(t *testing.T) {
	ctx := context.Background()
	r, mem, pusher := newTestRunner(t)
	mem.PutUser(domain.User{ID: "a", Streak: intPtr(5), FCMToken: "t1"})
	mem.PutUser(domain.User{ID: "b", Streak: intPtr(5)})

	check, err := r.CheckStreak(ctx, "a", nov9)
	if err != nil {
		t.Fatalf("CheckStreak() error: %v", err)
	}
	if !check.Sent || check.Streak != 5 || check.CompletedToday {
		t.Errorf("check = %+v", check)
	}
	if got := pusher.sent("t1"); len(got) != 1 || got[0].Title != "🔥 Your Streak Is At Risk!" {
		t.Errorf("pushes = %+v", got)
	}

	if _, err := r.CheckStreak(ctx, "b", nov9); !errors.Is(err, ErrNoPushToken) {
		t.Errorf("error = %v, want ErrNoPushToken", err)
	}
	if _, err := r.CheckStreak(ctx, "ghost", nov9); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}

	mem.PutUserChallenge(domain.UserChallenge{UserID: "a", Date: "2025-11-10", Completed: []bool{true, true}})
	check, err = r.CheckStreak(ctx, "a", nov9.AddDate(0, 0, 1))
	if err != nil || check.Sent || !check.CompletedToday {
		t.Errorf("check = %+v err = %v", check, err)
	}
}

func TestCleanup(t *testing.T) {
	ctx := context.Background()
	r, mem, _ := newTestRunner(t)
	now := r.now()

	old := domain.Notification{ID: "old", UserID: "a", Read: true, CreatedAt: now.AddDate(0, 0, -40)}
	unread := domain.Notification{ID: "unread", UserID: "a", CreatedAt: now.AddDate(0, 0, -40)}
	fresh := domain.Notification{ID: "fresh", UserID: "a", Read: true, CreatedAt: now.AddDate(0, 0, -1)}
	for _, n := range []domain.Notification{old, unread, fresh} {
		if err := mem.SaveNotification(ctx, n); err != nil {
			t.Fatal(err)
		}
	}

	res := r.Cleanup(ctx)
	if res.Purged != 1 {
		t.Errorf("purged = %d, want 1", res.Purged)
	}
	if n := len(mem.Notifications()); n != 2 {
		t.Errorf("remaining = %d, want 2", n)
	}
}

func TestSeedSampleProduct(t *testing.T) {
	r, mem, _ := newTestRunner(t)
	p, err := r.SeedSampleProduct(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != "sample_mineral_water" || len(mem.Products()) != 1 {
		t.Errorf("product = %+v", p)
	}
}

func TestResultSummary(t *testing.T) {
	res := Result{Job: JobCleanup, Date: "2025-11-09", Purged: 3, Errors: []string{"x"}}
	s := res.Summary()
	for _, want := range []string{"job=cleanup", "purged=3", "errors=1"} {
		if !strings.Contains(s, want) {
			t.Errorf("Summary() = %q, missing %q", s, want)
		}
	}
}
