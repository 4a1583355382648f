package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/ecopilot/ecopilot-backend/internal/domain"
	"github.com/ecopilot/ecopilot-backend/internal/store"
)

func newTestPipeline(mem *store.Memory, pusher Pusher) *Pipeline {
	return NewPipeline(mem, NewDispatcher(mem, pusher, nil, 4, testLogger()), testLogger())
}

func TestHandleUserUpdated(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	pusher := newFakePusher()
	p := newTestPipeline(mem, pusher)

	before := snapshot(6, 240, "Green Beginner")
	after := snapshot(7, 260, "Green Beginner")
	after.FCMToken = "tok"

	res, err := p.HandleUserUpdated(ctx, UserUpdated{UserID: "u1", Before: before, After: after})
	if err != nil {
		t.Fatalf("HandleUserUpdated() error: %v", err)
	}
	if res.Total != 2 || res.Pushed != 2 {
		t.Fatalf("result = %+v", res)
	}
	recs := mem.Notifications()
	kinds := map[string]bool{}
	for _, r := range recs {
		kinds[r.Data["type"]] = true
		if r.UserID != "u1" || r.Read {
			t.Errorf("record = %+v", r)
		}
	}
	if !kinds[string(KindStreakMilestone)] || !kinds[string(KindPointsMilestone)] {
		t.Errorf("record kinds = %v", kinds)
	}

	// Replaying the same change overwrites rather than duplicates.
	if _, err := p.HandleUserUpdated(ctx, UserUpdated{UserID: "u1", Before: before, After: after}); err != nil {
		t.Fatal(err)
	}
	if n := len(mem.Notifications()); n != 2 {
		t.Errorf("records after replay = %d, want 2", n)
	}
}

func TestHandleUserUpdated_Decrease(t *testing.T) {
	mem := store.NewMemory()
	p := newTestPipeline(mem, newFakePusher())
	res, err := p.HandleUserUpdated(context.Background(), UserUpdated{
		UserID: "u1",
		Before: snapshot(10, 500, "Eco Warrior"),
		After:  snapshot(0, 500, "Eco Warrior"),
	})
	if err != nil || res.Total != 0 || len(mem.Notifications()) != 0 {
		t.Errorf("res = %+v err = %v records = %d", res, err, len(mem.Notifications()))
	}
}

func TestHandleUserUpdated_MissingUser(t *testing.T) {
	p := newTestPipeline(store.NewMemory(), nil)
	if _, err := p.HandleUserUpdated(context.Background(), UserUpdated{}); !errors.Is(err, ErrMalformed) {
		t.Errorf("error = %v, want ErrMalformed", err)
	}
}

func TestHandleProductScanned(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	mem.PutUser(domain.User{ID: "u1", FCMToken: "tok"})
	pusher := newFakePusher()
	p := newTestPipeline(mem, pusher)

	out, err := p.HandleProductScanned(ctx, ProductScanned{
		UserID: "u1", ProductID: "p1",
		Product: domain.ScannedProduct{Name: "Oat Milk", EcoScore: intPtr(85)},
	})
	if err != nil {
		t.Fatalf("HandleProductScanned() error: %v", err)
	}
	if !out.Persisted || !out.Pushed {
		t.Errorf("outcome = %+v", out)
	}
	recs := mem.Notifications()
	if len(recs) != 1 || recs[0].Title != "Excellent Choice! 🌟" || recs[0].Data["productId"] != "p1" {
		t.Errorf("records = %+v", recs)
	}
}

func TestHandleProductScanned_UnknownUserStillRecorded(t *testing.T) {
	mem := store.NewMemory()
	p := newTestPipeline(mem, newFakePusher())
	out, err := p.HandleProductScanned(context.Background(), ProductScanned{
		UserID: "ghost", ProductID: "p1",
		Product: domain.ScannedProduct{EcoScore: intPtr(20)},
	})
	if err != nil || !out.Persisted || out.Pushed {
		t.Errorf("outcome = %+v err = %v", out, err)
	}
}

func TestHandleProductScanned_Malformed(t *testing.T) {
	mem := store.NewMemory()
	p := newTestPipeline(mem, newFakePusher())
	tests := []ProductScanned{
		{UserID: "u1", ProductID: "p1"},
		{UserID: "u1", ProductID: "p1", Product: domain.ScannedProduct{EcoScore: intPtr(-1)}},
		{UserID: "u1", ProductID: "p1", Product: domain.ScannedProduct{EcoScore: intPtr(101)}},
		{ProductID: "p1", Product: domain.ScannedProduct{EcoScore: intPtr(50)}},
	}
	for i, ev := range tests {
		if _, err := p.HandleProductScanned(context.Background(), ev); !errors.Is(err, ErrMalformed) {
			t.Errorf("case %d: error = %v, want ErrMalformed", i, err)
		}
	}
	if len(mem.Notifications()) != 0 {
		t.Error("malformed events produced records")
	}
}

func TestHandleUserChallengeUpdated(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	mem.PutUser(domain.User{ID: "user-a", Streak: intPtr(2)})
	p := newTestPipeline(mem, nil)

	ev := UserChallengeUpdated{
		DocID:  "user-a-2025-11-09",
		Before: domain.UserChallenge{Completed: []bool{true, false}},
		After:  domain.UserChallenge{Completed: []bool{true, true}},
	}
	u, changed, err := p.HandleUserChallengeUpdated(ctx, ev)
	if err != nil || !changed {
		t.Fatalf("changed = %v err = %v", changed, err)
	}
	if u.StreakValue() != 3 || u.LastChallengeDate != "2025-11-09" {
		t.Errorf("user = %+v", u)
	}

	// Already complete before: no change.
	ev.Before = ev.After
	if _, changed, _ := p.HandleUserChallengeUpdated(ctx, ev); changed {
		t.Error("unchanged completion advanced the streak")
	}

	bad := UserChallengeUpdated{DocID: "nodate", After: domain.UserChallenge{Completed: []bool{true}}}
	if _, _, err := p.HandleUserChallengeUpdated(ctx, bad); !errors.Is(err, ErrMalformed) {
		t.Errorf("error = %v, want ErrMalformed", err)
	}

	missing := UserChallengeUpdated{DocID: "nobody-2025-11-09", After: domain.UserChallenge{Completed: []bool{true}}}
	if _, _, err := p.HandleUserChallengeUpdated(ctx, missing); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
