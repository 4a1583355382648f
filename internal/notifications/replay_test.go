package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ecopilot/ecopilot-backend/internal/domain"
	"github.com/ecopilot/ecopilot-backend/internal/milestone"
	"github.com/ecopilot/ecopilot-backend/internal/store"
)

func TestHandleReplay(t *testing.T) {
	tests := []struct {
		name          string
		replay        Replay
		wantDetected  bool
		wantMilestone int
		wantKind      Kind
	}{
		{
			name:          "streak crossing",
			replay:        Replay{Metric: milestone.Streak, Before: json.RawMessage(`6`), After: json.RawMessage(`7`)},
			wantDetected:  true,
			wantMilestone: 7,
			wantKind:      KindStreakMilestone,
		},
		{
			name:          "points crossing",
			replay:        Replay{Metric: milestone.Points, Before: json.RawMessage(`90`), After: json.RawMessage(`260`)},
			wantDetected:  true,
			wantMilestone: 250,
			wantKind:      KindPointsMilestone,
		},
		{
			name:         "rank change",
			replay:       Replay{Metric: milestone.Rank, Before: json.RawMessage(`"Green Beginner"`), After: json.RawMessage(`"Eco Warrior"`)},
			wantDetected: true,
			wantKind:     KindRankUp,
		},
		{
			name:   "no crossing",
			replay: Replay{Metric: milestone.Streak, Before: json.RawMessage(`7`), After: json.RawMessage(`8`)},
		},
	}
	p := newTestPipeline(store.NewMemory(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.HandleReplay(context.Background(), tt.replay)
			if err != nil {
				t.Fatalf("HandleReplay() error: %v", err)
			}
			if res.Detected != tt.wantDetected {
				t.Fatalf("detected = %v", res.Detected)
			}
			if !tt.wantDetected {
				return
			}
			if res.Transition.Milestone != tt.wantMilestone || res.Message.Kind != tt.wantKind {
				t.Errorf("result = %+v / %+v", res.Transition, res.Message)
			}
			if res.Outcome != nil {
				t.Error("replay without user delivered")
			}
		})
	}
}

func TestHandleReplay_Delivers(t *testing.T) {
	mem := store.NewMemory()
	mem.PutUser(domain.User{ID: "u1", FCMToken: "tok"})
	pusher := newFakePusher()
	p := newTestPipeline(mem, pusher)

	res, err := p.HandleReplay(context.Background(), Replay{
		UserID: "u1", Metric: milestone.Streak,
		Before: json.RawMessage(`29`), After: json.RawMessage(`30`),
	})
	if err != nil {
		t.Fatalf("HandleReplay() error: %v", err)
	}
	if res.Outcome == nil || !res.Outcome.Pushed || pusher.count("tok") != 1 {
		t.Errorf("outcome = %+v", res.Outcome)
	}
	if recs := mem.Notifications(); len(recs) != 1 || recs[0].ID != domain.NotificationID("streak_milestone/u1/30") {
		t.Errorf("records = %+v", recs)
	}
}

func TestHandleReplay_Malformed(t *testing.T) {
	p := newTestPipeline(store.NewMemory(), nil)
	bad := []Replay{
		{Metric: "level", Before: json.RawMessage(`1`), After: json.RawMessage(`2`)},
		{Metric: milestone.Streak, Before: json.RawMessage(`"x"`), After: json.RawMessage(`2`)},
		{Metric: milestone.Points, Before: json.RawMessage(`-5`), After: json.RawMessage(`200`)},
		{Metric: milestone.Rank, Before: json.RawMessage(`"Green Beginner"`), After: json.RawMessage(`""`)},
	}
	for i, r := range bad {
		if _, err := p.HandleReplay(context.Background(), r); !errors.Is(err, ErrMalformed) {
			t.Errorf("case %d: error = %v, want ErrMalformed", i, err)
		}
	}
}
