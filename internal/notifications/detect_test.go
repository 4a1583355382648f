package notifications

import (
	"errors"
	"testing"

	"github.com/ecopilot/ecopilot-backend/internal/domain"
	"github.com/ecopilot/ecopilot-backend/internal/milestone"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func snapshot(streak, points int, title string) domain.User {
	return domain.User{ID: "u1", Streak: intPtr(streak), EcoPoints: intPtr(points), Title: strPtr(title)}
}

func TestTransitionsFor(t *testing.T) {
	tests := []struct {
		name   string
		before domain.User
		after  domain.User
		want   []Transition
	}{
		{
			name:   "nothing changed",
			before: snapshot(4, 90, "Green Beginner"),
			after:  snapshot(4, 90, "Green Beginner"),
		},
		{
			name:   "streak jumps several milestones",
			before: snapshot(4, 90, "Green Beginner"),
			after:  snapshot(10, 90, "Green Beginner"),
			want:   []Transition{{UserID: "u1", Metric: milestone.Streak, Milestone: 10, After: 10}},
		},
		{
			name:   "points cross 250 and 500",
			before: snapshot(1, 200, "Green Beginner"),
			after:  snapshot(1, 510, "Green Beginner"),
			want:   []Transition{{UserID: "u1", Metric: milestone.Points, Milestone: 500, After: 510}},
		},
		{
			name:   "streak reset",
			before: snapshot(10, 90, "Green Beginner"),
			after:  snapshot(0, 90, "Green Beginner"),
		},
		{
			name:   "all three",
			before: snapshot(6, 99, "Green Beginner"),
			after:  snapshot(7, 100, "Eco Warrior"),
			want: []Transition{
				{UserID: "u1", Metric: milestone.Streak, Milestone: 7, After: 7},
				{UserID: "u1", Metric: milestone.Points, Milestone: 100, After: 100},
				{UserID: "u1", Metric: milestone.Rank, OldRank: "Green Beginner", NewRank: "Eco Warrior"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TransitionsFor(tt.before, tt.after)
			if err != nil {
				t.Fatalf("TransitionsFor() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d transitions %+v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("transition %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTransitionsFor_FailsClosed(t *testing.T) {
	before := domain.User{ID: "u1", EcoPoints: intPtr(90), Title: strPtr("Green Beginner")}
	after := domain.User{ID: "u1", Streak: intPtr(7), EcoPoints: intPtr(-5), Title: strPtr("Green Beginner")}

	got, err := TransitionsFor(before, after)
	if len(got) != 0 {
		t.Errorf("got transitions %+v for malformed input", got)
	}
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("error = %v, want ErrMalformed", err)
	}
}

func TestTransitionsFor_PartialMalformed(t *testing.T) {
	before := domain.User{ID: "u1", Streak: intPtr(2)}
	after := domain.User{ID: "u1", Streak: intPtr(3)}

	got, err := TransitionsFor(before, after)
	if len(got) != 1 || got[0].Metric != milestone.Streak || got[0].Milestone != 3 {
		t.Errorf("got %+v, want streak 3", got)
	}
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("error = %v, want ErrMalformed for points and rank", err)
	}
}

func TestTransition_EventKeyStable(t *testing.T) {
	a := Transition{UserID: "u1", Metric: milestone.Streak, Milestone: 7, After: 7}
	b := Transition{UserID: "u1", Metric: milestone.Streak, Milestone: 7, After: 8}
	if a.EventKey() != b.EventKey() {
		t.Errorf("keys differ: %s %s", a.EventKey(), b.EventKey())
	}
	p := Transition{UserID: "u1", Metric: milestone.Points, Milestone: 7}
	if a.EventKey() == p.EventKey() {
		t.Error("streak and points keys collide")
	}
}
