package selector

import (
	"fmt"
	"testing"
	"time"

	"github.com/ecopilot/ecopilot-backend/internal/content"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ids(entries []content.ContentEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestSeed(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		{day(2025, time.November, 9), 20251109},
		{day(2025, time.January, 1), 20250101},
		{day(1999, time.December, 31), 19991231},
		// 23:30 in New York on Nov 8 is already Nov 9 in UTC.
		{time.Date(2025, time.November, 8, 23, 30, 0, 0, time.FixedZone("EST", -5*3600)), 20251109},
	}
	for _, tt := range tests {
		if got := Seed(tt.date); got != tt.want {
			t.Errorf("Seed(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestPseudoRandom_Range(t *testing.T) {
	for x := 20240000; x < 20240500; x++ {
		r := PseudoRandom(x)
		if r < 0 || r >= 1 {
			t.Fatalf("PseudoRandom(%d) = %v, out of [0,1)", x, r)
		}
	}
}

func TestShuffle_Golden(t *testing.T) {
	pool := content.MustDefault().Challenges.Flatten()

	tests := []struct {
		date  time.Time
		count int
		want  []string
	}{
		{day(2025, time.November, 9), 2, []string{"transportation_1", "recycling_1"}},
		{day(2025, time.November, 9), 5, []string{"transportation_1", "recycling_1", "transportation_2", "consumption_2", "energy_0"}},
		{day(2025, time.January, 1), 2, []string{"transportation_3", "food_2"}},
		{day(2024, time.February, 29), 2, []string{"transportation_1", "food_4"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.date.Format("2006-01-02"), tt.count), func(t *testing.T) {
			got := ids(Shuffle(tt.date, pool, tt.count))
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("Shuffle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShuffle_Deterministic(t *testing.T) {
	pool := content.MustDefault().Challenges.Flatten()
	date := day(2025, time.November, 9)

	first := ids(Shuffle(date, pool, 2))
	for i := 0; i < 10; i++ {
		if got := ids(Shuffle(date, pool, 2)); fmt.Sprint(got) != fmt.Sprint(first) {
			t.Fatalf("run %d = %v, want %v", i, got, first)
		}
	}

	// Time of day does not matter, only the calendar date.
	late := time.Date(2025, time.November, 9, 23, 59, 59, 0, time.UTC)
	if got := ids(Shuffle(late, pool, 2)); fmt.Sprint(got) != fmt.Sprint(first) {
		t.Errorf("late in day = %v, want %v", got, first)
	}
}

func TestShuffle_BoundedAndDistinct(t *testing.T) {
	pool := content.MustDefault().Challenges.Flatten()

	for _, count := range []int{0, 1, 2, 15, 31, 32, 100} {
		for d := 0; d < 60; d++ {
			date := day(2025, time.January, 1).AddDate(0, 0, d)
			got := Shuffle(date, pool, count)

			want := min(count, len(pool))
			if len(got) != want {
				t.Fatalf("count=%d date=%s: len = %d, want %d", count, date.Format("2006-01-02"), len(got), want)
			}
			seen := make(map[string]bool)
			for _, e := range got {
				if seen[e.ID] {
					t.Fatalf("count=%d date=%s: duplicate %s", count, date.Format("2006-01-02"), e.ID)
				}
				seen[e.ID] = true
			}
		}
	}
}

func TestShuffle_DoesNotMutateInput(t *testing.T) {
	pool := content.MustDefault().Challenges.Flatten()
	before := ids(pool)
	Shuffle(day(2025, time.March, 3), pool, 31)
	if fmt.Sprint(ids(pool)) != fmt.Sprint(before) {
		t.Error("Shuffle() reordered its input")
	}
}

func TestShuffle_EmptyPool(t *testing.T) {
	if got := Shuffle(day(2025, time.March, 3), nil, 2); len(got) != 0 {
		t.Errorf("Shuffle(nil) = %v, want empty", got)
	}
}

func TestPick(t *testing.T) {
	pool := content.MustDefault().Tips.Flatten()

	tests := []struct {
		date time.Time
		want string
	}{
		{day(2025, time.November, 9), "sustainable_shopping_5"},
		{day(2025, time.January, 1), "food_habits_9"},
		{day(2026, time.October, 19), "recycling_2"},
	}
	for _, tt := range tests {
		got, ok := Pick(tt.date, pool)
		if !ok {
			t.Fatalf("Pick(%s) ok = false", tt.date)
		}
		if got.ID != tt.want {
			t.Errorf("Pick(%s) = %s, want %s", tt.date.Format("2006-01-02"), got.ID, tt.want)
		}
	}

	if _, ok := Pick(day(2025, time.January, 1), nil); ok {
		t.Error("Pick(nil) ok = true")
	}
}

func TestDailyTip(t *testing.T) {
	pool := content.MustDefault().Tips
	created := time.Date(2025, time.November, 9, 0, 0, 1, 0, time.UTC)

	tip, ok := DailyTip(day(2025, time.November, 9), pool, created)
	if !ok {
		t.Fatal("DailyTip() ok = false")
	}
	if tip.Date != "2025-11-09" || tip.Category != "sustainable_shopping" {
		t.Errorf("tip = %+v", tip)
	}
	if tip.Tip != "Avoid fast fashion - choose quality over quantity 👗" || tip.Emoji != "👗" {
		t.Errorf("tip text = %q emoji = %q", tip.Tip, tip.Emoji)
	}
}

func TestDailyChallenges(t *testing.T) {
	got := DailyChallenges(day(2025, time.November, 9), content.MustDefault().Challenges, time.Time{})
	if got.Date != "2025-11-09" {
		t.Errorf("Date = %q", got.Date)
	}
	if len(got.Challenges) != ChallengesPerDay {
		t.Fatalf("len = %d, want %d", len(got.Challenges), ChallengesPerDay)
	}
	if got.Challenges[0].Title != "Walk or bike to your destination today" {
		t.Errorf("first challenge = %q", got.Challenges[0].Title)
	}
}
