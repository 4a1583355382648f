package milestone

import (
	"errors"
	"testing"
)

func TestDetect(t *testing.T) {
	set := MustSet(3, 5, 7, 10, 14, 21, 30)

	tests := []struct {
		name          string
		before, after int
		want          int
		ok            bool
	}{
		{"jump reports largest", 4, 10, 10, true},
		{"exact hit", 6, 7, 7, true},
		{"from zero", 0, 3, 3, true},
		{"past last milestone", 25, 40, 30, true},
		{"between milestones", 7, 9, 0, false},
		{"already at milestone", 7, 7, 0, false},
		{"unchanged", 4, 4, 0, false},
		{"decrease across milestones", 10, 5, 0, false},
		{"decrease to zero", 30, 0, 0, false},
		{"before equal to milestone", 10, 13, 0, false},
		{"above all", 31, 100, 0, false},
		{"negative before", -5, 3, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Detect(tt.before, tt.after, set)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Detect(%d, %d) = (%d, %v), want (%d, %v)",
					tt.before, tt.after, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDetect_BelowFirstMilestone(t *testing.T) {
	if m, ok := Detect(1, 2, MustSet(3, 5, 7)); ok {
		t.Errorf("Detect(1, 2) = %d, want no event", m)
	}
}

// Detect agrees with the definition: the largest m with before < m <= after.
func TestDetect_MatchesDefinition(t *testing.T) {
	set := PointsMilestones
	for before := 0; before <= 1200; before += 37 {
		for after := 0; after <= 1200; after += 41 {
			want, wantOK := 0, false
			if after > before {
				for _, m := range set.Values() {
					if before < m && m <= after {
						want, wantOK = m, true
					}
				}
			}
			got, ok := Detect(before, after, set)
			if got != want || ok != wantOK {
				t.Fatalf("Detect(%d, %d) = (%d, %v), want (%d, %v)", before, after, got, ok, want, wantOK)
			}
		}
	}
}

func TestNewSet(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   error
	}{
		{"empty", nil, ErrEmptySet},
		{"unsorted", []int{5, 3}, ErrUnsorted},
		{"duplicate", []int{3, 3}, ErrUnsorted},
		{"zero", []int{0, 3}, ErrNonPositive},
		{"ok", []int{1, 2, 3}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSet(tt.values...)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewSet(%v) error = %v, want %v", tt.values, err, tt.want)
			}
		})
	}
}

func TestSet_ValuesIsCopy(t *testing.T) {
	s := MustSet(1, 2, 3)
	v := s.Values()
	v[0] = 99
	if s.Values()[0] != 1 {
		t.Error("Values() exposed internal slice")
	}
}

func TestRankChanged(t *testing.T) {
	if RankChanged("Green Beginner", "Green Beginner") {
		t.Error("same rank reported as change")
	}
	if !RankChanged("Eco Hero", "Green Beginner") {
		t.Error("demotion not reported; ranks are unordered")
	}
}
