// Package milestone decides whether a metric transition crossed a threshold.
//
// A milestone m is crossed by (before, after) iff before < m <= after. When
// one transition crosses several milestones only the largest is reported.
// Decreases and unchanged values never report anything.
package milestone

import (
	"errors"
	"fmt"
)

// Metric names the user metric a transition belongs to.
type Metric string

const (
	Streak Metric = "streak"
	Points Metric = "points"
	Rank   Metric = "rank"
)

var (
	ErrEmptySet    = errors.New("milestone set is empty")
	ErrUnsorted    = errors.New("milestone set is not strictly ascending")
	ErrNonPositive = errors.New("milestone values must be positive")
)

// Set is a validated, strictly ascending list of thresholds.
type Set struct {
	values []int
}

// NewSet validates values. Configuration errors are meant to surface at
// startup, so callers building package-level sets use MustSet.
func NewSet(values ...int) (Set, error) {
	if len(values) == 0 {
		return Set{}, ErrEmptySet
	}
	for i, v := range values {
		if v <= 0 {
			return Set{}, fmt.Errorf("%w: %d", ErrNonPositive, v)
		}
		if i > 0 && v <= values[i-1] {
			return Set{}, fmt.Errorf("%w: %d after %d", ErrUnsorted, v, values[i-1])
		}
	}
	cp := make([]int, len(values))
	copy(cp, values)
	return Set{values: cp}, nil
}

// MustSet is NewSet that panics on invalid input.
func MustSet(values ...int) Set {
	s, err := NewSet(values...)
	if err != nil {
		panic(err)
	}
	return s
}

// Values returns a copy of the thresholds.
func (s Set) Values() []int {
	out := make([]int, len(s.values))
	copy(out, s.values)
	return out
}

// Contains reports whether v is one of the thresholds.
func (s Set) Contains(v int) bool {
	for _, m := range s.values {
		if m == v {
			return true
		}
	}
	return false
}

// Default thresholds.
var (
	// StreakMilestones merges the badge thresholds (3, 5, 10, 21...) and the
	// celebration thresholds (7, 14, 30, 50, 100, 200).
	StreakMilestones = MustSet(3, 5, 7, 10, 14, 21, 30, 50, 100, 200)
	PointsMilestones = MustSet(100, 250, 500, 750, 1000, 2500, 5000, 10000)
)

// Detect returns the largest milestone crossed by before -> after.
func Detect(before, after int, set Set) (int, bool) {
	if after <= before {
		return 0, false
	}
	for i := len(set.values) - 1; i >= 0; i-- {
		m := set.values[i]
		if m <= after {
			if before < m {
				return m, true
			}
			return 0, false
		}
	}
	return 0, false
}

// RankChanged reports whether the rank label changed. Ranks carry no
// ordering here; any change fires.
func RankChanged(before, after string) bool {
	return before != after
}
