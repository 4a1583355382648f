package notifications

import (
	"errors"
	"fmt"

	"github.com/ecopilot/ecopilot-backend/internal/domain"
	"github.com/ecopilot/ecopilot-backend/internal/milestone"
)

// Transition is one detected change of a user metric.
type Transition struct {
	UserID string           `json:"userId"`
	Metric milestone.Metric `json:"metric"`
	// Milestone is the crossed threshold (streak and points only).
	Milestone int `json:"milestone,omitempty"`
	// After is the new numeric value (streak and points only).
	After   int    `json:"after,omitempty"`
	OldRank string `json:"oldRank,omitempty"`
	NewRank string `json:"newRank,omitempty"`
}

// Message builds the notification for the transition.
func (t Transition) Message() Message {
	switch t.Metric {
	case milestone.Streak:
		return BuildStreakMilestone(t.Milestone, t.After)
	case milestone.Points:
		return BuildPointsMilestone(t.Milestone, t.After)
	default:
		return BuildRankUp(t.OldRank, t.NewRank)
	}
}

// EventKey identifies the transition independently of how it was observed,
// so the same crossing reported twice maps to one record.
func (t Transition) EventKey() string {
	switch t.Metric {
	case milestone.Rank:
		return fmt.Sprintf("%s/%s/%s", KindRankUp, t.UserID, t.NewRank)
	case milestone.Points:
		return fmt.Sprintf("%s/%s/%d", KindPointsMilestone, t.UserID, t.Milestone)
	default:
		return fmt.Sprintf("%s/%s/%d", KindStreakMilestone, t.UserID, t.Milestone)
	}
}

// TransitionFor runs the detector for one metric over two snapshots.
// A missing or negative value in either snapshot is reported as ErrMalformed
// and yields no transition.
func TransitionFor(metric milestone.Metric, before, after domain.User) (Transition, bool, error) {
	t := Transition{UserID: after.ID, Metric: metric}
	switch metric {
	case milestone.Streak, milestone.Points:
		set := milestone.StreakMilestones
		b, a := before.Streak, after.Streak
		if metric == milestone.Points {
			set = milestone.PointsMilestones
			b, a = before.EcoPoints, after.EcoPoints
		}
		if b == nil || a == nil {
			return t, false, fmt.Errorf("%w: %s missing", ErrMalformed, metric)
		}
		if *b < 0 || *a < 0 {
			return t, false, fmt.Errorf("%w: %s negative (%d -> %d)", ErrMalformed, metric, *b, *a)
		}
		m, ok := milestone.Detect(*b, *a, set)
		if !ok {
			return t, false, nil
		}
		t.Milestone, t.After = m, *a
		return t, true, nil

	case milestone.Rank:
		if before.Title == nil || after.Title == nil || *after.Title == "" {
			return t, false, fmt.Errorf("%w: rank missing", ErrMalformed)
		}
		if !milestone.RankChanged(*before.Title, *after.Title) {
			return t, false, nil
		}
		t.OldRank, t.NewRank = *before.Title, *after.Title
		return t, true, nil

	default:
		return t, false, fmt.Errorf("%w: unknown metric %q", ErrMalformed, metric)
	}
}

// TransitionsFor detects every metric transition between two snapshots of
// the same user. Metrics that could not be evaluated are joined into the
// returned error; the transitions that were detected are still returned.
func TransitionsFor(before, after domain.User) ([]Transition, error) {
	var (
		out  []Transition
		errs []error
	)
	for _, metric := range []milestone.Metric{milestone.Streak, milestone.Points, milestone.Rank} {
		t, ok, err := TransitionFor(metric, before, after)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			out = append(out, t)
		}
	}
	return out, errors.Join(errs...)
}
