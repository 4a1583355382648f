package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ecopilot/ecopilot-backend/internal/domain"
	"github.com/ecopilot/ecopilot-backend/internal/milestone"
	"github.com/ecopilot/ecopilot-backend/internal/store"
)

// Replay is a manual detector run for one metric. Before and After are
// numbers for streak and points, strings for rank. With a UserID the
// detected notification is also delivered.
type Replay struct {
	UserID string           `json:"userId,omitempty"`
	Metric milestone.Metric `json:"metric"`
	Before json.RawMessage  `json:"before"`
	After  json.RawMessage  `json:"after"`
}

// ReplayResult reports what the detector found.
type ReplayResult struct {
	Detected   bool        `json:"detected"`
	Transition *Transition `json:"transition,omitempty"`
	Message    *Message    `json:"message,omitempty"`
	Outcome    *Outcome    `json:"outcome,omitempty"`
}

// snapshots turns the raw values into two user snapshots carrying only the
// replayed metric.
func (r Replay) snapshots() (before, after domain.User, err error) {
	before.ID, after.ID = r.UserID, r.UserID
	switch r.Metric {
	case milestone.Streak, milestone.Points:
		var b, a int
		if err := json.Unmarshal(r.Before, &b); err != nil {
			return before, after, fmt.Errorf("%w: before: %v", ErrMalformed, err)
		}
		if err := json.Unmarshal(r.After, &a); err != nil {
			return before, after, fmt.Errorf("%w: after: %v", ErrMalformed, err)
		}
		if r.Metric == milestone.Streak {
			before.Streak, after.Streak = &b, &a
		} else {
			before.EcoPoints, after.EcoPoints = &b, &a
		}
	case milestone.Rank:
		var b, a string
		if err := json.Unmarshal(r.Before, &b); err != nil {
			return before, after, fmt.Errorf("%w: before: %v", ErrMalformed, err)
		}
		if err := json.Unmarshal(r.After, &a); err != nil {
			return before, after, fmt.Errorf("%w: after: %v", ErrMalformed, err)
		}
		before.Title, after.Title = &b, &a
	default:
		return before, after, fmt.Errorf("%w: unknown metric %q", ErrMalformed, r.Metric)
	}
	return before, after, nil
}

// HandleReplay runs the detector for r and, when r names a user, delivers
// the result exactly as the change event would have.
func (p *Pipeline) HandleReplay(ctx context.Context, r Replay) (ReplayResult, error) {
	before, after, err := r.snapshots()
	if err != nil {
		return ReplayResult{}, err
	}
	t, ok, err := TransitionFor(r.Metric, before, after)
	if err != nil || !ok {
		return ReplayResult{}, err
	}
	msg := t.Message()
	res := ReplayResult{Detected: true, Transition: &t, Message: &msg}
	if r.UserID == "" {
		return res, nil
	}

	var token string
	user, err := p.users.GetUser(ctx, r.UserID)
	switch {
	case err == nil:
		token = user.FCMToken
	case errors.Is(err, store.ErrNotFound):
	default:
		return res, fmt.Errorf("get user: %w", err)
	}

	out, err := p.dispatcher.Deliver(ctx, Delivery{
		UserID:   r.UserID,
		Token:    token,
		EventKey: t.EventKey(),
		Message:  msg,
	})
	res.Outcome = &out
	return res, err
}
