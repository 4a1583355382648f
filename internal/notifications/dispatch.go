package notifications

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ecopilot/ecopilot-backend/internal/domain"
)

// Recorder persists notification records.
type Recorder interface {
	SaveNotification(ctx context.Context, n domain.Notification) error
	// ClearPushToken removes token from the user if it is still the one on
	// record.
	ClearPushToken(ctx context.Context, userID, token string) error
}

// Claimer grants each event key once.
type Claimer interface {
	Claim(ctx context.Context, key string) (bool, error)
}

// Dispatcher persists and pushes built messages.
type Dispatcher struct {
	records     Recorder
	pusher      Pusher
	guard       Claimer
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
}

// NewDispatcher creates a dispatcher. pusher and guard may be nil: without a
// pusher records are only persisted, without a guard every call may push.
func NewDispatcher(records Recorder, pusher Pusher, guard Claimer, concurrency int, logger *slog.Logger) *Dispatcher {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Dispatcher{
		records:     records,
		pusher:      pusher,
		guard:       guard,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
	}
}

// Deliver persists the record for d and then attempts one push if the user
// has a token. Only a persistence failure is returned as an error; push
// failures are logged and reported in the outcome.
func (d *Dispatcher) Deliver(ctx context.Context, del Delivery) (Outcome, error) {
	out := Outcome{UserID: del.UserID}
	if del.UserID == "" {
		out.Error = "missing user id"
		return out, ErrMalformed
	}

	out.RecordID = uuid.NewString()
	if del.EventKey != "" {
		out.RecordID = domain.NotificationID(del.EventKey)
	}
	rec := domain.Notification{
		ID:        out.RecordID,
		UserID:    del.UserID,
		Title:     del.Message.Title,
		Body:      del.Message.Body,
		Category:  del.Message.Category,
		Data:      del.Message.Data,
		Read:      false,
		CreatedAt: d.now().UTC(),
	}
	if err := d.records.SaveNotification(ctx, rec); err != nil {
		out.Error = err.Error()
		return out, err
	}
	out.Persisted = true

	if del.Token == "" || d.pusher == nil {
		return out, nil
	}

	if d.guard != nil && del.EventKey != "" {
		first, err := d.guard.Claim(ctx, "push:"+del.EventKey)
		if err != nil {
			// A broken guard must not stop delivery.
			d.logger.Warn("Dedupe claim failed", "event", del.EventKey, "error", err)
		} else if !first {
			out.Duplicate = true
			d.logger.Debug("Push already sent", "event", del.EventKey, "user_id", del.UserID)
			return out, nil
		}
	}

	if err := d.pusher.Push(ctx, del.Token, del.Message); err != nil {
		out.PushReason = reasonOf(err)
		d.logger.Warn("Push failed",
			"user_id", del.UserID, "type", del.Message.Kind, "reason", out.PushReason, "error", err)
		if out.PushReason == ReasonUnregistered {
			if err := d.records.ClearPushToken(ctx, del.UserID, del.Token); err != nil {
				d.logger.Warn("Failed to clear push token", "user_id", del.UserID, "error", err)
			}
		}
		return out, nil
	}
	out.Pushed = true
	return out, nil
}

// FanOut delivers every item concurrently, bounded by the dispatcher's
// concurrency, and waits for all of them. One failure never stops the rest.
func (d *Dispatcher) FanOut(ctx context.Context, deliveries []Delivery) BatchResult {
	outcomes := make([]Outcome, len(deliveries))

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, del := range deliveries {
		g.Go(func() error {
			out, err := d.Deliver(ctx, del)
			if err != nil {
				d.logger.Warn("Delivery failed", "user_id", del.UserID, "error", err)
			}
			outcomes[i] = out
			return nil
		})
	}
	_ = g.Wait()

	result := BatchResult{Outcomes: make([]Outcome, 0, len(outcomes))}
	for _, o := range outcomes {
		result.add(o)
	}
	return result
}

func reasonOf(err error) Reason {
	var pe *PushError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return ReasonUnknown
}
