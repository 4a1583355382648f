package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ecopilot/ecopilot-backend/internal/domain"
	"github.com/ecopilot/ecopilot-backend/internal/store"
)

// UserStore is the part of the store the event pipeline reads and updates.
type UserStore interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
	CompleteChallengeDay(ctx context.Context, userID, date string) (domain.User, error)
}

// UserUpdated is a users/{id} change.
type UserUpdated struct {
	EventID string      `json:"eventId"`
	UserID  string      `json:"userId"`
	Before  domain.User `json:"before"`
	After   domain.User `json:"after"`
}

// ProductScanned is the creation of users/{uid}/scannedProducts/{pid}.
type ProductScanned struct {
	EventID   string                `json:"eventId"`
	UserID    string                `json:"userId"`
	ProductID string                `json:"productId"`
	Product   domain.ScannedProduct `json:"product"`
}

// UserChallengeUpdated is a user_challenges/{uid}-{date} change.
type UserChallengeUpdated struct {
	EventID string               `json:"eventId"`
	DocID   string               `json:"docId"`
	Before  domain.UserChallenge `json:"before"`
	After   domain.UserChallenge `json:"after"`
}

// Pipeline reacts to document changes.
type Pipeline struct {
	users      UserStore
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewPipeline creates an event pipeline.
func NewPipeline(users UserStore, dispatcher *Dispatcher, logger *slog.Logger) *Pipeline {
	return &Pipeline{users: users, dispatcher: dispatcher, logger: logger}
}

// HandleUserUpdated detects streak, points and rank transitions and delivers
// one notification per detected transition.
func (p *Pipeline) HandleUserUpdated(ctx context.Context, ev UserUpdated) (BatchResult, error) {
	if ev.UserID == "" {
		return BatchResult{}, fmt.Errorf("%w: user id required", ErrMalformed)
	}
	ev.Before.ID, ev.After.ID = ev.UserID, ev.UserID

	transitions, err := TransitionsFor(ev.Before, ev.After)
	if err != nil {
		p.logger.Warn("User update skipped metrics", "user_id", ev.UserID, "event_id", ev.EventID, "error", err)
	}
	if len(transitions) == 0 {
		return BatchResult{Outcomes: []Outcome{}}, nil
	}

	deliveries := make([]Delivery, 0, len(transitions))
	for _, t := range transitions {
		deliveries = append(deliveries, Delivery{
			UserID:   ev.UserID,
			Token:    ev.After.FCMToken,
			EventKey: t.EventKey(),
			Message:  t.Message(),
		})
	}
	result := p.dispatcher.FanOut(ctx, deliveries)
	p.logger.Info("User update processed",
		"user_id", ev.UserID, "transitions", len(transitions), "pushed", result.Pushed)
	return result, nil
}

// HandleProductScanned delivers eco-score feedback for a scanned product.
func (p *Pipeline) HandleProductScanned(ctx context.Context, ev ProductScanned) (Outcome, error) {
	if ev.UserID == "" || ev.ProductID == "" {
		return Outcome{}, fmt.Errorf("%w: user and product id required", ErrMalformed)
	}
	score := ev.Product.EcoScore
	if score == nil {
		return Outcome{}, fmt.Errorf("%w: ecoScore missing", ErrMalformed)
	}
	if *score < 0 || *score > 100 {
		return Outcome{}, fmt.Errorf("%w: ecoScore %d out of range", ErrMalformed, *score)
	}

	var token string
	user, err := p.users.GetUser(ctx, ev.UserID)
	switch {
	case err == nil:
		token = user.FCMToken
	case errors.Is(err, store.ErrNotFound):
		p.logger.Debug("Scan for unknown user", "user_id", ev.UserID)
	default:
		return Outcome{}, fmt.Errorf("get user: %w", err)
	}

	msg := BuildScanInsight(ev.ProductID, ev.Product.DisplayName(), *score)
	return p.dispatcher.Deliver(ctx, Delivery{
		UserID:   ev.UserID,
		Token:    token,
		EventKey: fmt.Sprintf("%s/%s/%s", KindScanInsight, ev.UserID, ev.ProductID),
		Message:  msg,
	})
}

// HandleUserChallengeUpdated advances the user's streak when the day's
// challenges flip to all completed. It reports whether the streak changed.
// Milestones for the new streak are detected from the resulting user change.
func (p *Pipeline) HandleUserChallengeUpdated(ctx context.Context, ev UserChallengeUpdated) (domain.User, bool, error) {
	if ev.Before.AllCompleted() || !ev.After.AllCompleted() {
		return domain.User{}, false, nil
	}
	userID, date, ok := domain.SplitUserChallengeID(ev.DocID)
	if !ok {
		return domain.User{}, false, fmt.Errorf("%w: document id %q", ErrMalformed, ev.DocID)
	}

	user, err := p.users.CompleteChallengeDay(ctx, userID, date)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("complete challenge day: %w", err)
	}
	p.logger.Info("Streak updated", "user_id", userID, "date", date, "streak", user.StreakValue())
	return user, true, nil
}
