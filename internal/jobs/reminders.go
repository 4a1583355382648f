package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ecopilot/ecopilot-backend/internal/content"
	"github.com/ecopilot/ecopilot-backend/internal/domain"
	"github.com/ecopilot/ecopilot-backend/internal/notifications"
	"github.com/ecopilot/ecopilot-backend/internal/store"
)

func eventKey(kind notifications.Kind, scope, userID string) string {
	return string(kind) + "/" + scope + "/" + userID
}

// fanOut delivers one message per selected user and fills res.
func (r *Runner) fanOut(ctx context.Context, res *Result, users []domain.User, build func(domain.User) (notifications.Delivery, bool)) {
	deliveries := make([]notifications.Delivery, 0, len(users))
	for _, u := range users {
		d, ok := build(u)
		if !ok {
			res.Skipped++
			continue
		}
		deliveries = append(deliveries, d)
	}
	res.Recipients = len(deliveries)
	batch := r.dispatcher.FanOut(ctx, deliveries)
	res.Delivery = &batch
	for _, o := range batch.Outcomes {
		if o.Error != "" && !o.Persisted {
			res.Errors = append(res.Errors, o.UserID+": "+o.Error)
		}
	}
}

func (r *Runner) usersWithToken(ctx context.Context, res *Result) ([]domain.User, bool) {
	users, err := r.store.ListUsersWithToken(ctx)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("list users: %v", err))
		return nil, false
	}
	return users, true
}

// completedOn reports whether the user finished every challenge of date.
func (r *Runner) completedOn(ctx context.Context, userID, date string) (bool, error) {
	uc, err := r.store.GetUserChallenge(ctx, userID, date)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return uc.AllCompleted(), nil
}

// SendStreakWarnings warns users with a running streak who have not
// completed the challenges of date.
func (r *Runner) SendStreakWarnings(ctx context.Context, date time.Time) Result {
	start := time.Now()
	day := content.FormatDate(date)
	res := Result{Job: JobStreakWarnings, Date: day}

	users, ok := r.usersWithToken(ctx, &res)
	if !ok {
		r.finish(&res, start)
		return res
	}

	var at []domain.User
	for _, u := range users {
		if u.StreakValue() <= 0 {
			res.Skipped++
			continue
		}
		done, err := r.completedOn(ctx, u.ID, day)
		if err != nil {
			r.logger.Warn("Failed to read user challenge", "user_id", u.ID, "date", day, "error", err)
			res.Errors = append(res.Errors, u.ID+": "+err.Error())
			continue
		}
		if done {
			res.Skipped++
			continue
		}
		at = append(at, u)
	}

	r.fanOut(ctx, &res, at, func(u domain.User) (notifications.Delivery, bool) {
		return notifications.Delivery{
			UserID:   u.ID,
			Token:    u.FCMToken,
			EventKey: eventKey(notifications.KindStreakWarning, day, u.ID),
			Message:  notifications.BuildStreakWarning(u.StreakValue()),
		}, true
	})
	r.finish(&res, start)
	return res
}

// SendReEngagement nudges users with no completed challenge in the last
// InactiveDays days.
func (r *Runner) SendReEngagement(ctx context.Context, date time.Time) Result {
	start := time.Now()
	day := content.FormatDate(date)
	res := Result{Job: JobReEngagement, Date: day}

	users, ok := r.usersWithToken(ctx, &res)
	if !ok {
		r.finish(&res, start)
		return res
	}

	cutoff := content.FormatDate(date.AddDate(0, 0, -r.opts.InactiveDays))
	r.fanOut(ctx, &res, users, func(u domain.User) (notifications.Delivery, bool) {
		if !u.InactiveSince(cutoff) {
			return notifications.Delivery{}, false
		}
		return notifications.Delivery{
			UserID:   u.ID,
			Token:    u.FCMToken,
			EventKey: eventKey(notifications.KindReEngagement, day, u.ID),
			Message:  notifications.BuildReEngagement(u.StreakValue()),
		}, true
	})
	r.finish(&res, start)
	return res
}

// SendDailyReminders sends the morning challenge reminder to every user with
// a token.
func (r *Runner) SendDailyReminders(ctx context.Context, date time.Time) Result {
	start := time.Now()
	day := content.FormatDate(date)
	res := Result{Job: JobDailyReminder, Date: day}

	users, ok := r.usersWithToken(ctx, &res)
	if !ok {
		r.finish(&res, start)
		return res
	}

	msg := notifications.BuildDailyReminder(day)
	r.fanOut(ctx, &res, users, func(u domain.User) (notifications.Delivery, bool) {
		return notifications.Delivery{
			UserID:   u.ID,
			Token:    u.FCMToken,
			EventKey: eventKey(notifications.KindDailyReminder, day, u.ID),
			Message:  msg,
		}, true
	})
	r.finish(&res, start)
	return res
}

// SendEcoTip pushes the eco tip of the day to every user with a token.
func (r *Runner) SendEcoTip(ctx context.Context, date time.Time) Result {
	start := time.Now()
	day := content.FormatDate(date)
	res := Result{Job: JobEcoTip, Date: day}

	tip, ok := r.PushTipFor(date)
	if !ok {
		res.Errors = append(res.Errors, content.ErrEmptyPool.Error())
		r.finish(&res, start)
		return res
	}
	users, ok := r.usersWithToken(ctx, &res)
	if !ok {
		r.finish(&res, start)
		return res
	}

	msg := notifications.BuildEcoTip(day, tip)
	r.fanOut(ctx, &res, users, func(u domain.User) (notifications.Delivery, bool) {
		return notifications.Delivery{
			UserID:   u.ID,
			Token:    u.FCMToken,
			EventKey: eventKey(notifications.KindEcoTip, day, u.ID),
			Message:  msg,
		}, true
	})
	r.finish(&res, start)
	return res
}

// Broadcast sends an operator announcement to every user with a token. Each
// call is a new event.
func (r *Runner) Broadcast(ctx context.Context, title, body, category string) (Result, error) {
	start := time.Now()
	res := Result{Job: JobBroadcast, Date: content.FormatDate(r.now().UTC())}
	title, body = strings.TrimSpace(title), strings.TrimSpace(body)
	if title == "" || body == "" {
		return res, fmt.Errorf("%w: title and body are required", notifications.ErrMalformed)
	}

	users, ok := r.usersWithToken(ctx, &res)
	if !ok {
		r.finish(&res, start)
		return res, nil
	}

	id := uuid.NewString()
	msg := notifications.BuildBroadcast(title, body, category)
	r.fanOut(ctx, &res, users, func(u domain.User) (notifications.Delivery, bool) {
		return notifications.Delivery{
			UserID:   u.ID,
			Token:    u.FCMToken,
			EventKey: eventKey(notifications.KindBroadcast, id, u.ID),
			Message:  msg,
		}, true
	})
	r.finish(&res, start)
	return res, nil
}

// CheckStreak runs the streak warning for a single user, regardless of the
// streak value.
func (r *Runner) CheckStreak(ctx context.Context, userID string, date time.Time) (StreakCheck, error) {
	day := content.FormatDate(date)
	check := StreakCheck{UserID: userID, Date: day}
	if strings.TrimSpace(userID) == "" {
		return check, fmt.Errorf("%w: userId is required", notifications.ErrMalformed)
	}

	u, err := r.store.GetUser(ctx, userID)
	if err != nil {
		return check, fmt.Errorf("get user %s: %w", userID, err)
	}
	check.Streak = u.StreakValue()
	if !u.HasPushToken() {
		return check, ErrNoPushToken
	}

	check.CompletedToday, err = r.completedOn(ctx, userID, day)
	if err != nil {
		return check, fmt.Errorf("get user challenge: %w", err)
	}
	if check.CompletedToday {
		return check, nil
	}

	out, err := r.dispatcher.Deliver(ctx, notifications.Delivery{
		UserID:   userID,
		Token:    u.FCMToken,
		EventKey: eventKey(notifications.KindStreakWarning, day, userID),
		Message:  notifications.BuildStreakWarning(check.Streak),
	})
	check.Outcome = &out
	if err != nil {
		return check, err
	}
	check.Sent = out.Pushed
	return check, nil
}
