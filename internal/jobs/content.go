package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/ecopilot/ecopilot-backend/internal/content"
	"github.com/ecopilot/ecopilot-backend/internal/selector"
)

func checkDays(days int) error {
	if days < 1 || days > maxGenerateDays {
		return fmt.Errorf("%w: %d (1..%d)", ErrInvalidDays, days, maxGenerateDays)
	}
	return nil
}

// PreviewChallenges computes the selection for date without persisting it.
func (r *Runner) PreviewChallenges(date time.Time) content.DailyChallenges {
	return selector.DailyChallenges(date, r.catalog.Challenges, r.now().UTC())
}

// PreviewTip computes the tip for date without persisting it.
func (r *Runner) PreviewTip(date time.Time) (content.DailyTip, bool) {
	return selector.DailyTip(date, r.catalog.Tips, r.now().UTC())
}

// GenerateChallenges persists the challenge selection for from and the
// following days-1 days. Existing documents are overwritten with identical
// content.
func (r *Runner) GenerateChallenges(ctx context.Context, from time.Time, days int) (Result, []content.DailyChallenges, error) {
	start := time.Now()
	res := Result{Job: JobChallenges, Date: content.FormatDate(from)}
	if err := checkDays(days); err != nil {
		return res, nil, err
	}

	createdAt := r.now().UTC()
	var out []content.DailyChallenges
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i)
		dc := selector.DailyChallenges(date, r.catalog.Challenges, createdAt)
		if err := r.store.SaveDailyChallenges(ctx, dc); err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		r.logger.Debug("Daily challenges generated", "date", dc.Date, "first", dc.Challenges[0].ID)
		res.Generated++
		res.Dates = append(res.Dates, dc.Date)
		out = append(out, dc)
	}
	r.finish(&res, start)
	return res, out, nil
}

// GenerateTips persists the daily tip for from and the following days-1 days.
func (r *Runner) GenerateTips(ctx context.Context, from time.Time, days int) (Result, []content.DailyTip, error) {
	start := time.Now()
	res := Result{Job: JobTips, Date: content.FormatDate(from)}
	if err := checkDays(days); err != nil {
		return res, nil, err
	}

	createdAt := r.now().UTC()
	var out []content.DailyTip
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i)
		tip, ok := selector.DailyTip(date, r.catalog.Tips, createdAt)
		if !ok {
			return res, nil, content.ErrEmptyPool
		}
		if err := r.store.SaveDailyTip(ctx, tip); err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		r.logger.Debug("Daily tip generated", "date", tip.Date, "tip_id", tip.ID)
		res.Generated++
		res.Dates = append(res.Dates, tip.Date)
		out = append(out, tip)
	}
	r.finish(&res, start)
	return res, out, nil
}

// PushTipFor returns the eco tip of the day pushed on date.
func (r *Runner) PushTipFor(date time.Time) (string, bool) {
	e, ok := selector.Pick(date, r.catalog.PushTips.Flatten())
	if !ok {
		return "", false
	}
	return e.Title, true
}
