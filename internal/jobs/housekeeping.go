package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/ecopilot/ecopilot-backend/internal/content"
	"github.com/ecopilot/ecopilot-backend/internal/domain"
)

// Cleanup deletes read notifications older than the retention window.
func (r *Runner) Cleanup(ctx context.Context) Result {
	start := time.Now()
	now := r.now().UTC()
	res := Result{Job: JobCleanup, Date: content.FormatDate(now)}

	n, err := r.store.PurgeReadNotifications(ctx, now.Add(-r.opts.Retention))
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("purge notifications: %v", err))
	}
	res.Purged = n
	r.finish(&res, start)
	return res
}

// SeedSampleProduct writes the sample product used by the scan screen.
func (r *Runner) SeedSampleProduct(ctx context.Context) (domain.Product, error) {
	p := domain.SampleProduct(r.now().UTC())
	if err := r.store.SaveProduct(ctx, p); err != nil {
		return p, fmt.Errorf("save product %s: %w", p.ID, err)
	}
	r.logger.Info("Sample product seeded", "product_id", p.ID)
	return p, nil
}
