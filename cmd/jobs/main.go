// Command jobs runs the EcoPilot jobs by hand: content generation, reminder
// fan-outs, broadcasts, milestone replays and housekeeping.
//
// Usage:
//
//	ecopilot-jobs challenges generate --date 2025-11-09 --days 8
//	ecopilot-jobs challenges preview --date 2025-11-09
//	ecopilot-jobs tips generate --days 8
//	ecopilot-jobs tips stats
//	ecopilot-jobs reminders streak --date 2025-11-09
//	ecopilot-jobs streak check --user abc123
//	ecopilot-jobs broadcast --title "Earth Day" --body "Plant a tree today"
//	ecopilot-jobs replay milestone --metric points --before 90 --after 120
//	ecopilot-jobs seed product
//	ecopilot-jobs migrate
//	ecopilot-jobs cleanup
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ecopilot/ecopilot-backend/internal/app"
	"github.com/ecopilot/ecopilot-backend/internal/config"
	"github.com/ecopilot/ecopilot-backend/internal/content"
	"github.com/ecopilot/ecopilot-backend/internal/db"
	"github.com/ecopilot/ecopilot-backend/internal/jobs"
	"github.com/ecopilot/ecopilot-backend/internal/milestone"
	"github.com/ecopilot/ecopilot-backend/internal/notifications"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "ecopilot-jobs",
		Short:        "EcoPilot jobs CLI",
		SilenceUsage: true,
	}

	root.AddCommand(challengesCmd())
	root.AddCommand(tipsCmd())
	root.AddCommand(remindersCmd())
	root.AddCommand(streakCmd())
	root.AddCommand(broadcastCmd())
	root.AddCommand(replayCmd())
	root.AddCommand(seedCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(cleanupCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// challenges / tips commands
// --------------------------------------------------------------------------

func challengesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "challenges",
		Short: "Daily challenge sets",
	}

	var date string
	var days int
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate and store challenge sets for a range of days",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseDate(date)
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app.App) error {
				res, sets, err := a.Runner.GenerateChallenges(ctx, from, days)
				if err != nil {
					return err
				}
				for _, s := range sets {
					ids := make([]string, len(s.Challenges))
					for i, c := range s.Challenges {
						ids[i] = c.ID
					}
					logger.Info("Challenges stored", "date", s.Date, "ids", strings.Join(ids, ", "))
				}
				return resultErr(res)
			})
		},
	}
	generate.Flags().StringVar(&date, "date", "", "First date (YYYY-MM-DD, default today UTC)")
	generate.Flags().IntVar(&days, "days", jobs.DefaultGenerateDays, "Number of days to generate")

	var previewDate, poolDir string
	preview := &cobra.Command{
		Use:   "preview",
		Short: "Print the challenge set for a date without storing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(previewDate)
			if err != nil {
				return err
			}
			r, err := offlineRunner(poolDir)
			if err != nil {
				return err
			}
			return printJSON(r.PreviewChallenges(d))
		},
	}
	preview.Flags().StringVar(&previewDate, "date", "", "Date (YYYY-MM-DD, default today UTC)")
	preview.Flags().StringVar(&poolDir, "pool-dir", os.Getenv("CONTENT_POOL_DIR"), "Directory with catalog overrides")

	cmd.AddCommand(generate, preview)
	return cmd
}

func tipsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tips",
		Short: "Daily tips",
	}

	var date string
	var days int
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate and store tips for a range of days",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseDate(date)
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app.App) error {
				res, tips, err := a.Runner.GenerateTips(ctx, from, days)
				if err != nil {
					return err
				}
				for _, t := range tips {
					logger.Info("Tip stored", "date", t.Date, "id", t.ID)
				}
				return resultErr(res)
			})
		},
	}
	generate.Flags().StringVar(&date, "date", "", "First date (YYYY-MM-DD, default today UTC)")
	generate.Flags().IntVar(&days, "days", jobs.DefaultGenerateDays, "Number of days to generate")

	var previewDate, poolDir string
	preview := &cobra.Command{
		Use:   "preview",
		Short: "Print the tip and push tip for a date without storing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(previewDate)
			if err != nil {
				return err
			}
			r, err := offlineRunner(poolDir)
			if err != nil {
				return err
			}
			tip, ok := r.PreviewTip(d)
			if !ok {
				return fmt.Errorf("tip pool is empty")
			}
			push, _ := r.PushTipFor(d)
			return printJSON(map[string]any{"tip": tip, "pushTip": push})
		},
	}
	preview.Flags().StringVar(&previewDate, "date", "", "Date (YYYY-MM-DD, default today UTC)")
	preview.Flags().StringVar(&poolDir, "pool-dir", os.Getenv("CONTENT_POOL_DIR"), "Directory with catalog overrides")

	var statsDir string
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Print per-category counts of every pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := offlineRunner(statsDir)
			if err != nil {
				return err
			}
			c := r.Catalog()
			return printJSON(map[string]content.Stats{
				"challenges": c.Challenges.Stats(),
				"tips":       c.Tips.Stats(),
				"push_tips":  c.PushTips.Stats(),
			})
		},
	}
	stats.Flags().StringVar(&statsDir, "pool-dir", os.Getenv("CONTENT_POOL_DIR"), "Directory with catalog overrides")

	cmd.AddCommand(generate, preview, stats)
	return cmd
}

// --------------------------------------------------------------------------
// reminders / streak / broadcast commands
// --------------------------------------------------------------------------

func remindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Run a reminder fan-out for a date",
	}
	fanOuts := []struct {
		use, short string
		run        func(r *jobs.Runner, ctx context.Context, date time.Time) jobs.Result
	}{
		{"streak", "Warn users whose streak ends tonight", (*jobs.Runner).SendStreakWarnings},
		{"reengagement", "Nudge users inactive for INACTIVE_DAYS", (*jobs.Runner).SendReEngagement},
		{"daily", "Send the morning challenge reminder", (*jobs.Runner).SendDailyReminders},
		{"ecotip", "Send the day's push tip", (*jobs.Runner).SendEcoTip},
	}
	for _, f := range fanOuts {
		var date string
		sub := &cobra.Command{
			Use:   f.use,
			Short: f.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := parseDate(date)
				if err != nil {
					return err
				}
				return withApp(func(ctx context.Context, a *app.App) error {
					return resultErr(f.run(a.Runner, ctx, d))
				})
			},
		}
		sub.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, default today UTC)")
		cmd.AddCommand(sub)
	}
	return cmd
}

func streakCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Per-user streak operations",
	}
	var userID, date string
	check := &cobra.Command{
		Use:   "check",
		Short: "Send the streak warning to one user if the day is incomplete",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(date)
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app.App) error {
				res, err := a.Runner.CheckStreak(ctx, userID, d)
				if err != nil {
					return err
				}
				return printJSON(res)
			})
		},
	}
	check.Flags().StringVar(&userID, "user", "", "User id")
	check.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, default today UTC)")
	_ = check.MarkFlagRequired("user")
	cmd.AddCommand(check)
	return cmd
}

func broadcastCmd() *cobra.Command {
	var title, body, category string
	cmd := &cobra.Command{
		Use:   "broadcast",
		Short: "Send an announcement to every user with a push token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				res, err := a.Runner.Broadcast(ctx, title, body, category)
				if err != nil {
					return err
				}
				return resultErr(res)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Notification title")
	cmd.Flags().StringVar(&body, "body", "", "Notification body")
	cmd.Flags().StringVar(&category, "category", "", "Optional category")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

// --------------------------------------------------------------------------
// replay command
// --------------------------------------------------------------------------

func replayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay detectors against arbitrary values",
	}
	var metric, before, after, userID string
	ms := &cobra.Command{
		Use:   "milestone",
		Short: "Run the milestone detector for one metric transition",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := notifications.Replay{
				UserID: userID,
				Metric: milestone.Metric(metric),
				Before: replayValue(metric, before),
				After:  replayValue(metric, after),
			}
			return withApp(func(ctx context.Context, a *app.App) error {
				res, err := a.Pipeline.HandleReplay(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(res)
			})
		},
	}
	ms.Flags().StringVar(&metric, "metric", string(milestone.Streak), "Metric (streak, points, rank)")
	ms.Flags().StringVar(&before, "before", "", "Value before the change")
	ms.Flags().StringVar(&after, "after", "", "Value after the change")
	ms.Flags().StringVar(&userID, "user", "", "Deliver to this user (detect only when empty)")
	_ = ms.MarkFlagRequired("before")
	_ = ms.MarkFlagRequired("after")
	cmd.AddCommand(ms)
	return cmd
}

// replayValue encodes a flag value: rank names become JSON strings, numbers
// pass through.
func replayValue(metric, v string) json.RawMessage {
	if milestone.Metric(metric) == milestone.Rank {
		return json.RawMessage(strconv.Quote(v))
	}
	return json.RawMessage(v)
}

// --------------------------------------------------------------------------
// housekeeping commands
// --------------------------------------------------------------------------

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed reference data",
	}
	product := &cobra.Command{
		Use:   "product",
		Short: "Upsert the sample product document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				p, err := a.Runner.SeedSampleProduct(ctx)
				if err != nil {
					return err
				}
				logger.Info("Sample product seeded", "id", p.ID, "name", p.Name)
				return nil
			})
		},
	}
	cmd.AddCommand(product)
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			start := time.Now()
			if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
				return err
			}
			logger.Info("Schema applied", "duration", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

func cleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Purge notification records older than NOTIFICATION_RETENTION",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				return resultErr(a.Runner.Cleanup(ctx))
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// withApp handles config loading, dependency wiring, and context cancellation.
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.Close()

	return fn(ctx, a)
}

// offlineRunner builds a runner over the catalog alone, for commands that
// only read the pools.
func offlineRunner(poolDir string) (*jobs.Runner, error) {
	catalog, err := content.LoadCatalog(poolDir)
	if err != nil {
		return nil, err
	}
	return jobs.NewRunner(nil, catalog, nil, jobs.Options{}, logger), nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		s = content.FormatDate(time.Now())
	}
	d, err := content.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: %w", s, err)
	}
	return d, nil
}

// resultErr fails the command when the job recorded per-item errors; the
// summary has already been logged by the runner.
func resultErr(res jobs.Result) error {
	if len(res.Errors) > 0 {
		return fmt.Errorf("%s finished with %d errors", res.Job, len(res.Errors))
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
