// Package app wires the long-lived dependencies once at process start. Both
// cmd/api and cmd/jobs build an App from config and hand its parts to their
// entry points.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/ecopilot/ecopilot-backend/internal/cache"
	"github.com/ecopilot/ecopilot-backend/internal/config"
	"github.com/ecopilot/ecopilot-backend/internal/content"
	"github.com/ecopilot/ecopilot-backend/internal/db"
	"github.com/ecopilot/ecopilot-backend/internal/dedupe"
	"github.com/ecopilot/ecopilot-backend/internal/jobs"
	"github.com/ecopilot/ecopilot-backend/internal/notifications"
	"github.com/ecopilot/ecopilot-backend/internal/store"
)

// App holds the shared dependencies.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Catalog    *content.Catalog
	Store      store.Store
	Guard      dedupe.Guard
	Dispatcher *notifications.Dispatcher
	Pipeline   *notifications.Pipeline
	Runner     *jobs.Runner
	Cache      *cache.Cache

	// PushEnabled is false when no messaging client could be built.
	PushEnabled bool
}

// New builds every dependency. On error, whatever was opened is closed.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	a := &App{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.Catalog, err = content.LoadCatalog(cfg.ContentPoolDir)
	if err != nil {
		return nil, fmt.Errorf("load content catalog: %w", err)
	}
	logger.Info("Content catalog loaded",
		"challenges", a.Catalog.Challenges.Len(),
		"tips", a.Catalog.Tips.Len(),
		"push_tips", a.Catalog.PushTips.Len(),
		"override_dir", cfg.ContentPoolDir)

	var fb *firebase.App
	if cfg.UsesFirebase() {
		fb, err = newFirebase(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	a.Store, err = openStore(ctx, cfg, fb, logger)
	if err != nil {
		return nil, err
	}

	var pusher notifications.Pusher
	if cfg.PushEnabled && fb != nil {
		client, err := fb.Messaging(ctx)
		if err != nil {
			return nil, fmt.Errorf("init messaging: %w", err)
		}
		// A nil *FCMSender must not become a non-nil Pusher.
		if sender := notifications.NewFCMSender(client, logger); sender != nil {
			pusher = sender
			a.PushEnabled = true
		}
	}
	logger.Info("Push delivery", "enabled", a.PushEnabled)

	a.Guard, err = openGuard(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a.Dispatcher = notifications.NewDispatcher(a.Store, pusher, a.Guard, cfg.DispatchConcurrency, logger)
	a.Pipeline = notifications.NewPipeline(a.Store, a.Dispatcher, logger)
	a.Runner = jobs.NewRunner(a.Store, a.Catalog, a.Dispatcher, jobs.Options{
		InactiveDays: cfg.InactiveDays,
		Retention:    cfg.NotificationRetention,
	}, logger)
	a.Cache = cache.New(cfg.CacheEnabled)
	return a, nil
}

// Close releases every opened resource.
func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		a.Cache.Close()
	}
	if a.Guard != nil {
		errs = append(errs, a.Guard.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}

func newFirebase(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
	var opts []option.ClientOption
	switch {
	case cfg.FirebaseCredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.FirebaseCredentialsJSON)))
	case cfg.FirebaseCredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}
	var fbCfg *firebase.Config
	if cfg.FirebaseProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}
	fb, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase: %w", err)
	}
	return fb, nil
}

func openStore(ctx context.Context, cfg *config.Config, fb *firebase.App, logger *slog.Logger) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendFirestore:
		client, err := fb.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("init firestore: %w", err)
		}
		logger.Info("Store connected", "backend", cfg.StoreBackend, "project", cfg.FirebaseProjectID)
		return store.NewFirestore(client), nil

	case config.BackendPostgres:
		logger.Info("Connecting to database...")
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		logger.Info("Store connected", "backend", cfg.StoreBackend,
			"min_conns", cfg.DBPoolMinConns, "max_conns", cfg.DBPoolMaxConns)
		return store.NewPostgres(pool), nil

	case config.BackendMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		return store.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func openGuard(ctx context.Context, cfg *config.Config, logger *slog.Logger) (dedupe.Guard, error) {
	if cfg.RedisAddr == "" {
		logger.Info("Dedupe guard in memory", "ttl", cfg.DedupeTTL)
		return dedupe.NewMemory(cfg.DedupeTTL), nil
	}
	g, err := dedupe.NewRedis(ctx, cfg.RedisAddr, cfg.DedupeTTL)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	logger.Info("Dedupe guard on redis", "addr", cfg.RedisAddr, "ttl", cfg.DedupeTTL)
	return g, nil
}
