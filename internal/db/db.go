// Package db provides a pgxpool-based connection pool with prepared statement
// registration, schema migration and health checking.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecopilot/ecopilot-backend/internal/config"
)

// UserUpdatedChannel is the NOTIFY channel fired by the users update trigger.
const UserUpdatedChannel = "user_updated"

//go:embed schema.sql
var schemaSQL string

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// Migrate applies the embedded schema. Every statement is idempotent.
// It runs on a plain connection because prepared statements registered in
// AfterConnect reference the tables being created.
func Migrate(ctx context.Context, databaseURL string) error {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Column lists shared by statements that return whole rows.
const (
	userColumns = "id, streak, eco_points, title, COALESCE(fcm_token, ''), COALESCE(last_challenge_date, '')"
)

// registerPreparedStatements registers all statements the store and jobs
// use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Users
		"get_user":              "SELECT " + userColumns + " FROM users WHERE id = $1",
		"list_users_with_token": "SELECT " + userColumns + " FROM users WHERE fcm_token IS NOT NULL AND fcm_token <> '' ORDER BY id",
		"clear_push_token":      "UPDATE users SET fcm_token = NULL, updated_at = NOW() WHERE id = $1 AND fcm_token = $2",
		"complete_challenge_day": `UPDATE users
			SET streak = COALESCE(streak, 0) + 1, last_challenge_date = $2, updated_at = NOW()
			WHERE id = $1 AND last_challenge_date IS DISTINCT FROM $2
			RETURNING ` + userColumns,

		// User challenges
		"get_user_challenge": "SELECT user_id, date, completed FROM user_challenges WHERE id = $1",

		// Daily content
		"upsert_daily_challenges": `INSERT INTO daily_challenges (date, challenges, created_at) VALUES ($1, $2, $3)
			ON CONFLICT (date) DO UPDATE SET challenges = EXCLUDED.challenges, created_at = EXCLUDED.created_at`,
		"get_daily_challenges": "SELECT date, challenges, created_at FROM daily_challenges WHERE date = $1",
		"upsert_daily_tip": `INSERT INTO daily_tips (date, tip_id, tip, category, emoji, created_at) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (date) DO UPDATE SET tip_id = EXCLUDED.tip_id, tip = EXCLUDED.tip,
				category = EXCLUDED.category, emoji = EXCLUDED.emoji, created_at = EXCLUDED.created_at`,
		"get_daily_tip": "SELECT date, tip_id, tip, category, emoji, created_at FROM daily_tips WHERE date = $1",

		// Notifications
		"upsert_notification": `INSERT INTO notifications (id, user_id, title, body, category, data, read, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, body = EXCLUDED.body,
				category = EXCLUDED.category, data = EXCLUDED.data, created_at = EXCLUDED.created_at`,
		"purge_read_notifications": "DELETE FROM notifications WHERE read AND created_at < $1",

		// Products
		"upsert_product": `INSERT INTO products (id, name, code, categories, eco_score, co2_footprint, packaging, description, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, code = EXCLUDED.code, categories = EXCLUDED.categories,
				eco_score = EXCLUDED.eco_score, co2_footprint = EXCLUDED.co2_footprint,
				packaging = EXCLUDED.packaging, description = EXCLUDED.description`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
