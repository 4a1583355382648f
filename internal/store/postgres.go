package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ecopilot/ecopilot-backend/internal/content"
	"github.com/ecopilot/ecopilot-backend/internal/db"
	"github.com/ecopilot/ecopilot-backend/internal/domain"
)

// Postgres runs the prepared statements registered by db.New.
type Postgres struct {
	pool *db.Pool
}

// NewPostgres wraps a connected pool. Close closes the pool.
func NewPostgres(pool *db.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Streak, &u.EcoPoints, &u.Title, &u.FCMToken, &u.LastChallengeDate)
	return u, err
}

func (s *Postgres) GetUser(ctx context.Context, id string) (domain.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, "get_user", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

func (s *Postgres) ListUsersWithToken(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, "list_users_with_token")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Postgres) ClearPushToken(ctx context.Context, userID, token string) error {
	if _, err := s.pool.Exec(ctx, "clear_push_token", userID, token); err != nil {
		return fmt.Errorf("clear push token: %w", err)
	}
	return nil
}

func (s *Postgres) CompleteChallengeDay(ctx context.Context, userID, date string) (domain.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, "complete_challenge_day", userID, date))
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the user is unknown or the day was already recorded.
		return s.GetUser(ctx, userID)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("complete challenge day: %w", err)
	}
	return u, nil
}

func (s *Postgres) GetUserChallenge(ctx context.Context, userID, date string) (domain.UserChallenge, error) {
	var c domain.UserChallenge
	err := s.pool.QueryRow(ctx, "get_user_challenge", domain.UserChallengeID(userID, date)).
		Scan(&c.UserID, &c.Date, &c.Completed)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserChallenge{}, ErrNotFound
	}
	if err != nil {
		return domain.UserChallenge{}, fmt.Errorf("get user challenge: %w", err)
	}
	return c, nil
}

func (s *Postgres) SaveDailyChallenges(ctx context.Context, dc content.DailyChallenges) error {
	payload, err := json.Marshal(dc.Challenges)
	if err != nil {
		return fmt.Errorf("encode challenges: %w", err)
	}
	if _, err := s.pool.Exec(ctx, "upsert_daily_challenges", dc.Date, payload, dc.CreatedAt); err != nil {
		return fmt.Errorf("save challenges %s: %w", dc.Date, err)
	}
	return nil
}

func (s *Postgres) GetDailyChallenges(ctx context.Context, date string) (content.DailyChallenges, error) {
	var (
		dc      content.DailyChallenges
		payload []byte
	)
	err := s.pool.QueryRow(ctx, "get_daily_challenges", date).Scan(&dc.Date, &payload, &dc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return content.DailyChallenges{}, ErrNotFound
	}
	if err != nil {
		return content.DailyChallenges{}, fmt.Errorf("get challenges %s: %w", date, err)
	}
	if err := json.Unmarshal(payload, &dc.Challenges); err != nil {
		return content.DailyChallenges{}, fmt.Errorf("decode challenges %s: %w", date, err)
	}
	return dc, nil
}

func (s *Postgres) SaveDailyTip(ctx context.Context, tip content.DailyTip) error {
	_, err := s.pool.Exec(ctx, "upsert_daily_tip",
		tip.Date, tip.ID, tip.Tip, tip.Category, tip.Emoji, tip.CreatedAt)
	if err != nil {
		return fmt.Errorf("save tip %s: %w", tip.Date, err)
	}
	return nil
}

func (s *Postgres) GetDailyTip(ctx context.Context, date string) (content.DailyTip, error) {
	var tip content.DailyTip
	err := s.pool.QueryRow(ctx, "get_daily_tip", date).
		Scan(&tip.Date, &tip.ID, &tip.Tip, &tip.Category, &tip.Emoji, &tip.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return content.DailyTip{}, ErrNotFound
	}
	if err != nil {
		return content.DailyTip{}, fmt.Errorf("get tip %s: %w", date, err)
	}
	return tip, nil
}

func (s *Postgres) SaveNotification(ctx context.Context, n domain.Notification) error {
	data := n.Data
	if data == nil {
		data = map[string]string{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode notification data: %w", err)
	}
	_, err = s.pool.Exec(ctx, "upsert_notification",
		n.ID, n.UserID, n.Title, n.Body, n.Category, payload, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("save notification: %w", err)
	}
	return nil
}

func (s *Postgres) PurgeReadNotifications(ctx context.Context, olderThan time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, "purge_read_notifications", olderThan)
	if err != nil {
		return 0, fmt.Errorf("purge notifications: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *Postgres) SaveProduct(ctx context.Context, p domain.Product) error {
	_, err := s.pool.Exec(ctx, "upsert_product",
		p.ID, p.Name, p.Code, p.Categories, p.EcoScore, p.CO2Footprint, p.Packaging, p.Description, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("save product %s: %w", p.ID, err)
	}
	return nil
}

func (s *Postgres) Ping(ctx context.Context) error {
	return s.pool.HealthCheck(ctx)
}

func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}
