// Package store is the persistence boundary. Firestore is the production
// backend; Postgres and an in-memory store implement the same contract.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ecopilot/ecopilot-backend/internal/content"
	"github.com/ecopilot/ecopilot-backend/internal/domain"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// Collection names, shared with the mobile client.
const (
	UsersCollection           = "users"
	UserChallengesCollection  = "user_challenges"
	ChallengesCollection      = "challenges"
	DailyTipsCollection       = "daily_tips"
	NotificationsCollection   = "notifications"
	ProductsCollection        = "products"
	ScannedProductsCollection = "scannedProducts"
)

// Store is implemented by every backend.
type Store interface {
	// Users
	GetUser(ctx context.Context, id string) (domain.User, error)
	ListUsersWithToken(ctx context.Context) ([]domain.User, error)
	ClearPushToken(ctx context.Context, userID, token string) error
	// CompleteChallengeDay increments the streak and records date as the
	// last completed day. A day already recorded leaves the user unchanged.
	CompleteChallengeDay(ctx context.Context, userID, date string) (domain.User, error)

	GetUserChallenge(ctx context.Context, userID, date string) (domain.UserChallenge, error)

	// Daily content
	SaveDailyChallenges(ctx context.Context, dc content.DailyChallenges) error
	GetDailyChallenges(ctx context.Context, date string) (content.DailyChallenges, error)
	SaveDailyTip(ctx context.Context, tip content.DailyTip) error
	GetDailyTip(ctx context.Context, date string) (content.DailyTip, error)

	// Notifications
	SaveNotification(ctx context.Context, n domain.Notification) error
	PurgeReadNotifications(ctx context.Context, olderThan time.Time) (int, error)

	SaveProduct(ctx context.Context, p domain.Product) error

	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*Firestore)(nil)
	_ Store = (*Postgres)(nil)
	_ Store = (*Memory)(nil)
)
