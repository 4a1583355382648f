package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ecopilot/ecopilot-backend/internal/content"
	"github.com/ecopilot/ecopilot-backend/internal/domain"
)

// Firestore stores documents in the collections the mobile client reads.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore wraps an initialized client. Close closes the client.
func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func notFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func (s *Firestore) users() *firestore.CollectionRef {
	return s.client.Collection(UsersCollection)
}

func (s *Firestore) GetUser(ctx context.Context, id string) (domain.User, error) {
	doc, err := s.users().Doc(id).Get(ctx)
	if notFound(err) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return decodeUser(doc)
}

func decodeUser(doc *firestore.DocumentSnapshot) (domain.User, error) {
	var u domain.User
	if err := doc.DataTo(&u); err != nil {
		return domain.User{}, fmt.Errorf("decode user %s: %w", doc.Ref.ID, err)
	}
	u.ID = doc.Ref.ID
	return u, nil
}

func (s *Firestore) ListUsersWithToken(ctx context.Context) ([]domain.User, error) {
	// Strings sort above "", so this selects every non-empty token.
	iter := s.users().Where("fcmToken", ">", "").Documents(ctx)
	defer iter.Stop()

	var users []domain.User
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		u, err := decodeUser(doc)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *Firestore) ClearPushToken(ctx context.Context, userID, token string) error {
	ref := s.users().Doc(userID)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		current, _ := doc.DataAt("fcmToken")
		if current != token {
			return nil
		}
		return tx.Update(ref, []firestore.Update{{Path: "fcmToken", Value: firestore.Delete}})
	})
	if notFound(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("clear push token: %w", err)
	}
	return nil
}

func (s *Firestore) CompleteChallengeDay(ctx context.Context, userID, date string) (domain.User, error) {
	ref := s.users().Doc(userID)
	var user domain.User
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		u, err := decodeUser(doc)
		if err != nil {
			return err
		}
		if u.LastChallengeDate != date {
			streak := u.StreakValue() + 1
			u.Streak = &streak
			u.LastChallengeDate = date
			if err := tx.Update(ref, []firestore.Update{
				{Path: "streak", Value: streak},
				{Path: "lastChallengeDate", Value: date},
			}); err != nil {
				return err
			}
		}
		user = u
		return nil
	})
	if notFound(err) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("complete challenge day: %w", err)
	}
	return user, nil
}

func (s *Firestore) GetUserChallenge(ctx context.Context, userID, date string) (domain.UserChallenge, error) {
	doc, err := s.client.Collection(UserChallengesCollection).Doc(domain.UserChallengeID(userID, date)).Get(ctx)
	if notFound(err) {
		return domain.UserChallenge{}, ErrNotFound
	}
	if err != nil {
		return domain.UserChallenge{}, fmt.Errorf("get user challenge: %w", err)
	}
	var c domain.UserChallenge
	if err := doc.DataTo(&c); err != nil {
		return domain.UserChallenge{}, fmt.Errorf("decode user challenge: %w", err)
	}
	c.UserID, c.Date = userID, date
	return c, nil
}

func (s *Firestore) SaveDailyChallenges(ctx context.Context, dc content.DailyChallenges) error {
	if _, err := s.client.Collection(ChallengesCollection).Doc(dc.Date).Set(ctx, dc); err != nil {
		return fmt.Errorf("save challenges %s: %w", dc.Date, err)
	}
	return nil
}

func (s *Firestore) GetDailyChallenges(ctx context.Context, date string) (content.DailyChallenges, error) {
	doc, err := s.client.Collection(ChallengesCollection).Doc(date).Get(ctx)
	if notFound(err) {
		return content.DailyChallenges{}, ErrNotFound
	}
	if err != nil {
		return content.DailyChallenges{}, fmt.Errorf("get challenges %s: %w", date, err)
	}
	var dc content.DailyChallenges
	if err := doc.DataTo(&dc); err != nil {
		return content.DailyChallenges{}, fmt.Errorf("decode challenges %s: %w", date, err)
	}
	return dc, nil
}

func (s *Firestore) SaveDailyTip(ctx context.Context, tip content.DailyTip) error {
	if _, err := s.client.Collection(DailyTipsCollection).Doc(tip.Date).Set(ctx, tip); err != nil {
		return fmt.Errorf("save tip %s: %w", tip.Date, err)
	}
	return nil
}

func (s *Firestore) GetDailyTip(ctx context.Context, date string) (content.DailyTip, error) {
	doc, err := s.client.Collection(DailyTipsCollection).Doc(date).Get(ctx)
	if notFound(err) {
		return content.DailyTip{}, ErrNotFound
	}
	if err != nil {
		return content.DailyTip{}, fmt.Errorf("get tip %s: %w", date, err)
	}
	var tip content.DailyTip
	if err := doc.DataTo(&tip); err != nil {
		return content.DailyTip{}, fmt.Errorf("decode tip %s: %w", date, err)
	}
	return tip, nil
}

func (s *Firestore) SaveNotification(ctx context.Context, n domain.Notification) error {
	if _, err := s.client.Collection(NotificationsCollection).Doc(n.ID).Set(ctx, n); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}
	return nil
}

func (s *Firestore) PurgeReadNotifications(ctx context.Context, olderThan time.Time) (int, error) {
	iter := s.client.Collection(NotificationsCollection).
		Where("read", "==", true).
		Where("createdAt", "<", olderThan).
		Documents(ctx)
	defer iter.Stop()

	bw := s.client.BulkWriter(ctx)
	var jobs []*firestore.BulkWriterJob
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			bw.End()
			return 0, fmt.Errorf("list read notifications: %w", err)
		}
		job, err := bw.Delete(doc.Ref)
		if err != nil {
			bw.End()
			return 0, fmt.Errorf("enqueue delete: %w", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	purged := 0
	var errs []error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			errs = append(errs, err)
			continue
		}
		purged++
	}
	return purged, errors.Join(errs...)
}

func (s *Firestore) SaveProduct(ctx context.Context, p domain.Product) error {
	if _, err := s.client.Collection(ProductsCollection).Doc(p.ID).Set(ctx, p); err != nil {
		return fmt.Errorf("save product %s: %w", p.ID, err)
	}
	return nil
}

// Ping reads a document that need not exist.
func (s *Firestore) Ping(ctx context.Context) error {
	_, err := s.client.Collection(ChallengesCollection).Doc("_health").Get(ctx)
	if err == nil || notFound(err) {
		return nil
	}
	return err
}

func (s *Firestore) Close() error {
	return s.client.Close()
}
