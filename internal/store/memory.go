package store

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/ecopilot/ecopilot-backend/internal/content"
	"github.com/ecopilot/ecopilot-backend/internal/domain"
)

// Memory is a process-local Store for development and tests.
type Memory struct {
	mu             sync.RWMutex
	users          map[string]domain.User
	userChallenges map[string]domain.UserChallenge
	challenges     map[string]content.DailyChallenges
	tips           map[string]content.DailyTip
	notifications  map[string]domain.Notification
	products       map[string]domain.Product
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		users:          make(map[string]domain.User),
		userChallenges: make(map[string]domain.UserChallenge),
		challenges:     make(map[string]content.DailyChallenges),
		tips:           make(map[string]content.DailyTip),
		notifications:  make(map[string]domain.Notification),
		products:       make(map[string]domain.Product),
	}
}

// PutUser inserts or replaces a user.
func (m *Memory) PutUser(u domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = cloneUser(u)
}

// PutUserChallenge inserts or replaces a user's day.
func (m *Memory) PutUserChallenge(c domain.UserChallenge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.Completed = slices.Clone(c.Completed)
	m.userChallenges[domain.UserChallengeID(c.UserID, c.Date)] = c
}

// Notifications returns all stored records ordered by id.
func (m *Memory) Notifications() []domain.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Notification, 0, len(m.notifications))
	for _, id := range slices.Sorted(maps.Keys(m.notifications)) {
		out = append(out, m.notifications[id])
	}
	return out
}

// Products returns all stored products.
func (m *Memory) Products() []domain.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Collect(maps.Values(m.products))
}

func (m *Memory) GetUser(_ context.Context, id string) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *Memory) ListUsersWithToken(_ context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.User
	for _, id := range slices.Sorted(maps.Keys(m.users)) {
		if u := m.users[id]; u.HasPushToken() {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (m *Memory) ClearPushToken(_ context.Context, userID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	if u.FCMToken == token {
		u.FCMToken = ""
		m.users[userID] = u
	}
	return nil
}

func (m *Memory) CompleteChallengeDay(_ context.Context, userID, date string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	if u.LastChallengeDate != date {
		streak := u.StreakValue() + 1
		u.Streak = &streak
		u.LastChallengeDate = date
		m.users[userID] = u
	}
	return cloneUser(u), nil
}

func (m *Memory) GetUserChallenge(_ context.Context, userID, date string) (domain.UserChallenge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.userChallenges[domain.UserChallengeID(userID, date)]
	if !ok {
		return domain.UserChallenge{}, ErrNotFound
	}
	c.Completed = slices.Clone(c.Completed)
	return c, nil
}

func (m *Memory) SaveDailyChallenges(_ context.Context, dc content.DailyChallenges) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	dc.Challenges = slices.Clone(dc.Challenges)
	m.challenges[dc.Date] = dc
	return nil
}

func (m *Memory) GetDailyChallenges(_ context.Context, date string) (content.DailyChallenges, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	dc, ok := m.challenges[date]
	if !ok {
		return content.DailyChallenges{}, ErrNotFound
	}
	dc.Challenges = slices.Clone(dc.Challenges)
	return dc, nil
}

func (m *Memory) SaveDailyTip(_ context.Context, tip content.DailyTip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tips[tip.Date] = tip
	return nil
}

func (m *Memory) GetDailyTip(_ context.Context, date string) (content.DailyTip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tip, ok := m.tips[date]
	if !ok {
		return content.DailyTip{}, ErrNotFound
	}
	return tip, nil
}

func (m *Memory) SaveNotification(_ context.Context, n domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.Data = maps.Clone(n.Data)
	m.notifications[n.ID] = n
	return nil
}

func (m *Memory) PurgeReadNotifications(_ context.Context, olderThan time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	purged := 0
	for id, n := range m.notifications {
		if n.Read && n.CreatedAt.Before(olderThan) {
			delete(m.notifications, id)
			purged++
		}
	}
	return purged, nil
}

// MarkRead flags a notification as read, as the client would.
func (m *Memory) MarkRead(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return ErrNotFound
	}
	n.Read = true
	m.notifications[id] = n
	return nil
}

func (m *Memory) SaveProduct(_ context.Context, p domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Categories = slices.Clone(p.Categories)
	m.products[p.ID] = p
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

func cloneUser(u domain.User) domain.User {
	if u.Streak != nil {
		v := *u.Streak
		u.Streak = &v
	}
	if u.EcoPoints != nil {
		v := *u.EcoPoints
		u.EcoPoints = &v
	}
	if u.Title != nil {
		v := *u.Title
		u.Title = &v
	}
	return u
}
