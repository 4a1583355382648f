// Package domain defines the typed records exchanged with the document store
// and the change triggers. Loosely typed documents are converted into these
// at the boundary; nothing past the boundary reads raw maps.
package domain

import (
	"strings"
	"time"
)

// DefaultRank is the title a new user starts with.
const DefaultRank = "Green Beginner"

// User is a snapshot of users/{id}. Metric fields are pointers so a missing
// field can be told apart from zero.
type User struct {
	ID                string  `json:"id,omitempty" firestore:"-"`
	Streak            *int    `json:"streak,omitempty" firestore:"streak,omitempty"`
	EcoPoints         *int    `json:"ecoPoints,omitempty" firestore:"ecoPoints,omitempty"`
	Title             *string `json:"title,omitempty" firestore:"title,omitempty"`
	FCMToken          string  `json:"fcmToken,omitempty" firestore:"fcmToken,omitempty"`
	LastChallengeDate string  `json:"lastChallengeDate,omitempty" firestore:"lastChallengeDate,omitempty"`
}

// StreakValue returns the streak, treating a missing field as zero. Used by
// reminder jobs, which address every user regardless of record shape.
func (u User) StreakValue() int {
	if u.Streak == nil {
		return 0
	}
	return *u.Streak
}

// HasPushToken reports whether the user registered a device.
func (u User) HasPushToken() bool {
	return strings.TrimSpace(u.FCMToken) != ""
}

// InactiveSince reports whether the user has no completed challenge on or
// after cutoff (YYYY-MM-DD). Dates compare lexically.
func (u User) InactiveSince(cutoff string) bool {
	return u.LastChallengeDate == "" || u.LastChallengeDate < cutoff
}

// UserChallenge is user_challenges/{userId}-{date}: one flag per challenge
// of the day.
type UserChallenge struct {
	UserID    string `json:"userId,omitempty" firestore:"userId,omitempty"`
	Date      string `json:"date,omitempty" firestore:"date,omitempty"`
	Completed []bool `json:"completed" firestore:"completed"`
}

// AllCompleted is true when there is at least one challenge and every one of
// them is done.
func (c UserChallenge) AllCompleted() bool {
	if len(c.Completed) == 0 {
		return false
	}
	for _, done := range c.Completed {
		if !done {
			return false
		}
	}
	return true
}

// UserChallengeID returns the document id for a user's day.
func UserChallengeID(userID, date string) string {
	return userID + "-" + date
}

// SplitUserChallengeID splits "<userId>-<YYYY-MM-DD>". User ids may contain
// dashes, so the date is taken from the end.
func SplitUserChallengeID(id string) (userID, date string, ok bool) {
	const dateLen = len("2006-01-02")
	if len(id) < dateLen+2 || id[len(id)-dateLen-1] != '-' {
		return "", "", false
	}
	date = id[len(id)-dateLen:]
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", "", false
	}
	return id[:len(id)-dateLen-1], date, true
}
