// Package notifications turns user activity into notification records and
// push messages.
//
// Pipeline: detect transition → build message → persist record → push.
// Builders are pure; the Dispatcher owns all I/O and fans out per recipient.
package notifications

import (
	"errors"
	"fmt"
	"time"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	clickAction = "FLUTTER_NOTIFICATION_CLICK"

	channelDynamic         = "ecopilot_dynamic"
	channelStreakReminders = "ecopilot_streak_reminders"
	accentColor            = "#4CAF50"

	defaultConcurrency = 16
	pushTimeout        = 10 * time.Second
)

// ErrMalformed marks an event whose required fields are missing or invalid.
// Such events produce no notification.
var ErrMalformed = errors.New("malformed event")

// Kind identifies the event a message was built for. It is sent to the
// client as data["type"].
type Kind string

const (
	KindStreakMilestone Kind = "streak_milestone"
	KindPointsMilestone Kind = "points_milestone"
	KindRankUp          Kind = "rank_up"
	KindScanInsight     Kind = "scan_insight"
	KindStreakWarning   Kind = "streak_warning"
	KindReEngagement    Kind = "re_engagement"
	KindDailyReminder   Kind = "daily_reminder"
	KindEcoTip          Kind = "eco_tip"
	KindBroadcast       Kind = "broadcast"
)

// Category groups records in the in-app notification list.
const (
	CategoryMilestone      = "milestone"
	CategoryScanInsight    = "scan_insight"
	CategoryStreak         = "streak"
	CategoryDailyChallenge = "daily_challenge"
	CategoryEcoTip         = "eco_tip"
	CategoryGeneral        = "general"
)

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Message is the built content of one notification.
type Message struct {
	Kind     Kind              `json:"kind"`
	Category string            `json:"category"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data"`
}

// Channel returns the Android notification channel for the message.
func (m Message) Channel() string {
	switch m.Kind {
	case KindStreakWarning, KindReEngagement:
		return channelStreakReminders
	default:
		return channelDynamic
	}
}

// Delivery is one message addressed to one user.
type Delivery struct {
	UserID string
	// Token is the device registration token; empty means record only.
	Token string
	// EventKey identifies the triggering event. Deliveries with the same key
	// share one record id and are pushed at most once.
	EventKey string
	Message  Message
}

// Outcome reports what happened to one Delivery.
type Outcome struct {
	UserID    string `json:"userId"`
	RecordID  string `json:"recordId,omitempty"`
	Persisted bool   `json:"persisted"`
	Pushed    bool   `json:"pushed"`
	// Duplicate is set when the push was skipped because the event key was
	// already claimed.
	Duplicate  bool   `json:"duplicate,omitempty"`
	PushReason Reason `json:"pushReason,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BatchResult aggregates outcomes of a fan-out in input order.
type BatchResult struct {
	Total      int       `json:"total"`
	Persisted  int       `json:"persisted"`
	Pushed     int       `json:"pushed"`
	PushFailed int       `json:"pushFailed"`
	Failed     int       `json:"failed"`
	Outcomes   []Outcome `json:"outcomes"`
}

func (r *BatchResult) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	r.Total++
	if o.Persisted {
		r.Persisted++
	} else {
		r.Failed++
	}
	if o.Pushed {
		r.Pushed++
	}
	if o.PushReason != "" {
		r.PushFailed++
	}
}

// Reason classifies a push failure.
type Reason string

const (
	ReasonUnregistered    Reason = "recipient_unregistered"
	ReasonInvalidArgument Reason = "invalid_argument"
	ReasonUnavailable     Reason = "unavailable"
	ReasonQuotaExceeded   Reason = "quota_exceeded"
	ReasonUnknown         Reason = "unknown"
)

// PushError is returned by a Pusher when delivery to a device failed.
type PushError struct {
	Reason Reason
	Err    error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("push %s: %v", e.Reason, e.Err)
}

func (e *PushError) Unwrap() error { return e.Err }
