package notifications

import (
	"context"
	"errors"
	"log/slog"

	"firebase.google.com/go/v4/messaging"
)

// Pusher delivers a message to one device.
type Pusher interface {
	Push(ctx context.Context, token string, msg Message) error
}

// FCMSender sends push notifications via Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
	logger *slog.Logger
}

// NewFCMSender wraps a messaging client. Returns nil when client is nil
// (push disabled).
func NewFCMSender(client *messaging.Client, logger *slog.Logger) *FCMSender {
	if client == nil {
		return nil
	}
	return &FCMSender{client: client, logger: logger}
}

// Push sends msg to token. Failures are returned as *PushError.
func (s *FCMSender) Push(ctx context.Context, token string, msg Message) error {
	if token == "" {
		return &PushError{Reason: ReasonInvalidArgument, Err: errors.New("empty registration token")}
	}
	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	id, err := s.client.Send(ctx, fcmMessage(token, msg))
	if err != nil {
		return &PushError{Reason: classify(err), Err: err}
	}
	s.logger.Debug("FCM message sent", "message_id", id, "type", msg.Kind)
	return nil
}

func fcmMessage(token string, msg Message) *messaging.Message {
	badge := 1
	android := &messaging.AndroidNotification{
		ChannelID: msg.Channel(),
		Sound:     "default",
	}
	if android.ChannelID == channelDynamic {
		android.Color = accentColor
	}
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority:     "high",
			Notification: android,
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
					Badge: &badge,
				},
			},
		},
	}
}

// classify maps FCM error codes onto push failure reasons.
func classify(err error) Reason {
	switch {
	case messaging.IsUnregistered(err), messaging.IsSenderIDMismatch(err):
		return ReasonUnregistered
	case messaging.IsInvalidArgument(err):
		return ReasonInvalidArgument
	case messaging.IsQuotaExceeded(err):
		return ReasonQuotaExceeded
	case messaging.IsUnavailable(err), messaging.IsInternal(err),
		errors.Is(err, context.DeadlineExceeded):
		return ReasonUnavailable
	default:
		return ReasonUnknown
	}
}
