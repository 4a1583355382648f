// Package listener provides a Postgres LISTEN/NOTIFY consumer for user
// changes. It holds a dedicated pgx connection (not from the pool) listening
// on the `user_updated` channel.
//
// The users update trigger (db/schema.sql) sends the before and after
// snapshots; each event is handed to the notification pipeline, the same
// path the document-change HTTP endpoint uses.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ecopilot/ecopilot-backend/internal/db"
	"github.com/ecopilot/ecopilot-backend/internal/notifications"
)

const (
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
	handleTimeout    = 30 * time.Second
)

// Handler processes one user change.
type Handler interface {
	HandleUserUpdated(ctx context.Context, ev notifications.UserUpdated) (notifications.BatchResult, error)
}

// UserUpdatedEvent is the JSON payload from pg_notify('user_updated', ...).
type UserUpdatedEvent struct {
	notifications.UserUpdated
	Timestamp int64 `json:"ts"`
}

// Start opens a dedicated connection and listens on the user_updated
// channel. It reconnects automatically on connection loss. Blocks until ctx
// is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, handler Handler, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, handler, logger)
		if ctx.Err() != nil {
			logger.Info("User change listener stopped (context cancelled)")
			return
		}

		logger.Error("User change listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, handler Handler, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+db.UserUpdatedChannel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", db.UserUpdatedChannel, err)
	}
	logger.Info("User change listener connected", "channel", db.UserUpdatedChannel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		event, err := ParsePayload(notification.Payload)
		if err != nil {
			logger.Warn("Failed to parse user change event",
				"payload", notification.Payload, "error", err)
			continue
		}

		logger.Debug("User change event received", "user_id", event.UserID, "ts", event.Timestamp)

		// Process asynchronously to avoid blocking the listener
		go handle(ctx, handler, event, logger)
	}
}

// ParsePayload decodes a NOTIFY payload. The event id is derived from the
// user and timestamp so retries of one notification share a key.
func ParsePayload(payload string) (UserUpdatedEvent, error) {
	var event UserUpdatedEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return UserUpdatedEvent{}, err
	}
	if event.UserID == "" {
		return UserUpdatedEvent{}, fmt.Errorf("%w: userId missing", notifications.ErrMalformed)
	}
	if event.EventID == "" {
		event.EventID = "pg:" + event.UserID + ":" + strconv.FormatInt(event.Timestamp, 10)
	}
	return event, nil
}

func handle(ctx context.Context, handler Handler, event UserUpdatedEvent, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	result, err := handler.HandleUserUpdated(ctx, event.UserUpdated)
	if err != nil {
		logger.Warn("User change not processed", "user_id", event.UserID, "error", err)
		return
	}
	if result.Total > 0 {
		logger.Info("User change notifications dispatched",
			"user_id", event.UserID, "persisted", result.Persisted, "pushed", result.Pushed)
	}
}
