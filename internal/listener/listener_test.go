package listener

import (
	"errors"
	"testing"

	"github.com/ecopilot/ecopilot-backend/internal/notifications"
)

func TestParsePayload(t *testing.T) {
	payload := `{"userId":"u1","before":{"streak":6,"ecoPoints":90},"after":{"streak":7,"ecoPoints":90,"fcmToken":"tok"},"ts":1762646400}`
	ev, err := ParsePayload(payload)
	if err != nil {
		t.Fatalf("ParsePayload() error: %v", err)
	}
	if ev.UserID != "u1" || ev.Timestamp != 1762646400 {
		t.Errorf("event = %+v", ev)
	}
	if ev.Before.StreakValue() != 6 || ev.After.StreakValue() != 7 || ev.After.FCMToken != "tok" {
		t.Errorf("snapshots = %+v / %+v", ev.Before, ev.After)
	}
	if ev.After.Title != nil {
		t.Error("stripped title should decode as nil")
	}
	if ev.EventID != "pg:u1:1762646400" {
		t.Errorf("EventID = %q", ev.EventID)
	}
}

func TestParsePayload_Invalid(t *testing.T) {
	if _, err := ParsePayload("not json"); err == nil {
		t.Error("expected json error")
	}
	if _, err := ParsePayload(`{"before":{},"after":{}}`); !errors.Is(err, notifications.ErrMalformed) {
		t.Errorf("error = %v, want ErrMalformed", err)
	}
}
