package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("REMINDER_TIMEZONE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.InactiveDays != 3 {
		t.Errorf("InactiveDays = %d, want 3", cfg.InactiveDays)
	}
	if cfg.NotificationRetention != 30*24*time.Hour {
		t.Errorf("NotificationRetention = %v", cfg.NotificationRetention)
	}
	if cfg.ReminderTimezone.String() != "America/New_York" {
		t.Errorf("ReminderTimezone = %v", cfg.ReminderTimezone)
	}
	if cfg.DedupeTTL != 24*time.Hour {
		t.Errorf("DedupeTTL = %v", cfg.DedupeTTL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"STORE_BACKEND": "mongo"}},
		{"postgres without url", map[string]string{"STORE_BACKEND": "postgres", "DATABASE_URL": ""}},
		{"bad timezone", map[string]string{"STORE_BACKEND": "memory", "REMINDER_TIMEZONE": "Mars/Olympus"}},
		{"zero inactive days", map[string]string{"STORE_BACKEND": "memory", "INACTIVE_DAYS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Load() succeeded, want error")
			}
		})
	}
}

func TestEnvList(t *testing.T) {
	t.Setenv("TEST_LIST", " a, ,b ,c")
	got := envList("TEST_LIST", nil)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("envList() = %v", got)
	}
	t.Setenv("TEST_LIST", " , ")
	if got := envList("TEST_LIST", []string{"x"}); len(got) != 1 || got[0] != "x" {
		t.Errorf("envList() fallback = %v", got)
	}
}
