package domain

import "testing"

func TestSplitUserChallengeID(t *testing.T) {
	tests := []struct {
		id   string
		user string
		date string
		ok   bool
	}{
		{"abc123-2025-11-09", "abc123", "2025-11-09", true},
		{"user-with-dashes-2025-01-31", "user-with-dashes", "2025-01-31", true},
		{"abc123", "", "", false},
		{"-2025-11-09", "", "", false},
		{"abc-2025-13-09", "", "", false},
		{"abc_2025-11-09", "", "", false},
	}
	for _, tt := range tests {
		user, date, ok := SplitUserChallengeID(tt.id)
		if user != tt.user || date != tt.date || ok != tt.ok {
			t.Errorf("SplitUserChallengeID(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.id, user, date, ok, tt.user, tt.date, tt.ok)
		}
	}
	if id := UserChallengeID("u1", "2025-11-09"); id != "u1-2025-11-09" {
		t.Errorf("UserChallengeID() = %q", id)
	}
}

func TestAllCompleted(t *testing.T) {
	tests := []struct {
		completed []bool
		want      bool
	}{
		{nil, false},
		{[]bool{}, false},
		{[]bool{true}, true},
		{[]bool{true, true}, true},
		{[]bool{true, false}, false},
	}
	for _, tt := range tests {
		if got := (UserChallenge{Completed: tt.completed}).AllCompleted(); got != tt.want {
			t.Errorf("AllCompleted(%v) = %v, want %v", tt.completed, got, tt.want)
		}
	}
}

func TestInactiveSince(t *testing.T) {
	if !(User{}).InactiveSince("2025-11-06") {
		t.Error("user without lastChallengeDate should be inactive")
	}
	if !(User{LastChallengeDate: "2025-11-05"}).InactiveSince("2025-11-06") {
		t.Error("older date should be inactive")
	}
	if (User{LastChallengeDate: "2025-11-06"}).InactiveSince("2025-11-06") {
		t.Error("cutoff date itself counts as active")
	}
}

func TestNotificationID_Stable(t *testing.T) {
	a := NotificationID("streak_warning/2025-11-09/u1")
	b := NotificationID("streak_warning/2025-11-09/u1")
	c := NotificationID("streak_warning/2025-11-10/u1")
	if a != b {
		t.Errorf("ids differ for same key: %s %s", a, b)
	}
	if a == c {
		t.Error("ids equal for different keys")
	}
}

func TestScannedProductDisplayName(t *testing.T) {
	if n := (ScannedProduct{ProductName: "Oat Milk", Name: "x"}).DisplayName(); n != "Oat Milk" {
		t.Errorf("DisplayName() = %q", n)
	}
	if n := (ScannedProduct{Name: "Soap"}).DisplayName(); n != "Soap" {
		t.Errorf("DisplayName() = %q", n)
	}
	if n := (ScannedProduct{}).DisplayName(); n != "Product" {
		t.Errorf("DisplayName() = %q", n)
	}
}
