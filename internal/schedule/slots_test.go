package schedule

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

func TestBookingSlotsCoverBusinessDay(t *testing.T) {
	cfg := DefaultConfig()
	day := mustParse(t, "2024-06-10T13:45:00Z") // time-of-day must be ignored

	slots := cfg.BookingSlots(day)

	// 09:00-17:00 at 30 min cadence = 16 slots
	if len(slots) != 16 {
		t.Fatalf("want 16 slots, got %d", len(slots))
	}
	if got := slots[0].FormattedTime; got != "09:00" {
		t.Errorf("first slot = %s, want 09:00", got)
	}
	if got := slots[len(slots)-1].FormattedTime; got != "16:30" {
		t.Errorf("last slot = %s, want 16:30", got)
	}
	for i, s := range slots {
		if !s.IsAvailable {
			t.Errorf("slot %d should start available", i)
		}
	}
}

func TestDisplaySlotsUseWiderRange(t *testing.T) {
	cfg := DefaultConfig()
	slots := cfg.DisplaySlots(mustParse(t, "2024-06-10T00:00:00Z"))

	// 08:00-19:00 = 22 slots
	if len(slots) != 22 {
		t.Fatalf("want 22 slots, got %d", len(slots))
	}
	if got := slots[0].FormattedTime; got != "08:00" {
		t.Errorf("first display slot = %s, want 08:00", got)
	}
}

func TestValidateBookable(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		name    string
		at      string
		wantErr bool
	}{
		{"mid morning ok", "2024-06-10T10:00:00Z", false},
		{"opening hour ok", "2024-06-10T09:00:00Z", false},
		{"last half hour ok", "2024-06-10T16:30:00Z", false},
		{"evening rejected", "2024-06-10T20:00:00Z", true},
		{"before opening rejected", "2024-06-10T08:30:00Z", true},
		{"closing hour rejected", "2024-06-10T17:00:00Z", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := cfg.ValidateBookable(mustParse(t, tc.at))
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateBookable(%s) err=%v, wantErr=%v", tc.at, err, tc.wantErr)
			}
		})
	}
}

func TestJoinWindow(t *testing.T) {
	cfg := DefaultConfig()
	start := mustParse(t, "2024-06-10T10:00:00Z")

	cases := []struct {
		name     string
		now      string
		canJoin  bool
		tooEarly bool
		tooLate  bool
		wait     time.Duration
	}{
		{"exactly at start", "2024-06-10T10:00:00Z", true, false, false, 0},
		{"window opens", "2024-06-10T09:45:00Z", true, false, false, 0},
		{"window closes", "2024-06-10T10:15:00Z", true, false, false, 0},
		{"an hour early", "2024-06-10T09:00:00Z", false, true, false, 45 * time.Minute},
		{"a minute late", "2024-06-10T10:16:00Z", false, false, true, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := cfg.JoinWindowAt(start, mustParse(t, tc.now))
			if v.CanJoin != tc.canJoin || v.TooEarly != tc.tooEarly || v.TooLate != tc.tooLate {
				t.Errorf("verdict = %+v", v)
			}
			if tc.tooEarly && v.Wait != tc.wait {
				t.Errorf("wait = %v, want %v", v.Wait, tc.wait)
			}
		})
	}
}
