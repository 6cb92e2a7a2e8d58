// Package schedule implements the slot arithmetic behind meeting booking:
// fixed-width slots over configured business hours, exact-start conflict
// semantics, and the join window around a scheduled start.
package schedule

import (
	"fmt"
	"time"
)

// Hours is a half-open hour-of-day range [Open, Close).
type Hours struct {
	Open  int
	Close int
}

func (h Hours) Contains(t time.Time) bool {
	return t.Hour() >= h.Open && t.Hour() < h.Close
}

// Config is built once from app configuration so that every call site
// validates against the same bounds.
type Config struct {
	Booking    Hours // slots a citizen can actually book
	Display    Hours // wider range the calendar renders
	SlotEvery  time.Duration
	JoinWindow time.Duration
}

func DefaultConfig() Config {
	return Config{
		Booking:    Hours{Open: 9, Close: 17},
		Display:    Hours{Open: 8, Close: 19},
		SlotEvery:  30 * time.Minute,
		JoinWindow: 15 * time.Minute,
	}
}

// Slot is one bookable window of the day.
type Slot struct {
	Start         time.Time `json:"time"`
	FormattedTime string    `json:"formattedTime"`
	IsAvailable   bool      `json:"isAvailable"`
}

// Slots generates every slot start of the calendar day containing `day`,
// over the given hour range, at the configured cadence. The time-of-day of
// the input is ignored. Availability is initialized to true; callers mark
// taken slots afterwards.
func (c Config) Slots(day time.Time, hours Hours) []Slot {
	y, m, d := day.Date()
	start := time.Date(y, m, d, hours.Open, 0, 0, 0, day.Location())
	end := time.Date(y, m, d, hours.Close, 0, 0, 0, day.Location())

	var out []Slot
	for t := start; t.Before(end); t = t.Add(c.SlotEvery) {
		out = append(out, Slot{
			Start:         t,
			FormattedTime: t.Format("15:04"),
			IsAvailable:   true,
		})
	}
	return out
}

// BookingSlots returns the slots a new meeting may take.
func (c Config) BookingSlots(day time.Time) []Slot { return c.Slots(day, c.Booking) }

// DisplaySlots returns the wider range the calendar view renders.
func (c Config) DisplaySlots(day time.Time) []Slot { return c.Slots(day, c.Display) }

// ValidateBookable rejects date-times whose hour falls outside business
// hours. Both the create path and the reschedule path go through here.
func (c Config) ValidateBookable(t time.Time) error {
	if !c.Booking.Contains(t) {
		return fmt.Errorf("heure hors des horaires de service (%02d:00-%02d:00)", c.Booking.Open, c.Booking.Close)
	}
	return nil
}

// JoinVerdict says whether a participant may join now, and if not, why.
type JoinVerdict struct {
	CanJoin  bool
	TooEarly bool
	TooLate  bool
	// Wait is how long until the join window opens; only set when TooEarly.
	Wait time.Duration
}

// JoinWindowAt checks now against [start-window, start+window].
func (c Config) JoinWindowAt(start, now time.Time) JoinVerdict {
	opens := start.Add(-c.JoinWindow)
	closes := start.Add(c.JoinWindow)
	switch {
	case now.Before(opens):
		return JoinVerdict{TooEarly: true, Wait: opens.Sub(now)}
	case now.After(closes):
		return JoinVerdict{TooLate: true}
	default:
		return JoinVerdict{CanJoin: true}
	}
}
