package models

import (
	"fmt"
	"strings"
	"time"
)

// ClockMinute is a time of day expressed as minutes from midnight
// (e.g., 540 for 9:00 AM). The sheet stores "HH:MM" strings; adapters
// convert at the boundary.
type ClockMinute int

// ParseClock parses an "HH:MM" string into a ClockMinute.
func ParseClock(s string) (ClockMinute, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return ClockMinute(t.Hour()*60 + t.Minute()), nil
}

// String renders the clock time back as "HH:MM".
func (c ClockMinute) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On anchors the clock time onto a concrete date in the date's location.
// The instant is built from wall-clock components rather than by adding a
// duration to midnight, so the result stays at the configured hour on
// DST-transition days.
func (c ClockMinute) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(c)/60, int(c)%60, 0, 0, date.Location())
}

// ParseWeekday parses an English weekday name ("Monday", "mon").
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	case "tuesday", "tue":
		return time.Tuesday, nil
	case "wednesday", "wed":
		return time.Wednesday, nil
	case "thursday", "thu":
		return time.Thursday, nil
	case "friday", "fri":
		return time.Friday, nil
	case "saturday", "sat":
		return time.Saturday, nil
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

// AvailabilityRule is one weekly recurring availability window. At most one
// active rule exists per weekday; the rule store's upsert enforces that.
type AvailabilityRule struct {
	Weekday      time.Weekday `json:"weekday"`
	WindowStart  ClockMinute  `json:"windowStart"`
	WindowEnd    ClockMinute  `json:"windowEnd"`
	SlotDuration int          `json:"slotDuration"` // minutes
	Active       bool         `json:"active"`
}

// Validate reports whether the rule can generate slots. Rules come from an
// uncontrolled external sheet, so a malformed rule is an expected condition,
// not a crash.
func (r AvailabilityRule) Validate() error {
	if r.SlotDuration <= 0 {
		return fmt.Errorf("slot duration must be positive, got %d", r.SlotDuration)
	}
	if r.WindowStart >= r.WindowEnd {
		return fmt.Errorf("window start %s not before window end %s", r.WindowStart, r.WindowEnd)
	}
	return nil
}
