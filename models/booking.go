package models

import "time"

// Slot is one candidate bookable interval derived from a rule for a concrete
// date. Half-open: [Start, End). Computed on demand, never persisted.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether the slot intersects a busy interval under
// half-open semantics. Touching endpoints do not overlap.
func (s Slot) Overlaps(b BusyInterval) bool {
	return s.Start.Before(b.End) && s.End.After(b.Start)
}

// BusyInterval is an occupied range reported by the calendar, authoritative
// for conflict detection. Opaque beyond its bounds.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Booking is a committed reservation against one slot. It exists in both the
// calendar and the booking log; the calendar is authoritative and the log must
// eventually agree with it.
type Booking struct {
	ID        string    `json:"id"`
	Slot      Slot      `json:"slot"`
	Requester string    `json:"requester"`
	Subject   string    `json:"subject,omitempty"`
	EventID   string    `json:"eventId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event is the calendar-facing shape of a booking.
type Event struct {
	ID        string
	Start     time.Time
	End       time.Time
	Title     string
	Requester string
}
