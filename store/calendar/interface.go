package calendar

import (
	"context"
	"time"

	"github.com/exaland/CalendarSlackBot/models"
)

// BusySource lists occupied intervals from the calendar over a half-open
// window [start, end). All times carry an explicit offset; never naive.
type BusySource interface {
	ListBusy(ctx context.Context, start, end time.Time) ([]models.BusyInterval, error)
}

// EventWriter inserts booking events. Insert must report "already exists"
// distinctly from other failures: the engine relies on that to make commits
// idempotent.
type EventWriter interface {
	// InsertEvent creates the event and returns its calendar ID.
	// Returns ErrEventExists (possibly wrapped) when an event with the same
	// identity is already present.
	InsertEvent(ctx context.Context, ev models.Event) (string, error)
	// OwnedOverlap reports whether an event overlapping [start, end) was
	// created for the given requester, and returns its ID if so.
	OwnedOverlap(ctx context.Context, start, end time.Time, requester string) (string, bool, error)
}
