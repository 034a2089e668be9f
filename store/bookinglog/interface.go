package bookinglog

import (
	"context"

	"github.com/exaland/CalendarSlackBot/models"
)

// LogRepository is the append-only booking log. Rows are keyed by the
// booking's calendar event ID so the reconciliation worker can retry a
// failed write without producing duplicate rows.
type LogRepository interface {
	Append(ctx context.Context, booking models.Booking) error
	// Has reports whether a row for the event ID already landed.
	Has(ctx context.Context, eventID string) (bool, error)
}
