package scheduling

import (
	"context"
	"time"

	"github.com/exaland/CalendarSlackBot/models"
	"github.com/exaland/CalendarSlackBot/store/bookinglog"
	"github.com/exaland/CalendarSlackBot/store/calendar"
	"github.com/exaland/CalendarSlackBot/store/rules"
)

// SchedulingEngine defines the availability & booking operations the
// interaction layer calls into.
type SchedulingEngine interface {
	// Rules returns every stored availability rule.
	Rules(ctx context.Context) ([]models.AvailabilityRule, error)
	// UpsertRule replaces or creates the rule for its weekday.
	UpsertRule(ctx context.Context, rule models.AvailabilityRule) error
	// AvailableSlots resolves the free slots for one date, in chronological
	// order. Truncation for display is the caller's concern.
	AvailableSlots(ctx context.Context, date time.Time) ([]models.Slot, error)
	// NextAvailability finds the nearest date with at least one free slot and
	// returns that date with its free slots. ok is false when no active rule
	// yields a free slot within the coming week.
	NextAvailability(ctx context.Context) (time.Time, []models.Slot, bool, error)
	// Commit books the slot for the requester: re-validates freshness, writes
	// the calendar event, then the log row. Returns a conflict error when the
	// slot was taken in the meantime; committing the same slot twice for the
	// same requester is a no-op success.
	Commit(ctx context.Context, slot models.Slot, requester, subject string) (*models.Booking, error)
}

// LogQueue defers a booking-log append for retry when the direct write
// fails after the calendar event already landed.
type LogQueue interface {
	EnqueueAppend(ctx context.Context, booking models.Booking) error
}

// DefaultSchedulingEngine is the production engine. Adapters are constructed
// once at startup and injected; the engine holds no mutable state of its own.
type DefaultSchedulingEngine struct {
	RuleRepo rules.RuleRepository
	Busy     calendar.BusySource
	Events   calendar.EventWriter
	Log      bookinglog.LogRepository
	Queue    LogQueue
	Locker   SlotLocker
	Clock    Clock

	// IOTimeout bounds every adapter call; LockTTL bounds how long a commit
	// may hold a slot lock.
	IOTimeout time.Duration
	LockTTL   time.Duration
}

func (e *DefaultSchedulingEngine) ioTimeout() time.Duration {
	if e.IOTimeout > 0 {
		return e.IOTimeout
	}
	return 10 * time.Second
}

func (e *DefaultSchedulingEngine) lockTTL() time.Duration {
	if e.LockTTL > 0 {
		return e.LockTTL
	}
	return 15 * time.Second
}

func (e *DefaultSchedulingEngine) Rules(ctx context.Context) ([]models.AvailabilityRule, error) {
	ctx, cancel := context.WithTimeout(ctx, e.ioTimeout())
	defer cancel()
	return e.RuleRepo.List(ctx)
}

func (e *DefaultSchedulingEngine) UpsertRule(ctx context.Context, rule models.AvailabilityRule) error {
	if err := rule.Validate(); err != nil {
		return newError(CodeInvalidRule, "rule rejected", err)
	}
	ctx, cancel := context.WithTimeout(ctx, e.ioTimeout())
	defer cancel()
	return e.RuleRepo.Upsert(ctx, rule)
}
