package scheduling

import (
	"context"
	"crypto/sha256"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/exaland/CalendarSlackBot/models"
	"github.com/exaland/CalendarSlackBot/store/calendar"
	"github.com/exaland/CalendarSlackBot/utils"
)

var eventIDEncoding = base32.HexEncoding.WithPadding(base32.NoPadding)

// EventIDFor derives the calendar event ID from the slot bounds and the
// requester. The same (slot, requester) pair always maps to the same ID, so
// the calendar itself rejects a duplicate insert: that is the server-side
// insert-if-absent half of the exclusion guarantee.
func EventIDFor(slot models.Slot, requester string) string {
	key := fmt.Sprintf("%d|%d|%s", slot.Start.Unix(), slot.End.Unix(), requester)
	sum := sha256.Sum256([]byte(key))
	// Calendar event IDs must use the base32hex alphabet, lowercased.
	return strings.ToLower(eventIDEncoding.EncodeToString(sum[:]))
}

// Commit books the slot for the requester.
//
// The order is fixed: slot lock, busy re-check, calendar insert, log append.
// The calendar is the authoritative availability signal, so it is written
// before the log; a failed log append is deferred to the reconciliation
// queue rather than undoing the event.
func (e *DefaultSchedulingEngine) Commit(ctx context.Context, slot models.Slot, requester, subject string) (*models.Booking, error) {
	logger := utils.GetLogger()

	if !slot.Start.Before(slot.End) {
		return nil, newError(CodeInvalidSlot, "malformed slot bounds", nil)
	}

	lockCtx, cancel := context.WithTimeout(ctx, e.ioTimeout())
	defer cancel()
	acquired, err := e.Locker.Acquire(lockCtx, slot, e.lockTTL())
	if err != nil {
		return nil, fmt.Errorf("slot lock unavailable: %w", err)
	}
	if !acquired {
		return nil, newError(CodeConflict, "another booking for this slot is in flight", nil)
	}
	defer func() {
		if err := e.Locker.Release(context.Background(), slot); err != nil {
			logger.Warn("slot lock release failed", zap.Error(err))
		}
	}()

	// Re-validate freshness immediately before the authoritative write.
	busyCtx, cancelBusy := context.WithTimeout(ctx, e.ioTimeout())
	defer cancelBusy()
	busy, err := e.Busy.ListBusy(busyCtx, slot.Start, slot.End)
	if err != nil {
		return nil, newError(CodeBusyUnavailable, "could not re-check the calendar", err)
	}
	for _, b := range busy {
		if !slot.Overlaps(b) {
			continue
		}
		// The overlap may be the caller's own earlier commit; that is a
		// no-op success, not a conflict.
		ownCtx, cancelOwn := context.WithTimeout(ctx, e.ioTimeout())
		eventID, owned, ownErr := e.Events.OwnedOverlap(ownCtx, slot.Start, slot.End, requester)
		cancelOwn()
		if ownErr == nil && owned {
			logger.Info("commit is a repeat of an existing booking",
				zap.String("requester", requester), zap.String("eventId", eventID))
			return e.priorBooking(slot, requester, subject, eventID), nil
		}
		return nil, newError(CodeConflict, "slot already booked", nil)
	}

	ev := models.Event{
		ID:        EventIDFor(slot, requester),
		Start:     slot.Start,
		End:       slot.End,
		Title:     eventTitle(subject, requester),
		Requester: requester,
	}
	writeCtx, cancelWrite := context.WithTimeout(ctx, e.ioTimeout())
	defer cancelWrite()
	eventID, err := e.Events.InsertEvent(writeCtx, ev)
	if errors.Is(err, calendar.ErrEventExists) {
		// Same deterministic ID means same (slot, requester): prior commit.
		return e.priorBooking(slot, requester, subject, ev.ID), nil
	}
	if err != nil {
		logger.Error("calendar event insert failed",
			zap.String("requester", requester), zap.Error(err))
		return nil, newError(CodeCalendarWrite, "could not create the calendar event", err)
	}

	booking := &models.Booking{
		ID:        uuid.New().String(),
		Slot:      slot,
		Requester: requester,
		Subject:   subject,
		EventID:   eventID,
		CreatedAt: e.Clock.Now(),
	}

	logCtx, cancelLog := context.WithTimeout(ctx, e.ioTimeout())
	defer cancelLog()
	if err := e.Log.Append(logCtx, *booking); err != nil {
		logger.Warn("booking log append failed, deferring to reconciliation",
			zap.String("eventId", eventID), zap.Error(err))
		if qErr := e.Queue.EnqueueAppend(ctx, *booking); qErr != nil {
			return booking, newError(CodePartialCommit,
				"booking created but not logged; repair required", errors.Join(err, qErr))
		}
	}
	return booking, nil
}

func (e *DefaultSchedulingEngine) priorBooking(slot models.Slot, requester, subject, eventID string) *models.Booking {
	return &models.Booking{
		ID:        uuid.New().String(),
		Slot:      slot,
		Requester: requester,
		Subject:   subject,
		EventID:   eventID,
		CreatedAt: e.Clock.Now(),
	}
}

func eventTitle(subject, requester string) string {
	if subject != "" {
		return fmt.Sprintf("%s - %s", subject, requester)
	}
	return fmt.Sprintf("Appointment with %s", requester)
}
