package scheduling

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/exaland/CalendarSlackBot/models"
	"github.com/exaland/CalendarSlackBot/store/calendar"
)

func testSlot(t *testing.T) models.Slot {
	day := monday(t)
	return models.Slot{Start: day.Add(10 * time.Hour), End: day.Add(10*time.Hour + 30*time.Minute)}
}

func TestCommit_Succeeds(t *testing.T) {
	slot := testSlot(t)
	env := newTestEnv(slot.Start.Add(-time.Hour))

	booking, err := env.engine.Commit(context.Background(), slot, "alice", "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(env.events.inserted) != 1 {
		t.Fatalf("expected 1 calendar event, got %d", len(env.events.inserted))
	}
	ev := env.events.inserted[0]
	if !ev.Start.Equal(slot.Start) || !ev.End.Equal(slot.End) {
		t.Errorf("event bounds %s-%s do not match slot", ev.Start, ev.End)
	}
	if ev.ID != EventIDFor(slot, "alice") {
		t.Errorf("event ID is not the deterministic one")
	}

	if len(env.log.appended) != 1 {
		t.Fatalf("expected 1 log row, got %d", len(env.log.appended))
	}
	if env.log.appended[0].EventID != booking.EventID {
		t.Errorf("log row and booking disagree on event ID")
	}
	if booking.Requester != "alice" || booking.Subject != "demo" {
		t.Errorf("booking identity wrong: %+v", booking)
	}
	if env.locker.acquireds != 1 || env.locker.releaseds != 1 {
		t.Errorf("lock acquire/release = %d/%d, want 1/1", env.locker.acquireds, env.locker.releaseds)
	}
}

func TestCommit_ConflictWhenSlotTaken(t *testing.T) {
	slot := testSlot(t)
	env := newTestEnv(slot.Start.Add(-time.Hour))
	// Someone else's booking landed between display and commit.
	env.busy.busy = []models.BusyInterval{{Start: slot.Start, End: slot.End}}

	_, err := env.engine.Commit(context.Background(), slot, "bob", "")
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(env.events.inserted) != 0 {
		t.Error("conflict must not insert a calendar event")
	}
	if len(env.log.appended) != 0 {
		t.Error("conflict must not touch the log")
	}
	if env.locker.releaseds != 1 {
		t.Error("lock must be released on conflict")
	}
}

func TestCommit_RepeatIsNoOp(t *testing.T) {
	slot := testSlot(t)
	env := newTestEnv(slot.Start.Add(-time.Hour))
	// The overlapping event is the requester's own earlier commit.
	env.busy.busy = []models.BusyInterval{{Start: slot.Start, End: slot.End}}
	env.events.owned = true
	env.events.ownedID = EventIDFor(slot, "alice")

	booking, err := env.engine.Commit(context.Background(), slot, "alice", "")
	if err != nil {
		t.Fatalf("expected no-op success, got %v", err)
	}
	if booking.EventID != env.events.ownedID {
		t.Errorf("expected the prior event ID, got %s", booking.EventID)
	}
	if len(env.events.inserted) != 0 {
		t.Error("repeat commit must not create a second event")
	}
	if len(env.log.appended) != 0 {
		t.Error("repeat commit must not append a second log row")
	}
}

func TestCommit_DuplicateInsertIsNoOp(t *testing.T) {
	slot := testSlot(t)
	env := newTestEnv(slot.Start.Add(-time.Hour))
	// Busy re-check misses the event (e.g., it landed after a timed-out
	// write) but the calendar rejects the duplicate ID.
	env.events.insertErr = fmt.Errorf("event: %w", calendar.ErrEventExists)

	booking, err := env.engine.Commit(context.Background(), slot, "alice", "")
	if err != nil {
		t.Fatalf("expected no-op success, got %v", err)
	}
	if booking.EventID != EventIDFor(slot, "alice") {
		t.Errorf("expected deterministic event ID, got %s", booking.EventID)
	}
	if len(env.log.appended) != 0 {
		t.Error("duplicate insert must not append a log row")
	}
}

func TestCommit_RejectsMalformedBounds(t *testing.T) {
	day := monday(t)
	env := newTestEnv(day.Add(8 * time.Hour))
	// Start == End and inverted bounds are caller bugs, not conflicts.
	slots := []models.Slot{
		{Start: day.Add(10 * time.Hour), End: day.Add(10 * time.Hour)},
		{Start: day.Add(11 * time.Hour), End: day.Add(10 * time.Hour)},
	}
	for _, slot := range slots {
		_, err := env.engine.Commit(context.Background(), slot, "alice", "")
		if ErrorCode(err) != CodeInvalidSlot {
			t.Fatalf("expected invalid_slot for bounds %s-%s, got %v", slot.Start, slot.End, err)
		}
	}
	if env.locker.acquireds != 0 {
		t.Error("malformed bounds must be rejected before taking the lock")
	}
}

func TestCommit_LockHeldMeansConflict(t *testing.T) {
	slot := testSlot(t)
	env := newTestEnv(slot.Start.Add(-time.Hour))
	env.locker.denied = true

	_, err := env.engine.Commit(context.Background(), slot, "bob", "")
	if !IsConflict(err) {
		t.Fatalf("expected conflict while lock is held, got %v", err)
	}
	if env.busy.fetches != 0 {
		t.Error("no busy re-check should happen without the lock")
	}
}

func TestCommit_BusyRecheckFailure(t *testing.T) {
	slot := testSlot(t)
	env := newTestEnv(slot.Start.Add(-time.Hour))
	env.busy.err = errBackend

	_, err := env.engine.Commit(context.Background(), slot, "alice", "")
	if !IsBusyUnavailable(err) {
		t.Fatalf("expected busy_source_unavailable, got %v", err)
	}
	if len(env.events.inserted) != 0 {
		t.Error("no event may be written without a fresh busy check")
	}
}

func TestCommit_CalendarWriteFailure(t *testing.T) {
	slot := testSlot(t)
	env := newTestEnv(slot.Start.Add(-time.Hour))
	env.events.insertErr = errBackend

	_, err := env.engine.Commit(context.Background(), slot, "alice", "")
	if ErrorCode(err) != CodeCalendarWrite {
		t.Fatalf("expected calendar_write_failed, got %v", err)
	}
	if len(env.log.appended) != 0 {
		t.Error("the log must not record a booking whose event did not land")
	}
}

func TestCommit_LogFailureDefersToQueue(t *testing.T) {
	slot := testSlot(t)
	env := newTestEnv(slot.Start.Add(-time.Hour))
	env.log.appendErr = errBackend

	booking, err := env.engine.Commit(context.Background(), slot, "alice", "")
	if err != nil {
		t.Fatalf("calendar write landed, commit should succeed: %v", err)
	}
	if len(env.events.inserted) != 1 {
		t.Fatalf("expected the calendar event, got %d", len(env.events.inserted))
	}
	if len(env.queue.enqueued) != 1 {
		t.Fatalf("expected 1 queued log append, got %d", len(env.queue.enqueued))
	}
	if env.queue.enqueued[0].EventID != booking.EventID {
		t.Error("queued booking must carry the same idempotency key")
	}
}

func TestCommit_LogAndQueueFailureIsPartialCommit(t *testing.T) {
	slot := testSlot(t)
	env := newTestEnv(slot.Start.Add(-time.Hour))
	env.log.appendErr = errBackend
	env.queue.err = errBackend

	booking, err := env.engine.Commit(context.Background(), slot, "alice", "")
	if ErrorCode(err) != CodePartialCommit {
		t.Fatalf("expected partial_commit, got %v", err)
	}
	if booking == nil {
		t.Fatal("partial commit still returns the booking; the event exists")
	}
}

func TestEventIDFor_DeterministicAndDistinct(t *testing.T) {
	slot := testSlot(t)
	other := models.Slot{Start: slot.Start.Add(30 * time.Minute), End: slot.End.Add(30 * time.Minute)}

	if EventIDFor(slot, "alice") != EventIDFor(slot, "alice") {
		t.Error("same slot and requester must map to the same ID")
	}
	if EventIDFor(slot, "alice") == EventIDFor(slot, "bob") {
		t.Error("different requesters must map to different IDs")
	}
	if EventIDFor(slot, "alice") == EventIDFor(other, "alice") {
		t.Error("different slots must map to different IDs")
	}
	for _, r := range EventIDFor(slot, "Alice Ω") {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'v') {
			t.Fatalf("event ID contains %q outside the base32hex alphabet", r)
		}
	}
}
