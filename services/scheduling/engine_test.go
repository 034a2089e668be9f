package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/exaland/CalendarSlackBot/models"
)

// Shared fakes for the engine tests. Everything is in-memory and
// deterministic; the fixed clock pins "now".

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time           { return c.now }
func (c *fakeClock) Location() *time.Location { return c.now.Location() }

type fakeRuleRepo struct {
	rules    []models.AvailabilityRule
	listErr  error
	upserted []models.AvailabilityRule
}

func (r *fakeRuleRepo) List(ctx context.Context) ([]models.AvailabilityRule, error) {
	return r.rules, r.listErr
}

func (r *fakeRuleRepo) Upsert(ctx context.Context, rule models.AvailabilityRule) error {
	r.upserted = append(r.upserted, rule)
	return nil
}

type fakeBusySource struct {
	busy    []models.BusyInterval
	err     error
	fetches int
}

func (b *fakeBusySource) ListBusy(ctx context.Context, start, end time.Time) ([]models.BusyInterval, error) {
	b.fetches++
	if b.err != nil {
		return nil, b.err
	}
	var out []models.BusyInterval
	for _, iv := range b.busy {
		if iv.Start.Before(end) && iv.End.After(start) {
			out = append(out, iv)
		}
	}
	return out, nil
}

type fakeEventWriter struct {
	insertErr error
	inserted  []models.Event
	ownedID   string
	owned     bool
}

func (w *fakeEventWriter) InsertEvent(ctx context.Context, ev models.Event) (string, error) {
	if w.insertErr != nil {
		return "", w.insertErr
	}
	w.inserted = append(w.inserted, ev)
	return ev.ID, nil
}

func (w *fakeEventWriter) OwnedOverlap(ctx context.Context, start, end time.Time, requester string) (string, bool, error) {
	return w.ownedID, w.owned, nil
}

type fakeLogRepo struct {
	appendErr error
	appended  []models.Booking
	rows      map[string]bool
}

func (l *fakeLogRepo) Append(ctx context.Context, booking models.Booking) error {
	if l.appendErr != nil {
		return l.appendErr
	}
	l.appended = append(l.appended, booking)
	return nil
}

func (l *fakeLogRepo) Has(ctx context.Context, eventID string) (bool, error) {
	return l.rows[eventID], nil
}

type fakeLocker struct {
	denied    bool
	acquireds int
	releaseds int
}

func (l *fakeLocker) Acquire(ctx context.Context, slot models.Slot, ttl time.Duration) (bool, error) {
	l.acquireds++
	return !l.denied, nil
}

func (l *fakeLocker) Release(ctx context.Context, slot models.Slot) error {
	l.releaseds++
	return nil
}

type fakeQueue struct {
	enqueued []models.Booking
	err      error
}

func (q *fakeQueue) EnqueueAppend(ctx context.Context, booking models.Booking) error {
	if q.err != nil {
		return q.err
	}
	q.enqueued = append(q.enqueued, booking)
	return nil
}

var errBackend = errors.New("backend down")

type testEnv struct {
	engine *DefaultSchedulingEngine
	rules  *fakeRuleRepo
	busy   *fakeBusySource
	events *fakeEventWriter
	log    *fakeLogRepo
	locker *fakeLocker
	queue  *fakeQueue
	clock  *fakeClock
}

func newTestEnv(now time.Time) *testEnv {
	env := &testEnv{
		rules:  &fakeRuleRepo{},
		busy:   &fakeBusySource{},
		events: &fakeEventWriter{},
		log:    &fakeLogRepo{rows: map[string]bool{}},
		locker: &fakeLocker{},
		queue:  &fakeQueue{},
		clock:  &fakeClock{now: now},
	}
	env.engine = &DefaultSchedulingEngine{
		RuleRepo: env.rules,
		Busy:     env.busy,
		Events:   env.events,
		Log:      env.log,
		Queue:    env.queue,
		Locker:   env.locker,
		Clock:    env.clock,
	}
	return env
}

func mustClock(t interface{ Fatalf(string, ...interface{}) }, s string) models.ClockMinute {
	c, err := models.ParseClock(s)
	if err != nil {
		t.Fatalf("bad clock literal %q: %v", s, err)
	}
	return c
}
