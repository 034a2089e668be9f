package scheduling

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/exaland/CalendarSlackBot/models"
	"github.com/exaland/CalendarSlackBot/utils"
)

// AvailableSlots resolves the free slots for one date. It fetches busy
// intervals once for the whole rule window rather than per slot, then drops
// every candidate overlapping a busy interval (half-open semantics: touching
// endpoints are free).
func (e *DefaultSchedulingEngine) AvailableSlots(ctx context.Context, date time.Time) ([]models.Slot, error) {
	logger := utils.GetLogger()

	ruleList, err := e.Rules(ctx)
	if err != nil {
		return nil, err
	}

	var rule models.AvailabilityRule
	found := false
	for _, r := range ruleList {
		if r.Weekday == date.Weekday() && r.Active && r.Validate() == nil {
			rule = r
			found = true
			break
		}
	}
	if !found {
		return nil, nil
	}

	candidates := GenerateSlots(rule, date)
	if len(candidates) == 0 {
		return nil, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.ioTimeout())
	defer cancel()
	busy, err := e.Busy.ListBusy(fetchCtx, rule.WindowStart.On(date), rule.WindowEnd.On(date))
	if err != nil {
		logger.Error("busy interval fetch failed",
			zap.Time("date", date), zap.Error(err))
		return nil, newError(CodeBusyUnavailable, "could not check the calendar", err)
	}

	now := e.Clock.Now()
	var free []models.Slot
	for _, slot := range candidates {
		if !slot.End.After(now) {
			continue
		}
		blocked := false
		for _, b := range busy {
			if slot.Overlaps(b) {
				blocked = true
				break
			}
		}
		if !blocked {
			free = append(free, slot)
		}
	}
	return free, nil
}

// NextAvailability walks forward from today to the first date whose rule
// still yields at least one free slot.
func (e *DefaultSchedulingEngine) NextAvailability(ctx context.Context) (time.Time, []models.Slot, bool, error) {
	ruleList, err := e.Rules(ctx)
	if err != nil {
		return time.Time{}, nil, false, err
	}

	day := e.Clock.Now()
	for i := 0; i < 7; i++ {
		_, date, ok := NextRuleDate(ruleList, day)
		if !ok {
			return time.Time{}, nil, false, nil
		}
		slots, err := e.AvailableSlots(ctx, date)
		if err != nil {
			return time.Time{}, nil, false, err
		}
		if len(slots) > 0 {
			return date, slots, true, nil
		}
		// Everything on that day was past or busy; try the next rule day.
		day = date.AddDate(0, 0, 1)
	}
	return time.Time{}, nil, false, nil
}
