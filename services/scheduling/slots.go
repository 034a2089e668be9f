package scheduling

import (
	"time"

	"github.com/exaland/CalendarSlackBot/models"
)

// GenerateSlots expands a weekly rule into concrete candidate slots on the
// given date. Pure and deterministic.
//
// Returns an empty sequence when the rule is inactive, malformed, or the date
// does not fall on the rule's weekday — the rule store is an uncontrolled
// external input, so a bad rule offers no slots rather than failing. Slots
// partition [windowStart, windowEnd] in chronological order; a trailing
// remainder shorter than the slot duration is dropped.
func GenerateSlots(rule models.AvailabilityRule, date time.Time) []models.Slot {
	if !rule.Active || rule.Validate() != nil || date.Weekday() != rule.Weekday {
		return nil
	}

	duration := time.Duration(rule.SlotDuration) * time.Minute
	cursor := rule.WindowStart.On(date)
	windowEnd := rule.WindowEnd.On(date)

	var slots []models.Slot
	for !cursor.Add(duration).After(windowEnd) {
		slots = append(slots, models.Slot{Start: cursor, End: cursor.Add(duration)})
		cursor = cursor.Add(duration)
	}
	return slots
}

// NextRuleDate walks forward from the given day (inclusive) to the first date
// whose weekday carries an active, well-formed rule. The generator itself
// never searches across dates; this is the one place that does.
func NextRuleDate(rules []models.AvailabilityRule, from time.Time) (models.AvailabilityRule, time.Time, bool) {
	byDay := make(map[time.Weekday]models.AvailabilityRule, len(rules))
	for _, r := range rules {
		if r.Active && r.Validate() == nil {
			byDay[r.Weekday] = r
		}
	}
	day := from
	for i := 0; i < 7; i++ {
		if r, ok := byDay[day.Weekday()]; ok {
			return r, day, true
		}
		day = day.AddDate(0, 0, 1)
	}
	return models.AvailabilityRule{}, time.Time{}, false
}
