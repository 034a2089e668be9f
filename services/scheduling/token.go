package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/exaland/CalendarSlackBot/models"
)

// Slot tokens carry a slot's bounds through the interaction layer as opaque
// button values. The engine owns both directions of the codec so no other
// component ever parses or constructs timestamps.

const tokenSep = "|"

// EncodeSlotToken renders a slot as a round-trippable token.
func EncodeSlotToken(slot models.Slot) string {
	return slot.Start.Format(time.RFC3339) + tokenSep + slot.End.Format(time.RFC3339)
}

// DecodeSlotToken reverses EncodeSlotToken without loss of precision.
func DecodeSlotToken(token string, loc *time.Location) (models.Slot, error) {
	parts := strings.SplitN(token, tokenSep, 2)
	if len(parts) != 2 {
		return models.Slot{}, fmt.Errorf("malformed slot token %q", token)
	}
	start, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return models.Slot{}, fmt.Errorf("malformed slot token start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return models.Slot{}, fmt.Errorf("malformed slot token end: %w", err)
	}
	if !start.Before(end) {
		return models.Slot{}, fmt.Errorf("slot token bounds out of order: %s / %s", parts[0], parts[1])
	}
	return models.Slot{Start: start.In(loc), End: end.In(loc)}, nil
}
