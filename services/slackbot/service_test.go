package slackbot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/slack-go/slack"

	"github.com/exaland/CalendarSlackBot/models"
	"github.com/exaland/CalendarSlackBot/services/scheduling"
)

// fakeEngine records commit calls; the other operations are unused by the
// paths under test.
type fakeEngine struct {
	committedRequester string
}

func (f *fakeEngine) Rules(ctx context.Context) ([]models.AvailabilityRule, error) {
	return nil, nil
}

func (f *fakeEngine) UpsertRule(ctx context.Context, rule models.AvailabilityRule) error {
	return nil
}

func (f *fakeEngine) AvailableSlots(ctx context.Context, date time.Time) ([]models.Slot, error) {
	return nil, nil
}

func (f *fakeEngine) NextAvailability(ctx context.Context) (time.Time, []models.Slot, bool, error) {
	return time.Time{}, nil, false, nil
}

func (f *fakeEngine) Commit(ctx context.Context, slot models.Slot, requester, subject string) (*models.Booking, error) {
	f.committedRequester = requester
	return &models.Booking{Slot: slot, Requester: requester, EventID: "ev-1"}, nil
}

func testSlots(t *testing.T, n int) (time.Time, []models.Slot) {
	t.Helper()
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	slots := make([]models.Slot, 0, n)
	cursor := day.Add(9 * time.Hour)
	for i := 0; i < n; i++ {
		slots = append(slots, models.Slot{Start: cursor, End: cursor.Add(30 * time.Minute)})
		cursor = cursor.Add(30 * time.Minute)
	}
	return day, slots
}

func TestSlotChoicesMessage_TruncatesToLimit(t *testing.T) {
	day, slots := testSlots(t, 5)
	s := &Service{ChoiceLimit: 3}

	msg := s.slotChoicesMessage(day, slots)

	// Header section plus one section per displayed slot.
	if got := len(msg.Blocks.BlockSet); got != 4 {
		t.Fatalf("expected 4 blocks, got %d", got)
	}
}

func TestSlotChoicesMessage_ButtonsCarryValidTokens(t *testing.T) {
	day, slots := testSlots(t, 2)
	s := &Service{ChoiceLimit: 3}

	msg := s.slotChoicesMessage(day, slots)

	var tokens []string
	for _, block := range msg.Blocks.BlockSet {
		section, ok := block.(*slack.SectionBlock)
		if !ok || section.Accessory == nil || section.Accessory.ButtonElement == nil {
			continue
		}
		button := section.Accessory.ButtonElement
		if button.ActionID != ActionBookSlot {
			t.Errorf("button action ID %q, want %q", button.ActionID, ActionBookSlot)
		}
		tokens = append(tokens, button.Value)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 booking buttons, got %d", len(tokens))
	}
	for i, token := range tokens {
		slot, err := scheduling.DecodeSlotToken(token, time.UTC)
		if err != nil {
			t.Fatalf("button %d token does not decode: %v", i, err)
		}
		if !slot.Start.Equal(slots[i].Start) || !slot.End.Equal(slots[i].End) {
			t.Errorf("button %d token decodes to %+v, want %+v", i, slot, slots[i])
		}
	}
}

func TestBookSlot_CommitsUnderStableUserID(t *testing.T) {
	_, slots := testSlots(t, 1)
	eng := &fakeEngine{}
	s := NewService(eng, nil, time.UTC, 3)

	// Display names change between payloads; only the user ID keeps repeat
	// commits matching their prior booking.
	callback := slack.InteractionCallback{
		User: slack.User{ID: "U123", Name: "alice"},
	}
	msg, err := s.bookSlot(context.Background(), callback, scheduling.EncodeSlotToken(slots[0]))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eng.committedRequester != "U123" {
		t.Fatalf("committed as %q, want the user ID U123", eng.committedRequester)
	}
	if msg == nil || !strings.Contains(msg.Text, "Booked") {
		t.Fatalf("expected a booking confirmation, got %+v", msg)
	}
}

func TestRuleFromViewState(t *testing.T) {
	state := &slack.ViewState{
		Values: map[string]map[string]slack.BlockAction{
			blockDay:      {inputDay: {SelectedOption: slack.OptionBlockObject{Value: "Monday"}}},
			blockStart:    {inputStart: {SelectedOption: slack.OptionBlockObject{Value: "09:00"}}},
			blockEnd:      {inputEnd: {SelectedOption: slack.OptionBlockObject{Value: "11:00"}}},
			blockDuration: {inputDuration: {SelectedOption: slack.OptionBlockObject{Value: "30"}}},
			blockActive:   {inputActive: {SelectedOption: slack.OptionBlockObject{Value: "yes"}}},
		},
	}

	rule, err := ruleFromViewState(state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.AvailabilityRule{
		Weekday: time.Monday, WindowStart: 540, WindowEnd: 660, SlotDuration: 30, Active: true,
	}
	if rule != want {
		t.Fatalf("got %+v, want %+v", rule, want)
	}
}

func TestRuleFromViewState_Empty(t *testing.T) {
	if _, err := ruleFromViewState(nil); err == nil {
		t.Fatal("expected error for nil view state")
	}
}

func TestRuleModal_Shape(t *testing.T) {
	modal := ruleModal()

	if modal.CallbackID != CallbackUpdateAvail {
		t.Errorf("callback ID %q, want %q", modal.CallbackID, CallbackUpdateAvail)
	}
	if got := len(modal.Blocks.BlockSet); got != 5 {
		t.Fatalf("expected 5 input blocks, got %d", got)
	}
	var ids []string
	for _, block := range modal.Blocks.BlockSet {
		input, ok := block.(*slack.InputBlock)
		if !ok {
			t.Fatalf("unexpected block type %T", block)
		}
		ids = append(ids, input.BlockID)
	}
	joined := strings.Join(ids, ",")
	for _, want := range []string{blockDay, blockStart, blockEnd, blockDuration, blockActive} {
		if !strings.Contains(joined, want) {
			t.Errorf("modal is missing block %q", want)
		}
	}
}
