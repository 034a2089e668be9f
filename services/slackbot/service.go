package slackbot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/exaland/CalendarSlackBot/models"
	"github.com/exaland/CalendarSlackBot/services/scheduling"
	"github.com/exaland/CalendarSlackBot/utils"
)

// Slash commands and interaction identifiers the bot answers to.
const (
	CommandBook  = "/rdv"
	CommandRules = "/dispos"

	ActionBookSlot      = "book_meeting"
	CallbackUpdateAvail = "update_availability"
)

// Service is the interaction layer: it translates Slack commands, button
// clicks and modal submissions into engine calls and engine results into
// Slack messages. It never constructs or parses timestamps itself; slot
// bounds only travel through the engine's opaque tokens.
type Service struct {
	Engine      scheduling.SchedulingEngine
	Client      *slack.Client
	Loc         *time.Location
	ChoiceLimit int
}

func NewService(engine scheduling.SchedulingEngine, client *slack.Client, loc *time.Location, choiceLimit int) *Service {
	if choiceLimit <= 0 {
		choiceLimit = 3
	}
	return &Service{Engine: engine, Client: client, Loc: loc, ChoiceLimit: choiceLimit}
}

// HandleSlashCommand answers /rdv with the next free slots and opens the
// rule-editing modal for /dispos. The returned message (possibly empty) is
// sent back as the immediate command response.
func (s *Service) HandleSlashCommand(ctx context.Context, cmd slack.SlashCommand) (*slack.Msg, error) {
	logger := utils.GetLogger()

	switch cmd.Command {
	case CommandBook:
		date, slots, ok, err := s.Engine.NextAvailability(ctx)
		if err != nil {
			if scheduling.IsBusyUnavailable(err) {
				return ephemeral("I could not reach the calendar. Please try again in a moment."), nil
			}
			return nil, err
		}
		if !ok {
			return ephemeral("No free slots in the coming week, sorry."), nil
		}
		return s.slotChoicesMessage(date, slots), nil

	case CommandRules:
		if _, err := s.Client.OpenViewContext(ctx, cmd.TriggerID, ruleModal()); err != nil {
			logger.Error("failed to open availability modal", zap.Error(err))
			return nil, fmt.Errorf("open availability modal: %w", err)
		}
		return nil, nil
	}

	return ephemeral(fmt.Sprintf("Unknown command %s", cmd.Command)), nil
}

// HandleInteraction processes button clicks and modal submissions. Button
// replies go through the interaction's response URL; modal confirmations are
// sent as a direct message, since view submissions carry no response URL.
func (s *Service) HandleInteraction(ctx context.Context, callback slack.InteractionCallback) error {
	switch callback.Type {
	case slack.InteractionTypeBlockActions:
		for _, action := range callback.ActionCallback.BlockActions {
			if action.ActionID != ActionBookSlot {
				continue
			}
			msg, err := s.bookSlot(ctx, callback, action.Value)
			if err != nil {
				return err
			}
			if msg == nil || callback.ResponseURL == "" {
				return nil
			}
			return slack.PostWebhookContext(ctx, callback.ResponseURL, &slack.WebhookMessage{
				Text:         msg.Text,
				ResponseType: msg.ResponseType,
			})
		}
		return nil

	case slack.InteractionTypeViewSubmission:
		if callback.View.CallbackID != CallbackUpdateAvail {
			return nil
		}
		msg, err := s.updateRule(ctx, callback)
		if err != nil || msg == nil {
			return err
		}
		_, _, err = s.Client.PostMessageContext(ctx, callback.User.ID,
			slack.MsgOptionText(msg.Text, false))
		return err
	}
	return nil
}

func (s *Service) bookSlot(ctx context.Context, callback slack.InteractionCallback, token string) (*slack.Msg, error) {
	logger := utils.GetLogger()
	// The user ID is the stable identity; display names change and would
	// break the commit idempotency key.
	requester := callback.User.ID
	if requester == "" {
		requester = callback.User.Name
	}

	slot, err := scheduling.DecodeSlotToken(token, s.Loc)
	if err != nil {
		logger.Warn("rejecting malformed slot token", zap.String("token", token), zap.Error(err))
		return ephemeral("That slot reference is no longer valid. Run /rdv again."), nil
	}

	booking, err := s.Engine.Commit(ctx, slot, requester, "")
	switch {
	case scheduling.IsConflict(err):
		return ephemeral(fmt.Sprintf("❌ %s - %s is already booked. Run /rdv for fresh slots.",
			slot.Start.Format("15:04"), slot.End.Format("15:04"))), nil
	case scheduling.IsBusyUnavailable(err):
		return ephemeral("I could not re-check the calendar. Nothing was booked; please try again."), nil
	case scheduling.ErrorCode(err) == scheduling.CodePartialCommit:
		// The event exists; the log will catch up via the worker.
		logger.Error("partial commit surfaced to requester", zap.Error(err))
		fallthrough
	case err == nil:
		return ephemeral(fmt.Sprintf("✅ Booked: %s → %s",
			booking.Slot.Start.Format("15:04"), booking.Slot.End.Format("15:04"))), nil
	default:
		logger.Error("booking failed", zap.String("requester", requester), zap.Error(err))
		return ephemeral("Something went wrong on my side. Nothing was booked."), nil
	}
}

func (s *Service) updateRule(ctx context.Context, callback slack.InteractionCallback) (*slack.Msg, error) {
	rule, err := ruleFromViewState(callback.View.State)
	if err != nil {
		return ephemeral(fmt.Sprintf("I could not read that form: %v", err)), nil
	}
	if err := s.Engine.UpsertRule(ctx, rule); err != nil {
		if scheduling.ErrorCode(err) == scheduling.CodeInvalidRule {
			return ephemeral("That window does not work: the start must come before the end and the duration must be positive."), nil
		}
		return nil, err
	}
	return ephemeral(fmt.Sprintf("✅ Availability updated for *%s*: %s → %s (%d min), active: %t",
		rule.Weekday, rule.WindowStart, rule.WindowEnd, rule.SlotDuration, rule.Active)), nil
}

func ruleFromViewState(state *slack.ViewState) (models.AvailabilityRule, error) {
	if state == nil {
		return models.AvailabilityRule{}, fmt.Errorf("empty form state")
	}
	values := state.Values

	weekday, err := models.ParseWeekday(values[blockDay][inputDay].SelectedOption.Value)
	if err != nil {
		return models.AvailabilityRule{}, err
	}
	start, err := models.ParseClock(values[blockStart][inputStart].SelectedOption.Value)
	if err != nil {
		return models.AvailabilityRule{}, err
	}
	end, err := models.ParseClock(values[blockEnd][inputEnd].SelectedOption.Value)
	if err != nil {
		return models.AvailabilityRule{}, err
	}
	duration, err := strconv.Atoi(values[blockDuration][inputDuration].SelectedOption.Value)
	if err != nil {
		return models.AvailabilityRule{}, fmt.Errorf("invalid duration")
	}

	return models.AvailabilityRule{
		Weekday:      weekday,
		WindowStart:  start,
		WindowEnd:    end,
		SlotDuration: duration,
		Active:       values[blockActive][inputActive].SelectedOption.Value == "yes",
	}, nil
}

func ephemeral(text string) *slack.Msg {
	return &slack.Msg{ResponseType: slack.ResponseTypeEphemeral, Text: text}
}
