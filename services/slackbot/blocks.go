package slackbot

import (
	"fmt"
	"time"

	"github.com/slack-go/slack"

	"github.com/exaland/CalendarSlackBot/models"
	"github.com/exaland/CalendarSlackBot/services/scheduling"
)

// slotChoicesMessage renders the top free slots as sections with a booking
// button each. The button value is the engine's opaque slot token; the
// resolver returned every free slot and only display is truncated here.
func (s *Service) slotChoicesMessage(date time.Time, slots []models.Slot) *slack.Msg {
	shown := slots
	if len(shown) > s.ChoiceLimit {
		shown = shown[:s.ChoiceLimit]
	}

	blocks := make([]slack.Block, 0, len(shown)+1)
	header := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("Free slots on *%s*:", date.Format("Monday 2 January")), false, false),
		nil, nil)
	blocks = append(blocks, header)

	for i, slot := range shown {
		label := slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Slot %d*: %s - %s", i+1, slot.Start.Format("15:04"), slot.End.Format("15:04")),
			false, false)
		button := slack.NewButtonBlockElement(
			ActionBookSlot,
			scheduling.EncodeSlotToken(slot),
			slack.NewTextBlockObject(slack.PlainTextType, "Book", false, false))
		blocks = append(blocks, slack.NewSectionBlock(label, nil, slack.NewAccessory(button)))
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         fmt.Sprintf("Free slots on %s", date.Format("Monday 2 January")),
		Blocks:       slack.Blocks{BlockSet: blocks},
	}
}
