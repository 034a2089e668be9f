package slackbot

import (
	"fmt"

	"github.com/slack-go/slack"
)

// Block and input IDs for the availability modal.
const (
	blockDay      = "day_block"
	inputDay      = "day"
	blockStart    = "start_time_block"
	inputStart    = "start_time_input"
	blockEnd      = "end_time_block"
	inputEnd      = "end_time_input"
	blockDuration = "duration_block"
	inputDuration = "duration_input"
	blockActive   = "active_block"
	inputActive   = "active_input"
)

var modalWeekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

var modalDurations = []string{"15", "30", "45", "60", "90"}

// ruleModal builds the /dispos modal: weekday, window start/end, slot
// duration and an on/off switch. Submitting upserts the weekday's rule.
func ruleModal() slack.ModalViewRequest {
	dayOptions := make([]*slack.OptionBlockObject, 0, len(modalWeekdays))
	for _, d := range modalWeekdays {
		dayOptions = append(dayOptions, plainOption(d, d))
	}

	hourOptions := make([]*slack.OptionBlockObject, 0, 11)
	for h := 8; h <= 18; h++ {
		hhmm := fmt.Sprintf("%02d:00", h)
		hourOptions = append(hourOptions, plainOption(hhmm, hhmm))
	}

	durationOptions := make([]*slack.OptionBlockObject, 0, len(modalDurations))
	for _, d := range modalDurations {
		durationOptions = append(durationOptions, plainOption(d+" min", d))
	}

	activeOptions := []*slack.OptionBlockObject{
		plainOption("Yes", "yes"),
		plainOption("No", "no"),
	}

	blocks := []slack.Block{
		inputBlock(blockDay, "Weekday", selectElement(inputDay, "Pick a day", dayOptions)),
		inputBlock(blockStart, "Window start", selectElement(inputStart, "Pick a time", hourOptions)),
		inputBlock(blockEnd, "Window end", selectElement(inputEnd, "Pick a time", hourOptions)),
		inputBlock(blockDuration, "Slot duration", selectElement(inputDuration, "Pick a duration", durationOptions)),
		inputBlock(blockActive, "Active?", selectElement(inputActive, "", activeOptions)),
	}

	return slack.ModalViewRequest{
		Type:       slack.VTModal,
		CallbackID: CallbackUpdateAvail,
		Title:      slack.NewTextBlockObject(slack.PlainTextType, "Edit availability", false, false),
		Submit:     slack.NewTextBlockObject(slack.PlainTextType, "Update", false, false),
		Close:      slack.NewTextBlockObject(slack.PlainTextType, "Cancel", false, false),
		Blocks:     slack.Blocks{BlockSet: blocks},
	}
}

func plainOption(text, value string) *slack.OptionBlockObject {
	return slack.NewOptionBlockObject(value,
		slack.NewTextBlockObject(slack.PlainTextType, text, false, false), nil)
}

func selectElement(actionID, placeholder string, options []*slack.OptionBlockObject) *slack.SelectBlockElement {
	var ph *slack.TextBlockObject
	if placeholder != "" {
		ph = slack.NewTextBlockObject(slack.PlainTextType, placeholder, false, false)
	}
	return slack.NewOptionsSelectBlockElement(slack.OptTypeStatic, ph, actionID, options...)
}

func inputBlock(blockID, label string, element slack.BlockElement) *slack.InputBlock {
	return slack.NewInputBlock(blockID,
		slack.NewTextBlockObject(slack.PlainTextType, label, false, false), nil, element)
}
