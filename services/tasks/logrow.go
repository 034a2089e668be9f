package tasks

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/exaland/CalendarSlackBot/models"
)

const TypeLogAppend = "bookinglog:append"

// NewLogAppendTask wraps a booking whose log row did not land. The booking's
// event ID travels with it, so every retry targets the same row.
func NewLogAppendTask(booking models.Booking) (*asynq.Task, error) {
	b, err := json.Marshal(booking)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeLogAppend, b), nil
}

// AsynqLogQueue implements the engine's LogQueue on an asynq client.
type AsynqLogQueue struct {
	Client *asynq.Client
}

func (q *AsynqLogQueue) EnqueueAppend(ctx context.Context, booking models.Booking) error {
	task, err := NewLogAppendTask(booking)
	if err != nil {
		return err
	}
	_, err = q.Client.EnqueueContext(ctx, task, asynq.MaxRetry(20))
	return err
}
