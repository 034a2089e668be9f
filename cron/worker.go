package cron

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/exaland/CalendarSlackBot/config"
	"github.com/exaland/CalendarSlackBot/models"
	"github.com/exaland/CalendarSlackBot/services/tasks"
	"github.com/exaland/CalendarSlackBot/store/bookinglog"
	"github.com/exaland/CalendarSlackBot/utils"
)

// InitLogWorker runs the booking-log reconciliation worker in the background.
// A task exists for each booking whose calendar event landed but whose log
// row did not; the worker retries the append until log and calendar agree.
func InitLogWorker(logRepo bookinglog.LogRepository) *asynq.Server {
	logger := utils.GetLogger()

	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeLogAppend, handleLogAppend(logRepo))

	go func() {
		logger.Info("starting booking-log reconciliation worker")
		if err := srv.Run(mux); err != nil {
			logger.Fatal("log reconciliation worker failed", zap.Error(err))
		}
	}()
	return srv
}

func handleLogAppend(logRepo bookinglog.LogRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var booking models.Booking
		if err := json.Unmarshal(task.Payload(), &booking); err != nil {
			logger.Error("invalid log append payload, dropping", zap.Error(err))
			return nil
		}

		// A previous attempt may have succeeded after a timeout: check the
		// idempotency key before writing again.
		exists, err := logRepo.Has(ctx, booking.EventID)
		if err != nil {
			return err
		}
		if exists {
			logger.Info("booking row already present, skipping",
				zap.String("eventId", booking.EventID))
			return nil
		}

		if err := logRepo.Append(ctx, booking); err != nil {
			logger.Warn("booking log append retry failed",
				zap.String("eventId", booking.EventID), zap.Error(err))
			return err
		}
		logger.Info("booking log reconciled", zap.String("eventId", booking.EventID))
		return nil
	}
}
