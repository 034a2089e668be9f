package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/slack-go/slack"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/exaland/CalendarSlackBot/config"
	"github.com/exaland/CalendarSlackBot/cron"
	"github.com/exaland/CalendarSlackBot/handlers"
	"github.com/exaland/CalendarSlackBot/middleware"
	"github.com/exaland/CalendarSlackBot/routes"
	"github.com/exaland/CalendarSlackBot/services/scheduling"
	"github.com/exaland/CalendarSlackBot/services/slackbot"
	"github.com/exaland/CalendarSlackBot/services/tasks"
	"github.com/exaland/CalendarSlackBot/store/bookinglog"
	"github.com/exaland/CalendarSlackBot/store/calendar"
	"github.com/exaland/CalendarSlackBot/store/rules"
	"github.com/exaland/CalendarSlackBot/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitLockClient()

	ctx := context.Background()
	creds := option.WithCredentialsFile(config.AppConfig.ServiceAccountFile)

	calendarSvc, err := gcal.NewService(ctx, creds)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to build calendar client: %v", err)
	}
	sheetsSvc, err := gsheets.NewService(ctx, creds)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to build sheets client: %v", err)
	}

	// Adapters, constructed once and injected everywhere.
	gc := calendar.NewGoogleCalendar(calendarSvc, config.AppConfig.CalendarID, config.AppConfig.Timezone)
	ruleRepo := rules.NewSheetsRuleRepo(sheetsSvc, config.AppConfig.SpreadsheetID, config.AppConfig.RulesTab)
	logRepo := bookinglog.NewSheetsLogRepo(sheetsSvc, config.AppConfig.SpreadsheetID, config.AppConfig.BookingsTab)

	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer queueClient.Close()

	clock := scheduling.NewSystemClock(config.AppConfig.Timezone)

	// The engine.
	engine := &scheduling.DefaultSchedulingEngine{
		RuleRepo:  ruleRepo,
		Busy:      gc,
		Events:    gc,
		Log:       logRepo,
		Queue:     &tasks.AsynqLogQueue{Client: queueClient},
		Locker:    scheduling.NewRedisSlotLocker(utils.GetLockClient()),
		Clock:     clock,
		IOTimeout: time.Duration(config.AppConfig.IOTimeoutSeconds) * time.Second,
	}

	// Interaction layer.
	slackClient := slack.New(config.AppConfig.SlackBotToken)
	bot := slackbot.NewService(engine, slackClient, clock.Location(), config.AppConfig.SlotChoiceLimit)

	slackHandler := handlers.NewSlackHandler(bot)
	adminHandler := handlers.NewAdminHandler(engine, clock.Location())

	// Booking-log reconciliation worker.
	worker := cron.InitLogWorker(logRepo)
	defer worker.Shutdown()

	utils.StartHealthMonitor([]*redis.Client{utils.GetLockClient()})

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	routes.RegisterRoutes(router, slackHandler, adminHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
