package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dispatchd/dispatch-api/internal/config"
	"github.com/dispatchd/dispatch-api/internal/platform/logger"
	"github.com/dispatchd/dispatch-api/internal/platform/postgres"
	"github.com/dispatchd/dispatch-api/internal/platform/smtp"
	"github.com/dispatchd/dispatch-api/internal/queue"
	"github.com/dispatchd/dispatch-api/internal/service"
	"github.com/dispatchd/dispatch-api/internal/store"
	"github.com/dispatchd/dispatch-api/internal/task"
)

// application holds the wired dependencies of the server process.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	notificationStore store.NotificationStore
	taskStore         store.TaskStore

	broker queue.Broker

	notificationService service.NotificationService
	taskService         service.TaskService

	runner *task.Runner
}

// newApplication loads configuration and wires every component:
// config -> logger -> database -> stores -> broker -> services ->
// worker pool.
func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	notificationStore := postgres.NewPostgresNotificationStore(db, appLogger)
	taskStore := postgres.NewPostgresTaskStore(db, appLogger)

	broker := queue.NewMemoryBroker(cfg.Worker.QueueSize, appLogger)

	notificationService, err := service.NewNotificationService(notificationStore, broker, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification service: %w", err)
	}

	taskService, err := service.NewTaskService(taskStore, broker, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	sender := smtp.NewSender(cfg.SMTP, appLogger)

	executors := []task.Executor{
		task.NewNotificationExecutor(notificationStore, sender, appLogger),
		task.NewBackgroundExecutor(taskStore, task.SimulatedWork(cfg.Worker.TaskDuration), appLogger),
	}

	runnerConfig := task.DefaultRunnerConfig()
	runnerConfig.WorkerCount = cfg.Worker.Count

	metrics := task.NewCollector(prometheus.DefaultRegisterer)

	runner := task.NewRunner(
		broker,
		executors,
		notificationStore,
		taskStore,
		runnerConfig,
		metrics,
		appLogger,
	)

	return &application{
		config:              cfg,
		logger:              appLogger,
		db:                  db,
		notificationStore:   notificationStore,
		taskStore:           taskStore,
		broker:              broker,
		notificationService: notificationService,
		taskService:         taskService,
		runner:              runner,
	}, nil
}

// run starts the worker pool and the HTTP server, blocking until
// shutdown completes.
func (app *application) run() error {
	if err := app.runner.Start(); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	return app.startHTTPServer(app.setupRouter())
}

// cleanup releases resources in reverse dependency order.
func (app *application) cleanup() {
	app.broker.Close()
	app.runner.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
	}
}
