package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dispatchd/dispatch-api/internal/domain"
	"github.com/dispatchd/dispatch-api/internal/queue"
	"github.com/dispatchd/dispatch-api/internal/store"
)

// RunnerConfig holds configuration for the worker pool.
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers pull from the
	// queue.
	WorkerCount int

	// QueueStatsInterval defines how often the queue depth gauges are
	// refreshed. If zero, defaults to 15 seconds.
	QueueStatsInterval time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:        2,
		QueueStatsInterval: 15 * time.Second,
	}
}

// Runner manages the worker pool. Workers pull work-item references
// from the broker, dispatch them to the executor registered for the
// message kind, and acknowledge the message once the pass reaches a
// terminal outcome.
type Runner struct {
	broker        queue.Broker
	executors     map[queue.Kind]Executor
	notifications store.NotificationStore
	tasks         store.TaskStore
	config        RunnerConfig
	metrics       *Collector
	logger        *slog.Logger
	ctx           context.Context
	cancelFunc    context.CancelFunc
	wg            sync.WaitGroup
}

// NewRunner creates a new Runner with the given executors. The stores
// are used only for startup recovery; executors hold their own.
func NewRunner(
	broker queue.Broker,
	executors []Executor,
	notificationStore store.NotificationStore,
	taskStore store.TaskStore,
	config RunnerConfig,
	metrics *Collector,
	logger *slog.Logger,
) *Runner {
	if config.QueueStatsInterval == 0 {
		config.QueueStatsInterval = 15 * time.Second
	}

	byKind := make(map[queue.Kind]Executor, len(executors))
	for _, e := range executors {
		byKind[e.Kind()] = e
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		broker:        broker,
		executors:     byKind,
		notifications: notificationStore,
		tasks:         taskStore,
		config:        config,
		metrics:       metrics,
		logger:        logger.With(slog.String("component", "task_runner")),
		ctx:           ctx,
		cancelFunc:    cancel,
	}
}

// Start recovers unfinished work items from the store and launches the
// worker goroutines.
func (r *Runner) Start() error {
	if err := r.Recover(r.ctx); err != nil {
		return fmt.Errorf("failed to recover unfinished work items: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	if r.metrics != nil {
		r.wg.Add(1)
		go r.statsLoop()
	}

	return nil
}

// Stop gracefully shuts down the worker pool. In-flight simulated work
// is cancelled; records interrupted mid-execution are requeued by the
// next startup recovery.
func (r *Runner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
}

// Recover requeues references to every work item that has not reached
// a terminal state: unsent notifications, pending tasks, and tasks left
// running by a crashed worker. This is what makes delivery
// at-least-once across process restarts.
func (r *Runner) Recover(ctx context.Context) error {
	pendingNotifications, err := r.notifications.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending notifications: %w", err)
	}

	pendingTasks, err := r.tasks.List(ctx, domain.TaskStatusPending)
	if err != nil {
		return fmt.Errorf("failed to list pending tasks: %w", err)
	}

	runningTasks, err := r.tasks.List(ctx, domain.TaskStatusRunning)
	if err != nil {
		return fmt.Errorf("failed to list running tasks: %w", err)
	}

	r.logger.Info("recovering unfinished work items",
		slog.Int("pending_notifications", len(pendingNotifications)),
		slog.Int("pending_tasks", len(pendingTasks)),
		slog.Int("running_tasks", len(runningTasks)))

	for _, n := range pendingNotifications {
		r.requeue(ctx, queue.Message{Kind: queue.KindNotification, ID: n.ID})
	}

	for _, t := range pendingTasks {
		r.requeue(ctx, queue.Message{Kind: queue.KindTask, ID: t.ID})
	}

	// Running tasks were interrupted mid-execution; the executor's claim
	// tolerates the running status, so they can be requeued as-is.
	for _, t := range runningTasks {
		r.requeue(ctx, queue.Message{Kind: queue.KindTask, ID: t.ID})
	}

	return nil
}

func (r *Runner) requeue(ctx context.Context, msg queue.Message) {
	if err := r.broker.Enqueue(ctx, msg); err != nil {
		r.logger.Error("failed to requeue work item",
			slog.String("kind", string(msg.Kind)),
			slog.String("item_id", msg.ID.String()),
			slog.String("error", err.Error()))
	}
}

// worker pulls deliveries from the broker until the runner stops.
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	log := r.logger.With(slog.Int("worker_id", id))
	log.Debug("starting worker")

	for {
		delivery, err := r.broker.Dequeue(r.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, queue.ErrQueueClosed) {
				log.Debug("stopping worker")
				return
			}
			log.Error("dequeue failed", slog.String("error", err.Error()))
			continue
		}

		r.process(delivery, log)
	}
}

// process runs one delivery through the executor for its kind. The
// message is acknowledged for every outcome except an interrupted
// pass, which has written no terminal state yet.
func (r *Runner) process(delivery *queue.Delivery, log *slog.Logger) {
	msg := delivery.Message
	log = log.With(
		slog.String("kind", string(msg.Kind)),
		slog.String("item_id", msg.ID.String()),
	)

	executor, ok := r.executors[msg.Kind]
	if !ok {
		log.Error("no executor registered for kind, dropping message")
		delivery.Ack()
		return
	}

	started := time.Now()
	result, err := executor.Execute(r.ctx, msg.ID)
	elapsed := time.Since(started)

	if err != nil {
		// The record could not even be loaded. The failure is logged and
		// the message acknowledged; business state is untouched and the
		// item will resurface through recovery if it still exists.
		log.Error("execution pass failed", slog.String("error", err.Error()))
		delivery.Ack()
		return
	}

	if result.Outcome == OutcomeInterrupted {
		return
	}

	if r.metrics != nil {
		r.metrics.RecordProcessed(string(msg.Kind), result.Outcome, elapsed)
	}

	log.Info("work item processed",
		slog.String("outcome", string(result.Outcome)),
		slog.Duration("elapsed", elapsed))

	delivery.Ack()
}

// statsLoop periodically refreshes the queue depth gauges.
func (r *Runner) statsLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.QueueStatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.metrics.SetQueueStats(r.broker.Len(), r.broker.InFlight())
		}
	}
}
