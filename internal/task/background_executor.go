package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dispatchd/dispatch-api/internal/domain"
	"github.com/dispatchd/dispatch-api/internal/queue"
	"github.com/dispatchd/dispatch-api/internal/store"
)

// Work performs the domain-specific side effect of a generic
// background task and returns a result summary. Implementations must
// honor ctx cancellation.
type Work func(ctx context.Context, t *domain.Task) (string, error)

// SimulatedWork returns a Work that waits for the given interval and
// then reports success. It stands in for real processing and is
// cancellable through the context.
func SimulatedWork(d time.Duration) Work {
	return func(ctx context.Context, t *domain.Task) (string, error) {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-timer.C:
			return fmt.Sprintf("Task %s completed successfully", t.Name), nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// BackgroundExecutor processes generic background tasks. It claims the
// record by persisting the running status, performs the work, and
// persists the terminal outcome with a completion timestamp.
type BackgroundExecutor struct {
	store  store.TaskStore
	work   Work
	logger *slog.Logger
}

var _ Executor = (*BackgroundExecutor)(nil)

// NewBackgroundExecutor creates a new BackgroundExecutor running the
// given work function.
func NewBackgroundExecutor(taskStore store.TaskStore, work Work, logger *slog.Logger) *BackgroundExecutor {
	return &BackgroundExecutor{
		store:  taskStore,
		work:   work,
		logger: logger.With(slog.String("component", "background_executor")),
	}
}

// Kind returns the work-item kind this executor handles.
func (e *BackgroundExecutor) Kind() queue.Kind {
	return queue.KindTask
}

// Execute drives one task through its state machine. The claim write
// (pending -> running) is not guarded by a lock; redelivery is the only
// source of concurrent writes and terminal states are never
// overwritten, so a duplicate pass converges on the first outcome.
func (e *BackgroundExecutor) Execute(ctx context.Context, id uuid.UUID) (Result, error) {
	log := e.logger.With(slog.String("task_id", id.String()))

	t, err := e.store.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Warn("task not found, skipping")
			return Result{Outcome: OutcomeNotFound}, nil
		}
		return Result{}, err
	}

	if t.IsTerminal() {
		log.Info("task already terminal, skipping", slog.String("status", string(t.Status)))
		return Result{Outcome: OutcomeAlreadyDone}, nil
	}

	// A record recovered after a crash may already be running; the
	// claim is then a no-op and execution simply restarts.
	if t.Status == domain.TaskStatusPending {
		if err := t.MarkRunning(); err != nil {
			return e.recordFailure(ctx, t, err.Error()), nil
		}
		if err := e.store.Update(ctx, t); err != nil {
			log.Error("failed to persist running status", slog.String("error", err.Error()))
			return Result{Outcome: OutcomeFailed, Detail: err.Error()}, nil
		}
	}

	log.Info("processing task", slog.String("name", t.Name))

	summary, err := e.work(ctx, t)
	if err != nil {
		// Shutdown is not a business failure: leave the record running
		// so startup recovery picks it up again.
		if ctx.Err() != nil {
			log.Info("task interrupted by shutdown")
			return Result{Outcome: OutcomeInterrupted}, nil
		}

		log.Error("task execution failed", slog.String("error", err.Error()))
		return e.recordFailure(ctx, t, err.Error()), nil
	}

	if err := t.MarkCompleted(summary); err != nil {
		return e.recordFailure(ctx, t, err.Error()), nil
	}

	if err := e.store.Update(ctx, t); err != nil {
		log.Error("failed to persist completed status", slog.String("error", err.Error()))
		return Result{Outcome: OutcomeFailed, Detail: err.Error()}, nil
	}

	log.Info("task completed", slog.String("name", t.Name))
	return Result{Outcome: OutcomeCompleted, Detail: summary}, nil
}

// recordFailure persists the failure outcome on a best-effort basis.
// A failed write here is logged and swallowed rather than propagated.
func (e *BackgroundExecutor) recordFailure(ctx context.Context, t *domain.Task, detail string) Result {
	if err := t.MarkFailed(detail); err != nil {
		e.logger.Error("failed to mark task failed",
			slog.String("task_id", t.ID.String()),
			slog.String("error", err.Error()))
		return Result{Outcome: OutcomeFailed, Detail: detail}
	}

	if err := e.store.Update(ctx, t); err != nil {
		e.logger.Error("failed to persist task failure state",
			slog.String("task_id", t.ID.String()),
			slog.String("error", err.Error()))
	}

	return Result{Outcome: OutcomeFailed, Detail: detail}
}
