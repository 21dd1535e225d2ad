package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dispatchd/dispatch-api/internal/domain"
	"github.com/dispatchd/dispatch-api/internal/queue"
	"github.com/dispatchd/dispatch-api/internal/store"
)

// TaskService provides background-task submission and status reads.
type TaskService interface {
	// CreateAndEnqueue validates the submission, creates a pending task
	// record, enqueues a reference to it and returns the record. It does
	// not wait for execution.
	CreateAndEnqueue(ctx context.Context, name, description string) (*domain.Task, error)

	// Get returns the current snapshot of one task.
	Get(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns tasks newest-first, optionally filtered by status.
	List(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error)
}

type taskServiceImpl struct {
	store    store.TaskStore
	enqueuer queue.Enqueuer
	logger   *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	taskStore store.TaskStore,
	enqueuer queue.Enqueuer,
	logger *slog.Logger,
) (TaskService, error) {
	if taskStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "taskStore cannot be nil"}
	}
	if enqueuer == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "enqueuer cannot be nil"}
	}
	if logger == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "logger cannot be nil"}
	}

	return &taskServiceImpl{
		store:    taskStore,
		enqueuer: enqueuer,
		logger:   logger.With(slog.String("component", "task_service")),
	}, nil
}

func (s *taskServiceImpl) CreateAndEnqueue(ctx context.Context, name, description string) (*domain.Task, error) {
	t, err := domain.NewTask(name, description)
	if err != nil {
		return nil, taskValidationError(err)
	}

	// Record creation must precede enqueue (ordering invariant).
	if err := s.store.Create(ctx, t); err != nil {
		return nil, &ServiceError{
			Operation: "create_task",
			Message:   "failed to save task",
			Err:       err,
		}
	}

	msg := queue.Message{Kind: queue.KindTask, ID: t.ID}
	if err := s.enqueuer.Enqueue(ctx, msg); err != nil {
		s.logger.Error("failed to enqueue task, record will be recovered later",
			slog.String("task_id", t.ID.String()),
			slog.String("error", err.Error()))
		return nil, &ServiceError{
			Operation: "create_task",
			Message:   "failed to enqueue task",
			Err:       err,
		}
	}

	s.logger.Info("task submitted",
		slog.String("task_id", t.ID.String()),
		slog.String("name", t.Name))

	return t, nil
}

func (s *taskServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrTaskNotFound
		}
		return nil, &ServiceError{Operation: "get_task", Message: "failed to load task", Err: err}
	}
	return t, nil
}

func (s *taskServiceImpl) List(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error) {
	tasks, err := s.store.List(ctx, status)
	if err != nil {
		return nil, &ServiceError{Operation: "list_tasks", Message: "failed to list tasks", Err: err}
	}
	return tasks, nil
}

// taskValidationError maps domain validation errors to field-level
// detail for the caller.
func taskValidationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyTaskName):
		return NewValidationError("name", "cannot be empty")
	case errors.Is(err, domain.ErrTaskNameLen):
		return NewValidationError("name", "exceeds maximum length")
	case errors.Is(err, domain.ErrEmptyTaskDescription):
		return NewValidationError("description", "cannot be empty")
	default:
		return NewValidationError("task", err.Error())
	}
}
