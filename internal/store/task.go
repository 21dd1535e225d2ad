package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dispatchd/dispatch-api/internal/domain"
)

// TaskStore defines the interface for background task persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if the data is
	// invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update saves changes to an existing task. The write is atomic per
	// record. Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// List returns tasks ordered newest-first by creation timestamp.
	// If status is non-empty only tasks with that status are returned.
	List(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error)

	// Delete removes a task. This exists for administrative cleanup only;
	// the execution path never deletes records.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}
