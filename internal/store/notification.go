package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dispatchd/dispatch-api/internal/domain"
)

// NotificationStore defines the interface for notification persistence.
type NotificationStore interface {
	// Create saves a new notification to the store.
	// Returns validation errors from the domain Notification if the data
	// is invalid.
	Create(ctx context.Context, notification *domain.Notification) error

	// GetByID retrieves a notification by its unique ID.
	// Returns ErrNotificationNotFound if the notification does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)

	// Update saves changes to an existing notification. The write is
	// atomic per record. Returns ErrNotificationNotFound if the
	// notification does not exist.
	Update(ctx context.Context, notification *domain.Notification) error

	// List returns notifications ordered newest-first by creation
	// timestamp. If userID is non-nil only that user's notifications are
	// returned.
	List(ctx context.Context, userID *uuid.UUID) ([]*domain.Notification, error)

	// ListPending returns notifications with no delivery outcome yet
	// (not sent, no recorded error), oldest-first. Used by the worker
	// pool's startup recovery.
	ListPending(ctx context.Context) ([]*domain.Notification, error)

	// Delete removes a notification. This exists for administrative
	// cleanup only; the execution path never deletes records.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new NotificationStore instance that uses the
	// provided transaction. The transaction is created and managed by the
	// caller.
	WithTx(tx *sql.Tx) NotificationStore
}
