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

// NotificationService provides notification submission and status reads.
type NotificationService interface {
	// CreateAndEnqueue validates the submission, creates an unsent
	// notification record, enqueues a reference to it and returns the
	// record. It does not wait for delivery.
	CreateAndEnqueue(
		ctx context.Context,
		userID *uuid.UUID,
		subject, message, email string,
	) (*domain.Notification, error)

	// Get returns the current snapshot of one notification.
	Get(ctx context.Context, id uuid.UUID) (*domain.Notification, error)

	// List returns notifications newest-first, optionally filtered by
	// owning user.
	List(ctx context.Context, userID *uuid.UUID) ([]*domain.Notification, error)
}

type notificationServiceImpl struct {
	store    store.NotificationStore
	enqueuer queue.Enqueuer
	logger   *slog.Logger
}

// NewNotificationService creates a new NotificationService.
// It returns an error if any of the required dependencies are nil.
func NewNotificationService(
	notificationStore store.NotificationStore,
	enqueuer queue.Enqueuer,
	logger *slog.Logger,
) (NotificationService, error) {
	if notificationStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "notificationStore cannot be nil"}
	}
	if enqueuer == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "enqueuer cannot be nil"}
	}
	if logger == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "logger cannot be nil"}
	}

	return &notificationServiceImpl{
		store:    notificationStore,
		enqueuer: enqueuer,
		logger:   logger.With(slog.String("component", "notification_service")),
	}, nil
}

func (s *notificationServiceImpl) CreateAndEnqueue(
	ctx context.Context,
	userID *uuid.UUID,
	subject, message, email string,
) (*domain.Notification, error) {
	notification, err := domain.NewNotification(userID, subject, message, email)
	if err != nil {
		// Validation failure is an atomic no-op: nothing written,
		// nothing enqueued.
		return nil, notificationValidationError(err)
	}

	// The record must exist before the reference does, otherwise a
	// worker could dequeue a reference with no backing record.
	if err := s.store.Create(ctx, notification); err != nil {
		return nil, &ServiceError{
			Operation: "create_notification",
			Message:   "failed to save notification",
			Err:       err,
		}
	}

	msg := queue.Message{Kind: queue.KindNotification, ID: notification.ID}
	if err := s.enqueuer.Enqueue(ctx, msg); err != nil {
		// The record survives; startup recovery will requeue it.
		s.logger.Error("failed to enqueue notification, record will be recovered later",
			slog.String("notification_id", notification.ID.String()),
			slog.String("error", err.Error()))
		return nil, &ServiceError{
			Operation: "create_notification",
			Message:   "failed to enqueue notification",
			Err:       err,
		}
	}

	s.logger.Info("notification submitted",
		slog.String("notification_id", notification.ID.String()),
		slog.String("email", notification.Email))

	return notification, nil
}

func (s *notificationServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	notification, err := s.store.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrNotificationNotFound
		}
		return nil, &ServiceError{Operation: "get_notification", Message: "failed to load notification", Err: err}
	}
	return notification, nil
}

func (s *notificationServiceImpl) List(ctx context.Context, userID *uuid.UUID) ([]*domain.Notification, error) {
	notifications, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, &ServiceError{Operation: "list_notifications", Message: "failed to list notifications", Err: err}
	}
	return notifications, nil
}

// notificationValidationError maps domain validation errors to
// field-level detail for the caller.
func notificationValidationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		return NewValidationError("email", "must be a valid email address")
	case errors.Is(err, domain.ErrEmptyNotificationSubject):
		return NewValidationError("subject", "cannot be empty")
	case errors.Is(err, domain.ErrNotificationSubjectLen):
		return NewValidationError("subject", "exceeds maximum length")
	case errors.Is(err, domain.ErrEmptyNotificationMessage):
		return NewValidationError("message", "cannot be empty")
	default:
		return NewValidationError("notification", err.Error())
	}
}
