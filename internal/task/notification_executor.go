package task

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dispatchd/dispatch-api/internal/domain"
	"github.com/dispatchd/dispatch-api/internal/queue"
	"github.com/dispatchd/dispatch-api/internal/store"
)

// NotificationExecutor delivers email notifications. It loads the
// referenced record, hands the message to the mail transport, and
// persists the delivery outcome.
type NotificationExecutor struct {
	store  store.NotificationStore
	sender Sender
	logger *slog.Logger
}

var _ Executor = (*NotificationExecutor)(nil)

// NewNotificationExecutor creates a new NotificationExecutor.
func NewNotificationExecutor(
	notificationStore store.NotificationStore,
	sender Sender,
	logger *slog.Logger,
) *NotificationExecutor {
	return &NotificationExecutor{
		store:  notificationStore,
		sender: sender,
		logger: logger.With(slog.String("component", "notification_executor")),
	}
}

// Kind returns the work-item kind this executor handles.
func (e *NotificationExecutor) Kind() queue.Kind {
	return queue.KindNotification
}

// Execute loads the notification and attempts delivery. The record is
// the single source of truth for the outcome: sent on success, an
// error message on failure. A missing record or an already-terminal
// record ends the pass without any write.
func (e *NotificationExecutor) Execute(ctx context.Context, id uuid.UUID) (Result, error) {
	log := e.logger.With(slog.String("notification_id", id.String()))

	notification, err := e.store.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Warn("notification not found, skipping")
			return Result{Outcome: OutcomeNotFound}, nil
		}
		return Result{}, err
	}

	// Redelivered reference whose first delivery already finished:
	// the terminal state is a fixed point, leave it alone.
	if notification.IsTerminal() {
		log.Info("notification already has a delivery outcome, skipping",
			slog.Bool("is_sent", notification.IsSent))
		return Result{Outcome: OutcomeAlreadyDone}, nil
	}

	if err := e.sender.Send(ctx, notification.Email, notification.Subject, notification.Message); err != nil {
		log.Error("failed to send email", slog.String("error", err.Error()))
		return e.recordFailure(ctx, notification, err.Error()), nil
	}

	if err := notification.MarkSent(); err != nil {
		// Unreachable given the terminal check above, but the domain
		// error still deserves a record.
		return e.recordFailure(ctx, notification, err.Error()), nil
	}

	if err := e.store.Update(ctx, notification); err != nil {
		// The email went out but the success write failed. Losing the
		// annotation is tolerated over propagating a cascading error.
		log.Error("failed to persist sent state", slog.String("error", err.Error()))
		return Result{Outcome: OutcomeFailed, Detail: err.Error()}, nil
	}

	log.Info("email sent successfully", slog.String("email", notification.Email))
	return Result{Outcome: OutcomeCompleted, Detail: "Email sent to " + notification.Email}, nil
}

// recordFailure persists the failure outcome on a best-effort basis.
// If the write fails (e.g. the record was deleted concurrently), the
// failure is logged and swallowed.
func (e *NotificationExecutor) recordFailure(
	ctx context.Context,
	notification *domain.Notification,
	detail string,
) Result {
	if err := notification.MarkFailed(detail); err != nil {
		e.logger.Error("failed to mark notification failed",
			slog.String("notification_id", notification.ID.String()),
			slog.String("error", err.Error()))
		return Result{Outcome: OutcomeFailed, Detail: detail}
	}

	if err := e.store.Update(ctx, notification); err != nil {
		e.logger.Error("failed to persist notification failure state",
			slog.String("notification_id", notification.ID.String()),
			slog.String("error", err.Error()))
	}

	return Result{Outcome: OutcomeFailed, Detail: detail}
}
