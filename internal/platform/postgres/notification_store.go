package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dispatchd/dispatch-api/internal/domain"
	"github.com/dispatchd/dispatch-api/internal/platform/logger"
	"github.com/dispatchd/dispatch-api/internal/store"
)

// PostgresNotificationStore implements the store.NotificationStore
// interface using a PostgreSQL database as the storage backend.
type PostgresNotificationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNotificationStore creates a new PostgreSQL implementation
// of the NotificationStore interface. It accepts a database connection
// or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresNotificationStore(db store.DBTX, logger *slog.Logger) *PostgresNotificationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNotificationStore{
		db:     db,
		logger: logger.With(slog.String("component", "notification_store")),
	}
}

// Ensure PostgresNotificationStore implements store.NotificationStore
var _ store.NotificationStore = (*PostgresNotificationStore)(nil)

// Create implements store.NotificationStore.Create
// It saves a new notification to the database, handling domain validation.
func (s *PostgresNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := n.Validate(); err != nil {
		log.Warn("notification validation failed during create",
			slog.String("error", err.Error()),
			slog.String("notification_id", n.ID.String()))
		return err
	}

	query := `
		INSERT INTO notifications (id, user_id, subject, message, email, is_sent, error_message, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		n.ID,
		n.UserID,
		n.Subject,
		n.Message,
		n.Email,
		n.IsSent,
		nullString(n.ErrorMessage),
		n.SentAt,
	)

	if err != nil {
		if isPgError(err, pgForeignKeyViolationCode) {
			log.Warn("foreign key violation during notification creation",
				slog.String("error", err.Error()),
				slog.String("notification_id", n.ID.String()))
			return fmt.Errorf("%w: referenced user not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create notification",
			slog.String("error", err.Error()),
			slog.String("notification_id", n.ID.String()))
		return err
	}

	log.Info("notification created successfully",
		slog.String("notification_id", n.ID.String()),
		slog.String("email", n.Email))
	return nil
}

// GetByID implements store.NotificationStore.GetByID
// Returns store.ErrNotificationNotFound if the notification does not exist.
func (s *PostgresNotificationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, subject, message, email, is_sent, error_message, sent_at
		FROM notifications
		WHERE id = $1
	`

	n, err := scanNotification(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotificationNotFound
		}
		log.Error("failed to get notification",
			slog.String("error", err.Error()),
			slog.String("notification_id", id.String()))
		return nil, err
	}

	return n, nil
}

// Update implements store.NotificationStore.Update
// The write is atomic per record. Returns store.ErrNotificationNotFound
// if the notification does not exist.
func (s *PostgresNotificationStore) Update(ctx context.Context, n *domain.Notification) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := n.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE notifications
		SET subject = $1, message = $2, email = $3, is_sent = $4, error_message = $5
		WHERE id = $6
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		n.Subject,
		n.Message,
		n.Email,
		n.IsSent,
		nullString(n.ErrorMessage),
		n.ID,
	)
	if err != nil {
		log.Error("failed to update notification",
			slog.String("error", err.Error()),
			slog.String("notification_id", n.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrNotificationNotFound
	}

	return nil
}

// List implements store.NotificationStore.List
// Returns notifications newest-first by creation timestamp, optionally
// filtered by owning user.
func (s *PostgresNotificationStore) List(ctx context.Context, userID *uuid.UUID) ([]*domain.Notification, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var rows *sql.Rows
	var err error

	if userID != nil {
		query := `
			SELECT id, user_id, subject, message, email, is_sent, error_message, sent_at
			FROM notifications
			WHERE user_id = $1
			ORDER BY sent_at DESC
		`
		rows, err = s.db.QueryContext(ctx, query, *userID)
	} else {
		query := `
			SELECT id, user_id, subject, message, email, is_sent, error_message, sent_at
			FROM notifications
			ORDER BY sent_at DESC
		`
		rows, err = s.db.QueryContext(ctx, query)
	}

	if err != nil {
		log.Error("failed to list notifications", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectNotifications(rows)
}

// ListPending implements store.NotificationStore.ListPending
// Returns notifications with no delivery outcome yet, oldest-first, so
// recovery preserves rough submission order.
func (s *PostgresNotificationStore) ListPending(ctx context.Context) ([]*domain.Notification, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, subject, message, email, is_sent, error_message, sent_at
		FROM notifications
		WHERE is_sent = FALSE AND (error_message IS NULL OR error_message = '')
		ORDER BY sent_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list pending notifications", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectNotifications(rows)
}

// Delete implements store.NotificationStore.Delete
// Returns store.ErrNotificationNotFound if the notification does not exist.
func (s *PostgresNotificationStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete notification",
			slog.String("error", err.Error()),
			slog.String("notification_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrNotificationNotFound
	}

	log.Info("notification deleted", slog.String("notification_id", id.String()))
	return nil
}

// WithTx implements store.NotificationStore.WithTx
func (s *PostgresNotificationStore) WithTx(tx *sql.Tx) store.NotificationStore {
	return &PostgresNotificationStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var n domain.Notification
	var userID uuid.NullUUID
	var errorMessage sql.NullString

	err := row.Scan(
		&n.ID,
		&userID,
		&n.Subject,
		&n.Message,
		&n.Email,
		&n.IsSent,
		&errorMessage,
		&n.SentAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		n.UserID = &userID.UUID
	}
	n.ErrorMessage = errorMessage.String

	return &n, nil
}

func collectNotifications(rows *sql.Rows) ([]*domain.Notification, error) {
	var notifications []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}

	return notifications, nil
}

// nullString converts an empty string to a SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
