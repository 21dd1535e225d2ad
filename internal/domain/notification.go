package domain

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// MaxNotificationSubjectLen bounds the subject field.
const MaxNotificationSubjectLen = 200

// Common validation errors for Notification
var (
	ErrEmptyNotificationID      = errors.New("notification ID cannot be empty")
	ErrEmptyNotificationSubject = errors.New("notification subject cannot be empty")
	ErrNotificationSubjectLen   = errors.New("notification subject exceeds maximum length")
	ErrEmptyNotificationMessage = errors.New("notification message cannot be empty")
)

// Notification represents an email notification queued for delivery.
// SentAt is the creation timestamp and is never changed by delivery;
// the delivery outcome is carried by IsSent and ErrorMessage.
type Notification struct {
	ID           uuid.UUID  `json:"id"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	Subject      string     `json:"subject"`
	Message      string     `json:"message"`
	Email        string     `json:"email"`
	IsSent       bool       `json:"is_sent"`
	ErrorMessage string     `json:"error_message,omitempty"`
	SentAt       time.Time  `json:"sent_at"`
}

// NewNotification creates a new unsent Notification with the given
// subject, message and destination address. userID is optional and may
// be nil. Returns an error if validation fails.
func NewNotification(userID *uuid.UUID, subject, message, email string) (*Notification, error) {
	n := &Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Subject: subject,
		Message: message,
		Email:   email,
		IsSent:  false,
		SentAt:  time.Now().UTC(),
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}

	return n, nil
}

// Validate checks if the Notification has valid data.
// Returns an error if any field fails validation.
func (n *Notification) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNotificationID
	}

	if n.Subject == "" {
		return ErrEmptyNotificationSubject
	}

	if len(n.Subject) > MaxNotificationSubjectLen {
		return ErrNotificationSubjectLen
	}

	if n.Message == "" {
		return ErrEmptyNotificationMessage
	}

	if _, err := mail.ParseAddress(n.Email); err != nil {
		return ErrInvalidEmail
	}

	// A sent notification cannot carry an error and vice versa.
	if n.IsSent && n.ErrorMessage != "" {
		return ErrInvalidTransition
	}

	return nil
}

// IsTerminal reports whether the notification has reached a delivery
// outcome (sent, or failed with a recorded error).
func (n *Notification) IsTerminal() bool {
	return n.IsSent || n.ErrorMessage != ""
}

// MarkSent records a successful delivery. Once terminal, the outcome
// is a fixed point: marking again is an error.
func (n *Notification) MarkSent() error {
	if n.IsTerminal() {
		return ErrTerminalState
	}

	n.IsSent = true
	n.ErrorMessage = ""
	return nil
}

// MarkFailed records a delivery failure with the given message.
func (n *Notification) MarkFailed(errMsg string) error {
	if n.IsTerminal() {
		return ErrTerminalState
	}

	n.IsSent = false
	n.ErrorMessage = errMsg
	return nil
}
