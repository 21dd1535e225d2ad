package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotification(t *testing.T) {
	t.Parallel()

	t.Run("valid notification", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		n, err := NewNotification(&userID, "hello", "body", "user@example.com")
		require.NoError(t, err)

		assert.False(t, n.IsSent)
		assert.Empty(t, n.ErrorMessage)
		assert.Equal(t, userID, *n.UserID)
		assert.False(t, n.SentAt.IsZero())
	})

	t.Run("nil user is allowed", func(t *testing.T) {
		t.Parallel()

		n, err := NewNotification(nil, "hello", "body", "user@example.com")
		require.NoError(t, err)
		assert.Nil(t, n.UserID)
	})

	t.Run("invalid email", func(t *testing.T) {
		t.Parallel()

		_, err := NewNotification(nil, "hello", "body", "not-an-email")
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("empty subject", func(t *testing.T) {
		t.Parallel()

		_, err := NewNotification(nil, "", "body", "user@example.com")
		assert.ErrorIs(t, err, ErrEmptyNotificationSubject)
	})

	t.Run("subject too long", func(t *testing.T) {
		t.Parallel()

		_, err := NewNotification(nil, strings.Repeat("s", MaxNotificationSubjectLen+1), "body", "user@example.com")
		assert.ErrorIs(t, err, ErrNotificationSubjectLen)
	})

	t.Run("empty message", func(t *testing.T) {
		t.Parallel()

		_, err := NewNotification(nil, "hello", "", "user@example.com")
		assert.ErrorIs(t, err, ErrEmptyNotificationMessage)
	})
}

func TestNotification_DeliveryOutcome(t *testing.T) {
	t.Parallel()

	t.Run("mark sent clears error", func(t *testing.T) {
		t.Parallel()

		n, err := NewNotification(nil, "hello", "body", "user@example.com")
		require.NoError(t, err)

		require.NoError(t, n.MarkSent())
		assert.True(t, n.IsSent)
		assert.Empty(t, n.ErrorMessage)
		assert.True(t, n.IsTerminal())
	})

	t.Run("mark failed records message", func(t *testing.T) {
		t.Parallel()

		n, err := NewNotification(nil, "hello", "body", "user@example.com")
		require.NoError(t, err)

		require.NoError(t, n.MarkFailed("connection refused"))
		assert.False(t, n.IsSent)
		assert.Equal(t, "connection refused", n.ErrorMessage)
		assert.True(t, n.IsTerminal())
	})

	t.Run("terminal outcome is a fixed point", func(t *testing.T) {
		t.Parallel()

		n, err := NewNotification(nil, "hello", "body", "user@example.com")
		require.NoError(t, err)

		require.NoError(t, n.MarkSent())
		assert.ErrorIs(t, n.MarkFailed("late failure"), ErrTerminalState)
		assert.ErrorIs(t, n.MarkSent(), ErrTerminalState)

		assert.True(t, n.IsSent)
		assert.Empty(t, n.ErrorMessage)
	})

	t.Run("sent_at is unaffected by outcome", func(t *testing.T) {
		t.Parallel()

		n, err := NewNotification(nil, "hello", "body", "user@example.com")
		require.NoError(t, err)

		createdAt := n.SentAt
		require.NoError(t, n.MarkFailed("boom"))
		assert.Equal(t, createdAt, n.SentAt)
	})
}

func TestNotification_ValidateRejectsSentWithError(t *testing.T) {
	t.Parallel()

	n, err := NewNotification(nil, "hello", "body", "user@example.com")
	require.NoError(t, err)

	n.IsSent = true
	n.ErrorMessage = "boom"
	assert.Error(t, n.Validate())
}
