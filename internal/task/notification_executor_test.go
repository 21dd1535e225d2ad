package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispatchd/dispatch-api/internal/domain"
	"github.com/dispatchd/dispatch-api/internal/testutils"
)

func TestNotificationExecutor_Success(t *testing.T) {
	t.Parallel()

	store := testutils.NewMemoryNotificationStore()
	sender := testutils.NewFakeSender()
	executor := NewNotificationExecutor(store, sender, testutils.NewTestLogger())

	created, err := domain.NewNotification(nil, "hello", "body", "user@example.com")
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), created))

	result, err := executor.Execute(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, result.Outcome)

	stored, err := store.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsSent)
	assert.Empty(t, stored.ErrorMessage)

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "user@example.com", sent[0].To)
	assert.Equal(t, "hello", sent[0].Subject)
}

func TestNotificationExecutor_TransportFault(t *testing.T) {
	t.Parallel()

	store := testutils.NewMemoryNotificationStore()
	sender := testutils.NewFakeSender()
	sender.Reject("user@example.com", nil)
	executor := NewNotificationExecutor(store, sender, testutils.NewTestLogger())

	created, err := domain.NewNotification(nil, "hello", "body", "user@example.com")
	require.NoError(t, err)
	createdAt := created.SentAt
	require.NoError(t, store.Create(context.Background(), created))

	result, err := executor.Execute(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, result.Outcome)

	stored, err := store.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsSent)
	assert.Contains(t, stored.ErrorMessage, testutils.ErrSendRejected.Error())

	// The creation timestamp is unaffected by the outcome.
	assert.Equal(t, createdAt, stored.SentAt)
}

func TestNotificationExecutor_NotFound(t *testing.T) {
	t.Parallel()

	store := testutils.NewMemoryNotificationStore()
	sender := testutils.NewFakeSender()
	executor := NewNotificationExecutor(store, sender, testutils.NewTestLogger())

	result, err := executor.Execute(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, result.Outcome)
	assert.Empty(t, sender.Sent())
}

func TestNotificationExecutor_DoubleDeliverySendsOnce(t *testing.T) {
	t.Parallel()

	store := testutils.NewMemoryNotificationStore()
	sender := testutils.NewFakeSender()
	executor := NewNotificationExecutor(store, sender, testutils.NewTestLogger())

	created, err := domain.NewNotification(nil, "hello", "body", "user@example.com")
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), created))

	first, err := executor.Execute(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, OutcomeCompleted, first.Outcome)

	second, err := executor.Execute(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyDone, second.Outcome)

	// The terminal state blocked the duplicate side effect.
	assert.Len(t, sender.Sent(), 1)
}
