package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispatchd/dispatch-api/internal/domain"
	"github.com/dispatchd/dispatch-api/internal/queue"
	"github.com/dispatchd/dispatch-api/internal/testutils"
)

func newTaskService(t *testing.T) (TaskService, *testutils.MemoryTaskStore, *queue.MemoryBroker) {
	t.Helper()

	store := testutils.NewMemoryTaskStore()
	broker := queue.NewMemoryBroker(16, testutils.NewTestLogger())
	svc, err := NewTaskService(store, broker, testutils.NewTestLogger())
	require.NoError(t, err)
	return svc, store, broker
}

func TestTaskService_CreateAndEnqueue(t *testing.T) {
	t.Parallel()

	svc, store, broker := newTaskService(t)

	created, err := svc.CreateAndEnqueue(context.Background(), "nightly export", "export all the things")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, created.Status)
	assert.Nil(t, created.CompletedAt)

	stored, err := store.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "nightly export", stored.Name)

	require.Equal(t, 1, broker.Len())
	delivery, err := broker.Dequeue(context.Background())
	require.NoError(t, err)
	delivery.Ack()
	assert.Equal(t, queue.KindTask, delivery.Message.Kind)
	assert.Equal(t, created.ID, delivery.Message.ID)
}

func TestTaskService_InvalidSubmissionIsAtomicNoOp(t *testing.T) {
	t.Parallel()

	cases := []struct {
		label       string
		name        string
		description string
		field       string
	}{
		{"empty name", "", "d", "name"},
		{"name too long", strings.Repeat("n", domain.MaxTaskNameLen+1), "d", "name"},
		{"empty description", "n", "", "description"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.label, func(t *testing.T) {
			t.Parallel()

			svc, store, broker := newTaskService(t)

			_, err := svc.CreateAndEnqueue(context.Background(), tc.name, tc.description)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields, tc.field)

			all, err := store.List(context.Background(), "")
			require.NoError(t, err)
			assert.Empty(t, all)
			assert.Equal(t, 0, broker.Len())
		})
	}
}

func TestTaskService_Get(t *testing.T) {
	t.Parallel()

	svc, _, broker := newTaskService(t)
	defer broker.Close()

	created, err := svc.CreateAndEnqueue(context.Background(), "n", "d")
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_ListFiltersByStatus(t *testing.T) {
	t.Parallel()

	svc, store, broker := newTaskService(t)
	defer broker.Close()

	first, err := svc.CreateAndEnqueue(context.Background(), "first", "d")
	require.NoError(t, err)
	_, err = svc.CreateAndEnqueue(context.Background(), "second", "d")
	require.NoError(t, err)

	require.NoError(t, first.MarkRunning())
	require.NoError(t, first.MarkCompleted("done"))
	require.NoError(t, store.Update(context.Background(), first))

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	completed, err := svc.List(context.Background(), domain.TaskStatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "first", completed[0].Name)
}
