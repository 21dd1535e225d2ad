package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	t.Run("valid task", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask("T1", "d")
		require.NoError(t, err)

		assert.Equal(t, TaskStatusPending, task.Status)
		assert.NotEqual(t, "", task.ID.String())
		assert.Nil(t, task.CompletedAt)
		assert.False(t, task.CreatedAt.IsZero())
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		_, err := NewTask("", "d")
		assert.ErrorIs(t, err, ErrEmptyTaskName)
	})

	t.Run("name too long", func(t *testing.T) {
		t.Parallel()

		_, err := NewTask(strings.Repeat("x", MaxTaskNameLen+1), "d")
		assert.ErrorIs(t, err, ErrTaskNameLen)
	})

	t.Run("empty description", func(t *testing.T) {
		t.Parallel()

		_, err := NewTask("T1", "")
		assert.ErrorIs(t, err, ErrEmptyTaskDescription)
	})
}

func TestTask_StatusTransitions(t *testing.T) {
	t.Parallel()

	t.Run("pending to running to completed", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask("T1", "d")
		require.NoError(t, err)

		require.NoError(t, task.MarkRunning())
		assert.Equal(t, TaskStatusRunning, task.Status)
		assert.Nil(t, task.CompletedAt)

		require.NoError(t, task.MarkCompleted("done"))
		assert.Equal(t, TaskStatusCompleted, task.Status)
		assert.Equal(t, "done", task.Result)
		require.NotNil(t, task.CompletedAt)
	})

	t.Run("pending to running to failed", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask("T1", "d")
		require.NoError(t, err)

		require.NoError(t, task.MarkRunning())
		require.NoError(t, task.MarkFailed("boom"))

		assert.Equal(t, TaskStatusFailed, task.Status)
		assert.Equal(t, "boom", task.Result)
		require.NotNil(t, task.CompletedAt)
	})

	t.Run("running cannot be claimed again", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask("T1", "d")
		require.NoError(t, err)

		require.NoError(t, task.MarkRunning())
		assert.ErrorIs(t, task.MarkRunning(), ErrInvalidTransition)
	})

	t.Run("terminal states are fixed points", func(t *testing.T) {
		t.Parallel()

		task, err := NewTask("T1", "d")
		require.NoError(t, err)

		require.NoError(t, task.MarkRunning())
		require.NoError(t, task.MarkCompleted("first outcome"))
		completedAt := *task.CompletedAt

		assert.ErrorIs(t, task.MarkRunning(), ErrTerminalState)
		assert.ErrorIs(t, task.MarkCompleted("second outcome"), ErrTerminalState)
		assert.ErrorIs(t, task.MarkFailed("late failure"), ErrTerminalState)

		assert.Equal(t, TaskStatusCompleted, task.Status)
		assert.Equal(t, "first outcome", task.Result)
		assert.Equal(t, completedAt, *task.CompletedAt)
	})
}

// CompletedAt must be set exactly when the task is terminal, across
// every reachable state.
func TestTask_CompletionTimestampInvariant(t *testing.T) {
	t.Parallel()

	type step func(*Task) error

	sequences := map[string][]step{
		"created only":      {},
		"claimed":           {(*Task).MarkRunning},
		"completed":         {(*Task).MarkRunning, func(task *Task) error { return task.MarkCompleted("ok") }},
		"failed":            {(*Task).MarkRunning, func(task *Task) error { return task.MarkFailed("no") }},
		"failed while pending": {
			func(task *Task) error { return task.MarkFailed("rejected before claim") },
		},
	}

	for name, steps := range sequences {
		steps := steps
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			task, err := NewTask("T1", "d")
			require.NoError(t, err)

			for _, s := range steps {
				require.NoError(t, s(task))
			}

			assert.Equal(t, task.IsTerminal(), task.CompletedAt != nil)
			assert.NoError(t, task.Validate())
		})
	}
}

func TestTask_ValidateRejectsInconsistentTimestamp(t *testing.T) {
	t.Parallel()

	task, err := NewTask("T1", "d")
	require.NoError(t, err)

	// Terminal status without a completion timestamp must not validate.
	task.Status = TaskStatusCompleted
	assert.ErrorIs(t, task.Validate(), ErrInvalidTransition)
}
