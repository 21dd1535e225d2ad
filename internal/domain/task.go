package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the processing state of a background task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// MaxTaskNameLen bounds the task name field.
const MaxTaskNameLen = 100

// Common validation errors for Task
var (
	ErrEmptyTaskID          = errors.New("task ID cannot be empty")
	ErrEmptyTaskName        = errors.New("task name cannot be empty")
	ErrTaskNameLen          = errors.New("task name exceeds maximum length")
	ErrEmptyTaskDescription = errors.New("task description cannot be empty")
)

// Task represents a generic background work item. Status moves
// monotonically along pending -> running -> {completed, failed};
// CompletedAt is set exactly when a terminal status is reached.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Result      string     `json:"result,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewTask creates a new pending Task with the given name and
// description. Returns an error if validation fails.
func NewTask(name, description string) (*Task, error) {
	t := &Task{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Status:      TaskStatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Name == "" {
		return ErrEmptyTaskName
	}

	if len(t.Name) > MaxTaskNameLen {
		return ErrTaskNameLen
	}

	if t.Description == "" {
		return ErrEmptyTaskDescription
	}

	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	// CompletedAt is set if and only if the task is terminal.
	if t.IsTerminal() != (t.CompletedAt != nil) {
		return ErrInvalidTransition
	}

	return nil
}

// IsTerminal reports whether the task has reached a terminal status.
func (t *Task) IsTerminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}

// MarkRunning transitions the task from pending to running.
func (t *Task) MarkRunning() error {
	if t.IsTerminal() {
		return ErrTerminalState
	}

	if t.Status != TaskStatusPending {
		return ErrInvalidTransition
	}

	t.Status = TaskStatusRunning
	return nil
}

// MarkCompleted transitions the task to completed, recording the
// success summary and the completion timestamp.
func (t *Task) MarkCompleted(result string) error {
	return t.finish(TaskStatusCompleted, result)
}

// MarkFailed transitions the task to failed, recording the failure
// detail and the completion timestamp.
func (t *Task) MarkFailed(detail string) error {
	return t.finish(TaskStatusFailed, detail)
}

func (t *Task) finish(status TaskStatus, result string) error {
	if t.IsTerminal() {
		return ErrTerminalState
	}

	now := time.Now().UTC()
	t.Status = status
	t.Result = result
	t.CompletedAt = &now
	return nil
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusPending, TaskStatusRunning, TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}
