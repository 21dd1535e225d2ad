package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidTaskStatus is returned when a task status is not one of
	// the recognized values.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrInvalidTransition is returned when a status change would move a
	// task backwards or out of a terminal state.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrTerminalState is returned when an operation attempts to mutate a
	// work item that has already reached a terminal state.
	ErrTerminalState = errors.New("work item is in a terminal state")
)
