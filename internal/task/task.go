package task

import (
	"context"

	"github.com/google/uuid"

	"github.com/dispatchd/dispatch-api/internal/queue"
)

// Outcome classifies the terminal result of a single execution pass.
type Outcome string

// Possible execution outcomes.
const (
	// OutcomeCompleted means the side effect succeeded and the success
	// state was persisted.
	OutcomeCompleted Outcome = "completed"

	// OutcomeFailed means the side effect failed and the failure state
	// was persisted (or the failure write itself failed and was logged
	// and swallowed).
	OutcomeFailed Outcome = "failed"

	// OutcomeNotFound means the referenced record no longer exists.
	// This is a terminal no-op, not an error requiring redelivery.
	OutcomeNotFound Outcome = "not_found"

	// OutcomeAlreadyDone means the record was already in a terminal
	// state, typically because the message was redelivered. The record
	// is left untouched.
	OutcomeAlreadyDone Outcome = "already_done"

	// OutcomeInterrupted means the pass was cut short by shutdown before
	// reaching a terminal write. No state is persisted and the message is
	// not acknowledged; startup recovery requeues the record.
	OutcomeInterrupted Outcome = "interrupted"
)

// Result describes how an execution pass ended. Detail carries the
// success summary or failure message that was persisted, if any.
type Result struct {
	Outcome Outcome
	Detail  string
}

// Executor runs the full execution path for one work-item kind:
// load the record, claim it, perform the side effect, and persist the
// terminal state. Execute never returns an error for business
// failures; those are folded into the Result. A returned error means
// the record could not even be read, and is logged by the runner.
type Executor interface {
	// Kind returns the work-item kind this executor handles.
	Kind() queue.Kind

	// Execute processes the work item with the given identifier.
	Execute(ctx context.Context, id uuid.UUID) (Result, error)
}

// Sender hands an email to the outbound mail transport. Any returned
// error is treated uniformly as an execution failure.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}
