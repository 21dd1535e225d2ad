package queue

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Kind discriminates the work-item type a message refers to.
type Kind string

// Supported work-item kinds.
const (
	KindNotification Kind = "notification"
	KindTask         Kind = "task"
)

// Common errors returned by brokers.
var (
	ErrQueueClosed = errors.New("queue is closed")
	ErrQueueFull   = errors.New("queue is full")
)

// Message is an opaque reference to a work item. It carries no
// business payload.
type Message struct {
	Kind Kind
	ID   uuid.UUID
}

// Delivery is a dequeued message pending acknowledgment. The consumer
// must call Ack exactly once, after its execution path reaches a
// terminal write or a not-found no-op.
type Delivery struct {
	Message Message
	ack     func()
}

// Ack acknowledges the delivery, removing the message from the broker.
// Calling Ack more than once is a no-op.
func (d *Delivery) Ack() {
	if d.ack != nil {
		d.ack()
	}
}

// Enqueuer is the producer side of the broker.
type Enqueuer interface {
	// Enqueue adds a work-item reference to the queue.
	// Returns ErrQueueFull or ErrQueueClosed if the message cannot be
	// accepted; the caller decides how to surface that.
	Enqueue(ctx context.Context, msg Message) error
}

// Consumer is the worker side of the broker.
type Consumer interface {
	// Dequeue blocks until a message is available, the context is
	// cancelled, or the broker is closed.
	Dequeue(ctx context.Context) (*Delivery, error)
}

// Broker combines both sides of the queue contract.
type Broker interface {
	Enqueuer
	Consumer

	// Len returns the number of messages waiting in the queue.
	Len() int

	// InFlight returns the number of delivered but unacknowledged
	// messages.
	InFlight() int

	// Close closes the broker, preventing further submission. Messages
	// already queued remain consumable until drained.
	Close()
}
