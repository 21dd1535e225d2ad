package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// MemoryBroker implements Broker with a buffered channel. It provides
// the blocking-dequeue and explicit-ack semantics of the contract;
// at-least-once delivery across process restarts comes from the task
// runner's startup recovery, which requeues unfinished records from
// the store.
type MemoryBroker struct {
	messages chan Message
	inFlight atomic.Int64
	logger   *slog.Logger

	mu     sync.Mutex
	closed bool
}

var _ Broker = (*MemoryBroker)(nil)

// NewMemoryBroker creates a new in-memory broker with the specified
// buffer size.
func NewMemoryBroker(size int, logger *slog.Logger) *MemoryBroker {
	return &MemoryBroker{
		messages: make(chan Message, size),
		logger:   logger.With(slog.String("component", "memory_broker")),
	}
}

// Enqueue adds a work-item reference to the queue.
// Returns an error if the queue is full or closed.
func (b *MemoryBroker) Enqueue(ctx context.Context, msg Message) error {
	// The send stays under the lock so a concurrent Close cannot close
	// the channel mid-send. The default case keeps it non-blocking.
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrQueueClosed
	}

	select {
	case b.messages <- msg:
		b.logger.Debug("message enqueued",
			"kind", msg.Kind,
			"item_id", msg.ID,
			"queue_len", len(b.messages),
			"queue_cap", cap(b.messages))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(b.messages))
	}
}

// Dequeue blocks until a message is available, the context is
// cancelled, or the broker is closed and drained.
func (b *MemoryBroker) Dequeue(ctx context.Context) (*Delivery, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case msg, ok := <-b.messages:
		if !ok {
			return nil, ErrQueueClosed
		}

		b.inFlight.Add(1)
		var once sync.Once
		return &Delivery{
			Message: msg,
			ack: func() {
				once.Do(func() {
					b.inFlight.Add(-1)
				})
			},
		}, nil
	}
}

// Len returns the number of messages waiting in the queue.
func (b *MemoryBroker) Len() int {
	return len(b.messages)
}

// InFlight returns the number of delivered but unacknowledged messages.
func (b *MemoryBroker) InFlight() int {
	return int(b.inFlight.Load())
}

// Close closes the broker, preventing further submission.
func (b *MemoryBroker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.messages)
		b.logger.Info("broker closed")
	}
}
