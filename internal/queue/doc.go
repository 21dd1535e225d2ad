// Package queue defines the broker contract between the submission
// path and the worker pool. Messages are opaque work-item references
// (kind + identifier), never business payloads, so a record mutated
// after enqueue is always re-read fresh by the worker. Delivery is
// at-least-once: a message is removed only when the consumer
// acknowledges it after reaching a terminal outcome.
package queue
