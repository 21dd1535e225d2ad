// Package task implements the worker side of the dispatch service:
// a pool of workers pulling work-item references from the queue and
// driving each referenced record through its state machine
// (pending -> running -> completed/failed for tasks, unsent -> sent or
// failed for notifications).
//
// Executors own all record mutation after submission. An execution
// pass ends in one of five outcomes: completed, failed, not-found
// (the record vanished, a logged no-op), already-done (a redelivered
// reference whose record is terminal; terminal states are fixed
// points and are never overwritten) or interrupted (shutdown cut the
// pass short before a terminal write). Every outcome except
// interrupted acknowledges the queue message; business failures are
// recorded, not retried. Interrupted records are requeued by the next
// startup recovery.
package task
