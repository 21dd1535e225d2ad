package testutils

import (
	"context"
	"errors"
	"sync"
)

// ErrSendRejected is the default failure returned by a FakeSender for
// rejected destinations.
var ErrSendRejected = errors.New("recipient rejected by transport")

// SentMessage records one delivery accepted by the FakeSender.
type SentMessage struct {
	To      string
	Subject string
	Body    string
}

// FakeSender implements the worker's Sender interface. Destinations
// added with Reject fail; everything else succeeds and is recorded.
type FakeSender struct {
	mu       sync.Mutex
	rejected map[string]error
	sent     []SentMessage
}

// NewFakeSender creates a FakeSender that accepts every destination.
func NewFakeSender() *FakeSender {
	return &FakeSender{rejected: make(map[string]error)}
}

// Reject configures the sender to fail for the given destination.
// If err is nil, ErrSendRejected is used.
func (f *FakeSender) Reject(to string, err error) {
	if err == nil {
		err = ErrSendRejected
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejected[to] = err
}

// Send implements the Sender interface.
func (f *FakeSender) Send(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.rejected[to]; ok {
		return err
	}

	f.sent = append(f.sent, SentMessage{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of the accepted deliveries.
func (f *FakeSender) Sent() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]SentMessage, len(f.sent))
	copy(out, f.sent)
	return out
}
