package smtp

import (
	"context"
	"errors"
	netsmtp "net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispatchd/dispatch-api/internal/config"
	"github.com/dispatchd/dispatch-api/internal/testutils"
)

func testSMTPConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host: "localhost",
		Port: 2525,
		From: "noreply@example.com",
	}
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	sender := NewSender(testSMTPConfig(), testutils.NewTestLogger())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	sender.sendMail = func(addr string, a netsmtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := sender.Send(context.Background(), "user@example.com", "hello", "body")
	require.NoError(t, err)

	assert.Equal(t, "localhost:2525", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"user@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: hello\r\n")
	assert.Contains(t, string(gotMsg), "\r\n\r\nbody")
}

func TestSender_SendFailure(t *testing.T) {
	t.Parallel()

	sender := NewSender(testSMTPConfig(), testutils.NewTestLogger())
	sender.sendMail = func(addr string, a netsmtp.Auth, from string, to []string, msg []byte) error {
		return errors.New("connection refused")
	}

	err := sender.Send(context.Background(), "user@example.com", "hello", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user@example.com")
}

func TestSender_SendCancelledContext(t *testing.T) {
	t.Parallel()

	sender := NewSender(testSMTPConfig(), testutils.NewTestLogger())
	called := false
	sender.sendMail = func(addr string, a netsmtp.Auth, from string, to []string, msg []byte) error {
		called = true
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sender.Send(ctx, "user@example.com", "hello", "body")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	msg := string(buildMessage("a@example.com", "b@example.com", "subject line", "the body"))

	assert.Contains(t, msg, "From: a@example.com\r\n")
	assert.Contains(t, msg, "To: b@example.com\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain")

	// Headers and body are separated by a blank line.
	assert.Contains(t, msg, "\r\n\r\nthe body")
}
