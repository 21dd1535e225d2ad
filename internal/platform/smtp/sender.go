// Package smtp provides the outbound mail transport used by the
// notification executor. The worker treats any error from Send as an
// execution failure; protocol details stay contained here.
package smtp

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/dispatchd/dispatch-api/internal/config"
)

// Sender delivers email over SMTP using the standard library client.
type Sender struct {
	addr   string
	from   string
	auth   smtp.Auth
	logger *slog.Logger

	// sendMail is swappable for tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSender creates a Sender from the SMTP configuration. Plain auth
// is used only when a username is configured.
func NewSender(cfg config.SMTPConfig, logger *slog.Logger) *Sender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &Sender{
		addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from:     cfg.From,
		auth:     auth,
		logger:   logger.With(slog.String("component", "smtp_sender")),
		sendMail: smtp.SendMail,
	}
}

// Send hands the message to the SMTP server. The call is synchronous;
// it returns once the server accepts or rejects the message.
func (s *Sender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(s.from, to, subject, body)

	if err := s.sendMail(s.addr, s.auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}

	s.logger.Debug("message accepted by smtp server", slog.String("to", to))
	return nil
}

// buildMessage assembles a minimal RFC 5322 message.
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
