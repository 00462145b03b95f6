package reminder

import (
	"errors"
	"log/slog"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"fixturecal/internal/logging"
)

// Sender delivers a rendered message to the configured recipients.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender delivers messages over implicit-TLS SMTP.
type SMTPSender struct {
	host       string
	port       int
	username   string
	password   string
	from       string
	recipients []string
}

// NewSMTPSender creates an SMTP sender. The from address falls back to the
// username when empty.
func NewSMTPSender(host string, port int, username, password, from string, recipients []string) (*SMTPSender, error) {
	if strings.TrimSpace(host) == "" {
		return nil, errors.New("smtp host required")
	}
	if len(recipients) == 0 {
		return nil, errors.New("at least one recipient required")
	}
	if strings.TrimSpace(from) == "" {
		from = username
	}
	if port <= 0 {
		port = 465
	}
	return &SMTPSender{
		host:       host,
		port:       port,
		username:   username,
		password:   password,
		from:       from,
		recipients: recipients,
	}, nil
}

// Send delivers the message in a single SMTP session.
func (s *SMTPSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.recipients...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	dialer := gomail.NewDialer(s.host, s.port, s.username, s.password)
	dialer.SSL = true
	return dialer.DialAndSend(m)
}

// LogSender records messages instead of delivering them; it backs dry runs.
type LogSender struct {
	logger *slog.Logger
	sent   []Message
}

// NewLogSender creates a dry-run sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LogSender{logger: logging.NewComponentLogger(logger, "reminder")}
}

// Send logs the message and retains it for inspection.
func (s *LogSender) Send(msg Message) error {
	s.sent = append(s.sent, msg)
	s.logger.Info("dry run reminder",
		logging.String("subject", msg.Subject),
		logging.String("body", msg.Body))
	return nil
}

// Sent returns every message recorded so far.
func (s *LogSender) Sent() []Message {
	return s.sent
}
