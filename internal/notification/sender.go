package notification

import (
	"context"

	"gopkg.in/gomail.v2"

	"society-be-svc/internal/config"
	"society-be-svc/pkg/logger"
)

// Sender delivers a rendered message
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender returns an SMTP sender when a host is configured and a logging sender otherwise
func NewSender(cfg *config.EmailConfig, log *logger.Logger) Sender {
	if cfg.Host == "" {
		log.Warn("SMTP_HOST not set, notification emails will only be logged")
		return &logSender{logger: log}
	}
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// smtpSender delivers messages through an SMTP relay
type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	return s.dialer.DialAndSend(m)
}

// logSender writes messages to the log instead of sending them
type logSender struct {
	logger *logger.Logger
}

func (s *logSender) Send(_ context.Context, msg Message) error {
	s.logger.WithFields(map[string]interface{}{
		"kind":    msg.Kind,
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Notification email (not sent, SMTP disabled)")
	return nil
}
