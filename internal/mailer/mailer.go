// Package mailer sends compliance reports, digests, and alerts over SMTP.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"fintel/internal/config"
	"fintel/internal/model"
)

// Mailer renders and delivers the three outbound message kinds. Send
// methods return the message ID assigned to the delivery.
type Mailer interface {
	SendReport(ctx context.Context, to string, data model.ReportData) (string, error)
	SendDigest(ctx context.Context, to string, data model.DigestReport) (string, error)
	SendAlert(ctx context.Context, to string, data model.AlertData) (string, error)

	// Verify checks transport configuration by dialing the SMTP server.
	Verify(ctx context.Context) error
}

// SMTPMailer delivers mail through a gomail dialer. Each send dials a
// fresh connection; volumes here are a handful of messages per trigger,
// not a queue.
type SMTPMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
	timeout  time.Duration
	log      zerolog.Logger
}

// NewSMTP creates an SMTPMailer from mail transport configuration.
func NewSMTP(cfg config.SMTPConfig, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
		timeout:  time.Duration(cfg.TimeoutSec) * time.Second,
		log:      log,
	}
}

var _ Mailer = (*SMTPMailer)(nil)

// SendReport delivers an anomaly report email.
func (m *SMTPMailer) SendReport(ctx context.Context, to string, data model.ReportData) (string, error) {
	subject, body, err := renderReport(data)
	if err != nil {
		return "", err
	}
	return m.send(ctx, to, subject, body, false)
}

// SendDigest delivers a periodic digest email.
func (m *SMTPMailer) SendDigest(ctx context.Context, to string, data model.DigestReport) (string, error) {
	subject, body, err := renderDigest(data)
	if err != nil {
		return "", err
	}
	return m.send(ctx, to, subject, body, false)
}

// SendAlert delivers a high-priority anomaly alert.
func (m *SMTPMailer) SendAlert(ctx context.Context, to string, data model.AlertData) (string, error) {
	subject, body, err := renderAlert(data)
	if err != nil {
		return "", err
	}
	return m.send(ctx, to, subject, body, true)
}

// Verify dials and closes an SMTP connection to prove the transport
// configuration works.
func (m *SMTPMailer) Verify(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		closer, err := m.dialer.Dial()
		if err != nil {
			errc <- err
			return
		}
		errc <- closer.Close()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(m.timeout):
		return fmt.Errorf("smtp verify timed out after %s", m.timeout)
	}
}

// send dials and sends one message. Delivery runs on its own goroutine so
// the context bound holds even though gomail itself is not context-aware.
func (m *SMTPMailer) send(ctx context.Context, to, subject, body string, highPriority bool) (string, error) {
	messageID := fmt.Sprintf("<%s@fintel>", uuid.New().String())

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetHeader("Message-ID", messageID)
	if highPriority {
		msg.SetHeader("X-Priority", "1")
	}
	msg.SetBody("text/html", body)

	errc := make(chan error, 1)
	go func() {
		errc <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-errc:
		if err != nil {
			m.log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("email send failed")
			return "", err
		}
		m.log.Info().Str("to", to).Str("message_id", messageID).Msg("email sent")
		return messageID, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(m.timeout):
		return "", fmt.Errorf("smtp send timed out after %s", m.timeout)
	}
}
