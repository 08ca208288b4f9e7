// Package mailer delivers notification e-mails.
package mailer

import (
	"context"
	"fmt"
	"html"

	"github.com/localnerve/lookout/internal/config"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Message is one outgoing e-mail
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	Text      string
}

// Mailer sends e-mail
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns a SendGrid mailer when an api key is configured, otherwise a Nop
func New(cfg *config.Config) Mailer {
	if !cfg.MailEnabled() {
		zap.S().Infow("Mail delivery disabled, SENDGRID_API_KEY not set")
		return Nop{}
	}
	return &SendGrid{
		client:   sendgrid.NewSendClient(cfg.SendgridAPIKey),
		fromName: cfg.MailFromName,
		fromAddr: cfg.MailFromAddress,
	}
}

// SendGrid sends through the SendGrid v3 api
type SendGrid struct {
	client   *sendgrid.Client
	fromName string
	fromAddr string
}

// Send delivers msg, treating any 4xx or 5xx response as failure
func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(s.fromName, s.fromAddr)
	to := mail.NewEmail(msg.ToName, msg.ToAddress)
	htmlContent := "<p>" + html.EscapeString(msg.Text) + "</p>"
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, htmlContent)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", msg.ToAddress)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	return nil
}

// Nop discards every message
type Nop struct{}

// Send does nothing
func (Nop) Send(context.Context, Message) error { return nil }
