// Package email provides an email sending client.
//
// It uses Resend (resend-go) as the email provider and renders message
// bodies from templates embedded in the binary.
package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/go-forms/internal/config"
	"github.com/deppfellow/go-forms/internal/lib/breaker"
	"github.com/deppfellow/go-forms/internal/metrics"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// sender is the part of the Resend SDK the client uses.
type sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Client wraps the Resend client and a logger.
type Client struct {
	emails  sender
	from    string
	replyTo string
	breaker breaker.CircuitBreaker
	logger  *zerolog.Logger
}

// NewClient creates an email Client, or nil when Resend is not configured.
// A nil *Client is a valid disabled client.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	if !cfg.Resend.EmailEnabled() {
		return nil
	}
	return newClient(resend.NewClient(cfg.Resend.APIKey).Emails, cfg.Resend.From, cfg.Resend.ReplyTo, logger)
}

func newClient(emails sender, from, replyTo string, logger *zerolog.Logger) *Client {
	return &Client{
		emails:  emails,
		from:    from,
		replyTo: replyTo,
		breaker: breaker.New("email", 30*time.Second, 5),
		logger:  logger,
	}
}

// Enabled reports whether confirmation emails are sent.
func (c *Client) Enabled() bool {
	return c != nil
}

// SendEmail renders templateName with data and sends it to one recipient.
func (c *Client) SendEmail(ctx context.Context, to, subject string, templateName Template, data any) error {
	if c == nil {
		return nil
	}

	html, text, err := Render(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
		Text:    text,
	}
	if strings.TrimSpace(c.replyTo) != "" {
		params.ReplyTo = c.replyTo
	}

	return c.breaker.Execute(func() error {
		start := time.Now()
		sent, err := c.emails.SendWithContext(ctx, params)
		metrics.UpstreamDuration.WithLabelValues("email").Observe(time.Since(start).Seconds())
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}

		if sent != nil && c.logger != nil {
			c.logger.Debug().
				Str("template", string(templateName)).
				Str("email_id", sent.Id).
				Msg("confirmation email accepted")
		}
		return nil
	})
}

// ErrNoRecipient is returned when a confirmation has nowhere to go.
var ErrNoRecipient = errors.New("email recipient is empty")
