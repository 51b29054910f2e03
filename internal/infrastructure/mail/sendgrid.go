// Package mail delivers transactional email through SendGrid.
package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/storefront/commerce-api/internal/core/ports"
)

// SendGridMailer implements ports.Mailer.
type SendGridMailer struct {
	apiKey   string
	from     string
	fromName string
}

func NewSendGridMailer(apiKey, from, fromName string) *SendGridMailer {
	return &SendGridMailer{apiKey: apiKey, from: from, fromName: fromName}
}

func (m *SendGridMailer) Send(_ context.Context, job ports.MailJob) error {
	if m.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if job.To == "" {
		return fmt.Errorf("recipient is empty")
	}

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail(m.fromName, m.from),
		job.Subject,
		sgmail.NewEmail("", job.To),
		job.HTML,
		Wrap(job.HTML),
	)

	resp, err := sendgrid.NewSendClient(m.apiKey).Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", resp.StatusCode, resp.Body)
	}
	return nil
}
