package sendgridinfra

import (
	"context"
	"fmt"

	"github.com/go-geonotify/internal/config"
	"github.com/go-geonotify/internal/domain"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends notification messages through the SendGrid v3 mail API.
type Mailer struct {
	send func(context.Context, *mail.SGMailV3) (*rest.Response, error)
}

func NewMailer(cfg *config.Config) *Mailer {
	client := sendgrid.NewSendClient(cfg.MailAPIKey)
	return &Mailer{send: client.SendWithContext}
}

func (m *Mailer) Send(ctx context.Context, msg domain.Message) error {
	resp, err := m.send(ctx, message(msg))
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func message(msg domain.Message) *mail.SGMailV3 {
	from := mail.NewEmail(msg.From.Name, msg.From.Address)
	to := mail.NewEmail("", msg.To)
	return mail.NewSingleEmailPlainText(from, msg.Subject, to, msg.Text)
}
