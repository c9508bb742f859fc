package mailjetinfra

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-geonotify/internal/config"
	"github.com/go-geonotify/internal/domain"
	"github.com/mailjet/mailjet-apiv3-go"
)

// Mailer sends notification messages through the Mailjet v3.1 send API.
type Mailer struct {
	httpClient *http.Client
	send       func(*mailjet.MessagesV31) error
}

// NewMailer bounds every API call by cfg.MailTimeout at the HTTP layer.
func NewMailer(cfg *config.Config) *Mailer {
	httpClient := &http.Client{Timeout: cfg.MailTimeout}
	clt := mailjet.NewMailjetClient(cfg.MailAPIKey, cfg.MailAPISecret)
	clt.SetClient(httpClient)
	return &Mailer{httpClient: httpClient, send: func(msgs *mailjet.MessagesV31) error {
		_, err := clt.SendMailV31(msgs)
		return err
	}}
}

// Send delivers msg. The Mailjet client takes no context, so the call runs
// in its own goroutine and Send returns early when ctx is done. The HTTP
// client timeout ends the abandoned request.
func (m *Mailer) Send(ctx context.Context, msg domain.Message) error {
	msgs := messages(msg)
	done := make(chan error, 1)
	go func() { done <- m.send(msgs) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("could not send mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("could not send mail: %w", ctx.Err())
	}
}

func messages(msg domain.Message) *mailjet.MessagesV31 {
	return &mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{{
		From:     &mailjet.RecipientV31{Email: msg.From.Address, Name: msg.From.Name},
		To:       &mailjet.RecipientsV31{mailjet.RecipientV31{Email: msg.To}},
		Subject:  msg.Subject,
		TextPart: msg.Text,
	}}}
}
