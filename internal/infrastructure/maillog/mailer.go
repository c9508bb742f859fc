// Package maillog provides a dispatcher that writes messages to the log
// instead of sending them. Used for local runs.
package maillog

import (
	"context"
	"log/slog"

	"github.com/go-geonotify/internal/domain"
)

type Mailer struct {
	logger *slog.Logger
}

func NewMailer(logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{logger: logger}
}

func (m *Mailer) Send(ctx context.Context, msg domain.Message) error {
	m.logger.InfoContext(ctx, "mail",
		"from", msg.From.Address,
		"to", msg.To,
		"subject", msg.Subject,
		"bytes", len(msg.Text),
	)
	return nil
}
