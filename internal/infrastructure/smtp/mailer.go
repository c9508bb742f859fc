package smtp

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"

	"github.com/go-geonotify/internal/config"
	"github.com/go-geonotify/internal/domain"
)

// Mailer delivers notification messages through a plain SMTP relay.
type Mailer struct {
	host     string
	port     string
	username string
	password string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

// Send opens one connection per message. The dial and the whole SMTP
// conversation are bounded by ctx's deadline.
func (m *Mailer) Send(ctx context.Context, msg domain.Message) error {
	addr := net.JoinHostPort(m.host, m.port)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if m.username != "" {
		if err := c.Auth(smtp.PlainAuth("", m.username, m.password, m.host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(msg.From.Address); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(compose(msg)); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp data close: %w", err)
	}
	return c.Quit()
}

func compose(msg domain.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", formatAddress(msg.From))
	fmt.Fprintf(&b, "To: %s\r\n", stripNewlines(msg.To))
	fmt.Fprintf(&b, "Subject: %s\r\n", headerValue(msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.Text)
	return []byte(b.String())
}

func formatAddress(s domain.Sender) string {
	if s.Name == "" {
		return stripNewlines(s.Address)
	}
	return fmt.Sprintf("%s <%s>", headerValue(s.Name), stripNewlines(s.Address))
}

// headerValue makes v safe for a single header line. Line breaks are folded
// to spaces and non-ASCII text is Q-encoded.
func headerValue(v string) string {
	return mime.QEncoding.Encode("utf-8", stripNewlines(v))
}

func stripNewlines(v string) string {
	return strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(v)
}
