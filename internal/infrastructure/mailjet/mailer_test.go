package mailjetinfra

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-geonotify/internal/config"
	"github.com/go-geonotify/internal/domain"
	"github.com/mailjet/mailjet-apiv3-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMsg = domain.Message{
	From:    domain.Sender{Name: "Geonotify", Address: "notifications@example.com"},
	To:      "a@example.com",
	Subject: "Notification from ranger@example.com: Trail",
	Text:    "No description",
}

func TestSend_BuildsMessage(t *testing.T) {
	var got *mailjet.MessagesV31
	m := &Mailer{send: func(msgs *mailjet.MessagesV31) error {
		got = msgs
		return nil
	}}

	require.NoError(t, m.Send(context.Background(), testMsg))
	require.Len(t, got.Info, 1)
	info := got.Info[0]
	assert.Equal(t, "notifications@example.com", info.From.Email)
	assert.Equal(t, "Geonotify", info.From.Name)
	assert.Equal(t, "a@example.com", (*info.To)[0].Email)
	assert.Equal(t, testMsg.Subject, info.Subject)
	assert.Equal(t, "No description", info.TextPart)
}

func TestSend_WrapsError(t *testing.T) {
	m := &Mailer{send: func(*mailjet.MessagesV31) error { return errors.New("401") }}
	err := m.Send(context.Background(), testMsg)
	assert.ErrorContains(t, err, "could not send mail: 401")
}

func TestSend_HonoursDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	m := &Mailer{send: func(*mailjet.MessagesV31) error {
		<-release
		return nil
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := m.Send(ctx, testMsg)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewMailer_HTTPClientTimeout(t *testing.T) {
	m := NewMailer(&config.Config{MailAPIKey: "pub", MailAPISecret: "priv", MailTimeout: 1500 * time.Millisecond})
	require.NotNil(t, m.httpClient)
	assert.Equal(t, 1500*time.Millisecond, m.httpClient.Timeout)
	assert.NotSame(t, http.DefaultClient, m.httpClient)
}
