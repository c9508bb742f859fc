package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, StoreDriverPostGIS, cfg.StoreDriver)
	assert.Equal(t, 1, cfg.StoreMaxConns)
	assert.Equal(t, 10*time.Second, cfg.StoreIdleTimeout)
	assert.Equal(t, 2*time.Second, cfg.StoreConnectTimeout)
	assert.Equal(t, time.Second, cfg.MailTimeout)
	assert.Equal(t, 0, cfg.NotifyConcurrency)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.AWSEnabled())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("STORE_URL", "/tmp/geo.db")
	t.Setenv("MAIL_PROVIDER", "mailjet")
	t.Setenv("NOTIFY_CONCURRENCY", "8")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DYNAMO_TABLE_DELIVERIES", "deliveries")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "/tmp/geo.db", cfg.StoreURL)
	assert.Equal(t, MailProviderMailjet, cfg.MailProvider)
	assert.Equal(t, 8, cfg.NotifyConcurrency)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.AWSEnabled())
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")
	_, err := Load()
	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestLoad_UnknownMailProvider(t *testing.T) {
	t.Setenv("MAIL_PROVIDER", "pigeon")
	_, err := Load()
	assert.ErrorContains(t, err, "MAIL_PROVIDER")
}

func TestSenderEmail(t *testing.T) {
	cfg := &Config{SenderAddress: "alerts", MailDomain: "mg.example.com"}
	assert.Equal(t, "alerts@mg.example.com", cfg.SenderEmail())

	cfg.SenderAddress = "ops@example.org"
	assert.Equal(t, "ops@example.org", cfg.SenderEmail())
}
