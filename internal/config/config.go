package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers understood by Load.
const (
	StoreDriverPostGIS = "postgis"
	StoreDriverSQLite  = "sqlite"
)

// Mail providers understood by Load.
const (
	MailProviderMailjet  = "mailjet"
	MailProviderSendGrid = "sendgrid"
	MailProviderSMTP     = "smtp"
	MailProviderLog      = "log"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"3000"`
	AppEnv  string `env:"APP_ENV" envDefault:"development"`

	StoreDriver         string        `env:"STORE_DRIVER" envDefault:"postgis"`
	StoreURL            string        `env:"STORE_URL" envDefault:"postgres://localhost:5432/geonotify?sslmode=disable"`
	StoreMaxConns       int           `env:"STORE_MAX_CONNS" envDefault:"1"`
	StoreIdleTimeout    time.Duration `env:"STORE_IDLE_TIMEOUT" envDefault:"10s"`
	StoreConnectTimeout time.Duration `env:"STORE_CONNECT_TIMEOUT" envDefault:"2s"`

	MailProvider  string        `env:"MAIL_PROVIDER" envDefault:"log"`
	SenderAddress string        `env:"MAIL_SENDER" envDefault:"notifications"`
	SenderName    string        `env:"MAIL_SENDER_NAME" envDefault:"Geonotify"`
	MailDomain    string        `env:"MAIL_DOMAIN" envDefault:"example.com"`
	MailAPIKey    string        `env:"MAIL_API_KEY"`
	MailAPISecret string        `env:"MAIL_API_SECRET"` // Mailjet private key
	MailTimeout   time.Duration `env:"MAIL_TIMEOUT" envDefault:"1s"`
	SMTPHost      string        `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort      string        `env:"SMTP_PORT" envDefault:"1025"`
	SMTPUsername  string        `env:"SMTP_USERNAME"`
	SMTPPassword  string        `env:"SMTP_PASSWORD"`

	// NotifyConcurrency caps in-flight sends per notify call; 0 means unbounded.
	NotifyConcurrency int `env:"NOTIFY_CONCURRENCY" envDefault:"0"`

	AWSRegion      string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSEndpointURL string `env:"AWS_ENDPOINT_URL"` // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string `env:"AWS_SECRET_ACCESS_KEY"`

	// Optional notification sinks. Empty disables the sink.
	DeliveryTable   string `env:"DYNAMO_TABLE_DELIVERIES"`
	ArchiveBucket   string `env:"S3_ARCHIVE_BUCKET"`
	OutcomeTopicARN string `env:"SNS_TOPIC_ARN"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	RateLimit      float64  `env:"RATE_LIMIT" envDefault:"5"`
	RateBurst      int      `env:"RATE_BURST" envDefault:"10"`
}

// Load reads all configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.StoreDriver {
	case StoreDriverPostGIS, StoreDriverSQLite:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	switch cfg.MailProvider {
	case MailProviderMailjet, MailProviderSendGrid, MailProviderSMTP, MailProviderLog:
	default:
		return nil, fmt.Errorf("unknown MAIL_PROVIDER %q", cfg.MailProvider)
	}
	return &cfg, nil
}

// SenderEmail returns the full sender address. A bare local part is joined
// with MailDomain.
func (c *Config) SenderEmail() string {
	if strings.Contains(c.SenderAddress, "@") {
		return c.SenderAddress
	}
	return c.SenderAddress + "@" + c.MailDomain
}

// AWSEnabled reports whether any AWS-backed sink is configured.
func (c *Config) AWSEnabled() bool {
	return c.DeliveryTable != "" || c.ArchiveBucket != "" || c.OutcomeTopicARN != ""
}
