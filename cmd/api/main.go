package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-geonotify/internal/config"
	"github.com/go-geonotify/internal/infrastructure/dynamo"
	mailjetinfra "github.com/go-geonotify/internal/infrastructure/mailjet"
	"github.com/go-geonotify/internal/infrastructure/maillog"
	"github.com/go-geonotify/internal/infrastructure/postgis"
	s3infra "github.com/go-geonotify/internal/infrastructure/s3"
	sendgridinfra "github.com/go-geonotify/internal/infrastructure/sendgrid"
	"github.com/go-geonotify/internal/infrastructure/smtp"
	"github.com/go-geonotify/internal/infrastructure/sns"
	"github.com/go-geonotify/internal/infrastructure/sqlite"
	transporthttp "github.com/go-geonotify/internal/transport/http"
	"github.com/joho/godotenv"
)

type locationStore interface {
	transporthttp.LocationStore
	Close() error
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.AppEnv == "production" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer store.Close()

	deps := &transporthttp.Deps{
		Store:  store,
		Mailer: newMailer(cfg),
	}
	if err := wireSinks(ctx, cfg, deps); err != nil {
		log.Fatalf("notification sinks: %v", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(ctx, cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, store=%s, mail=%s)", cfg.AppPort, cfg.AppEnv, cfg.StoreDriver, cfg.MailProvider)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (locationStore, error) {
	if cfg.StoreDriver == config.StoreDriverSQLite {
		return sqlite.Open(cfg.StoreURL)
	}
	return postgis.Open(ctx, cfg)
}

func newMailer(cfg *config.Config) transporthttp.Mailer {
	switch cfg.MailProvider {
	case config.MailProviderMailjet:
		return mailjetinfra.NewMailer(cfg)
	case config.MailProviderSendGrid:
		return sendgridinfra.NewMailer(cfg)
	case config.MailProviderSMTP:
		return smtp.NewMailer(cfg)
	default:
		return maillog.NewMailer(slog.Default())
	}
}

// wireSinks attaches the optional AWS-backed ledger, archive and publisher.
func wireSinks(ctx context.Context, cfg *config.Config, deps *transporthttp.Deps) error {
	if !cfg.AWSEnabled() {
		return nil
	}
	if cfg.DeliveryTable != "" {
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return err
		}
		dynamo.Bootstrap(ctx, client, cfg.DeliveryTable)
		deps.Ledger = dynamo.NewDeliveryRepo(client, cfg.DeliveryTable)
	}
	if cfg.ArchiveBucket != "" {
		client, err := s3infra.NewClient(ctx, cfg)
		if err != nil {
			return err
		}
		deps.Archive = s3infra.NewArchive(client, cfg.ArchiveBucket)
	}
	if cfg.OutcomeTopicARN != "" {
		pub, err := sns.NewPublisher(ctx, cfg)
		if err != nil {
			return err
		}
		deps.Publisher = pub
	}
	return nil
}
