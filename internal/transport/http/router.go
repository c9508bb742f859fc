package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-geonotify/internal/application/campaign"
	"github.com/go-geonotify/internal/application/notify"
	"github.com/go-geonotify/internal/application/subscription"
	"github.com/go-geonotify/internal/config"
	"github.com/go-geonotify/internal/domain"
	"github.com/go-geonotify/internal/transport/http/handler"
	appmiddleware "github.com/go-geonotify/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router. Ledger, Archive
// and Publisher are optional.
type Deps struct {
	Store     LocationStore
	Mailer    Mailer
	Ledger    DeliveryLedger
	Archive   BatchArchive
	Publisher OutcomePublisher
}

// NewRouter builds and returns the application router. ctx bounds the
// rate limiter's background cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(appmiddleware.AllowAnyOrigin(cfg.AllowedOrigins))

	// Applied to the endpoints that create records or send mail.
	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimit), cfg.RateBurst)

	campaignSvc := campaign.NewService(campaign.ServiceDeps{CampaignRepo: deps.Store})
	userSvc := subscription.NewService(subscription.ServiceDeps{UserRepo: deps.Store})
	notifySvc := notify.NewService(notify.ServiceDeps{
		TargetRepo:  deps.Store,
		Mailer:      deps.Mailer,
		Sender:      domain.Sender{Name: cfg.SenderName, Address: cfg.SenderEmail()},
		SendTimeout: cfg.MailTimeout,
		Concurrency: cfg.NotifyConcurrency,
		Ledger:      deps.Ledger,
		Archive:     deps.Archive,
		Publisher:   deps.Publisher,
	})

	healthH := handler.NewHealthHandler()
	campaignH := handler.NewCampaignHandler(campaignSvc)
	userH := handler.NewUserHandler(userSvc)
	notifyH := handler.NewNotifyHandler(notifySvc)

	r.Get("/health-check/{action}", healthH.Ping)

	r.With(sensitiveRL.Limit).Put("/campaign", campaignH.Create)
	r.Get("/campaign/{id}", campaignH.Get)
	r.Post("/campaign/{id}", campaignH.Update)

	r.With(sensitiveRL.Limit).Put("/notify", notifyH.Notify)
	r.Get("/notify/{batch_id}", notifyH.ListDeliveries)

	r.With(sensitiveRL.Limit).Put("/user", userH.Create)
	r.Get("/user/{id}", userH.Get)
	r.Post("/user/{id}", userH.Update)
	r.Delete("/user/{id}", userH.Delete)

	return r
}
