package http

import (
	"context"

	"github.com/go-geonotify/internal/domain"
)

// LocationStore is the minimal interface the router requires from a
// campaign and subscription store (PostGIS or SQLite).
type LocationStore interface {
	CreateCampaign(ctx context.Context, c *domain.Campaign) error
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
	UpdateCampaign(ctx context.Context, id int64, adminToken string, in domain.CampaignInput) (*domain.Campaign, error)
	// FindTargets authorizes and selects recipients in one round trip.
	FindTargets(ctx context.Context, campaignID int64, adminToken string, center domain.Point, radius float64) (*domain.Targets, error)

	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id int64, token string) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, req domain.UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64, token string) (bool, error)
}

// Mailer delivers one notification message.
type Mailer interface {
	Send(ctx context.Context, msg domain.Message) error
}

// DeliveryLedger records per-recipient outcomes of notify batches.
type DeliveryLedger interface {
	Record(ctx context.Context, deliveries []domain.Delivery) error
	List(ctx context.Context, batchID string) ([]domain.Delivery, error)
}

// BatchArchive stores a manifest per settled notify batch.
type BatchArchive interface {
	Put(ctx context.Context, summary *domain.BatchSummary) (string, error)
}

// OutcomePublisher announces settled notify batches.
type OutcomePublisher interface {
	Publish(ctx context.Context, summary *domain.BatchSummary) error
}
