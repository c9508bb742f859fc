package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-geonotify/internal/domain"
	"github.com/go-geonotify/internal/pkg/id"
	pkgtoken "github.com/go-geonotify/internal/pkg/token"
	"github.com/go-geonotify/internal/pkg/validate"
	"golang.org/x/sync/errgroup"
)

const noDescription = "No description"

// sinkTimeout bounds each optional post-settle write.
const sinkTimeout = 5 * time.Second

// Outcome is the settled result of one notify call.
type Outcome struct {
	BatchID    string
	Recipients []domain.Target
	Sent       int
	Failed     int
}

type Service interface {
	// Notify emails every subscriber of the campaign strictly inside the
	// circle. It returns ErrUnauthorized when the campaign id and admin token
	// do not match, and an Outcome together with ErrDispatch when any send
	// failed.
	Notify(ctx context.Context, req domain.NotifyRequest) (*Outcome, error)
	ListDeliveries(ctx context.Context, batchID string, campaignID int64, adminToken string) ([]domain.Delivery, error)
}

type targetStore interface {
	FindTargets(ctx context.Context, campaignID int64, adminToken string, center domain.Point, radius float64) (*domain.Targets, error)
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
}

type dispatcher interface {
	Send(ctx context.Context, msg domain.Message) error
}

type deliveryLedger interface {
	Record(ctx context.Context, deliveries []domain.Delivery) error
	List(ctx context.Context, batchID string) ([]domain.Delivery, error)
}

type batchArchive interface {
	Put(ctx context.Context, summary *domain.BatchSummary) (string, error)
}

type outcomePublisher interface {
	Publish(ctx context.Context, summary *domain.BatchSummary) error
}

type service struct {
	repo        targetStore
	mailer      dispatcher
	sender      domain.Sender
	sendTimeout time.Duration
	limit       int
	ledger      deliveryLedger
	archive     batchArchive
	publisher   outcomePublisher
	now         func() time.Time
}

// ServiceDeps wires the notify service. Ledger, Archive and Publisher are
// optional; leave them nil to disable.
type ServiceDeps struct {
	TargetRepo  targetStore
	Mailer      dispatcher
	Sender      domain.Sender
	SendTimeout time.Duration
	// Concurrency caps in-flight sends; 0 means unbounded.
	Concurrency int
	Ledger      deliveryLedger
	Archive     batchArchive
	Publisher   outcomePublisher
}

func NewService(deps ServiceDeps) Service {
	limit := deps.Concurrency
	if limit <= 0 {
		limit = -1
	}
	return &service{
		repo:        deps.TargetRepo,
		mailer:      deps.Mailer,
		sender:      deps.Sender,
		sendTimeout: deps.SendTimeout,
		limit:       limit,
		ledger:      deps.Ledger,
		archive:     deps.Archive,
		publisher:   deps.Publisher,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Notify(ctx context.Context, req domain.NotifyRequest) (*Outcome, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, err
	}
	center := domain.Point{Lng: req.Lng, Lat: req.Lat}
	targets, err := s.repo.FindTargets(ctx, req.Campaign.ID, req.Campaign.AdminToken, center, req.Distance)
	if err != nil {
		return nil, err
	}

	out := &Outcome{BatchID: id.New(), Recipients: targets.Recipients}
	if len(targets.Recipients) == 0 {
		return out, nil
	}

	subject, text := compose(&targets.Campaign)
	deliveries := s.dispatch(ctx, out.BatchID, targets, subject, text)
	for _, d := range deliveries {
		if d.Status == domain.DeliverySent {
			out.Sent++
		} else {
			out.Failed++
		}
	}

	s.settle(ctx, deliveries, &domain.BatchSummary{
		BatchID:    out.BatchID,
		CampaignID: targets.Campaign.ID,
		Center:     center,
		Distance:   req.Distance,
		Subject:    subject,
		Recipients: targets.Recipients,
		Sent:       out.Sent,
		Failed:     out.Failed,
		SettledAt:  s.now(),
	})

	if out.Failed > 0 {
		return out, fmt.Errorf("%d of %d notifications failed: %w", out.Failed, len(deliveries), domain.ErrDispatch)
	}
	return out, nil
}

// dispatch sends one message per recipient and waits for every attempt.
// A failed send never stops the others. Sends are detached from the
// caller's cancellation so a dropped client cannot cut a batch short.
func (s *service) dispatch(ctx context.Context, batchID string, targets *domain.Targets, subject, text string) []domain.Delivery {
	sendCtx := context.WithoutCancel(ctx)
	deliveries := make([]domain.Delivery, len(targets.Recipients))

	var g errgroup.Group
	g.SetLimit(s.limit)
	for i, rcpt := range targets.Recipients {
		i, rcpt := i, rcpt
		g.Go(func() error {
			err := s.send(sendCtx, domain.Message{
				From:    s.sender,
				To:      rcpt.Email,
				Subject: subject,
				Text:    text,
			})
			d := domain.Delivery{
				BatchID:    batchID,
				UserID:     rcpt.UserID,
				CampaignID: targets.Campaign.ID,
				Email:      rcpt.Email,
				Status:     domain.DeliverySent,
				CreatedAt:  s.now(),
			}
			if err != nil {
				d.Status = domain.DeliveryFailed
				d.Error = err.Error()
				slog.ErrorContext(ctx, "send notification",
					"batch_id", batchID, "campaign_id", targets.Campaign.ID, "user_id", rcpt.UserID, "err", err)
			}
			deliveries[i] = d
			return err
		})
	}
	_ = g.Wait()
	return deliveries
}

func (s *service) send(ctx context.Context, msg domain.Message) error {
	if s.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.sendTimeout)
		defer cancel()
	}
	return s.mailer.Send(ctx, msg)
}

// settle hands the batch to the optional sinks. Sink failures are logged.
func (s *service) settle(ctx context.Context, deliveries []domain.Delivery, summary *domain.BatchSummary) {
	ctx = context.WithoutCancel(ctx)
	if s.ledger != nil {
		sinkCtx, cancel := context.WithTimeout(ctx, sinkTimeout)
		if err := s.ledger.Record(sinkCtx, deliveries); err != nil {
			slog.WarnContext(ctx, "record deliveries", "batch_id", summary.BatchID, "err", err)
		}
		cancel()
	}
	if s.archive != nil {
		sinkCtx, cancel := context.WithTimeout(ctx, sinkTimeout)
		if url, err := s.archive.Put(sinkCtx, summary); err != nil {
			slog.WarnContext(ctx, "archive batch", "batch_id", summary.BatchID, "err", err)
		} else {
			summary.Manifest = url
			slog.InfoContext(ctx, "archived batch", "batch_id", summary.BatchID, "url", url)
		}
		cancel()
	}
	if s.publisher != nil {
		sinkCtx, cancel := context.WithTimeout(ctx, sinkTimeout)
		if err := s.publisher.Publish(sinkCtx, summary); err != nil {
			slog.WarnContext(ctx, "publish batch outcome", "batch_id", summary.BatchID, "err", err)
		}
		cancel()
	}
}

// ListDeliveries returns the recorded outcomes of one batch to the campaign's admin.
func (s *service) ListDeliveries(ctx context.Context, batchID string, campaignID int64, adminToken string) ([]domain.Delivery, error) {
	if s.ledger == nil {
		return nil, fmt.Errorf("delivery ledger disabled: %w", domain.ErrNotFound)
	}
	if batchID == "" || campaignID <= 0 {
		return nil, fmt.Errorf("batch id and campaign id are required: %w", domain.ErrBadRequest)
	}
	c, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if !pkgtoken.Equal(c.AdminToken, adminToken) {
		return nil, fmt.Errorf("campaign %d: %w", campaignID, domain.ErrUnauthorized)
	}

	all, err := s.ledger.List(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	deliveries := make([]domain.Delivery, 0, len(all))
	for _, d := range all {
		if d.CampaignID == campaignID {
			deliveries = append(deliveries, d)
		}
	}
	if len(all) > 0 && len(deliveries) == 0 {
		return nil, fmt.Errorf("batch %s: %w", batchID, domain.ErrNotFound)
	}
	return deliveries, nil
}

func compose(c *domain.Campaign) (subject, text string) {
	subject = fmt.Sprintf("Notification from %s: %s", c.AdminEmail, c.Name)
	text = c.Description
	if text == "" {
		text = noDescription
	}
	return subject, text
}
