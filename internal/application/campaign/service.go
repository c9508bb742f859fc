package campaign

import (
	"context"
	"fmt"

	"github.com/go-geonotify/internal/domain"
	pkgtoken "github.com/go-geonotify/internal/pkg/token"
	"github.com/go-geonotify/internal/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, in domain.CampaignInput) (*domain.Campaign, error)
	Get(ctx context.Context, id int64, adminToken string) (*domain.Campaign, error)
	Update(ctx context.Context, id int64, adminToken string, in domain.CampaignInput) (*domain.Campaign, error)
}

type campaignStore interface {
	CreateCampaign(ctx context.Context, c *domain.Campaign) error
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
	UpdateCampaign(ctx context.Context, id int64, adminToken string, in domain.CampaignInput) (*domain.Campaign, error)
}

type service struct {
	repo     campaignStore
	newToken func() (string, error)
}

type ServiceDeps struct {
	CampaignRepo campaignStore
	// NewToken mints admin tokens. Defaults to token.New.
	NewToken func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	newToken := deps.NewToken
	if newToken == nil {
		newToken = pkgtoken.New
	}
	return &service{repo: deps.CampaignRepo, newToken: newToken}
}

// Create stores a new campaign with a freshly minted admin token. The
// returned campaign is the only place the token is ever handed out unasked.
func (s *service) Create(ctx context.Context, in domain.CampaignInput) (*domain.Campaign, error) {
	if err := validate.Struct(&in); err != nil {
		return nil, err
	}
	tok, err := s.newToken()
	if err != nil {
		return nil, fmt.Errorf("mint admin token: %w", err)
	}
	c := &domain.Campaign{
		Name:        in.Name,
		Description: in.Description,
		AdminEmail:  in.AdminEmail,
		AdminToken:  tok,
		Center:      *in.Center,
		Zoom:        in.Zoom,
	}
	if err := s.repo.CreateCampaign(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get is public. The admin token is included only when adminToken matches it.
func (s *service) Get(ctx context.Context, id int64, adminToken string) (*domain.Campaign, error) {
	c, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if !pkgtoken.Equal(c.AdminToken, adminToken) {
		c.AdminToken = ""
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, id int64, adminToken string, in domain.CampaignInput) (*domain.Campaign, error) {
	if err := validate.Struct(&in); err != nil {
		return nil, err
	}
	if adminToken == "" {
		return nil, fmt.Errorf("admin token required: %w", domain.ErrUnauthorized)
	}
	return s.repo.UpdateCampaign(ctx, id, adminToken, in)
}
