package subscription

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-geonotify/internal/domain"
	pkgtoken "github.com/go-geonotify/internal/pkg/token"
	"github.com/go-geonotify/internal/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	Get(ctx context.Context, id int64, token string) (*domain.User, error)
	Update(ctx context.Context, id int64, req domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, id int64, token string) error
}

type userStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id int64, token string) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, req domain.UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64, token string) (bool, error)
}

type service struct {
	repo     userStore
	newToken func() (string, error)
}

type ServiceDeps struct {
	UserRepo userStore
	// NewToken mints subscription tokens. Defaults to token.New.
	NewToken func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	newToken := deps.NewToken
	if newToken == nil {
		newToken = pkgtoken.New
	}
	return &service{repo: deps.UserRepo, newToken: newToken}
}

func (s *service) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, err
	}
	tok, err := s.newToken()
	if err != nil {
		return nil, fmt.Errorf("mint user token: %w", err)
	}
	u := &domain.User{
		Email:      req.Email,
		Token:      tok,
		Location:   *req.Location,
		Zoom:       req.Zoom,
		CampaignID: req.CampaignID,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Get returns the subscription only to the holder of its token. Any
// mismatch is reported as not found.
func (s *service) Get(ctx context.Context, id int64, token string) (*domain.User, error) {
	if token == "" {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return s.repo.GetUser(ctx, id, token)
}

func (s *service) Update(ctx context.Context, id int64, req domain.UpdateUserRequest) (*domain.User, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, err
	}
	return s.repo.UpdateUser(ctx, id, req)
}

// Delete removes the subscription when token matches. A mismatch is a
// silent no-op.
func (s *service) Delete(ctx context.Context, id int64, token string) error {
	if token == "" {
		return nil
	}
	deleted, err := s.repo.DeleteUser(ctx, id, token)
	if err != nil {
		return err
	}
	if !deleted {
		slog.DebugContext(ctx, "delete user: no matching subscription", "user_id", id)
	}
	return nil
}
