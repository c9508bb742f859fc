package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-geonotify/internal/domain"
)

const campaignColumns = `id, name, COALESCE(description, ''), admin_email, admin_token, lng, lat, zoom`

type scanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row scanner) (*domain.Campaign, error) {
	var c domain.Campaign
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.AdminEmail, &c.AdminToken, &c.Center.Lng, &c.Center.Lat, &c.Zoom)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCampaign inserts c and fills in its store-assigned id.
func (s *Store) CreateCampaign(ctx context.Context, c *domain.Campaign) error {
	row := s.sqlDB.QueryRowContext(ctx, `
INSERT INTO campaigns (name, description, admin_email, admin_token, lng, lat, zoom)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING `+campaignColumns,
		c.Name, c.Description, c.AdminEmail, c.AdminToken, c.Center.Lng, c.Center.Lat, c.Zoom)
	created, err := scanCampaign(row)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	*c = *created
	return nil
}

func (s *Store) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = ?`, id)
	c, err := scanCampaign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("campaign not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select campaign: %w", err)
	}
	return c, nil
}

// UpdateCampaign applies in only when adminToken matches the stored token.
func (s *Store) UpdateCampaign(ctx context.Context, id int64, adminToken string, in domain.CampaignInput) (*domain.Campaign, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
UPDATE campaigns
   SET name = ?, description = ?, admin_email = ?, lng = ?, lat = ?, zoom = ?
 WHERE id = ?
   AND admin_token = ?
RETURNING `+campaignColumns,
		in.Name, in.Description, in.AdminEmail, in.Center.Lng, in.Center.Lat, in.Zoom, id, adminToken)
	c, err := scanCampaign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("campaign %d: %w", id, domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("update campaign: %w", err)
	}
	return c, nil
}

// FindTargets returns the subscribers of campaignID strictly closer than
// radius meters to center. No rows at all means the campaign/token pair did
// not match.
func (s *Store) FindTargets(ctx context.Context, campaignID int64, adminToken string, center domain.Point, radius float64) (*domain.Targets, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT c.id, c.name, COALESCE(c.description, ''), c.admin_email, c.admin_token, c.lng, c.lat, c.zoom,
       u.id, u.email
  FROM campaigns c
  LEFT JOIN users u
    ON u.campaign = c.id
   AND geo_distance(u.lng, u.lat, ?, ?) < ?
 WHERE c.id = ?
   AND c.admin_token = ?
 ORDER BY u.id`,
		center.Lng, center.Lat, radius, campaignID, adminToken)
	if err != nil {
		return nil, fmt.Errorf("select targets: %w", err)
	}
	defer rows.Close()

	var t *domain.Targets
	for rows.Next() {
		var (
			c      domain.Campaign
			userID sql.NullInt64
			email  sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.AdminEmail, &c.AdminToken,
			&c.Center.Lng, &c.Center.Lat, &c.Zoom, &userID, &email); err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		if t == nil {
			t = &domain.Targets{Campaign: c, Recipients: []domain.Target{}}
		}
		if userID.Valid {
			t.Recipients = append(t.Recipients, domain.Target{UserID: userID.Int64, Email: email.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate targets: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("campaign %d: %w", campaignID, domain.ErrUnauthorized)
	}
	return t, nil
}
