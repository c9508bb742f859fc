package postgis

import (
	"context"
	"fmt"

	"github.com/go-geonotify/internal/domain"
)

const campaignColumns = `
  id,
  name,
  COALESCE(description, '') AS description,
  admin_email,
  admin_token,
  ST_X(center::geometry) AS lng,
  ST_Y(center::geometry) AS lat,
  zoom`

const createCampaignQuery = `
INSERT INTO campaigns (name, description, admin_email, admin_token, center, zoom)
VALUES (?::VARCHAR(255), ?::TEXT, ?::VARCHAR(255), ?::VARCHAR(32), ST_MakePoint(?, ?)::GEOGRAPHY, ?::SMALLINT)
RETURNING` + campaignColumns

const getCampaignQuery = `
SELECT` + campaignColumns + `
  FROM campaigns
 WHERE id = ?`

const updateCampaignQuery = `
UPDATE campaigns SET
  name = ?::VARCHAR(255),
  description = ?::TEXT,
  admin_email = ?::VARCHAR(255),
  center = ST_MakePoint(?, ?)::GEOGRAPHY,
  zoom = ?::SMALLINT
 WHERE id = ?
   AND admin_token = ?
RETURNING` + campaignColumns

// A campaign row that matches id and token always comes back, joined to
// zero or more in-range users, so an empty result means the token was wrong.
const findTargetsQuery = `
SELECT
  c.id,
  c.name,
  COALESCE(c.description, '') AS description,
  c.admin_email,
  c.admin_token,
  ST_X(c.center::geometry) AS lng,
  ST_Y(c.center::geometry) AS lat,
  c.zoom,
  u.id AS user_id,
  u.email AS user_email
  FROM campaigns c
  LEFT JOIN users u
    ON u.campaign = c.id
   AND ST_Distance(u.location, ST_MakePoint(?, ?)::GEOGRAPHY) < ?
 WHERE c.id = ?
   AND c.admin_token = ?
 ORDER BY u.id`

type campaignRow struct {
	ID          int64
	Name        string
	Description string
	AdminEmail  string
	AdminToken  string
	Lng         float64
	Lat         float64
	Zoom        int
}

func (r campaignRow) toDomain() *domain.Campaign {
	return &domain.Campaign{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		AdminEmail:  r.AdminEmail,
		AdminToken:  r.AdminToken,
		Center:      domain.Point{Lng: r.Lng, Lat: r.Lat},
		Zoom:        r.Zoom,
	}
}

// targetRow is one campaign/user pair of the proximity join. The user
// columns are null when nobody is in range.
type targetRow struct {
	ID          int64
	Name        string
	Description string
	AdminEmail  string
	AdminToken  string
	Lng         float64
	Lat         float64
	Zoom        int
	UserID      *int64
	UserEmail   *string
}

func (r targetRow) campaign() campaignRow {
	return campaignRow{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		AdminEmail:  r.AdminEmail,
		AdminToken:  r.AdminToken,
		Lng:         r.Lng,
		Lat:         r.Lat,
		Zoom:        r.Zoom,
	}
}

// CreateCampaign inserts c and fills in its store-assigned id.
func (s *Store) CreateCampaign(ctx context.Context, c *domain.Campaign) error {
	var row campaignRow
	err := s.conn(ctx).Raw(createCampaignQuery,
		c.Name, c.Description, c.AdminEmail, c.AdminToken, c.Center.Lng, c.Center.Lat, c.Zoom,
	).Scan(&row).Error
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	*c = *row.toDomain()
	return nil
}

func (s *Store) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	var row campaignRow
	tx := s.conn(ctx).Raw(getCampaignQuery, id).Scan(&row)
	if tx.Error != nil {
		return nil, fmt.Errorf("select campaign: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, fmt.Errorf("campaign not found: %w", domain.ErrNotFound)
	}
	return row.toDomain(), nil
}

// UpdateCampaign applies in only when adminToken matches the stored token.
func (s *Store) UpdateCampaign(ctx context.Context, id int64, adminToken string, in domain.CampaignInput) (*domain.Campaign, error) {
	var row campaignRow
	tx := s.conn(ctx).Raw(updateCampaignQuery,
		in.Name, in.Description, in.AdminEmail, in.Center.Lng, in.Center.Lat, in.Zoom, id, adminToken,
	).Scan(&row)
	if tx.Error != nil {
		return nil, fmt.Errorf("update campaign: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, fmt.Errorf("campaign %d: %w", id, domain.ErrUnauthorized)
	}
	return row.toDomain(), nil
}

// FindTargets returns the subscribers of campaignID strictly closer than
// radius meters to center, measured on the geography spheroid.
func (s *Store) FindTargets(ctx context.Context, campaignID int64, adminToken string, center domain.Point, radius float64) (*domain.Targets, error) {
	var rows []targetRow
	err := s.conn(ctx).Raw(findTargetsQuery,
		center.Lng, center.Lat, radius, campaignID, adminToken,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("select targets: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("campaign %d: %w", campaignID, domain.ErrUnauthorized)
	}
	t := &domain.Targets{Campaign: *rows[0].campaign().toDomain(), Recipients: []domain.Target{}}
	for _, r := range rows {
		if r.UserID == nil {
			continue
		}
		t.Recipients = append(t.Recipients, domain.Target{UserID: *r.UserID, Email: *r.UserEmail})
	}
	return t, nil
}
