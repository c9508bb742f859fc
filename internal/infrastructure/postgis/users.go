package postgis

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-geonotify/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgForeignKeyViolation is the SQLSTATE for foreign_key_violation.
const pgForeignKeyViolation = "23503"

const userColumns = `
  id,
  email,
  token,
  ST_X(location::geometry) AS lng,
  ST_Y(location::geometry) AS lat,
  zoom,
  campaign AS campaign_id`

const createUserQuery = `
INSERT INTO users (email, token, location, zoom, campaign)
VALUES (?::VARCHAR(255), ?::VARCHAR(32), ST_MakePoint(?, ?)::GEOGRAPHY, ?::SMALLINT, ?::INTEGER)
RETURNING` + userColumns

const getUserQuery = `
SELECT` + userColumns + `
  FROM users
 WHERE id = ?
   AND token = ?
 LIMIT 1`

const updateUserQuery = `
UPDATE users
   SET email = ?::VARCHAR(255),
       location = ST_MakePoint(?, ?)::GEOGRAPHY,
       zoom = ?::SMALLINT
 WHERE id = ?::INTEGER
   AND token = ?::VARCHAR(32)
RETURNING` + userColumns

const deleteUserQuery = `
DELETE FROM users
 WHERE id = ?
   AND token = ?`

type userRow struct {
	ID         int64
	Email      string
	Token      string
	Lng        float64
	Lat        float64
	Zoom       int
	CampaignID int64
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:         r.ID,
		Email:      r.Email,
		Token:      r.Token,
		Location:   domain.Point{Lng: r.Lng, Lat: r.Lat},
		Zoom:       r.Zoom,
		CampaignID: r.CampaignID,
	}
}

// CreateUser inserts u and fills in its store-assigned id. A campaign id that
// does not exist yields domain.ErrNotFound.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	var row userRow
	err := s.conn(ctx).Raw(createUserQuery,
		u.Email, u.Token, u.Location.Lng, u.Location.Lat, u.Zoom, u.CampaignID,
	).Scan(&row).Error
	if isForeignKeyViolation(err) {
		return fmt.Errorf("campaign not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	*u = *row.toDomain()
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64, token string) (*domain.User, error) {
	var row userRow
	tx := s.conn(ctx).Raw(getUserQuery, id, token).Scan(&row)
	if tx.Error != nil {
		return nil, fmt.Errorf("select user: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return row.toDomain(), nil
}

func (s *Store) UpdateUser(ctx context.Context, id int64, req domain.UpdateUserRequest) (*domain.User, error) {
	var row userRow
	tx := s.conn(ctx).Raw(updateUserQuery,
		req.Email, req.Location.Lng, req.Location.Lat, req.Zoom, id, req.Token,
	).Scan(&row)
	if tx.Error != nil {
		return nil, fmt.Errorf("update user: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return row.toDomain(), nil
}

// DeleteUser removes the subscription when token matches and reports whether
// a row was removed.
func (s *Store) DeleteUser(ctx context.Context, id int64, token string) (bool, error) {
	tx := s.conn(ctx).Exec(deleteUserQuery, id, token)
	if tx.Error != nil {
		return false, fmt.Errorf("delete user: %w", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

// Raw queries surface the driver error untranslated, so both forms are checked.
func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
