package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-geonotify/internal/domain"
)

const userColumns = `id, email, token, lng, lat, zoom, campaign`

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.Token, &u.Location.Lng, &u.Location.Lat, &u.Zoom, &u.CampaignID); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts u and fills in its store-assigned id. A campaign id that
// does not exist yields domain.ErrNotFound.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	row := s.sqlDB.QueryRowContext(ctx, `
INSERT INTO users (email, token, lng, lat, zoom, campaign)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING `+userColumns,
		u.Email, u.Token, u.Location.Lng, u.Location.Lat, u.Zoom, u.CampaignID)
	created, err := scanUser(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("campaign not found: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	*u = *created
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64, token string) (*domain.User, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ? AND token = ? LIMIT 1`, id, token)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id int64, req domain.UpdateUserRequest) (*domain.User, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
UPDATE users
   SET email = ?, lng = ?, lat = ?, zoom = ?
 WHERE id = ?
   AND token = ?
RETURNING `+userColumns,
		req.Email, req.Location.Lng, req.Location.Lat, req.Zoom, id, req.Token)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// DeleteUser removes the subscription when token matches and reports whether
// a row was removed.
func (s *Store) DeleteUser(ctx context.Context, id int64, token string) (bool, error) {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM users WHERE id = ? AND token = ?`, id, token)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return n > 0, nil
}
