package postgis

import (
	"context"
	"fmt"
	"strings"
)

var extensionStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS postgis`,
	`CREATE EXTENSION IF NOT EXISTS fuzzystrmatch`,
	`CREATE EXTENSION IF NOT EXISTS postgis_tiger_geocoder`,
	`CREATE EXTENSION IF NOT EXISTS postgis_topology`,
}

// Managed RDS instances only let rds_superuser own the geocoder schemas.
var rdsOwnershipStatements = []string{
	`ALTER SCHEMA tiger OWNER TO rds_superuser`,
	`ALTER SCHEMA tiger_data OWNER TO rds_superuser`,
	`ALTER SCHEMA topology OWNER TO rds_superuser`,
	`DO $$
DECLARE r record;
BEGIN
  FOR r IN
    SELECT n.nspname, c.relname
      FROM pg_class c JOIN pg_namespace n ON c.relnamespace = n.oid
     WHERE n.nspname IN ('tiger', 'topology')
       AND c.relkind IN ('r', 'S', 'v')
     ORDER BY c.relkind = 'S'
  LOOP
    EXECUTE format('ALTER TABLE %I.%I OWNER TO rds_superuser', r.nspname, r.relname);
  END LOOP;
END $$`,
}

var tableStatements = []string{
	`DROP TABLE IF EXISTS users`,
	`DROP TABLE IF EXISTS campaigns`,
	`CREATE TABLE campaigns (
  id SERIAL PRIMARY KEY,
  name VARCHAR(255) NOT NULL,
  description TEXT,
  admin_email VARCHAR(255) NOT NULL,
  admin_token VARCHAR(32) NOT NULL,
  center GEOGRAPHY NOT NULL,
  zoom SMALLINT NOT NULL
)`,
	`CREATE TABLE users (
  id SERIAL PRIMARY KEY,
  email VARCHAR(255) NOT NULL,
  token VARCHAR(32) NOT NULL,
  location GEOGRAPHY NOT NULL,
  zoom SMALLINT NOT NULL,
  campaign INTEGER NOT NULL REFERENCES campaigns (id)
)`,
	`CREATE INDEX users_location_idx ON users USING GIST (location)`,
	`CREATE INDEX users_campaign_idx ON users (campaign)`,
}

// SetupExtensions enables PostGIS and its companion extensions. With rds set,
// ownership of the geocoder and topology schemas is handed to rds_superuser.
func (s *Store) SetupExtensions(ctx context.Context, rds bool) error {
	stmts := extensionStatements
	if rds {
		stmts = append(append([]string{}, extensionStatements...), rdsOwnershipStatements...)
	}
	return s.execTx(ctx, stmts)
}

// CreateTables drops and recreates the campaigns and users tables. All
// existing data is lost.
func (s *Store) CreateTables(ctx context.Context) error {
	return s.execTx(ctx, tableStatements)
}

func (s *Store) execTx(ctx context.Context, stmts []string) error {
	tx := s.conn(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin: %w", tx.Error)
	}
	for _, stmt := range stmts {
		if err := tx.Exec(stmt).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
