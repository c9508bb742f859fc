// Package sqlite provides an embedded SQLite-backed location store. Distances
// are computed by a registered geo_distance(lng1, lat1, lng2, lat2) function.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-geonotify/internal/pkg/geo"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const schema = `
CREATE TABLE IF NOT EXISTS campaigns (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT,
  admin_email TEXT NOT NULL,
  admin_token TEXT NOT NULL,
  lng REAL NOT NULL,
  lat REAL NOT NULL,
  zoom INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  email TEXT NOT NULL,
  token TEXT NOT NULL,
  lng REAL NOT NULL,
  lat REAL NOT NULL,
  zoom INTEGER NOT NULL,
  campaign INTEGER NOT NULL REFERENCES campaigns (id)
);
CREATE INDEX IF NOT EXISTS users_campaign_idx ON users (campaign);
`

func init() {
	if err := msqlite.RegisterDeterministicScalarFunction("geo_distance", 4, geoDistance); err != nil {
		panic(fmt.Sprintf("register geo_distance: %v", err))
	}
}

func geoDistance(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	var v [4]float64
	for i, a := range args {
		switch x := a.(type) {
		case float64:
			v[i] = x
		case int64:
			v[i] = float64(x)
		case nil:
			return nil, nil
		default:
			return nil, fmt.Errorf("geo_distance: argument %d has type %T", i, a)
		}
	}
	return geo.Distance(v[0], v[1], v[2], v[3]), nil
}

// Store persists campaigns and subscriptions in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite has a single writer; one connection keeps pragmas and
	// transactions on the same handle.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SetupExtensions is a no-op: SQLite needs no spatial extension.
func (s *Store) SetupExtensions(context.Context, bool) error {
	return nil
}

// CreateTables drops and recreates both tables. All existing data is lost.
func (s *Store) CreateTables(ctx context.Context) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS users; DROP TABLE IF EXISTS campaigns;`); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return tx.Commit()
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}
