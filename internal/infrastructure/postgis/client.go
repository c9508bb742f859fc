// Package postgis implements the location store on PostgreSQL with the
// PostGIS geography type.
package postgis

import (
	"context"
	"fmt"

	"github.com/go-geonotify/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store provides campaign and subscription persistence over a single
// explicitly constructed connection pool.
type Store struct {
	db *gorm.DB
}

// Open connects to cfg.StoreURL and sizes the pool from cfg. The pool is
// verified with a ping bounded by cfg.StoreConnectTimeout.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	db, err := gorm.Open(postgres.Open(cfg.StoreURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.StoreMaxConns)
	sqlDB.SetMaxIdleConns(cfg.StoreMaxConns)
	sqlDB.SetConnMaxIdleTime(cfg.StoreIdleTimeout)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreConnectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return New(db), nil
}

// New wraps an existing GORM handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Close releases the pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}
