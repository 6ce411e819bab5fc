// Package storage persists the connection audit trail in SQLite via GORM.
// Vessel state itself is deliberately memory-only; only operational history
// survives a restart.
package storage

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/cyberport/seatrack/internal/core/domain"
	"github.com/cyberport/seatrack/internal/core/ports"
)

// SQLiteAdapter implements ports.AuditRepository using GORM and SQLite.
type SQLiteAdapter struct {
	db *gorm.DB
}

var _ ports.AuditRepository = (*SQLiteAdapter)(nil)

// NewSQLiteAdapter opens the database, migrates the schema and attaches
// query tracing.
func NewSQLiteAdapter(path string) (*SQLiteAdapter, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("attach tracing plugin: %w", err)
	}

	if err := db.AutoMigrate(&domain.ConnectionEvent{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &SQLiteAdapter{db: db}, nil
}

func (a *SQLiteAdapter) SaveEvent(ctx context.Context, e domain.ConnectionEvent) error {
	return a.db.WithContext(ctx).Create(&e).Error
}

// RecentEvents returns up to limit events, newest first.
func (a *SQLiteAdapter) RecentEvents(ctx context.Context, limit int) ([]domain.ConnectionEvent, error) {
	var events []domain.ConnectionEvent
	err := a.db.WithContext(ctx).
		Order("timestamp desc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Close releases the underlying connection pool.
func (a *SQLiteAdapter) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
