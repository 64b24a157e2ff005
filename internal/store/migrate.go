package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// urlRow describes the urls table for schema migration.
type urlRow struct {
	Target     string    `gorm:"primaryKey;size:2048"`
	Tiny       string    `gorm:"size:32;not null;uniqueIndex"`
	Created    time.Time `gorm:"not null"`
	UsageCount int64     `gorm:"not null;default:0;check:usage_count >= 0"`
}

func (urlRow) TableName() string {
	return "urls"
}

// Migrate creates or updates the urls table in the database at dsn.
func Migrate(ctx context.Context, dsn string) error {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("postgres: open gorm connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("postgres: retrieve sql db: %w", err)
	}
	defer sqlDB.Close()

	if err := db.WithContext(ctx).AutoMigrate(&urlRow{}); err != nil {
		return fmt.Errorf("postgres: auto migrate: %w", err)
	}

	return nil
}
