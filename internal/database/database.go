// Package database opens the product store and prepares its schema and sample data.
package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"inventory/internal/config"
	"inventory/internal/logger"
	"inventory/internal/models"
	"inventory/internal/repositories"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the database selected by cfg.DBDriver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseDSN)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("driver %q has no database", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.DBDriver, err)
	}
	return db, nil
}

// Migrate creates or updates the products table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// SampleProducts returns the fixed demo records in insertion order.
func SampleProducts() []models.Product {
	return []models.Product{
		{
			Name:        "Intro to Automated Testing",
			Category:    models.CategoryBooks,
			Price:       3200,
			Stock:       5,
			Description: "Learn the basics of automated testing.",
			Status:      models.StatusPublished,
		},
		{
			Name:        "Debug Mastery",
			Category:    models.CategoryBooks,
			Price:       2800,
			Stock:       0,
			Description: "A debugging handbook for developers and QA.",
			Status:      models.StatusUnpublished,
		},
		{
			Name:        "Test Automation Training Kit",
			Category:    models.CategoryAppliances,
			Price:       58000,
			Stock:       12,
			Description: "A lab device ready for Selenium.",
			Status:      models.StatusPreparing,
		},
		{
			Name:        "Focus Snack Bar",
			Category:    models.CategoryFood,
			Price:       380,
			Stock:       9,
			Description: "The perfect snack before a test run.",
			Status:      models.StatusPublished,
		},
	}
}

// Seed stores the sample products when repo is empty and returns how many were added.
func Seed(ctx context.Context, repo repositories.ProductRepository) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	samples := SampleProducts()
	for i := range samples {
		if err := repo.Create(ctx, &samples[i]); err != nil {
			return i, fmt.Errorf("failed to seed product %q: %w", samples[i].Name, err)
		}
	}
	logger.InfoContext(ctx, "seeded sample products", "count", len(samples))
	return len(samples), nil
}

// Initialize migrates the schema and seeds an empty store.
func Initialize(ctx context.Context, db *gorm.DB) error {
	if err := Migrate(db); err != nil {
		return err
	}
	_, err := Seed(ctx, repositories.NewGORMProductRepository(db))
	return err
}

// Reset discards every stored product and reinitializes the store. For sqlite
// the database file is removed before reopening; for postgres the table is dropped.
func Reset(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	if cfg.DBDriver == config.DriverSQLite {
		if err := removeSQLiteFile(cfg.DatabaseDSN); err != nil {
			return nil, err
		}
	}

	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver == config.DriverPostgres {
		if err := db.Migrator().DropTable(&models.Product{}); err != nil {
			return nil, fmt.Errorf("failed to drop products table: %w", err)
		}
	}
	if err := Initialize(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

// removeSQLiteFile deletes the file behind a plain sqlite path DSN. URI and
// in-memory DSNs are left alone.
func removeSQLiteFile(dsn string) error {
	if dsn == "" || strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, ":memory:") {
		return nil
	}
	path := dsn
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove database file %s: %w", path, err)
	}
	return nil
}
