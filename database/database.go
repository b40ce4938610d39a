package database

import (
	"context"
	"fmt"
	"log/slog"

	"shopclock/config"
	"shopclock/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const saveBatchSize = 200

// Open returns the Repository selected by cfg.DatabaseDriver.
func Open(cfg *config.Config) (Repository, error) {
	switch cfg.DatabaseDriver {
	case config.DriverMemory:
		return NewMemoryRepository(), nil
	case config.DriverPostgres:
		return NewGormRepository(cfg.DatabaseURL, cfg.LogLevel)
	case config.DriverSQLite:
		return NewSQLiteRepository(cfg.DatabaseURL)
	case config.DriverBolt:
		return NewBoltRepository(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}

// GormRepository stores time entries and adjustments in Postgres through gorm.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(dsn, logLevel string) (*GormRepository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(logLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Auto migrate the schema
	err = db.AutoMigrate(&models.TimeEntry{}, &models.TimeAdjustment{}, &models.ActivityLog{})
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	slog.Info("postgres time store ready")
	return &GormRepository{db: db}, nil
}

// DB exposes the connection so the activity log can share it.
func (r *GormRepository) DB() *gorm.DB {
	return r.db
}

func (r *GormRepository) LoadTimeEntries(ctx context.Context) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	if err := r.db.WithContext(ctx).Order("clock_in_time asc, id asc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load time entries: %w", err)
	}
	return entries, nil
}

func (r *GormRepository) SaveTimeEntries(ctx context.Context, entries []models.TimeEntry) error {
	if len(entries) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(&entries, saveBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("save time entries: %w", err)
	}
	return nil
}

func (r *GormRepository) LoadAdjustments(ctx context.Context) ([]models.TimeAdjustment, error) {
	var adjustments []models.TimeAdjustment
	if err := r.db.WithContext(ctx).Order(`"timestamp" asc, id asc`).Find(&adjustments).Error; err != nil {
		return nil, fmt.Errorf("load adjustments: %w", err)
	}
	return adjustments, nil
}

// SaveAdjustments inserts adjustments not yet stored. Existing rows are left untouched,
// the ledger is append-only.
func (r *GormRepository) SaveAdjustments(ctx context.Context, adjustments []models.TimeAdjustment) error {
	if len(adjustments) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&adjustments, saveBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("save adjustments: %w", err)
	}
	return nil
}

func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "info", "warn":
		return logger.Warn
	default:
		return logger.Error
	}
}
