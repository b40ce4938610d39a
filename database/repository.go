package database

import (
	"context"

	"shopclock/models"
)

// Repository is the persistent store behind time tracking. Every call moves the whole
// collection: callers load everything, mutate in memory and save everything back.
// Entries and adjustments are never deleted, so Save only inserts or overwrites by ID.
type Repository interface {
	LoadTimeEntries(ctx context.Context) ([]models.TimeEntry, error)
	SaveTimeEntries(ctx context.Context, entries []models.TimeEntry) error
	LoadAdjustments(ctx context.Context) ([]models.TimeAdjustment, error)
	SaveAdjustments(ctx context.Context, adjustments []models.TimeAdjustment) error
	Close() error
}
