// Package timetrack implements technician time tracking: the clock-in/clock-out engine, the
// adjustment ledger and the read-side aggregations.
package timetrack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"shopclock/audit"
	"shopclock/database"
	"shopclock/models"

	"github.com/google/uuid"
)

var (
	ErrAlreadyClockedIn = errors.New("technician is already clocked in")
	ErrNoActiveEntry    = errors.New("no active time entry for technician")
	ErrEntryNotFound    = errors.New("time entry not found")
	ErrInvalidReason    = errors.New("adjustment reason is required")
	ErrInvalidBreak     = errors.New("break duration must not be negative")
)

// Service owns all reads and writes of time entries and adjustments.
//
// The repository is read-modify-write over whole collections, so every mutation runs
// under mu. Reads do not take the lock and may observe an entry update whose matching
// adjustment has not been appended yet.
type Service struct {
	repo     database.Repository
	recorder audit.Recorder
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
	loc      *time.Location

	mu sync.Mutex
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone used to cut calendar days for summaries.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func New(repo database.Repository, recorder audit.Recorder, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		recorder: recorder,
		logger:   slog.Default(),
		now:      time.Now,
		newID:    uuid.NewString,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.recorder == nil {
		s.recorder = audit.Nop{}
	}
	return s
}

func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) loadEntries(ctx context.Context) ([]models.TimeEntry, error) {
	entries, err := s.repo.LoadTimeEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load time entries: %w", err)
	}
	return entries, nil
}

func (s *Service) saveEntries(ctx context.Context, entries []models.TimeEntry) error {
	if err := s.repo.SaveTimeEntries(ctx, entries); err != nil {
		return fmt.Errorf("failed to save time entries: %w", err)
	}
	return nil
}

func (s *Service) emit(action, description, actor string) {
	s.recorder.Record(audit.Event{
		Timestamp:   s.now(),
		Action:      action,
		Category:    models.CategoryTimeTracking,
		Description: description,
		ActorName:   actor,
	})
}

func findActive(entries []models.TimeEntry, technicianID string) int {
	for i := range entries {
		if entries[i].TechnicianID == technicianID && entries[i].IsActive() {
			return i
		}
	}
	return -1
}

func findByID(entries []models.TimeEntry, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}
