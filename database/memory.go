package database

import (
	"context"
	"sync"

	"shopclock/models"
)

// MemoryRepository keeps both collections in process memory. Values are copied on the way
// in and out so callers can never alias stored state.
type MemoryRepository struct {
	mu          sync.RWMutex
	entries     []models.TimeEntry
	adjustments []models.TimeAdjustment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) LoadTimeEntries(ctx context.Context) ([]models.TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneEntries(m.entries), nil
}

func (m *MemoryRepository) SaveTimeEntries(ctx context.Context, entries []models.TimeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = cloneEntries(entries)
	return nil
}

func (m *MemoryRepository) LoadAdjustments(ctx context.Context) ([]models.TimeAdjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneAdjustments(m.adjustments), nil
}

func (m *MemoryRepository) SaveAdjustments(ctx context.Context, adjustments []models.TimeAdjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adjustments = cloneAdjustments(adjustments)
	return nil
}

func (m *MemoryRepository) Close() error {
	return nil
}

func cloneEntries(in []models.TimeEntry) []models.TimeEntry {
	if in == nil {
		return nil
	}
	out := make([]models.TimeEntry, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}

func cloneAdjustments(in []models.TimeAdjustment) []models.TimeAdjustment {
	if in == nil {
		return nil
	}
	out := make([]models.TimeAdjustment, len(in))
	for i, a := range in {
		out[i] = a.Clone()
	}
	return out
}
