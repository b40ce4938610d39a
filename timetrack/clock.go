package timetrack

import (
	"context"
	"fmt"
	"strings"

	"shopclock/audit"
	"shopclock/models"
	"shopclock/timecalc"
)

// ClockOutInput carries the optional values supplied at clock-out. A nil BreakMinutes
// keeps the break already recorded on the entry.
type ClockOutInput struct {
	BreakMinutes *int
	Notes        string
	RepairIDs    []string
}

// ClockIn opens a new active entry for the technician. It fails with ErrAlreadyClockedIn,
// leaving the store untouched, when one is already open.
func (s *Service) ClockIn(ctx context.Context, technicianID, technicianName, notes string) (*models.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadEntries(ctx)
	if err != nil {
		return nil, err
	}
	if findActive(entries, technicianID) >= 0 {
		return nil, ErrAlreadyClockedIn
	}

	now := s.now()
	entry := models.TimeEntry{
		ID:                   s.newID(),
		TechnicianID:         technicianID,
		TechnicianName:       technicianName,
		ClockInTime:          now,
		BreakDurationMinutes: 0,
		Status:               models.StatusActive,
		Notes:                strings.TrimSpace(notes),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	entries = append(entries, entry)
	if err := s.saveEntries(ctx, entries); err != nil {
		return nil, err
	}

	s.logger.Info("technician clocked in", "technician_id", technicianID, "entry_id", entry.ID)
	s.emit(audit.ActionClockIn,
		fmt.Sprintf("%s clocked in at %s", technicianName, now.In(s.loc).Format("15:04")),
		technicianName)

	return &entry, nil
}

// ClockOut closes the technician's active entry and computes its worked hours.
func (s *Service) ClockOut(ctx context.Context, technicianID, technicianName string, in ClockOutInput) (*models.TimeEntry, error) {
	if in.BreakMinutes != nil && *in.BreakMinutes < 0 {
		return nil, ErrInvalidBreak
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadEntries(ctx)
	if err != nil {
		return nil, err
	}
	idx := findActive(entries, technicianID)
	if idx < 0 {
		return nil, ErrNoActiveEntry
	}

	now := s.now()
	entry := entries[idx]
	entry.ClockOutTime = &now
	if in.BreakMinutes != nil {
		entry.BreakDurationMinutes = *in.BreakMinutes
	}
	entry.Notes = appendNotes(entry.Notes, in.Notes)
	if len(in.RepairIDs) > 0 {
		entry.AssociatedRepairIDs = append(models.RepairIDs(nil), in.RepairIDs...)
	}
	hours := timecalc.ComputeHours(entry.ClockInTime, now, entry.BreakDurationMinutes)
	entry.TotalHours = &hours
	entry.Status = models.StatusCompleted
	entry.UpdatedAt = now

	entries[idx] = entry
	if err := s.saveEntries(ctx, entries); err != nil {
		return nil, err
	}

	s.logger.Info("technician clocked out", "technician_id", technicianID, "entry_id", entry.ID, "hours", hours)
	s.emit(audit.ActionClockOut,
		fmt.Sprintf("%s clocked out after %.2f hours", technicianName, hours),
		technicianName)

	return &entry, nil
}

// ActiveEntry returns the technician's open entry, or nil when not clocked in.
func (s *Service) ActiveEntry(ctx context.Context, technicianID string) (*models.TimeEntry, error) {
	entries, err := s.loadEntries(ctx)
	if err != nil {
		return nil, err
	}
	idx := findActive(entries, technicianID)
	if idx < 0 {
		return nil, nil
	}
	return &entries[idx], nil
}

// appendNotes joins extra onto existing with a single space.
func appendNotes(existing, extra string) string {
	extra = strings.TrimSpace(extra)
	if extra == "" {
		return existing
	}
	return strings.TrimSpace(existing + " " + extra)
}
