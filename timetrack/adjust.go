package timetrack

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"shopclock/audit"
	"shopclock/models"
	"shopclock/timecalc"
)

// AdjustmentInput lists the corrections to apply. Nil fields keep the entry's value; an
// empty Notes adds nothing.
type AdjustmentInput struct {
	ClockInTime  *time.Time
	ClockOutTime *time.Time
	BreakMinutes *int
	Notes        string
}

// Adjust corrects an entry and appends a ledger record holding the values before and
// after. Any entry may be adjusted, including one that is still active; afterwards its
// status is always adjusted.
func (s *Service) Adjust(ctx context.Context, entryID, adjustedBy string, in AdjustmentInput, reason string) (*models.TimeEntry, *models.TimeAdjustment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, nil, ErrInvalidReason
	}
	if in.BreakMinutes != nil && *in.BreakMinutes < 0 {
		return nil, nil, ErrInvalidBreak
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadEntries(ctx)
	if err != nil {
		return nil, nil, err
	}
	idx := findByID(entries, entryID)
	if idx < 0 {
		return nil, nil, ErrEntryNotFound
	}
	adjustments, err := s.repo.LoadAdjustments(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load adjustments: %w", err)
	}

	now := s.now()
	entry := entries[idx].Clone()

	adj := models.TimeAdjustment{
		ID:                    s.newID(),
		TimeEntryID:           entry.ID,
		AdjustedBy:            adjustedBy,
		PreviousClockIn:       entry.ClockInTime,
		NewClockIn:            entry.ClockInTime,
		PreviousClockOut:      copyTime(entry.ClockOutTime),
		NewClockOut:           copyTime(entry.ClockOutTime),
		PreviousBreakDuration: entry.BreakDurationMinutes,
		NewBreakDuration:      entry.BreakDurationMinutes,
		Reason:                reason,
		Timestamp:             now,
	}
	if in.ClockInTime != nil {
		adj.NewClockIn = *in.ClockInTime
	}
	if in.ClockOutTime != nil {
		adj.NewClockOut = copyTime(in.ClockOutTime)
	}
	if in.BreakMinutes != nil {
		adj.NewBreakDuration = *in.BreakMinutes
	}

	entry.ClockInTime = adj.NewClockIn
	entry.ClockOutTime = copyTime(adj.NewClockOut)
	entry.BreakDurationMinutes = adj.NewBreakDuration
	if note := strings.TrimSpace(in.Notes); note != "" {
		entry.Notes = strings.TrimSpace(entry.Notes + " [ADJUSTED: " + note + "]")
	}
	entry.Status = models.StatusAdjusted
	if entry.ClockOutTime != nil {
		hours := timecalc.ComputeHours(entry.ClockInTime, *entry.ClockOutTime, entry.BreakDurationMinutes)
		entry.TotalHours = &hours
	} else {
		entry.TotalHours = nil
	}
	entry.UpdatedAt = now

	entries[idx] = entry
	if err := s.saveEntries(ctx, entries); err != nil {
		return nil, nil, err
	}
	// The entry is already corrected at this point; a failure here leaves it without its
	// ledger record and is reported to the caller.
	adjustments = append(adjustments, adj)
	if err := s.repo.SaveAdjustments(ctx, adjustments); err != nil {
		return nil, nil, fmt.Errorf("failed to save adjustment: %w", err)
	}

	s.logger.Info("time entry adjusted", "entry_id", entry.ID, "technician_id", entry.TechnicianID, "adjusted_by", adjustedBy)
	s.emit(audit.ActionAdjusted,
		fmt.Sprintf("Adjusted time entry for %s by %s: %s", entry.TechnicianName, adjustedBy, reason),
		adjustedBy)

	return &entry, &adj, nil
}

// AdjustmentsForEntry returns the ledger for one entry, oldest first.
func (s *Service) AdjustmentsForEntry(ctx context.Context, entryID string) ([]models.TimeAdjustment, error) {
	all, err := s.repo.LoadAdjustments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load adjustments: %w", err)
	}
	out := []models.TimeAdjustment{}
	for _, a := range all {
		if a.TimeEntryID == entryID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
