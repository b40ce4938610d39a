package timetrack

import (
	"context"
	"sort"
	"time"

	"shopclock/models"
	"shopclock/timecalc"
)

// WeeklySummary is one technician's finished work over a 7-day window. DailyHours always
// has one key per day in Days, zero when nothing was worked.
type WeeklySummary struct {
	TechnicianID string             `json:"technician_id"`
	WeekStart    time.Time          `json:"week_start"`
	WeekEnd      time.Time          `json:"week_end"`
	TotalHours   float64            `json:"total_hours"`
	Entries      []models.TimeEntry `json:"entries"`
	DailyHours   map[string]float64 `json:"daily_hours"`
	Days         []string           `json:"days"`
}

// EntriesForTechnician returns every entry of one technician in store order.
func (s *Service) EntriesForTechnician(ctx context.Context, technicianID string) ([]models.TimeEntry, error) {
	entries, err := s.loadEntries(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.TimeEntry{}
	for _, e := range entries {
		if e.TechnicianID == technicianID {
			out = append(out, e)
		}
	}
	return out, nil
}

// EntriesInRange returns the entries of all technicians whose clock-in falls within
// [start, end], both inclusive.
func (s *Service) EntriesInRange(ctx context.Context, start, end time.Time) ([]models.TimeEntry, error) {
	entries, err := s.loadEntries(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.TimeEntry{}
	for _, e := range entries {
		if !e.ClockInTime.Before(start) && !e.ClockInTime.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

// WeeklySummary totals the technician's non-active entries clocked in during the 7 days
// starting at weekStart's calendar day. Days are cut in the service location.
func (s *Service) WeeklySummary(ctx context.Context, technicianID string, weekStart time.Time) (*WeeklySummary, error) {
	window := timecalc.WeekWindow(weekStart.In(s.loc))

	entries, err := s.EntriesForTechnician(ctx, technicianID)
	if err != nil {
		return nil, err
	}

	summary := &WeeklySummary{
		TechnicianID: technicianID,
		WeekStart:    window.Start,
		WeekEnd:      window.End,
		Entries:      []models.TimeEntry{},
		DailyHours:   make(map[string]float64, len(window.Days)),
		Days:         window.Days,
	}
	for _, day := range window.Days {
		summary.DailyHours[day] = 0
	}

	for _, e := range entries {
		if e.IsActive() || !window.Contains(e.ClockInTime) {
			continue
		}
		summary.Entries = append(summary.Entries, e)
		summary.TotalHours += e.Hours()
		day := timecalc.DayKey(e.ClockInTime.In(s.loc))
		summary.DailyHours[day] = timecalc.RoundHours(summary.DailyHours[day] + e.Hours())
	}
	summary.TotalHours = timecalc.RoundHours(summary.TotalHours)

	sort.SliceStable(summary.Entries, func(i, j int) bool {
		return summary.Entries[i].ClockInTime.Before(summary.Entries[j].ClockInTime)
	})
	return summary, nil
}
