package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"shopclock/models"
	"shopclock/timecalc"
	"shopclock/timetrack"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const displayLayout = "2006-01-02 15:04"

var (
	colorPrimary = lipgloss.Color("#6C63FF")
	colorMuted   = lipgloss.Color("#666666")
	colorSuccess = lipgloss.Color("#2ECC71")
	colorWarning = lipgloss.Color("#F39C12")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	totalStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	return t.In(loc).Format(displayLayout)
}

func formatHours(h *float64) string {
	if h == nil {
		return "-"
	}
	return strconv.FormatFloat(*h, 'f', 2, 64)
}

func renderEntry(w io.Writer, e *models.TimeEntry, loc *time.Location) {
	status := string(e.Status)
	if e.IsActive() {
		status = activeStyle.Render(status)
	}
	fmt.Fprintf(w, "%s %s\n", titleStyle.Render(e.TechnicianName), mutedStyle.Render(e.ID))
	fmt.Fprintf(w, "  status:    %s\n", status)
	fmt.Fprintf(w, "  clock in:  %s\n", formatTime(&e.ClockInTime, loc))
	fmt.Fprintf(w, "  clock out: %s\n", formatTime(e.ClockOutTime, loc))
	fmt.Fprintf(w, "  break:     %d min\n", e.BreakDurationMinutes)
	fmt.Fprintf(w, "  hours:     %s\n", formatHours(e.TotalHours))
	if e.Notes != "" {
		fmt.Fprintf(w, "  notes:     %s\n", e.Notes)
	}
	if len(e.AssociatedRepairIDs) > 0 {
		fmt.Fprintf(w, "  repairs:   %v\n", []string(e.AssociatedRepairIDs))
	}
}

func renderEntries(w io.Writer, entries []models.TimeEntry, loc *time.Location) {
	if len(entries) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No entries."))
		return
	}
	t := newTable("ID", "Technician", "Clock in", "Clock out", "Break", "Hours", "Status", "Notes")
	for i := range entries {
		e := &entries[i]
		t.Row(
			e.ID,
			e.TechnicianName,
			formatTime(&e.ClockInTime, loc),
			formatTime(e.ClockOutTime, loc),
			strconv.Itoa(e.BreakDurationMinutes),
			formatHours(e.TotalHours),
			string(e.Status),
			e.Notes,
		)
	}
	fmt.Fprintln(w, t)
}

func renderWeeklySummary(w io.Writer, s *timetrack.WeeklySummary, loc *time.Location) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Week of %s to %s, technician %s",
		timecalc.DayKey(s.WeekStart), timecalc.DayKey(s.WeekEnd), s.TechnicianID)))

	days := newTable("Day", "Hours")
	for _, d := range s.Days {
		day := d
		if t, err := timecalc.ParseDay(d, loc); err == nil {
			day = t.Format("Mon 2006-01-02")
		}
		days.Row(day, strconv.FormatFloat(s.DailyHours[d], 'f', 2, 64))
	}
	fmt.Fprintln(w, days)
	fmt.Fprintf(w, "Total: %s\n", totalStyle.Render(strconv.FormatFloat(s.TotalHours, 'f', 2, 64)))

	if len(s.Entries) > 0 {
		fmt.Fprintln(w)
		renderEntries(w, s.Entries, loc)
	}
}

func renderAdjustments(w io.Writer, adjustments []models.TimeAdjustment, loc *time.Location) {
	if len(adjustments) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No adjustments."))
		return
	}
	t := newTable("When", "By", "Clock in", "Clock out", "Break", "Reason")
	for i := range adjustments {
		a := &adjustments[i]
		t.Row(
			formatTime(&a.Timestamp, loc),
			a.AdjustedBy,
			change(formatTime(&a.PreviousClockIn, loc), formatTime(&a.NewClockIn, loc)),
			change(formatTime(a.PreviousClockOut, loc), formatTime(a.NewClockOut, loc)),
			change(strconv.Itoa(a.PreviousBreakDuration), strconv.Itoa(a.NewBreakDuration)),
			a.Reason,
		)
	}
	fmt.Fprintln(w, t)
}

func change(before, after string) string {
	if before == after {
		return after
	}
	return before + " -> " + after
}
