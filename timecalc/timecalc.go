// Package timecalc holds the pure time arithmetic behind time tracking: worked-hour
// computation and the calendar windows used for summaries.
package timecalc

import (
	"math"
	"time"

	"github.com/jinzhu/now"
)

const DayKeyLayout = "2006-01-02"

// ComputeHours returns the hours worked between clockIn and clockOut minus breakMinutes,
// rounded half-up to 2 decimals. A break longer than the span yields a negative result;
// callers get it unclamped.
func ComputeHours(clockIn, clockOut time.Time, breakMinutes int) float64 {
	worked := clockOut.Sub(clockIn).Hours() - float64(breakMinutes)/60
	return RoundHours(worked)
}

// RoundHours rounds h half-up at the 2nd decimal.
func RoundHours(h float64) float64 {
	return math.Floor(h*100+0.5) / 100
}

func StartOfDay(t time.Time) time.Time {
	return now.With(t).BeginningOfDay()
}

// EndOfDay returns the last nanosecond of t's day.
func EndOfDay(t time.Time) time.Time {
	return now.With(t).EndOfDay()
}

// StartOfWeek returns midnight of the most recent weekStart day on or before t.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	cfg := &now.Config{WeekStartDay: weekStart, TimeLocation: t.Location()}
	return cfg.With(t).BeginningOfWeek()
}

func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ParseDay parses a YYYY-MM-DD key as midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DayKeyLayout, s, loc)
}

// Window is a run of whole calendar days.
type Window struct {
	Start time.Time
	End   time.Time
	Days  []string
}

// Contains reports whether t falls inside the window, both ends inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// WeekWindow returns the 7 calendar days beginning on weekStart's day, in weekStart's
// location.
func WeekWindow(weekStart time.Time) Window {
	start := StartOfDay(weekStart)
	days := make([]string, 7)
	for i := range days {
		days[i] = DayKey(start.AddDate(0, 0, i))
	}
	return Window{
		Start: start,
		End:   EndOfDay(start.AddDate(0, 0, 6)),
		Days:  days,
	}
}
