package models

import "time"

// TimeAdjustment is one correction to a TimeEntry. Both the previous and the new value of
// every correctable field are stored, even when unchanged.
type TimeAdjustment struct {
	ID                    string     `gorm:"primaryKey;size:36" json:"id"`
	TimeEntryID           string     `gorm:"not null;size:36;index" json:"time_entry_id"`
	AdjustedBy            string     `gorm:"not null;size:200" json:"adjusted_by"`
	PreviousClockIn       time.Time  `gorm:"not null" json:"previous_clock_in"`
	NewClockIn            time.Time  `gorm:"not null" json:"new_clock_in"`
	PreviousClockOut      *time.Time `json:"previous_clock_out,omitempty"`
	NewClockOut           *time.Time `json:"new_clock_out,omitempty"`
	PreviousBreakDuration int        `gorm:"not null" json:"previous_break_duration"`
	NewBreakDuration      int        `gorm:"not null" json:"new_break_duration"`
	Reason                string     `gorm:"not null;type:text" json:"reason"`
	Timestamp             time.Time  `gorm:"not null;index" json:"timestamp"`
}

func (a *TimeAdjustment) ClockInChanged() bool {
	return !a.PreviousClockIn.Equal(a.NewClockIn)
}

func (a *TimeAdjustment) ClockOutChanged() bool {
	if a.PreviousClockOut == nil || a.NewClockOut == nil {
		return a.PreviousClockOut != a.NewClockOut
	}
	return !a.PreviousClockOut.Equal(*a.NewClockOut)
}

func (a *TimeAdjustment) BreakChanged() bool {
	return a.PreviousBreakDuration != a.NewBreakDuration
}

func (a TimeAdjustment) Clone() TimeAdjustment {
	if a.PreviousClockOut != nil {
		t := *a.PreviousClockOut
		a.PreviousClockOut = &t
	}
	if a.NewClockOut != nil {
		t := *a.NewClockOut
		a.NewClockOut = &t
	}
	return a
}
