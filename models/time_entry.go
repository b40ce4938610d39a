package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type EntryStatus string

const (
	StatusActive    EntryStatus = "active"
	StatusCompleted EntryStatus = "completed"
	StatusAdjusted  EntryStatus = "adjusted"
)

// TimeEntry is one technician work session, opened by clock-in and closed by clock-out.
// TotalHours is only set once ClockOutTime is.
type TimeEntry struct {
	ID                   string      `gorm:"primaryKey;size:36" json:"id"`
	TechnicianID         string      `gorm:"not null;size:100;index;index:idx_one_active_per_technician,unique,where:status = 'active'" json:"technician_id"`
	TechnicianName       string      `gorm:"size:200" json:"technician_name"`
	ClockInTime          time.Time   `gorm:"not null;index" json:"clock_in_time"`
	ClockOutTime         *time.Time  `json:"clock_out_time,omitempty"`
	BreakDurationMinutes int         `gorm:"not null;default:0" json:"break_duration_minutes"`
	TotalHours           *float64    `json:"total_hours,omitempty"`
	Status               EntryStatus `gorm:"not null;size:20;index" json:"status"`
	Notes                string      `gorm:"type:text" json:"notes"`
	AssociatedRepairIDs  RepairIDs   `gorm:"type:text" json:"associated_repair_ids,omitempty"`
	CreatedAt            time.Time   `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt            time.Time   `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (e *TimeEntry) IsActive() bool {
	return e.Status == StatusActive
}

// Hours returns TotalHours, or 0 while the entry has none.
func (e *TimeEntry) Hours() float64 {
	if e.TotalHours == nil {
		return 0
	}
	return *e.TotalHours
}

// Clone returns a copy that shares no pointers or slices with e.
func (e TimeEntry) Clone() TimeEntry {
	if e.ClockOutTime != nil {
		out := *e.ClockOutTime
		e.ClockOutTime = &out
	}
	if e.TotalHours != nil {
		h := *e.TotalHours
		e.TotalHours = &h
	}
	if e.AssociatedRepairIDs != nil {
		e.AssociatedRepairIDs = append(RepairIDs(nil), e.AssociatedRepairIDs...)
	}
	return e
}

// RepairIDs is the set of work orders a session was spent on. It is stored as a JSON array
// in a text column.
type RepairIDs []string

func (r RepairIDs) Value() (driver.Value, error) {
	if len(r) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(r))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *RepairIDs) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*r = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("repair ids: unsupported column type %T", src)
	}
	if len(data) == 0 {
		*r = nil
		return nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("repair ids: %w", err)
	}
	if len(ids) == 0 {
		*r = nil
		return nil
	}
	*r = ids
	return nil
}
