package models

import "time"

const CategoryTimeTracking = "Time Tracking"

// ActivityLog is a persisted audit event. It is a side record and is never read back to
// rebuild time entries.
type ActivityLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Timestamp   time.Time `gorm:"not null;index" json:"timestamp"`
	Action      string    `gorm:"not null;size:50" json:"action"`
	Category    string    `gorm:"not null;size:50" json:"category"`
	Description string    `gorm:"type:text" json:"description"`
	ActorName   string    `gorm:"size:200" json:"actor_name"`
}
