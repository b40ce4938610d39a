package audit

import (
	"context"
	"log/slog"

	"shopclock/models"

	"gorm.io/gorm"
)

// SlogSink writes each event as a structured log line.
type SlogSink struct {
	Logger *slog.Logger
}

func (s SlogSink) Write(ctx context.Context, e Event) error {
	s.Logger.InfoContext(ctx, e.Description,
		"activity", e.Action,
		"category", e.Category,
		"actor", e.ActorName,
		"at", e.Timestamp,
	)
	return nil
}

// GormSink persists events to the activity_logs table.
type GormSink struct {
	DB *gorm.DB
}

func (s GormSink) Write(ctx context.Context, e Event) error {
	row := models.ActivityLog{
		Timestamp:   e.Timestamp,
		Action:      e.Action,
		Category:    e.Category,
		Description: e.Description,
		ActorName:   e.ActorName,
	}
	return s.DB.WithContext(ctx).Create(&row).Error
}
