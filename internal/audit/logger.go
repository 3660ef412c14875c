package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

// Writer persists one audit event.
type Writer interface {
	Write(ctx context.Context, ev Event) error
}

// Logger writes events to the audit_logs table.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Write(ctx context.Context, ev Event) error {
	entry, err := toEntry(ev)
	if err != nil {
		return err
	}
	return l.db.WithContext(ctx).Create(&entry).Error
}

func toEntry(ev Event) (models.AuditLog, error) {
	entry := models.AuditLog{
		UserID:   ev.UserID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
	}

	if ev.Metadata != nil {
		b, err := json.Marshal(ev.Metadata)
		if err != nil {
			return entry, fmt.Errorf("audit metadata for %s: %w", ev.Action, err)
		}
		entry.Metadata = string(b)
	}

	return entry, nil
}

var _ Writer = (*Logger)(nil)
