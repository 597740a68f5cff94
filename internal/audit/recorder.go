// Package audit keeps the audit log of product changes. Entries are written
// from the product change events consumed off Kafka.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/techstore/kafka"
	"github.com/tair/techstore/pkg/logger"
)

// Action types stored in AuditLogEntry.ActionType
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// AuditLogEntry is one row of the audit log
type AuditLogEntry struct {
	ID         uint      `json:"log_id" gorm:"column:log_id;primaryKey"`
	EventID    string    `json:"event_id" gorm:"size:64;uniqueIndex"`
	UserID     *uint     `json:"user_id" gorm:"index"`
	ActionType string    `json:"action_type" gorm:"size:16;not null"`
	Table      string    `json:"table_name" gorm:"column:table_name;size:64;not null"`
	RecordID   uint      `json:"record_id" gorm:"not null;index"`
	OldValues  string    `json:"old_values,omitempty" gorm:"type:text"`
	NewValues  string    `json:"new_values,omitempty" gorm:"type:text"`
	Timestamp  time.Time `json:"timestamp" gorm:"not null;index"`
}

// TableName specifies the table name
func (AuditLogEntry) TableName() string {
	return "audit_logs"
}

// Recorder writes audit entries with gorm
type Recorder struct {
	db *gorm.DB
}

// NewRecorder creates a new recorder
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// AutoMigrate creates the audit table
func (r *Recorder) AutoMigrate() error {
	return r.db.AutoMigrate(&AuditLogEntry{})
}

// Subscribe registers the recorder for every product change event type
func (r *Recorder) Subscribe(consumer *kafka.Consumer) {
	for _, eventType := range kafka.EventTypes {
		consumer.RegisterHandler(eventType, r.Record)
	}
}

// Record stores one event. Redelivered events with a known id are ignored.
func (r *Recorder) Record(ctx context.Context, event kafka.ProductChangedEvent) error {
	entry, err := entryFor(event)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(entry)
	if result.Error != nil {
		return fmt.Errorf("failed to record audit entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		logger.Debug(ctx).Str("event_id", event.EventID).Msg("Duplicate audit event ignored")
	}
	return nil
}

// ListForRecord returns the newest entries of one product first
func (r *Recorder) ListForRecord(ctx context.Context, recordID uint, limit int) ([]AuditLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	entries := []AuditLogEntry{}
	err := r.db.WithContext(ctx).
		Where("table_name = ? AND record_id = ?", "products", recordID).
		Order("timestamp DESC, log_id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

func entryFor(event kafka.ProductChangedEvent) (*AuditLogEntry, error) {
	var action string
	switch event.EventType {
	case kafka.EventTypeProductCreated:
		action = ActionInsert
	case kafka.EventTypeProductUpdated:
		action = ActionUpdate
	case kafka.EventTypeProductDeleted:
		action = ActionDelete
	default:
		return nil, fmt.Errorf("unsupported event type %q", event.EventType)
	}

	entry := &AuditLogEntry{
		EventID:    event.EventID,
		ActionType: action,
		Table:      "products",
		RecordID:   event.ProductID,
		Timestamp:  event.Timestamp,
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if event.ActorID != 0 {
		actor := event.ActorID
		entry.UserID = &actor
	}

	var err error
	if entry.OldValues, err = encode(event.Before); err != nil {
		return nil, err
	}
	if entry.NewValues, err = encode(event.After); err != nil {
		return nil, err
	}
	return entry, nil
}

func encode(v interface{}) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode audit values: %w", err)
	}
	if string(b) == "null" {
		return "", nil
	}
	return string(b), nil
}
