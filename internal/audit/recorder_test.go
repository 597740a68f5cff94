package audit

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tair/techstore/internal/product/domain"
	"github.com/tair/techstore/kafka"
	"github.com/tair/techstore/pkg/database"
)

func newRecorder(t *testing.T) *Recorder {
	t.Helper()
	db, err := database.NewSQLiteConnection(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	r := NewRecorder(db)
	if err := r.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return r
}

func TestRecordProductChanges(t *testing.T) {
	r := newRecorder(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	events := []kafka.ProductChangedEvent{
		{EventID: "e1", EventType: kafka.EventTypeProductCreated, ProductID: 4, ActorID: 1,
			After: &domain.Product{ID: 4, Name: "Kettle", Price: 1299}, Timestamp: base},
		{EventID: "e2", EventType: kafka.EventTypeProductUpdated, ProductID: 4, ActorID: 1,
			Before: &domain.Product{ID: 4, Price: 1299}, After: &domain.Product{ID: 4, Price: 999}, Timestamp: base.Add(time.Minute)},
		{EventID: "e3", EventType: kafka.EventTypeProductDeleted, ProductID: 4,
			Before: &domain.Product{ID: 4, Price: 999}, Timestamp: base.Add(2 * time.Minute)},
	}
	for _, e := range events {
		if err := r.Record(ctx, e); err != nil {
			t.Fatalf("record %s: %v", e.EventID, err)
		}
	}
	if err := r.Record(ctx, events[1]); err != nil {
		t.Fatalf("redelivery should be ignored, got %v", err)
	}

	entries, err := r.ListForRecord(ctx, 4, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	want := []string{ActionDelete, ActionUpdate, ActionInsert}
	for i, e := range entries {
		if e.ActionType != want[i] {
			t.Errorf("entry %d: expected %s, got %s", i, want[i], e.ActionType)
		}
	}
	if entries[0].UserID != nil || entries[0].NewValues != "" {
		t.Errorf("delete entry: unexpected %+v", entries[0])
	}
	if entries[1].UserID == nil || *entries[1].UserID != 1 || !strings.Contains(entries[1].NewValues, `"price":999`) {
		t.Errorf("update entry: unexpected %+v", entries[1])
	}
	if entries[2].OldValues != "" {
		t.Errorf("insert entry should have no old values: %q", entries[2].OldValues)
	}
}

func TestRecordRejectsUnknownType(t *testing.T) {
	r := newRecorder(t)
	err := r.Record(context.Background(), kafka.ProductChangedEvent{EventID: "x", EventType: "product.archived"})
	if err == nil {
		t.Error("expected an error for an unknown event type")
	}
}
