package kafka

import (
	"time"

	"github.com/tair/techstore/internal/product/domain"
)

// ProductChangedEvent represents a committed product mutation
type ProductChangedEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	ProductID uint            `json:"product_id"`
	ActorID   uint            `json:"actor_id"`
	Before    *domain.Product `json:"before,omitempty"`
	After     *domain.Product `json:"after,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Event types
const (
	EventTypeProductCreated = string(domain.ChangeCreated)
	EventTypeProductUpdated = string(domain.ChangeUpdated)
	EventTypeProductDeleted = string(domain.ChangeDeleted)
)

// EventTypes lists every product change event type
var EventTypes = []string{EventTypeProductCreated, EventTypeProductUpdated, EventTypeProductDeleted}

// Kafka topics
const (
	TopicProductChanges = "product-changes"
)

// NewProductChangedEvent builds the wire event for a domain change
func NewProductChangedEvent(change domain.ProductChange) ProductChangedEvent {
	return ProductChangedEvent{
		EventType: string(change.Type),
		ProductID: change.ProductID,
		ActorID:   change.ActorID,
		Before:    change.Before,
		After:     change.After,
	}
}
