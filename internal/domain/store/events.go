package store

import (
	"github.com/pawmart/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeStore = "Store"
)

// Store domain event types
const (
	EventTypeStoreCreated     = "StoreCreated"
	EventTypeStoreDeactivated = "StoreDeactivated"
)

// StoreCreatedEvent is published when a store is created
type StoreCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// NewStoreCreatedEvent creates a new StoreCreatedEvent
func NewStoreCreatedEvent(s *Store) *StoreCreatedEvent {
	return &StoreCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreCreated, AggregateTypeStore, s.ID),
		Code:            s.Code,
		Name:            s.Name,
		Type:            s.Type,
	}
}

// StoreDeactivatedEvent is published when a store is deactivated
type StoreDeactivatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewStoreDeactivatedEvent creates a new StoreDeactivatedEvent
func NewStoreDeactivatedEvent(s *Store) *StoreDeactivatedEvent {
	return &StoreDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreDeactivated, AggregateTypeStore, s.ID),
		Code:            s.Code,
	}
}
