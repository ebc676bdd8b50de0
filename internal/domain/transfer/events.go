package transfer

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawmart/backend/internal/domain/shared"
)

const AggregateTypeTransferRequest = "TransferRequest"

const (
	EventTypeTransferRequested = "TransferRequested"
	EventTypeTransferApproved  = "TransferApproved"
	EventTypeTransferCompleted = "TransferCompleted"
	EventTypeTransferRejected  = "TransferRejected"
	EventTypeTransferCancelled = "TransferCancelled"
)

// TransferItemInfo represents item information carried in events
type TransferItemInfo struct {
	ItemID            uuid.UUID       `json:"item_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	ProductSKU        string          `json:"product_sku"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	ApprovedQuantity  decimal.Decimal `json:"approved_quantity"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	Unit              string          `json:"unit"`
}

func itemInfos(t *TransferRequest) []TransferItemInfo {
	items := make([]TransferItemInfo, len(t.Items))
	for i, item := range t.Items {
		items[i] = TransferItemInfo{
			ItemID:            item.ID,
			ProductID:         item.ProductID,
			ProductName:       item.ProductName,
			ProductSKU:        item.ProductSKU,
			RequestedQuantity: item.RequestedQuantity,
			ApprovedQuantity:  item.ApprovedQuantity,
			ReceivedQuantity:  item.ReceivedQuantity,
			Unit:              item.Unit,
		}
	}
	return items
}

// TransferRequestedEvent is raised when a new transfer request is created
type TransferRequestedEvent struct {
	shared.BaseDomainEvent
	TransferID     uuid.UUID `json:"transfer_id"`
	TransferNumber string    `json:"transfer_number"`
	SourceStoreID  uuid.UUID `json:"source_store_id"`
	DestStoreID    uuid.UUID `json:"dest_store_id"`
	RequestedBy    uuid.UUID `json:"requested_by"`
}

// NewTransferRequestedEvent creates a new TransferRequestedEvent
func NewTransferRequestedEvent(t *TransferRequest) *TransferRequestedEvent {
	return &TransferRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferRequested, AggregateTypeTransferRequest, t.ID),
		TransferID:      t.ID,
		TransferNumber:  t.TransferNumber,
		SourceStoreID:   t.SourceStoreID,
		DestStoreID:     t.DestStoreID,
		RequestedBy:     t.RequestedBy,
	}
}

// EventType returns the event type name
func (e *TransferRequestedEvent) EventType() string {
	return EventTypeTransferRequested
}

// TransferApprovedEvent is raised when a transfer request is approved
// Inventory listens for this event to reserve stock at the source store
type TransferApprovedEvent struct {
	shared.BaseDomainEvent
	TransferID     uuid.UUID          `json:"transfer_id"`
	TransferNumber string             `json:"transfer_number"`
	SourceStoreID  uuid.UUID          `json:"source_store_id"`
	DestStoreID    uuid.UUID          `json:"dest_store_id"`
	ApprovedBy     uuid.UUID          `json:"approved_by"`
	Items          []TransferItemInfo `json:"items"`
}

// NewTransferApprovedEvent creates a new TransferApprovedEvent
func NewTransferApprovedEvent(t *TransferRequest) *TransferApprovedEvent {
	var approvedBy uuid.UUID
	if t.ApprovedBy != nil {
		approvedBy = *t.ApprovedBy
	}
	return &TransferApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferApproved, AggregateTypeTransferRequest, t.ID),
		TransferID:      t.ID,
		TransferNumber:  t.TransferNumber,
		SourceStoreID:   t.SourceStoreID,
		DestStoreID:     t.DestStoreID,
		ApprovedBy:      approvedBy,
		Items:           itemInfos(t),
	}
}

// EventType returns the event type name
func (e *TransferApprovedEvent) EventType() string {
	return EventTypeTransferApproved
}

// TransferCompletedEvent is raised when an approved transfer has been executed
type TransferCompletedEvent struct {
	shared.BaseDomainEvent
	TransferID     uuid.UUID          `json:"transfer_id"`
	TransferNumber string             `json:"transfer_number"`
	SourceStoreID  uuid.UUID          `json:"source_store_id"`
	DestStoreID    uuid.UUID          `json:"dest_store_id"`
	Items          []TransferItemInfo `json:"items"`
}

// NewTransferCompletedEvent creates a new TransferCompletedEvent
func NewTransferCompletedEvent(t *TransferRequest) *TransferCompletedEvent {
	return &TransferCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCompleted, AggregateTypeTransferRequest, t.ID),
		TransferID:      t.ID,
		TransferNumber:  t.TransferNumber,
		SourceStoreID:   t.SourceStoreID,
		DestStoreID:     t.DestStoreID,
		Items:           itemInfos(t),
	}
}

// EventType returns the event type name
func (e *TransferCompletedEvent) EventType() string {
	return EventTypeTransferCompleted
}

// TransferRejectedEvent is raised when a pending transfer request is rejected
type TransferRejectedEvent struct {
	shared.BaseDomainEvent
	TransferID     uuid.UUID `json:"transfer_id"`
	TransferNumber string    `json:"transfer_number"`
	Reason         string    `json:"reason"`
}

// NewTransferRejectedEvent creates a new TransferRejectedEvent
func NewTransferRejectedEvent(t *TransferRequest) *TransferRejectedEvent {
	return &TransferRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferRejected, AggregateTypeTransferRequest, t.ID),
		TransferID:      t.ID,
		TransferNumber:  t.TransferNumber,
		Reason:          t.RejectReason,
	}
}

// EventType returns the event type name
func (e *TransferRejectedEvent) EventType() string {
	return EventTypeTransferRejected
}

// TransferCancelledEvent is raised when an approved transfer is cancelled
// Inventory listens for this event to release the reservation at the source store
type TransferCancelledEvent struct {
	shared.BaseDomainEvent
	TransferID     uuid.UUID          `json:"transfer_id"`
	TransferNumber string             `json:"transfer_number"`
	SourceStoreID  uuid.UUID          `json:"source_store_id"`
	Items          []TransferItemInfo `json:"items"`
	Reason         string             `json:"reason"`
}

// NewTransferCancelledEvent creates a new TransferCancelledEvent
func NewTransferCancelledEvent(t *TransferRequest) *TransferCancelledEvent {
	return &TransferCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCancelled, AggregateTypeTransferRequest, t.ID),
		TransferID:      t.ID,
		TransferNumber:  t.TransferNumber,
		SourceStoreID:   t.SourceStoreID,
		Items:           itemInfos(t),
		Reason:          t.CancelReason,
	}
}

// EventType returns the event type name
func (e *TransferCancelledEvent) EventType() string {
	return EventTypeTransferCancelled
}
