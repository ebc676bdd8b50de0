package purchasing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawmart/backend/internal/domain/shared"
)

const AggregateTypePurchaseOrder = "PurchaseOrder"

const (
	EventTypePurchaseOrderCreated   = "PurchaseOrderCreated"
	EventTypePurchaseOrderConfirmed = "PurchaseOrderConfirmed"
	EventTypePurchaseOrderReceived  = "PurchaseOrderReceived"
	EventTypePurchaseOrderCancelled = "PurchaseOrderCancelled"
)

// PurchaseOrderCreatedEvent is raised when a new purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	StoreID      uuid.UUID `json:"store_id"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
		StoreID:         order.StoreID,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCreatedEvent) EventType() string {
	return EventTypePurchaseOrderCreated
}

// PurchaseOrderItemInfo represents item information carried in events
type PurchaseOrderItemInfo struct {
	ItemID           uuid.UUID       `json:"item_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	ProductSKU       string          `json:"product_sku"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Amount           decimal.Decimal `json:"amount"`
	Unit             string          `json:"unit"`
}

// PurchaseOrderConfirmedEvent is raised when a purchase order is confirmed
type PurchaseOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID               `json:"order_id"`
	OrderNumber   string                  `json:"order_number"`
	SupplierID    uuid.UUID               `json:"supplier_id"`
	SupplierName  string                  `json:"supplier_name"`
	StoreID       uuid.UUID               `json:"store_id"`
	Items         []PurchaseOrderItemInfo `json:"items"`
	TotalAmount   decimal.Decimal         `json:"total_amount"`
	PayableAmount decimal.Decimal         `json:"payable_amount"`
}

// NewPurchaseOrderConfirmedEvent creates a new PurchaseOrderConfirmedEvent
func NewPurchaseOrderConfirmedEvent(order *PurchaseOrder) *PurchaseOrderConfirmedEvent {
	items := make([]PurchaseOrderItemInfo, len(order.Items))
	for i, item := range order.Items {
		items[i] = PurchaseOrderItemInfo{
			ItemID:           item.ID,
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			ProductSKU:       item.ProductSKU,
			OrderedQuantity:  item.OrderedQuantity,
			ReceivedQuantity: item.ReceivedQuantity,
			UnitCost:         item.UnitCost,
			Amount:           item.Amount,
			Unit:             item.Unit,
		}
	}

	return &PurchaseOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderConfirmed, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
		StoreID:         order.StoreID,
		Items:           items,
		TotalAmount:     order.TotalAmount,
		PayableAmount:   order.PayableAmount,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderConfirmedEvent) EventType() string {
	return EventTypePurchaseOrderConfirmed
}

// ReceivedItemInfo describes one item line of a goods receipt
type ReceivedItemInfo struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Unit        string          `json:"unit"`
}

// PurchaseOrderReceivedEvent is raised when goods are received against an order
// Inventory listens for this event to increase stock at the destination store
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID           `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	SupplierID    uuid.UUID           `json:"supplier_id"`
	StoreID       uuid.UUID           `json:"store_id"`
	ReceivedItems []ReceivedItemInfo  `json:"received_items"`
	NewStatus     PurchaseOrderStatus `json:"new_status"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder, receivedItems []ReceivedItemInfo) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		StoreID:         order.StoreID,
		ReceivedItems:   receivedItems,
		NewStatus:       order.Status,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderReceivedEvent) EventType() string {
	return EventTypePurchaseOrderReceived
}

// PurchaseOrderCancelledEvent is raised when a purchase order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Reason      string    `json:"reason"`
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		Reason:          order.CancelReason,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCancelledEvent) EventType() string {
	return EventTypePurchaseOrderCancelled
}
