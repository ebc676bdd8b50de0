package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawmart/backend/internal/domain/shared"
)

const AggregateTypeSalesTransaction = "SalesTransaction"

const (
	EventTypeSaleCompleted = "SaleCompleted"
	EventTypeSaleVoided    = "SaleVoided"
)

// SalesItemInfo represents item information carried in events
type SalesItemInfo struct {
	ItemID      uuid.UUID       `json:"item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	Unit        string          `json:"unit"`
}

func salesItemInfos(t *SalesTransaction) []SalesItemInfo {
	items := make([]SalesItemInfo, len(t.Items))
	for i, item := range t.Items {
		items[i] = SalesItemInfo{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
			Unit:        item.Unit,
		}
	}
	return items
}

// SaleCompletedEvent is raised when a sale is rung up
// Inventory listens for this event to deduct stock at the selling store
// and the customer module listens to award loyalty points
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	InvoiceNumber string          `json:"invoice_number"`
	StoreID       uuid.UUID       `json:"store_id"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	CashierID     uuid.UUID       `json:"cashier_id"`
	Items         []SalesItemInfo `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
}

// NewSaleCompletedEvent creates a new SaleCompletedEvent
func NewSaleCompletedEvent(t *SalesTransaction) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, AggregateTypeSalesTransaction, t.ID),
		TransactionID:   t.ID,
		InvoiceNumber:   t.InvoiceNumber,
		StoreID:         t.StoreID,
		CustomerID:      t.CustomerID,
		CashierID:       t.CashierID,
		Items:           salesItemInfos(t),
		TotalAmount:     t.TotalAmount,
		PaymentMethod:   t.PaymentMethod,
	}
}

// EventType returns the event type name
func (e *SaleCompletedEvent) EventType() string {
	return EventTypeSaleCompleted
}

// SaleVoidedEvent is raised when a completed sale is voided
// Inventory restores the deducted stock and loyalty points are reversed
type SaleVoidedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	InvoiceNumber string          `json:"invoice_number"`
	StoreID       uuid.UUID       `json:"store_id"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	Items         []SalesItemInfo `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Reason        string          `json:"reason"`
}

// NewSaleVoidedEvent creates a new SaleVoidedEvent
func NewSaleVoidedEvent(t *SalesTransaction) *SaleVoidedEvent {
	return &SaleVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleVoided, AggregateTypeSalesTransaction, t.ID),
		TransactionID:   t.ID,
		InvoiceNumber:   t.InvoiceNumber,
		StoreID:         t.StoreID,
		CustomerID:      t.CustomerID,
		Items:           salesItemInfos(t),
		TotalAmount:     t.TotalAmount,
		Reason:          t.VoidReason,
	}
}

// EventType returns the event type name
func (e *SaleVoidedEvent) EventType() string {
	return EventTypeSaleVoided
}
