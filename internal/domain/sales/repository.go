package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawmart/backend/internal/domain/shared"
)

// SalesRepository defines the interface for sales transaction persistence
type SalesRepository interface {
	// Create persists a new sales transaction with its items
	Create(ctx context.Context, txn *SalesTransaction) error

	// Update saves an existing transaction with optimistic lock check
	Update(ctx context.Context, txn *SalesTransaction) error

	// FindByID finds a transaction by ID with its items loaded
	FindByID(ctx context.Context, id uuid.UUID) (*SalesTransaction, error)

	// FindByInvoiceNumber finds a transaction by its invoice number
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*SalesTransaction, error)

	// FindAll finds transactions matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]*SalesTransaction, int64, error)

	// FindByStore finds transactions for a store within a time range
	FindByStore(ctx context.Context, storeID uuid.UUID, from, to time.Time, filter shared.Filter) ([]*SalesTransaction, int64, error)

	// FindByCustomer finds transactions for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]*SalesTransaction, int64, error)

	// NextInvoiceNumber allocates the next invoice number for the store and time
	// The counter row is locked for the duration of the surrounding transaction
	NextInvoiceNumber(ctx context.Context, storeID uuid.UUID, storeCode string, at time.Time) (string, error)

	// StoreSummary aggregates completed sales for a store within a time range
	StoreSummary(ctx context.Context, storeID uuid.UUID, from, to time.Time) (*StoreSalesSummary, error)

	// AppendAction records an audit entry for a transaction
	AppendAction(ctx context.Context, action *SalesAction) error

	// FindActions returns the audit trail for a transaction, oldest first
	FindActions(ctx context.Context, transactionID uuid.UUID) ([]*SalesAction, error)
}

// StoreSalesSummary is a read model of a store's sales over a period
type StoreSalesSummary struct {
	StoreID          uuid.UUID       `json:"store_id"`
	From             time.Time       `json:"from"`
	To               time.Time       `json:"to"`
	TransactionCount int64           `json:"transaction_count"`
	VoidedCount      int64           `json:"voided_count"`
	GrossSales       decimal.Decimal `json:"gross_sales"`
	TotalDiscount    decimal.Decimal `json:"total_discount"`
	TotalTax         decimal.Decimal `json:"total_tax"`
	NetSales         decimal.Decimal `json:"net_sales"`
}
