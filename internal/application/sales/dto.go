package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawmart/backend/internal/domain/sales"
)

// CheckoutRequest represents a point of sale checkout
type CheckoutRequest struct {
	StoreID       uuid.UUID             `json:"store_id" binding:"required"`
	CustomerID    *uuid.UUID            `json:"customer_id,omitempty"`
	Items         []CheckoutItemRequest `json:"items" binding:"required,min=1"`
	Discount      decimal.Decimal       `json:"discount"`
	Tax           decimal.Decimal       `json:"tax"`
	PaymentMethod string                `json:"payment_method" binding:"required,oneof=cash card transfer"`
	PaidAmount    decimal.Decimal       `json:"paid_amount" binding:"required"`
	Remark        string                `json:"remark,omitempty" binding:"max=500"`
}

// CheckoutItemRequest represents one line of a checkout
// UnitPrice overrides the product selling price when set
type CheckoutItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// VoidRequest represents the request to void a completed transaction
type VoidRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// SalesItemResponse represents a line item in responses
type SalesItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// TransactionResponse represents a sales transaction in API responses
type TransactionResponse struct {
	ID             uuid.UUID           `json:"id"`
	InvoiceNumber  string              `json:"invoice_number"`
	StoreID        uuid.UUID           `json:"store_id"`
	CustomerID     *uuid.UUID          `json:"customer_id,omitempty"`
	CashierID      uuid.UUID           `json:"cashier_id"`
	Items          []SalesItemResponse `json:"items"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	TaxAmount      decimal.Decimal     `json:"tax_amount"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	PaymentMethod  string              `json:"payment_method"`
	PaidAmount     decimal.Decimal     `json:"paid_amount"`
	ChangeAmount   decimal.Decimal     `json:"change_amount"`
	Status         string              `json:"status"`
	SoldAt         time.Time           `json:"sold_at"`
	VoidedAt       *time.Time          `json:"voided_at,omitempty"`
	VoidedBy       *uuid.UUID          `json:"voided_by,omitempty"`
	VoidReason     string              `json:"void_reason,omitempty"`
	Remark         string              `json:"remark,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	Version        int                 `json:"version"`
}

// TransactionListItemResponse is the slim shape used in list endpoints
type TransactionListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	StoreID       uuid.UUID       `json:"store_id"`
	CustomerID    *uuid.UUID      `json:"customer_id,omitempty"`
	ItemCount     int             `json:"item_count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	SoldAt        time.Time       `json:"sold_at"`
}

// TransactionListFilter represents filtering options for listing transactions
type TransactionListFilter struct {
	Search        string     `form:"search"`
	StoreID       *uuid.UUID `form:"store_id"`
	CustomerID    *uuid.UUID `form:"customer_id"`
	CashierID     *uuid.UUID `form:"cashier_id"`
	Status        string     `form:"status"`
	PaymentMethod string     `form:"payment_method"`
	From          string     `form:"from"`
	To            string     `form:"to"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir"`
}

// StoreSummaryResponse aggregates completed sales for a store over a period
type StoreSummaryResponse struct {
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

// ActionResponse represents an audit trail entry for a transaction
type ActionResponse struct {
	ID        uuid.UUID `json:"id"`
	Action    string    `json:"action"`
	ActorID   uuid.UUID `json:"actor_id"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToSalesItemResponse converts a domain line item to a response DTO
func ToSalesItemResponse(item *sales.SalesItem) SalesItemResponse {
	return SalesItemResponse{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		ProductSKU:  item.ProductSKU,
		Unit:        item.Unit,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		Amount:      item.Amount,
	}
}

// ToTransactionResponse converts a domain transaction to a response DTO
func ToTransactionResponse(txn *sales.SalesTransaction) TransactionResponse {
	items := make([]SalesItemResponse, len(txn.Items))
	for i := range txn.Items {
		items[i] = ToSalesItemResponse(&txn.Items[i])
	}

	return TransactionResponse{
		ID:             txn.ID,
		InvoiceNumber:  txn.InvoiceNumber,
		StoreID:        txn.StoreID,
		CustomerID:     txn.CustomerID,
		CashierID:      txn.CashierID,
		Items:          items,
		Subtotal:       txn.Subtotal,
		DiscountAmount: txn.DiscountAmount,
		TaxAmount:      txn.TaxAmount,
		TotalAmount:    txn.TotalAmount,
		PaymentMethod:  string(txn.PaymentMethod),
		PaidAmount:     txn.PaidAmount,
		ChangeAmount:   txn.ChangeAmount,
		Status:         txn.Status.String(),
		SoldAt:         txn.SoldAt,
		VoidedAt:       txn.VoidedAt,
		VoidedBy:       txn.VoidedBy,
		VoidReason:     txn.VoidReason,
		Remark:         txn.Remark,
		CreatedAt:      txn.CreatedAt,
		Version:        txn.Version,
	}
}

// ToTransactionListItemResponses converts domain transactions to list DTOs
func ToTransactionListItemResponses(txns []*sales.SalesTransaction) []TransactionListItemResponse {
	responses := make([]TransactionListItemResponse, len(txns))
	for i, txn := range txns {
		responses[i] = TransactionListItemResponse{
			ID:            txn.ID,
			InvoiceNumber: txn.InvoiceNumber,
			StoreID:       txn.StoreID,
			CustomerID:    txn.CustomerID,
			ItemCount:     len(txn.Items),
			TotalAmount:   txn.TotalAmount,
			PaymentMethod: string(txn.PaymentMethod),
			Status:        txn.Status.String(),
			SoldAt:        txn.SoldAt,
		}
	}
	return responses
}

// ToStoreSummaryResponse converts the domain read model to a response DTO
func ToStoreSummaryResponse(summary *sales.StoreSalesSummary) StoreSummaryResponse {
	return StoreSummaryResponse{
		StoreID:          summary.StoreID,
		From:             summary.From,
		To:               summary.To,
		TransactionCount: summary.TransactionCount,
		VoidedCount:      summary.VoidedCount,
		GrossSales:       summary.GrossSales,
		TotalDiscount:    summary.TotalDiscount,
		TotalTax:         summary.TotalTax,
		NetSales:         summary.NetSales,
	}
}

// ToActionResponses converts domain audit records to response DTOs
func ToActionResponses(actions []*sales.SalesAction) []ActionResponse {
	responses := make([]ActionResponse, len(actions))
	for i, action := range actions {
		responses[i] = ActionResponse{
			ID:        action.ID,
			Action:    string(action.Action),
			ActorID:   action.ActorID,
			Note:      action.Note,
			CreatedAt: action.CreatedAt,
		}
	}
	return responses
}
