package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawmart/backend/internal/domain/shared"
)

// TransactionStatus represents the state of a point of sale transaction
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusVoided    TransactionStatus = "VOIDED"
)

// String returns the status as a string
func (s TransactionStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a known value
func (s TransactionStatus) IsValid() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusVoided
}

// PaymentMethod represents how a transaction was paid
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

// IsValid checks if the payment method is a known value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer:
		return true
	}
	return false
}

// SalesItem represents a line item on a sales transaction
type SalesItem struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SalesTransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"sales_transaction_id"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	ProductName        string          `gorm:"type:varchar(200);not null" json:"product_name"`
	ProductSKU         string          `gorm:"type:varchar(64);not null" json:"product_sku"`
	Unit               string          `gorm:"type:varchar(20);not null" json:"unit"`
	Quantity           decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Amount             decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	CreatedAt          time.Time       `gorm:"not null" json:"created_at"`
}

// TableName returns the database table name
func (SalesItem) TableName() string {
	return "sales_items"
}

// SalesTransaction is the point of sale aggregate root
// A transaction is created complete, the only lifecycle operation is voiding
type SalesTransaction struct {
	shared.BaseAggregateRoot
	InvoiceNumber  string            `gorm:"type:varchar(40);not null;uniqueIndex" json:"invoice_number"`
	StoreID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"store_id"`
	CustomerID     *uuid.UUID        `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CashierID      uuid.UUID         `gorm:"type:uuid;not null" json:"cashier_id"`
	Items          []SalesItem       `gorm:"foreignKey:SalesTransactionID" json:"items"`
	Subtotal       decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	DiscountAmount decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0" json:"discount_amount"`
	TaxAmount      decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0" json:"tax_amount"`
	TotalAmount    decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	PaymentMethod  PaymentMethod     `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaidAmount     decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"paid_amount"`
	ChangeAmount   decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0" json:"change_amount"`
	Status         TransactionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	SoldAt         time.Time         `gorm:"not null;index" json:"sold_at"`
	VoidedAt       *time.Time        `json:"voided_at,omitempty"`
	VoidedBy       *uuid.UUID        `gorm:"type:uuid" json:"voided_by,omitempty"`
	VoidReason     string            `gorm:"type:varchar(500)" json:"void_reason,omitempty"`
	Remark         string            `gorm:"type:varchar(500)" json:"remark,omitempty"`
}

// TableName returns the database table name
func (SalesTransaction) TableName() string {
	return "sales_transactions"
}

// SaleLine describes one line of a checkout request
type SaleLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// NewSalesTransaction creates a completed sales transaction from checkout input
// Validates the amount identity subtotal minus discount plus tax equals total
// and requires the paid amount to cover the total for cash payments
func NewSalesTransaction(invoiceNumber string, storeID, cashierID uuid.UUID, customerID *uuid.UUID,
	lines []SaleLine, discount, tax decimal.Decimal, method PaymentMethod, paid decimal.Decimal) (*SalesTransaction, error) {

	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if cashierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CASHIER", "Cashier ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Transaction must have at least one item")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", method))
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if tax.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX", "Tax cannot be negative")
	}

	now := time.Now()
	txn := &SalesTransaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		StoreID:           storeID,
		CustomerID:        customerID,
		CashierID:         cashierID,
		Items:             make([]SalesItem, 0, len(lines)),
		DiscountAmount:    discount,
		TaxAmount:         tax,
		PaymentMethod:     method,
		PaidAmount:        paid,
		Status:            TransactionStatusCompleted,
		SoldAt:            now,
	}

	subtotal := decimal.Zero
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if seen[line.ProductID] {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT",
				fmt.Sprintf("Product %s appears more than once", line.ProductSKU))
		}
		seen[line.ProductID] = true

		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Quantity for product %s must be positive", line.ProductSKU))
		}
		if line.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE",
				fmt.Sprintf("Unit price for product %s cannot be negative", line.ProductSKU))
		}

		amount := line.Quantity.Mul(line.UnitPrice)
		subtotal = subtotal.Add(amount)
		txn.Items = append(txn.Items, SalesItem{
			ID:                 uuid.New(),
			SalesTransactionID: txn.ID,
			ProductID:          line.ProductID,
			ProductName:        line.ProductName,
			ProductSKU:         line.ProductSKU,
			Unit:               line.Unit,
			Quantity:           line.Quantity,
			UnitPrice:          line.UnitPrice,
			Amount:             amount,
			CreatedAt:          now,
		})
	}

	if discount.GreaterThan(subtotal) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the subtotal")
	}

	txn.Subtotal = subtotal
	txn.TotalAmount = subtotal.Sub(discount).Add(tax)

	if paid.LessThan(txn.TotalAmount) {
		return nil, shared.NewDomainError("INSUFFICIENT_PAYMENT",
			fmt.Sprintf("Paid amount %s is less than total %s", paid, txn.TotalAmount))
	}
	if method == PaymentMethodCash {
		txn.ChangeAmount = paid.Sub(txn.TotalAmount)
	} else {
		// Card and transfer payments are charged exactly
		if paid.GreaterThan(txn.TotalAmount) {
			return nil, shared.NewDomainError("INVALID_PAYMENT",
				fmt.Sprintf("%s payment must equal the total exactly", method))
		}
		txn.ChangeAmount = decimal.Zero
	}

	txn.AddDomainEvent(NewSaleCompletedEvent(txn))

	return txn, nil
}

// Void voids a completed transaction
// Stock restoration and loyalty point reversal are handled by event listeners
func (t *SalesTransaction) Void(voidedBy uuid.UUID, reason string) error {
	if t.Status != TransactionStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void transaction in %s status", t.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}

	now := time.Now()
	t.Status = TransactionStatusVoided
	t.VoidedAt = &now
	t.VoidedBy = &voidedBy
	t.VoidReason = reason
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewSaleVoidedEvent(t))

	return nil
}

// SetRemark sets the transaction remark
func (t *SalesTransaction) SetRemark(remark string) error {
	if len(remark) > 500 {
		return shared.NewDomainError("INVALID_REMARK", "Remark cannot exceed 500 characters")
	}

	t.Remark = remark
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// IsCompleted checks if the transaction is completed
func (t *SalesTransaction) IsCompleted() bool {
	return t.Status == TransactionStatusCompleted
}

// IsVoided checks if the transaction has been voided
func (t *SalesTransaction) IsVoided() bool {
	return t.Status == TransactionStatusVoided
}

// HasCustomer reports whether the sale is attached to a customer account
func (t *SalesTransaction) HasCustomer() bool {
	return t.CustomerID != nil && *t.CustomerID != uuid.Nil
}

// TotalQuantity returns the total quantity sold across all items
func (t *SalesTransaction) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range t.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

// GetItemByProduct returns the line item for the given product
func (t *SalesTransaction) GetItemByProduct(productID uuid.UUID) (*SalesItem, bool) {
	for idx := range t.Items {
		if t.Items[idx].ProductID == productID {
			return &t.Items[idx], true
		}
	}
	return nil, false
}
