package transfer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawmart/backend/internal/domain/shared"
)

// TransferStatus represents the lifecycle state of a transfer request
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "PENDING"
	TransferStatusApproved  TransferStatus = "APPROVED"
	TransferStatusCompleted TransferStatus = "COMPLETED"
	TransferStatusRejected  TransferStatus = "REJECTED"
	TransferStatusCancelled TransferStatus = "CANCELLED"
)

// String returns the status as a string
func (s TransferStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a known value
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusPending, TransferStatusApproved, TransferStatusCompleted,
		TransferStatusRejected, TransferStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks whether a transition to the target status is allowed
func (s TransferStatus) CanTransitionTo(target TransferStatus) bool {
	switch s {
	case TransferStatusPending:
		return target == TransferStatusApproved || target == TransferStatusRejected
	case TransferStatusApproved:
		return target == TransferStatusCompleted || target == TransferStatusCancelled
	default:
		return false
	}
}

// IsTerminal reports whether the status is a final state
func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusCompleted || s == TransferStatusRejected || s == TransferStatusCancelled
}

// TransferItem represents a line item on a transfer request
type TransferItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TransferRequestID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transfer_request_id"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	ProductName       string          `gorm:"type:varchar(200);not null" json:"product_name"`
	ProductSKU        string          `gorm:"type:varchar(64);not null" json:"product_sku"`
	Unit              string          `gorm:"type:varchar(20);not null" json:"unit"`
	RequestedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"requested_quantity"`
	ApprovedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"approved_quantity"`
	ReceivedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"received_quantity"`
	CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}

// IsShortReceived reports whether fewer units arrived than were approved
func (i TransferItem) IsShortReceived() bool {
	return i.ReceivedQuantity.LessThan(i.ApprovedQuantity)
}

// TableName returns the database table name
func (TransferItem) TableName() string {
	return "transfer_items"
}

// ApprovedQuantityInfo maps a product to the quantity approved for it
type ApprovedQuantityInfo struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ReceivedQuantityInfo maps a product to the quantity that arrived at the
// destination store when the transfer was executed
type ReceivedQuantityInfo struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// TransferRequest is the inter store transfer aggregate root
// Goods move from the source store to the destination store after approval
type TransferRequest struct {
	shared.BaseAggregateRoot
	TransferNumber string         `gorm:"type:varchar(32);not null;uniqueIndex" json:"transfer_number"`
	SourceStoreID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"source_store_id"`
	DestStoreID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"dest_store_id"`
	Items          []TransferItem `gorm:"foreignKey:TransferRequestID" json:"items"`
	Status         TransferStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Reason         string         `gorm:"type:varchar(500)" json:"reason,omitempty"`
	RequestedBy    uuid.UUID      `gorm:"type:uuid;not null" json:"requested_by"`
	ApprovedBy     *uuid.UUID     `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt     *time.Time     `json:"approved_at,omitempty"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	RejectedAt     *time.Time     `json:"rejected_at,omitempty"`
	RejectReason   string         `gorm:"type:varchar(500)" json:"reject_reason,omitempty"`
	CancelledAt    *time.Time     `json:"cancelled_at,omitempty"`
	CancelReason   string         `gorm:"type:varchar(500)" json:"cancel_reason,omitempty"`
}

// TableName returns the database table name
func (TransferRequest) TableName() string {
	return "transfer_requests"
}

// NewTransferRequest creates a new transfer request in PENDING status
func NewTransferRequest(transferNumber string, sourceStoreID, destStoreID, requestedBy uuid.UUID, reason string) (*TransferRequest, error) {
	if transferNumber == "" {
		return nil, shared.NewDomainError("INVALID_TRANSFER_NUMBER", "Transfer number cannot be empty")
	}
	if sourceStoreID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Source store ID cannot be empty")
	}
	if destStoreID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Destination store ID cannot be empty")
	}
	if sourceStoreID == destStoreID {
		return nil, shared.NewDomainError("SAME_STORE", "Source and destination stores must differ")
	}

	req := &TransferRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TransferNumber:    transferNumber,
		SourceStoreID:     sourceStoreID,
		DestStoreID:       destStoreID,
		Items:             []TransferItem{},
		Status:            TransferStatusPending,
		Reason:            reason,
		RequestedBy:       requestedBy,
	}

	req.AddDomainEvent(NewTransferRequestedEvent(req))

	return req, nil
}

// AddItem adds a line item to the request
// Only allowed in PENDING status, duplicate products are rejected
func (t *TransferRequest) AddItem(productID uuid.UUID, productName, productSKU, unit string, quantity decimal.Decimal) error {
	if t.Status != TransferStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot add items to transfer in %s status", t.Status))
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	for _, item := range t.Items {
		if item.ProductID == productID {
			return shared.NewDomainError("DUPLICATE_PRODUCT",
				fmt.Sprintf("Product %s is already on this transfer", productSKU))
		}
	}

	now := time.Now()
	t.Items = append(t.Items, TransferItem{
		ID:                uuid.New(),
		TransferRequestID: t.ID,
		ProductID:         productID,
		ProductName:       productName,
		ProductSKU:        productSKU,
		Unit:              unit,
		RequestedQuantity: quantity,
		ApprovedQuantity:  decimal.Zero,
		ReceivedQuantity:  decimal.Zero,
		CreatedAt:         now,
		UpdatedAt:         now,
	})

	t.UpdatedAt = now
	t.IncrementVersion()

	return nil
}

// RemoveItem removes a line item from the request
func (t *TransferRequest) RemoveItem(itemID uuid.UUID) error {
	if t.Status != TransferStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify transfer in %s status", t.Status))
	}

	for idx := range t.Items {
		if t.Items[idx].ID == itemID {
			t.Items = append(t.Items[:idx], t.Items[idx+1:]...)
			t.UpdatedAt = time.Now()
			t.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Transfer item not found")
}

// Approve approves the request with per item approved quantities
// Approved quantity may be reduced below the requested quantity but never above it
// Items absent from the approval list keep their full requested quantity
func (t *TransferRequest) Approve(approvedBy uuid.UUID, quantities []ApprovedQuantityInfo) error {
	if !t.Status.CanTransitionTo(TransferStatusApproved) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve transfer in %s status", t.Status))
	}
	if len(t.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot approve transfer without items")
	}

	overrides := make(map[uuid.UUID]decimal.Decimal, len(quantities))
	for _, q := range quantities {
		overrides[q.ProductID] = q.Quantity
	}

	now := time.Now()
	for idx := range t.Items {
		approved := t.Items[idx].RequestedQuantity
		if qty, ok := overrides[t.Items[idx].ProductID]; ok {
			if qty.LessThanOrEqual(decimal.Zero) {
				return shared.NewDomainError("INVALID_QUANTITY",
					fmt.Sprintf("Approved quantity for product %s must be positive", t.Items[idx].ProductSKU))
			}
			if qty.GreaterThan(t.Items[idx].RequestedQuantity) {
				return shared.NewDomainError("QUANTITY_EXCEEDED",
					fmt.Sprintf("Approved quantity %s exceeds requested quantity %s for product %s",
						qty, t.Items[idx].RequestedQuantity, t.Items[idx].ProductSKU))
			}
			approved = qty
		}
		t.Items[idx].ApprovedQuantity = approved
		t.Items[idx].UpdatedAt = now
	}

	t.Status = TransferStatusApproved
	t.ApprovedBy = &approvedBy
	t.ApprovedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferApprovedEvent(t))

	return nil
}

// Reject rejects a pending request
func (t *TransferRequest) Reject(rejectedBy uuid.UUID, reason string) error {
	if !t.Status.CanTransitionTo(TransferStatusRejected) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject transfer in %s status", t.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Reject reason is required")
	}

	now := time.Now()
	t.Status = TransferStatusRejected
	t.ApprovedBy = &rejectedBy
	t.RejectedAt = &now
	t.RejectReason = reason
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferRejectedEvent(t))

	return nil
}

// Complete marks an approved transfer as executed and records the quantity
// received per item. Items absent from the receipt list count as received in
// full; a receipt may fall short of the approved quantity but never exceed it.
func (t *TransferRequest) Complete(received []ReceivedQuantityInfo) error {
	if !t.Status.CanTransitionTo(TransferStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete transfer in %s status", t.Status))
	}

	overrides := make(map[uuid.UUID]decimal.Decimal, len(received))
	for _, q := range received {
		overrides[q.ProductID] = q.Quantity
	}

	now := time.Now()
	for idx := range t.Items {
		got := t.Items[idx].ApprovedQuantity
		if qty, ok := overrides[t.Items[idx].ProductID]; ok {
			if qty.IsNegative() {
				return shared.NewDomainError("INVALID_QUANTITY",
					fmt.Sprintf("Received quantity for product %s cannot be negative", t.Items[idx].ProductSKU))
			}
			if qty.GreaterThan(t.Items[idx].ApprovedQuantity) {
				return shared.NewDomainError("QUANTITY_EXCEEDED",
					fmt.Sprintf("Received quantity %s exceeds approved quantity %s for product %s",
						qty, t.Items[idx].ApprovedQuantity, t.Items[idx].ProductSKU))
			}
			got = qty
		}
		t.Items[idx].ReceivedQuantity = got
		t.Items[idx].UpdatedAt = now
	}

	t.Status = TransferStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferCompletedEvent(t))

	return nil
}

// Cancel cancels an approved transfer before execution
// Reserved stock at the source store must be released by the caller
func (t *TransferRequest) Cancel(reason string) error {
	if !t.Status.CanTransitionTo(TransferStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel transfer in %s status", t.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	t.Status = TransferStatusCancelled
	t.CancelledAt = &now
	t.CancelReason = reason
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferCancelledEvent(t))

	return nil
}

// IsPending checks if the transfer is awaiting approval
func (t *TransferRequest) IsPending() bool {
	return t.Status == TransferStatusPending
}

// IsApproved checks if the transfer is approved and awaiting execution
func (t *TransferRequest) IsApproved() bool {
	return t.Status == TransferStatusApproved
}

// IsCompleted checks if the transfer has been executed
func (t *TransferRequest) IsCompleted() bool {
	return t.Status == TransferStatusCompleted
}

// GetItem returns the line item with the given ID
func (t *TransferRequest) GetItem(itemID uuid.UUID) (*TransferItem, bool) {
	for idx := range t.Items {
		if t.Items[idx].ID == itemID {
			return &t.Items[idx], true
		}
	}
	return nil, false
}

// GetItemByProduct returns the line item for the given product
func (t *TransferRequest) GetItemByProduct(productID uuid.UUID) (*TransferItem, bool) {
	for idx := range t.Items {
		if t.Items[idx].ProductID == productID {
			return &t.Items[idx], true
		}
	}
	return nil, false
}

// TotalRequestedQuantity returns the total requested quantity across all items
func (t *TransferRequest) TotalRequestedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range t.Items {
		total = total.Add(item.RequestedQuantity)
	}
	return total
}

// TotalApprovedQuantity returns the total approved quantity across all items
func (t *TransferRequest) TotalApprovedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range t.Items {
		total = total.Add(item.ApprovedQuantity)
	}
	return total
}

// TotalReceivedQuantity returns the total received quantity across all items
func (t *TransferRequest) TotalReceivedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range t.Items {
		total = total.Add(item.ReceivedQuantity)
	}
	return total
}

// ReceiptDiscrepancyNote describes every short-received item, one clause per
// item, for the status history. Empty when everything arrived in full.
func (t *TransferRequest) ReceiptDiscrepancyNote() string {
	var parts []string
	for _, item := range t.Items {
		if item.IsShortReceived() {
			parts = append(parts, fmt.Sprintf("%s received %s of %s approved",
				item.ProductSKU, item.ReceivedQuantity, item.ApprovedQuantity))
		}
	}
	return strings.Join(parts, "; ")
}
