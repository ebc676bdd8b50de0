package purchasing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawmart/backend/internal/domain/shared"
)

// PurchaseOrderStatus represents the lifecycle state of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft           PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusConfirmed       PurchaseOrderStatus = "CONFIRMED"
	PurchaseOrderStatusPartialReceived PurchaseOrderStatus = "PARTIAL_RECEIVED"
	PurchaseOrderStatusCompleted       PurchaseOrderStatus = "COMPLETED"
	PurchaseOrderStatusCancelled       PurchaseOrderStatus = "CANCELLED"
)

// String returns the status as a string
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a known value
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusConfirmed, PurchaseOrderStatusPartialReceived,
		PurchaseOrderStatusCompleted, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks whether a transition to the target status is allowed
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusConfirmed || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusConfirmed:
		return target == PurchaseOrderStatusPartialReceived || target == PurchaseOrderStatusCompleted ||
			target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusPartialReceived:
		return target == PurchaseOrderStatusCompleted
	default:
		return false
	}
}

// CanReceive reports whether goods may be received in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusConfirmed || s == PurchaseOrderStatusPartialReceived
}

// IsTerminal reports whether the status is a final state
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusCompleted || s == PurchaseOrderStatusCancelled
}

// PurchaseOrderItem represents a line item on a purchase order
type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	ProductName      string          `gorm:"type:varchar(200);not null" json:"product_name"`
	ProductSKU       string          `gorm:"type:varchar(64);not null" json:"product_sku"`
	Unit             string          `gorm:"type:varchar(20);not null" json:"unit"`
	OrderedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"received_quantity"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_cost"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	CreatedAt        time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null" json:"updated_at"`
}

// TableName returns the database table name
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// RemainingQuantity returns the quantity still to be received
func (i *PurchaseOrderItem) RemainingQuantity() decimal.Decimal {
	return i.OrderedQuantity.Sub(i.ReceivedQuantity)
}

// IsFullyReceived checks whether the ordered quantity has been fully received
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.OrderedQuantity)
}

// AddReceivedQuantity records a received quantity against the item
// Rejects quantities that would exceed the ordered quantity
func (i *PurchaseOrderItem) AddReceivedQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}

	newReceived := i.ReceivedQuantity.Add(quantity)
	if newReceived.GreaterThan(i.OrderedQuantity) {
		return shared.NewDomainError("QUANTITY_EXCEEDED",
			fmt.Sprintf("Received quantity %s would exceed ordered quantity %s for product %s",
				newReceived, i.OrderedQuantity, i.ProductSKU))
	}

	i.ReceivedQuantity = newReceived
	i.UpdatedAt = time.Now()

	return nil
}

// ReceiveItem describes one line of a goods receipt request
type ReceiveItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost,omitempty"`
}

// PurchaseOrder is the purchasing aggregate root
// It owns its line items and enforces the receiving rules
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber    string              `gorm:"type:varchar(32);not null;uniqueIndex" json:"order_number"`
	SupplierID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"supplier_id"`
	SupplierName   string              `gorm:"type:varchar(200);not null" json:"supplier_name"`
	StoreID        uuid.UUID           `gorm:"type:uuid;not null;index" json:"store_id"`
	Items          []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items"`
	TotalAmount    decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"total_amount"`
	DiscountAmount decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"discount_amount"`
	PayableAmount  decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"payable_amount"`
	Status         PurchaseOrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ExpectedDate   *time.Time          `json:"expected_date,omitempty"`
	Remark         string              `gorm:"type:varchar(500)" json:"remark,omitempty"`
	CreatedBy      uuid.UUID           `gorm:"type:uuid;not null" json:"created_by"`
	ConfirmedAt    *time.Time          `json:"confirmed_at,omitempty"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty"`
	CancelledAt    *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason   string              `gorm:"type:varchar(500)" json:"cancel_reason,omitempty"`
}

// TableName returns the database table name
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in DRAFT status
func NewPurchaseOrder(orderNumber string, supplierID uuid.UUID, supplierName string, storeID, createdBy uuid.UUID) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Destination store ID cannot be empty")
	}

	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		StoreID:           storeID,
		Items:             []PurchaseOrderItem{},
		TotalAmount:       decimal.Zero,
		DiscountAmount:    decimal.Zero,
		PayableAmount:     decimal.Zero,
		Status:            PurchaseOrderStatusDraft,
		CreatedBy:         createdBy,
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a line item to the order
// Only allowed in DRAFT status, duplicate products are rejected
func (o *PurchaseOrder) AddItem(productID uuid.UUID, productName, productSKU, unit string, quantity, unitCost decimal.Decimal) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot add items to order in %s status", o.Status))
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	for _, item := range o.Items {
		if item.ProductID == productID {
			return shared.NewDomainError("DUPLICATE_PRODUCT",
				fmt.Sprintf("Product %s is already on this order", productSKU))
		}
	}

	now := time.Now()
	o.Items = append(o.Items, PurchaseOrderItem{
		ID:               uuid.New(),
		PurchaseOrderID:  o.ID,
		ProductID:        productID,
		ProductName:      productName,
		ProductSKU:       productSKU,
		Unit:             unit,
		OrderedQuantity:  quantity,
		ReceivedQuantity: decimal.Zero,
		UnitCost:         unitCost,
		Amount:           quantity.Mul(unitCost),
		CreatedAt:        now,
		UpdatedAt:        now,
	})

	o.recalculateTotals()
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// UpdateItemQuantity changes the ordered quantity of a line item
func (o *PurchaseOrder) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify order in %s status", o.Status))
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity must be positive")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			o.Items[idx].OrderedQuantity = quantity
			o.Items[idx].Amount = quantity.Mul(o.Items[idx].UnitCost)
			o.Items[idx].UpdatedAt = time.Now()

			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// UpdateItemCost changes the unit cost of a line item
func (o *PurchaseOrder) UpdateItemCost(itemID uuid.UUID, unitCost decimal.Decimal) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify order in %s status", o.Status))
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			o.Items[idx].UnitCost = unitCost
			o.Items[idx].Amount = o.Items[idx].OrderedQuantity.Mul(unitCost)
			o.Items[idx].UpdatedAt = time.Now()

			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes a line item from the order
func (o *PurchaseOrder) RemoveItem(itemID uuid.UUID) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify order in %s status", o.Status))
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)

			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// ApplyDiscount applies an order level discount
func (o *PurchaseOrder) ApplyDiscount(discount decimal.Decimal) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify order in %s status", o.Status))
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.GreaterThan(o.TotalAmount) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the order total")
	}

	o.DiscountAmount = discount
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetExpectedDate sets the expected delivery date
func (o *PurchaseOrder) SetExpectedDate(date time.Time) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify order in %s status", o.Status))
	}

	o.ExpectedDate = &date
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetRemark sets the order remark
func (o *PurchaseOrder) SetRemark(remark string) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify order in %s status", o.Status))
	}
	if len(remark) > 500 {
		return shared.NewDomainError("INVALID_REMARK", "Remark cannot exceed 500 characters")
	}

	o.Remark = remark
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Confirm confirms the order, transitioning from DRAFT to CONFIRMED
// Requires at least one item in the order
func (o *PurchaseOrder) Confirm() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot confirm order without items")
	}
	if o.PayableAmount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Order payable amount must be positive")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderConfirmedEvent(o))

	return nil
}

// Receive processes a goods receipt for one or more items
// Only allowed in CONFIRMED or PARTIAL_RECEIVED status
// Returns the list of items that were updated and their received quantities
func (o *PurchaseOrder) Receive(receiveItems []ReceiveItem) ([]ReceivedItemInfo, error) {
	if !o.Status.CanReceive() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot receive goods for order in %s status", o.Status))
	}
	if len(receiveItems) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Receive items cannot be empty")
	}

	receivedInfos := make([]ReceivedItemInfo, 0, len(receiveItems))

	for _, ri := range receiveItems {
		if ri.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Receive quantity for product %s must be positive", ri.ProductID))
		}

		var found bool
		for idx := range o.Items {
			if o.Items[idx].ProductID == ri.ProductID {
				if err := o.Items[idx].AddReceivedQuantity(ri.Quantity); err != nil {
					return nil, err
				}

				unitCost := o.Items[idx].UnitCost
				if !ri.UnitCost.IsZero() {
					unitCost = ri.UnitCost
				}

				receivedInfos = append(receivedInfos, ReceivedItemInfo{
					ItemID:      o.Items[idx].ID,
					ProductID:   ri.ProductID,
					ProductName: o.Items[idx].ProductName,
					ProductSKU:  o.Items[idx].ProductSKU,
					Quantity:    ri.Quantity,
					UnitCost:    unitCost,
					Unit:        o.Items[idx].Unit,
				})

				found = true
				break
			}
		}

		if !found {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND",
				fmt.Sprintf("Product %s not found in order", ri.ProductID))
		}
	}

	if o.isAllItemsReceived() {
		now := time.Now()
		o.Status = PurchaseOrderStatusCompleted
		o.CompletedAt = &now
	} else {
		o.Status = PurchaseOrderStatusPartialReceived
	}

	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o, receivedInfos))

	return receivedInfos, nil
}

// Cancel cancels the order
// Allowed only in DRAFT or CONFIRMED status before any goods have been received
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if o.hasReceivedAnyGoods() {
		return shared.NewDomainError("ALREADY_RECEIVED", "Cannot cancel order after goods have been received")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o))

	return nil
}

// recalculateTotals recalculates the order totals from its items
func (o *PurchaseOrder) recalculateTotals() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.TotalAmount = total
	o.PayableAmount = o.TotalAmount.Sub(o.DiscountAmount)

	if o.PayableAmount.IsNegative() {
		o.DiscountAmount = o.TotalAmount
		o.PayableAmount = decimal.Zero
	}
}

// isAllItemsReceived checks if all items have been fully received
func (o *PurchaseOrder) isAllItemsReceived() bool {
	for _, item := range o.Items {
		if !item.IsFullyReceived() {
			return false
		}
	}
	return len(o.Items) > 0
}

// hasReceivedAnyGoods checks if any goods have been received
func (o *PurchaseOrder) hasReceivedAnyGoods() bool {
	for _, item := range o.Items {
		if item.ReceivedQuantity.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}

// CanModify reports whether line items may still be edited
func (o *PurchaseOrder) CanModify() bool {
	return o.Status == PurchaseOrderStatusDraft
}

// IsDraft checks if the order is in DRAFT status
func (o *PurchaseOrder) IsDraft() bool {
	return o.Status == PurchaseOrderStatusDraft
}

// IsCompleted checks if the order is in COMPLETED status
func (o *PurchaseOrder) IsCompleted() bool {
	return o.Status == PurchaseOrderStatusCompleted
}

// IsCancelled checks if the order is in CANCELLED status
func (o *PurchaseOrder) IsCancelled() bool {
	return o.Status == PurchaseOrderStatusCancelled
}

// GetItem returns the line item with the given ID
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) (*PurchaseOrderItem, bool) {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx], true
		}
	}
	return nil, false
}

// GetItemByProduct returns the line item for the given product
func (o *PurchaseOrder) GetItemByProduct(productID uuid.UUID) (*PurchaseOrderItem, bool) {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx], true
		}
	}
	return nil, false
}

// TotalOrderedQuantity returns the total ordered quantity across all items
func (o *PurchaseOrder) TotalOrderedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.OrderedQuantity)
	}
	return total
}

// TotalReceivedQuantity returns the total received quantity across all items
func (o *PurchaseOrder) TotalReceivedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.ReceivedQuantity)
	}
	return total
}

// ReceiveProgress returns the receiving progress as a percentage between 0 and 100
func (o *PurchaseOrder) ReceiveProgress() decimal.Decimal {
	ordered := o.TotalOrderedQuantity()
	if ordered.IsZero() {
		return decimal.Zero
	}
	return o.TotalReceivedQuantity().Div(ordered).Mul(decimal.NewFromInt(100)).Round(2)
}
