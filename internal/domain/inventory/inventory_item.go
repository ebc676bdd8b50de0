package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InventoryItem represents stock of a product at a specific store.
// It is the aggregate root for inventory operations.
// The composite identifier is StoreID + ProductID.
type InventoryItem struct {
	shared.BaseAggregateRoot
	StoreID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_store_product,priority:1"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_store_product,priority:2"`
	OnHandQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Held for approved transfers
	LastCountedAt    *time.Time
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates a new inventory item for a store-product combination
func NewInventoryItem(storeID, productID uuid.UUID) (*InventoryItem, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	return &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		ProductID:         productID,
		OnHandQuantity:    decimal.Zero,
		ReservedQuantity:  decimal.Zero,
	}, nil
}

// AvailableQuantity returns the quantity available for sale or transfer
func (i *InventoryItem) AvailableQuantity() decimal.Decimal {
	return i.OnHandQuantity.Sub(i.ReservedQuantity)
}

// Increase adds stock on hand
func (i *InventoryItem) Increase(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.OnHandQuantity = i.OnHandQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Decrease removes available stock (sales, transfer shipments without reservation)
func (i *InventoryItem) Decrease(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.AvailableQuantity().LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	i.OnHandQuantity = i.OnHandQuantity.Sub(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Reserve holds available stock for an approved transfer
func (i *InventoryItem) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.AvailableQuantity().LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	i.ReservedQuantity = i.ReservedQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Release returns reserved stock to the available pool
func (i *InventoryItem) Release(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.ReservedQuantity.LessThan(quantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Cannot release more than the reserved quantity")
	}

	i.ReservedQuantity = i.ReservedQuantity.Sub(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// ConsumeReservation ships previously reserved stock out of the store.
// Both on hand and reserved quantities drop by the given amount.
func (i *InventoryItem) ConsumeReservation(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.ReservedQuantity.LessThan(quantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Cannot consume more than the reserved quantity")
	}
	if i.OnHandQuantity.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	i.OnHandQuantity = i.OnHandQuantity.Sub(quantity)
	i.ReservedQuantity = i.ReservedQuantity.Sub(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Adjust applies a signed quantity delta (manual correction).
// On hand never goes negative and never below the reserved quantity.
func (i *InventoryItem) Adjust(delta decimal.Decimal) error {
	if delta.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
	}

	newOnHand := i.OnHandQuantity.Add(delta)
	if newOnHand.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Adjustment would make stock negative")
	}
	if newOnHand.LessThan(i.ReservedQuantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Adjustment would drop stock below the reserved quantity")
	}

	i.OnHandQuantity = newOnHand
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Recount sets the absolute on hand quantity from a physical count.
// Returns the signed delta the recount applied.
func (i *InventoryItem) Recount(counted decimal.Decimal) (decimal.Decimal, error) {
	if counted.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}
	if counted.LessThan(i.ReservedQuantity) {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be below the reserved quantity")
	}

	delta := counted.Sub(i.OnHandQuantity)
	i.OnHandQuantity = counted
	now := time.Now()
	i.LastCountedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	return delta, nil
}

// IsLowStock reports whether on hand has reached the product's minimum threshold
func (i *InventoryItem) IsLowStock(minStock decimal.Decimal) bool {
	if minStock.LessThanOrEqual(decimal.Zero) {
		return false
	}
	return i.OnHandQuantity.LessThanOrEqual(minStock)
}

// HasStock returns true if there is any stock on hand
func (i *InventoryItem) HasStock() bool {
	return i.OnHandQuantity.IsPositive()
}
