package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryRepository defines the interface for inventory persistence
type InventoryRepository interface {
	// FindByID finds an inventory item by ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)

	// FindByStoreAndProduct finds the inventory item for a store-product pair
	FindByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID) (*InventoryItem, error)

	// FindOrCreate returns the inventory item for a store-product pair,
	// creating a zero-quantity row if none exists
	FindOrCreate(ctx context.Context, storeID, productID uuid.UUID) (*InventoryItem, error)

	// FindByStore returns all inventory items for a store with pagination
	FindByStore(ctx context.Context, storeID uuid.UUID, filter InventoryFilter) ([]*InventoryItem, int64, error)

	// FindByProduct returns inventory for a product across all stores
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]*InventoryItem, error)

	// Save persists an inventory item with optimistic locking
	Save(ctx context.Context, item *InventoryItem) error

	// HasStockForStore reports whether any product has stock on hand at the store
	HasStockForStore(ctx context.Context, storeID uuid.UUID) (bool, error)
}

// StockMovementRepository defines the interface for the movement ledger
type StockMovementRepository interface {
	// Append writes a movement row
	Append(ctx context.Context, movement *StockMovement) error

	// FindByFilter returns movements matching the filter with pagination
	FindByFilter(ctx context.Context, filter MovementFilter) ([]*StockMovement, int64, error)
}

// InventoryFilter contains filter options for querying inventory
type InventoryFilter struct {
	ProductID *uuid.UUID
	LowStock  bool // Only items at or below the product's minimum stock

	Page     int
	PageSize int
}

// NewInventoryFilter creates a new InventoryFilter with default values
func NewInventoryFilter() InventoryFilter {
	return InventoryFilter{
		Page:     1,
		PageSize: 20,
	}
}

// Offset returns the offset for pagination
func (f InventoryFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f InventoryFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	return f.PageSize
}

// MovementFilter contains filter options for querying the movement ledger
type MovementFilter struct {
	StoreID     *uuid.UUID
	ProductID   *uuid.UUID
	Type        *MovementType
	ReferenceID *uuid.UUID
	From        *time.Time
	To          *time.Time

	Page     int
	PageSize int
}

// NewMovementFilter creates a new MovementFilter with default values
func NewMovementFilter() MovementFilter {
	return MovementFilter{
		Page:     1,
		PageSize: 20,
	}
}

// Offset returns the offset for pagination
func (f MovementFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f MovementFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	return f.PageSize
}

// StockLevel is a read-model row pairing inventory with its product threshold
type StockLevel struct {
	StoreID   uuid.UUID       `json:"store_id"`
	ProductID uuid.UUID       `json:"product_id"`
	OnHand    decimal.Decimal `json:"on_hand"`
	Reserved  decimal.Decimal `json:"reserved"`
	Available decimal.Decimal `json:"available"`
	MinStock  decimal.Decimal `json:"min_stock"`
	LowStock  bool            `json:"low_stock"`
}
