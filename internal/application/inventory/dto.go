package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	StoreID   uuid.UUID       `json:"store_id" binding:"required"`
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Delta     decimal.Decimal `json:"delta" binding:"required"`
	Reason    string          `json:"reason" binding:"required,min=1,max=500"`
}

// RecountStockRequest represents a physical count correction
type RecountStockRequest struct {
	StoreID         uuid.UUID       `json:"store_id" binding:"required"`
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	CountedQuantity decimal.Decimal `json:"counted_quantity" binding:"required"`
	Note            string          `json:"note" binding:"max=500"`
}

// StockLevelResponse represents one store-product stock position
type StockLevelResponse struct {
	StoreID       uuid.UUID       `json:"store_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	OnHand        decimal.Decimal `json:"on_hand"`
	Reserved      decimal.Decimal `json:"reserved"`
	Available     decimal.Decimal `json:"available"`
	MinStock      decimal.Decimal `json:"min_stock"`
	LowStock      bool            `json:"low_stock"`
	LastCountedAt *time.Time      `json:"last_counted_at,omitempty"`
	Version       int             `json:"version"`
}

// StockListFilter represents filter options for store stock listing
type StockListFilter struct {
	ProductID *uuid.UUID `form:"product_id"`
	LowStock  bool       `form:"low_stock"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// MovementListFilter represents filter options for the movement ledger
type MovementListFilter struct {
	StoreID     *uuid.UUID `form:"store_id"`
	ProductID   *uuid.UUID `form:"product_id"`
	Type        string     `form:"type"`
	ReferenceID *uuid.UUID `form:"reference_id"`
	From        string     `form:"from"`
	To          string     `form:"to"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// MovementResponse represents a movement ledger entry in API responses
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	StoreID       uuid.UUID       `json:"store_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   *uuid.UUID      `json:"reference_id,omitempty"`
	Note          string          `json:"note,omitempty"`
	ActorID       *uuid.UUID      `json:"actor_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToMovementResponse converts a domain StockMovement to MovementResponse
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		StoreID:       m.StoreID,
		ProductID:     m.ProductID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Note:          m.Note,
		ActorID:       m.ActorID,
		CreatedAt:     m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of domain StockMovements
func ToMovementResponses(movements []*inventory.StockMovement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i, m := range movements {
		responses[i] = ToMovementResponse(m)
	}
	return responses
}

// toStockLevelResponse builds a stock level row from an item and its threshold
func toStockLevelResponse(item *inventory.InventoryItem, minStock decimal.Decimal) StockLevelResponse {
	return StockLevelResponse{
		StoreID:       item.StoreID,
		ProductID:     item.ProductID,
		OnHand:        item.OnHandQuantity,
		Reserved:      item.ReservedQuantity,
		Available:     item.AvailableQuantity(),
		MinStock:      minStock,
		LowStock:      item.IsLowStock(minStock),
		LastCountedAt: item.LastCountedAt,
		Version:       item.Version,
	}
}
