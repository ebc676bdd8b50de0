package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType classifies a stock movement ledger entry
type MovementType string

const (
	MovementTypePurchaseReceipt MovementType = "purchase_receipt"
	MovementTypeSale            MovementType = "sale"
	MovementTypeSaleVoid        MovementType = "sale_void"
	MovementTypeTransferOut     MovementType = "transfer_out"
	MovementTypeTransferIn      MovementType = "transfer_in"
	MovementTypeAdjustment      MovementType = "adjustment"
	MovementTypeRecount         MovementType = "recount"
)

// IsValid checks if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypePurchaseReceipt, MovementTypeSale, MovementTypeSaleVoid,
		MovementTypeTransferOut, MovementTypeTransferIn,
		MovementTypeAdjustment, MovementTypeRecount:
		return true
	}
	return false
}

// StockMovement is an append-only ledger entry recording a quantity change.
// Every inventory mutation writes exactly one movement row in the same
// transaction as the inventory item update.
type StockMovement struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StoreID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type          MovementType    `gorm:"type:varchar(30);not null;index"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Signed delta
	ReferenceType string          `gorm:"type:varchar(50)"`            // e.g. "purchase_order", "sales_transaction"
	ReferenceID   *uuid.UUID      `gorm:"type:uuid;index"`
	Note          string          `gorm:"type:text"`
	ActorID       *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt     time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new stock movement ledger entry
func NewStockMovement(storeID, productID uuid.UUID, movementType MovementType, quantity decimal.Decimal) (*StockMovement, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown stock movement type")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity cannot be zero")
	}

	return &StockMovement{
		ID:        uuid.New(),
		StoreID:   storeID,
		ProductID: productID,
		Type:      movementType,
		Quantity:  quantity,
		CreatedAt: time.Now(),
	}, nil
}

// WithReference attaches the originating document to the movement
func (m *StockMovement) WithReference(referenceType string, referenceID uuid.UUID) *StockMovement {
	m.ReferenceType = referenceType
	m.ReferenceID = &referenceID
	return m
}

// WithActor records who performed the movement
func (m *StockMovement) WithActor(actorID uuid.UUID) *StockMovement {
	m.ActorID = &actorID
	return m
}

// WithNote attaches a free-form note
func (m *StockMovement) WithNote(note string) *StockMovement {
	m.Note = note
	return m
}
