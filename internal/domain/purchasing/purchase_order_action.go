package purchasing

import (
	"time"

	"github.com/google/uuid"
)

// ActionType identifies an operation recorded in the purchase order audit trail
type ActionType string

const (
	ActionTypeCreate  ActionType = "create"
	ActionTypeUpdate  ActionType = "update"
	ActionTypeConfirm ActionType = "confirm"
	ActionTypeReceive ActionType = "receive"
	ActionTypeCancel  ActionType = "cancel"
)

// PurchaseOrderAction is an append only audit record of an operation on an order
type PurchaseOrderAction struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PurchaseOrderID uuid.UUID  `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	Action          ActionType `gorm:"type:varchar(20);not null" json:"action"`
	ActorID         uuid.UUID  `gorm:"type:uuid;not null" json:"actor_id"`
	FromStatus      string     `gorm:"type:varchar(20)" json:"from_status,omitempty"`
	ToStatus        string     `gorm:"type:varchar(20)" json:"to_status,omitempty"`
	Note            string     `gorm:"type:varchar(500)" json:"note,omitempty"`
	CreatedAt       time.Time  `gorm:"not null;index" json:"created_at"`
}

// TableName returns the database table name
func (PurchaseOrderAction) TableName() string {
	return "purchase_order_actions"
}

// NewPurchaseOrderAction creates a new audit record
func NewPurchaseOrderAction(orderID uuid.UUID, action ActionType, actorID uuid.UUID) *PurchaseOrderAction {
	return &PurchaseOrderAction{
		ID:              uuid.New(),
		PurchaseOrderID: orderID,
		Action:          action,
		ActorID:         actorID,
		CreatedAt:       time.Now(),
	}
}

// WithTransition records the status transition the action caused
func (a *PurchaseOrderAction) WithTransition(from, to PurchaseOrderStatus) *PurchaseOrderAction {
	a.FromStatus = string(from)
	a.ToStatus = string(to)
	return a
}

// WithNote attaches a free form note to the action
func (a *PurchaseOrderAction) WithNote(note string) *PurchaseOrderAction {
	a.Note = note
	return a
}
