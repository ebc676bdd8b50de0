package sales

import (
	"time"

	"github.com/google/uuid"
)

// ActionType identifies an operation recorded in the sales audit trail
type ActionType string

const (
	ActionTypeSale ActionType = "sale"
	ActionTypeVoid ActionType = "void"
)

// SalesAction is an append only audit record of an operation on a transaction
type SalesAction struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SalesTransactionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"sales_transaction_id"`
	Action             ActionType `gorm:"type:varchar(20);not null" json:"action"`
	ActorID            uuid.UUID  `gorm:"type:uuid;not null" json:"actor_id"`
	Note               string     `gorm:"type:varchar(500)" json:"note,omitempty"`
	CreatedAt          time.Time  `gorm:"not null;index" json:"created_at"`
}

// TableName returns the database table name
func (SalesAction) TableName() string {
	return "sales_actions"
}

// NewSalesAction creates a new audit record
func NewSalesAction(transactionID uuid.UUID, action ActionType, actorID uuid.UUID) *SalesAction {
	return &SalesAction{
		ID:                 uuid.New(),
		SalesTransactionID: transactionID,
		Action:             action,
		ActorID:            actorID,
		CreatedAt:          time.Now(),
	}
}

// WithNote attaches a free form note to the action
func (a *SalesAction) WithNote(note string) *SalesAction {
	a.Note = note
	return a
}
