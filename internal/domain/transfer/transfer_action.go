package transfer

import (
	"time"

	"github.com/google/uuid"
)

// ActionType identifies an operation recorded in the transfer audit trail
type ActionType string

const (
	ActionTypeRequest ActionType = "request"
	ActionTypeApprove ActionType = "approve"
	ActionTypeReject  ActionType = "reject"
	ActionTypeExecute ActionType = "execute"
	ActionTypeCancel  ActionType = "cancel"
)

// TransferAction is an append only audit record of an operation on a transfer
type TransferAction struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TransferRequestID uuid.UUID  `gorm:"type:uuid;not null;index" json:"transfer_request_id"`
	Action            ActionType `gorm:"type:varchar(20);not null" json:"action"`
	ActorID           uuid.UUID  `gorm:"type:uuid;not null" json:"actor_id"`
	FromStatus        string     `gorm:"type:varchar(20)" json:"from_status,omitempty"`
	ToStatus          string     `gorm:"type:varchar(20)" json:"to_status,omitempty"`
	Note              string     `gorm:"type:varchar(500)" json:"note,omitempty"`
	CreatedAt         time.Time  `gorm:"not null;index" json:"created_at"`
}

// TableName returns the database table name
func (TransferAction) TableName() string {
	return "transfer_actions"
}

// NewTransferAction creates a new audit record
func NewTransferAction(transferID uuid.UUID, action ActionType, actorID uuid.UUID) *TransferAction {
	return &TransferAction{
		ID:                uuid.New(),
		TransferRequestID: transferID,
		Action:            action,
		ActorID:           actorID,
		CreatedAt:         time.Now(),
	}
}

// WithTransition records the status transition the action caused
func (a *TransferAction) WithTransition(from, to TransferStatus) *TransferAction {
	a.FromStatus = string(from)
	a.ToStatus = string(to)
	return a
}

// WithNote attaches a free form note to the action
func (a *TransferAction) WithNote(note string) *TransferAction {
	a.Note = note
	return a
}
