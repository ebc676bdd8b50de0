package transfer

import (
	"time"

	"github.com/google/uuid"
)

// TransferHistory is an append only record of a transfer status change
// Unlike actions, history rows are written for every status transition
// including those made by event listeners rather than direct user requests
type TransferHistory struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TransferRequestID uuid.UUID      `gorm:"type:uuid;not null;index" json:"transfer_request_id"`
	Status            TransferStatus `gorm:"type:varchar(20);not null" json:"status"`
	ChangedBy         uuid.UUID      `gorm:"type:uuid;not null" json:"changed_by"`
	Note              string         `gorm:"type:varchar(500)" json:"note,omitempty"`
	CreatedAt         time.Time      `gorm:"not null;index" json:"created_at"`
}

// TableName returns the database table name
func (TransferHistory) TableName() string {
	return "transfer_history"
}

// NewTransferHistory creates a history record for a status change
func NewTransferHistory(transferID uuid.UUID, status TransferStatus, changedBy uuid.UUID, note string) *TransferHistory {
	return &TransferHistory{
		ID:                uuid.New(),
		TransferRequestID: transferID,
		Status:            status,
		ChangedBy:         changedBy,
		Note:              note,
		CreatedAt:         time.Now(),
	}
}
