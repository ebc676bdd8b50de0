package transfer

import (
	"context"

	"github.com/google/uuid"

	"github.com/pawmart/backend/internal/domain/shared"
)

// TransferRepository defines the interface for transfer request persistence
type TransferRepository interface {
	// Create persists a new transfer request with its items
	Create(ctx context.Context, req *TransferRequest) error

	// Update saves an existing transfer request with optimistic lock check
	Update(ctx context.Context, req *TransferRequest) error

	// Delete removes a transfer request, pending requests only
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a transfer request by ID with its items loaded
	FindByID(ctx context.Context, id uuid.UUID) (*TransferRequest, error)

	// FindByTransferNumber finds a transfer request by its number
	FindByTransferNumber(ctx context.Context, transferNumber string) (*TransferRequest, error)

	// FindAll finds transfer requests matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]*TransferRequest, int64, error)

	// FindByStatus finds transfer requests by status
	FindByStatus(ctx context.Context, status TransferStatus, filter shared.Filter) ([]*TransferRequest, int64, error)

	// FindByStore finds transfer requests where the store is source or destination
	FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]*TransferRequest, int64, error)

	// ExistsByTransferNumber checks if a transfer number is already taken
	ExistsByTransferNumber(ctx context.Context, transferNumber string) (bool, error)

	// NextTransferNumber generates the next transfer number for the given period
	NextTransferNumber(ctx context.Context) (string, error)

	// AppendAction records an audit entry for a transfer
	AppendAction(ctx context.Context, action *TransferAction) error

	// FindActions returns the audit trail for a transfer, oldest first
	FindActions(ctx context.Context, transferID uuid.UUID) ([]*TransferAction, error)

	// AppendHistory records a status change for a transfer
	AppendHistory(ctx context.Context, history *TransferHistory) error

	// FindHistory returns the status history for a transfer, oldest first
	FindHistory(ctx context.Context, transferID uuid.UUID) ([]*TransferHistory, error)
}
