package purchasing

import (
	"context"

	"github.com/google/uuid"

	"github.com/pawmart/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// Create persists a new purchase order with its items
	Create(ctx context.Context, order *PurchaseOrder) error

	// Update saves an existing purchase order with optimistic lock check
	Update(ctx context.Context, order *PurchaseOrder) error

	// Delete removes a purchase order, draft orders only
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a purchase order by ID with its items loaded
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNumber finds a purchase order by its order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)

	// FindAll finds purchase orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]*PurchaseOrder, int64, error)

	// FindByStatus finds purchase orders by status
	FindByStatus(ctx context.Context, status PurchaseOrderStatus, filter shared.Filter) ([]*PurchaseOrder, int64, error)

	// CountOpenBySupplier counts orders for a supplier that are not COMPLETED or CANCELLED
	// Used to block supplier deletion while orders are outstanding
	CountOpenBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)

	// ExistsByOrderNumber checks if an order number is already taken
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)

	// NextOrderNumber generates the next order number for the given period
	NextOrderNumber(ctx context.Context) (string, error)

	// AppendAction records an audit entry for an order
	AppendAction(ctx context.Context, action *PurchaseOrderAction) error

	// FindActions returns the audit trail for an order, oldest first
	FindActions(ctx context.Context, orderID uuid.UUID) ([]*PurchaseOrderAction, error)
}
