package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/purchasing"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// Create persists a new purchase order with its items
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *purchasing.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Update saves an existing purchase order with optimistic lock check
func (r *GormPurchaseOrderRepository) Update(ctx context.Context, order *purchasing.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The domain layer increments the version on every mutation. The
		// write wins only while the row still holds an older version.
		result := tx.Model(&purchasing.PurchaseOrder{}).
			Where("id = ? AND version < ?", order.ID, order.Version).
			Updates(map[string]interface{}{
				"supplier_id":     order.SupplierID,
				"supplier_name":   order.SupplierName,
				"store_id":        order.StoreID,
				"total_amount":    order.TotalAmount,
				"discount_amount": order.DiscountAmount,
				"payable_amount":  order.PayableAmount,
				"status":          order.Status,
				"expected_date":   order.ExpectedDate,
				"remark":          order.Remark,
				"confirmed_at":    order.ConfirmedAt,
				"completed_at":    order.CompletedAt,
				"cancelled_at":    order.CancelledAt,
				"cancel_reason":   order.CancelReason,
				"version":         order.Version,
				"updated_at":      order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another user")
		}

		// Reconcile items: delete removed rows, upsert the rest
		currentItemIDs := make([]uuid.UUID, len(order.Items))
		for i, item := range order.Items {
			currentItemIDs[i] = item.ID
		}

		if len(currentItemIDs) > 0 {
			if err := tx.Where("purchase_order_id = ? AND id NOT IN ?", order.ID, currentItemIDs).
				Delete(&purchasing.PurchaseOrderItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("purchase_order_id = ?", order.ID).
				Delete(&purchasing.PurchaseOrderItem{}).Error; err != nil {
				return err
			}
		}

		for i := range order.Items {
			order.Items[i].PurchaseOrderID = order.ID
			if err := tx.Save(&order.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete removes a purchase order, draft orders only
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order purchasing.PurchaseOrder
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if order.Status != purchasing.PurchaseOrderStatusDraft {
			return shared.NewDomainError("INVALID_STATUS", "Only draft orders can be deleted")
		}

		if err := tx.Where("purchase_order_id = ?", id).
			Delete(&purchasing.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&purchasing.PurchaseOrder{}, "id = ?", id).Error
	})
}

// FindByID finds a purchase order by ID with its items loaded
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var order purchasing.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds a purchase order by its order number
func (r *GormPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*purchasing.PurchaseOrder, error) {
	var order purchasing.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds purchase orders matching the filter
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*purchasing.PurchaseOrder, int64, error) {
	return r.findPage(ctx, r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}), filter)
}

// FindByStatus finds purchase orders by status
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, status purchasing.PurchaseOrderStatus, filter shared.Filter) ([]*purchasing.PurchaseOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).
		Where("status = ?", status)
	return r.findPage(ctx, query, filter)
}

// CountOpenBySupplier counts orders for a supplier that are not COMPLETED or CANCELLED
func (r *GormPurchaseOrderRepository) CountOpenBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&purchasing.PurchaseOrder{}).
		Where("supplier_id = ? AND status NOT IN ?", supplierID,
			[]purchasing.PurchaseOrderStatus{
				purchasing.PurchaseOrderStatusCompleted,
				purchasing.PurchaseOrderStatusCancelled,
			}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByOrderNumber checks if an order number is already taken
func (r *GormPurchaseOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&purchasing.PurchaseOrder{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextOrderNumber allocates the next order number from a locked counter row,
// so concurrent creates never mint the same number.
// Format: PO-YYYYMM-NNNN (e.g., PO-202608-0001)
func (r *GormPurchaseOrderRepository) NextOrderNumber(ctx context.Context) (string, error) {
	return nextDocumentNumber(ctx, r.db, "PO", time.Now())
}

// AppendAction records an audit entry for an order
func (r *GormPurchaseOrderRepository) AppendAction(ctx context.Context, action *purchasing.PurchaseOrderAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

// FindActions returns the audit trail for an order, oldest first
func (r *GormPurchaseOrderRepository) FindActions(ctx context.Context, orderID uuid.UUID) ([]*purchasing.PurchaseOrderAction, error) {
	var actions []*purchasing.PurchaseOrderAction
	if err := r.db.WithContext(ctx).
		Where("purchase_order_id = ?", orderID).
		Order("created_at ASC").
		Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

// findPage runs a filtered count-then-page query with items preloaded
func (r *GormPurchaseOrderRepository) findPage(ctx context.Context, query *gorm.DB, filter shared.Filter) ([]*purchasing.PurchaseOrder, int64, error) {
	var orders []*purchasing.PurchaseOrder
	var total int64

	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPurchaseOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR supplier_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "store_id":
			query = query.Where("store_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		case "min_amount":
			if d, ok := value.(decimal.Decimal); ok {
				query = query.Where("payable_amount >= ?", d)
			}
		case "max_amount":
			if d, ok := value.(decimal.Decimal); ok {
				query = query.Where("payable_amount <= ?", d)
			}
		}
	}

	return query
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ purchasing.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
