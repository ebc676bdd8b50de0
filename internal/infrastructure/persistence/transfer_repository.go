package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/pawmart/backend/internal/domain/transfer"
	"gorm.io/gorm"
)

// GormTransferRepository implements TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// Create persists a new transfer request with its items
func (r *GormTransferRepository) Create(ctx context.Context, req *transfer.TransferRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// Update saves an existing transfer request with optimistic lock check
func (r *GormTransferRepository) Update(ctx context.Context, req *transfer.TransferRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&transfer.TransferRequest{}).
			Where("id = ? AND version < ?", req.ID, req.Version).
			Updates(map[string]interface{}{
				"status":        req.Status,
				"reason":        req.Reason,
				"approved_by":   req.ApprovedBy,
				"approved_at":   req.ApprovedAt,
				"completed_at":  req.CompletedAt,
				"rejected_at":   req.RejectedAt,
				"reject_reason": req.RejectReason,
				"cancelled_at":  req.CancelledAt,
				"cancel_reason": req.CancelReason,
				"version":       req.Version,
				"updated_at":    req.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The transfer has been modified by another user")
		}

		currentItemIDs := make([]uuid.UUID, len(req.Items))
		for i, item := range req.Items {
			currentItemIDs[i] = item.ID
		}

		if len(currentItemIDs) > 0 {
			if err := tx.Where("transfer_request_id = ? AND id NOT IN ?", req.ID, currentItemIDs).
				Delete(&transfer.TransferItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("transfer_request_id = ?", req.ID).
				Delete(&transfer.TransferItem{}).Error; err != nil {
				return err
			}
		}

		for i := range req.Items {
			req.Items[i].TransferRequestID = req.ID
			if err := tx.Save(&req.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete removes a transfer request, pending requests only
func (r *GormTransferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req transfer.TransferRequest
		if err := tx.First(&req, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if req.Status != transfer.TransferStatusPending {
			return shared.NewDomainError("INVALID_STATUS", "Only pending transfers can be deleted")
		}

		if err := tx.Where("transfer_request_id = ?", id).
			Delete(&transfer.TransferItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&transfer.TransferRequest{}, "id = ?", id).Error
	})
}

// FindByID finds a transfer request by ID with its items loaded
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.TransferRequest, error) {
	var req transfer.TransferRequest
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindByTransferNumber finds a transfer request by its number
func (r *GormTransferRepository) FindByTransferNumber(ctx context.Context, transferNumber string) (*transfer.TransferRequest, error) {
	var req transfer.TransferRequest
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("transfer_number = ?", transferNumber).
		First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindAll finds transfer requests matching the filter
func (r *GormTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*transfer.TransferRequest, int64, error) {
	return r.findPage(ctx, r.db.WithContext(ctx).Model(&transfer.TransferRequest{}), filter)
}

// FindByStatus finds transfer requests by status
func (r *GormTransferRepository) FindByStatus(ctx context.Context, status transfer.TransferStatus, filter shared.Filter) ([]*transfer.TransferRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&transfer.TransferRequest{}).
		Where("status = ?", status)
	return r.findPage(ctx, query, filter)
}

// FindByStore finds transfer requests where the store is source or destination
func (r *GormTransferRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]*transfer.TransferRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&transfer.TransferRequest{}).
		Where("source_store_id = ? OR dest_store_id = ?", storeID, storeID)
	return r.findPage(ctx, query, filter)
}

// ExistsByTransferNumber checks if a transfer number is already taken
func (r *GormTransferRepository) ExistsByTransferNumber(ctx context.Context, transferNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&transfer.TransferRequest{}).
		Where("transfer_number = ?", transferNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextTransferNumber allocates the next transfer number from a locked counter
// row, so concurrent creates never mint the same number.
// Format: TR-YYYYMM-NNNN (e.g., TR-202608-0001)
func (r *GormTransferRepository) NextTransferNumber(ctx context.Context) (string, error) {
	return nextDocumentNumber(ctx, r.db, "TR", time.Now())
}

// AppendAction records an audit entry for a transfer
func (r *GormTransferRepository) AppendAction(ctx context.Context, action *transfer.TransferAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

// FindActions returns the audit trail for a transfer, oldest first
func (r *GormTransferRepository) FindActions(ctx context.Context, transferID uuid.UUID) ([]*transfer.TransferAction, error) {
	var actions []*transfer.TransferAction
	if err := r.db.WithContext(ctx).
		Where("transfer_request_id = ?", transferID).
		Order("created_at ASC").
		Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

// AppendHistory records a status change for a transfer
func (r *GormTransferRepository) AppendHistory(ctx context.Context, history *transfer.TransferHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// FindHistory returns the status history for a transfer, oldest first
func (r *GormTransferRepository) FindHistory(ctx context.Context, transferID uuid.UUID) ([]*transfer.TransferHistory, error) {
	var history []*transfer.TransferHistory
	if err := r.db.WithContext(ctx).
		Where("transfer_request_id = ?", transferID).
		Order("created_at ASC").
		Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

// findPage runs a filtered count-then-page query with items preloaded
func (r *GormTransferRepository) findPage(ctx context.Context, query *gorm.DB, filter shared.Filter) ([]*transfer.TransferRequest, int64, error) {
	var requests []*transfer.TransferRequest
	var total int64

	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, TransferSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Preload("Items").Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTransferRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("transfer_number ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "source_store_id":
			query = query.Where("source_store_id = ?", value)
		case "dest_store_id":
			query = query.Where("dest_store_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "requested_by":
			query = query.Where("requested_by = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormTransferRepository implements TransferRepository
var _ transfer.TransferRepository = (*GormTransferRepository)(nil)
