package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/sales"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSalesRepository implements SalesRepository using GORM
type GormSalesRepository struct {
	db *gorm.DB
}

// NewGormSalesRepository creates a new GormSalesRepository
func NewGormSalesRepository(db *gorm.DB) *GormSalesRepository {
	return &GormSalesRepository{db: db}
}

// Create persists a new sales transaction with its items
func (r *GormSalesRepository) Create(ctx context.Context, txn *sales.SalesTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

// Update saves an existing transaction with optimistic lock check.
// Items are immutable once the sale is recorded, so only header fields
// are written.
func (r *GormSalesRepository) Update(ctx context.Context, txn *sales.SalesTransaction) error {
	result := r.db.WithContext(ctx).
		Model(&sales.SalesTransaction{}).
		Where("id = ? AND version < ?", txn.ID, txn.Version).
		Updates(map[string]interface{}{
			"status":      txn.Status,
			"voided_at":   txn.VoidedAt,
			"voided_by":   txn.VoidedBy,
			"void_reason": txn.VoidReason,
			"remark":      txn.Remark,
			"version":     txn.Version,
			"updated_at":  txn.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The transaction has been modified by another user")
	}
	return nil
}

// FindByID finds a transaction by ID with its items loaded
func (r *GormSalesRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.SalesTransaction, error) {
	var txn sales.SalesTransaction
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&txn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// FindByInvoiceNumber finds a transaction by its invoice number
func (r *GormSalesRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*sales.SalesTransaction, error) {
	var txn sales.SalesTransaction
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("invoice_number = ?", invoiceNumber).
		First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// FindAll finds transactions matching the filter
func (r *GormSalesRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*sales.SalesTransaction, int64, error) {
	return r.findPage(ctx, r.db.WithContext(ctx).Model(&sales.SalesTransaction{}), filter)
}

// FindByStore finds transactions for a store within a time range
func (r *GormSalesRepository) FindByStore(ctx context.Context, storeID uuid.UUID, from, to time.Time, filter shared.Filter) ([]*sales.SalesTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&sales.SalesTransaction{}).
		Where("store_id = ? AND sold_at >= ? AND sold_at < ?", storeID, from, to)
	return r.findPage(ctx, query, filter)
}

// FindByCustomer finds transactions for a customer
func (r *GormSalesRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]*sales.SalesTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&sales.SalesTransaction{}).
		Where("customer_id = ?", customerID)
	return r.findPage(ctx, query, filter)
}

// NextInvoiceNumber allocates the next invoice number for the store and time.
// The counter row is locked FOR UPDATE, so concurrent checkouts at the same
// store serialize on it and every sequence value is handed out exactly once.
func (r *GormSalesRepository) NextInvoiceNumber(ctx context.Context, storeID uuid.UUID, storeCode string, at time.Time) (string, error) {
	period := sales.PeriodFor(at)
	var invoiceNumber string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter sales.InvoiceCounter
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("store_id = ? AND period = ?", storeID, period).
			First(&counter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created, newErr := sales.NewInvoiceCounter(storeID, period)
			if newErr != nil {
				return newErr
			}
			// A concurrent checkout may create the same counter row first.
			// The unique index turns this into a no-op; re-read under lock.
			result := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "store_id"}, {Name: "period"}},
				DoNothing: true,
			}).Create(created)
			if result.Error != nil {
				return result.Error
			}
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("store_id = ? AND period = ?", storeID, period).
				First(&counter).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		seq := counter.Next()
		if err := tx.Model(&sales.InvoiceCounter{}).
			Where("id = ?", counter.ID).
			Updates(map[string]interface{}{
				"last_value": counter.LastValue,
				"updated_at": counter.UpdatedAt,
			}).Error; err != nil {
			return err
		}

		invoiceNumber = sales.FormatInvoiceNumber(storeCode, period, seq)
		return nil
	})
	if err != nil {
		return "", err
	}
	return invoiceNumber, nil
}

// StoreSummary aggregates completed sales for a store within a time range
func (r *GormSalesRepository) StoreSummary(ctx context.Context, storeID uuid.UUID, from, to time.Time) (*sales.StoreSalesSummary, error) {
	summary := &sales.StoreSalesSummary{
		StoreID: storeID,
		From:    from,
		To:      to,
	}

	type row struct {
		TransactionCount int64
		GrossSales       decimal.Decimal
		TotalDiscount    decimal.Decimal
		TotalTax         decimal.Decimal
	}
	var agg row
	if err := r.db.WithContext(ctx).
		Model(&sales.SalesTransaction{}).
		Select(
			"COUNT(*) AS transaction_count, "+
				"COALESCE(SUM(subtotal), 0) AS gross_sales, "+
				"COALESCE(SUM(discount_amount), 0) AS total_discount, "+
				"COALESCE(SUM(tax_amount), 0) AS total_tax",
		).
		Where("store_id = ? AND status = ? AND sold_at >= ? AND sold_at < ?",
			storeID, sales.TransactionStatusCompleted, from, to).
		Scan(&agg).Error; err != nil {
		return nil, err
	}

	var voidedCount int64
	if err := r.db.WithContext(ctx).
		Model(&sales.SalesTransaction{}).
		Where("store_id = ? AND status = ? AND sold_at >= ? AND sold_at < ?",
			storeID, sales.TransactionStatusVoided, from, to).
		Count(&voidedCount).Error; err != nil {
		return nil, err
	}

	summary.TransactionCount = agg.TransactionCount
	summary.VoidedCount = voidedCount
	summary.GrossSales = agg.GrossSales
	summary.TotalDiscount = agg.TotalDiscount
	summary.TotalTax = agg.TotalTax
	summary.NetSales = agg.GrossSales.Sub(agg.TotalDiscount).Add(agg.TotalTax)

	return summary, nil
}

// AppendAction records an audit entry for a transaction
func (r *GormSalesRepository) AppendAction(ctx context.Context, action *sales.SalesAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

// FindActions returns the audit trail for a transaction, oldest first
func (r *GormSalesRepository) FindActions(ctx context.Context, transactionID uuid.UUID) ([]*sales.SalesAction, error) {
	var actions []*sales.SalesAction
	if err := r.db.WithContext(ctx).
		Where("sales_transaction_id = ?", transactionID).
		Order("created_at ASC").
		Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

// findPage runs a filtered count-then-page query with items preloaded
func (r *GormSalesRepository) findPage(ctx context.Context, query *gorm.DB, filter shared.Filter) ([]*sales.SalesTransaction, int64, error) {
	var txns []*sales.SalesTransaction
	var total int64

	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, SalesSortFields, "sold_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Preload("Items").Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSalesRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "store_id":
			query = query.Where("store_id = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "cashier_id":
			query = query.Where("cashier_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "min_amount":
			if d, ok := value.(decimal.Decimal); ok {
				query = query.Where("total_amount >= ?", d)
			}
		case "max_amount":
			if d, ok := value.(decimal.Decimal); ok {
				query = query.Where("total_amount <= ?", d)
			}
		}
	}

	return query
}

// Ensure GormSalesRepository implements SalesRepository
var _ sales.SalesRepository = (*GormSalesRepository)(nil)
