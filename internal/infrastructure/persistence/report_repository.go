package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pawmart/backend/internal/domain/report"
)

// GormStoreReportRepository answers read-only aggregate queries against the
// write-side sales and inventory tables.
type GormStoreReportRepository struct {
	db *gorm.DB
}

// NewGormStoreReportRepository creates a new GormStoreReportRepository
func NewGormStoreReportRepository(db *gorm.DB) *GormStoreReportRepository {
	return &GormStoreReportRepository{db: db}
}

// GetStorePerformance aggregates completed sales for one store over a period
func (r *GormStoreReportRepository) GetStorePerformance(ctx context.Context, filter report.PerformanceFilter) (*report.StorePerformance, error) {
	var header struct {
		SalesCount   int64
		GrossRevenue decimal.Decimal
	}

	err := r.db.WithContext(ctx).
		Table("sales_transactions").
		Select(`COUNT(*) AS sales_count,
			COALESCE(SUM(total_amount), 0) AS gross_revenue`).
		Where("store_id = ? AND status = ? AND sold_at >= ? AND sold_at < ?",
			filter.StoreID, "COMPLETED", filter.PeriodStart, filter.PeriodEnd).
		Scan(&header).Error
	if err != nil {
		return nil, err
	}

	// items sold comes from the line table; joining it into the header
	// query would double count revenue on multi-line sales
	var itemsSold decimal.Decimal
	err = r.db.WithContext(ctx).
		Table("sales_items si").
		Select("COALESCE(SUM(si.quantity), 0)").
		Joins("JOIN sales_transactions st ON st.id = si.sales_transaction_id").
		Where("st.store_id = ? AND st.status = ? AND st.sold_at >= ? AND st.sold_at < ?",
			filter.StoreID, "COMPLETED", filter.PeriodStart, filter.PeriodEnd).
		Scan(&itemsSold).Error
	if err != nil {
		return nil, err
	}

	topProducts, err := r.topProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	performance := &report.StorePerformance{
		StoreID:      filter.StoreID,
		PeriodStart:  filter.PeriodStart,
		PeriodEnd:    filter.PeriodEnd,
		SalesCount:   header.SalesCount,
		GrossRevenue: header.GrossRevenue,
		ItemsSold:    itemsSold,
		TopProducts:  topProducts,
	}
	if header.SalesCount > 0 {
		performance.AvgSaleValue = header.GrossRevenue.Div(decimal.NewFromInt(header.SalesCount)).Round(2)
	} else {
		performance.AvgSaleValue = decimal.Zero
	}

	return performance, nil
}

func (r *GormStoreReportRepository) topProducts(ctx context.Context, filter report.PerformanceFilter) ([]report.TopProduct, error) {
	type row struct {
		ProductID    uuid.UUID
		ProductSKU   string
		ProductName  string
		QuantitySold decimal.Decimal
		Revenue      decimal.Decimal
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Table("sales_items si").
		Select(`si.product_id,
			si.product_sku,
			si.product_name,
			SUM(si.quantity) AS quantity_sold,
			SUM(si.amount) AS revenue`).
		Joins("JOIN sales_transactions st ON st.id = si.sales_transaction_id").
		Where("st.store_id = ? AND st.status = ? AND st.sold_at >= ? AND st.sold_at < ?",
			filter.StoreID, "COMPLETED", filter.PeriodStart, filter.PeriodEnd).
		Group("si.product_id, si.product_sku, si.product_name").
		Order("quantity_sold DESC").
		Limit(filter.TopN).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	products := make([]report.TopProduct, len(rows))
	for i, row := range rows {
		products[i] = report.TopProduct{
			Rank:         i + 1,
			ProductID:    row.ProductID,
			ProductSKU:   row.ProductSKU,
			ProductName:  row.ProductName,
			QuantitySold: row.QuantitySold,
			Revenue:      row.Revenue,
		}
	}
	return products, nil
}

// GetDailyRevenue returns the per-day revenue trend for one store
func (r *GormStoreReportRepository) GetDailyRevenue(ctx context.Context, filter report.PerformanceFilter) ([]report.DailyRevenue, error) {
	var rows []report.DailyRevenue
	err := r.db.WithContext(ctx).
		Table("sales_transactions").
		Select(`DATE_TRUNC('day', sold_at) AS date,
			COUNT(*) AS sales_count,
			COALESCE(SUM(total_amount), 0) AS revenue`).
		Where("store_id = ? AND status = ? AND sold_at >= ? AND sold_at < ?",
			filter.StoreID, "COMPLETED", filter.PeriodStart, filter.PeriodEnd).
		Group("DATE_TRUNC('day', sold_at)").
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetLowStockEntries returns items at or below their product's minimum stock.
// Products with a zero threshold never alert.
func (r *GormStoreReportRepository) GetLowStockEntries(ctx context.Context, storeID *uuid.UUID) ([]report.LowStockEntry, error) {
	query := r.db.WithContext(ctx).
		Table("inventory_items ii").
		Select(`ii.store_id,
			s.code AS store_code,
			ii.product_id,
			p.sku AS product_sku,
			p.name AS product_name,
			ii.on_hand_quantity,
			ii.reserved_quantity AS reserved,
			p.min_stock`).
		Joins("JOIN products p ON p.id = ii.product_id").
		Joins("JOIN stores s ON s.id = ii.store_id").
		Where("p.min_stock > 0 AND ii.on_hand_quantity <= p.min_stock")

	if storeID != nil {
		query = query.Where("ii.store_id = ?", *storeID)
	}

	var entries []report.LowStockEntry
	if err := query.Order("s.code ASC, p.sku ASC").Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

var _ report.StoreReportRepository = (*GormStoreReportRepository)(nil)
