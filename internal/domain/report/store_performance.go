package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StorePerformance is a read model aggregating completed sales for one
// store over a period. Voided transactions are excluded.
type StorePerformance struct {
	StoreID      uuid.UUID       `json:"store_id"`
	StoreCode    string          `json:"store_code"`
	StoreName    string          `json:"store_name"`
	PeriodStart  time.Time       `json:"period_start"`
	PeriodEnd    time.Time       `json:"period_end"`
	SalesCount   int64           `json:"sales_count"`
	GrossRevenue decimal.Decimal `json:"gross_revenue"`
	ItemsSold    decimal.Decimal `json:"items_sold"`
	AvgSaleValue decimal.Decimal `json:"avg_sale_value"`
	TopProducts  []TopProduct    `json:"top_products"`
}

// TopProduct ranks a product by quantity sold within a store and period
type TopProduct struct {
	Rank         int             `json:"rank"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductSKU   string          `json:"product_sku"`
	ProductName  string          `json:"product_name"`
	QuantitySold decimal.Decimal `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// DailyRevenue is one day of a store's revenue trend
type DailyRevenue struct {
	Date       time.Time       `json:"date"`
	SalesCount int64           `json:"sales_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// LowStockEntry is a store/product pair at or below its minimum stock
type LowStockEntry struct {
	StoreID        uuid.UUID       `json:"store_id"`
	StoreCode      string          `json:"store_code"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductSKU     string          `json:"product_sku"`
	ProductName    string          `json:"product_name"`
	OnHandQuantity decimal.Decimal `json:"on_hand_quantity"`
	Reserved       decimal.Decimal `json:"reserved_quantity"`
	MinStock       decimal.Decimal `json:"min_stock"`
}

// PerformanceFilter bounds a store performance query
type PerformanceFilter struct {
	StoreID     uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
	TopN        int
}

// StoreReportRepository defines read-only aggregate queries over sales
// and inventory. Implementations query the write-side tables directly.
type StoreReportRepository interface {
	// GetStorePerformance aggregates completed sales for one store
	GetStorePerformance(ctx context.Context, filter PerformanceFilter) (*StorePerformance, error)

	// GetDailyRevenue returns the per-day revenue trend for one store
	GetDailyRevenue(ctx context.Context, filter PerformanceFilter) ([]DailyRevenue, error)

	// GetLowStockEntries returns items at or below their product's minimum
	// stock. A nil storeID spans all stores.
	GetLowStockEntries(ctx context.Context, storeID *uuid.UUID) ([]LowStockEntry, error)
}
