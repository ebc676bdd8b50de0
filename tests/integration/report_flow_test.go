package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reportapp "github.com/pawmart/backend/internal/application/report"
	salesapp "github.com/pawmart/backend/internal/application/sales"
	"github.com/pawmart/backend/internal/infrastructure/persistence"
)

func newReportService(tdb *TestDB) *reportapp.ReportService {
	return reportapp.NewReportService(
		persistence.NewGormStoreReportRepository(tdb.DB),
		persistence.NewGormStoreRepository(tdb.DB),
	)
}

func TestStorePerformanceReport(t *testing.T) {
	tdb := NewSharedTestDB(t)
	salesSvc := newSalesService(t, tdb)
	reportSvc := newReportService(tdb)
	ctx := context.Background()

	st := tdb.CreateTestStore("RPT-PF-" + uuid.NewString()[:8])
	fast := tdb.CreateTestProduct("SKU-FAST-"+uuid.NewString()[:8], "10.00")
	slow := tdb.CreateTestProduct("SKU-SLOW-"+uuid.NewString()[:8], "30.00")
	tdb.SeedStock(st.ID, fast.ID, "100")
	tdb.SeedStock(st.ID, slow.ID, "100")
	cashier := uuid.New()

	_, err := salesSvc.Checkout(ctx, cashier, salesapp.CheckoutRequest{
		StoreID: st.ID,
		Items: []salesapp.CheckoutItemRequest{
			{ProductID: fast.ID, Quantity: decimal.NewFromInt(5)},
			{ProductID: slow.ID, Quantity: decimal.NewFromInt(1)},
		},
		PaymentMethod: "cash",
		PaidAmount:    decimal.NewFromInt(80),
	})
	require.NoError(t, err)

	_, err = salesSvc.Checkout(ctx, cashier, salesapp.CheckoutRequest{
		StoreID: st.ID,
		Items: []salesapp.CheckoutItemRequest{
			{ProductID: fast.ID, Quantity: decimal.NewFromInt(3)},
		},
		PaymentMethod: "card",
		PaidAmount:    decimal.NewFromInt(30),
	})
	require.NoError(t, err)

	perf, err := reportSvc.GetStorePerformance(ctx, reportapp.StorePerformanceRequest{
		StoreID:     st.ID,
		PeriodStart: time.Now().Add(-24 * time.Hour),
		PeriodEnd:   time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, st.Code, perf.StoreCode)
	assert.Equal(t, int64(2), perf.SalesCount)
	assert.True(t, perf.GrossRevenue.Equal(decimal.NewFromInt(110)))
	assert.True(t, perf.ItemsSold.Equal(decimal.NewFromInt(9)))

	require.NotEmpty(t, perf.TopProducts)
	assert.Equal(t, fast.ID, perf.TopProducts[0].ProductID,
		"top product ranking is by quantity sold")
	assert.Equal(t, 1, perf.TopProducts[0].Rank)
}

func TestStorePerformanceRejectsInvertedPeriod(t *testing.T) {
	tdb := NewSharedTestDB(t)
	reportSvc := newReportService(tdb)

	st := tdb.CreateTestStore("RPT-IV-" + uuid.NewString()[:8])

	_, err := reportSvc.GetStorePerformance(context.Background(), reportapp.StorePerformanceRequest{
		StoreID:     st.ID,
		PeriodStart: time.Now(),
		PeriodEnd:   time.Now().Add(-time.Hour),
	})
	require.Error(t, err)
}

func TestDailyRevenueReport(t *testing.T) {
	tdb := NewSharedTestDB(t)
	salesSvc := newSalesService(t, tdb)
	reportSvc := newReportService(tdb)
	ctx := context.Background()

	st := tdb.CreateTestStore("RPT-DR-" + uuid.NewString()[:8])
	product := tdb.CreateTestProduct("SKU-DRV-"+uuid.NewString()[:8], "10.00")
	tdb.SeedStock(st.ID, product.ID, "50")
	cashier := uuid.New()

	_, err := salesSvc.Checkout(ctx, cashier, salesapp.CheckoutRequest{
		StoreID: st.ID,
		Items: []salesapp.CheckoutItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(2)},
		},
		PaymentMethod: "cash",
		PaidAmount:    decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	days, err := reportSvc.GetDailyRevenue(ctx, reportapp.StorePerformanceRequest{
		StoreID:     st.ID,
		PeriodStart: time.Now().Add(-24 * time.Hour),
		PeriodEnd:   time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.NotEmpty(t, days)

	var revenue decimal.Decimal
	for _, d := range days {
		revenue = revenue.Add(d.Revenue)
	}
	assert.True(t, revenue.Equal(decimal.NewFromInt(20)))
}

func TestLowStockReport(t *testing.T) {
	tdb := NewSharedTestDB(t)
	reportSvc := newReportService(tdb)
	ctx := context.Background()

	st := tdb.CreateTestStore("RPT-LS-" + uuid.NewString()[:8])
	product := tdb.CreateTestProduct("SKU-LSK-"+uuid.NewString()[:8], "10.00")

	// Raise the reorder threshold above the seeded quantity.
	require.NoError(t, tdb.DB.Exec(
		"UPDATE products SET min_stock = 10 WHERE id = ?", product.ID).Error)
	tdb.SeedStock(st.ID, product.ID, "4")

	entries, err := reportSvc.GetLowStock(ctx, &st.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, product.ID, entries[0].ProductID)
	assert.True(t, entries[0].OnHandQuantity.Equal(decimal.NewFromInt(4)))
	assert.True(t, entries[0].MinStock.Equal(decimal.NewFromInt(10)))
}
