package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invapp "github.com/pawmart/backend/internal/application/inventory"
	"github.com/pawmart/backend/internal/infrastructure/persistence"
)

func newInventoryService(tdb *TestDB) *invapp.InventoryService {
	return invapp.NewInventoryService(
		persistence.NewGormInventoryRepository(tdb.DB),
		persistence.NewGormStockMovementRepository(tdb.DB),
		persistence.NewGormProductRepository(tdb.DB),
		persistence.NewGormTransactionScope(tdb.DB),
	)
}

func TestInventoryAdjustAndLedger(t *testing.T) {
	tdb := NewSharedTestDB(t)
	svc := newInventoryService(tdb)
	ctx := context.Background()

	st := tdb.CreateTestStore("INV-ADJ-" + uuid.NewString()[:8])
	product := tdb.CreateTestProduct("SKU-ADJ-"+uuid.NewString()[:8], "9.50")
	actor := uuid.New()

	level, err := svc.Adjust(ctx, &actor, invapp.AdjustStockRequest{
		StoreID:   st.ID,
		ProductID: product.ID,
		Delta:     decimal.NewFromInt(10),
		Reason:    "initial receipt",
	})
	require.NoError(t, err)
	assert.True(t, level.OnHand.Equal(decimal.NewFromInt(10)))

	level, err = svc.Adjust(ctx, &actor, invapp.AdjustStockRequest{
		StoreID:   st.ID,
		ProductID: product.ID,
		Delta:     decimal.NewFromInt(-4),
		Reason:    "damaged goods",
	})
	require.NoError(t, err)
	assert.True(t, level.OnHand.Equal(decimal.NewFromInt(6)))

	movements, total, err := svc.ListMovements(ctx, invapp.MovementListFilter{
		StoreID:   &st.ID,
		ProductID: &product.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, movements, 2)
}

func TestInventoryAdjustRejectsZeroDelta(t *testing.T) {
	tdb := NewSharedTestDB(t)
	svc := newInventoryService(tdb)

	st := tdb.CreateTestStore("INV-ZERO-" + uuid.NewString()[:8])
	product := tdb.CreateTestProduct("SKU-ZERO-"+uuid.NewString()[:8], "5.00")
	actor := uuid.New()

	_, err := svc.Adjust(context.Background(), &actor, invapp.AdjustStockRequest{
		StoreID:   st.ID,
		ProductID: product.ID,
		Delta:     decimal.Zero,
		Reason:    "noop",
	})
	require.Error(t, err)
}

func TestInventoryAdjustCannotGoNegative(t *testing.T) {
	tdb := NewSharedTestDB(t)
	svc := newInventoryService(tdb)
	ctx := context.Background()

	st := tdb.CreateTestStore("INV-NEG-" + uuid.NewString()[:8])
	product := tdb.CreateTestProduct("SKU-NEG-"+uuid.NewString()[:8], "5.00")
	tdb.SeedStock(st.ID, product.ID, "3")
	actor := uuid.New()

	_, err := svc.Adjust(ctx, &actor, invapp.AdjustStockRequest{
		StoreID:   st.ID,
		ProductID: product.ID,
		Delta:     decimal.NewFromInt(-5),
		Reason:    "over-adjustment",
	})
	require.Error(t, err)

	// The failed transaction must leave stock and the ledger untouched.
	level, err := svc.GetStockLevel(ctx, st.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, level.OnHand.Equal(decimal.NewFromInt(3)))

	_, total, err := svc.ListMovements(ctx, invapp.MovementListFilter{
		StoreID:   &st.ID,
		ProductID: &product.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestInventoryRecount(t *testing.T) {
	tdb := NewSharedTestDB(t)
	svc := newInventoryService(tdb)
	ctx := context.Background()

	st := tdb.CreateTestStore("INV-RC-" + uuid.NewString()[:8])
	product := tdb.CreateTestProduct("SKU-RC-"+uuid.NewString()[:8], "5.00")
	tdb.SeedStock(st.ID, product.ID, "12")
	actor := uuid.New()

	level, err := svc.Recount(ctx, &actor, invapp.RecountStockRequest{
		StoreID:         st.ID,
		ProductID:       product.ID,
		CountedQuantity: decimal.NewFromInt(9),
		Note:            "monthly count",
	})
	require.NoError(t, err)
	assert.True(t, level.OnHand.Equal(decimal.NewFromInt(9)))

	movements, total, err := svc.ListMovements(ctx, invapp.MovementListFilter{
		StoreID:   &st.ID,
		ProductID: &product.ID,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.True(t, movements[0].Quantity.Equal(decimal.NewFromInt(-3)),
		"recount must record the signed difference")

	// Recounting to the same quantity writes no ledger entry.
	_, err = svc.Recount(ctx, &actor, invapp.RecountStockRequest{
		StoreID:         st.ID,
		ProductID:       product.ID,
		CountedQuantity: decimal.NewFromInt(9),
	})
	require.NoError(t, err)

	_, total, err = svc.ListMovements(ctx, invapp.MovementListFilter{
		StoreID:   &st.ID,
		ProductID: &product.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
