package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invapp "github.com/pawmart/backend/internal/application/inventory"
	transferapp "github.com/pawmart/backend/internal/application/transfer"
	"github.com/pawmart/backend/internal/domain/transfer"
	"github.com/pawmart/backend/internal/infrastructure/event"
	"github.com/pawmart/backend/internal/infrastructure/logger"
	"github.com/pawmart/backend/internal/infrastructure/persistence"
)

func newTransferService(t *testing.T, tdb *TestDB) *transferapp.TransferService {
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	require.NoError(t, err)

	bus := event.NewInMemoryEventBus(log)
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	return transferapp.NewTransferService(
		persistence.NewGormTransferRepository(tdb.DB),
		persistence.NewGormProductRepository(tdb.DB),
		persistence.NewGormStoreRepository(tdb.DB),
		persistence.NewGormTransactionScope(tdb.DB),
		bus,
	)
}

func TestTransferApproveReservesSourceStock(t *testing.T) {
	tdb := NewSharedTestDB(t)
	svc := newTransferService(t, tdb)
	invSvc := newInventoryService(tdb)
	ctx := context.Background()

	dc := tdb.CreateTestDistributionCenter("DC-RES-" + uuid.NewString()[:8])
	shop := tdb.CreateTestStore("SH-RES-" + uuid.NewString()[:8])
	product := tdb.CreateTestProduct("SKU-TR-"+uuid.NewString()[:8], "6.00")
	tdb.SeedStock(dc.ID, product.ID, "30")

	requester := uuid.New()
	approver := uuid.New()

	created, err := svc.Create(ctx, requester, transferapp.CreateTransferRequest{
		SourceStoreID: dc.ID,
		DestStoreID:   shop.ID,
		Items: []transferapp.CreateTransferItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(10)},
		},
		Reason: "weekly replenishment",
	})
	require.NoError(t, err)
	assert.Equal(t, string(transfer.TransferStatusPending), created.Status)

	approved, err := svc.Approve(ctx, approver, created.ID, transferapp.ApproveTransferRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(transfer.TransferStatusApproved), approved.Status)
	require.Len(t, approved.Items, 1)
	assert.True(t, approved.Items[0].ApprovedQuantity.Equal(decimal.NewFromInt(10)),
		"an approval without quantities approves in full")

	level, err := invSvc.GetStockLevel(ctx, dc.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, level.OnHand.Equal(decimal.NewFromInt(30)))
	assert.True(t, level.Reserved.Equal(decimal.NewFromInt(10)))
	assert.True(t, level.Available.Equal(decimal.NewFromInt(20)))
}

func TestTransferCompleteMovesStock(t *testing.T) {
	tdb := NewSharedTestDB(t)
	svc := newTransferService(t, tdb)
	invSvc := newInventoryService(tdb)
	ctx := context.Background()

	dc := tdb.CreateTestDistributionCenter("DC-MV-" + uuid.NewString()[:8])
	shop := tdb.CreateTestStore("SH-MV-" + uuid.NewString()[:8])
	product := tdb.CreateTestProduct("SKU-MV-"+uuid.NewString()[:8], "6.00")
	tdb.SeedStock(dc.ID, product.ID, "25")

	requester := uuid.New()
	approver := uuid.New()

	created, err := svc.Create(ctx, requester, transferapp.CreateTransferRequest{
		SourceStoreID: dc.ID,
		DestStoreID:   shop.ID,
		Items: []transferapp.CreateTransferItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(8)},
		},
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, approver, created.ID, transferapp.ApproveTransferRequest{})
	require.NoError(t, err)

	completed, err := svc.Complete(ctx, approver, created.ID, transferapp.CompleteTransferRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(transfer.TransferStatusCompleted), completed.Status)
	require.Len(t, completed.Items, 1)
	assert.True(t, completed.Items[0].ReceivedQuantity.Equal(decimal.NewFromInt(8)),
		"a completion without a receipt body receives in full")

	source, err := invSvc.GetStockLevel(ctx, dc.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, source.OnHand.Equal(decimal.NewFromInt(17)))
	assert.True(t, source.Reserved.IsZero(), "completion must consume the reservation")

	dest, err := invSvc.GetStockLevel(ctx, shop.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, dest.OnHand.Equal(decimal.NewFromInt(8)))
}

func TestTransferCompleteShortReceipt(t *testing.T) {
	tdb := NewSharedTestDB(t)
	svc := newTransferService(t, tdb)
	invSvc := newInventoryService(tdb)
	ctx := context.Background()

	dc := tdb.CreateTestDistributionCenter("DC-SR-" + uuid.NewString()[:8])
	shop := tdb.CreateTestStore("SH-SR-" + uuid.NewString()[:8])
	product := tdb.CreateTestProduct("SKU-SR-"+uuid.NewString()[:8], "6.00")
	tdb.SeedStock(dc.ID, product.ID, "25")

	created, err := svc.Create(ctx, uuid.New(), transferapp.CreateTransferRequest{
		SourceStoreID: dc.ID,
		DestStoreID:   shop.ID,
		Items: []transferapp.CreateTransferItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(8)},
		},
	})
	require.NoError(t, err)

	approver := uuid.New()
	_, err = svc.Approve(ctx, approver, created.ID, transferapp.ApproveTransferRequest{})
	require.NoError(t, err)

	completed, err := svc.Complete(ctx, approver, created.ID, transferapp.CompleteTransferRequest{
		Items: []transferapp.ReceivedQuantityRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(6)},
		},
	})
	require.NoError(t, err)
	require.Len(t, completed.Items, 1)
	assert.True(t, completed.Items[0].ReceivedQuantity.Equal(decimal.NewFromInt(6)))

	// The full approved quantity left the source; only what arrived was booked.
	source, err := invSvc.GetStockLevel(ctx, dc.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, source.OnHand.Equal(decimal.NewFromInt(17)))

	dest, err := invSvc.GetStockLevel(ctx, shop.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, dest.OnHand.Equal(decimal.NewFromInt(6)))

	history, err := svc.GetHistory(ctx, created.ID)
	require.NoError(t, err)
	last := history[len(history)-1]
	assert.Contains(t, last.Note, "received 6 of 8 approved")
}

func TestTransferCreateFailsOnInsufficientStock(t *testing.T) {
	tdb := NewSharedTestDB(t)
	svc := newTransferService(t, tdb)
	ctx := context.Background()

	dc := tdb.CreateTestDistributionCenter("DC-IS-" + uuid.NewString()[:8])
	shop := tdb.CreateTestStore("SH-IS-" + uuid.NewString()[:8])
	product := tdb.CreateTestProduct("SKU-IS-"+uuid.NewString()[:8], "6.00")
	tdb.SeedStock(dc.ID, product.ID, "3")

	_, err := svc.Create(ctx, uuid.New(), transferapp.CreateTransferRequest{
		SourceStoreID: dc.ID,
		DestStoreID:   shop.ID,
		Items: []transferapp.CreateTransferItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(10)},
		},
	})
	require.Error(t, err)
}

func TestTransferApproveFailsOnInsufficientStock(t *testing.T) {
	tdb := NewSharedTestDB(t)
	svc := newTransferService(t, tdb)
	invSvc := newInventoryService(tdb)
	ctx := context.Background()

	dc := tdb.CreateTestDistributionCenter("DC-IA-" + uuid.NewString()[:8])
	shop := tdb.CreateTestStore("SH-IA-" + uuid.NewString()[:8])
	product := tdb.CreateTestProduct("SKU-IA-"+uuid.NewString()[:8], "6.00")
	tdb.SeedStock(dc.ID, product.ID, "10")

	created, err := svc.Create(ctx, uuid.New(), transferapp.CreateTransferRequest{
		SourceStoreID: dc.ID,
		DestStoreID:   shop.ID,
		Items: []transferapp.CreateTransferItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)

	// Stock drains between request and approval.
	actor := uuid.New()
	_, err = invSvc.Adjust(ctx, &actor, invapp.AdjustStockRequest{
		StoreID:   dc.ID,
		ProductID: product.ID,
		Delta:     decimal.NewFromInt(-7),
		Reason:    "damaged pallet written off",
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, uuid.New(), created.ID, transferapp.ApproveTransferRequest{})
	require.Error(t, err)

	// A failed approval leaves the request pending.
	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(transfer.TransferStatusPending), got.Status)
}

func TestTransferCancelReleasesReservation(t *testing.T) {
	tdb := NewSharedTestDB(t)
	svc := newTransferService(t, tdb)
	invSvc := newInventoryService(tdb)
	ctx := context.Background()

	dc := tdb.CreateTestDistributionCenter("DC-CN-" + uuid.NewString()[:8])
	shop := tdb.CreateTestStore("SH-CN-" + uuid.NewString()[:8])
	product := tdb.CreateTestProduct("SKU-CN-"+uuid.NewString()[:8], "6.00")
	tdb.SeedStock(dc.ID, product.ID, "15")

	created, err := svc.Create(ctx, uuid.New(), transferapp.CreateTransferRequest{
		SourceStoreID: dc.ID,
		DestStoreID:   shop.ID,
		Items: []transferapp.CreateTransferItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(5)},
		},
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, uuid.New(), created.ID, transferapp.ApproveTransferRequest{})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, uuid.New(), created.ID, transferapp.CancelTransferRequest{
		Reason: "replenishment no longer needed",
	})
	require.NoError(t, err)
	assert.Equal(t, string(transfer.TransferStatusCancelled), cancelled.Status)

	level, err := invSvc.GetStockLevel(ctx, dc.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, level.OnHand.Equal(decimal.NewFromInt(15)))
	assert.True(t, level.Reserved.IsZero(), "cancellation must release the reservation")
}

func TestTransferHistoryTracksStatusChanges(t *testing.T) {
	tdb := NewSharedTestDB(t)
	svc := newTransferService(t, tdb)
	ctx := context.Background()

	dc := tdb.CreateTestDistributionCenter("DC-HS-" + uuid.NewString()[:8])
	shop := tdb.CreateTestStore("SH-HS-" + uuid.NewString()[:8])
	product := tdb.CreateTestProduct("SKU-HS-"+uuid.NewString()[:8], "6.00")
	tdb.SeedStock(dc.ID, product.ID, "10")

	created, err := svc.Create(ctx, uuid.New(), transferapp.CreateTransferRequest{
		SourceStoreID: dc.ID,
		DestStoreID:   shop.ID,
		Items: []transferapp.CreateTransferItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)

	actor := uuid.New()
	_, err = svc.Approve(ctx, actor, created.ID, transferapp.ApproveTransferRequest{})
	require.NoError(t, err)
	_, err = svc.Complete(ctx, actor, created.ID, transferapp.CompleteTransferRequest{})
	require.NoError(t, err)

	history, err := svc.GetHistory(ctx, created.ID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(history), 3)

	actions, err := svc.GetActions(ctx, created.ID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(actions), 3)
}
