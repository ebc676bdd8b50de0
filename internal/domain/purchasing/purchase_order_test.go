package purchasing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers for PurchaseOrder
func createTestPurchaseOrder(t *testing.T) *PurchaseOrder {
	supplierID := uuid.New()
	storeID := uuid.New()
	createdBy := uuid.New()
	order, err := NewPurchaseOrder("PO-202608-0001", supplierID, "Happy Paws Wholesale", storeID, createdBy)
	require.NoError(t, err)
	return order
}

func addTestItem(t *testing.T, order *PurchaseOrder, sku string, quantity, cost float64) *PurchaseOrderItem {
	productID := uuid.New()
	err := order.AddItem(productID, "Test Product "+sku, sku, "pcs", decimal.NewFromFloat(quantity), decimal.NewFromFloat(cost))
	require.NoError(t, err)
	item, ok := order.GetItemByProduct(productID)
	require.True(t, ok)
	return item
}

// ============================================
// PurchaseOrderStatus Tests
// ============================================

func TestPurchaseOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  PurchaseOrderStatus
		isValid bool
	}{
		{PurchaseOrderStatusDraft, true},
		{PurchaseOrderStatusConfirmed, true},
		{PurchaseOrderStatusPartialReceived, true},
		{PurchaseOrderStatusCompleted, true},
		{PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatus("INVALID"), false},
		{PurchaseOrderStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestPurchaseOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     PurchaseOrderStatus
		to       PurchaseOrderStatus
		canTrans bool
	}{
		// From DRAFT
		{PurchaseOrderStatusDraft, PurchaseOrderStatusConfirmed, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusPartialReceived, false},
		{PurchaseOrderStatusDraft, PurchaseOrderStatusCompleted, false},
		// From CONFIRMED
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusPartialReceived, true},
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusCompleted, true},
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusCancelled, true},
		{PurchaseOrderStatusConfirmed, PurchaseOrderStatusDraft, false},
		// From PARTIAL_RECEIVED
		{PurchaseOrderStatusPartialReceived, PurchaseOrderStatusCompleted, true},
		{PurchaseOrderStatusPartialReceived, PurchaseOrderStatusCancelled, false},
		{PurchaseOrderStatusPartialReceived, PurchaseOrderStatusDraft, false},
		// Terminal states
		{PurchaseOrderStatusCompleted, PurchaseOrderStatusCancelled, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusDraft, false},
		{PurchaseOrderStatusCancelled, PurchaseOrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPurchaseOrderStatus_CanReceive(t *testing.T) {
	tests := []struct {
		status     PurchaseOrderStatus
		canReceive bool
	}{
		{PurchaseOrderStatusDraft, false},
		{PurchaseOrderStatusConfirmed, true},
		{PurchaseOrderStatusPartialReceived, true},
		{PurchaseOrderStatusCompleted, false},
		{PurchaseOrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.canReceive, tt.status.CanReceive())
		})
	}
}

// ============================================
// NewPurchaseOrder Tests
// ============================================

func TestNewPurchaseOrder(t *testing.T) {
	supplierID := uuid.New()
	storeID := uuid.New()
	createdBy := uuid.New()

	t.Run("creates order with valid inputs", func(t *testing.T) {
		order, err := NewPurchaseOrder("PO-202608-0001", supplierID, "Happy Paws Wholesale", storeID, createdBy)
		require.NoError(t, err)
		assert.Equal(t, "PO-202608-0001", order.OrderNumber)
		assert.Equal(t, supplierID, order.SupplierID)
		assert.Equal(t, storeID, order.StoreID)
		assert.Equal(t, PurchaseOrderStatusDraft, order.Status)
		assert.True(t, order.TotalAmount.IsZero())
		assert.Empty(t, order.Items)
		assert.Len(t, order.GetDomainEvents(), 1)
	})

	t.Run("rejects empty order number", func(t *testing.T) {
		_, err := NewPurchaseOrder("", supplierID, "Happy Paws Wholesale", storeID, createdBy)
		assert.Error(t, err)
	})

	t.Run("rejects nil supplier", func(t *testing.T) {
		_, err := NewPurchaseOrder("PO-202608-0002", uuid.Nil, "Happy Paws Wholesale", storeID, createdBy)
		assert.Error(t, err)
	})

	t.Run("rejects nil store", func(t *testing.T) {
		_, err := NewPurchaseOrder("PO-202608-0003", supplierID, "Happy Paws Wholesale", uuid.Nil, createdBy)
		assert.Error(t, err)
	})
}

// ============================================
// Item Management Tests
// ============================================

func TestPurchaseOrder_AddItem(t *testing.T) {
	t.Run("adds item and recalculates totals", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		addTestItem(t, order, "DOG-FOOD-5KG", 10, 25.50)

		assert.Len(t, order.Items, 1)
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(255)))
		assert.True(t, order.PayableAmount.Equal(decimal.NewFromFloat(255)))
	})

	t.Run("rejects duplicate product", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		productID := uuid.New()
		err := order.AddItem(productID, "Cat Tree", "CAT-TREE-L", "pcs", decimal.NewFromInt(2), decimal.NewFromInt(80))
		require.NoError(t, err)

		err = order.AddItem(productID, "Cat Tree", "CAT-TREE-L", "pcs", decimal.NewFromInt(1), decimal.NewFromInt(80))
		assert.Error(t, err)
	})

	t.Run("rejects non positive quantity", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		err := order.AddItem(uuid.New(), "Leash", "LEASH-M", "pcs", decimal.Zero, decimal.NewFromInt(5))
		assert.Error(t, err)
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		err := order.AddItem(uuid.New(), "Leash", "LEASH-M", "pcs", decimal.NewFromInt(1), decimal.NewFromInt(-5))
		assert.Error(t, err)
	})

	t.Run("rejects adding after confirm", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		addTestItem(t, order, "BIRD-SEED-1KG", 5, 4)
		require.NoError(t, order.Confirm())

		err := order.AddItem(uuid.New(), "Leash", "LEASH-M", "pcs", decimal.NewFromInt(1), decimal.NewFromInt(5))
		assert.Error(t, err)
	})
}

func TestPurchaseOrder_UpdateItemQuantity(t *testing.T) {
	order := createTestPurchaseOrder(t)
	item := addTestItem(t, order, "DOG-FOOD-5KG", 10, 25)

	t.Run("updates quantity and amount", func(t *testing.T) {
		err := order.UpdateItemQuantity(item.ID, decimal.NewFromInt(20))
		require.NoError(t, err)

		updated, ok := order.GetItem(item.ID)
		require.True(t, ok)
		assert.True(t, updated.OrderedQuantity.Equal(decimal.NewFromInt(20)))
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(500)))
	})

	t.Run("rejects unknown item", func(t *testing.T) {
		err := order.UpdateItemQuantity(uuid.New(), decimal.NewFromInt(5))
		assert.Error(t, err)
	})
}

func TestPurchaseOrder_RemoveItem(t *testing.T) {
	order := createTestPurchaseOrder(t)
	item := addTestItem(t, order, "DOG-FOOD-5KG", 10, 25)
	addTestItem(t, order, "CAT-LITTER-10L", 4, 12)

	err := order.RemoveItem(item.ID)
	require.NoError(t, err)
	assert.Len(t, order.Items, 1)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(48)))
}

func TestPurchaseOrder_ApplyDiscount(t *testing.T) {
	order := createTestPurchaseOrder(t)
	addTestItem(t, order, "DOG-FOOD-5KG", 10, 25)

	t.Run("applies discount to payable", func(t *testing.T) {
		err := order.ApplyDiscount(decimal.NewFromInt(50))
		require.NoError(t, err)
		assert.True(t, order.PayableAmount.Equal(decimal.NewFromInt(200)))
	})

	t.Run("rejects discount above total", func(t *testing.T) {
		err := order.ApplyDiscount(decimal.NewFromInt(500))
		assert.Error(t, err)
	})

	t.Run("rejects negative discount", func(t *testing.T) {
		err := order.ApplyDiscount(decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

// ============================================
// Lifecycle Tests
// ============================================

func TestPurchaseOrder_Confirm(t *testing.T) {
	t.Run("confirms draft order with items", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		addTestItem(t, order, "DOG-FOOD-5KG", 10, 25)
		order.ClearDomainEvents()

		err := order.Confirm()
		require.NoError(t, err)
		assert.Equal(t, PurchaseOrderStatusConfirmed, order.Status)
		assert.NotNil(t, order.ConfirmedAt)
		assert.Len(t, order.GetDomainEvents(), 1)
	})

	t.Run("rejects confirm without items", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		err := order.Confirm()
		assert.Error(t, err)
	})

	t.Run("rejects double confirm", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		addTestItem(t, order, "DOG-FOOD-5KG", 10, 25)
		require.NoError(t, order.Confirm())

		err := order.Confirm()
		assert.Error(t, err)
	})
}

func TestPurchaseOrder_Receive(t *testing.T) {
	setup := func(t *testing.T) (*PurchaseOrder, uuid.UUID, uuid.UUID) {
		order := createTestPurchaseOrder(t)
		itemA := addTestItem(t, order, "DOG-FOOD-5KG", 10, 25)
		itemB := addTestItem(t, order, "CAT-LITTER-10L", 4, 12)
		require.NoError(t, order.Confirm())
		return order, itemA.ProductID, itemB.ProductID
	}

	t.Run("partial receipt keeps order open", func(t *testing.T) {
		order, productA, _ := setup(t)

		infos, err := order.Receive([]ReceiveItem{
			{ProductID: productA, Quantity: decimal.NewFromInt(6)},
		})
		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, PurchaseOrderStatusPartialReceived, order.Status)
		assert.True(t, infos[0].Quantity.Equal(decimal.NewFromInt(6)))
	})

	t.Run("full receipt completes order", func(t *testing.T) {
		order, productA, productB := setup(t)

		_, err := order.Receive([]ReceiveItem{
			{ProductID: productA, Quantity: decimal.NewFromInt(10)},
			{ProductID: productB, Quantity: decimal.NewFromInt(4)},
		})
		require.NoError(t, err)
		assert.Equal(t, PurchaseOrderStatusCompleted, order.Status)
		assert.NotNil(t, order.CompletedAt)
	})

	t.Run("receipt across multiple deliveries completes order", func(t *testing.T) {
		order, productA, productB := setup(t)

		_, err := order.Receive([]ReceiveItem{{ProductID: productA, Quantity: decimal.NewFromInt(10)}})
		require.NoError(t, err)
		assert.Equal(t, PurchaseOrderStatusPartialReceived, order.Status)

		_, err = order.Receive([]ReceiveItem{{ProductID: productB, Quantity: decimal.NewFromInt(4)}})
		require.NoError(t, err)
		assert.Equal(t, PurchaseOrderStatusCompleted, order.Status)
	})

	t.Run("rejects over receipt", func(t *testing.T) {
		order, productA, _ := setup(t)

		_, err := order.Receive([]ReceiveItem{{ProductID: productA, Quantity: decimal.NewFromInt(11)}})
		assert.Error(t, err)
		assert.Equal(t, PurchaseOrderStatusConfirmed, order.Status)
	})

	t.Run("rejects receipt on draft order", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		item := addTestItem(t, order, "DOG-FOOD-5KG", 10, 25)

		_, err := order.Receive([]ReceiveItem{{ProductID: item.ProductID, Quantity: decimal.NewFromInt(1)}})
		assert.Error(t, err)
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		order, _, _ := setup(t)

		_, err := order.Receive([]ReceiveItem{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)}})
		assert.Error(t, err)
	})
}

func TestPurchaseOrder_Cancel(t *testing.T) {
	t.Run("cancels draft order", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		err := order.Cancel("supplier out of business")
		require.NoError(t, err)
		assert.Equal(t, PurchaseOrderStatusCancelled, order.Status)
		assert.Equal(t, "supplier out of business", order.CancelReason)
	})

	t.Run("cancels confirmed order before receipt", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		addTestItem(t, order, "DOG-FOOD-5KG", 10, 25)
		require.NoError(t, order.Confirm())

		err := order.Cancel("ordered by mistake")
		require.NoError(t, err)
		assert.Equal(t, PurchaseOrderStatusCancelled, order.Status)
	})

	t.Run("rejects cancel without reason", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		err := order.Cancel("")
		assert.Error(t, err)
	})

	t.Run("rejects cancel after partial receipt", func(t *testing.T) {
		order := createTestPurchaseOrder(t)
		item := addTestItem(t, order, "DOG-FOOD-5KG", 10, 25)
		require.NoError(t, order.Confirm())
		_, err := order.Receive([]ReceiveItem{{ProductID: item.ProductID, Quantity: decimal.NewFromInt(1)}})
		require.NoError(t, err)

		err = order.Cancel("changed my mind")
		assert.Error(t, err)
	})
}

// ============================================
// Query Tests
// ============================================

func TestPurchaseOrder_ReceiveProgress(t *testing.T) {
	order := createTestPurchaseOrder(t)
	itemA := addTestItem(t, order, "DOG-FOOD-5KG", 10, 25)
	addTestItem(t, order, "CAT-LITTER-10L", 10, 12)
	require.NoError(t, order.Confirm())

	assert.True(t, order.ReceiveProgress().IsZero())

	_, err := order.Receive([]ReceiveItem{{ProductID: itemA.ProductID, Quantity: decimal.NewFromInt(10)}})
	require.NoError(t, err)
	assert.True(t, order.ReceiveProgress().Equal(decimal.NewFromInt(50)))
}

func TestPurchaseOrder_SetExpectedDate(t *testing.T) {
	order := createTestPurchaseOrder(t)
	expected := time.Now().AddDate(0, 0, 14)

	require.NoError(t, order.SetExpectedDate(expected))
	require.NotNil(t, order.ExpectedDate)
	assert.True(t, order.ExpectedDate.Equal(expected))
}

func TestNewPurchaseOrderAction(t *testing.T) {
	orderID := uuid.New()
	actorID := uuid.New()

	action := NewPurchaseOrderAction(orderID, ActionTypeConfirm, actorID).
		WithTransition(PurchaseOrderStatusDraft, PurchaseOrderStatusConfirmed).
		WithNote("approved by manager")

	assert.Equal(t, orderID, action.PurchaseOrderID)
	assert.Equal(t, ActionTypeConfirm, action.Action)
	assert.Equal(t, "DRAFT", action.FromStatus)
	assert.Equal(t, "CONFIRMED", action.ToStatus)
	assert.Equal(t, "approved by manager", action.Note)
}
