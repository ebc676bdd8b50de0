package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/catalog"
	"github.com/pawmart/backend/internal/domain/inventory"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockInventoryRepository is a mock implementation of InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) FindByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, storeID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) FindOrCreate(ctx context.Context, storeID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, storeID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter inventory.InventoryFilter) ([]*inventory.InventoryItem, int64, error) {
	args := m.Called(ctx, storeID, filter)
	return args.Get(0).([]*inventory.InventoryItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockInventoryRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*inventory.InventoryItem, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]*inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) HasStockForStore(ctx context.Context, storeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, storeID)
	return args.Bool(0), args.Error(1)
}

// MockStockMovementRepository is a mock implementation of StockMovementRepository
type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockStockMovementRepository) FindByFilter(ctx context.Context, filter inventory.MovementFilter) ([]*inventory.StockMovement, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*inventory.StockMovement), args.Get(1).(int64), args.Error(2)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByBarcode(ctx context.Context, barcode string) (*catalog.Product, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) ExistsByBarcode(ctx context.Context, barcode string) (bool, error) {
	args := m.Called(ctx, barcode)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) CountByCategoryID(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Test Helpers
// =============================================================================

type inventoryServiceMocks struct {
	inventoryRepo *MockInventoryRepository
	movementRepo  *MockStockMovementRepository
	productRepo   *MockProductRepository
}

func newTestInventoryService() (*InventoryService, *inventoryServiceMocks) {
	mocks := &inventoryServiceMocks{
		inventoryRepo: new(MockInventoryRepository),
		movementRepo:  new(MockStockMovementRepository),
		productRepo:   new(MockProductRepository),
	}
	txScope := NewNoOpTransactionScope(mocks.inventoryRepo, mocks.movementRepo)
	service := NewInventoryService(mocks.inventoryRepo, mocks.movementRepo, mocks.productRepo, txScope)
	return service, mocks
}

func createTestProduct(t *testing.T, minStock int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("DOG-FOOD-001", "Premium Dog Food 5kg", "bag")
	if err != nil {
		t.Fatalf("create test product: %v", err)
	}
	if err := product.SetMinStock(decimal.NewFromInt(minStock)); err != nil {
		t.Fatalf("set min stock: %v", err)
	}
	product.ClearDomainEvents()
	return product
}

func createTestItem(t *testing.T, storeID, productID uuid.UUID, onHand int64) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(storeID, productID)
	if err != nil {
		t.Fatalf("create test item: %v", err)
	}
	if onHand > 0 {
		if err := item.Increase(decimal.NewFromInt(onHand)); err != nil {
			t.Fatalf("seed stock: %v", err)
		}
	}
	return item
}

// =============================================================================
// Tests
// =============================================================================

func TestInventoryService_GetStockLevel_Success(t *testing.T) {
	service, mocks := newTestInventoryService()

	ctx := context.Background()
	storeID := uuid.New()
	product := createTestProduct(t, 10)
	item := createTestItem(t, storeID, product.ID, 25)
	assert.NoError(t, item.Reserve(decimal.NewFromInt(5)))

	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mocks.inventoryRepo.On("FindByStoreAndProduct", ctx, storeID, product.ID).Return(item, nil)

	result, err := service.GetStockLevel(ctx, storeID, product.ID)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.OnHand.Equal(decimal.NewFromInt(25)))
	assert.True(t, result.Reserved.Equal(decimal.NewFromInt(5)))
	assert.True(t, result.Available.Equal(decimal.NewFromInt(20)))
	assert.False(t, result.LowStock)
}

func TestInventoryService_GetStockLevel_MissingRowIsZero(t *testing.T) {
	service, mocks := newTestInventoryService()

	ctx := context.Background()
	storeID := uuid.New()
	product := createTestProduct(t, 10)

	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mocks.inventoryRepo.On("FindByStoreAndProduct", ctx, storeID, product.ID).Return(nil, shared.ErrNotFound)

	result, err := service.GetStockLevel(ctx, storeID, product.ID)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.OnHand.IsZero())
	assert.True(t, result.LowStock)
}

func TestInventoryService_Adjust_Increase(t *testing.T) {
	service, mocks := newTestInventoryService()

	ctx := context.Background()
	storeID := uuid.New()
	product := createTestProduct(t, 0)
	item := createTestItem(t, storeID, product.ID, 10)

	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mocks.inventoryRepo.On("FindOrCreate", ctx, storeID, product.ID).Return(item, nil)
	mocks.inventoryRepo.On("Save", ctx, item).Return(nil)
	mocks.movementRepo.On("Append", ctx, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

	actorID := uuid.New()
	result, err := service.Adjust(ctx, &actorID, AdjustStockRequest{
		StoreID:   storeID,
		ProductID: product.ID,
		Delta:     decimal.NewFromInt(5),
		Reason:    "found extra stock in back room",
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.OnHand.Equal(decimal.NewFromInt(15)))

	movement := mocks.movementRepo.Calls[0].Arguments.Get(1).(*inventory.StockMovement)
	assert.Equal(t, inventory.MovementTypeAdjustment, movement.Type)
	assert.True(t, movement.Quantity.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, &actorID, movement.ActorID)
	mocks.inventoryRepo.AssertExpectations(t)
	mocks.movementRepo.AssertExpectations(t)
}

func TestInventoryService_Adjust_ZeroDelta(t *testing.T) {
	service, mocks := newTestInventoryService()

	ctx := context.Background()

	result, err := service.Adjust(ctx, nil, AdjustStockRequest{
		StoreID:   uuid.New(),
		ProductID: uuid.New(),
		Delta:     decimal.Zero,
		Reason:    "noop",
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	mocks.inventoryRepo.AssertNotCalled(t, "FindOrCreate", mock.Anything, mock.Anything, mock.Anything)
}

func TestInventoryService_Adjust_WouldGoNegative(t *testing.T) {
	service, mocks := newTestInventoryService()

	ctx := context.Background()
	storeID := uuid.New()
	product := createTestProduct(t, 0)
	item := createTestItem(t, storeID, product.ID, 3)

	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mocks.inventoryRepo.On("FindOrCreate", ctx, storeID, product.ID).Return(item, nil)

	result, err := service.Adjust(ctx, nil, AdjustStockRequest{
		StoreID:   storeID,
		ProductID: product.ID,
		Delta:     decimal.NewFromInt(-10),
		Reason:    "shrinkage",
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	mocks.inventoryRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mocks.movementRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestInventoryService_Recount_WritesDelta(t *testing.T) {
	service, mocks := newTestInventoryService()

	ctx := context.Background()
	storeID := uuid.New()
	product := createTestProduct(t, 0)
	item := createTestItem(t, storeID, product.ID, 20)

	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mocks.inventoryRepo.On("FindOrCreate", ctx, storeID, product.ID).Return(item, nil)
	mocks.inventoryRepo.On("Save", ctx, item).Return(nil)
	mocks.movementRepo.On("Append", ctx, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

	result, err := service.Recount(ctx, nil, RecountStockRequest{
		StoreID:         storeID,
		ProductID:       product.ID,
		CountedQuantity: decimal.NewFromInt(17),
		Note:            "quarterly count",
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.OnHand.Equal(decimal.NewFromInt(17)))
	assert.NotNil(t, result.LastCountedAt)

	movement := mocks.movementRepo.Calls[0].Arguments.Get(1).(*inventory.StockMovement)
	assert.Equal(t, inventory.MovementTypeRecount, movement.Type)
	assert.True(t, movement.Quantity.Equal(decimal.NewFromInt(-3)))
	mocks.movementRepo.AssertExpectations(t)
}

func TestInventoryService_Recount_NoChangeNoLedgerEntry(t *testing.T) {
	service, mocks := newTestInventoryService()

	ctx := context.Background()
	storeID := uuid.New()
	product := createTestProduct(t, 0)
	item := createTestItem(t, storeID, product.ID, 20)

	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mocks.inventoryRepo.On("FindOrCreate", ctx, storeID, product.ID).Return(item, nil)
	mocks.inventoryRepo.On("Save", ctx, item).Return(nil)

	result, err := service.Recount(ctx, nil, RecountStockRequest{
		StoreID:         storeID,
		ProductID:       product.ID,
		CountedQuantity: decimal.NewFromInt(20),
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	mocks.movementRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestInventoryService_ListByStore_JoinsThresholds(t *testing.T) {
	service, mocks := newTestInventoryService()

	ctx := context.Background()
	storeID := uuid.New()
	product := createTestProduct(t, 10)
	item := createTestItem(t, storeID, product.ID, 4)

	mocks.inventoryRepo.On("FindByStore", ctx, storeID, mock.AnythingOfType("inventory.InventoryFilter")).
		Return([]*inventory.InventoryItem{item}, int64(1), nil)
	mocks.productRepo.On("FindByIDs", ctx, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil)

	results, total, err := service.ListByStore(ctx, storeID, StockListFilter{})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, results, 1)
	assert.True(t, results[0].MinStock.Equal(decimal.NewFromInt(10)))
	assert.True(t, results[0].LowStock)
	mocks.inventoryRepo.AssertExpectations(t)
	mocks.productRepo.AssertExpectations(t)
}

func TestInventoryService_ListMovements_InvalidType(t *testing.T) {
	service, mocks := newTestInventoryService()

	ctx := context.Background()

	results, total, err := service.ListMovements(ctx, MovementListFilter{Type: "teleport"})

	assert.Error(t, err)
	assert.Nil(t, results)
	assert.Equal(t, int64(0), total)
	mocks.movementRepo.AssertNotCalled(t, "FindByFilter", mock.Anything, mock.Anything)
}

func TestInventoryService_ListMovements_Success(t *testing.T) {
	service, mocks := newTestInventoryService()

	ctx := context.Background()
	storeID := uuid.New()
	productID := uuid.New()
	movement, err := inventory.NewStockMovement(storeID, productID, inventory.MovementTypeSale, decimal.NewFromInt(-2))
	assert.NoError(t, err)

	mocks.movementRepo.On("FindByFilter", ctx, mock.AnythingOfType("inventory.MovementFilter")).
		Return([]*inventory.StockMovement{movement}, int64(1), nil)

	results, total, err := service.ListMovements(ctx, MovementListFilter{
		StoreID: &storeID,
		Type:    "sale",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, results, 1)
	assert.Equal(t, "sale", results[0].Type)

	filterArg := mocks.movementRepo.Calls[0].Arguments.Get(1).(inventory.MovementFilter)
	assert.Equal(t, &storeID, filterArg.StoreID)
	assert.NotNil(t, filterArg.Type)
	mocks.movementRepo.AssertExpectations(t)
}
