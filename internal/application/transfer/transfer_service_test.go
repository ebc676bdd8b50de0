package transfer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	invapp "github.com/pawmart/backend/internal/application/inventory"
	"github.com/pawmart/backend/internal/domain/catalog"
	"github.com/pawmart/backend/internal/domain/inventory"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/pawmart/backend/internal/domain/store"
	"github.com/pawmart/backend/internal/domain/transfer"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockTransferRepository is a mock implementation of TransferRepository
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) Create(ctx context.Context, req *transfer.TransferRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockTransferRepository) Update(ctx context.Context, req *transfer.TransferRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockTransferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.TransferRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.TransferRequest), args.Error(1)
}

func (m *MockTransferRepository) FindByTransferNumber(ctx context.Context, transferNumber string) (*transfer.TransferRequest, error) {
	args := m.Called(ctx, transferNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.TransferRequest), args.Error(1)
}

func (m *MockTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*transfer.TransferRequest, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*transfer.TransferRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransferRepository) FindByStatus(ctx context.Context, status transfer.TransferStatus, filter shared.Filter) ([]*transfer.TransferRequest, int64, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]*transfer.TransferRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransferRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]*transfer.TransferRequest, int64, error) {
	args := m.Called(ctx, storeID, filter)
	return args.Get(0).([]*transfer.TransferRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransferRepository) ExistsByTransferNumber(ctx context.Context, transferNumber string) (bool, error) {
	args := m.Called(ctx, transferNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransferRepository) NextTransferNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockTransferRepository) AppendAction(ctx context.Context, action *transfer.TransferAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *MockTransferRepository) FindActions(ctx context.Context, transferID uuid.UUID) ([]*transfer.TransferAction, error) {
	args := m.Called(ctx, transferID)
	return args.Get(0).([]*transfer.TransferAction), args.Error(1)
}

func (m *MockTransferRepository) AppendHistory(ctx context.Context, history *transfer.TransferHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockTransferRepository) FindHistory(ctx context.Context, transferID uuid.UUID) ([]*transfer.TransferHistory, error) {
	args := m.Called(ctx, transferID)
	return args.Get(0).([]*transfer.TransferHistory), args.Error(1)
}

// MockStoreRepository is a mock implementation of store.StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

func (m *MockStoreRepository) FindByCode(ctx context.Context, code string) (*store.Store, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

func (m *MockStoreRepository) FindAll(ctx context.Context, filter shared.Filter) ([]store.Store, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]store.Store), args.Error(1)
}

func (m *MockStoreRepository) FindByRegionID(ctx context.Context, regionID uuid.UUID) ([]store.Store, error) {
	args := m.Called(ctx, regionID)
	return args.Get(0).([]store.Store), args.Error(1)
}

func (m *MockStoreRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockStoreRepository) Save(ctx context.Context, s *store.Store) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStoreRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockInventoryRepository is a mock implementation of inventory.InventoryRepository
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

// MockStockMovementRepository is a mock implementation of inventory.StockMovementRepository
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

type transferServiceMocks struct {
	transferRepo  *MockTransferRepository
	productRepo   *MockProductRepository
	storeRepo     *MockStoreRepository
	inventoryRepo *MockInventoryRepository
	movementRepo  *MockStockMovementRepository
}

func newTestTransferService() (*TransferService, *transferServiceMocks) {
	mocks := &transferServiceMocks{
		transferRepo:  new(MockTransferRepository),
		productRepo:   new(MockProductRepository),
		storeRepo:     new(MockStoreRepository),
		inventoryRepo: new(MockInventoryRepository),
		movementRepo:  new(MockStockMovementRepository),
	}
	txScope := invapp.NewNoOpTransactionScope(mocks.inventoryRepo, mocks.movementRepo).
		WithTransferRepo(mocks.transferRepo)
	service := NewTransferService(mocks.transferRepo, mocks.productRepo, mocks.storeRepo, txScope, nil)
	return service, mocks
}

func createTestStore(t *testing.T, code, name string) *store.Store {
	t.Helper()
	s, err := store.NewRetailStore(code, name)
	if err != nil {
		t.Fatalf("create test store: %v", err)
	}
	s.ClearDomainEvents()
	return s
}

func createTestProduct(t *testing.T) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("DOG-FOOD-001", "Premium Dog Food 5kg", "bag")
	if err != nil {
		t.Fatalf("create test product: %v", err)
	}
	product.ClearDomainEvents()
	return product
}

func createPendingTransfer(t *testing.T, sourceID, destID, productID uuid.UUID, quantity int64) *transfer.TransferRequest {
	t.Helper()
	request, err := transfer.NewTransferRequest("TR-20260801-0001", sourceID, destID, uuid.New(), "restock")
	if err != nil {
		t.Fatalf("create test transfer: %v", err)
	}
	if err := request.AddItem(productID, "Premium Dog Food 5kg", "DOG-FOOD-001", "bag", decimal.NewFromInt(quantity)); err != nil {
		t.Fatalf("add transfer item: %v", err)
	}
	request.ClearDomainEvents()
	return request
}

func createApprovedTransfer(t *testing.T, sourceID, destID, productID uuid.UUID, quantity int64) *transfer.TransferRequest {
	t.Helper()
	request := createPendingTransfer(t, sourceID, destID, productID, quantity)
	if err := request.Approve(uuid.New(), nil); err != nil {
		t.Fatalf("approve transfer: %v", err)
	}
	request.ClearDomainEvents()
	return request
}

func createStockedItem(t *testing.T, storeID, productID uuid.UUID, onHand int64) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(storeID, productID)
	if err != nil {
		t.Fatalf("create inventory item: %v", err)
	}
	if err := item.Increase(decimal.NewFromInt(onHand)); err != nil {
		t.Fatalf("seed stock: %v", err)
	}
	return item
}

// =============================================================================
// Tests
// =============================================================================

func TestTransferService_Create_Success(t *testing.T) {
	service, mocks := newTestTransferService()

	ctx := context.Background()
	source := createTestStore(t, "STR-001", "Downtown Store")
	dest := createTestStore(t, "STR-002", "Uptown Store")
	product := createTestProduct(t)
	actorID := uuid.New()

	mocks.storeRepo.On("FindByID", ctx, source.ID).Return(source, nil)
	mocks.storeRepo.On("FindByID", ctx, dest.ID).Return(dest, nil)
	mocks.transferRepo.On("NextTransferNumber", ctx).Return("TR-20260801-0005", nil)
	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mocks.inventoryRepo.On("FindByStoreAndProduct", ctx, source.ID, product.ID).
		Return(createStockedItem(t, source.ID, product.ID, 30), nil)
	mocks.transferRepo.On("Create", ctx, mock.AnythingOfType("*transfer.TransferRequest")).Return(nil)
	mocks.transferRepo.On("AppendAction", ctx, mock.AnythingOfType("*transfer.TransferAction")).Return(nil)
	mocks.transferRepo.On("AppendHistory", ctx, mock.AnythingOfType("*transfer.TransferHistory")).Return(nil)

	result, err := service.Create(ctx, actorID, CreateTransferRequest{
		SourceStoreID: source.ID,
		DestStoreID:   dest.ID,
		Items: []CreateTransferItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(12)},
		},
		Reason: "restock uptown",
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "TR-20260801-0005", result.TransferNumber)
	assert.Equal(t, "PENDING", result.Status)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, actorID, result.RequestedBy)
	mocks.transferRepo.AssertExpectations(t)
}

func TestTransferService_Create_SameStore(t *testing.T) {
	service, mocks := newTestTransferService()

	ctx := context.Background()
	source := createTestStore(t, "STR-001", "Downtown Store")

	mocks.storeRepo.On("FindByID", ctx, source.ID).Return(source, nil)
	mocks.transferRepo.On("NextTransferNumber", ctx).Return("TR-20260801-0006", nil)

	result, err := service.Create(ctx, uuid.New(), CreateTransferRequest{
		SourceStoreID: source.ID,
		DestStoreID:   source.ID,
		Items: []CreateTransferItemRequest{
			{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)},
		},
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SAME_STORE", domainErr.Code)
	mocks.transferRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTransferService_Create_InactiveSource(t *testing.T) {
	service, mocks := newTestTransferService()

	ctx := context.Background()
	source := createTestStore(t, "STR-001", "Downtown Store")
	assert.NoError(t, source.Deactivate())
	source.ClearDomainEvents()

	mocks.storeRepo.On("FindByID", ctx, source.ID).Return(source, nil)

	result, err := service.Create(ctx, uuid.New(), CreateTransferRequest{
		SourceStoreID: source.ID,
		DestStoreID:   uuid.New(),
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INACTIVE_STORE", domainErr.Code)
}

func TestTransferService_Create_InsufficientSourceStock(t *testing.T) {
	service, mocks := newTestTransferService()

	ctx := context.Background()
	source := createTestStore(t, "STR-001", "Downtown Store")
	dest := createTestStore(t, "STR-002", "Uptown Store")
	product := createTestProduct(t)

	mocks.storeRepo.On("FindByID", ctx, source.ID).Return(source, nil)
	mocks.storeRepo.On("FindByID", ctx, dest.ID).Return(dest, nil)
	mocks.transferRepo.On("NextTransferNumber", ctx).Return("TR-20260801-0007", nil)
	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mocks.inventoryRepo.On("FindByStoreAndProduct", ctx, source.ID, product.ID).
		Return(createStockedItem(t, source.ID, product.ID, 5), nil)

	result, err := service.Create(ctx, uuid.New(), CreateTransferRequest{
		SourceStoreID: source.ID,
		DestStoreID:   dest.ID,
		Items: []CreateTransferItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(12)},
		},
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	mocks.transferRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTransferService_Create_NoStockRecordAtSource(t *testing.T) {
	service, mocks := newTestTransferService()

	ctx := context.Background()
	source := createTestStore(t, "STR-001", "Downtown Store")
	dest := createTestStore(t, "STR-002", "Uptown Store")
	product := createTestProduct(t)

	mocks.storeRepo.On("FindByID", ctx, source.ID).Return(source, nil)
	mocks.storeRepo.On("FindByID", ctx, dest.ID).Return(dest, nil)
	mocks.transferRepo.On("NextTransferNumber", ctx).Return("TR-20260801-0008", nil)
	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mocks.inventoryRepo.On("FindByStoreAndProduct", ctx, source.ID, product.ID).
		Return(nil, shared.ErrNotFound)

	result, err := service.Create(ctx, uuid.New(), CreateTransferRequest{
		SourceStoreID: source.ID,
		DestStoreID:   dest.ID,
		Items: []CreateTransferItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(1)},
		},
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	mocks.transferRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTransferService_Approve_ReservesAtSource(t *testing.T) {
	service, mocks := newTestTransferService()

	ctx := context.Background()
	sourceID := uuid.New()
	destID := uuid.New()
	productID := uuid.New()
	request := createPendingTransfer(t, sourceID, destID, productID, 12)
	item := createStockedItem(t, sourceID, productID, 30)
	actorID := uuid.New()

	mocks.transferRepo.On("FindByID", ctx, request.ID).Return(request, nil)
	mocks.transferRepo.On("Update", ctx, request).Return(nil)
	mocks.inventoryRepo.On("FindByStoreAndProduct", ctx, sourceID, productID).Return(item, nil)
	mocks.inventoryRepo.On("Save", ctx, item).Return(nil)
	mocks.transferRepo.On("AppendAction", ctx, mock.AnythingOfType("*transfer.TransferAction")).Return(nil)
	mocks.transferRepo.On("AppendHistory", ctx, mock.AnythingOfType("*transfer.TransferHistory")).Return(nil)

	result, err := service.Approve(ctx, actorID, request.ID, ApproveTransferRequest{})

	assert.NoError(t, err)
	assert.Equal(t, "APPROVED", result.Status)
	assert.True(t, result.Items[0].ApprovedQuantity.Equal(decimal.NewFromInt(12)))
	assert.True(t, item.ReservedQuantity.Equal(decimal.NewFromInt(12)))
	assert.True(t, item.AvailableQuantity().Equal(decimal.NewFromInt(18)))
	mocks.inventoryRepo.AssertExpectations(t)
}

func TestTransferService_Approve_ReducedQuantity(t *testing.T) {
	service, mocks := newTestTransferService()

	ctx := context.Background()
	sourceID := uuid.New()
	productID := uuid.New()
	request := createPendingTransfer(t, sourceID, uuid.New(), productID, 12)
	item := createStockedItem(t, sourceID, productID, 30)

	mocks.transferRepo.On("FindByID", ctx, request.ID).Return(request, nil)
	mocks.transferRepo.On("Update", ctx, request).Return(nil)
	mocks.inventoryRepo.On("FindByStoreAndProduct", ctx, sourceID, productID).Return(item, nil)
	mocks.inventoryRepo.On("Save", ctx, item).Return(nil)
	mocks.transferRepo.On("AppendAction", ctx, mock.AnythingOfType("*transfer.TransferAction")).Return(nil)
	mocks.transferRepo.On("AppendHistory", ctx, mock.AnythingOfType("*transfer.TransferHistory")).Return(nil)

	result, err := service.Approve(ctx, uuid.New(), request.ID, ApproveTransferRequest{
		Quantities: []ApprovedQuantityRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(8)},
		},
	})

	assert.NoError(t, err)
	assert.True(t, result.Items[0].ApprovedQuantity.Equal(decimal.NewFromInt(8)))
	assert.True(t, item.ReservedQuantity.Equal(decimal.NewFromInt(8)))
}

func TestTransferService_Approve_InsufficientStock(t *testing.T) {
	service, mocks := newTestTransferService()

	ctx := context.Background()
	sourceID := uuid.New()
	productID := uuid.New()
	request := createPendingTransfer(t, sourceID, uuid.New(), productID, 50)
	item := createStockedItem(t, sourceID, productID, 30)

	mocks.transferRepo.On("FindByID", ctx, request.ID).Return(request, nil)
	mocks.inventoryRepo.On("FindByStoreAndProduct", ctx, sourceID, productID).Return(item, nil)

	result, err := service.Approve(ctx, uuid.New(), request.ID, ApproveTransferRequest{})

	assert.Error(t, err)
	assert.Nil(t, result)
	mocks.inventoryRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	// A failed reservation must not leave an approved transfer behind
	mocks.transferRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	mocks.transferRepo.AssertNotCalled(t, "AppendAction", mock.Anything, mock.Anything)
}

func TestTransferService_Reject_Success(t *testing.T) {
	service, mocks := newTestTransferService()

	ctx := context.Background()
	request := createPendingTransfer(t, uuid.New(), uuid.New(), uuid.New(), 12)

	mocks.transferRepo.On("FindByID", ctx, request.ID).Return(request, nil)
	mocks.transferRepo.On("Update", ctx, request).Return(nil)
	mocks.transferRepo.On("AppendAction", ctx, mock.AnythingOfType("*transfer.TransferAction")).Return(nil)
	mocks.transferRepo.On("AppendHistory", ctx, mock.AnythingOfType("*transfer.TransferHistory")).Return(nil)

	result, err := service.Reject(ctx, uuid.New(), request.ID, RejectTransferRequest{Reason: "not enough stock"})

	assert.NoError(t, err)
	assert.Equal(t, "REJECTED", result.Status)
	assert.Equal(t, "not enough stock", result.RejectReason)
	mocks.inventoryRepo.AssertNotCalled(t, "FindByStoreAndProduct", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransferService_Complete_MovesStock(t *testing.T) {
	service, mocks := newTestTransferService()

	ctx := context.Background()
	sourceID := uuid.New()
	destID := uuid.New()
	productID := uuid.New()
	request := createApprovedTransfer(t, sourceID, destID, productID, 12)
	actorID := uuid.New()

	sourceItem := createStockedItem(t, sourceID, productID, 30)
	assert.NoError(t, sourceItem.Reserve(decimal.NewFromInt(12)))
	destItem, err := inventory.NewInventoryItem(destID, productID)
	assert.NoError(t, err)

	mocks.transferRepo.On("FindByID", ctx, request.ID).Return(request, nil)
	mocks.transferRepo.On("Update", ctx, request).Return(nil)
	mocks.inventoryRepo.On("FindByStoreAndProduct", ctx, sourceID, productID).Return(sourceItem, nil)
	mocks.inventoryRepo.On("FindOrCreate", ctx, destID, productID).Return(destItem, nil)
	mocks.inventoryRepo.On("Save", ctx, mock.AnythingOfType("*inventory.InventoryItem")).Return(nil)
	mocks.movementRepo.On("Append", ctx, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)
	mocks.transferRepo.On("AppendAction", ctx, mock.AnythingOfType("*transfer.TransferAction")).Return(nil)
	mocks.transferRepo.On("AppendHistory", ctx, mock.AnythingOfType("*transfer.TransferHistory")).Return(nil)

	result, err := service.Complete(ctx, actorID, request.ID, CompleteTransferRequest{})

	assert.NoError(t, err)
	assert.Equal(t, "COMPLETED", result.Status)
	assert.True(t, result.Items[0].ReceivedQuantity.Equal(decimal.NewFromInt(12)))
	assert.True(t, sourceItem.OnHandQuantity.Equal(decimal.NewFromInt(18)))
	assert.True(t, sourceItem.ReservedQuantity.IsZero())
	assert.True(t, destItem.OnHandQuantity.Equal(decimal.NewFromInt(12)))

	outMovement := mocks.movementRepo.Calls[0].Arguments.Get(1).(*inventory.StockMovement)
	inMovement := mocks.movementRepo.Calls[1].Arguments.Get(1).(*inventory.StockMovement)
	assert.Equal(t, inventory.MovementTypeTransferOut, outMovement.Type)
	assert.True(t, outMovement.Quantity.Equal(decimal.NewFromInt(-12)))
	assert.Equal(t, sourceID, outMovement.StoreID)
	assert.Equal(t, inventory.MovementTypeTransferIn, inMovement.Type)
	assert.True(t, inMovement.Quantity.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, destID, inMovement.StoreID)
	assert.Equal(t, "transfer", outMovement.ReferenceType)
	assert.Equal(t, request.ID, *outMovement.ReferenceID)
	mocks.movementRepo.AssertExpectations(t)
}

func TestTransferService_Complete_ShortReceipt(t *testing.T) {
	service, mocks := newTestTransferService()

	ctx := context.Background()
	sourceID := uuid.New()
	destID := uuid.New()
	productID := uuid.New()
	request := createApprovedTransfer(t, sourceID, destID, productID, 12)

	sourceItem := createStockedItem(t, sourceID, productID, 30)
	assert.NoError(t, sourceItem.Reserve(decimal.NewFromInt(12)))
	destItem, err := inventory.NewInventoryItem(destID, productID)
	assert.NoError(t, err)

	mocks.transferRepo.On("FindByID", ctx, request.ID).Return(request, nil)
	mocks.transferRepo.On("Update", ctx, request).Return(nil)
	mocks.inventoryRepo.On("FindByStoreAndProduct", ctx, sourceID, productID).Return(sourceItem, nil)
	mocks.inventoryRepo.On("FindOrCreate", ctx, destID, productID).Return(destItem, nil)
	mocks.inventoryRepo.On("Save", ctx, mock.AnythingOfType("*inventory.InventoryItem")).Return(nil)
	mocks.movementRepo.On("Append", ctx, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)
	mocks.transferRepo.On("AppendAction", ctx, mock.AnythingOfType("*transfer.TransferAction")).Return(nil)
	mocks.transferRepo.On("AppendHistory", ctx, mock.AnythingOfType("*transfer.TransferHistory")).Return(nil)

	result, err := service.Complete(ctx, uuid.New(), request.ID, CompleteTransferRequest{
		Items: []ReceivedQuantityRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(9)},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "COMPLETED", result.Status)
	// The full approved quantity leaves the source; only what arrived is
	// booked at the destination
	assert.True(t, result.Items[0].ReceivedQuantity.Equal(decimal.NewFromInt(9)))
	assert.True(t, sourceItem.OnHandQuantity.Equal(decimal.NewFromInt(18)))
	assert.True(t, destItem.OnHandQuantity.Equal(decimal.NewFromInt(9)))

	inMovement := mocks.movementRepo.Calls[1].Arguments.Get(1).(*inventory.StockMovement)
	assert.True(t, inMovement.Quantity.Equal(decimal.NewFromInt(9)))

	history := mocks.transferRepo.Calls[len(mocks.transferRepo.Calls)-1].Arguments.Get(1).(*transfer.TransferHistory)
	assert.Contains(t, history.Note, "DOG-FOOD-001")
	assert.Contains(t, history.Note, "received 9 of 12 approved")
}

func TestTransferService_Complete_OverReceiptRejected(t *testing.T) {
	service, mocks := newTestTransferService()

	ctx := context.Background()
	productID := uuid.New()
	request := createApprovedTransfer(t, uuid.New(), uuid.New(), productID, 12)

	mocks.transferRepo.On("FindByID", ctx, request.ID).Return(request, nil)

	result, err := service.Complete(ctx, uuid.New(), request.ID, CompleteTransferRequest{
		Items: []ReceivedQuantityRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(13)},
		},
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "QUANTITY_EXCEEDED", domainErr.Code)
	mocks.transferRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTransferService_Complete_PendingRejected(t *testing.T) {
	service, mocks := newTestTransferService()

	ctx := context.Background()
	request := createPendingTransfer(t, uuid.New(), uuid.New(), uuid.New(), 12)

	mocks.transferRepo.On("FindByID", ctx, request.ID).Return(request, nil)

	result, err := service.Complete(ctx, uuid.New(), request.ID, CompleteTransferRequest{})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	mocks.transferRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTransferService_Cancel_ReleasesReservation(t *testing.T) {
	service, mocks := newTestTransferService()

	ctx := context.Background()
	sourceID := uuid.New()
	productID := uuid.New()
	request := createApprovedTransfer(t, sourceID, uuid.New(), productID, 12)

	item := createStockedItem(t, sourceID, productID, 30)
	assert.NoError(t, item.Reserve(decimal.NewFromInt(12)))

	mocks.transferRepo.On("FindByID", ctx, request.ID).Return(request, nil)
	mocks.transferRepo.On("Update", ctx, request).Return(nil)
	mocks.inventoryRepo.On("FindByStoreAndProduct", ctx, sourceID, productID).Return(item, nil)
	mocks.inventoryRepo.On("Save", ctx, item).Return(nil)
	mocks.transferRepo.On("AppendAction", ctx, mock.AnythingOfType("*transfer.TransferAction")).Return(nil)
	mocks.transferRepo.On("AppendHistory", ctx, mock.AnythingOfType("*transfer.TransferHistory")).Return(nil)

	result, err := service.Cancel(ctx, uuid.New(), request.ID, CancelTransferRequest{Reason: "no longer needed"})

	assert.NoError(t, err)
	assert.Equal(t, "CANCELLED", result.Status)
	assert.True(t, item.ReservedQuantity.IsZero())
	assert.True(t, item.OnHandQuantity.Equal(decimal.NewFromInt(30)))
	mocks.movementRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestTransferService_Delete_NonPendingRejected(t *testing.T) {
	service, mocks := newTestTransferService()

	ctx := context.Background()
	request := createApprovedTransfer(t, uuid.New(), uuid.New(), uuid.New(), 12)

	mocks.transferRepo.On("FindByID", ctx, request.ID).Return(request, nil)

	err := service.Delete(ctx, request.ID)

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	mocks.transferRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestTransferService_List_InvalidStatus(t *testing.T) {
	service, mocks := newTestTransferService()

	ctx := context.Background()

	results, total, err := service.List(ctx, TransferListFilter{Status: "SHIPPED"})

	assert.Error(t, err)
	assert.Nil(t, results)
	assert.Equal(t, int64(0), total)
	mocks.transferRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestTransferService_ListByStore_Success(t *testing.T) {
	service, mocks := newTestTransferService()

	ctx := context.Background()
	storeID := uuid.New()
	request := createPendingTransfer(t, storeID, uuid.New(), uuid.New(), 5)

	mocks.transferRepo.On("FindByStore", ctx, storeID, mock.AnythingOfType("shared.Filter")).
		Return([]*transfer.TransferRequest{request}, int64(1), nil)

	results, total, err := service.ListByStore(ctx, storeID, TransferListFilter{})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, results, 1)
	assert.Equal(t, "PENDING", results[0].Status)
	mocks.transferRepo.AssertExpectations(t)
}
