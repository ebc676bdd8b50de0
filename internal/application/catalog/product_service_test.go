package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/catalog"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockProductRepository is a mock implementation of ProductRepository
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

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByCode(ctx context.Context, code string) (*catalog.Category, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]catalog.Category, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockBrandRepository is a mock implementation of BrandRepository
type MockBrandRepository struct {
	mock.Mock
}

func (m *MockBrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Brand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Brand), args.Error(1)
}

func (m *MockBrandRepository) FindByCode(ctx context.Context, code string) (*catalog.Brand, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Brand), args.Error(1)
}

func (m *MockBrandRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Brand, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Brand), args.Error(1)
}

func (m *MockBrandRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockBrandRepository) Save(ctx context.Context, brand *catalog.Brand) error {
	args := m.Called(ctx, brand)
	return args.Error(0)
}

func (m *MockBrandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBrandRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockImageStorage is a mock implementation of ImageStorage
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockImageStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockImageStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockImageStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

// =============================================================================
// Test Helpers
// =============================================================================

type productServiceMocks struct {
	productRepo  *MockProductRepository
	categoryRepo *MockCategoryRepository
	brandRepo    *MockBrandRepository
	storage      *MockImageStorage
}

func newTestProductService() (*ProductService, *productServiceMocks) {
	mocks := &productServiceMocks{
		productRepo:  new(MockProductRepository),
		categoryRepo: new(MockCategoryRepository),
		brandRepo:    new(MockBrandRepository),
		storage:      new(MockImageStorage),
	}
	service := NewProductService(mocks.productRepo, mocks.categoryRepo, mocks.brandRepo, mocks.storage, nil)
	return service, mocks
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

// =============================================================================
// Product Tests
// =============================================================================

func TestProductService_Create_Success(t *testing.T) {
	service, mocks := newTestProductService()

	ctx := context.Background()
	cost := decimal.NewFromFloat(12.50)
	selling := decimal.NewFromFloat(24.99)
	req := CreateProductRequest{
		SKU:          "DOG-FOOD-002",
		Name:         "Grain-Free Dog Food 10kg",
		Unit:         "bag",
		CostPrice:    &cost,
		SellingPrice: &selling,
	}

	mocks.productRepo.On("ExistsBySKU", ctx, req.SKU).Return(false, nil)
	mocks.productRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := service.Create(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "DOG-FOOD-002", result.SKU)
	assert.True(t, result.CostPrice.Equal(cost))
	assert.True(t, result.SellingPrice.Equal(selling))
	assert.Equal(t, "active", result.Status)
	mocks.productRepo.AssertExpectations(t)
}

func TestProductService_Create_DuplicateSKU(t *testing.T) {
	service, mocks := newTestProductService()

	ctx := context.Background()
	req := CreateProductRequest{
		SKU:  "DOG-FOOD-001",
		Name: "Premium Dog Food 5kg",
		Unit: "bag",
	}

	mocks.productRepo.On("ExistsBySKU", ctx, req.SKU).Return(true, nil)

	result, err := service.Create(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mocks.productRepo.AssertExpectations(t)
}

func TestProductService_Create_CategoryNotFound(t *testing.T) {
	service, mocks := newTestProductService()

	ctx := context.Background()
	categoryID := uuid.New()
	req := CreateProductRequest{
		SKU:        "DOG-FOOD-003",
		Name:       "Puppy Food",
		Unit:       "bag",
		CategoryID: &categoryID,
	}

	mocks.productRepo.On("ExistsBySKU", ctx, req.SKU).Return(false, nil)
	mocks.categoryRepo.On("FindByID", ctx, categoryID).Return(nil, shared.ErrNotFound)

	result, err := service.Create(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	mocks.productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mocks.categoryRepo.AssertExpectations(t)
}

func TestProductService_GetByBarcode_Success(t *testing.T) {
	service, mocks := newTestProductService()

	ctx := context.Background()
	product := createTestProduct(t)
	assert.NoError(t, product.SetBarcode("0123456789012"))

	mocks.productRepo.On("FindByBarcode", ctx, "0123456789012").Return(product, nil)

	result, err := service.GetByBarcode(ctx, "0123456789012")

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "0123456789012", result.Barcode)
	mocks.productRepo.AssertExpectations(t)
}

func TestProductService_UpdatePrices_Success(t *testing.T) {
	service, mocks := newTestProductService()

	ctx := context.Background()
	product := createTestProduct(t)
	newSelling := decimal.NewFromFloat(29.99)

	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mocks.productRepo.On("Save", ctx, product).Return(nil)

	result, err := service.UpdatePrices(ctx, product.ID, UpdateProductPricesRequest{
		SellingPrice: &newSelling,
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.SellingPrice.Equal(newSelling))
	mocks.productRepo.AssertExpectations(t)
}

func TestProductService_UpdatePrices_NegativeRejected(t *testing.T) {
	service, mocks := newTestProductService()

	ctx := context.Background()
	product := createTestProduct(t)
	negative := decimal.NewFromInt(-5)

	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

	result, err := service.UpdatePrices(ctx, product.ID, UpdateProductPricesRequest{
		SellingPrice: &negative,
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	mocks.productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_Discontinue_Success(t *testing.T) {
	service, mocks := newTestProductService()

	ctx := context.Background()
	product := createTestProduct(t)

	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mocks.productRepo.On("Save", ctx, product).Return(nil)

	err := service.Discontinue(ctx, product.ID)

	assert.NoError(t, err)
	assert.True(t, product.IsDiscontinued())
	mocks.productRepo.AssertExpectations(t)
}

// =============================================================================
// Product Image Tests
// =============================================================================

func TestProductService_InitiateImageUpload_Success(t *testing.T) {
	service, mocks := newTestProductService()

	ctx := context.Background()
	product := createTestProduct(t)
	expiresAt := time.Now().Add(15 * time.Minute)

	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mocks.storage.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"), "image/jpeg", 15*time.Minute).
		Return("https://storage.example.com/upload", expiresAt, nil)

	result, err := service.InitiateImageUpload(ctx, product.ID, InitiateImageUploadRequest{
		FileName:    "photo.jpg",
		ContentType: "image/jpeg",
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Contains(t, result.StorageKey, "products/"+product.ID.String()+"/")
	assert.Contains(t, result.StorageKey, ".jpg")
	assert.Equal(t, "https://storage.example.com/upload", result.UploadURL)
	mocks.storage.AssertExpectations(t)
}

func TestProductService_InitiateImageUpload_DisallowedContentType(t *testing.T) {
	service, mocks := newTestProductService()

	ctx := context.Background()
	product := createTestProduct(t)

	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

	result, err := service.InitiateImageUpload(ctx, product.ID, InitiateImageUploadRequest{
		FileName:    "logo.svg",
		ContentType: "image/svg+xml",
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DISALLOWED_CONTENT_TYPE", domainErr.Code)
	mocks.storage.AssertNotCalled(t, "GenerateUploadURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_ConfirmImageUpload_Success(t *testing.T) {
	service, mocks := newTestProductService()

	ctx := context.Background()
	product := createTestProduct(t)
	storageKey := "products/" + product.ID.String() + "/" + uuid.NewString() + ".jpg"

	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mocks.storage.On("ObjectExists", ctx, storageKey).Return(true, nil)
	mocks.productRepo.On("Save", ctx, product).Return(nil)

	result, err := service.ConfirmImageUpload(ctx, product.ID, ConfirmImageUploadRequest{
		StorageKey: storageKey,
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.HasImage)
	assert.Equal(t, storageKey, product.ImageKey)
	mocks.storage.AssertExpectations(t)
	mocks.productRepo.AssertExpectations(t)
}

func TestProductService_ConfirmImageUpload_ReplacesOldImage(t *testing.T) {
	service, mocks := newTestProductService()

	ctx := context.Background()
	product := createTestProduct(t)
	oldKey := "products/" + product.ID.String() + "/" + uuid.NewString() + ".png"
	assert.NoError(t, product.SetImageKey(oldKey))
	newKey := "products/" + product.ID.String() + "/" + uuid.NewString() + ".jpg"

	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mocks.storage.On("ObjectExists", ctx, newKey).Return(true, nil)
	mocks.productRepo.On("Save", ctx, product).Return(nil)
	mocks.storage.On("DeleteObject", ctx, oldKey).Return(nil)

	result, err := service.ConfirmImageUpload(ctx, product.ID, ConfirmImageUploadRequest{
		StorageKey: newKey,
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, newKey, product.ImageKey)
	mocks.storage.AssertExpectations(t)
}

func TestProductService_ConfirmImageUpload_WrongKeyPrefix(t *testing.T) {
	service, mocks := newTestProductService()

	ctx := context.Background()
	product := createTestProduct(t)

	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

	result, err := service.ConfirmImageUpload(ctx, product.ID, ConfirmImageUploadRequest{
		StorageKey: "products/" + uuid.NewString() + "/other.jpg",
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_IMAGE_KEY", domainErr.Code)
	mocks.storage.AssertNotCalled(t, "ObjectExists", mock.Anything, mock.Anything)
}

func TestProductService_ConfirmImageUpload_NotUploaded(t *testing.T) {
	service, mocks := newTestProductService()

	ctx := context.Background()
	product := createTestProduct(t)
	storageKey := "products/" + product.ID.String() + "/missing.jpg"

	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mocks.storage.On("ObjectExists", ctx, storageKey).Return(false, nil)

	result, err := service.ConfirmImageUpload(ctx, product.ID, ConfirmImageUploadRequest{
		StorageKey: storageKey,
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UPLOAD_NOT_FOUND", domainErr.Code)
	mocks.productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_GetImageURL_NoImage(t *testing.T) {
	service, mocks := newTestProductService()

	ctx := context.Background()
	product := createTestProduct(t)

	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

	result, err := service.GetImageURL(ctx, product.ID)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NO_IMAGE", domainErr.Code)
}

func TestProductService_RemoveImage_Success(t *testing.T) {
	service, mocks := newTestProductService()

	ctx := context.Background()
	product := createTestProduct(t)
	key := "products/" + product.ID.String() + "/img.jpg"
	assert.NoError(t, product.SetImageKey(key))

	mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mocks.productRepo.On("Save", ctx, product).Return(nil)
	mocks.storage.On("DeleteObject", ctx, key).Return(nil)

	err := service.RemoveImage(ctx, product.ID)

	assert.NoError(t, err)
	assert.Empty(t, product.ImageKey)
	mocks.storage.AssertExpectations(t)
	mocks.productRepo.AssertExpectations(t)
}
