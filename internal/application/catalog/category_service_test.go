package catalog

import (
	"context"
	"testing"

	"github.com/pawmart/backend/internal/domain/catalog"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func createTestCategory(t *testing.T) *catalog.Category {
	t.Helper()
	category, err := catalog.NewCategory("CAT-DOG", "Dog Supplies")
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	return category
}

func TestCategoryService_Create_Success(t *testing.T) {
	mockCategoryRepo := new(MockCategoryRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewCategoryService(mockCategoryRepo, mockProductRepo)

	ctx := context.Background()
	req := CreateCategoryRequest{
		Code: "CAT-CAT",
		Name: "Cat Supplies",
	}

	mockCategoryRepo.On("ExistsByCode", ctx, req.Code).Return(false, nil)
	mockCategoryRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)

	result, err := service.Create(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "CAT-CAT", result.Code)
	assert.Nil(t, result.ParentID)
	mockCategoryRepo.AssertExpectations(t)
}

func TestCategoryService_Create_Child(t *testing.T) {
	mockCategoryRepo := new(MockCategoryRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewCategoryService(mockCategoryRepo, mockProductRepo)

	ctx := context.Background()
	parent := createTestCategory(t)
	req := CreateCategoryRequest{
		Code:     "CAT-DOG-TOYS",
		Name:     "Dog Toys",
		ParentID: &parent.ID,
	}

	mockCategoryRepo.On("ExistsByCode", ctx, req.Code).Return(false, nil)
	mockCategoryRepo.On("FindByID", ctx, parent.ID).Return(parent, nil)
	mockCategoryRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)

	result, err := service.Create(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, &parent.ID, result.ParentID)
	mockCategoryRepo.AssertExpectations(t)
}

func TestCategoryService_Delete_HasChildren(t *testing.T) {
	mockCategoryRepo := new(MockCategoryRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewCategoryService(mockCategoryRepo, mockProductRepo)

	ctx := context.Background()
	category := createTestCategory(t)
	child := createTestCategory(t)

	mockCategoryRepo.On("FindByID", ctx, category.ID).Return(category, nil)
	mockCategoryRepo.On("FindChildren", ctx, category.ID).Return([]catalog.Category{*child}, nil)

	err := service.Delete(ctx, category.ID)

	assert.Error(t, err)
	assert.Equal(t, shared.ErrEntityInUse, err)
	mockCategoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCategoryService_Delete_HasProducts(t *testing.T) {
	mockCategoryRepo := new(MockCategoryRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewCategoryService(mockCategoryRepo, mockProductRepo)

	ctx := context.Background()
	category := createTestCategory(t)

	mockCategoryRepo.On("FindByID", ctx, category.ID).Return(category, nil)
	mockCategoryRepo.On("FindChildren", ctx, category.ID).Return([]catalog.Category{}, nil)
	mockProductRepo.On("CountByCategoryID", ctx, category.ID).Return(int64(3), nil)

	err := service.Delete(ctx, category.ID)

	assert.Error(t, err)
	assert.Equal(t, shared.ErrEntityInUse, err)
	mockCategoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCategoryService_Delete_Success(t *testing.T) {
	mockCategoryRepo := new(MockCategoryRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewCategoryService(mockCategoryRepo, mockProductRepo)

	ctx := context.Background()
	category := createTestCategory(t)

	mockCategoryRepo.On("FindByID", ctx, category.ID).Return(category, nil)
	mockCategoryRepo.On("FindChildren", ctx, category.ID).Return([]catalog.Category{}, nil)
	mockProductRepo.On("CountByCategoryID", ctx, category.ID).Return(int64(0), nil)
	mockCategoryRepo.On("Delete", ctx, category.ID).Return(nil)

	err := service.Delete(ctx, category.ID)

	assert.NoError(t, err)
	mockCategoryRepo.AssertExpectations(t)
	mockProductRepo.AssertExpectations(t)
}

func TestBrandService_Create_Success(t *testing.T) {
	mockBrandRepo := new(MockBrandRepository)
	service := NewBrandService(mockBrandRepo)

	ctx := context.Background()
	req := CreateBrandRequest{
		Code:        "BR-ACME",
		Name:        "Acme Pets",
		Description: "House brand",
	}

	mockBrandRepo.On("ExistsByCode", ctx, req.Code).Return(false, nil)
	mockBrandRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Brand")).Return(nil)

	result, err := service.Create(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "BR-ACME", result.Code)
	assert.Equal(t, "House brand", result.Description)
	mockBrandRepo.AssertExpectations(t)
}

func TestBrandService_Create_DuplicateCode(t *testing.T) {
	mockBrandRepo := new(MockBrandRepository)
	service := NewBrandService(mockBrandRepo)

	ctx := context.Background()
	req := CreateBrandRequest{Code: "BR-EXISTING", Name: "Brand"}

	mockBrandRepo.On("ExistsByCode", ctx, req.Code).Return(true, nil)

	result, err := service.Create(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockBrandRepo.AssertExpectations(t)
}
