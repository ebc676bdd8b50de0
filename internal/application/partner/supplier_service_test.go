package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/partner"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSupplierRepository is a mock implementation of SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockOpenOrderCounter is a mock implementation of OpenOrderCounter
type MockOpenOrderCounter struct {
	mock.Mock
}

func (m *MockOpenOrderCounter) CountOpenBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	args := m.Called(ctx, supplierID)
	return args.Get(0).(int64), args.Error(1)
}

func createTestSupplier(t *testing.T) *partner.Supplier {
	t.Helper()
	supplier, err := partner.NewSupplier("SUP-001", "Acme Pet Foods")
	if err != nil {
		t.Fatalf("create test supplier: %v", err)
	}
	return supplier
}

func TestSupplierService_Create_Success(t *testing.T) {
	mockRepo := new(MockSupplierRepository)
	service := NewSupplierService(mockRepo, new(MockOpenOrderCounter))

	ctx := context.Background()
	terms := 45
	req := CreateSupplierRequest{
		Code:             "SUP-NEW-001",
		Name:             "New Supplier",
		ContactName:      "Jane Smith",
		Phone:            "5551234567",
		Email:            "jane@supplier.example.com",
		PaymentTermsDays: &terms,
	}

	mockRepo.On("ExistsByCode", ctx, req.Code).Return(false, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*partner.Supplier")).Return(nil)

	result, err := service.Create(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "SUP-NEW-001", result.Code)
	assert.Equal(t, "Jane Smith", result.ContactName)
	assert.Equal(t, 45, result.PaymentTermsDays)
	assert.Equal(t, "active", result.Status)
	mockRepo.AssertExpectations(t)
}

func TestSupplierService_Create_DuplicateCode(t *testing.T) {
	mockRepo := new(MockSupplierRepository)
	service := NewSupplierService(mockRepo, new(MockOpenOrderCounter))

	ctx := context.Background()
	req := CreateSupplierRequest{
		Code: "SUP-EXISTING",
		Name: "New Supplier",
	}

	mockRepo.On("ExistsByCode", ctx, req.Code).Return(true, nil)

	result, err := service.Create(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockRepo.AssertExpectations(t)
}

func TestSupplierService_Create_InvalidPaymentTerms(t *testing.T) {
	mockRepo := new(MockSupplierRepository)
	service := NewSupplierService(mockRepo, new(MockOpenOrderCounter))

	ctx := context.Background()
	terms := 400
	req := CreateSupplierRequest{
		Code:             "SUP-NEW-002",
		Name:             "New Supplier",
		PaymentTermsDays: &terms,
	}

	mockRepo.On("ExistsByCode", ctx, req.Code).Return(false, nil)

	result, err := service.Create(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestSupplierService_GetByID_NotFound(t *testing.T) {
	mockRepo := new(MockSupplierRepository)
	service := NewSupplierService(mockRepo, new(MockOpenOrderCounter))

	ctx := context.Background()
	supplierID := uuid.New()

	mockRepo.On("FindByID", ctx, supplierID).Return(nil, shared.ErrNotFound)

	result, err := service.GetByID(ctx, supplierID)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, shared.ErrNotFound, err)
	mockRepo.AssertExpectations(t)
}

func TestSupplierService_List_Success(t *testing.T) {
	mockRepo := new(MockSupplierRepository)
	service := NewSupplierService(mockRepo, new(MockOpenOrderCounter))

	ctx := context.Background()
	supplier := createTestSupplier(t)
	suppliers := []partner.Supplier{*supplier}

	mockRepo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).Return(suppliers, nil)
	mockRepo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	results, total, err := service.List(ctx, SupplierListFilter{Status: "active"})

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int64(1), total)

	filterArg := mockRepo.Calls[0].Arguments.Get(1).(shared.Filter)
	assert.Equal(t, "sort_order", filterArg.OrderBy)
	assert.Equal(t, "asc", filterArg.OrderDir)
	assert.Equal(t, "active", filterArg.Filters["status"])
	mockRepo.AssertExpectations(t)
}

func TestSupplierService_Update_Success(t *testing.T) {
	mockRepo := new(MockSupplierRepository)
	service := NewSupplierService(mockRepo, new(MockOpenOrderCounter))

	ctx := context.Background()
	supplier := createTestSupplier(t)
	newName := "Acme Pet Foods Intl"
	newTerms := 60

	mockRepo.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
	mockRepo.On("Save", ctx, supplier).Return(nil)

	result, err := service.Update(ctx, supplier.ID, UpdateSupplierRequest{
		Name:             &newName,
		PaymentTermsDays: &newTerms,
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "Acme Pet Foods Intl", result.Name)
	assert.Equal(t, 60, result.PaymentTermsDays)
	mockRepo.AssertExpectations(t)
}

func TestSupplierService_Update_PartialContact(t *testing.T) {
	mockRepo := new(MockSupplierRepository)
	service := NewSupplierService(mockRepo, new(MockOpenOrderCounter))

	ctx := context.Background()
	supplier := createTestSupplier(t)
	assert.NoError(t, supplier.SetContact("Jane Smith", "5551234567", "jane@supplier.example.com"))
	newPhone := "5559998888"

	mockRepo.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
	mockRepo.On("Save", ctx, supplier).Return(nil)

	result, err := service.Update(ctx, supplier.ID, UpdateSupplierRequest{
		Phone: &newPhone,
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	// Untouched contact fields are preserved
	assert.Equal(t, "Jane Smith", result.ContactName)
	assert.Equal(t, "5559998888", result.Phone)
	assert.Equal(t, "jane@supplier.example.com", result.Email)
	mockRepo.AssertExpectations(t)
}

func TestSupplierService_Deactivate_Success(t *testing.T) {
	mockRepo := new(MockSupplierRepository)
	service := NewSupplierService(mockRepo, new(MockOpenOrderCounter))

	ctx := context.Background()
	supplier := createTestSupplier(t)

	mockRepo.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
	mockRepo.On("Save", ctx, supplier).Return(nil)

	err := service.Deactivate(ctx, supplier.ID)

	assert.NoError(t, err)
	assert.False(t, supplier.IsActive())
	mockRepo.AssertExpectations(t)
}

func TestSupplierService_Delete_Success(t *testing.T) {
	mockRepo := new(MockSupplierRepository)
	mockCounter := new(MockOpenOrderCounter)
	service := NewSupplierService(mockRepo, mockCounter)

	ctx := context.Background()
	supplier := createTestSupplier(t)

	mockRepo.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
	mockCounter.On("CountOpenBySupplier", ctx, supplier.ID).Return(int64(0), nil)
	mockRepo.On("Delete", ctx, supplier.ID).Return(nil)

	err := service.Delete(ctx, supplier.ID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockCounter.AssertExpectations(t)
}

func TestSupplierService_Delete_OutstandingOrders(t *testing.T) {
	mockRepo := new(MockSupplierRepository)
	mockCounter := new(MockOpenOrderCounter)
	service := NewSupplierService(mockRepo, mockCounter)

	ctx := context.Background()
	supplier := createTestSupplier(t)

	mockRepo.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
	mockCounter.On("CountOpenBySupplier", ctx, supplier.ID).Return(int64(2), nil)

	err := service.Delete(ctx, supplier.ID)

	assert.Error(t, err)
	assert.Equal(t, shared.ErrEntityInUse, err)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
