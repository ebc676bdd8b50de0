package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/partner"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByCode(ctx context.Context, code string) (*partner.Customer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByPhone(ctx context.Context, phone string) (*partner.Customer, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Test Helpers
// =============================================================================

func createTestCustomer(t *testing.T) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomerWithCode("CUS-000042", "Test Customer")
	if err != nil {
		t.Fatalf("create test customer: %v", err)
	}
	return customer
}

// =============================================================================
// Tests
// =============================================================================

func TestCustomerService_Create_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	req := CreateCustomerRequest{
		Code: "CUS-NEW-001",
		Name: "New Customer",
	}

	mockRepo.On("ExistsByCode", ctx, req.Code).Return(false, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

	result, err := service.Create(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "CUS-NEW-001", result.Code)
	assert.Equal(t, "New Customer", result.Name)
	assert.Equal(t, "active", result.Status)
	assert.Equal(t, int64(0), result.LoyaltyPoints)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Create_GeneratedCode(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	req := CreateCustomerRequest{
		Name: "Walk-in Customer",
	}

	mockRepo.On("ExistsByCode", ctx, mock.AnythingOfType("string")).Return(false, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

	result, err := service.Create(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Regexp(t, `^CUS-\d{6}$`, result.Code)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Create_GeneratedCodeRetriesOnCollision(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	req := CreateCustomerRequest{
		Name: "Walk-in Customer",
	}

	// First generated code is taken, the second one is free
	mockRepo.On("ExistsByCode", ctx, mock.AnythingOfType("string")).Return(true, nil).Once()
	mockRepo.On("ExistsByCode", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	mockRepo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

	result, err := service.Create(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Create_GeneratedCodeExhaustsAttempts(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	req := CreateCustomerRequest{
		Name: "Walk-in Customer",
	}

	mockRepo.On("ExistsByCode", ctx, mock.AnythingOfType("string")).Return(true, nil)

	result, err := service.Create(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CODE_GENERATION_FAILED", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockRepo.AssertNumberOfCalls(t, "ExistsByCode", 5)
}

func TestCustomerService_Create_WithAllFields(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	req := CreateCustomerRequest{
		Code:    "CUS-FULL-001",
		Name:    "Full Customer",
		Phone:   "5551234567",
		Email:   "full@example.com",
		Address: "123 Main St",
		Notes:   "Prefers grain-free food",
	}

	mockRepo.On("ExistsByCode", ctx, req.Code).Return(false, nil)
	mockRepo.On("ExistsByPhone", ctx, req.Phone).Return(false, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

	result, err := service.Create(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "5551234567", result.Phone)
	assert.Equal(t, "full@example.com", result.Email)
	assert.Equal(t, "123 Main St", result.Address)
	assert.Equal(t, "Prefers grain-free food", result.Notes)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Create_DuplicateCode(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	req := CreateCustomerRequest{
		Code: "CUS-EXISTING",
		Name: "New Customer",
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

func TestCustomerService_Create_DuplicatePhone(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	req := CreateCustomerRequest{
		Name:  "New Customer",
		Phone: "5551234567",
	}

	mockRepo.On("ExistsByPhone", ctx, req.Phone).Return(true, nil)

	result, err := service.Create(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_GetByID_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	customer := createTestCustomer(t)

	mockRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

	result, err := service.GetByID(ctx, customer.ID)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, customer.Code, result.Code)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_GetByID_NotFound(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	customerID := uuid.New()

	mockRepo.On("FindByID", ctx, customerID).Return(nil, shared.ErrNotFound)

	result, err := service.GetByID(ctx, customerID)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, shared.ErrNotFound, err)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_GetByPhone_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	customer := createTestCustomer(t)
	assert.NoError(t, customer.SetContact("5559876543", ""))

	mockRepo.On("FindByPhone", ctx, "5559876543").Return(customer, nil)

	result, err := service.GetByPhone(ctx, "5559876543")

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "5559876543", result.Phone)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_List_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	customer := createTestCustomer(t)
	customers := []partner.Customer{*customer}

	mockRepo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).Return(customers, nil)
	mockRepo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	minPoints := int64(100)
	results, total, err := service.List(ctx, CustomerListFilter{
		Status:    "active",
		MinPoints: &minPoints,
	})

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int64(1), total)

	// Defaults and filter keys are applied to the domain filter
	filterArg := mockRepo.Calls[0].Arguments.Get(1).(shared.Filter)
	assert.Equal(t, 1, filterArg.Page)
	assert.Equal(t, 20, filterArg.PageSize)
	assert.Equal(t, "created_at", filterArg.OrderBy)
	assert.Equal(t, "active", filterArg.Filters["status"])
	assert.Equal(t, int64(100), filterArg.Filters["min_points"])
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_List_InvalidJoinedAfter(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()

	results, total, err := service.List(ctx, CustomerListFilter{
		JoinedAfter: "yesterday",
	})

	assert.Error(t, err)
	assert.Nil(t, results)
	assert.Equal(t, int64(0), total)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_FILTER", domainErr.Code)
	mockRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestCustomerService_Update_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	customer := createTestCustomer(t)
	newName := "Renamed Customer"
	newAddress := "456 Oak Ave"

	mockRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mockRepo.On("Save", ctx, customer).Return(nil)

	result, err := service.Update(ctx, customer.ID, UpdateCustomerRequest{
		Name:    &newName,
		Address: &newAddress,
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "Renamed Customer", result.Name)
	assert.Equal(t, "456 Oak Ave", result.Address)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Update_DuplicatePhone(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	customer := createTestCustomer(t)
	newPhone := "5550000001"

	mockRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mockRepo.On("ExistsByPhone", ctx, newPhone).Return(true, nil)

	result, err := service.Update(ctx, customer.ID, UpdateCustomerRequest{
		Phone: &newPhone,
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_AdjustPoints_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	customer := createTestCustomer(t)
	assert.NoError(t, customer.RecordPurchase(decimal.NewFromInt(200)))

	mockRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mockRepo.On("Save", ctx, customer).Return(nil)

	result, err := service.AdjustPoints(ctx, customer.ID, AdjustPointsRequest{
		Delta:  -50,
		Reason: "goodwill correction",
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, int64(150), result.LoyaltyPoints)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_AdjustPoints_WouldGoNegative(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	customer := createTestCustomer(t)

	mockRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

	result, err := service.AdjustPoints(ctx, customer.ID, AdjustPointsRequest{
		Delta:  -10,
		Reason: "bad adjustment",
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_POINTS", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Activate_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	customer := createTestCustomer(t)
	assert.NoError(t, customer.Deactivate())

	mockRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mockRepo.On("Save", ctx, customer).Return(nil)

	err := service.Activate(ctx, customer.ID)

	assert.NoError(t, err)
	assert.True(t, customer.IsActive())
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Deactivate_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	customer := createTestCustomer(t)

	mockRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mockRepo.On("Save", ctx, customer).Return(nil)

	err := service.Deactivate(ctx, customer.ID)

	assert.NoError(t, err)
	assert.False(t, customer.IsActive())
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Delete_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	customer := createTestCustomer(t)

	mockRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	mockRepo.On("Delete", ctx, customer.ID).Return(nil)

	err := service.Delete(ctx, customer.ID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Delete_HasPoints(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	customer := createTestCustomer(t)
	assert.NoError(t, customer.RecordPurchase(decimal.NewFromInt(50)))

	mockRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

	err := service.Delete(ctx, customer.ID)

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "HAS_POINTS", domainErr.Code)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Save_RepositoryError(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo)

	ctx := context.Background()
	req := CreateCustomerRequest{Name: "New Customer"}
	repoErr := errors.New("connection refused")

	mockRepo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(repoErr)

	result, err := service.Create(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, repoErr, err)
	mockRepo.AssertExpectations(t)
}

func TestToCustomerResponse(t *testing.T) {
	customer := createTestCustomer(t)
	assert.NoError(t, customer.SetContact("5551112222", "cust@example.com"))
	assert.NoError(t, customer.RecordPurchase(decimal.NewFromFloat(42.50)))

	response := ToCustomerResponse(customer)

	assert.Equal(t, customer.ID, response.ID)
	assert.Equal(t, "CUS-000042", response.Code)
	assert.Equal(t, "5551112222", response.Phone)
	assert.Equal(t, int64(42), response.LoyaltyPoints)
	assert.True(t, response.TotalSpent.Equal(decimal.NewFromFloat(42.50)))
	assert.Equal(t, "active", response.Status)
}
