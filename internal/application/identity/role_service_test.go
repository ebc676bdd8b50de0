package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pawmart/backend/internal/domain/identity"
	"github.com/pawmart/backend/internal/domain/shared"
)

type roleServiceMocks struct {
	roleRepo *MockRoleRepository
	userRepo *MockUserRepository
}

func newTestRoleService() (*RoleService, *roleServiceMocks) {
	mocks := &roleServiceMocks{
		roleRepo: new(MockRoleRepository),
		userRepo: new(MockUserRepository),
	}
	service := NewRoleService(mocks.roleRepo, mocks.userRepo, nil)
	return service, mocks
}

func TestRoleService_Create_Success(t *testing.T) {
	service, mocks := newTestRoleService()

	ctx := context.Background()
	mocks.roleRepo.On("ExistsByCode", ctx, "PURCHASER").Return(false, nil)
	mocks.roleRepo.On("Create", ctx, mock.AnythingOfType("*identity.Role")).Return(nil)
	mocks.roleRepo.On("SavePermissions", ctx, mock.AnythingOfType("*identity.Role")).Return(nil)

	result, err := service.Create(ctx, CreateRoleRequest{
		Code:        "purchaser",
		Name:        "Purchaser",
		Description: "Creates and manages purchase orders",
		Permissions: []string{"purchase_orders:create", "purchase_orders:read", "suppliers:read"},
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "PURCHASER", result.Code)
	assert.Len(t, result.Permissions, 3)
	assert.Contains(t, result.Permissions, "purchase_orders:create")
	mocks.roleRepo.AssertExpectations(t)
}

func TestRoleService_Create_DuplicateCode(t *testing.T) {
	service, mocks := newTestRoleService()

	ctx := context.Background()
	mocks.roleRepo.On("ExistsByCode", ctx, "PURCHASER").Return(true, nil)

	result, err := service.Create(ctx, CreateRoleRequest{Code: "PURCHASER", Name: "Purchaser"})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_ROLE_CODE", domainErr.Code)
	mocks.roleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRoleService_Create_UnknownModule(t *testing.T) {
	service, mocks := newTestRoleService()

	ctx := context.Background()
	mocks.roleRepo.On("ExistsByCode", ctx, "PURCHASER").Return(false, nil)

	result, err := service.Create(ctx, CreateRoleRequest{
		Code:        "PURCHASER",
		Name:        "Purchaser",
		Permissions: []string{"warehouses:read"},
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNKNOWN_MODULE", domainErr.Code)
	mocks.roleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRoleService_Create_MalformedPermission(t *testing.T) {
	service, mocks := newTestRoleService()

	ctx := context.Background()
	mocks.roleRepo.On("ExistsByCode", ctx, "PURCHASER").Return(false, nil)

	result, err := service.Create(ctx, CreateRoleRequest{
		Code:        "PURCHASER",
		Name:        "Purchaser",
		Permissions: []string{"no-colon-here"},
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PERMISSION_CODE", domainErr.Code)
}

func TestRoleService_SetPermissions_ReplacesAll(t *testing.T) {
	service, mocks := newTestRoleService()

	ctx := context.Background()
	role := createCashierRole(t)

	mocks.roleRepo.On("FindByID", ctx, role.ID).Return(role, nil)
	mocks.roleRepo.On("SavePermissions", ctx, role).Return(nil)
	mocks.roleRepo.On("Update", ctx, role).Return(nil)

	result, err := service.SetPermissions(ctx, role.ID, SetPermissionsRequest{
		Permissions: []string{"sales:read", "customers:read"},
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"sales:read", "customers:read"}, result.Permissions)
	assert.False(t, role.HasPermission("sales:create"))
}

func TestRoleService_GrantPermission_Duplicate(t *testing.T) {
	service, mocks := newTestRoleService()

	ctx := context.Background()
	role := createCashierRole(t)

	mocks.roleRepo.On("FindByID", ctx, role.ID).Return(role, nil)
	mocks.roleRepo.On("LoadPermissions", ctx, role).Return(nil)

	result, err := service.GrantPermission(ctx, role.ID, "sales:create")

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PERMISSION_ALREADY_GRANTED", domainErr.Code)
	mocks.roleRepo.AssertNotCalled(t, "SavePermissions", mock.Anything, mock.Anything)
}

func TestRoleService_Delete_SystemRole(t *testing.T) {
	service, mocks := newTestRoleService()

	ctx := context.Background()
	role, err := identity.NewSystemRole(identity.RoleCodeAdmin, "Administrator")
	assert.NoError(t, err)
	role.ClearDomainEvents()

	mocks.roleRepo.On("FindByID", ctx, role.ID).Return(role, nil)

	err = service.Delete(ctx, role.ID)

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SYSTEM_ROLE", domainErr.Code)
	mocks.roleRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRoleService_Delete_RoleInUse(t *testing.T) {
	service, mocks := newTestRoleService()

	ctx := context.Background()
	role := createCashierRole(t)
	user := createTestUser(t, "cashier1", "Passw0rd123")

	mocks.roleRepo.On("FindByID", ctx, role.ID).Return(role, nil)
	mocks.userRepo.On("FindByRoleID", ctx, role.ID).Return([]*identity.User{user}, nil)

	err := service.Delete(ctx, role.ID)

	assert.Error(t, err)
	assert.Equal(t, shared.ErrEntityInUse, err)
	mocks.roleRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRoleService_Delete_Success(t *testing.T) {
	service, mocks := newTestRoleService()

	ctx := context.Background()
	role := createCashierRole(t)

	mocks.roleRepo.On("FindByID", ctx, role.ID).Return(role, nil)
	mocks.userRepo.On("FindByRoleID", ctx, role.ID).Return([]*identity.User{}, nil)
	mocks.roleRepo.On("Delete", ctx, role.ID).Return(nil)

	err := service.Delete(ctx, role.ID)

	assert.NoError(t, err)
	mocks.roleRepo.AssertExpectations(t)
}

func TestRoleService_Disable_AlreadyDisabled(t *testing.T) {
	service, mocks := newTestRoleService()

	ctx := context.Background()
	role := createCashierRole(t)
	assert.NoError(t, role.Disable())

	mocks.roleRepo.On("FindByID", ctx, role.ID).Return(role, nil)

	err := service.Disable(ctx, role.ID)

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_DISABLED", domainErr.Code)
}

func TestRoleService_GetPermissionMatrix(t *testing.T) {
	service, _ := newTestRoleService()

	matrix := service.GetPermissionMatrix(context.Background())

	assert.Contains(t, matrix.Modules, identity.ModuleSales)
	assert.Contains(t, matrix.Modules, identity.ModulePurchaseOrders)
	assert.Contains(t, matrix.ModuleActions[identity.ModuleSales], identity.ActionVoid)
	assert.Contains(t, matrix.ModuleActions[identity.ModuleTransfers], identity.ActionApprove)
	assert.NotContains(t, matrix.ModuleActions[identity.ModuleReports], identity.ActionDelete)
}
