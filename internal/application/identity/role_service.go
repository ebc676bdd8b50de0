package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawmart/backend/internal/domain/identity"
	"github.com/pawmart/backend/internal/domain/shared"
)

// RoleService handles role and permission administration
type RoleService struct {
	roleRepo identity.RoleRepository
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(
	roleRepo identity.RoleRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create creates a new role, optionally with an initial permission set
func (s *RoleService) Create(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	exists, err := s.roleRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_ROLE_CODE", "Role code already exists")
	}

	role, err := identity.NewRole(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	role.SetDescription(req.Description)
	role.SetSortOrder(req.SortOrder)

	if len(req.Permissions) > 0 {
		permissions, err := parsePermissions(req.Permissions)
		if err != nil {
			return nil, err
		}
		if err := role.SetPermissions(permissions); err != nil {
			return nil, err
		}
	}

	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	if len(role.Permissions) > 0 {
		if err := s.roleRepo.SavePermissions(ctx, role); err != nil {
			return nil, err
		}
	}

	s.logger.Info("role created",
		zap.String("role_id", role.ID.String()),
		zap.String("code", role.Code))

	response := ToRoleResponse(role)
	return &response, nil
}

// GetByID returns a role with its permissions loaded
func (s *RoleService) GetByID(ctx context.Context, id uuid.UUID) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.roleRepo.LoadPermissions(ctx, role); err != nil {
		return nil, err
	}

	response := ToRoleResponse(role)
	return &response, nil
}

// GetByCode returns a role by its code
func (s *RoleService) GetByCode(ctx context.Context, code string) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.roleRepo.LoadPermissions(ctx, role); err != nil {
		return nil, err
	}

	response := ToRoleResponse(role)
	return &response, nil
}

// List returns roles matching the filter
func (s *RoleService) List(ctx context.Context, filter RoleListFilter) ([]RoleResponse, int64, error) {
	domainFilter := identity.NewRoleFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Keyword = filter.Keyword
	domainFilter.IsEnabled = filter.IsEnabled

	roles, total, err := s.roleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToRoleResponses(roles), total, nil
}

// Update updates a role's basic information
func (s *RoleService) Update(ctx context.Context, id uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := role.SetName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		role.SetDescription(*req.Description)
	}
	if req.SortOrder != nil {
		role.SetSortOrder(*req.SortOrder)
	}

	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}

	response := ToRoleResponse(role)
	return &response, nil
}

// SetPermissions replaces a role's permission set
func (s *RoleService) SetPermissions(ctx context.Context, id uuid.UUID, req SetPermissionsRequest) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	permissions, err := parsePermissions(req.Permissions)
	if err != nil {
		return nil, err
	}
	if err := role.SetPermissions(permissions); err != nil {
		return nil, err
	}

	if err := s.roleRepo.SavePermissions(ctx, role); err != nil {
		return nil, err
	}
	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}

	s.logger.Info("role permissions replaced",
		zap.String("role_id", role.ID.String()),
		zap.Int("count", len(role.Permissions)))

	response := ToRoleResponse(role)
	return &response, nil
}

// GrantPermission adds a single permission to a role
func (s *RoleService) GrantPermission(ctx context.Context, id uuid.UUID, code string) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.roleRepo.LoadPermissions(ctx, role); err != nil {
		return nil, err
	}

	perm, err := identity.NewPermissionFromCode(code)
	if err != nil {
		return nil, err
	}
	if err := role.GrantPermission(*perm); err != nil {
		return nil, err
	}

	if err := s.roleRepo.SavePermissions(ctx, role); err != nil {
		return nil, err
	}
	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}

	response := ToRoleResponse(role)
	return &response, nil
}

// RevokePermission removes a single permission from a role
func (s *RoleService) RevokePermission(ctx context.Context, id uuid.UUID, code string) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.roleRepo.LoadPermissions(ctx, role); err != nil {
		return nil, err
	}

	if err := role.RevokePermission(code); err != nil {
		return nil, err
	}

	if err := s.roleRepo.SavePermissions(ctx, role); err != nil {
		return nil, err
	}
	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}

	response := ToRoleResponse(role)
	return &response, nil
}

// Enable enables a role
func (s *RoleService) Enable(ctx context.Context, id uuid.UUID) error {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := role.Enable(); err != nil {
		return err
	}
	return s.roleRepo.Update(ctx, role)
}

// Disable disables a role. Users keep the assignment but lose its grants.
func (s *RoleService) Disable(ctx context.Context, id uuid.UUID) error {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := role.Disable(); err != nil {
		return err
	}
	return s.roleRepo.Update(ctx, role)
}

// Delete removes a role. System roles and roles still assigned to users
// cannot be deleted.
func (s *RoleService) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !role.CanDelete() {
		return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be deleted")
	}

	users, err := s.userRepo.FindByRoleID(ctx, id)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return shared.ErrEntityInUse
	}

	if err := s.roleRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("role deleted",
		zap.String("role_id", id.String()),
		zap.String("code", role.Code))
	return nil
}

// GetPermissionMatrix lists the grantable actions per module
func (s *RoleService) GetPermissionMatrix(ctx context.Context) PermissionMatrixResponse {
	return PermissionMatrixResponse{
		Modules:       identity.KnownModules,
		ModuleActions: identity.ModuleActions,
	}
}

func parsePermissions(codes []string) ([]identity.Permission, error) {
	permissions := make([]identity.Permission, 0, len(codes))
	for _, code := range codes {
		perm, err := identity.NewPermissionFromCode(code)
		if err != nil {
			return nil, err
		}
		permissions = append(permissions, *perm)
	}
	return permissions, nil
}
