package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawmart/backend/internal/domain/identity"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/pawmart/backend/internal/domain/store"
)

// UserService handles user administration
type UserService struct {
	userRepo  identity.UserRepository
	roleRepo  identity.RoleRepository
	storeRepo store.StoreRepository
	logger    *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	storeRepo store.StoreRepository,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		storeRepo: storeRepo,
		logger:    logger,
	}
}

// Create creates a new active user with optional roles and home store
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_USERNAME", "Username is already taken")
	}

	if req.Email != "" {
		exists, err = s.userRepo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("DUPLICATE_EMAIL", "Email is already in use")
		}
	}

	user, err := identity.NewActiveUser(req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	if err := user.SetEmail(req.Email); err != nil {
		return nil, err
	}
	if err := user.SetPhone(req.Phone); err != nil {
		return nil, err
	}
	if err := user.SetFullName(req.FullName); err != nil {
		return nil, err
	}

	if req.StoreID != nil {
		if _, err := s.storeRepo.FindByID(ctx, *req.StoreID); err != nil {
			return nil, shared.NewDomainError("STORE_NOT_FOUND", "Home store does not exist")
		}
		user.AssignStore(req.StoreID)
	}

	if len(req.RoleIDs) > 0 {
		if err := s.verifyRolesExist(ctx, req.RoleIDs); err != nil {
			return nil, err
		}
		if err := user.SetRoles(req.RoleIDs); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	if len(user.RoleIDs) > 0 {
		if err := s.userRepo.SaveUserRoles(ctx, user); err != nil {
			return nil, err
		}
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	response := ToUserResponse(user)
	return &response, nil
}

// GetByID returns a user with roles loaded
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.LoadUserRoles(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// List returns users matching the filter
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := identity.NewUserFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Keyword = filter.Keyword
	domainFilter.RoleID = filter.RoleID
	domainFilter.StoreID = filter.StoreID

	if filter.Status != "" {
		status := identity.UserStatus(filter.Status)
		switch status {
		case identity.UserStatusPending, identity.UserStatusActive,
			identity.UserStatusLocked, identity.UserStatusDeactivated:
			domainFilter.Status = &status
		default:
			return nil, 0, shared.NewDomainError("INVALID_FILTER", "Unknown user status")
		}
	}

	users, total, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToUserResponses(users), total, nil
}

// Update updates a user's profile fields
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		if *req.Email != "" {
			exists, err := s.userRepo.ExistsByEmail(ctx, *req.Email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("DUPLICATE_EMAIL", "Email is already in use")
			}
		}
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil {
		if err := user.SetPhone(*req.Phone); err != nil {
			return nil, err
		}
	}
	if req.FullName != nil {
		if err := user.SetFullName(*req.FullName); err != nil {
			return nil, err
		}
	}
	if req.StoreID != nil {
		if _, err := s.storeRepo.FindByID(ctx, *req.StoreID); err != nil {
			return nil, shared.NewDomainError("STORE_NOT_FOUND", "Home store does not exist")
		}
		user.AssignStore(req.StoreID)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Activate activates a pending or deactivated user
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.Activate(); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, user)
}

// Deactivate deactivates a user, blocking future logins
func (s *UserService) Deactivate(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return shared.NewDomainError("SELF_DEACTIVATION", "Cannot deactivate your own account")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.Deactivate(); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("user deactivated",
		zap.String("user_id", id.String()),
		zap.String("actor_id", actorID.String()))
	return nil
}

// Unlock clears a login lockout
func (s *UserService) Unlock(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.Unlock(); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, user)
}

// ResetPassword sets a new password and forces a change on next login
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	user.ForcePasswordChange()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password reset", zap.String("user_id", id.String()))
	return nil
}

// AssignRoles replaces the user's role set
func (s *UserService) AssignRoles(ctx context.Context, id uuid.UUID, req AssignRolesRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(req.RoleIDs) > 0 {
		if err := s.verifyRolesExist(ctx, req.RoleIDs); err != nil {
			return nil, err
		}
	}
	if err := user.SetRoles(req.RoleIDs); err != nil {
		return nil, err
	}

	if err := s.userRepo.SaveUserRoles(ctx, user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Delete removes a user. Users cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return shared.NewDomainError("SELF_DELETION", "Cannot delete your own account")
	}

	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted",
		zap.String("user_id", id.String()),
		zap.String("actor_id", actorID.String()))
	return nil
}

func (s *UserService) verifyRolesExist(ctx context.Context, roleIDs []uuid.UUID) error {
	roles, err := s.roleRepo.FindByIDs(ctx, roleIDs)
	if err != nil {
		return err
	}
	if len(roles) != len(roleIDs) {
		return shared.NewDomainError("ROLE_NOT_FOUND", "One or more roles do not exist")
	}
	return nil
}
