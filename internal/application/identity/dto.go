package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawmart/backend/internal/domain/identity"
)

// =============================================================================
// Auth
// =============================================================================

// LoginRequest carries credentials for authentication
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"-"`
}

// RefreshTokenRequest carries a refresh token to exchange for a new pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest carries the tokens to revoke
type LogoutRequest struct {
	AccessToken  string `json:"-"`
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest changes the caller's own password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// LoginResponse is returned on successful authentication
type LoginResponse struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
	Permissions           []string     `json:"permissions"`
}

// TokenPairResponse is returned on token refresh
type TokenPairResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// CurrentUserResponse describes the authenticated user and effective permissions
type CurrentUserResponse struct {
	User        UserResponse `json:"user"`
	Permissions []string     `json:"permissions"`
}

// =============================================================================
// Users
// =============================================================================

// CreateUserRequest contains data for creating a user
type CreateUserRequest struct {
	Username string      `json:"username" binding:"required,min=3,max=100"`
	Password string      `json:"password" binding:"required,min=8,max=128"`
	Email    string      `json:"email,omitempty" binding:"omitempty,email"`
	Phone    string      `json:"phone,omitempty" binding:"omitempty,max=50"`
	FullName string      `json:"full_name,omitempty" binding:"omitempty,max=200"`
	StoreID  *uuid.UUID  `json:"store_id,omitempty"`
	RoleIDs  []uuid.UUID `json:"role_ids,omitempty"`
}

// UpdateUserRequest contains data for updating a user's profile
type UpdateUserRequest struct {
	Email    *string    `json:"email,omitempty" binding:"omitempty,email"`
	Phone    *string    `json:"phone,omitempty" binding:"omitempty,max=50"`
	FullName *string    `json:"full_name,omitempty" binding:"omitempty,max=200"`
	StoreID  *uuid.UUID `json:"store_id,omitempty"`
}

// ResetPasswordRequest is an administrative password reset
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// AssignRolesRequest replaces a user's role set
type AssignRolesRequest struct {
	RoleIDs []uuid.UUID `json:"role_ids" binding:"required"`
}

// UserListFilter contains query parameters for listing users
type UserListFilter struct {
	Keyword  string     `form:"keyword"`
	Status   string     `form:"status"`
	RoleID   *uuid.UUID `form:"role_id"`
	StoreID  *uuid.UUID `form:"store_id"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID                 uuid.UUID   `json:"id"`
	Username           string      `json:"username"`
	Email              string      `json:"email,omitempty"`
	Phone              string      `json:"phone,omitempty"`
	FullName           string      `json:"full_name,omitempty"`
	Status             string      `json:"status"`
	StoreID            *uuid.UUID  `json:"store_id,omitempty"`
	RoleIDs            []uuid.UUID `json:"role_ids"`
	LastLoginAt        *time.Time  `json:"last_login_at,omitempty"`
	MustChangePassword bool        `json:"must_change_password"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// =============================================================================
// Roles
// =============================================================================

// CreateRoleRequest contains data for creating a role
type CreateRoleRequest struct {
	Code        string   `json:"code" binding:"required,min=2,max=50"`
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description,omitempty" binding:"omitempty,max=500"`
	SortOrder   int      `json:"sort_order,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// UpdateRoleRequest contains data for updating a role
type UpdateRoleRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	SortOrder   *int    `json:"sort_order,omitempty"`
}

// SetPermissionsRequest replaces a role's permission set
type SetPermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// RoleListFilter contains query parameters for listing roles
type RoleListFilter struct {
	Keyword   string `form:"keyword"`
	IsEnabled *bool  `form:"is_enabled"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

// RoleResponse represents a role in API responses
type RoleResponse struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	IsSystemRole bool      `json:"is_system_role"`
	IsEnabled    bool      `json:"is_enabled"`
	SortOrder    int       `json:"sort_order"`
	Permissions  []string  `json:"permissions"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PermissionMatrixResponse lists the grantable actions per module
type PermissionMatrixResponse struct {
	Modules       []string            `json:"modules"`
	ModuleActions map[string][]string `json:"module_actions"`
}

// =============================================================================
// Converters
// =============================================================================

// ToUserResponse converts a domain user to a response DTO
func ToUserResponse(user *identity.User) UserResponse {
	roleIDs := user.RoleIDs
	if roleIDs == nil {
		roleIDs = []uuid.UUID{}
	}
	return UserResponse{
		ID:                 user.ID,
		Username:           user.Username,
		Email:              user.Email,
		Phone:              user.Phone,
		FullName:           user.FullName,
		Status:             string(user.Status),
		StoreID:            user.StoreID,
		RoleIDs:            roleIDs,
		LastLoginAt:        user.LastLoginAt,
		MustChangePassword: user.MustChangePassword,
		CreatedAt:          user.CreatedAt,
		UpdatedAt:          user.UpdatedAt,
	}
}

// ToUserResponses converts a slice of domain users to response DTOs
func ToUserResponses(users []*identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = ToUserResponse(user)
	}
	return responses
}

// ToRoleResponse converts a domain role to a response DTO
func ToRoleResponse(role *identity.Role) RoleResponse {
	permissions := make([]string, len(role.Permissions))
	for i, p := range role.Permissions {
		permissions[i] = p.Code
	}
	return RoleResponse{
		ID:           role.ID,
		Code:         role.Code,
		Name:         role.Name,
		Description:  role.Description,
		IsSystemRole: role.IsSystemRole,
		IsEnabled:    role.IsEnabled,
		SortOrder:    role.SortOrder,
		Permissions:  permissions,
		CreatedAt:    role.CreatedAt,
		UpdatedAt:    role.UpdatedAt,
	}
}

// ToRoleResponses converts a slice of domain roles to response DTOs
func ToRoleResponses(roles []*identity.Role) []RoleResponse {
	responses := make([]RoleResponse, len(roles))
	for i, role := range roles {
		responses[i] = ToRoleResponse(role)
	}
	return responses
}
