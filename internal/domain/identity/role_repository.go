package identity

import (
	"context"

	"github.com/google/uuid"
)

// RoleRepository defines the interface for role persistence
type RoleRepository interface {
	// Create creates a new role
	Create(ctx context.Context, role *Role) error

	// Update updates an existing role
	Update(ctx context.Context, role *Role) error

	// Delete deletes a role by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a role by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)

	// FindByCode finds a role by code
	FindByCode(ctx context.Context, code string) (*Role, error)

	// FindByIDs finds roles by a list of IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Role, error)

	// FindAll returns all roles with pagination
	FindAll(ctx context.Context, filter RoleFilter) ([]*Role, int64, error)

	// ExistsByCode checks if a role code already exists
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// SavePermissions saves the role's permissions (replaces existing)
	SavePermissions(ctx context.Context, role *Role) error

	// LoadPermissions loads the role's permissions from the database
	LoadPermissions(ctx context.Context, role *Role) error
}

// RoleFilter contains filter options for querying roles
type RoleFilter struct {
	Keyword   string
	IsEnabled *bool

	Page     int
	PageSize int

	SortBy    string
	SortOrder string
}

// NewRoleFilter creates a new RoleFilter with default values
func NewRoleFilter() RoleFilter {
	return RoleFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "sort_order",
		SortOrder: "asc",
	}
}

// Offset returns the offset for pagination
func (f RoleFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f RoleFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	return f.PageSize
}
