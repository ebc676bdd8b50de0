package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/identity"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/pawmart/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRoleRepository implements RoleRepository using GORM
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// Create creates a new role
func (r *GormRoleRepository) Create(ctx context.Context, role *identity.Role) error {
	model := models.RoleModelFromDomain(role)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing role
func (r *GormRoleRepository) Update(ctx context.Context, role *identity.Role) error {
	model := models.RoleModelFromDomain(role)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a role by ID
func (r *GormRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&models.RolePermissionModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.RoleModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a role by ID
func (r *GormRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	var model models.RoleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a role by code
func (r *GormRoleRepository) FindByCode(ctx context.Context, code string) (*identity.Role, error) {
	var model models.RoleModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds roles by a list of IDs
func (r *GormRoleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*identity.Role, error) {
	if len(ids) == 0 {
		return []*identity.Role{}, nil
	}

	var roleModels []*models.RoleModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&roleModels).Error; err != nil {
		return nil, err
	}

	roles := make([]*identity.Role, len(roleModels))
	for i, model := range roleModels {
		roles[i] = model.ToDomain()
	}

	return roles, nil
}

// FindAll returns all roles with pagination
func (r *GormRoleRepository) FindAll(ctx context.Context, filter identity.RoleFilter) ([]*identity.Role, int64, error) {
	var roleModels []*models.RoleModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.RoleModel{})

	if filter.Keyword != "" {
		searchPattern := "%" + filter.Keyword + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", searchPattern, searchPattern)
	}
	if filter.IsEnabled != nil {
		query = query.Where("is_enabled = ?", *filter.IsEnabled)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.SortBy, RoleSortFields, "sort_order")
	sortOrder := ValidateSortOrder(filter.SortOrder)
	query = query.Order(sortField + " " + sortOrder)

	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&roleModels).Error; err != nil {
		return nil, 0, err
	}

	roles := make([]*identity.Role, len(roleModels))
	for i, model := range roleModels {
		roles[i] = model.ToDomain()
	}

	return roles, total, nil
}

// ExistsByCode checks if a role code already exists
func (r *GormRoleRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.RoleModel{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SavePermissions saves the role's permissions (replaces existing)
func (r *GormRoleRepository) SavePermissions(ctx context.Context, role *identity.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", role.ID).Delete(&models.RolePermissionModel{}).Error; err != nil {
			return err
		}

		if len(role.Permissions) > 0 {
			permModels := make([]models.RolePermissionModel, len(role.Permissions))
			for i, perm := range role.Permissions {
				permModels[i].FromDomain(role.ID, perm)
			}
			if err := tx.Create(&permModels).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// LoadPermissions loads the role's permissions from the database
func (r *GormRoleRepository) LoadPermissions(ctx context.Context, role *identity.Role) error {
	var permModels []models.RolePermissionModel
	if err := r.db.WithContext(ctx).
		Where("role_id = ?", role.ID).
		Order("module ASC, action ASC").
		Find(&permModels).Error; err != nil {
		return err
	}

	permissions := make([]identity.Permission, len(permModels))
	for i, model := range permModels {
		permissions[i] = model.ToDomain()
	}
	role.Permissions = permissions

	return nil
}

// Ensure GormRoleRepository implements RoleRepository
var _ identity.RoleRepository = (*GormRoleRepository)(nil)
