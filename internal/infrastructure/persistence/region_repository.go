package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/pawmart/backend/internal/domain/store"
	"gorm.io/gorm"
)

// GormRegionRepository implements RegionRepository using GORM
type GormRegionRepository struct {
	db *gorm.DB
}

// NewGormRegionRepository creates a new GormRegionRepository
func NewGormRegionRepository(db *gorm.DB) *GormRegionRepository {
	return &GormRegionRepository{db: db}
}

// FindByID finds a region by its ID
func (r *GormRegionRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Region, error) {
	var region store.Region
	if err := r.db.WithContext(ctx).First(&region, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &region, nil
}

// FindByCode finds a region by its code
func (r *GormRegionRepository) FindByCode(ctx context.Context, code string) (*store.Region, error) {
	var region store.Region
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&region).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &region, nil
}

// FindAll finds all regions matching the filter
func (r *GormRegionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]store.Region, error) {
	var regions []store.Region
	query := r.db.WithContext(ctx).Model(&store.Region{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", searchPattern, searchPattern)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, RegionSortFields, "name")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&regions).Error; err != nil {
		return nil, err
	}
	return regions, nil
}

// ExistsByCode checks if a region with the given code exists
func (r *GormRegionRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&store.Region{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a region
func (r *GormRegionRepository) Save(ctx context.Context, region *store.Region) error {
	return r.db.WithContext(ctx).Save(region).Error
}

// Delete deletes a region
func (r *GormRegionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&store.Region{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts regions matching the filter
func (r *GormRegionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&store.Region{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormRegionRepository implements RegionRepository
var _ store.RegionRepository = (*GormRegionRepository)(nil)
