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

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID finds a store by its ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	var s store.Store
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByCode finds a store by its code
func (r *GormStoreRepository) FindByCode(ctx context.Context, code string) (*store.Store, error) {
	var s store.Store
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAll finds all stores matching the filter
func (r *GormStoreRepository) FindAll(ctx context.Context, filter shared.Filter) ([]store.Store, error) {
	var stores []store.Store
	query := r.applyFilter(r.db.WithContext(ctx).Model(&store.Store{}), filter)

	if err := query.Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// FindByRegionID finds all stores in a region
func (r *GormStoreRepository) FindByRegionID(ctx context.Context, regionID uuid.UUID) ([]store.Store, error) {
	var stores []store.Store
	if err := r.db.WithContext(ctx).
		Where("region_id = ?", regionID).
		Order("sort_order ASC, name ASC").
		Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// ExistsByCode checks if a store with the given code exists
func (r *GormStoreRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&store.Store{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a store
func (r *GormStoreRepository) Save(ctx context.Context, s *store.Store) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Delete deletes a store
func (r *GormStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&store.Store{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts stores matching the filter
func (r *GormStoreRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&store.Store{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormStoreRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, StoreSortFields, "")
		if sortField != "" {
			query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))
		} else {
			query = query.Order("sort_order ASC, name ASC")
		}
	} else {
		query = query.Order("sort_order ASC, name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStoreRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR city ILIKE ?", searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "region_id":
			if value == nil {
				query = query.Where("region_id IS NULL")
			} else {
				query = query.Where("region_id = ?", value)
			}
		case "city":
			query = query.Where("city = ?", value)
		}
	}

	return query
}

// Ensure GormStoreRepository implements StoreRepository
var _ store.StoreRepository = (*GormStoreRepository)(nil)
