package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/inventory"
	"github.com/pawmart/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryRepository implements InventoryRepository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// FindByID finds an inventory item by ID
func (r *GormInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByStoreAndProduct finds the inventory item for a store-product pair
func (r *GormInventoryRepository) FindByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindOrCreate returns the inventory item for a store-product pair,
// creating a zero-quantity row if none exists
func (r *GormInventoryRepository) FindOrCreate(ctx context.Context, storeID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	item, err := r.FindByStoreAndProduct(ctx, storeID, productID)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	created, err := inventory.NewInventoryItem(storeID, productID)
	if err != nil {
		return nil, err
	}
	// Another writer may insert the same pair concurrently. The unique
	// index on (store_id, product_id) makes the insert a no-op in that
	// case and the existing row is re-read.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(created)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return r.FindByStoreAndProduct(ctx, storeID, productID)
	}
	return created, nil
}

// FindByStore returns all inventory items for a store with pagination
func (r *GormInventoryRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter inventory.InventoryFilter) ([]*inventory.InventoryItem, int64, error) {
	var items []*inventory.InventoryItem
	var total int64

	query := r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).
		Where("inventory_items.store_id = ?", storeID)

	if filter.ProductID != nil {
		query = query.Where("inventory_items.product_id = ?", *filter.ProductID)
	}
	if filter.LowStock {
		query = query.
			Joins("JOIN products ON products.id = inventory_items.product_id").
			Where("products.min_stock > 0 AND inventory_items.on_hand_quantity <= products.min_stock")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("inventory_items.updated_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// FindByProduct returns inventory for a product across all stores
func (r *GormInventoryRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*inventory.InventoryItem, error) {
	var items []*inventory.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("store_id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save persists an inventory item with optimistic locking
func (r *GormInventoryRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	// New rows have version 1 and no database counterpart yet
	var exists int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryItem{}).
		Where("id = ?", item.ID).
		Count(&exists).Error; err != nil {
		return err
	}
	if exists == 0 {
		return r.db.WithContext(ctx).Create(item).Error
	}

	result := r.db.WithContext(ctx).
		Model(&inventory.InventoryItem{}).
		Where("id = ? AND version < ?", item.ID, item.Version).
		Updates(map[string]interface{}{
			"on_hand_quantity":  item.OnHandQuantity,
			"reserved_quantity": item.ReservedQuantity,
			"last_counted_at":   item.LastCountedAt,
			"version":           item.Version,
			"updated_at":        item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The inventory record has been modified by another operation")
	}
	return nil
}

// HasStockForStore reports whether any product has stock on hand at the store
func (r *GormInventoryRepository) HasStockForStore(ctx context.Context, storeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryItem{}).
		Where("store_id = ? AND on_hand_quantity > 0", storeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormInventoryRepository implements InventoryRepository
var _ inventory.InventoryRepository = (*GormInventoryRepository)(nil)

// GormStockMovementRepository implements StockMovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Append writes a movement row
func (r *GormStockMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByFilter returns movements matching the filter with pagination
func (r *GormStockMovementRepository) FindByFilter(ctx context.Context, filter inventory.MovementFilter) ([]*inventory.StockMovement, int64, error) {
	var movements []*inventory.StockMovement
	var total int64

	query := r.db.WithContext(ctx).Model(&inventory.StockMovement{})
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&movements).Error; err != nil {
		return nil, 0, err
	}

	return movements, total, nil
}

// applyFilter applies filter options to the query
func (r *GormStockMovementRepository) applyFilter(query *gorm.DB, filter inventory.MovementFilter) *gorm.DB {
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.ReferenceID != nil {
		query = query.Where("reference_id = ?", *filter.ReferenceID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	return query
}

// Ensure GormStockMovementRepository implements StockMovementRepository
var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
