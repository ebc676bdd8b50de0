package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	ExistsByBarcode(ctx context.Context, barcode string) (bool, error)
	CountByCategoryID(ctx context.Context, categoryID uuid.UUID) (int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByCode(ctx context.Context, code string) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]Category, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// BrandRepository defines the interface for brand persistence
type BrandRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Brand, error)
	FindByCode(ctx context.Context, code string) (*Brand, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Brand, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, brand *Brand) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
