package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/shared"
)

// StoreRepository defines the interface for store persistence
type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)
	FindByCode(ctx context.Context, code string) (*Store, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Store, error)
	FindByRegionID(ctx context.Context, regionID uuid.UUID) ([]Store, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, s *Store) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// RegionRepository defines the interface for region persistence
type RegionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Region, error)
	FindByCode(ctx context.Context, code string) (*Region, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Region, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, r *Region) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
