package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/catalog"
	"github.com/pawmart/backend/internal/domain/shared"
)

// BrandService handles brand-related business operations
type BrandService struct {
	brandRepo catalog.BrandRepository
}

// NewBrandService creates a new BrandService
func NewBrandService(brandRepo catalog.BrandRepository) *BrandService {
	return &BrandService{
		brandRepo: brandRepo,
	}
}

// Create creates a new brand
func (s *BrandService) Create(ctx context.Context, req CreateBrandRequest) (*BrandResponse, error) {
	exists, err := s.brandRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Brand with this code already exists")
	}

	brand, err := catalog.NewBrand(req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := brand.Update(brand.Name, req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}

	response := ToBrandResponse(brand)
	return &response, nil
}

// GetByID retrieves a brand by ID
func (s *BrandService) GetByID(ctx context.Context, brandID uuid.UUID) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, brandID)
	if err != nil {
		return nil, err
	}

	response := ToBrandResponse(brand)
	return &response, nil
}

// List retrieves a list of brands with filtering and pagination
func (s *BrandService) List(ctx context.Context, filter BrandListFilter) ([]BrandResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "sort_order",
		OrderDir: "asc",
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}

	brands, err := s.brandRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.brandRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToBrandResponses(brands), total, nil
}

// Update updates a brand
func (s *BrandService) Update(ctx context.Context, brandID uuid.UUID, req UpdateBrandRequest) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, brandID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := brand.Name
		description := brand.Description

		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}

		if err := brand.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.SortOrder != nil {
		brand.SetSortOrder(*req.SortOrder)
	}

	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}

	response := ToBrandResponse(brand)
	return &response, nil
}

// Delete deletes a brand
func (s *BrandService) Delete(ctx context.Context, brandID uuid.UUID) error {
	if _, err := s.brandRepo.FindByID(ctx, brandID); err != nil {
		return err
	}

	return s.brandRepo.Delete(ctx, brandID)
}
