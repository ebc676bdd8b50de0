package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/pawmart/backend/internal/domain/store"
)

// RegionService handles region-related business operations
type RegionService struct {
	regionRepo store.RegionRepository
	storeRepo  store.StoreRepository
}

// NewRegionService creates a new RegionService
func NewRegionService(regionRepo store.RegionRepository, storeRepo store.StoreRepository) *RegionService {
	return &RegionService{
		regionRepo: regionRepo,
		storeRepo:  storeRepo,
	}
}

// Create creates a new region
func (s *RegionService) Create(ctx context.Context, req CreateRegionRequest) (*RegionResponse, error) {
	exists, err := s.regionRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Region with this code already exists")
	}

	region, err := store.NewRegion(req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := region.Update(region.Name, req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.regionRepo.Save(ctx, region); err != nil {
		return nil, err
	}

	response := ToRegionResponse(region)
	return &response, nil
}

// GetByID retrieves a region by ID
func (s *RegionService) GetByID(ctx context.Context, regionID uuid.UUID) (*RegionResponse, error) {
	region, err := s.regionRepo.FindByID(ctx, regionID)
	if err != nil {
		return nil, err
	}

	response := ToRegionResponse(region)
	return &response, nil
}

// GetByCode retrieves a region by code
func (s *RegionService) GetByCode(ctx context.Context, code string) (*RegionResponse, error) {
	region, err := s.regionRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	response := ToRegionResponse(region)
	return &response, nil
}

// List retrieves a list of regions with filtering and pagination
func (s *RegionService) List(ctx context.Context, filter RegionListFilter) ([]RegionResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "code"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}

	regions, err := s.regionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.regionRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToRegionResponses(regions), total, nil
}

// Update updates a region
func (s *RegionService) Update(ctx context.Context, regionID uuid.UUID, req UpdateRegionRequest) (*RegionResponse, error) {
	region, err := s.regionRepo.FindByID(ctx, regionID)
	if err != nil {
		return nil, err
	}

	name := region.Name
	description := region.Description

	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}

	if err := region.Update(name, description); err != nil {
		return nil, err
	}

	if err := s.regionRepo.Save(ctx, region); err != nil {
		return nil, err
	}

	response := ToRegionResponse(region)
	return &response, nil
}

// Delete deletes a region. A region with assigned stores cannot be deleted.
func (s *RegionService) Delete(ctx context.Context, regionID uuid.UUID) error {
	if _, err := s.regionRepo.FindByID(ctx, regionID); err != nil {
		return err
	}

	stores, err := s.storeRepo.FindByRegionID(ctx, regionID)
	if err != nil {
		return err
	}
	if len(stores) > 0 {
		return shared.ErrEntityInUse
	}

	return s.regionRepo.Delete(ctx, regionID)
}
