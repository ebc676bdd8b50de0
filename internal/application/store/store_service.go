package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/inventory"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/pawmart/backend/internal/domain/store"
)

// StoreService handles store-related business operations
type StoreService struct {
	storeRepo     store.StoreRepository
	regionRepo    store.RegionRepository
	inventoryRepo inventory.InventoryRepository
	eventBus      shared.EventPublisher
}

// NewStoreService creates a new StoreService
func NewStoreService(
	storeRepo store.StoreRepository,
	regionRepo store.RegionRepository,
	inventoryRepo inventory.InventoryRepository,
	eventBus shared.EventPublisher,
) *StoreService {
	return &StoreService{
		storeRepo:     storeRepo,
		regionRepo:    regionRepo,
		inventoryRepo: inventoryRepo,
		eventBus:      eventBus,
	}
}

// Create creates a new store
func (s *StoreService) Create(ctx context.Context, req CreateStoreRequest) (*StoreResponse, error) {
	// Check if code already exists
	exists, err := s.storeRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Store with this code already exists")
	}

	// Verify the region exists before assigning
	if req.RegionID != nil {
		if _, err := s.regionRepo.FindByID(ctx, *req.RegionID); err != nil {
			return nil, err
		}
	}

	// Create the store
	st, err := store.NewStore(req.Code, req.Name, store.Type(req.Type))
	if err != nil {
		return nil, err
	}

	if req.RegionID != nil {
		st.SetRegion(req.RegionID)
	}

	if req.ManagerName != "" {
		if err := st.SetManager(req.ManagerName); err != nil {
			return nil, err
		}
	}

	if req.Phone != "" || req.Email != "" {
		if err := st.SetContact(req.Phone, req.Email); err != nil {
			return nil, err
		}
	}

	if req.Address != "" || req.City != "" || req.PostalCode != "" {
		if err := st.SetAddress(req.Address, req.City, req.PostalCode); err != nil {
			return nil, err
		}
	}

	if req.Notes != "" {
		st.SetNotes(req.Notes)
	}

	// Save the store
	if err := s.storeRepo.Save(ctx, st); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, st)

	response := ToStoreResponse(st)
	return &response, nil
}

// GetByID retrieves a store by ID
func (s *StoreService) GetByID(ctx context.Context, storeID uuid.UUID) (*StoreResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	response := ToStoreResponse(st)
	return &response, nil
}

// GetByCode retrieves a store by code
func (s *StoreService) GetByCode(ctx context.Context, code string) (*StoreResponse, error) {
	st, err := s.storeRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	response := ToStoreResponse(st)
	return &response, nil
}

// List retrieves a list of stores with filtering and pagination
func (s *StoreService) List(ctx context.Context, filter StoreListFilter) ([]StoreResponse, int64, error) {
	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "sort_order"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	// Build domain filter
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.RegionID != nil {
		domainFilter.Filters["region_id"] = *filter.RegionID
	}

	// Get stores
	stores, err := s.storeRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	// Get total count
	total, err := s.storeRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToStoreResponses(stores), total, nil
}

// ListByRegion retrieves all stores assigned to a region
func (s *StoreService) ListByRegion(ctx context.Context, regionID uuid.UUID) ([]StoreResponse, error) {
	stores, err := s.storeRepo.FindByRegionID(ctx, regionID)
	if err != nil {
		return nil, err
	}

	return ToStoreResponses(stores), nil
}

// Update updates a store
func (s *StoreService) Update(ctx context.Context, storeID uuid.UUID, req UpdateStoreRequest) (*StoreResponse, error) {
	// Get existing store
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	// Update name
	if req.Name != nil {
		if err := st.Update(*req.Name); err != nil {
			return nil, err
		}
	}

	// Update region assignment
	if req.ClearRegion {
		st.SetRegion(nil)
	} else if req.RegionID != nil {
		if _, err := s.regionRepo.FindByID(ctx, *req.RegionID); err != nil {
			return nil, err
		}
		st.SetRegion(req.RegionID)
	}

	// Update manager
	if req.ManagerName != nil {
		if err := st.SetManager(*req.ManagerName); err != nil {
			return nil, err
		}
	}

	// Update contact
	if req.Phone != nil || req.Email != nil {
		phone := st.Phone
		email := st.Email

		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}

		if err := st.SetContact(phone, email); err != nil {
			return nil, err
		}
	}

	// Update address
	if req.Address != nil || req.City != nil || req.PostalCode != nil {
		address := st.Address
		city := st.City
		postalCode := st.PostalCode

		if req.Address != nil {
			address = *req.Address
		}
		if req.City != nil {
			city = *req.City
		}
		if req.PostalCode != nil {
			postalCode = *req.PostalCode
		}

		if err := st.SetAddress(address, city, postalCode); err != nil {
			return nil, err
		}
	}

	// Update notes
	if req.Notes != nil {
		st.SetNotes(*req.Notes)
	}

	// Save the store
	if err := s.storeRepo.Save(ctx, st); err != nil {
		return nil, err
	}

	response := ToStoreResponse(st)
	return &response, nil
}

// Activate activates a store
func (s *StoreService) Activate(ctx context.Context, storeID uuid.UUID) error {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return err
	}

	if err := st.Activate(); err != nil {
		return err
	}

	return s.storeRepo.Save(ctx, st)
}

// Deactivate deactivates a store
func (s *StoreService) Deactivate(ctx context.Context, storeID uuid.UUID) error {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return err
	}

	if err := st.Deactivate(); err != nil {
		return err
	}

	if err := s.storeRepo.Save(ctx, st); err != nil {
		return err
	}

	s.publishEvents(ctx, st)
	return nil
}

// Delete deletes a store. The store must be deactivated first and must not
// hold any stock.
func (s *StoreService) Delete(ctx context.Context, storeID uuid.UUID) error {
	st, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return err
	}

	if st.IsActive() {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete an active store; deactivate it first")
	}

	hasStock, err := s.inventoryRepo.HasStockForStore(ctx, storeID)
	if err != nil {
		return err
	}
	if hasStock {
		return shared.NewDomainError("ENTITY_IN_USE", "Cannot delete a store that still holds stock")
	}

	return s.storeRepo.Delete(ctx, storeID)
}

// publishEvents publishes domain events from the aggregate
func (s *StoreService) publishEvents(ctx context.Context, st *store.Store) {
	if s.eventBus == nil {
		return
	}

	for _, event := range st.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	st.ClearDomainEvents()
}
