package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/partner"
	"github.com/pawmart/backend/internal/domain/shared"
)

// OpenOrderCounter reports how many open purchase orders reference a supplier
type OpenOrderCounter interface {
	CountOpenBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)
}

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo     partner.SupplierRepository
	openOrderCounter OpenOrderCounter
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, openOrderCounter OpenOrderCounter) *SupplierService {
	return &SupplierService{
		supplierRepo:     supplierRepo,
		openOrderCounter: openOrderCounter,
	}
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	// Check if code already exists
	exists, err := s.supplierRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Supplier with this code already exists")
	}

	// Create the supplier
	supplier, err := partner.NewSupplier(req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	// Set contact
	if req.ContactName != "" || req.Phone != "" || req.Email != "" {
		if err := supplier.SetContact(req.ContactName, req.Phone, req.Email); err != nil {
			return nil, err
		}
	}

	// Set address
	if req.Address != "" {
		if err := supplier.SetAddress(req.Address); err != nil {
			return nil, err
		}
	}

	// Set payment terms
	if req.PaymentTermsDays != nil {
		if err := supplier.SetPaymentTerms(*req.PaymentTermsDays); err != nil {
			return nil, err
		}
	}

	// Set notes
	if req.Notes != "" {
		supplier.SetNotes(req.Notes)
	}

	// Save the supplier
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByCode retrieves a supplier by code
func (s *SupplierService) GetByCode(ctx context.Context, code string) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves a list of suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
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

	// Get suppliers
	suppliers, err := s.supplierRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	// Get total count
	total, err := s.supplierRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSupplierResponses(suppliers), total, nil
}

// Update updates a supplier
func (s *SupplierService) Update(ctx context.Context, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	// Get existing supplier
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	// Update name
	if req.Name != nil {
		if err := supplier.Update(*req.Name); err != nil {
			return nil, err
		}
	}

	// Update contact
	if req.ContactName != nil || req.Phone != nil || req.Email != nil {
		contactName := supplier.ContactName
		phone := supplier.Phone
		email := supplier.Email

		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}

		if err := supplier.SetContact(contactName, phone, email); err != nil {
			return nil, err
		}
	}

	// Update address
	if req.Address != nil {
		if err := supplier.SetAddress(*req.Address); err != nil {
			return nil, err
		}
	}

	// Update payment terms
	if req.PaymentTermsDays != nil {
		if err := supplier.SetPaymentTerms(*req.PaymentTermsDays); err != nil {
			return nil, err
		}
	}

	// Update notes
	if req.Notes != nil {
		supplier.SetNotes(*req.Notes)
	}

	// Save the supplier
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Activate activates a supplier
func (s *SupplierService) Activate(ctx context.Context, supplierID uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return err
	}

	if err := supplier.Activate(); err != nil {
		return err
	}

	return s.supplierRepo.Save(ctx, supplier)
}

// Deactivate deactivates a supplier
func (s *SupplierService) Deactivate(ctx context.Context, supplierID uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return err
	}

	if err := supplier.Deactivate(); err != nil {
		return err
	}

	return s.supplierRepo.Save(ctx, supplier)
}

// Delete deletes a supplier. Suppliers with open purchase orders cannot be
// deleted.
func (s *SupplierService) Delete(ctx context.Context, supplierID uuid.UUID) error {
	if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
		return err
	}

	open, err := s.openOrderCounter.CountOpenBySupplier(ctx, supplierID)
	if err != nil {
		return err
	}
	if open > 0 {
		return shared.ErrEntityInUse
	}

	return s.supplierRepo.Delete(ctx, supplierID)
}
