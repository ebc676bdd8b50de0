package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/partner"
	"github.com/pawmart/backend/internal/domain/shared"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	// Check if code already exists (when provided; otherwise one is generated)
	if req.Code != "" {
		exists, err := s.customerRepo.ExistsByCode(ctx, req.Code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this code already exists")
		}
	}

	// Check if phone already exists (if provided)
	if req.Phone != "" {
		exists, err := s.customerRepo.ExistsByPhone(ctx, req.Phone)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this phone already exists")
		}
	}

	// Create the customer
	var customer *partner.Customer
	var err error
	if req.Code != "" {
		customer, err = partner.NewCustomerWithCode(req.Code, req.Name)
		if err != nil {
			return nil, err
		}
	} else {
		customer, err = s.createWithGeneratedCode(ctx, req.Name)
		if err != nil {
			return nil, err
		}
	}

	// Set contact
	if req.Phone != "" || req.Email != "" {
		if err := customer.SetContact(req.Phone, req.Email); err != nil {
			return nil, err
		}
	}

	// Set address
	if req.Address != "" {
		if err := customer.SetAddress(req.Address); err != nil {
			return nil, err
		}
	}

	// Set notes
	if req.Notes != "" {
		customer.SetNotes(req.Notes)
	}

	// Save the customer
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Generated codes are random, so a fresh code can collide with an
// existing customer. Retry with a new code instead of failing the create.
const maxCodeAttempts = 5

func (s *CustomerService) createWithGeneratedCode(ctx context.Context, name string) (*partner.Customer, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		customer, err := partner.NewCustomer(name)
		if err != nil {
			return nil, err
		}
		exists, err := s.customerRepo.ExistsByCode(ctx, customer.Code)
		if err != nil {
			return nil, err
		}
		if !exists {
			return customer, nil
		}
	}
	return nil, shared.NewDomainError("CODE_GENERATION_FAILED", "Could not generate a unique customer code")
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByCode retrieves a customer by code
func (s *CustomerService) GetByCode(ctx context.Context, code string) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByPhone retrieves a customer by phone number, used for POS lookup
func (s *CustomerService) GetByPhone(ctx context.Context, phone string) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves a list of customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
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

	// Add specific filters
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.MinPoints != nil {
		domainFilter.Filters["min_points"] = *filter.MinPoints
	}
	if filter.JoinedAfter != "" {
		joinedAfter, err := time.Parse(time.RFC3339, filter.JoinedAfter)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_FILTER", "joined_after must be an RFC3339 timestamp")
		}
		domainFilter.Filters["joined_after"] = joinedAfter
	}

	// Get customers
	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	// Get total count
	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerResponses(customers), total, nil
}

// Update updates a customer
func (s *CustomerService) Update(ctx context.Context, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	// Get existing customer
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	// Update name
	if req.Name != nil {
		if err := customer.Update(*req.Name); err != nil {
			return nil, err
		}
	}

	// Update contact
	if req.Phone != nil || req.Email != nil {
		phone := customer.Phone
		email := customer.Email

		if req.Phone != nil {
			// Check for duplicate phone
			if *req.Phone != "" && *req.Phone != customer.Phone {
				exists, err := s.customerRepo.ExistsByPhone(ctx, *req.Phone)
				if err != nil {
					return nil, err
				}
				if exists {
					return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this phone already exists")
				}
			}
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}

		if err := customer.SetContact(phone, email); err != nil {
			return nil, err
		}
	}

	// Update address
	if req.Address != nil {
		if err := customer.SetAddress(*req.Address); err != nil {
			return nil, err
		}
	}

	// Update notes
	if req.Notes != nil {
		customer.SetNotes(*req.Notes)
	}

	// Save the customer
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// AdjustPoints applies a manual loyalty point adjustment
func (s *CustomerService) AdjustPoints(ctx context.Context, customerID uuid.UUID, req AdjustPointsRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := customer.AdjustPoints(req.Delta); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Activate activates a customer
func (s *CustomerService) Activate(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}

	if err := customer.Activate(); err != nil {
		return err
	}

	return s.customerRepo.Save(ctx, customer)
}

// Deactivate deactivates a customer
func (s *CustomerService) Deactivate(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}

	if err := customer.Deactivate(); err != nil {
		return err
	}

	return s.customerRepo.Save(ctx, customer)
}

// Delete deletes a customer
func (s *CustomerService) Delete(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}

	if customer.LoyaltyPoints > 0 {
		return shared.NewDomainError("HAS_POINTS", "Cannot delete customer with outstanding loyalty points")
	}

	return s.customerRepo.Delete(ctx, customerID)
}
