package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/pawmart/backend/internal/domain/shared"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

// Supplier represents a product supplier
// It is the aggregate root for supplier-related operations
type Supplier struct {
	shared.BaseAggregateRoot
	Code             string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name             string         `gorm:"type:varchar(200);not null"`
	ContactName      string         `gorm:"type:varchar(100)"`
	Phone            string         `gorm:"type:varchar(50)"`
	Email            string         `gorm:"type:varchar(200)"`
	Address          string         `gorm:"type:text"`
	PaymentTermsDays int            `gorm:"not null;default:30"`
	Status           SupplierStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes            string         `gorm:"type:text"`
	SortOrder        int            `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier with required fields
func NewSupplier(code, name string) (*Supplier, error) {
	if err := validateSupplierCode(code); err != nil {
		return nil, err
	}
	if err := validateSupplierName(name); err != nil {
		return nil, err
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
		PaymentTermsDays:  30,
		Status:            SupplierStatusActive,
	}, nil
}

// Update updates the supplier's basic information
func (s *Supplier) Update(name string) error {
	if err := validateSupplierName(name); err != nil {
		return err
	}

	s.Name = strings.TrimSpace(name)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetContact sets the supplier's contact information
func (s *Supplier) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if email != "" {
		if err := validateCustomerEmail(email); err != nil {
			return err
		}
	}

	s.ContactName = strings.TrimSpace(contactName)
	s.Phone = strings.TrimSpace(phone)
	s.Email = strings.ToLower(strings.TrimSpace(email))
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetAddress sets the supplier's address
func (s *Supplier) SetAddress(address string) error {
	if address != "" && len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	s.Address = address
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetPaymentTerms sets the payment terms in days
func (s *Supplier) SetPaymentTerms(days int) error {
	if days < 0 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms cannot be negative")
	}
	if days > 365 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms cannot exceed 365 days")
	}

	s.PaymentTermsDays = days
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetNotes sets free-form notes on the supplier
func (s *Supplier) SetNotes(notes string) {
	s.Notes = notes
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Activate activates the supplier
func (s *Supplier) Activate() error {
	if s.Status == SupplierStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Supplier is already active")
	}

	s.Status = SupplierStatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Deactivate deactivates the supplier
func (s *Supplier) Deactivate() error {
	if s.Status == SupplierStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Supplier is already inactive")
	}

	s.Status = SupplierStatusInactive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// IsActive returns true if the supplier is active
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}

func validateSupplierCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_SUPPLIER_CODE", "Supplier code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_SUPPLIER_CODE", "Supplier code cannot exceed 50 characters")
	}

	codeRegex := regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_\-]*$`)
	if !codeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_SUPPLIER_CODE", "Supplier code must start with a letter and contain only letters, numbers, underscores, and hyphens")
	}

	return nil
}

func validateSupplierName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot exceed 200 characters")
	}
	return nil
}
