package store

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/shared"
)

// Status represents the status of a store
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Type represents the type of store
type Type string

const (
	TypeRetail Type = "retail" // Customer-facing retail store
	TypeDC     Type = "dc"     // Distribution center / warehouse
)

// Store represents a retail store or distribution center
// It is the aggregate root for store-related operations
type Store struct {
	shared.BaseAggregateRoot
	Code        string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string     `gorm:"type:varchar(200);not null"`
	Type        Type       `gorm:"type:varchar(20);not null;default:'retail'"`
	Status      Status     `gorm:"type:varchar(20);not null;default:'active'"`
	RegionID    *uuid.UUID `gorm:"type:uuid;index"`
	ManagerName string     `gorm:"type:varchar(100)"`
	Phone       string     `gorm:"type:varchar(50)"`
	Email       string     `gorm:"type:varchar(200)"`
	Address     string     `gorm:"type:text"`
	City        string     `gorm:"type:varchar(100)"`
	PostalCode  string     `gorm:"type:varchar(20)"`
	Notes       string     `gorm:"type:text"`
	SortOrder   int        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// NewStore creates a new store with required fields
func NewStore(code, name string, storeType Type) (*Store, error) {
	if err := validateStoreCode(code); err != nil {
		return nil, err
	}
	if err := validateStoreName(name); err != nil {
		return nil, err
	}
	if err := validateStoreType(storeType); err != nil {
		return nil, err
	}

	s := &Store{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
		Type:              storeType,
		Status:            StatusActive,
	}

	s.AddDomainEvent(NewStoreCreatedEvent(s))

	return s, nil
}

// NewRetailStore creates a new retail store
func NewRetailStore(code, name string) (*Store, error) {
	return NewStore(code, name, TypeRetail)
}

// NewDistributionCenter creates a new distribution center
func NewDistributionCenter(code, name string) (*Store, error) {
	return NewStore(code, name, TypeDC)
}

// Update updates the store's basic information
func (s *Store) Update(name string) error {
	if err := validateStoreName(name); err != nil {
		return err
	}

	s.Name = strings.TrimSpace(name)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetRegion assigns the store to a region
func (s *Store) SetRegion(regionID *uuid.UUID) {
	s.RegionID = regionID
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// SetManager sets the store manager's name
func (s *Store) SetManager(managerName string) error {
	if managerName != "" && len(managerName) > 100 {
		return shared.NewDomainError("INVALID_MANAGER_NAME", "Manager name cannot exceed 100 characters")
	}

	s.ManagerName = strings.TrimSpace(managerName)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetContact sets the store's contact information
func (s *Store) SetContact(phone, email string) error {
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if email != "" {
		if err := validateStoreEmail(email); err != nil {
			return err
		}
	}

	s.Phone = strings.TrimSpace(phone)
	s.Email = strings.ToLower(strings.TrimSpace(email))
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetAddress sets the store's address information
func (s *Store) SetAddress(address, city, postalCode string) error {
	if address != "" && len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if city != "" && len(city) > 100 {
		return shared.NewDomainError("INVALID_CITY", "City cannot exceed 100 characters")
	}
	if postalCode != "" && len(postalCode) > 20 {
		return shared.NewDomainError("INVALID_POSTAL_CODE", "Postal code cannot exceed 20 characters")
	}

	s.Address = address
	s.City = city
	s.PostalCode = postalCode
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetNotes sets free-form notes on the store
func (s *Store) SetNotes(notes string) {
	s.Notes = notes
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Activate activates the store
func (s *Store) Activate() error {
	if s.Status == StatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Store is already active")
	}

	s.Status = StatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Deactivate deactivates the store
func (s *Store) Deactivate() error {
	if s.Status == StatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Store is already inactive")
	}

	s.Status = StatusInactive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStoreDeactivatedEvent(s))

	return nil
}

// IsActive returns true if the store is active
func (s *Store) IsActive() bool {
	return s.Status == StatusActive
}

// IsDistributionCenter returns true if the store is a DC
func (s *Store) IsDistributionCenter() bool {
	return s.Type == TypeDC
}

// Validation functions

func validateStoreCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_STORE_CODE", "Store code cannot be empty")
	}
	if len(code) < 2 {
		return shared.NewDomainError("INVALID_STORE_CODE", "Store code must be at least 2 characters")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_STORE_CODE", "Store code cannot exceed 50 characters")
	}

	codeRegex := regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_\-]*$`)
	if !codeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_STORE_CODE", "Store code must start with a letter and contain only letters, numbers, underscores, and hyphens")
	}

	return nil
}

func validateStoreName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot exceed 200 characters")
	}
	return nil
}

func validateStoreType(storeType Type) error {
	switch storeType {
	case TypeRetail, TypeDC:
		return nil
	default:
		return shared.NewDomainError("INVALID_STORE_TYPE", "Store type must be 'retail' or 'dc'")
	}
}

func validateStoreEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}
