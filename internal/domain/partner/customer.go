package partner

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// Customer represents a retail customer profile
// It is the aggregate root for customer-related operations
type Customer struct {
	shared.BaseAggregateRoot
	Code          string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Phone         string          `gorm:"type:varchar(50);uniqueIndex:idx_customers_phone,where:phone <> ''"`
	Email         string          `gorm:"type:varchar(200);index"`
	Address       string          `gorm:"type:text"`
	LoyaltyPoints int64           `gorm:"not null;default:0"`
	TotalSpent    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	JoinedAt      time.Time       `gorm:"not null"`
	Status        CustomerStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	Notes         string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with a generated code
func NewCustomer(name string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              generateCustomerCode(),
		Name:              strings.TrimSpace(name),
		TotalSpent:        decimal.Zero,
		JoinedAt:          time.Now(),
		Status:            CustomerStatusActive,
	}, nil
}

// NewCustomerWithCode creates a new customer with an explicit code
func NewCustomerWithCode(code, name string) (*Customer, error) {
	if err := validateCustomerCode(code); err != nil {
		return nil, err
	}

	customer, err := NewCustomer(name)
	if err != nil {
		return nil, err
	}

	customer.Code = strings.ToUpper(strings.TrimSpace(code))
	return customer, nil
}

// Update updates the customer's basic information
func (c *Customer) Update(name string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetContact sets the customer's contact information
func (c *Customer) SetContact(phone, email string) error {
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if email != "" {
		if err := validateCustomerEmail(email); err != nil {
			return err
		}
	}

	c.Phone = strings.TrimSpace(phone)
	c.Email = strings.ToLower(strings.TrimSpace(email))
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetAddress sets the customer's address
func (c *Customer) SetAddress(address string) error {
	if address != "" && len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	c.Address = address
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetNotes sets free-form notes on the customer
func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// RecordPurchase accrues loyalty points and total spent for a completed sale.
// One point is earned per whole currency unit of the sale total.
func (c *Customer) RecordPurchase(total decimal.Decimal) error {
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Purchase total cannot be negative")
	}

	c.LoyaltyPoints += total.IntPart()
	c.TotalSpent = c.TotalSpent.Add(total)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// ReversePurchase reverses the effect of a voided sale on points and total spent.
// Points never go below zero.
func (c *Customer) ReversePurchase(total decimal.Decimal) error {
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Purchase total cannot be negative")
	}

	c.LoyaltyPoints -= total.IntPart()
	if c.LoyaltyPoints < 0 {
		c.LoyaltyPoints = 0
	}
	c.TotalSpent = c.TotalSpent.Sub(total)
	if c.TotalSpent.IsNegative() {
		c.TotalSpent = decimal.Zero
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// AdjustPoints applies a manual loyalty point adjustment (signed).
// The balance never goes below zero.
func (c *Customer) AdjustPoints(delta int64) error {
	if c.LoyaltyPoints+delta < 0 {
		return shared.NewDomainError("INSUFFICIENT_POINTS", "Adjustment would make loyalty points negative")
	}

	c.LoyaltyPoints += delta
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Activate activates the customer
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Customer is already active")
	}

	c.Status = CustomerStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Deactivate deactivates the customer
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Customer is already inactive")
	}

	c.Status = CustomerStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IsActive returns true if the customer is active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// generateCustomerCode produces a CUS-xxxxxx style code
func generateCustomerCode() string {
	return fmt.Sprintf("CUS-%06d", rand.Intn(1000000))
}

// Validation functions

func validateCustomerCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CUSTOMER_CODE", "Customer code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CUSTOMER_CODE", "Customer code cannot exceed 50 characters")
	}

	codeRegex := regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_\-]*$`)
	if !codeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_CUSTOMER_CODE", "Customer code must start with a letter and contain only letters, numbers, underscores, and hyphens")
	}

	return nil
}

func validateCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validateCustomerEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}
