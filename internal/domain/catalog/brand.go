package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/pawmart/backend/internal/domain/shared"
)

// Brand represents a product brand
type Brand struct {
	shared.BaseAggregateRoot
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	SortOrder   int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// NewBrand creates a new brand with required fields
func NewBrand(code, name string) (*Brand, error) {
	if err := validateBrandCode(code); err != nil {
		return nil, err
	}
	if err := validateBrandName(name); err != nil {
		return nil, err
	}

	return &Brand{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
	}, nil
}

// Update updates the brand's basic information
func (b *Brand) Update(name, description string) error {
	if err := validateBrandName(name); err != nil {
		return err
	}

	b.Name = strings.TrimSpace(name)
	b.Description = description
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// SetSortOrder sets the display order
func (b *Brand) SetSortOrder(order int) {
	b.SortOrder = order
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

func validateBrandCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_BRAND_CODE", "Brand code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_BRAND_CODE", "Brand code cannot exceed 50 characters")
	}

	codeRegex := regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_\-]*$`)
	if !codeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_BRAND_CODE", "Brand code must start with a letter and contain only letters, numbers, underscores, and hyphens")
	}

	return nil
}

func validateBrandName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_BRAND_NAME", "Brand name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_BRAND_NAME", "Brand name cannot exceed 100 characters")
	}
	return nil
}
