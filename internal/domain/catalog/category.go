package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/shared"
)

// CategoryStatus represents the status of a category
type CategoryStatus string

const (
	CategoryStatusActive   CategoryStatus = "active"
	CategoryStatusInactive CategoryStatus = "inactive"
)

// Category represents a product category.
// Categories form a flat hierarchy - one optional parent level.
type Category struct {
	shared.BaseAggregateRoot
	Code        string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string         `gorm:"type:varchar(100);not null"`
	Description string         `gorm:"type:text"`
	ParentID    *uuid.UUID     `gorm:"type:uuid;index"`
	SortOrder   int            `gorm:"not null;default:0"`
	Status      CategoryStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new root category
func NewCategory(code, name string) (*Category, error) {
	if err := validateCategoryCode(code); err != nil {
		return nil, err
	}
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
		Status:            CategoryStatusActive,
	}, nil
}

// NewChildCategory creates a new category under a parent
func NewChildCategory(code, name string, parent *Category) (*Category, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent category is required")
	}
	if parent.ParentID != nil {
		return nil, shared.NewDomainError("MAX_DEPTH_EXCEEDED", "Categories can only be nested one level deep")
	}

	category, err := NewCategory(code, name)
	if err != nil {
		return nil, err
	}

	parentID := parent.ID
	category.ParentID = &parentID

	return category, nil
}

// Update updates the category's basic information
func (c *Category) Update(name, description string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.Description = description
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetSortOrder sets the display order
func (c *Category) SetSortOrder(order int) {
	c.SortOrder = order
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate activates the category
func (c *Category) Activate() error {
	if c.Status == CategoryStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Category is already active")
	}

	c.Status = CategoryStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Deactivate deactivates the category
func (c *Category) Deactivate() error {
	if c.Status == CategoryStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Category is already inactive")
	}

	c.Status = CategoryStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IsRoot returns true if the category has no parent
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

func validateCategoryCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CATEGORY_CODE", "Category code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CATEGORY_CODE", "Category code cannot exceed 50 characters")
	}

	codeRegex := regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_\-]*$`)
	if !codeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_CATEGORY_CODE", "Category code must start with a letter and contain only letters, numbers, underscores, and hyphens")
	}

	return nil
}

func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}
