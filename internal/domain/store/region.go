package store

import (
	"regexp"
	"strings"
	"time"

	"github.com/pawmart/backend/internal/domain/shared"
)

// Region represents a geographic sales region grouping stores
type Region struct {
	shared.BaseAggregateRoot
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Region) TableName() string {
	return "regions"
}

// NewRegion creates a new region with required fields
func NewRegion(code, name string) (*Region, error) {
	if err := validateRegionCode(code); err != nil {
		return nil, err
	}
	if err := validateRegionName(name); err != nil {
		return nil, err
	}

	return &Region{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
	}, nil
}

// Update updates the region's basic information
func (r *Region) Update(name, description string) error {
	if err := validateRegionName(name); err != nil {
		return err
	}

	r.Name = strings.TrimSpace(name)
	r.Description = description
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

func validateRegionCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_REGION_CODE", "Region code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_REGION_CODE", "Region code cannot exceed 50 characters")
	}

	codeRegex := regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_\-]*$`)
	if !codeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_REGION_CODE", "Region code must start with a letter and contain only letters, numbers, underscores, and hyphens")
	}

	return nil
}

func validateRegionName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_REGION_NAME", "Region name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_REGION_NAME", "Region name cannot exceed 200 characters")
	}
	return nil
}
