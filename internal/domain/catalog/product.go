package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/pawmart/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// Product represents a product/SKU in the catalog
// It is the aggregate root for product-related operations
type Product struct {
	shared.BaseAggregateRoot
	SKU          string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Description  string          `gorm:"type:text"`
	Barcode      string          `gorm:"type:varchar(50);uniqueIndex:idx_products_barcode,where:barcode <> ''"`
	CategoryID   *uuid.UUID      `gorm:"type:uuid;index"`
	BrandID      *uuid.UUID      `gorm:"type:uuid;index"`
	SupplierID   *uuid.UUID      `gorm:"type:uuid;index"`
	Unit         string          `gorm:"type:varchar(20);not null"`             // Base unit (e.g., "pcs", "bag", "box")
	CostPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Purchase cost
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinStock     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Low stock alert threshold
	ImageKey     string          `gorm:"type:varchar(500)"`                     // Object storage key for product image
	Status       ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	SortOrder    int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(sku, name, unit string) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(strings.TrimSpace(sku)),
		Name:              strings.TrimSpace(name),
		Unit:              unit,
		CostPrice:         decimal.Zero,
		SellingPrice:      decimal.Zero,
		MinStock:          decimal.Zero,
		Status:            ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// NewProductWithPrices creates a new product with prices
func NewProductWithPrices(sku, name, unit string, costPrice, sellingPrice valueobject.Money) (*Product, error) {
	product, err := NewProduct(sku, name, unit)
	if err != nil {
		return nil, err
	}

	if err := product.SetPrices(costPrice, sellingPrice); err != nil {
		return nil, err
	}

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetBarcode sets the product barcode
func (p *Product) SetBarcode(barcode string) error {
	if barcode != "" && len(barcode) > 50 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 50 characters")
	}

	p.Barcode = strings.TrimSpace(barcode)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetBrand sets the product brand
func (p *Product) SetBrand(brandID *uuid.UUID) {
	p.BrandID = brandID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetSupplier sets the product's preferred supplier
func (p *Product) SetSupplier(supplierID *uuid.UUID) {
	p.SupplierID = supplierID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetImageKey sets the object storage key of the product image
func (p *Product) SetImageKey(key string) error {
	if key != "" && len(key) > 500 {
		return shared.NewDomainError("INVALID_IMAGE_KEY", "Image key cannot exceed 500 characters")
	}

	p.ImageKey = key
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPrices sets both cost and selling prices
func (p *Product) SetPrices(costPrice, sellingPrice valueobject.Money) error {
	if costPrice.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
	}
	if sellingPrice.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}

	oldCost := p.CostPrice
	oldSelling := p.SellingPrice

	p.CostPrice = costPrice.Amount()
	p.SellingPrice = sellingPrice.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldCost, oldSelling))

	return nil
}

// UpdateSellingPrice updates only the selling price
func (p *Product) UpdateSellingPrice(price valueobject.Money) error {
	if price.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}

	oldPrice := p.SellingPrice
	p.SellingPrice = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, p.CostPrice, oldPrice))

	return nil
}

// SetMinStock sets the low stock alert threshold
func (p *Product) SetMinStock(minStock decimal.Decimal) error {
	if minStock.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}

	p.MinStock = minStock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetSortOrder sets the display order of the product
func (p *Product) SetSortOrder(order int) {
	p.SortOrder = order
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate activates the product
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("CANNOT_ACTIVATE", "Cannot activate a discontinued product")
	}

	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Deactivate deactivates the product
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("CANNOT_DEACTIVATE", "Cannot deactivate a discontinued product")
	}

	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Discontinue marks the product as discontinued.
// A discontinued product cannot be reactivated.
func (p *Product) Discontinue() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("ALREADY_DISCONTINUED", "Product is already discontinued")
	}

	p.Status = ProductStatusDiscontinued
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductDiscontinuedEvent(p))

	return nil
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsDiscontinued returns true if the product is discontinued
func (p *Product) IsDiscontinued() bool {
	return p.Status == ProductStatusDiscontinued
}

// IsBelowCost returns true if the selling price is below the cost price
func (p *Product) IsBelowCost() bool {
	return p.SellingPrice.LessThan(p.CostPrice)
}

// GetCostPriceMoney returns cost price as Money value object
func (p *Product) GetCostPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.CostPrice)
}

// GetSellingPriceMoney returns selling price as Money value object
func (p *Product) GetSellingPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.SellingPrice)
}

// GetProfitMargin returns the profit margin percentage.
// Returns 0 if cost price is zero.
func (p *Product) GetProfitMargin() decimal.Decimal {
	if p.CostPrice.IsZero() {
		return decimal.Zero
	}
	profit := p.SellingPrice.Sub(p.CostPrice)
	return profit.Div(p.CostPrice).Mul(decimal.NewFromInt(100))
}

// Validation functions

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) < 2 {
		return shared.NewDomainError("INVALID_SKU", "SKU must be at least 2 characters")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}

	skuRegex := regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)
	if !skuRegex.MatchString(sku) {
		return shared.NewDomainError("INVALID_SKU", "SKU can only contain letters, numbers, underscores, and hyphens")
	}

	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateUnit(unit string) error {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	return nil
}
