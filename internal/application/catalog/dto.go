package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Product DTOs
// =============================================================================

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	SKU          string           `json:"sku" binding:"required,min=1,max=50"`
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	Description  string           `json:"description"`
	Barcode      string           `json:"barcode" binding:"max=50"`
	CategoryID   *uuid.UUID       `json:"category_id"`
	BrandID      *uuid.UUID       `json:"brand_id"`
	SupplierID   *uuid.UUID       `json:"supplier_id"`
	Unit         string           `json:"unit" binding:"required,min=1,max=20"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	MinStock     *decimal.Decimal `json:"min_stock"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description"`
	Barcode     *string    `json:"barcode" binding:"omitempty,max=50"`
	CategoryID  *uuid.UUID `json:"category_id"`
	BrandID     *uuid.UUID `json:"brand_id"`
	SupplierID  *uuid.UUID `json:"supplier_id"`
}

// UpdateProductPricesRequest represents a price change request
type UpdateProductPricesRequest struct {
	CostPrice    *decimal.Decimal `json:"cost_price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
}

// SetMinStockRequest represents a low stock threshold change
type SetMinStockRequest struct {
	MinStock decimal.Decimal `json:"min_stock" binding:"required"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Barcode      string          `json:"barcode"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	BrandID      *uuid.UUID      `json:"brand_id,omitempty"`
	SupplierID   *uuid.UUID      `json:"supplier_id,omitempty"`
	Unit         string          `json:"unit"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	MinStock     decimal.Decimal `json:"min_stock"`
	HasImage     bool            `json:"has_image"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=active inactive discontinued"`
	CategoryID *uuid.UUID `form:"category_id"`
	BrandID    *uuid.UUID `form:"brand_id"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InitiateImageUploadRequest starts a presigned product image upload
type InitiateImageUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// InitiateImageUploadResponse carries the presigned upload URL
type InitiateImageUploadResponse struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ConfirmImageUploadRequest confirms a completed product image upload
type ConfirmImageUploadRequest struct {
	StorageKey string `json:"storage_key" binding:"required,max=500"`
}

// ProductImageURLResponse carries a presigned download URL
type ProductImageURLResponse struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Barcode:      p.Barcode,
		CategoryID:   p.CategoryID,
		BrandID:      p.BrandID,
		SupplierID:   p.SupplierID,
		Unit:         p.Unit,
		CostPrice:    p.CostPrice,
		SellingPrice: p.SellingPrice,
		MinStock:     p.MinStock,
		HasImage:     p.ImageKey != "",
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// =============================================================================
// Category DTOs
// =============================================================================

// CreateCategoryRequest represents a request to create a new category
type CreateCategoryRequest struct {
	Code        string     `json:"code" binding:"required,min=1,max=50"`
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	SortOrder   int        `json:"sort_order"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CategoryListFilter represents filter options for category list
type CategoryListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	RootOnly bool   `form:"root_only"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		SortOrder:   c.SortOrder,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of domain Categories
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}

// =============================================================================
// Brand DTOs
// =============================================================================

// CreateBrandRequest represents a request to create a new brand
type CreateBrandRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=50"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
}

// UpdateBrandRequest represents a request to update a brand
type UpdateBrandRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
}

// BrandResponse represents a brand in API responses
type BrandResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BrandListFilter represents filter options for brand list
type BrandListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToBrandResponse converts a domain Brand to BrandResponse
func ToBrandResponse(b *catalog.Brand) BrandResponse {
	return BrandResponse{
		ID:          b.ID,
		Code:        b.Code,
		Name:        b.Name,
		Description: b.Description,
		SortOrder:   b.SortOrder,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// ToBrandResponses converts a slice of domain Brands
func ToBrandResponses(brands []catalog.Brand) []BrandResponse {
	responses := make([]BrandResponse, len(brands))
	for i := range brands {
		responses[i] = ToBrandResponse(&brands[i])
	}
	return responses
}
