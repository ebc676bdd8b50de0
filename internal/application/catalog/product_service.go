package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/catalog"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/pawmart/backend/internal/domain/shared/valueobject"
)

// allowedImageContentTypes is the whitelist for product image uploads.
// SVG is excluded because it can carry scripts.
var allowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ProductServiceConfig holds configuration for the product service
type ProductServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultProductServiceConfig returns the default configuration
func DefaultProductServiceConfig() ProductServiceConfig {
	return ProductServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: 1 * time.Hour,
	}
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	brandRepo    catalog.BrandRepository
	imageStorage ImageStorage
	eventBus     shared.EventPublisher
	config       ProductServiceConfig
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	brandRepo catalog.BrandRepository,
	imageStorage ImageStorage,
	eventBus shared.EventPublisher,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		imageStorage: imageStorage,
		eventBus:     eventBus,
		config:       DefaultProductServiceConfig(),
	}
}

// SetConfig sets the service configuration
func (s *ProductService) SetConfig(config ProductServiceConfig) {
	s.config = config
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	// Check if SKU already exists
	exists, err := s.productRepo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	// Check if barcode already exists (if provided)
	if req.Barcode != "" {
		exists, err = s.productRepo.ExistsByBarcode(ctx, req.Barcode)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this barcode already exists")
		}
	}

	// Verify referenced category and brand exist
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}
	if req.BrandID != nil {
		if _, err := s.brandRepo.FindByID(ctx, *req.BrandID); err != nil {
			return nil, err
		}
	}

	// Create the product
	var product *catalog.Product
	if req.CostPrice != nil || req.SellingPrice != nil {
		cost := valueobject.ZeroUSD()
		selling := valueobject.ZeroUSD()
		if req.CostPrice != nil {
			cost = valueobject.NewMoneyUSD(*req.CostPrice)
		}
		if req.SellingPrice != nil {
			selling = valueobject.NewMoneyUSD(*req.SellingPrice)
		}
		product, err = catalog.NewProductWithPrices(req.SKU, req.Name, req.Unit, cost, selling)
	} else {
		product, err = catalog.NewProduct(req.SKU, req.Name, req.Unit)
	}
	if err != nil {
		return nil, err
	}

	// Set optional fields
	if req.Description != "" {
		if err := product.Update(product.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.Barcode != "" {
		if err := product.SetBarcode(req.Barcode); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		product.SetCategory(req.CategoryID)
	}
	if req.BrandID != nil {
		product.SetBrand(req.BrandID)
	}
	if req.SupplierID != nil {
		product.SetSupplier(req.SupplierID)
	}
	if req.MinStock != nil {
		if err := product.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}

	// Save the product
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by SKU
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByBarcode retrieves a product by barcode, used for POS scanning
func (s *ProductService) GetByBarcode(ctx context.Context, barcode string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a list of products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
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
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.BrandID != nil {
		domainFilter.Filters["brand_id"] = *filter.BrandID
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}

	// Get products
	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	// Get total count
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Update updates a product
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	// Get existing product
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	// Update name and description
	if req.Name != nil || req.Description != nil {
		name := product.Name
		description := product.Description

		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}

		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}

	// Update barcode
	if req.Barcode != nil {
		if *req.Barcode != "" && *req.Barcode != product.Barcode {
			exists, err := s.productRepo.ExistsByBarcode(ctx, *req.Barcode)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this barcode already exists")
			}
		}
		if err := product.SetBarcode(*req.Barcode); err != nil {
			return nil, err
		}
	}

	// Update associations
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}
	if req.BrandID != nil {
		if _, err := s.brandRepo.FindByID(ctx, *req.BrandID); err != nil {
			return nil, err
		}
		product.SetBrand(req.BrandID)
	}
	if req.SupplierID != nil {
		product.SetSupplier(req.SupplierID)
	}

	// Save the product
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// UpdatePrices updates a product's cost and selling prices
func (s *ProductService) UpdatePrices(ctx context.Context, productID uuid.UUID, req UpdateProductPricesRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	cost := product.GetCostPriceMoney()
	selling := product.GetSellingPriceMoney()

	if req.CostPrice != nil {
		cost = valueobject.NewMoneyUSD(*req.CostPrice)
	}
	if req.SellingPrice != nil {
		selling = valueobject.NewMoneyUSD(*req.SellingPrice)
	}

	if err := product.SetPrices(cost, selling); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// SetMinStock updates a product's low stock threshold
func (s *ProductService) SetMinStock(ctx context.Context, productID uuid.UUID, req SetMinStockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.SetMinStock(req.MinStock); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Activate activates a product
func (s *ProductService) Activate(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if err := product.Activate(); err != nil {
		return err
	}

	return s.productRepo.Save(ctx, product)
}

// Deactivate deactivates a product
func (s *ProductService) Deactivate(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if err := product.Deactivate(); err != nil {
		return err
	}

	return s.productRepo.Save(ctx, product)
}

// Discontinue permanently discontinues a product
func (s *ProductService) Discontinue(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if err := product.Discontinue(); err != nil {
		return err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return err
	}

	s.publishEvents(ctx, product)
	return nil
}

// =============================================================================
// Product Image
// =============================================================================

// InitiateImageUpload returns a presigned URL for uploading a product image
func (s *ProductService) InitiateImageUpload(ctx context.Context, productID uuid.UUID, req InitiateImageUploadRequest) (*InitiateImageUploadResponse, error) {
	if s.imageStorage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Image storage is not configured")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if !allowedImageContentTypes[strings.ToLower(req.ContentType)] {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type %q is not allowed for product images", req.ContentType))
	}

	storageKey := s.generateStorageKey(product.ID, req.FileName)

	uploadURL, expiresAt, err := s.imageStorage.GenerateUploadURL(ctx, storageKey, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}

	return &InitiateImageUploadResponse{
		StorageKey: storageKey,
		UploadURL:  uploadURL,
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmImageUpload verifies the upload and binds the image to the product.
// A previously bound image is removed from storage.
func (s *ProductService) ConfirmImageUpload(ctx context.Context, productID uuid.UUID, req ConfirmImageUploadRequest) (*ProductResponse, error) {
	if s.imageStorage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Image storage is not configured")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	expectedPrefix := fmt.Sprintf("products/%s/", product.ID)
	if !strings.HasPrefix(req.StorageKey, expectedPrefix) {
		return nil, shared.NewDomainError("INVALID_IMAGE_KEY", "Storage key does not belong to this product")
	}

	exists, err := s.imageStorage.ObjectExists(ctx, req.StorageKey)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_CHECK_FAILED", "Failed to verify upload")
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND", "File not found in storage; upload it first")
	}

	oldKey := product.ImageKey
	if err := product.SetImageKey(req.StorageKey); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if oldKey != "" && oldKey != req.StorageKey {
		_ = s.imageStorage.DeleteObject(ctx, oldKey)
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetImageURL returns a presigned download URL for the product image
func (s *ProductService) GetImageURL(ctx context.Context, productID uuid.UUID) (*ProductImageURLResponse, error) {
	if s.imageStorage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Image storage is not configured")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.ImageKey == "" {
		return nil, shared.NewDomainError("NO_IMAGE", "Product has no image")
	}

	downloadURL, expiresAt, err := s.imageStorage.GenerateDownloadURL(ctx, product.ImageKey, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("DOWNLOAD_URL_FAILED", "Failed to generate download URL")
	}

	return &ProductImageURLResponse{
		DownloadURL: downloadURL,
		ExpiresAt:   expiresAt,
	}, nil
}

// RemoveImage detaches and deletes the product image
func (s *ProductService) RemoveImage(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if product.ImageKey == "" {
		return nil
	}

	oldKey := product.ImageKey
	if err := product.SetImageKey(""); err != nil {
		return err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return err
	}

	if s.imageStorage != nil {
		_ = s.imageStorage.DeleteObject(ctx, oldKey)
	}

	return nil
}

// generateStorageKey builds a collision-free object key for a product image
func (s *ProductService) generateStorageKey(productID uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("products/%s/%s%s", productID, uuid.New(), ext)
}

// publishEvents publishes domain events from the aggregate
func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventBus == nil {
		return
	}

	for _, event := range product.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	product.ClearDomainEvents()
}
