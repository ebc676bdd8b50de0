package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/pawmart/backend/internal/application/catalog"
	"github.com/pawmart/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles product catalog endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("", middleware.RequirePermission("products:create"), h.Create)
		products.GET("", middleware.RequirePermission("products:read"), h.List)
		products.GET("/sku/:sku", middleware.RequirePermission("products:read"), h.GetBySKU)
		products.GET("/barcode/:barcode", middleware.RequirePermission("products:read"), h.GetByBarcode)
		products.GET("/:id", middleware.RequirePermission("products:read"), h.GetByID)
		products.PUT("/:id", middleware.RequirePermission("products:update"), h.Update)
		products.PUT("/:id/prices", middleware.RequirePermission("products:update"), h.UpdatePrices)
		products.PUT("/:id/min-stock", middleware.RequirePermission("products:update"), h.SetMinStock)
		products.POST("/:id/activate", middleware.RequirePermission("products:update"), h.Activate)
		products.POST("/:id/deactivate", middleware.RequirePermission("products:update"), h.Deactivate)
		products.POST("/:id/discontinue", middleware.RequirePermission("products:update"), h.Discontinue)

		products.POST("/:id/image", middleware.RequirePermission("products:update"), h.InitiateImageUpload)
		products.PUT("/:id/image", middleware.RequirePermission("products:update"), h.ConfirmImageUpload)
		products.GET("/:id/image", middleware.RequirePermission("products:read"), h.GetImageURL)
		products.DELETE("/:id/image", middleware.RequirePermission("products:update"), h.RemoveImage)
	}
}

// Create godoc
// @Summary      Create a new product
// @Tags         products
// @Accept       json
// @Produce      json
// @Success      201 {object} dto.Response
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// List godoc
// @Summary      List products with filtering and pagination
// @Tags         products
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// GetByID returns a product by ID
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// GetBySKU returns a product by its SKU
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	sku := c.Param("sku")
	if sku == "" {
		h.BadRequest(c, "SKU is required")
		return
	}

	product, err := h.productService.GetBySKU(c.Request.Context(), sku)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// GetByBarcode returns a product by barcode, used by POS scanners
func (h *ProductHandler) GetByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		h.BadRequest(c, "Barcode is required")
		return
	}

	product, err := h.productService.GetByBarcode(c.Request.Context(), barcode)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Update changes product details
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// UpdatePrices changes cost and selling prices
func (h *ProductHandler) UpdatePrices(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var req catalogapp.UpdateProductPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.UpdatePrices(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// SetMinStock changes the low stock threshold
func (h *ProductHandler) SetMinStock(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var req catalogapp.SetMinStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.SetMinStock(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Activate makes a product sellable again
func (h *ProductHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.productService.Activate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Deactivate suspends selling without discontinuing
func (h *ProductHandler) Deactivate(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.productService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Discontinue permanently retires a product
func (h *ProductHandler) Discontinue(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.productService.Discontinue(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// InitiateImageUpload returns a presigned upload URL for the product image
func (h *ProductHandler) InitiateImageUpload(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var req catalogapp.InitiateImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.productService.InitiateImageUpload(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ConfirmImageUpload marks the uploaded object as the product image
func (h *ProductHandler) ConfirmImageUpload(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	var req catalogapp.ConfirmImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.ConfirmImageUpload(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// GetImageURL returns a presigned download URL for the product image
func (h *ProductHandler) GetImageURL(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.productService.GetImageURL(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveImage deletes the product image
func (h *ProductHandler) RemoveImage(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.productService.RemoveImage(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
