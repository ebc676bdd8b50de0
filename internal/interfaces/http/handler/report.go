package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reportapp "github.com/pawmart/backend/internal/application/report"
	"github.com/pawmart/backend/internal/interfaces/http/middleware"
)

// ReportHandler handles reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	reports.Use(middleware.RequirePermission("reports:read"))
	{
		reports.GET("/store-performance", h.GetStorePerformance)
		reports.GET("/daily-revenue", h.GetDailyRevenue)
		reports.GET("/low-stock", h.GetLowStock)
	}
}

// GetStorePerformance godoc
// @Summary      Store performance report for a period
// @Tags         reports
// @Produce      json
// @Param        store_id     query string true  "Store ID" format(uuid)
// @Param        period_start query string true  "Period start (YYYY-MM-DD)"
// @Param        period_end   query string true  "Period end (YYYY-MM-DD)"
// @Param        top_n        query int    false "Number of top products"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/store-performance [get]
func (h *ReportHandler) GetStorePerformance(c *gin.Context) {
	var req reportapp.StorePerformanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	perf, err := h.reportService.GetStorePerformance(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, perf)
}

// GetDailyRevenue returns per-day revenue buckets for a store over a period
func (h *ReportHandler) GetDailyRevenue(c *gin.Context) {
	var req reportapp.StorePerformanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	revenue, err := h.reportService.GetDailyRevenue(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, revenue)
}

// GetLowStock lists stock records at or below their minimum level,
// across all stores unless store_id narrows the scope.
func (h *ReportHandler) GetLowStock(c *gin.Context) {
	var storeID *uuid.UUID
	if raw := c.Query("store_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid store_id format")
			return
		}
		storeID = &parsed
	}

	entries, err := h.reportService.GetLowStock(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}
