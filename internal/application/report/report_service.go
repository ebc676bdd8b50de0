package report

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pawmart/backend/internal/domain/report"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/pawmart/backend/internal/domain/store"
)

const defaultTopN = 10

// ReportService answers read-only aggregate queries over sales and stock
type ReportService struct {
	reportRepo report.StoreReportRepository
	storeRepo  store.StoreRepository
}

// NewReportService creates a new report service
func NewReportService(reportRepo report.StoreReportRepository, storeRepo store.StoreRepository) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		storeRepo:  storeRepo,
	}
}

// StorePerformanceRequest bounds a store performance query
type StorePerformanceRequest struct {
	StoreID     uuid.UUID `form:"store_id" binding:"required"`
	PeriodStart time.Time `form:"period_start" time_format:"2006-01-02" binding:"required"`
	PeriodEnd   time.Time `form:"period_end" time_format:"2006-01-02" binding:"required"`
	TopN        int       `form:"top_n"`
}

// GetStorePerformance aggregates completed sales for a store over a period
func (s *ReportService) GetStorePerformance(ctx context.Context, req StorePerformanceRequest) (*report.StorePerformance, error) {
	if !req.PeriodEnd.After(req.PeriodStart) {
		return nil, shared.NewDomainError("INVALID_RANGE", "period_end must be after period_start")
	}
	if req.TopN <= 0 {
		req.TopN = defaultTopN
	}

	reportingStore, err := s.storeRepo.FindByID(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}

	performance, err := s.reportRepo.GetStorePerformance(ctx, report.PerformanceFilter{
		StoreID:     req.StoreID,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		TopN:        req.TopN,
	})
	if err != nil {
		return nil, err
	}

	performance.StoreCode = reportingStore.Code
	performance.StoreName = reportingStore.Name
	return performance, nil
}

// GetDailyRevenue returns the per-day revenue trend for a store
func (s *ReportService) GetDailyRevenue(ctx context.Context, req StorePerformanceRequest) ([]report.DailyRevenue, error) {
	if !req.PeriodEnd.After(req.PeriodStart) {
		return nil, shared.NewDomainError("INVALID_RANGE", "period_end must be after period_start")
	}

	if _, err := s.storeRepo.FindByID(ctx, req.StoreID); err != nil {
		return nil, err
	}

	return s.reportRepo.GetDailyRevenue(ctx, report.PerformanceFilter{
		StoreID:     req.StoreID,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
	})
}

// GetLowStock returns items at or below their minimum stock threshold.
// A nil storeID spans all stores.
func (s *ReportService) GetLowStock(ctx context.Context, storeID *uuid.UUID) ([]report.LowStockEntry, error) {
	if storeID != nil {
		if _, err := s.storeRepo.FindByID(ctx, *storeID); err != nil {
			return nil, err
		}
	}
	return s.reportRepo.GetLowStockEntries(ctx, storeID)
}
