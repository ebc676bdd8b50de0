package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/catalog"
	"github.com/pawmart/backend/internal/domain/inventory"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InventoryService handles stock level queries and manual stock corrections.
// All mutations write the inventory item and its movement ledger entry in
// one transaction.
type InventoryService struct {
	inventoryRepo inventory.InventoryRepository
	movementRepo  inventory.StockMovementRepository
	productRepo   catalog.ProductRepository
	txScope       TransactionScope
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	inventoryRepo inventory.InventoryRepository,
	movementRepo inventory.StockMovementRepository,
	productRepo catalog.ProductRepository,
	txScope TransactionScope,
) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
		productRepo:   productRepo,
		txScope:       txScope,
	}
}

// GetStockLevel returns the stock position for one store-product pair.
// A pair with no inventory row is reported as zero stock.
func (s *InventoryService) GetStockLevel(ctx context.Context, storeID, productID uuid.UUID) (*StockLevelResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	item, err := s.inventoryRepo.FindByStoreAndProduct(ctx, storeID, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			empty, nerr := inventory.NewInventoryItem(storeID, productID)
			if nerr != nil {
				return nil, nerr
			}
			response := toStockLevelResponse(empty, product.MinStock)
			return &response, nil
		}
		return nil, err
	}

	response := toStockLevelResponse(item, product.MinStock)
	return &response, nil
}

// ListByStore returns the stock positions for a store with pagination
func (s *InventoryService) ListByStore(ctx context.Context, storeID uuid.UUID, filter StockListFilter) ([]StockLevelResponse, int64, error) {
	domainFilter := inventory.NewInventoryFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.ProductID = filter.ProductID
	domainFilter.LowStock = filter.LowStock

	items, total, err := s.inventoryRepo.FindByStore(ctx, storeID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses, err := s.withThresholds(ctx, items)
	if err != nil {
		return nil, 0, err
	}

	return responses, total, nil
}

// ListByProduct returns the stock positions for a product across all stores
func (s *InventoryService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]StockLevelResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	items, err := s.inventoryRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	responses := make([]StockLevelResponse, len(items))
	for i, item := range items {
		responses[i] = toStockLevelResponse(item, product.MinStock)
	}
	return responses, nil
}

// Adjust applies a signed manual stock correction and records it in the ledger
func (s *InventoryService) Adjust(ctx context.Context, actorID *uuid.UUID, req AdjustStockRequest) (*StockLevelResponse, error) {
	if req.Delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	var item *inventory.InventoryItem
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		item, txErr = repos.InventoryRepo().FindOrCreate(ctx, req.StoreID, req.ProductID)
		if txErr != nil {
			return txErr
		}

		if txErr = item.Adjust(req.Delta); txErr != nil {
			return txErr
		}

		if txErr = repos.InventoryRepo().Save(ctx, item); txErr != nil {
			return txErr
		}

		movement, txErr := inventory.NewStockMovement(req.StoreID, req.ProductID, inventory.MovementTypeAdjustment, req.Delta)
		if txErr != nil {
			return txErr
		}
		movement.WithNote(req.Reason)
		if actorID != nil {
			movement.WithActor(*actorID)
		}

		return repos.MovementRepo().Append(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	response := toStockLevelResponse(item, product.MinStock)
	return &response, nil
}

// Recount replaces the on-hand quantity with a physical count, recording the
// signed difference in the ledger. A zero difference writes no ledger entry.
func (s *InventoryService) Recount(ctx context.Context, actorID *uuid.UUID, req RecountStockRequest) (*StockLevelResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	var item *inventory.InventoryItem
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		item, txErr = repos.InventoryRepo().FindOrCreate(ctx, req.StoreID, req.ProductID)
		if txErr != nil {
			return txErr
		}

		delta, txErr := item.Recount(req.CountedQuantity)
		if txErr != nil {
			return txErr
		}

		if txErr = repos.InventoryRepo().Save(ctx, item); txErr != nil {
			return txErr
		}

		if delta.IsZero() {
			return nil
		}

		movement, txErr := inventory.NewStockMovement(req.StoreID, req.ProductID, inventory.MovementTypeRecount, delta)
		if txErr != nil {
			return txErr
		}
		movement.WithNote(req.Note)
		if actorID != nil {
			movement.WithActor(*actorID)
		}

		return repos.MovementRepo().Append(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	response := toStockLevelResponse(item, product.MinStock)
	return &response, nil
}

// ListMovements returns movement ledger entries matching the filter
func (s *InventoryService) ListMovements(ctx context.Context, filter MovementListFilter) ([]MovementResponse, int64, error) {
	domainFilter := inventory.NewMovementFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.StoreID = filter.StoreID
	domainFilter.ProductID = filter.ProductID
	domainFilter.ReferenceID = filter.ReferenceID

	if filter.Type != "" {
		movementType := inventory.MovementType(filter.Type)
		if !movementType.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_FILTER", "Unknown movement type")
		}
		domainFilter.Type = &movementType
	}
	if filter.From != "" {
		from, err := time.Parse(time.RFC3339, filter.From)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_FILTER", "from must be an RFC3339 timestamp")
		}
		domainFilter.From = &from
	}
	if filter.To != "" {
		to, err := time.Parse(time.RFC3339, filter.To)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_FILTER", "to must be an RFC3339 timestamp")
		}
		domainFilter.To = &to
	}

	movements, total, err := s.movementRepo.FindByFilter(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToMovementResponses(movements), total, nil
}

// withThresholds joins inventory items with their product thresholds
func (s *InventoryService) withThresholds(ctx context.Context, items []*inventory.InventoryItem) ([]StockLevelResponse, error) {
	if len(items) == 0 {
		return []StockLevelResponse{}, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	thresholds := make(map[uuid.UUID]decimal.Decimal, len(products))
	for i := range products {
		thresholds[products[i].ID] = products[i].MinStock
	}

	responses := make([]StockLevelResponse, len(items))
	for i, item := range items {
		responses[i] = toStockLevelResponse(item, thresholds[item.ProductID])
	}
	return responses, nil
}
