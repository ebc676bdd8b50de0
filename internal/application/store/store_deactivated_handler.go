package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pawmart/backend/internal/domain/inventory"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/pawmart/backend/internal/domain/store"
)

// StoreDeactivatedHandler handles StoreDeactivatedEvent and flags stock
// stranded at the closed store. A deactivated store cannot sell, so any
// remaining stock should be transferred out before the store is deleted.
type StoreDeactivatedHandler struct {
	inventoryRepo inventory.InventoryRepository
	logger        *zap.Logger
}

// NewStoreDeactivatedHandler creates a new handler for store deactivation events
func NewStoreDeactivatedHandler(
	inventoryRepo inventory.InventoryRepository,
	logger *zap.Logger,
) *StoreDeactivatedHandler {
	return &StoreDeactivatedHandler{
		inventoryRepo: inventoryRepo,
		logger:        logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *StoreDeactivatedHandler) EventTypes() []string {
	return []string{store.EventTypeStoreDeactivated}
}

// Handle processes a StoreDeactivatedEvent
func (h *StoreDeactivatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	deactivated, ok := event.(*store.StoreDeactivatedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", store.EventTypeStoreDeactivated),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			store.EventTypeStoreDeactivated, event.EventType())
	}

	hasStock, err := h.inventoryRepo.HasStockForStore(ctx, deactivated.AggregateID())
	if err != nil {
		h.logger.Error("failed to check stock for deactivated store",
			zap.String("store_id", deactivated.AggregateID().String()),
			zap.String("store_code", deactivated.Code),
			zap.Error(err),
		)
		return fmt.Errorf("check stock for deactivated store: %w", err)
	}

	if hasStock {
		h.logger.Warn("deactivated store still holds stock",
			zap.String("store_id", deactivated.AggregateID().String()),
			zap.String("store_code", deactivated.Code),
		)
		return nil
	}

	h.logger.Info("store deactivated with clean inventory",
		zap.String("store_id", deactivated.AggregateID().String()),
		zap.String("store_code", deactivated.Code),
	)
	return nil
}

// Ensure StoreDeactivatedHandler implements shared.EventHandler
var _ shared.EventHandler = (*StoreDeactivatedHandler)(nil)
