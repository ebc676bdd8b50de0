package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pawmart/backend/internal/domain/catalog"
	"github.com/pawmart/backend/internal/domain/inventory"
	"github.com/pawmart/backend/internal/domain/sales"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/pawmart/backend/internal/domain/transfer"
)

// LowStockAlert describes a store-product pair at or below its minimum stock
type LowStockAlert struct {
	StoreID    uuid.UUID       `json:"store_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	ProductSKU string          `json:"product_sku"`
	OnHand     decimal.Decimal `json:"on_hand"`
	Available  decimal.Decimal `json:"available"`
	MinStock   decimal.Decimal `json:"min_stock"`
}

// LowStockNotifier delivers low stock alerts to an external channel
type LowStockNotifier interface {
	SendAlert(ctx context.Context, alert LowStockAlert) error
}

// LowStockAlertHandler watches stock-reducing events and raises an alert
// when a product at a store drops to or below its minimum stock threshold
type LowStockAlertHandler struct {
	inventoryRepo inventory.InventoryRepository
	productRepo   catalog.ProductRepository
	logger        *zap.Logger
	notifier      LowStockNotifier
}

// NewLowStockAlertHandler creates a new handler for stock-reducing events
func NewLowStockAlertHandler(
	inventoryRepo inventory.InventoryRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *LowStockAlertHandler {
	return &LowStockAlertHandler{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		logger:        logger,
	}
}

// WithNotifier sets an external alert channel
func (h *LowStockAlertHandler) WithNotifier(notifier LowStockNotifier) *LowStockAlertHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{
		sales.EventTypeSaleCompleted,
		transfer.EventTypeTransferCompleted,
	}
}

// Handle checks the affected store-product pairs against their thresholds.
// A sale drains the selling store; a completed transfer drains the source store.
func (h *LowStockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *sales.SaleCompletedEvent:
		for _, item := range e.Items {
			h.checkThreshold(ctx, e.StoreID, item.ProductID)
		}
	case *transfer.TransferCompletedEvent:
		for _, item := range e.Items {
			h.checkThreshold(ctx, e.SourceStoreID, item.ProductID)
		}
	default:
		h.logger.Error("unexpected event type",
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}

// checkThreshold is best-effort: a lookup failure must not fail the event,
// the stock change itself has already been committed
func (h *LowStockAlertHandler) checkThreshold(ctx context.Context, storeID, productID uuid.UUID) {
	item, err := h.inventoryRepo.FindByStoreAndProduct(ctx, storeID, productID)
	if err != nil {
		h.logger.Warn("low stock check skipped: inventory lookup failed",
			zap.String("store_id", storeID.String()),
			zap.String("product_id", productID.String()),
			zap.Error(err),
		)
		return
	}

	product, err := h.productRepo.FindByID(ctx, productID)
	if err != nil {
		h.logger.Warn("low stock check skipped: product lookup failed",
			zap.String("product_id", productID.String()),
			zap.Error(err),
		)
		return
	}

	if !product.MinStock.IsPositive() {
		return
	}
	if item.OnHandQuantity.GreaterThan(product.MinStock) {
		return
	}

	alert := LowStockAlert{
		StoreID:    storeID,
		ProductID:  productID,
		ProductSKU: product.SKU,
		OnHand:     item.OnHandQuantity,
		Available:  item.AvailableQuantity(),
		MinStock:   product.MinStock,
	}

	h.logger.Warn("stock at or below minimum",
		zap.String("store_id", alert.StoreID.String()),
		zap.String("product_sku", alert.ProductSKU),
		zap.String("on_hand", alert.OnHand.String()),
		zap.String("min_stock", alert.MinStock.String()),
	)

	if h.notifier != nil {
		if err := h.notifier.SendAlert(ctx, alert); err != nil {
			h.logger.Error("failed to send low stock alert",
				zap.String("product_sku", alert.ProductSKU),
				zap.Error(err),
			)
		}
	}
}

// Ensure LowStockAlertHandler implements shared.EventHandler
var _ shared.EventHandler = (*LowStockAlertHandler)(nil)

// LoggingLowStockNotifier writes alerts to the application log.
// Used when no external alert channel is configured.
type LoggingLowStockNotifier struct {
	logger *zap.Logger
}

// NewLoggingLowStockNotifier creates a notifier that logs alerts
func NewLoggingLowStockNotifier(logger *zap.Logger) *LoggingLowStockNotifier {
	return &LoggingLowStockNotifier{logger: logger}
}

// SendAlert logs the alert at warn level
func (n *LoggingLowStockNotifier) SendAlert(_ context.Context, alert LowStockAlert) error {
	n.logger.Warn("LOW STOCK ALERT",
		zap.String("store_id", alert.StoreID.String()),
		zap.String("product_id", alert.ProductID.String()),
		zap.String("product_sku", alert.ProductSKU),
		zap.String("on_hand", alert.OnHand.String()),
		zap.String("available", alert.Available.String()),
		zap.String("min_stock", alert.MinStock.String()),
	)
	return nil
}

var _ LowStockNotifier = (*LoggingLowStockNotifier)(nil)
