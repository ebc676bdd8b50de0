// Package audit provides cross-cutting subscribers that record business
// activity derived from domain events.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/pawmart/backend/internal/domain/catalog"
	"github.com/pawmart/backend/internal/domain/purchasing"
	"github.com/pawmart/backend/internal/domain/sales"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/pawmart/backend/internal/domain/store"
	"github.com/pawmart/backend/internal/domain/transfer"
)

// ActivityLogHandler records every document lifecycle event as a structured
// log entry, giving operators a single searchable trail across modules.
type ActivityLogHandler struct {
	logger *zap.Logger
}

// NewActivityLogHandler creates a new activity log handler
func NewActivityLogHandler(logger *zap.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ActivityLogHandler) EventTypes() []string {
	return []string{
		sales.EventTypeSaleCompleted,
		sales.EventTypeSaleVoided,
		transfer.EventTypeTransferRequested,
		transfer.EventTypeTransferApproved,
		transfer.EventTypeTransferCompleted,
		transfer.EventTypeTransferRejected,
		transfer.EventTypeTransferCancelled,
		purchasing.EventTypePurchaseOrderCreated,
		purchasing.EventTypePurchaseOrderConfirmed,
		purchasing.EventTypePurchaseOrderReceived,
		purchasing.EventTypePurchaseOrderCancelled,
		catalog.EventTypeProductPriceChanged,
		catalog.EventTypeProductDiscontinued,
		store.EventTypeStoreCreated,
		store.EventTypeStoreDeactivated,
	}
}

// Handle writes one log line per event. The handler never fails:
// a lost trail entry must not re-deliver a business event.
func (h *ActivityLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("business activity",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("event_id", event.EventID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// Ensure ActivityLogHandler implements shared.EventHandler
var _ shared.EventHandler = (*ActivityLogHandler)(nil)
