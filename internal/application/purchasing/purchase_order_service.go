package purchasing

import (
	"context"

	"github.com/google/uuid"

	invapp "github.com/pawmart/backend/internal/application/inventory"
	"github.com/pawmart/backend/internal/domain/catalog"
	"github.com/pawmart/backend/internal/domain/inventory"
	"github.com/pawmart/backend/internal/domain/partner"
	"github.com/pawmart/backend/internal/domain/purchasing"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/pawmart/backend/internal/domain/store"
)

// PurchaseOrderService handles purchase order business operations.
// Goods receipts increase destination stock and write a ledger entry in the
// same database transaction.
type PurchaseOrderService struct {
	orderRepo    purchasing.PurchaseOrderRepository
	productRepo  catalog.ProductRepository
	supplierRepo partner.SupplierRepository
	storeRepo    store.StoreRepository
	txScope      invapp.TransactionScope
	eventBus     shared.EventPublisher
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo purchasing.PurchaseOrderRepository,
	productRepo catalog.ProductRepository,
	supplierRepo partner.SupplierRepository,
	storeRepo store.StoreRepository,
	txScope invapp.TransactionScope,
	eventBus shared.EventPublisher,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		storeRepo:    storeRepo,
		txScope:      txScope,
		eventBus:     eventBus,
	}
}

// Create creates a new purchase order in draft status
func (s *PurchaseOrderService) Create(ctx context.Context, actorID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive() {
		return nil, shared.NewDomainError("INACTIVE_SUPPLIER", "Cannot order from an inactive supplier")
	}

	destination, err := s.storeRepo.FindByID(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}
	if !destination.IsActive() {
		return nil, shared.NewDomainError("INACTIVE_STORE", "Cannot order for an inactive store")
	}

	orderNumber, err := s.orderRepo.NextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order, err := purchasing.NewPurchaseOrder(orderNumber, supplier.ID, supplier.Name, req.StoreID, actorID)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Items {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product.IsDiscontinued() {
			return nil, shared.NewDomainError("DISCONTINUED_PRODUCT", "Cannot order a discontinued product")
		}

		unitCost := product.CostPrice
		if line.UnitCost != nil {
			unitCost = *line.UnitCost
		}

		if err := order.AddItem(product.ID, product.Name, product.SKU, product.Unit, line.Quantity, unitCost); err != nil {
			return nil, err
		}
	}

	if req.Discount != nil {
		if err := order.ApplyDiscount(*req.Discount); err != nil {
			return nil, err
		}
	}
	if req.ExpectedDate != nil {
		if err := order.SetExpectedDate(*req.ExpectedDate); err != nil {
			return nil, err
		}
	}
	if req.Remark != "" {
		if err := order.SetRemark(req.Remark); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	action := purchasing.NewPurchaseOrderAction(order.ID, purchasing.ActionTypeCreate, actorID)
	if err := s.orderRepo.AppendAction(ctx, action); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByOrderNumber retrieves a purchase order by its order number
func (s *PurchaseOrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) ([]PurchaseOrderListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.StoreID != nil {
		domainFilter.Filters["store_id"] = *filter.StoreID
	}
	if filter.Status != "" {
		status := purchasing.PurchaseOrderStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_FILTER", "Unknown purchase order status")
		}
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	orders, total, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseOrderListItemResponses(orders), total, nil
}

// ListBySupplier retrieves purchase orders for a specific supplier
func (s *PurchaseOrderService) ListBySupplier(ctx context.Context, supplierID uuid.UUID, filter PurchaseOrderListFilter) ([]PurchaseOrderListItemResponse, int64, error) {
	filter.SupplierID = &supplierID
	return s.List(ctx, filter)
}

// Update updates order level fields, draft orders only
func (s *PurchaseOrderService) Update(ctx context.Context, actorID, orderID uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.CanModify() {
		return nil, shared.NewDomainError("INVALID_STATE", "Order can only be modified in draft status")
	}

	if req.Discount != nil {
		if err := order.ApplyDiscount(*req.Discount); err != nil {
			return nil, err
		}
	}
	if req.ExpectedDate != nil {
		if err := order.SetExpectedDate(*req.ExpectedDate); err != nil {
			return nil, err
		}
	}
	if req.Remark != nil {
		if err := order.SetRemark(*req.Remark); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	action := purchasing.NewPurchaseOrderAction(order.ID, purchasing.ActionTypeUpdate, actorID)
	if err := s.orderRepo.AppendAction(ctx, action); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// AddItem adds a line item to a draft order
func (s *PurchaseOrderService) AddItem(ctx context.Context, orderID uuid.UUID, req AddItemRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.IsDiscontinued() {
		return nil, shared.NewDomainError("DISCONTINUED_PRODUCT", "Cannot order a discontinued product")
	}

	unitCost := product.CostPrice
	if req.UnitCost != nil {
		unitCost = *req.UnitCost
	}

	if err := order.AddItem(product.ID, product.Name, product.SKU, product.Unit, req.Quantity, unitCost); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// UpdateItem updates a line item on a draft order
func (s *PurchaseOrderService) UpdateItem(ctx context.Context, orderID, itemID uuid.UUID, req UpdateItemRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		if err := order.UpdateItemQuantity(itemID, *req.Quantity); err != nil {
			return nil, err
		}
	}
	if req.UnitCost != nil {
		if err := order.UpdateItemCost(itemID, *req.UnitCost); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// RemoveItem removes a line item from a draft order
func (s *PurchaseOrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Confirm confirms a draft order, making it ready to receive goods
func (s *PurchaseOrderService) Confirm(ctx context.Context, actorID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	fromStatus := order.Status
	if err := order.Confirm(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	action := purchasing.NewPurchaseOrderAction(order.ID, purchasing.ActionTypeConfirm, actorID).
		WithTransition(fromStatus, order.Status)
	if err := s.orderRepo.AppendAction(ctx, action); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Receive processes a goods receipt against a confirmed order. The order
// update, the stock increase and the ledger entries for every received line
// commit in one transaction.
func (s *PurchaseOrderService) Receive(ctx context.Context, actorID, orderID uuid.UUID, req ReceiveRequest) (*ReceiveResultResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	fromStatus := order.Status

	receiveItems := make([]purchasing.ReceiveItem, len(req.Items))
	for i, line := range req.Items {
		receiveItems[i] = purchasing.ReceiveItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
		if line.UnitCost != nil {
			receiveItems[i].UnitCost = *line.UnitCost
		}
	}

	receivedInfos, err := order.Receive(receiveItems)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos invapp.TransactionalRepositories) error {
		for _, info := range receivedInfos {
			item, txErr := repos.InventoryRepo().FindOrCreate(ctx, order.StoreID, info.ProductID)
			if txErr != nil {
				return txErr
			}
			if txErr = item.Increase(info.Quantity); txErr != nil {
				return txErr
			}
			if txErr = repos.InventoryRepo().Save(ctx, item); txErr != nil {
				return txErr
			}

			movement, txErr := inventory.NewStockMovement(order.StoreID, info.ProductID, inventory.MovementTypePurchaseReceipt, info.Quantity)
			if txErr != nil {
				return txErr
			}
			movement.WithReference("purchase_order", order.ID).WithActor(actorID)
			if req.Note != "" {
				movement.WithNote(req.Note)
			}

			if txErr = repos.MovementRepo().Append(ctx, movement); txErr != nil {
				return txErr
			}
		}

		if txErr := repos.PurchaseOrderRepo().Update(ctx, order); txErr != nil {
			return txErr
		}

		action := purchasing.NewPurchaseOrderAction(order.ID, purchasing.ActionTypeReceive, actorID).
			WithTransition(fromStatus, order.Status)
		if req.Note != "" {
			action.WithNote(req.Note)
		}
		return repos.PurchaseOrderRepo().AppendAction(ctx, action)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	orderResponse := ToPurchaseOrderResponse(order)
	return &ReceiveResultResponse{
		Order:           orderResponse,
		ReceivedItems:   ToReceivedItemResponses(receivedInfos),
		IsFullyReceived: order.IsCompleted(),
	}, nil
}

// Cancel cancels an order before any goods have been received
func (s *PurchaseOrderService) Cancel(ctx context.Context, actorID, orderID uuid.UUID, req CancelRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	fromStatus := order.Status
	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	action := purchasing.NewPurchaseOrderAction(order.ID, purchasing.ActionTypeCancel, actorID).
		WithTransition(fromStatus, order.Status).
		WithNote(req.Reason)
	if err := s.orderRepo.AppendAction(ctx, action); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Delete deletes a purchase order, draft orders only
func (s *PurchaseOrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !order.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be deleted")
	}

	return s.orderRepo.Delete(ctx, orderID)
}

// GetActions returns the audit trail for an order, oldest first
func (s *PurchaseOrderService) GetActions(ctx context.Context, orderID uuid.UUID) ([]ActionResponse, error) {
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return nil, err
	}

	actions, err := s.orderRepo.FindActions(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return ToActionResponses(actions), nil
}

func (s *PurchaseOrderService) publishEvents(ctx context.Context, order *purchasing.PurchaseOrder) {
	if s.eventBus == nil {
		return
	}
	for _, event := range order.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	order.ClearDomainEvents()
}
