package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	invapp "github.com/pawmart/backend/internal/application/inventory"
	"github.com/pawmart/backend/internal/domain/catalog"
	"github.com/pawmart/backend/internal/domain/inventory"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/pawmart/backend/internal/domain/store"
	"github.com/pawmart/backend/internal/domain/transfer"
)

// TransferService handles inter store transfer business operations.
// Approval reserves stock at the source store; completion consumes the
// reservation at the source and increases stock at the destination, writing
// a transfer_out and a transfer_in ledger entry in one transaction.
type TransferService struct {
	transferRepo transfer.TransferRepository
	productRepo  catalog.ProductRepository
	storeRepo    store.StoreRepository
	txScope      invapp.TransactionScope
	eventBus     shared.EventPublisher
}

// NewTransferService creates a new TransferService
func NewTransferService(
	transferRepo transfer.TransferRepository,
	productRepo catalog.ProductRepository,
	storeRepo store.StoreRepository,
	txScope invapp.TransactionScope,
	eventBus shared.EventPublisher,
) *TransferService {
	return &TransferService{
		transferRepo: transferRepo,
		productRepo:  productRepo,
		storeRepo:    storeRepo,
		txScope:      txScope,
		eventBus:     eventBus,
	}
}

// Create creates a new transfer request in pending status. Every line is
// checked against the available quantity at the source store; the request,
// its audit action and its first history entry commit in one transaction.
func (s *TransferService) Create(ctx context.Context, actorID uuid.UUID, req CreateTransferRequest) (*TransferResponse, error) {
	source, err := s.storeRepo.FindByID(ctx, req.SourceStoreID)
	if err != nil {
		return nil, err
	}
	if !source.IsActive() {
		return nil, shared.NewDomainError("INACTIVE_STORE", "Source store is inactive")
	}

	destination, err := s.storeRepo.FindByID(ctx, req.DestStoreID)
	if err != nil {
		return nil, err
	}
	if !destination.IsActive() {
		return nil, shared.NewDomainError("INACTIVE_STORE", "Destination store is inactive")
	}

	transferNumber, err := s.transferRepo.NextTransferNumber(ctx)
	if err != nil {
		return nil, err
	}

	request, err := transfer.NewTransferRequest(transferNumber, req.SourceStoreID, req.DestStoreID, actorID, req.Reason)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Items {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if err := request.AddItem(product.ID, product.Name, product.SKU, product.Unit, line.Quantity); err != nil {
			return nil, err
		}
	}

	err = s.txScope.Execute(ctx, func(repos invapp.TransactionalRepositories) error {
		for i := range request.Items {
			line := &request.Items[i]
			if txErr := checkSourceAvailability(ctx, repos, request.SourceStoreID, line); txErr != nil {
				return txErr
			}
		}

		if txErr := repos.TransferRepo().Create(ctx, request); txErr != nil {
			return txErr
		}

		action := transfer.NewTransferAction(request.ID, transfer.ActionTypeRequest, actorID)
		if txErr := repos.TransferRepo().AppendAction(ctx, action); txErr != nil {
			return txErr
		}
		history := transfer.NewTransferHistory(request.ID, request.Status, actorID, req.Reason)
		return repos.TransferRepo().AppendHistory(ctx, history)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)

	response := ToTransferResponse(request)
	return &response, nil
}

// checkSourceAvailability verifies the source store can cover the requested
// quantity of one line out of its unreserved stock
func checkSourceAvailability(ctx context.Context, repos invapp.TransactionalRepositories, sourceStoreID uuid.UUID, line *transfer.TransferItem) error {
	item, err := repos.InventoryRepo().FindByStoreAndProduct(ctx, sourceStoreID, line.ProductID)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "NOT_FOUND" {
			return shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Source store has no stock of product %s", line.ProductSKU))
		}
		return err
	}
	if item.AvailableQuantity().LessThan(line.RequestedQuantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Source store has %s of product %s available, %s requested",
				item.AvailableQuantity(), line.ProductSKU, line.RequestedQuantity))
	}
	return nil
}

// GetByID retrieves a transfer request by ID
func (s *TransferService) GetByID(ctx context.Context, transferID uuid.UUID) (*TransferResponse, error) {
	request, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	response := ToTransferResponse(request)
	return &response, nil
}

// GetByTransferNumber retrieves a transfer request by its number
func (s *TransferService) GetByTransferNumber(ctx context.Context, transferNumber string) (*TransferResponse, error) {
	request, err := s.transferRepo.FindByTransferNumber(ctx, transferNumber)
	if err != nil {
		return nil, err
	}
	response := ToTransferResponse(request)
	return &response, nil
}

// List retrieves transfer requests with filtering and pagination
func (s *TransferService) List(ctx context.Context, filter TransferListFilter) ([]TransferListItemResponse, int64, error) {
	domainFilter, err := s.buildFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	requests, total, err := s.transferRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTransferListItemResponses(requests), total, nil
}

// ListByStore retrieves transfers where the store is source or destination
func (s *TransferService) ListByStore(ctx context.Context, storeID uuid.UUID, filter TransferListFilter) ([]TransferListItemResponse, int64, error) {
	domainFilter, err := s.buildFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	requests, total, err := s.transferRepo.FindByStore(ctx, storeID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTransferListItemResponses(requests), total, nil
}

func (s *TransferService) buildFilter(filter TransferListFilter) (shared.Filter, error) {
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

	if filter.SourceStoreID != nil {
		domainFilter.Filters["source_store_id"] = *filter.SourceStoreID
	}
	if filter.DestStoreID != nil {
		domainFilter.Filters["dest_store_id"] = *filter.DestStoreID
	}
	if filter.Status != "" {
		status := transfer.TransferStatus(filter.Status)
		if !status.IsValid() {
			return shared.Filter{}, shared.NewDomainError("INVALID_FILTER", "Unknown transfer status")
		}
		domainFilter.Filters["status"] = filter.Status
	}

	return domainFilter, nil
}

// AddItem adds a line item to a pending transfer
func (s *TransferService) AddItem(ctx context.Context, transferID uuid.UUID, req AddItemRequest) (*TransferResponse, error) {
	request, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	if err := request.AddItem(product.ID, product.Name, product.SKU, product.Unit, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.transferRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	response := ToTransferResponse(request)
	return &response, nil
}

// RemoveItem removes a line item from a pending transfer
func (s *TransferService) RemoveItem(ctx context.Context, transferID, itemID uuid.UUID) (*TransferResponse, error) {
	request, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	if err := request.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.transferRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	response := ToTransferResponse(request)
	return &response, nil
}

// Approve approves a pending transfer and reserves the approved quantities
// at the source store. The optimistic lock on the transfer row guards against
// concurrent approval.
func (s *TransferService) Approve(ctx context.Context, actorID, transferID uuid.UUID, req ApproveTransferRequest) (*TransferResponse, error) {
	request, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	fromStatus := request.Status

	quantities := make([]transfer.ApprovedQuantityInfo, len(req.Quantities))
	for i, q := range req.Quantities {
		quantities[i] = transfer.ApprovedQuantityInfo{ProductID: q.ProductID, Quantity: q.Quantity}
	}

	if err := request.Approve(actorID, quantities); err != nil {
		return nil, err
	}

	// Reservations first: a line that cannot be covered rolls the whole
	// approval back, including the status change on the transfer row.
	err = s.txScope.Execute(ctx, func(repos invapp.TransactionalRepositories) error {
		for i := range request.Items {
			line := &request.Items[i]
			item, txErr := repos.InventoryRepo().FindByStoreAndProduct(ctx, request.SourceStoreID, line.ProductID)
			if txErr != nil {
				return txErr
			}
			if txErr = item.Reserve(line.ApprovedQuantity); txErr != nil {
				return txErr
			}
			if txErr = repos.InventoryRepo().Save(ctx, item); txErr != nil {
				return txErr
			}
		}

		if txErr := repos.TransferRepo().Update(ctx, request); txErr != nil {
			return txErr
		}

		action := transfer.NewTransferAction(request.ID, transfer.ActionTypeApprove, actorID).
			WithTransition(fromStatus, request.Status)
		if req.Note != "" {
			action.WithNote(req.Note)
		}
		if txErr := repos.TransferRepo().AppendAction(ctx, action); txErr != nil {
			return txErr
		}
		history := transfer.NewTransferHistory(request.ID, request.Status, actorID, req.Note)
		return repos.TransferRepo().AppendHistory(ctx, history)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)

	response := ToTransferResponse(request)
	return &response, nil
}

// Reject rejects a pending transfer
func (s *TransferService) Reject(ctx context.Context, actorID, transferID uuid.UUID, req RejectTransferRequest) (*TransferResponse, error) {
	request, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	fromStatus := request.Status
	if err := request.Reject(actorID, req.Reason); err != nil {
		return nil, err
	}

	if err := s.transferRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	action := transfer.NewTransferAction(request.ID, transfer.ActionTypeReject, actorID).
		WithTransition(fromStatus, request.Status).
		WithNote(req.Reason)
	if err := s.transferRepo.AppendAction(ctx, action); err != nil {
		return nil, err
	}
	history := transfer.NewTransferHistory(request.ID, request.Status, actorID, req.Reason)
	if err := s.transferRepo.AppendHistory(ctx, history); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)

	response := ToTransferResponse(request)
	return &response, nil
}

// Complete executes an approved transfer. The caller may report the received
// quantity per line; lines without an entry count as received in full. For
// every line the full approved reservation is consumed at the source store
// and the received quantity is added at the destination, with paired
// transfer_out and transfer_in ledger entries. Any short receipt is recorded
// in the history note.
func (s *TransferService) Complete(ctx context.Context, actorID, transferID uuid.UUID, req CompleteTransferRequest) (*TransferResponse, error) {
	request, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	fromStatus := request.Status

	received := make([]transfer.ReceivedQuantityInfo, len(req.Items))
	for i, r := range req.Items {
		received[i] = transfer.ReceivedQuantityInfo{ProductID: r.ProductID, Quantity: r.Quantity}
	}

	if err := request.Complete(received); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos invapp.TransactionalRepositories) error {
		for i := range request.Items {
			line := &request.Items[i]

			source, txErr := repos.InventoryRepo().FindByStoreAndProduct(ctx, request.SourceStoreID, line.ProductID)
			if txErr != nil {
				return txErr
			}
			if txErr = source.ConsumeReservation(line.ApprovedQuantity); txErr != nil {
				return txErr
			}
			if txErr = repos.InventoryRepo().Save(ctx, source); txErr != nil {
				return txErr
			}

			outMovement, txErr := inventory.NewStockMovement(request.SourceStoreID, line.ProductID, inventory.MovementTypeTransferOut, line.ApprovedQuantity.Neg())
			if txErr != nil {
				return txErr
			}
			outMovement.WithReference("transfer", request.ID).WithActor(actorID)
			if txErr = repos.MovementRepo().Append(ctx, outMovement); txErr != nil {
				return txErr
			}

			if line.ReceivedQuantity.IsZero() {
				continue
			}

			dest, txErr := repos.InventoryRepo().FindOrCreate(ctx, request.DestStoreID, line.ProductID)
			if txErr != nil {
				return txErr
			}
			if txErr = dest.Increase(line.ReceivedQuantity); txErr != nil {
				return txErr
			}
			if txErr = repos.InventoryRepo().Save(ctx, dest); txErr != nil {
				return txErr
			}

			inMovement, txErr := inventory.NewStockMovement(request.DestStoreID, line.ProductID, inventory.MovementTypeTransferIn, line.ReceivedQuantity)
			if txErr != nil {
				return txErr
			}
			inMovement.WithReference("transfer", request.ID).WithActor(actorID)
			if txErr = repos.MovementRepo().Append(ctx, inMovement); txErr != nil {
				return txErr
			}
		}

		if txErr := repos.TransferRepo().Update(ctx, request); txErr != nil {
			return txErr
		}

		note := request.ReceiptDiscrepancyNote()
		if note == "" {
			note = req.Note
		}

		action := transfer.NewTransferAction(request.ID, transfer.ActionTypeExecute, actorID).
			WithTransition(fromStatus, request.Status)
		if note != "" {
			action.WithNote(note)
		}
		if txErr := repos.TransferRepo().AppendAction(ctx, action); txErr != nil {
			return txErr
		}
		history := transfer.NewTransferHistory(request.ID, request.Status, actorID, note)
		return repos.TransferRepo().AppendHistory(ctx, history)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)

	response := ToTransferResponse(request)
	return &response, nil
}

// Cancel cancels an approved transfer and releases the reserved stock at the
// source store
func (s *TransferService) Cancel(ctx context.Context, actorID, transferID uuid.UUID, req CancelTransferRequest) (*TransferResponse, error) {
	request, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	fromStatus := request.Status
	if err := request.Cancel(req.Reason); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos invapp.TransactionalRepositories) error {
		for i := range request.Items {
			line := &request.Items[i]
			item, txErr := repos.InventoryRepo().FindByStoreAndProduct(ctx, request.SourceStoreID, line.ProductID)
			if txErr != nil {
				return txErr
			}
			if txErr = item.Release(line.ApprovedQuantity); txErr != nil {
				return txErr
			}
			if txErr = repos.InventoryRepo().Save(ctx, item); txErr != nil {
				return txErr
			}
		}

		if txErr := repos.TransferRepo().Update(ctx, request); txErr != nil {
			return txErr
		}

		action := transfer.NewTransferAction(request.ID, transfer.ActionTypeCancel, actorID).
			WithTransition(fromStatus, request.Status).
			WithNote(req.Reason)
		if txErr := repos.TransferRepo().AppendAction(ctx, action); txErr != nil {
			return txErr
		}
		history := transfer.NewTransferHistory(request.ID, request.Status, actorID, req.Reason)
		return repos.TransferRepo().AppendHistory(ctx, history)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)

	response := ToTransferResponse(request)
	return &response, nil
}

// Delete deletes a transfer request, pending requests only
func (s *TransferService) Delete(ctx context.Context, transferID uuid.UUID) error {
	request, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return err
	}

	if !request.IsPending() {
		return shared.NewDomainError("INVALID_STATE", "Only pending transfers can be deleted")
	}

	return s.transferRepo.Delete(ctx, transferID)
}

// GetActions returns the audit trail for a transfer, oldest first
func (s *TransferService) GetActions(ctx context.Context, transferID uuid.UUID) ([]ActionResponse, error) {
	if _, err := s.transferRepo.FindByID(ctx, transferID); err != nil {
		return nil, err
	}

	actions, err := s.transferRepo.FindActions(ctx, transferID)
	if err != nil {
		return nil, err
	}

	return ToActionResponses(actions), nil
}

// GetHistory returns the status history for a transfer, oldest first
func (s *TransferService) GetHistory(ctx context.Context, transferID uuid.UUID) ([]HistoryResponse, error) {
	if _, err := s.transferRepo.FindByID(ctx, transferID); err != nil {
		return nil, err
	}

	history, err := s.transferRepo.FindHistory(ctx, transferID)
	if err != nil {
		return nil, err
	}

	return ToHistoryResponses(history), nil
}

func (s *TransferService) publishEvents(ctx context.Context, request *transfer.TransferRequest) {
	if s.eventBus == nil {
		return
	}
	for _, event := range request.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	request.ClearDomainEvents()
}
