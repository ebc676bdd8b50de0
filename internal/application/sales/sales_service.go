package sales

import (
	"context"
	"time"

	"github.com/google/uuid"

	invapp "github.com/pawmart/backend/internal/application/inventory"
	"github.com/pawmart/backend/internal/domain/catalog"
	"github.com/pawmart/backend/internal/domain/inventory"
	"github.com/pawmart/backend/internal/domain/partner"
	"github.com/pawmart/backend/internal/domain/sales"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/pawmart/backend/internal/domain/store"
)

// SalesService handles point of sale business operations.
// Checkout decreases stock at the selling store and writes a sale ledger
// entry per line in one transaction; voiding restores the stock with
// matching sale_void entries.
type SalesService struct {
	salesRepo    sales.SalesRepository
	productRepo  catalog.ProductRepository
	customerRepo partner.CustomerRepository
	storeRepo    store.StoreRepository
	txScope      invapp.TransactionScope
	eventBus     shared.EventPublisher
}

// NewSalesService creates a new SalesService
func NewSalesService(
	salesRepo sales.SalesRepository,
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
	storeRepo store.StoreRepository,
	txScope invapp.TransactionScope,
	eventBus shared.EventPublisher,
) *SalesService {
	return &SalesService{
		salesRepo:    salesRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		storeRepo:    storeRepo,
		txScope:      txScope,
		eventBus:     eventBus,
	}
}

// Checkout completes a point of sale transaction. Prices default to the
// product selling price, an explicit unit price on a line overrides it.
func (s *SalesService) Checkout(ctx context.Context, cashierID uuid.UUID, req CheckoutRequest) (*TransactionResponse, error) {
	sellingStore, err := s.storeRepo.FindByID(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}
	if !sellingStore.IsActive() {
		return nil, shared.NewDomainError("INACTIVE_STORE", "Cannot sell from an inactive store")
	}

	var customer *partner.Customer
	if req.CustomerID != nil {
		customer, err = s.customerRepo.FindByID(ctx, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		if !customer.IsActive() {
			return nil, shared.NewDomainError("INACTIVE_CUSTOMER", "Customer account is inactive")
		}
	}

	lines := make([]sales.SaleLine, len(req.Items))
	for i, item := range req.Items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive() {
			return nil, shared.NewDomainError("INACTIVE_PRODUCT", "Product is not available for sale")
		}

		unitPrice := product.SellingPrice
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}

		lines[i] = sales.SaleLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			Unit:        product.Unit,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
		}
	}

	soldAt := time.Now()
	invoiceNumber, err := s.salesRepo.NextInvoiceNumber(ctx, sellingStore.ID, sellingStore.Code, soldAt)
	if err != nil {
		return nil, err
	}

	txn, err := sales.NewSalesTransaction(invoiceNumber, req.StoreID, cashierID, req.CustomerID,
		lines, req.Discount, req.Tax, sales.PaymentMethod(req.PaymentMethod), req.PaidAmount)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		if err := txn.SetRemark(req.Remark); err != nil {
			return nil, err
		}
	}

	// Stock, ledger entries, the transaction row, the loyalty update and the
	// audit action commit together: a failed line leaves nothing behind.
	err = s.txScope.Execute(ctx, func(repos invapp.TransactionalRepositories) error {
		for i := range txn.Items {
			line := &txn.Items[i]

			item, txErr := repos.InventoryRepo().FindByStoreAndProduct(ctx, req.StoreID, line.ProductID)
			if txErr != nil {
				return txErr
			}
			if txErr = item.Decrease(line.Quantity); txErr != nil {
				return txErr
			}
			if txErr = repos.InventoryRepo().Save(ctx, item); txErr != nil {
				return txErr
			}

			movement, txErr := inventory.NewStockMovement(req.StoreID, line.ProductID, inventory.MovementTypeSale, line.Quantity.Neg())
			if txErr != nil {
				return txErr
			}
			movement.WithReference("sales_transaction", txn.ID).WithActor(cashierID)
			if txErr = repos.MovementRepo().Append(ctx, movement); txErr != nil {
				return txErr
			}
		}

		if txErr := repos.SalesRepo().Create(ctx, txn); txErr != nil {
			return txErr
		}

		if customer != nil {
			if txErr := customer.RecordPurchase(txn.TotalAmount); txErr != nil {
				return txErr
			}
			if txErr := repos.CustomerRepo().Save(ctx, customer); txErr != nil {
				return txErr
			}
		}

		action := sales.NewSalesAction(txn.ID, sales.ActionTypeSale, cashierID)
		return repos.SalesRepo().AppendAction(ctx, action)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, txn)

	response := ToTransactionResponse(txn)
	return &response, nil
}

// Void voids a completed transaction, restoring the sold stock and reversing
// any loyalty points the sale earned
func (s *SalesService) Void(ctx context.Context, actorID, transactionID uuid.UUID, req VoidRequest) (*TransactionResponse, error) {
	txn, err := s.salesRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if err := txn.Void(actorID, req.Reason); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos invapp.TransactionalRepositories) error {
		for i := range txn.Items {
			line := &txn.Items[i]

			item, txErr := repos.InventoryRepo().FindOrCreate(ctx, txn.StoreID, line.ProductID)
			if txErr != nil {
				return txErr
			}
			if txErr = item.Increase(line.Quantity); txErr != nil {
				return txErr
			}
			if txErr = repos.InventoryRepo().Save(ctx, item); txErr != nil {
				return txErr
			}

			movement, txErr := inventory.NewStockMovement(txn.StoreID, line.ProductID, inventory.MovementTypeSaleVoid, line.Quantity)
			if txErr != nil {
				return txErr
			}
			movement.WithReference("sales_transaction", txn.ID).WithActor(actorID).WithNote(req.Reason)
			if txErr = repos.MovementRepo().Append(ctx, movement); txErr != nil {
				return txErr
			}
		}

		if txErr := repos.SalesRepo().Update(ctx, txn); txErr != nil {
			return txErr
		}

		if txn.HasCustomer() {
			customer, txErr := repos.CustomerRepo().FindByID(ctx, *txn.CustomerID)
			if txErr != nil {
				return txErr
			}
			if txErr := customer.ReversePurchase(txn.TotalAmount); txErr != nil {
				return txErr
			}
			if txErr := repos.CustomerRepo().Save(ctx, customer); txErr != nil {
				return txErr
			}
		}

		action := sales.NewSalesAction(txn.ID, sales.ActionTypeVoid, actorID).WithNote(req.Reason)
		return repos.SalesRepo().AppendAction(ctx, action)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, txn)

	response := ToTransactionResponse(txn)
	return &response, nil
}

// GetByID retrieves a transaction by ID
func (s *SalesService) GetByID(ctx context.Context, transactionID uuid.UUID) (*TransactionResponse, error) {
	txn, err := s.salesRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	response := ToTransactionResponse(txn)
	return &response, nil
}

// GetByInvoiceNumber retrieves a transaction by its invoice number
func (s *SalesService) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*TransactionResponse, error) {
	txn, err := s.salesRepo.FindByInvoiceNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	response := ToTransactionResponse(txn)
	return &response, nil
}

// List retrieves transactions with filtering and pagination
func (s *SalesService) List(ctx context.Context, filter TransactionListFilter) ([]TransactionListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "sold_at"
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

	if filter.StoreID != nil {
		domainFilter.Filters["store_id"] = *filter.StoreID
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.CashierID != nil {
		domainFilter.Filters["cashier_id"] = *filter.CashierID
	}
	if filter.Status != "" {
		status := sales.TransactionStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_FILTER", "Unknown transaction status")
		}
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PaymentMethod != "" {
		method := sales.PaymentMethod(filter.PaymentMethod)
		if !method.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_FILTER", "Unknown payment method")
		}
		domainFilter.Filters["payment_method"] = filter.PaymentMethod
	}
	if filter.From != "" {
		from, err := time.Parse(time.RFC3339, filter.From)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_FILTER", "from must be an RFC3339 timestamp")
		}
		domainFilter.Filters["from"] = from
	}
	if filter.To != "" {
		to, err := time.Parse(time.RFC3339, filter.To)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_FILTER", "to must be an RFC3339 timestamp")
		}
		domainFilter.Filters["to"] = to
	}

	txns, total, err := s.salesRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTransactionListItemResponses(txns), total, nil
}

// ListByCustomer retrieves transactions for a customer
func (s *SalesService) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter TransactionListFilter) ([]TransactionListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "sold_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}

	txns, total, err := s.salesRepo.FindByCustomer(ctx, customerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTransactionListItemResponses(txns), total, nil
}

// GetStoreSummary aggregates completed sales for a store over a period
func (s *SalesService) GetStoreSummary(ctx context.Context, storeID uuid.UUID, from, to time.Time) (*StoreSummaryResponse, error) {
	if !to.After(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "to must be after from")
	}

	summary, err := s.salesRepo.StoreSummary(ctx, storeID, from, to)
	if err != nil {
		return nil, err
	}

	response := ToStoreSummaryResponse(summary)
	return &response, nil
}

// GetActions returns the audit trail for a transaction, oldest first
func (s *SalesService) GetActions(ctx context.Context, transactionID uuid.UUID) ([]ActionResponse, error) {
	if _, err := s.salesRepo.FindByID(ctx, transactionID); err != nil {
		return nil, err
	}

	actions, err := s.salesRepo.FindActions(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	return ToActionResponses(actions), nil
}

func (s *SalesService) publishEvents(ctx context.Context, txn *sales.SalesTransaction) {
	if s.eventBus == nil {
		return
	}
	for _, event := range txn.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	txn.ClearDomainEvents()
}
