package inventory

import (
	"context"

	"github.com/pawmart/backend/internal/domain/inventory"
	"github.com/pawmart/backend/internal/domain/partner"
	"github.com/pawmart/backend/internal/domain/purchasing"
	"github.com/pawmart/backend/internal/domain/sales"
	"github.com/pawmart/backend/internal/domain/transfer"
)

// TransactionScope provides transactional access to the repositories touched
// by stock-moving operations. A function executed within the scope sees
// repositories bound to a single database transaction, so the aggregate
// status change, the inventory item updates, the movement ledger entries and
// the audit rows commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to repositories that share the
// same underlying database transaction.
type TransactionalRepositories interface {
	// InventoryRepo returns the inventory item repository scoped to the current transaction
	InventoryRepo() inventory.InventoryRepository
	// MovementRepo returns the movement ledger repository scoped to the current transaction
	MovementRepo() inventory.StockMovementRepository
	// TransferRepo returns the transfer request repository scoped to the current transaction
	TransferRepo() transfer.TransferRepository
	// SalesRepo returns the sales transaction repository scoped to the current transaction
	SalesRepo() sales.SalesRepository
	// PurchaseOrderRepo returns the purchase order repository scoped to the current transaction
	PurchaseOrderRepo() purchasing.PurchaseOrderRepository
	// CustomerRepo returns the customer repository scoped to the current transaction
	CustomerRepo() partner.CustomerRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests and callers that already hold a transaction.
type NoOpTransactionScope struct {
	inventoryRepo inventory.InventoryRepository
	movementRepo  inventory.StockMovementRepository
	transferRepo  transfer.TransferRepository
	salesRepo     sales.SalesRepository
	orderRepo     purchasing.PurchaseOrderRepository
	customerRepo  partner.CustomerRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given
// inventory repositories. Aggregate repositories are attached with the
// With... builders as each caller needs them.
func NewNoOpTransactionScope(
	inventoryRepo inventory.InventoryRepository,
	movementRepo inventory.StockMovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
	}
}

// WithTransferRepo attaches a transfer repository to the scope
func (s *NoOpTransactionScope) WithTransferRepo(repo transfer.TransferRepository) *NoOpTransactionScope {
	s.transferRepo = repo
	return s
}

// WithSalesRepo attaches a sales repository to the scope
func (s *NoOpTransactionScope) WithSalesRepo(repo sales.SalesRepository) *NoOpTransactionScope {
	s.salesRepo = repo
	return s
}

// WithPurchaseOrderRepo attaches a purchase order repository to the scope
func (s *NoOpTransactionScope) WithPurchaseOrderRepo(repo purchasing.PurchaseOrderRepository) *NoOpTransactionScope {
	s.orderRepo = repo
	return s
}

// WithCustomerRepo attaches a customer repository to the scope
func (s *NoOpTransactionScope) WithCustomerRepo(repo partner.CustomerRepository) *NoOpTransactionScope {
	s.customerRepo = repo
	return s
}

// Execute runs the function directly against the wrapped repositories.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InventoryRepo returns the inventory item repository.
func (s *NoOpTransactionScope) InventoryRepo() inventory.InventoryRepository {
	return s.inventoryRepo
}

// MovementRepo returns the movement ledger repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

// TransferRepo returns the transfer request repository.
func (s *NoOpTransactionScope) TransferRepo() transfer.TransferRepository {
	return s.transferRepo
}

// SalesRepo returns the sales transaction repository.
func (s *NoOpTransactionScope) SalesRepo() sales.SalesRepository {
	return s.salesRepo
}

// PurchaseOrderRepo returns the purchase order repository.
func (s *NoOpTransactionScope) PurchaseOrderRepo() purchasing.PurchaseOrderRepository {
	return s.orderRepo
}

// CustomerRepo returns the customer repository.
func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository {
	return s.customerRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
