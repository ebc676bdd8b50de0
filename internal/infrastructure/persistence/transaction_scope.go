package persistence

import (
	"context"

	"gorm.io/gorm"

	invapp "github.com/pawmart/backend/internal/application/inventory"
	"github.com/pawmart/backend/internal/domain/inventory"
	"github.com/pawmart/backend/internal/domain/partner"
	"github.com/pawmart/backend/internal/domain/purchasing"
	"github.com/pawmart/backend/internal/domain/sales"
	"github.com/pawmart/backend/internal/domain/transfer"
)

// GormTransactionScope implements the application transaction scope on a
// GORM database. Each Execute call opens one transaction; the repositories
// handed to the callback are bound to it.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a transaction scope over the given database
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a database transaction. Any error rolls it back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos invapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txRepositories{tx: tx})
	})
}

// txRepositories hands out repositories bound to one transaction.
// Construction is lazy so an Execute call only builds the repositories the
// callback actually touches.
type txRepositories struct {
	tx *gorm.DB
}

func (r *txRepositories) InventoryRepo() inventory.InventoryRepository {
	return NewGormInventoryRepository(r.tx)
}

func (r *txRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *txRepositories) TransferRepo() transfer.TransferRepository {
	return NewGormTransferRepository(r.tx)
}

func (r *txRepositories) SalesRepo() sales.SalesRepository {
	return NewGormSalesRepository(r.tx)
}

func (r *txRepositories) PurchaseOrderRepo() purchasing.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

func (r *txRepositories) CustomerRepo() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

var _ invapp.TransactionScope = (*GormTransactionScope)(nil)
