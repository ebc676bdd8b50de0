package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/inventory"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMockInventoryRepository(t *testing.T) (*GormInventoryRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormInventoryRepository(gormDB), mock, mockDB
}

func TestGormInventoryRepository_FindByStoreAndProduct(t *testing.T) {
	t.Run("finds existing record", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryRepository(t)
		defer mockDB.Close()

		storeID := uuid.New()
		productID := uuid.New()
		itemID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "store_id", "product_id", "on_hand_quantity", "reserved_quantity", "version"}).
			AddRow(itemID, storeID, productID, decimal.NewFromInt(40), decimal.NewFromInt(5), 3)

		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE store_id = \$1 AND product_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(storeID, productID, 1).
			WillReturnRows(rows)

		item, err := repo.FindByStoreAndProduct(context.Background(), storeID, productID)

		assert.NoError(t, err)
		require.NotNil(t, item)
		assert.True(t, item.OnHandQuantity.Equal(decimal.NewFromInt(40)))
		assert.True(t, item.AvailableQuantity().Equal(decimal.NewFromInt(35)))
		assert.Equal(t, 3, item.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when record is absent", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE store_id = \$1 AND product_id = \$2 ORDER BY .* LIMIT .*`).
			WillReturnError(gorm.ErrRecordNotFound)

		item, err := repo.FindByStoreAndProduct(context.Background(), uuid.New(), uuid.New())

		assert.Nil(t, item)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryRepository_Save(t *testing.T) {
	t.Run("creates record on first save", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryRepository(t)
		defer mockDB.Close()

		item, err := inventory.NewInventoryItem(uuid.New(), uuid.New())
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "inventory_items" WHERE id = \$1`).
			WithArgs(item.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO "inventory_items"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(item.ID))

		err = repo.Save(context.Background(), item)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("updates with version guard", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryRepository(t)
		defer mockDB.Close()

		item, err := inventory.NewInventoryItem(uuid.New(), uuid.New())
		require.NoError(t, err)
		require.NoError(t, item.Increase(decimal.NewFromInt(10)))

		mock.ExpectQuery(`SELECT count\(\*\) FROM "inventory_items" WHERE id = \$1`).
			WithArgs(item.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectExec(`UPDATE "inventory_items" SET .* WHERE id = \$\d+ AND version < \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), item)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports concurrent modification when guard matches no rows", func(t *testing.T) {
		repo, mock, mockDB := newMockInventoryRepository(t)
		defer mockDB.Close()

		item, err := inventory.NewInventoryItem(uuid.New(), uuid.New())
		require.NoError(t, err)
		require.NoError(t, item.Increase(decimal.NewFromInt(10)))

		mock.ExpectQuery(`SELECT count\(\*\) FROM "inventory_items" WHERE id = \$1`).
			WithArgs(item.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectExec(`UPDATE "inventory_items" SET .* WHERE id = \$\d+ AND version < \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Save(context.Background(), item)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONCURRENT_MODIFICATION", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockMovementRepository_FindByFilter(t *testing.T) {
	t.Run("applies store and time bounds", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockMovementRepository(gormDB)

		storeID := uuid.New()
		from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

		countRows := sqlmock.NewRows([]string{"count"}).AddRow(1)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_movements" WHERE store_id = \$1 AND created_at >= \$2`).
			WithArgs(storeID, from).
			WillReturnRows(countRows)

		rows := sqlmock.NewRows([]string{"id", "store_id", "product_id", "type", "quantity"}).
			AddRow(uuid.New(), storeID, uuid.New(), "purchase_receipt", decimal.NewFromInt(12))
		mock.ExpectQuery(`SELECT \* FROM "stock_movements" WHERE store_id = \$1 AND created_at >= \$2 ORDER BY created_at DESC`).
			WithArgs(storeID, from).
			WillReturnRows(rows)

		filter := inventory.NewMovementFilter()
		filter.StoreID = &storeID
		filter.From = &from
		movements, total, err := repo.FindByFilter(context.Background(), filter)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, movements, 1)
		assert.Equal(t, inventory.MovementTypePurchaseReceipt, movements[0].Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
