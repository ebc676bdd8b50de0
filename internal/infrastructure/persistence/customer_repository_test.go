package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a gorm DB backed by a mocked SQL connection
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func newMockCustomerRepository(t *testing.T) (*GormCustomerRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormCustomerRepository(gormDB), mock, mockDB
}

func TestNewGormCustomerRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormCustomerRepository_FindByID(t *testing.T) {
	t.Run("finds existing customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "code", "name", "phone", "loyalty_points", "total_spent", "status"}).
			AddRow(customerID, "CUS-A1B2C3", "Dana Whitfield", "555-0101", int64(120), decimal.NewFromInt(250), "active")

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(customerID, 1).
			WillReturnRows(rows)

		customer, err := repo.FindByID(context.Background(), customerID)

		assert.NoError(t, err)
		assert.NotNil(t, customer)
		assert.Equal(t, customerID, customer.ID)
		assert.Equal(t, "CUS-A1B2C3", customer.Code)
		assert.Equal(t, int64(120), customer.LoyaltyPoints)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(customerID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		customer, err := repo.FindByID(context.Background(), customerID)

		assert.Error(t, err)
		assert.Nil(t, customer)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_FindByPhone(t *testing.T) {
	t.Run("empty phone short-circuits to ErrNotFound", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customer, err := repo.FindByPhone(context.Background(), "")

		assert.Nil(t, customer)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("finds customer by phone", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "code", "name", "phone"}).
			AddRow(customerID, "CUS-D4E5F6", "Marcus Lee", "555-0102")

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE phone = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("555-0102", 1).
			WillReturnRows(rows)

		customer, err := repo.FindByPhone(context.Background(), "555-0102")

		assert.NoError(t, err)
		require.NotNil(t, customer)
		assert.Equal(t, "555-0102", customer.Phone)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_ExistsByCode(t *testing.T) {
	t.Run("uppercases code before matching", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"count"}).AddRow(1)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE code = \$1`).
			WithArgs("CUS-A1B2C3").
			WillReturnRows(rows)

		exists, err := repo.ExistsByCode(context.Background(), "cus-a1b2c3")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_Delete(t *testing.T) {
	t.Run("returns ErrNotFound when no rows affected", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()
		mock.ExpectExec(`DELETE FROM "customers" WHERE id = \$1`).
			WithArgs(customerID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), customerID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_Count(t *testing.T) {
	t.Run("counts with search filter", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"count"}).AddRow(3)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE name ILIKE .* OR code ILIKE .* OR phone ILIKE .*`).
			WillReturnRows(rows)

		filter := shared.DefaultFilter()
		filter.Search = "Dana"
		count, err := repo.Count(context.Background(), filter)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
