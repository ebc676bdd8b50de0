// Package integration exercises repositories and application services
// against a real PostgreSQL database. Containers are managed with
// testcontainers, so Docker must be available to run these tests.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pawmart/backend/internal/domain/catalog"
	"github.com/pawmart/backend/internal/domain/partner"
	"github.com/pawmart/backend/internal/domain/shared/valueobject"
	"github.com/pawmart/backend/internal/domain/store"
)

var (
	// Shared container for all tests in the package
	sharedContainer    testcontainers.Container
	sharedContainerMu  sync.Mutex
	sharedContainerDSN string
)

// TestDB wraps a database connection backed by a PostgreSQL container.
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Container testcontainers.Container
	DSN       string
	t         *testing.T
}

// NewTestDB starts a fresh PostgreSQL container and applies all
// migrations. Each test gets complete isolation at the cost of startup
// time; prefer NewSharedTestDB when fixtures do not collide.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pawmart_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	db, sqlDB := connectToDatabase(t, dsn)
	runMigrations(t, sqlDB)

	testDB := &TestDB{
		DB:        db,
		SqlDB:     sqlDB,
		Container: container,
		DSN:       dsn,
		t:         t,
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// NewSharedTestDB returns a connection to a container shared across the
// package. Tests using it must create their own fixtures with unique
// codes and must not truncate tables.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	ctx := context.Background()

	if sharedContainer == nil {
		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("pawmart_shared_test"),
			tcpostgres.WithUsername("postgres"),
			tcpostgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		require.NoError(t, err, "failed to start shared PostgreSQL container")

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err, "failed to get connection string")

		sharedContainer = container
		sharedContainerDSN = dsn

		_, sqlDB := connectToDatabase(t, dsn)
		runMigrations(t, sqlDB)
		sqlDB.Close()
	}

	db, sqlDB := connectToDatabase(t, sharedContainerDSN)

	testDB := &TestDB{
		DB:        db,
		SqlDB:     sqlDB,
		Container: sharedContainer,
		DSN:       sharedContainerDSN,
		t:         t,
	}

	t.Cleanup(func() {
		if testDB.SqlDB != nil {
			testDB.SqlDB.Close()
		}
	})

	return testDB
}

// Close closes the connection and terminates the container unless it is
// the shared one.
func (tdb *TestDB) Close() {
	ctx := context.Background()

	if tdb.SqlDB != nil {
		tdb.SqlDB.Close()
	}

	if tdb.Container != nil && tdb.Container != sharedContainer {
		if err := tdb.Container.Terminate(ctx); err != nil {
			tdb.t.Logf("warning: failed to terminate container: %v", err)
		}
	}
}

// CleanTables truncates all tables except the migration bookkeeping.
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "failed to get table names")

	for _, table := range tables {
		err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error
		if err != nil {
			tdb.t.Logf("warning: failed to truncate table %s: %v", table, err)
		}
	}
}

func connectToDatabase(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig)
	require.NoError(t, err, "failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err, "failed to get underlying SQL DB")

	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, sqlDB
}

func runMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	migrationsPath := findMigrationsPath()
	require.NotEmpty(t, migrationsPath, "could not find migrations directory")

	driver, err := mpg.WithInstance(sqlDB, &mpg.Config{})
	require.NoError(t, err, "failed to create migration driver")

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+migrationsPath,
		"postgres",
		driver,
	)
	require.NoError(t, err, "failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "failed to run migrations")
	}
}

func findMigrationsPath() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}

	dir := filepath.Dir(filename)
	for i := 0; i < 5; i++ {
		migrationsPath := filepath.Join(dir, "migrations")
		if _, err := os.Stat(migrationsPath); err == nil {
			return migrationsPath
		}
		dir = filepath.Dir(dir)
	}

	if wd, err := os.Getwd(); err == nil {
		paths := []string{
			filepath.Join(wd, "migrations"),
			filepath.Join(wd, "..", "migrations"),
			filepath.Join(wd, "..", "..", "migrations"),
		}
		for _, p := range paths {
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}

	return ""
}

// CleanupSharedContainer terminates the shared container. Call from
// TestMain when the package uses NewSharedTestDB.
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		sharedContainer.Terminate(ctx)
		sharedContainer = nil
		sharedContainerDSN = ""
	}
}

// CreateTestStore inserts a retail store with a unique code and returns it.
func (tdb *TestDB) CreateTestStore(code string) *store.Store {
	tdb.t.Helper()

	s, err := store.NewRetailStore(code, "Test Store "+code)
	require.NoError(tdb.t, err, "failed to build test store")
	require.NoError(tdb.t, tdb.DB.Create(s).Error, "failed to insert test store")
	return s
}

// CreateTestDistributionCenter inserts a distribution center and returns it.
func (tdb *TestDB) CreateTestDistributionCenter(code string) *store.Store {
	tdb.t.Helper()

	s, err := store.NewDistributionCenter(code, "Test DC "+code)
	require.NoError(tdb.t, err, "failed to build test DC")
	require.NoError(tdb.t, tdb.DB.Create(s).Error, "failed to insert test DC")
	return s
}

// CreateTestProduct inserts an active product with the given selling price.
func (tdb *TestDB) CreateTestProduct(sku, sellingPrice string) *catalog.Product {
	tdb.t.Helper()

	cost, err := valueobject.NewMoneyUSDFromString("1.00")
	require.NoError(tdb.t, err)
	price, err := valueobject.NewMoneyUSDFromString(sellingPrice)
	require.NoError(tdb.t, err)

	p, err := catalog.NewProductWithPrices(sku, "Test Product "+sku, "pc", cost, price)
	require.NoError(tdb.t, err, "failed to build test product")
	require.NoError(tdb.t, tdb.DB.Create(p).Error, "failed to insert test product")
	return p
}

// CreateTestSupplier inserts an active supplier and returns it.
func (tdb *TestDB) CreateTestSupplier(code string) *partner.Supplier {
	tdb.t.Helper()

	s, err := partner.NewSupplier(code, "Test Supplier "+code)
	require.NoError(tdb.t, err, "failed to build test supplier")
	require.NoError(tdb.t, tdb.DB.Create(s).Error, "failed to insert test supplier")
	return s
}

// CreateTestCustomer inserts an active customer and returns it.
func (tdb *TestDB) CreateTestCustomer(code string) *partner.Customer {
	tdb.t.Helper()

	c, err := partner.NewCustomerWithCode(code, "Test Customer "+code)
	require.NoError(tdb.t, err, "failed to build test customer")
	require.NoError(tdb.t, tdb.DB.Create(c).Error, "failed to insert test customer")
	return c
}

// SeedStock sets the on-hand quantity for a store-product pair directly.
func (tdb *TestDB) SeedStock(storeID, productID uuid.UUID, onHand string) {
	tdb.t.Helper()

	qty, err := decimal.NewFromString(onHand)
	require.NoError(tdb.t, err)

	err = tdb.DB.Exec(`
		INSERT INTO inventory_items (id, store_id, product_id, on_hand_quantity, reserved_quantity, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, 1, NOW(), NOW())
		ON CONFLICT (store_id, product_id)
		DO UPDATE SET on_hand_quantity = EXCLUDED.on_hand_quantity, updated_at = NOW()
	`, uuid.New(), storeID, productID, qty).Error
	require.NoError(tdb.t, err, "failed to seed stock")
}
