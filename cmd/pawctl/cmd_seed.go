package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	catalogapp "github.com/pawmart/backend/internal/application/catalog"
	identityapp "github.com/pawmart/backend/internal/application/identity"
	partnerapp "github.com/pawmart/backend/internal/application/partner"
	storeapp "github.com/pawmart/backend/internal/application/store"
	"github.com/pawmart/backend/internal/domain/identity"
	"github.com/pawmart/backend/internal/domain/shared"
	"github.com/pawmart/backend/internal/infrastructure/event"
	"github.com/pawmart/backend/internal/infrastructure/persistence"
	"github.com/pawmart/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedAdminPassword string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with demo data",
	Long:  "Creates a demo region, two stores, the built-in roles with their permission matrices, an admin user, and a starter catalog. Existing records are left untouched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := boot()
		if err != nil {
			return err
		}
		defer app.Close()

		return runSeed(cmd.Context(), app)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "ChangeMe123!", "Initial password for the admin user")
}

func runSeed(ctx context.Context, app *appContext) error {
	log := app.log
	eventBus := event.NewInMemoryEventBus(log)

	regionRepo := persistence.NewGormRegionRepository(app.db.DB)
	storeRepo := persistence.NewGormStoreRepository(app.db.DB)
	roleRepo := persistence.NewGormRoleRepository(app.db.DB)
	userRepo := persistence.NewGormUserRepository(app.db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(app.db.DB)
	brandRepo := persistence.NewGormBrandRepository(app.db.DB)
	productRepo := persistence.NewGormProductRepository(app.db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(app.db.DB)
	customerRepo := persistence.NewGormCustomerRepository(app.db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(app.db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(app.db.DB)

	regionService := storeapp.NewRegionService(regionRepo, storeRepo)
	storeService := storeapp.NewStoreService(storeRepo, regionRepo, inventoryRepo, eventBus)
	roleService := identityapp.NewRoleService(roleRepo, userRepo, log)
	userService := identityapp.NewUserService(userRepo, roleRepo, storeRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	brandService := catalogapp.NewBrandService(brandRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, brandRepo, storage.NewStubImageStorage(), eventBus)
	supplierService := partnerapp.NewSupplierService(supplierRepo, purchaseOrderRepo)
	customerService := partnerapp.NewCustomerService(customerRepo)

	// Region and stores
	region, err := regionService.Create(ctx, storeapp.CreateRegionRequest{
		Code: "NORTH", Name: "North Region", Description: "Demo region",
	})
	if err := skipExisting(log, "region NORTH", err); err != nil {
		return err
	}
	var regionID *uuid.UUID
	if region != nil {
		regionID = &region.ID
	}

	mainStore, err := storeService.Create(ctx, storeapp.CreateStoreRequest{
		Code: "MAIN", Name: "PawMart Main Street", Type: "retail",
		RegionID: regionID, City: "Springfield", Address: "12 Main St",
	})
	if err := skipExisting(log, "store MAIN", err); err != nil {
		return err
	}
	_, err = storeService.Create(ctx, storeapp.CreateStoreRequest{
		Code: "DC1", Name: "PawMart Distribution Center", Type: "dc",
		RegionID: regionID, City: "Springfield", Address: "8 Warehouse Rd",
	})
	if err := skipExisting(log, "store DC1", err); err != nil {
		return err
	}

	// Roles
	adminRole, err := roleService.Create(ctx, identityapp.CreateRoleRequest{
		Code:        identity.RoleCodeAdmin,
		Name:        "Administrator",
		Description: "Full access to every module",
		Permissions: allPermissions(),
	})
	if err := skipExisting(log, "role ADMIN", err); err != nil {
		return err
	}
	_, err = roleService.Create(ctx, identityapp.CreateRoleRequest{
		Code:        identity.RoleCodeStoreManager,
		Name:        "Store Manager",
		Description: "Runs one store: inventory, purchasing, transfers, sales",
		Permissions: storeManagerPermissions(),
	})
	if err := skipExisting(log, "role STORE_MANAGER", err); err != nil {
		return err
	}
	_, err = roleService.Create(ctx, identityapp.CreateRoleRequest{
		Code:        identity.RoleCodeCashier,
		Name:        "Cashier",
		Description: "Point of sale and customer lookups",
		Permissions: cashierPermissions(),
	})
	if err := skipExisting(log, "role CASHIER", err); err != nil {
		return err
	}

	// Admin user
	if adminRole != nil {
		var storeID *uuid.UUID
		if mainStore != nil {
			storeID = &mainStore.ID
		}
		_, err = userService.Create(ctx, identityapp.CreateUserRequest{
			Username: "admin",
			Password: seedAdminPassword,
			FullName: "System Administrator",
			StoreID:  storeID,
			RoleIDs:  []uuid.UUID{adminRole.ID},
		})
		if err := skipExisting(log, "user admin", err); err != nil {
			return err
		}
	}

	// Starter catalog
	food, err := categoryService.Create(ctx, catalogapp.CreateCategoryRequest{
		Code: "FOOD", Name: "Pet Food",
	})
	if err := skipExisting(log, "category FOOD", err); err != nil {
		return err
	}
	_, err = categoryService.Create(ctx, catalogapp.CreateCategoryRequest{
		Code: "TOYS", Name: "Toys & Enrichment",
	})
	if err := skipExisting(log, "category TOYS", err); err != nil {
		return err
	}

	brand, err := brandService.Create(ctx, catalogapp.CreateBrandRequest{
		Code: "HAPPYTAILS", Name: "Happy Tails",
	})
	if err := skipExisting(log, "brand HAPPYTAILS", err); err != nil {
		return err
	}

	supplier, err := supplierService.Create(ctx, partnerapp.CreateSupplierRequest{
		Code: "SUP-001", Name: "Northwind Pet Supply", ContactName: "Dana Reyes",
		Phone: "555-0142", PaymentTermsDays: intPtr(30),
	})
	if err := skipExisting(log, "supplier SUP-001", err); err != nil {
		return err
	}

	products := []catalogapp.CreateProductRequest{
		{
			SKU: "DOG-FOOD-10KG", Name: "Adult Dog Food 10kg", Unit: "bag",
			Barcode:   "4006381333931",
			CostPrice: decimalPtr("18.50"), SellingPrice: decimalPtr("34.99"),
			MinStock: decimalPtr("10"),
		},
		{
			SKU: "CAT-LITTER-5L", Name: "Clumping Cat Litter 5L", Unit: "box",
			CostPrice: decimalPtr("4.20"), SellingPrice: decimalPtr("9.49"),
			MinStock: decimalPtr("20"),
		},
		{
			SKU: "ROPE-TOY-M", Name: "Rope Tug Toy Medium", Unit: "pc",
			CostPrice: decimalPtr("1.80"), SellingPrice: decimalPtr("5.99"),
			MinStock: decimalPtr("15"),
		},
	}
	for i := range products {
		if food != nil {
			products[i].CategoryID = &food.ID
		}
		if brand != nil {
			products[i].BrandID = &brand.ID
		}
		if supplier != nil {
			products[i].SupplierID = &supplier.ID
		}
		_, err := productService.Create(ctx, products[i])
		if err := skipExisting(log, "product "+products[i].SKU, err); err != nil {
			return err
		}
	}

	_, err = customerService.Create(ctx, partnerapp.CreateCustomerRequest{
		Name: "Walk-in Demo Customer", Phone: "555-0100",
	})
	if err := skipExisting(log, "demo customer", err); err != nil {
		return err
	}

	log.Info("Seed completed")
	return nil
}

// skipExisting logs and swallows duplicate errors so seed stays idempotent.
func skipExisting(log *zap.Logger, what string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && (domainErr.Code == "ALREADY_EXISTS" || domainErr.Code == "DUPLICATE_ROLE_CODE" || domainErr.Code == "DUPLICATE_USERNAME") {
		log.Info("Already seeded, skipping", zap.String("entity", what))
		return nil
	}
	return fmt.Errorf("seed %s: %w", what, err)
}

func allPermissions() []string {
	var perms []string
	for _, module := range identity.KnownModules {
		for _, action := range identity.ModuleActions[module] {
			perms = append(perms, module+":"+action)
		}
	}
	return perms
}

func storeManagerPermissions() []string {
	return []string{
		"products:read", "categories:read", "brands:read", "suppliers:read",
		"customers:create", "customers:read", "customers:update",
		"inventory:read", "inventory:adjust",
		"purchase_orders:create", "purchase_orders:read", "purchase_orders:update",
		"purchase_orders:confirm", "purchase_orders:receive", "purchase_orders:cancel",
		"transfers:create", "transfers:read", "transfers:update",
		"transfers:approve", "transfers:reject", "transfers:execute", "transfers:cancel",
		"sales:create", "sales:read", "sales:void",
		"stores:read", "regions:read", "reports:read",
	}
}

func cashierPermissions() []string {
	return []string{
		"products:read", "customers:create", "customers:read",
		"inventory:read", "sales:create", "sales:read",
	}
}

func intPtr(v int) *int {
	return &v
}

func decimalPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}
