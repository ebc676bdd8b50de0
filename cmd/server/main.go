package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	auditapp "github.com/pawmart/backend/internal/application/audit"
	catalogapp "github.com/pawmart/backend/internal/application/catalog"
	identityapp "github.com/pawmart/backend/internal/application/identity"
	inventoryapp "github.com/pawmart/backend/internal/application/inventory"
	partnerapp "github.com/pawmart/backend/internal/application/partner"
	purchasingapp "github.com/pawmart/backend/internal/application/purchasing"
	reportapp "github.com/pawmart/backend/internal/application/report"
	salesapp "github.com/pawmart/backend/internal/application/sales"
	storeapp "github.com/pawmart/backend/internal/application/store"
	transferapp "github.com/pawmart/backend/internal/application/transfer"
	"github.com/pawmart/backend/internal/infrastructure/auth"
	"github.com/pawmart/backend/internal/infrastructure/cache"
	"github.com/pawmart/backend/internal/infrastructure/config"
	"github.com/pawmart/backend/internal/infrastructure/event"
	"github.com/pawmart/backend/internal/infrastructure/logger"
	"github.com/pawmart/backend/internal/infrastructure/persistence"
	"github.com/pawmart/backend/internal/infrastructure/storage"
	"github.com/pawmart/backend/internal/infrastructure/telemetry"
	"github.com/pawmart/backend/internal/interfaces/http/handler"
	"github.com/pawmart/backend/internal/interfaces/http/middleware"
	"github.com/pawmart/backend/internal/interfaces/http/router"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

//	@title			PawMart Backend API
//	@version		1.0
//	@description	Pet products retail ERP backend: catalog, inventory, purchasing, transfers, POS sales, reporting.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting PawMart backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing (optional)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Tracer provider shutdown failed", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(), log)
		if err := dbTracing.Register(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Token blacklist backed by Redis, falling back to process memory so a
	// dev setup can run without it. Production requires Redis.
	var blacklist auth.TokenBlacklist
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		if cfg.App.IsProduction() {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		defer func() {
			_ = redisClient.Close()
		}()
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		log.Info("Redis connected")
	}

	// Product image storage
	var imageStorage catalogapp.ImageStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ImageStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		imageStorage = s3Storage
		log.Info("Image storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		imageStorage = storage.NewStubImageStorage()
	}

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = eventBus.Stop(stopCtx)
	}()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)
	salesRepo := persistence.NewGormSalesRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	regionRepo := persistence.NewGormRegionRepository(db.DB)
	reportRepo := persistence.NewGormStoreReportRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services
	productService := catalogapp.NewProductService(productRepo, categoryRepo, brandRepo, imageStorage, eventBus)
	productService.SetConfig(catalogapp.ProductServiceConfig{
		UploadURLExpiry:   cfg.Storage.PresignExpiry,
		DownloadURLExpiry: cfg.Storage.PresignExpiry,
	})
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	brandService := catalogapp.NewBrandService(brandRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo, purchaseOrderRepo)
	customerService := partnerapp.NewCustomerService(customerRepo)
	inventoryService := inventoryapp.NewInventoryService(inventoryRepo, movementRepo, productRepo, txScope)
	purchaseOrderService := purchasingapp.NewPurchaseOrderService(purchaseOrderRepo, productRepo, supplierRepo, storeRepo, txScope, eventBus)
	transferService := transferapp.NewTransferService(transferRepo, productRepo, storeRepo, txScope, eventBus)
	salesService := salesapp.NewSalesService(salesRepo, productRepo, customerRepo, storeRepo, txScope, eventBus)
	authService := identityapp.NewAuthService(userRepo, roleRepo, jwtService, blacklist, cfg.Auth, log)
	userService := identityapp.NewUserService(userRepo, roleRepo, storeRepo, log)
	roleService := identityapp.NewRoleService(roleRepo, userRepo, log)
	storeService := storeapp.NewStoreService(storeRepo, regionRepo, inventoryRepo, eventBus)
	regionService := storeapp.NewRegionService(regionRepo, storeRepo)
	reportService := reportapp.NewReportService(reportRepo, storeRepo)

	// Register event handlers for cross-context integration
	// Sales and transfers drain stock -> low stock alerting
	lowStockHandler := inventoryapp.NewLowStockAlertHandler(inventoryRepo, productRepo, log).
		WithNotifier(inventoryapp.NewLoggingLowStockNotifier(log))
	eventBus.Subscribe(lowStockHandler)

	// Store deactivation -> stranded stock check
	storeDeactivatedHandler := storeapp.NewStoreDeactivatedHandler(inventoryRepo, log)
	eventBus.Subscribe(storeDeactivatedHandler)

	// Document lifecycle events -> activity trail
	activityLogHandler := auditapp.NewActivityLogHandler(log)
	eventBus.Subscribe(activityLogHandler)

	log.Info("Event handlers registered",
		zap.Strings("low_stock_events", lowStockHandler.EventTypes()),
		zap.Strings("store_deactivated_events", storeDeactivatedHandler.EventTypes()),
		zap.Strings("activity_log_events", activityLogHandler.EventTypes()),
	)

	// Gin engine
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	engine.GET("/health", healthHandler(db))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithGroupMiddleware(middleware.JWTAuthMiddlewareWithConfig(jwtConfig)),
	)

	r.Register(
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewRoleHandler(roleService),
		handler.NewStoreHandler(storeService),
		handler.NewRegionHandler(regionService, storeService),
		handler.NewCategoryHandler(categoryService),
		handler.NewBrandHandler(brandService),
		handler.NewProductHandler(productService),
		handler.NewSupplierHandler(supplierService),
		handler.NewCustomerHandler(customerService, salesService),
		handler.NewInventoryHandler(inventoryService),
		handler.NewPurchaseOrderHandler(purchaseOrderService),
		handler.NewTransferHandler(transferService),
		handler.NewSalesHandler(salesService),
		handler.NewReportHandler(reportService),
	)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
