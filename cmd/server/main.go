package main

import (
	"context"
	"crypto/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	federationapp "github.com/procurehub/backend/internal/application/federation"
	"github.com/procurehub/backend/internal/infrastructure/cache"
	"github.com/procurehub/backend/internal/infrastructure/config"
	"github.com/procurehub/backend/internal/infrastructure/extdb"
	"github.com/procurehub/backend/internal/infrastructure/logger"
	"github.com/procurehub/backend/internal/infrastructure/persistence"
	"github.com/procurehub/backend/internal/infrastructure/secrets"
	"github.com/procurehub/backend/internal/infrastructure/telemetry"
	"github.com/procurehub/backend/internal/interfaces/http/handler"
	"github.com/procurehub/backend/internal/interfaces/http/middleware"
	"github.com/procurehub/backend/internal/interfaces/http/router"
)

//	@title			ProcureHub Backend API
//	@version		1.0
//	@description	Procurement backend with per-tenant external data source federation

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ProcureHub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize platform database connection
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Database query tracing
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			SlowQueryThresh:  200 * time.Millisecond,
			DBSystem:         "postgresql",
			WithoutVariables: true,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Error("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	materialRepo := persistence.NewGormMaterialRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	deliveryOrderRepo := persistence.NewGormDeliveryOrderRepository(db.DB)
	transporterRepo := persistence.NewGormTransporterRepository(db.DB)
	tenantDataSourceRepo := persistence.NewGormTenantDataSourceRepository(db.DB)

	// Password encryption for tenant database credentials. Without a
	// configured key (dev only) an ephemeral key is generated; stored
	// passwords then do not survive a restart.
	keyBytes := []byte(cfg.Federation.EncryptionKey)
	if len(keyBytes) == 0 {
		keyBytes = make([]byte, 32)
		if _, err := rand.Read(keyBytes); err != nil {
			log.Fatal("Failed to generate ephemeral encryption key", zap.Error(err))
		}
		log.Warn("No federation encryption key configured, using ephemeral key; stored external database passwords will be unreadable after restart")
	}
	cipher, err := secrets.NewAESCipher(keyBytes)
	if err != nil {
		log.Fatal("Failed to initialize password encryption", zap.Error(err))
	}

	// External connection pool manager
	poolManager := extdb.NewManager(
		extdb.WithMaxOpenConns(cfg.Federation.PoolMaxOpenConns),
		extdb.WithConnectTimeout(cfg.Federation.ConnectTimeout),
		extdb.WithRetry(cfg.Federation.RetryAttempts, cfg.Federation.RetryBackoff),
		extdb.WithIdleTTL(cfg.Federation.PoolIdleTTL),
		extdb.WithSweepInterval(cfg.Federation.PoolSweepInterval),
		extdb.WithLogger(log),
	)

	// Read-through cache for external fetches and routing decisions
	recordCache := cache.NewTTLCache(
		cache.WithDefaultTTL(cfg.Federation.CacheDefaultTTL),
		cache.WithSweepInterval(cfg.Federation.CacheSweepInterval),
		cache.WithLogger(log),
	)

	// Federation adapters: internal reads go through the platform
	// repositories, external reads through the pool manager
	routerDeps := federationapp.RouterDeps{
		Configs:                tenantDataSourceRepo,
		Decrypter:              cipher,
		Cache:                  recordCache,
		Pools:                  poolManager,
		Logger:                 log,
		InternalVendors:        federationapp.NewInternalVendorAdapter(vendorRepo),
		ExternalVendors:        federationapp.NewExternalVendorAdapter(poolManager, recordCache, log),
		InternalMaterials:      federationapp.NewInternalMaterialAdapter(materialRepo),
		ExternalMaterials:      federationapp.NewExternalMaterialAdapter(poolManager, recordCache, log),
		InternalPurchaseOrders: federationapp.NewInternalPurchaseOrderAdapter(purchaseOrderRepo),
		ExternalPurchaseOrders: federationapp.NewExternalPurchaseOrderAdapter(poolManager, recordCache, log),
		InternalDeliveryOrders: federationapp.NewInternalDeliveryOrderAdapter(deliveryOrderRepo),
		ExternalDeliveryOrders: federationapp.NewExternalDeliveryOrderAdapter(poolManager, recordCache, log),
		InternalTransporters:   federationapp.NewInternalTransporterAdapter(transporterRepo),
		ExternalTransporters:   federationapp.NewExternalTransporterAdapter(poolManager, recordCache, log),
	}
	dataSourceRouter := federationapp.NewDataSourceRouter(routerDeps)

	// Cross-instance invalidation over Redis pub/sub. The service still works
	// without Redis; invalidation is then local to this instance.
	var invalidationPublisher federationapp.InvalidationPublisher
	invalidator, err := cache.NewTenantInvalidator(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cache.WithInvalidatorChannel(cfg.Federation.InvalidationChannel),
		cache.WithInvalidatorLogger(log),
	)
	if err != nil {
		log.Warn("Redis unavailable, tenant invalidation is instance-local", zap.Error(err))
	} else {
		invalidationPublisher = invalidator
		if err := invalidator.Subscribe(func(tenantID string) {
			dataSourceRouter.InvalidateTenant(tenantID)
		}); err != nil {
			log.Error("Failed to subscribe to tenant invalidation channel", zap.Error(err))
		}
		defer func() {
			if err := invalidator.Close(); err != nil {
				log.Error("Error closing tenant invalidator", zap.Error(err))
			}
		}()
	}

	// Tenant configuration administration
	adminService := federationapp.NewAdminService(
		tenantDataSourceRepo,
		cipher,
		cipher,
		poolManager,
		dataSourceRouter,
		invalidationPublisher,
		log,
	)

	// Initialize handlers
	vendorHandler := handler.NewVendorHandler(dataSourceRouter)
	materialHandler := handler.NewMaterialHandler(dataSourceRouter)
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(dataSourceRouter)
	deliveryOrderHandler := handler.NewDeliveryOrderHandler(dataSourceRouter)
	transporterHandler := handler.NewTransporterHandler(dataSourceRouter)
	dataSourceAdminHandler := handler.NewDataSourceAdminHandler(adminService)
	systemHandler := handler.NewSystemHandler()

	// Setup gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies configuration", zap.Error(err))
		}
	}
	middleware.SetupValidator()

	// Middleware chain order matters:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	// 8. Tracing - Record spans (if enabled)
	// 9. Tenant - Resolve tenant context
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}

	// Tenant context from X-Tenant-ID header
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.Logger = log
	engine.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingAttributeInjector())
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.GET("/vendors", vendorHandler.List)
	partnerRoutes.GET("/vendors/batch", vendorHandler.GetByIDs)
	partnerRoutes.GET("/vendors/:id", vendorHandler.GetByID)
	partnerRoutes.GET("/transporters", transporterHandler.List)
	partnerRoutes.GET("/transporters/batch", transporterHandler.GetByIDs)
	partnerRoutes.GET("/transporters/:id", transporterHandler.GetByID)
	r.Register(partnerRoutes)

	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.GET("/materials", materialHandler.List)
	catalogRoutes.GET("/materials/batch", materialHandler.GetByIDs)
	catalogRoutes.GET("/materials/:id", materialHandler.GetByID)
	r.Register(catalogRoutes)

	tradeRoutes := router.NewDomainGroup("trade", "/trade")
	tradeRoutes.GET("/purchase-orders", purchaseOrderHandler.List)
	tradeRoutes.GET("/purchase-orders/by-vendor/:vendorId", purchaseOrderHandler.ListByVendor)
	tradeRoutes.GET("/purchase-orders/:id", purchaseOrderHandler.GetByID)
	tradeRoutes.GET("/delivery-orders", deliveryOrderHandler.List)
	tradeRoutes.GET("/delivery-orders/by-vendor/:vendorId", deliveryOrderHandler.ListByVendor)
	tradeRoutes.GET("/delivery-orders/:id", deliveryOrderHandler.GetByID)
	r.Register(tradeRoutes)

	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.GET("/datasource", dataSourceAdminHandler.GetStatus)
	adminRoutes.PUT("/datasource", dataSourceAdminHandler.Configure)
	adminRoutes.POST("/datasource/test", dataSourceAdminHandler.TestConnection)
	r.Register(adminRoutes)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := poolManager.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down external connection pools", zap.Error(err))
	}
	if err := recordCache.Close(); err != nil {
		log.Error("Error closing cache", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
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
