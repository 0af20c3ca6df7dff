// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/ravikhokle/oddostock/internal/app"
	appctx "github.com/ravikhokle/oddostock/internal/core/context"
	"github.com/ravikhokle/oddostock/internal/infrastructure/http/v1/handlers"
	"github.com/ravikhokle/oddostock/internal/infrastructure/http/v1/middleware"
	"github.com/ravikhokle/oddostock/internal/infrastructure/storage"
	"github.com/ravikhokle/oddostock/pkg/logger"
)

// Operator roles carried in access tokens.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleOperator = "operator"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	AppName string
	Version string

	// Logger for request logging
	Logger *logger.Logger

	// Services are the domain services behind the handlers
	Services *app.Services

	// Backend provides health checks, the audit trail and the idempotency store
	Backend *storage.Backend

	// JWTValidator for token validation. When nil every request acts as DevUser.
	JWTValidator middleware.JWTValidator

	// DevUser is the operator used without token validation
	DevUser *appctx.UserContext

	// ReleaseMode switches gin to release mode
	ReleaseMode bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.DevUser == nil {
		cfg.DevUser = &appctx.UserContext{}
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(handlers.HealthConfig{
		App:     cfg.AppName,
		Version: cfg.Version,
		Driver:  cfg.Backend.Driver,
		Storage: cfg.Backend,
		Pool:    cfg.Backend.Pool,
	})
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		if cfg.JWTValidator != nil {
			protected.Use(middleware.Auth(cfg.JWTValidator))
		} else {
			protected.Use(middleware.StaticUser(cfg.DevUser))
		}

		// Idempotency must wrap an inner ErrorHandler so error bodies are captured for replay.
		if cfg.Backend.Idempotency != nil {
			protected.Use(middleware.Idempotency(cfg.Backend.Idempotency))
		}
		protected.Use(middleware.ErrorHandler())

		registerCatalogRoutes(protected, cfg)
		registerDocumentRoutes(protected, cfg)
		registerStockRoutes(protected, cfg)
		registerReportRoutes(protected, cfg)
	}

	return router
}

// registerCatalogRoutes registers product, warehouse and location endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	svc := cfg.Services

	// --- PRODUCTS ---
	{
		handler := handlers.NewProductHandler(baseHandler, svc.Products)
		products := rg.Group("/products")
		RegisterCatalogRoutes(products, handler)
		products.GET("/sku/:sku", handler.GetBySKU)
	}

	// --- WAREHOUSES ---
	locationHandler := handlers.NewLocationHandler(baseHandler, svc.Locations)
	{
		handler := handlers.NewWarehouseHandler(baseHandler, svc.Warehouses)
		warehouses := rg.Group("/warehouses")
		RegisterCatalogRoutes(warehouses, handler)
		warehouses.GET("/:id/locations", locationHandler.ListByWarehouse)
	}

	// --- LOCATIONS ---
	RegisterCatalogRoutes(rg.Group("/locations"), locationHandler)
}

// registerDocumentRoutes registers receipt, delivery, transfer and adjustment endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	svc := cfg.Services

	// --- RECEIPTS ---
	RegisterDocumentRoutes(rg.Group("/receipts"), handlers.NewReceiptHandler(baseHandler, svc.Receipts))

	// --- DELIVERIES ---
	{
		handler := handlers.NewDeliveryHandler(baseHandler, svc.Deliveries)
		deliveries := rg.Group("/deliveries")
		RegisterDocumentRoutes(deliveries, handler)
		deliveries.POST("/:id/pick", handler.Pick)
		deliveries.POST("/:id/pack", handler.Pack)
	}

	// --- TRANSFERS ---
	{
		handler := handlers.NewTransferHandler(baseHandler, svc.Transfers)
		transfers := rg.Group("/transfers")
		RegisterDocumentRoutes(transfers, handler)
		transfers.POST("/:id/dispatch", handler.Dispatch)
	}

	// --- ADJUSTMENTS ---
	RegisterDocumentRoutes(rg.Group("/adjustments"), handlers.NewAdjustmentHandler(baseHandler, svc.Adjustments))
}

// registerStockRoutes registers stock level and ledger endpoints.
func registerStockRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	stockHandler := handlers.NewStockHandler(baseHandler, cfg.Services.Stock)
	stock := rg.Group("/stock")
	{
		stock.GET("/level", stockHandler.GetLevel)
		stock.GET("/levels", stockHandler.Levels)
		stock.GET("/low", stockHandler.LowStock)
		stock.GET("/out-of-stock", stockHandler.OutOfStock)
		stock.GET("/value", stockHandler.Value)
		stock.GET("/products/:id", stockHandler.ProductBreakdown)
		stock.GET("/warehouses/:id", stockHandler.WarehouseStock)
	}

	ledgerHandler := handlers.NewLedgerHandler(baseHandler, cfg.Services.Stock)
	ledger := rg.Group("/ledger")
	{
		ledger.GET("", ledgerHandler.History)
		ledger.GET("/export", ledgerHandler.Export)
	}
	rg.GET("/products/:id/history", ledgerHandler.ProductHistory)
}

// registerReportRoutes registers dashboard and audit endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	reportsHandler := handlers.NewReportsHandler(baseHandler, cfg.Services.Reports)
	rg.GET("/reports/dashboard", reportsHandler.GetDashboard)

	auditHandler := handlers.NewAuditHandler(baseHandler, cfg.Backend.Audit)
	rg.GET("/audit/:id", middleware.RequireRole(RoleAdmin, RoleManager), auditHandler.History)
}
