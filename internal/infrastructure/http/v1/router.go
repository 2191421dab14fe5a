package v1

import (
	"github.com/gin-gonic/gin"

	"billbook/internal/domain/auth"
	"billbook/internal/domain/catalogs/company"
	"billbook/internal/domain/catalogs/customer"
	"billbook/internal/domain/catalogs/product"
	"billbook/internal/domain/documents/salesinvoice"
	"billbook/internal/domain/registers/inventory"
	"billbook/internal/domain/registers/ledger"
	"billbook/internal/infrastructure/http/v1/handlers"
	"billbook/internal/infrastructure/http/v1/middleware"
	"billbook/internal/infrastructure/storage/postgres"
	"billbook/pkg/logger"
)

// RouterConfig holds everything the HTTP layer needs. Services are
// constructed once at startup and shared across requests.
type RouterConfig struct {
	// Pool is the database pool (health checks only; services carry
	// their own repositories)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	CompanyService  *company.Service
	CustomerService *customer.Service
	ProductService  *product.Service

	InvoiceService *salesinvoice.Service

	InventoryService *inventory.Service
	LedgerService    *ledger.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	api := router.Group("/api/v1")
	{
		registerAuthRoutes(api, cfg)

		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerCatalogRoutes(protected, cfg)
		registerDocumentRoutes(protected, cfg)
		registerRegisterRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required)
	publicAuth := rg.Group("/auth")

	// Protected auth endpoints (JWT required)
	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- COMPANIES ---
	{
		handler := handlers.NewCompanyHandler(baseHandler, cfg.CompanyService)
		RegisterCatalogRoutes(catalogs.Group("/companies"), handler)
	}

	// --- CUSTOMERS ---
	{
		handler := handlers.NewCustomerHandler(baseHandler, cfg.CustomerService)
		RegisterCatalogRoutes(catalogs.Group("/customers"), handler)
	}

	// --- PRODUCTS ---
	{
		handler := handlers.NewProductHandler(baseHandler, cfg.ProductService)
		RegisterCatalogRoutes(catalogs.Group("/products"), handler)
	}
}

// registerDocumentRoutes registers document endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	docs := rg.Group("/document")
	baseHandler := handlers.NewBaseHandler()

	// --- SALES INVOICES ---
	{
		handler := handlers.NewSalesInvoiceHandler(baseHandler, cfg.InvoiceService)
		RegisterInvoiceRoutes(docs.Group("/sales-invoices"), handler)
	}
}

// registerRegisterRoutes registers stock and ledger query endpoints.
func registerRegisterRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	registers := rg.Group("/registers")
	baseHandler := handlers.NewBaseHandler()

	// --- STOCK ---
	{
		handler := handlers.NewStockHandler(baseHandler, cfg.InventoryService)
		stock := registers.Group("/stock")
		stock.GET("/balances", handler.ListBalances)
		stock.GET("/balances/:productId", handler.GetBalance)
		stock.PUT("/balances/:productId", handler.UpdateAttributes)
		stock.GET("/movements/:productId", handler.GetMovements)
		stock.GET("/audit/:productId", handler.AuditBalance)
	}

	// --- CUSTOMER LEDGER ---
	{
		handler := handlers.NewLedgerHandler(baseHandler, cfg.LedgerService)
		ldg := registers.Group("/ledger")
		ldg.GET("/reference/:referenceId", handler.GetByReference)
		ldg.GET("/customers/:customerId/statement", handler.GetStatement)
		ldg.GET("/customers/:customerId/balance", handler.GetBalance)
	}
}
