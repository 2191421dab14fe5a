// Package main is the entry point for the billbook API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"billbook/internal/core/id"
	"billbook/internal/domain/auth"
	"billbook/internal/domain/catalogs/company"
	"billbook/internal/domain/catalogs/customer"
	"billbook/internal/domain/catalogs/product"
	"billbook/internal/domain/documents/salesinvoice"
	"billbook/internal/domain/posting"
	"billbook/internal/domain/registers/inventory"
	"billbook/internal/domain/registers/ledger"
	v1 "billbook/internal/infrastructure/http/v1"
	"billbook/internal/infrastructure/storage/postgres"
	"billbook/internal/infrastructure/storage/postgres/auth_repo"
	"billbook/internal/infrastructure/storage/postgres/catalog_repo"
	"billbook/internal/infrastructure/storage/postgres/document_repo"
	"billbook/internal/infrastructure/storage/postgres/register_repo"
	"billbook/pkg/logger"
	"billbook/pkg/numerator"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting billbook server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Numbering ---
	numeratorService := numerator.New(pool)

	// --- Repositories ---
	companyRepo := catalog_repo.NewCompanyRepo(txManager)
	customerRepo := catalog_repo.NewCustomerRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	inventoryRepo := register_repo.NewInventoryRepo(txManager)
	ledgerRepo := register_repo.NewLedgerRepo(txManager)
	invoiceRepo := document_repo.NewSalesInvoiceRepo(txManager)
	employeeRepo := auth_repo.NewEmployeeRepo(txManager)

	// --- Audit ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- JWT and Auth ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))
	authService := auth.NewService(employeeRepo, jwtService, txManager)

	// --- Domain services ---
	companyService := company.NewService(companyRepo, txManager, numeratorService)
	customerService := customer.NewService(customerRepo, txManager, numeratorService)
	productService := product.NewService(productRepo, inventoryRepo, txManager, numeratorService)

	inventoryService := inventory.NewService(inventoryRepo)
	ledgerService := ledger.NewService(ledgerRepo)

	postingEngine := posting.NewEngine(inventoryRepo, ledgerRepo)

	invoiceCfg := salesinvoice.DefaultConfig()
	if getEnv("INVOICE_LINE_POLICY", "drop") == "reject" {
		invoiceCfg.LinePolicy = salesinvoice.LinePolicyReject
	}

	invoiceService := salesinvoice.NewService(
		invoiceRepo,
		postingEngine,
		numeratorService,
		txManager,
		invoiceAuditor{audit: auditService},
		invoiceCfg,
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool,
		Logger:           log,
		JWTValidator:     jwtService,
		AuthService:      authService,
		CompanyService:   companyService,
		CustomerService:  customerService,
		ProductService:   productService,
		InvoiceService:   invoiceService,
		InventoryService: inventoryService,
		LedgerService:    ledgerService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// invoiceAuditor adapts the audit service to the invoice lifecycle hook.
type invoiceAuditor struct {
	audit *postgres.AuditService
}

func (a invoiceAuditor) Record(ctx context.Context, invoiceID id.ID, action string, changes map[string]any) error {
	return a.audit.LogChange(ctx, "sales_invoice", invoiceID, postgres.AuditAction(action), changes)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
