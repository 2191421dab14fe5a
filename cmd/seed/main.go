// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"billbook/internal/core/id"
	"billbook/internal/core/types"
	"billbook/internal/infrastructure/storage/postgres"
	"billbook/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedAdminEmployee(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin employee", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminEmployee(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@billbook.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM employees WHERE email = $1`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin employee already exists", "email", adminEmail, "employee_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), 12)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	employeeID := id.New()
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO employees (id, email, password_hash, name, is_active, is_admin, version)
		VALUES ($1, $2, $3, 'Administrator', true, true, 1)
	`, employeeID, adminEmail, string(passwordHash))
	if err != nil {
		return fmt.Errorf("insert admin employee: %w", err)
	}

	log.Infow("admin employee created", "email", adminEmail, "employee_id", employeeID)
	return nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo data...")

	// 1. Company
	companyID := id.New()
	companyCode := "CO-001"
	tag, err := pool.Pool.Exec(ctx, `
		INSERT INTO companies (id, code, name, gstin, address, state_code, version, deletion_mark)
		VALUES ($1, $2, $3, $4, $5, $6, 1, false)
		ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
	`, companyID, companyCode, "Acme Trading Co", "27AAACA1234A1Z5", "12 Market Road, Pune", "27")
	if err != nil {
		return fmt.Errorf("seed company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		err = pool.Pool.QueryRow(ctx, `
			SELECT id FROM companies WHERE code = $1 AND deletion_mark = FALSE
		`, companyCode).Scan(&companyID)
		if err != nil {
			return fmt.Errorf("fetch existing company: %w", err)
		}
	}

	// 2. Customer
	customerID := id.New()
	customerCode := "CUST-001"
	tag, err = pool.Pool.Exec(ctx, `
		INSERT INTO customers (id, code, name, company_id, gstin, mobile, billing_address, state_code, version, deletion_mark)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, false)
		ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
	`, customerID, customerCode, "Sharma Electronics", companyID, "27BBBCB5678B1Z3", "9820012345", "4 MG Road, Mumbai", "27")
	if err != nil {
		return fmt.Errorf("seed customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		err = pool.Pool.QueryRow(ctx, `
			SELECT id FROM customers WHERE code = $1 AND deletion_mark = FALSE
		`, customerCode).Scan(&customerID)
		if err != nil {
			return fmt.Errorf("fetch existing customer: %w", err)
		}
	}

	// 3. Product with an opening stock row
	productID := id.New()
	productCode := "PRD-001"
	tag, err = pool.Pool.Exec(ctx, `
		INSERT INTO products (id, code, name, company_id, hsn_code, item_type, unit_code, gst_rate, version, deletion_mark)
		VALUES ($1, $2, $3, $4, $5, 'goods', 'pcs', $6, 1, false)
		ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
	`, productID, productCode, "LED Bulb 9W", companyID, "8539", types.MustMoney("18"))
	if err != nil {
		return fmt.Errorf("seed product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		err = pool.Pool.QueryRow(ctx, `
			SELECT id FROM products WHERE code = $1 AND deletion_mark = FALSE
		`, productCode).Scan(&productID)
		if err != nil {
			return fmt.Errorf("fetch existing product: %w", err)
		}
	}

	openingStock := types.NewQuantityFromFloat64(100)
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO stock_items (product_id, company_id, current_stock, opening_stock, custom_sku, sales_price, purchase_price, allow_negative, updated_at)
		VALUES ($1, $2, $3, $3, 'LED-9W', $4, $5, false, $6)
		ON CONFLICT (product_id, company_id) DO NOTHING
	`, productID, companyID, openingStock.Int64Scaled(), types.MustMoney("120"), types.MustMoney("85"), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("seed stock item: %w", err)
	}

	log.Infow("demo data seeded",
		"company_id", companyID,
		"customer_id", customerID,
		"product_id", productID,
	)
	return nil
}
