// Package inventory provides the stock ledger register: per-(company, product)
// balances plus the append-only movement log.
package inventory

import (
	"context"
	"time"

	"billbook/internal/core/entity"
	"billbook/internal/core/id"
	"billbook/internal/core/types"
)

// Repository defines operations for the stock register.
type Repository interface {
	// Stock item operations

	// CreateStockItem inserts the per-(company, product) balance row.
	// Called once, when the product is created.
	CreateStockItem(ctx context.Context, item *entity.StockItem) error

	// GetStockItem returns the current balance row
	GetStockItem(ctx context.Context, productID, companyID id.ID) (entity.StockItem, error)

	// GetStockItemForUpdate returns the balance row with an exclusive row lock.
	// Must be called inside a transaction; the lock is held to commit/rollback.
	GetStockItemForUpdate(ctx context.Context, productID, companyID id.ID) (entity.StockItem, error)

	// AdjustStock applies a relative change to current_stock.
	// The row must already exist; fails with NotFound otherwise.
	AdjustStock(ctx context.Context, productID, companyID id.ID, delta types.Quantity) error

	// UpdateStockItem updates company-specific attributes (SKU, prices, policy flag)
	UpdateStockItem(ctx context.Context, item *entity.StockItem) error

	// ListStockByCompany returns balance rows for one company
	ListStockByCompany(ctx context.Context, companyID id.ID, filter StockFilter) ([]entity.StockItem, error)

	// Movement log operations

	// AppendMovements batch inserts movement rows (append-only)
	AppendMovements(ctx context.Context, movements []entity.StockMovement) error

	// GetMovementsBySource returns all movements recorded for one document
	GetMovementsBySource(ctx context.Context, sourceID id.ID) ([]entity.StockMovement, error)

	// GetMovementHistory returns the movement history for a product
	GetMovementHistory(ctx context.Context, productID, companyID id.ID, filter MovementFilter) ([]entity.StockMovement, error)

	// BalanceFromLog reconstructs the balance by summing movement quantity
	// changes. Used to audit the stored balance against the log.
	BalanceFromLog(ctx context.Context, productID, companyID id.ID) (types.Quantity, error)
}

// StockFilter for filtering balance queries.
type StockFilter struct {
	ProductIDs  []id.ID
	ExcludeZero bool
	Limit       int
	Offset      int
}

// MovementFilter for filtering movement history.
type MovementFilter struct {
	SourceType *entity.MovementSource
	FromDate   *time.Time
	ToDate     *time.Time
	Limit      int
	Offset     int
}
