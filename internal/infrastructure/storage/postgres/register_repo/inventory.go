// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"billbook/internal/core/apperror"
	"billbook/internal/core/entity"
	"billbook/internal/core/id"
	"billbook/internal/core/types"
	"billbook/internal/domain/registers/inventory"
	"billbook/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ inventory.Repository = (*InventoryRepo)(nil)

var stockItemColumns = postgres.ExtractDBColumns[entity.StockItem]()

var movementColumns = postgres.ExtractDBColumns[entity.StockMovement]()

// InventoryRepo is the PostgreSQL repository for the stock register:
// balance rows in stock_items plus the append-only stock_movements log.
type InventoryRepo struct {
	txManager *postgres.TxManager
	inserter  *postgres.BatchInserter
}

// NewInventoryRepo creates an inventory repository.
func NewInventoryRepo(txManager *postgres.TxManager) *InventoryRepo {
	return &InventoryRepo{
		txManager: txManager,
		inserter:  postgres.NewBatchInserter(txManager),
	}
}

func (r *InventoryRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// CreateStockItem inserts the per-(company, product) balance row.
func (r *InventoryRepo) CreateStockItem(ctx context.Context, item *entity.StockItem) error {
	q := r.builder().
		Insert("stock_items").
		SetMap(postgres.StructToMap(item))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert stock_items: %w", err)
	}

	return nil
}

// GetStockItem returns the balance row for a (product, company) pair.
func (r *InventoryRepo) GetStockItem(ctx context.Context, productID, companyID id.ID) (entity.StockItem, error) {
	return r.getStockItem(ctx, productID, companyID, false)
}

// GetStockItemForUpdate returns the balance row with an exclusive row lock.
// Must be called inside a transaction.
func (r *InventoryRepo) GetStockItemForUpdate(ctx context.Context, productID, companyID id.ID) (entity.StockItem, error) {
	if r.txManager.GetTx(ctx) == nil {
		return entity.StockItem{}, fmt.Errorf("GetStockItemForUpdate requires transaction context")
	}
	return r.getStockItem(ctx, productID, companyID, true)
}

func (r *InventoryRepo) getStockItem(ctx context.Context, productID, companyID id.ID, forUpdate bool) (entity.StockItem, error) {
	var item entity.StockItem

	q := r.builder().
		Select(stockItemColumns...).
		From("stock_items").
		Where(squirrel.Eq{"product_id": productID, "company_id": companyID})

	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return item, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return item, apperror.NewNotFound("stock item", productID.String())
		}
		return item, fmt.Errorf("get stock item: %w", err)
	}

	return item, nil
}

// AdjustStock applies a relative change to current_stock.
// No dynamic SQL: one fixed statement covering both directions.
func (r *InventoryRepo) AdjustStock(ctx context.Context, productID, companyID id.ID, delta types.Quantity) error {
	q := r.builder().
		Update("stock_items").
		Set("current_stock", squirrel.Expr("current_stock + ?", delta)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"product_id": productID, "company_id": companyID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("stock item", productID.String())
	}

	return nil
}

// UpdateStockItem updates company-specific attributes of a balance row.
// The balance itself is only ever changed through AdjustStock.
func (r *InventoryRepo) UpdateStockItem(ctx context.Context, item *entity.StockItem) error {
	q := r.builder().
		Update("stock_items").
		Set("custom_sku", item.CustomSKU).
		Set("sales_price", item.SalesPrice).
		Set("purchase_price", item.PurchasePrice).
		Set("allow_negative", item.AllowNegative).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"product_id": item.ProductID, "company_id": item.CompanyID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update stock item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("stock item", item.ProductID.String())
	}

	return nil
}

// ListStockByCompany returns balance rows for one company.
func (r *InventoryRepo) ListStockByCompany(ctx context.Context, companyID id.ID, filter inventory.StockFilter) ([]entity.StockItem, error) {
	q := r.builder().
		Select(stockItemColumns...).
		From("stock_items").
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("custom_sku", "product_id")

	if len(filter.ProductIDs) > 0 {
		q = q.Where(squirrel.Eq{"product_id": filter.ProductIDs})
	}
	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"current_stock": 0})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []entity.StockItem
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}

	return items, nil
}

// AppendMovements bulk inserts movement rows via COPY.
// Requires an active transaction so the log and the balance commit together.
func (r *InventoryRepo) AppendMovements(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(movements))
	for _, m := range movements {
		rows = append(rows, []any{
			m.LineID,
			m.ProductID,
			m.CompanyID,
			m.SourceType,
			m.SourceID,
			m.QuantityChange,
			m.CreatedAt,
		})
	}

	copied, err := r.inserter.CopyFromSlice(ctx, "stock_movements", movementColumns, rows)
	if err != nil {
		return fmt.Errorf("append movements: %w", err)
	}
	if copied != int64(len(movements)) {
		return fmt.Errorf("append movements: copied %d of %d rows", copied, len(movements))
	}

	return nil
}

// GetMovementsBySource returns all movements recorded for one document.
func (r *InventoryRepo) GetMovementsBySource(ctx context.Context, sourceID id.ID) ([]entity.StockMovement, error) {
	q := r.builder().
		Select(movementColumns...).
		From("stock_movements").
		Where(squirrel.Eq{"source_id": sourceID}).
		OrderBy("created_at", "line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("get movements by source: %w", err)
	}

	return movements, nil
}

// GetMovementHistory returns the movement history for a product, newest first.
func (r *InventoryRepo) GetMovementHistory(ctx context.Context, productID, companyID id.ID, filter inventory.MovementFilter) ([]entity.StockMovement, error) {
	q := r.builder().
		Select(movementColumns...).
		From("stock_movements").
		Where(squirrel.Eq{"product_id": productID, "company_id": companyID}).
		OrderBy("created_at DESC", "line_id DESC")

	if filter.SourceType != nil {
		q = q.Where(squirrel.Eq{"source_type": *filter.SourceType})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.ToDate})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("get movement history: %w", err)
	}

	return movements, nil
}

// BalanceFromLog reconstructs the stock delta by summing the movement log.
func (r *InventoryRepo) BalanceFromLog(ctx context.Context, productID, companyID id.ID) (types.Quantity, error) {
	q := r.builder().
		Select("COALESCE(SUM(quantity_change), 0)").
		From("stock_movements").
		Where(squirrel.Eq{"product_id": productID, "company_id": companyID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var sum int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("balance from log: %w", err)
	}

	return types.NewQuantityFromInt64Scaled(sum), nil
}
