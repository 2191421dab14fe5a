// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"billbook/internal/core/apperror"
	"billbook/internal/core/id"
	"billbook/internal/domain"
	"billbook/internal/domain/documents/salesinvoice"
	"billbook/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ salesinvoice.Repository = (*SalesInvoiceRepo)(nil)

var (
	invoiceColumns = postgres.ExtractDBColumns[salesinvoice.SalesInvoice]()
	lineColumns    = postgres.ExtractDBColumns[salesinvoice.Line]()
)

// SalesInvoiceRepo is the PostgreSQL repository for sales invoices.
// Headers live in sales_invoices, lines in sales_invoice_lines. Lines are
// always replaced as a whole set, never patched row by row.
type SalesInvoiceRepo struct {
	txManager *postgres.TxManager
	inserter  *postgres.BatchInserter
}

// NewSalesInvoiceRepo creates a sales invoice repository.
func NewSalesInvoiceRepo(txManager *postgres.TxManager) *SalesInvoiceRepo {
	return &SalesInvoiceRepo{
		txManager: txManager,
		inserter:  postgres.NewBatchInserter(txManager),
	}
}

func (r *SalesInvoiceRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *SalesInvoiceRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(invoiceColumns...).
		From("sales_invoices")
}

// Create inserts the invoice header.
func (r *SalesInvoiceRepo) Create(ctx context.Context, inv *salesinvoice.SalesInvoice) error {
	q := r.builder().
		Insert("sales_invoices").
		SetMap(postgres.StructToMap(inv))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sales_invoices: %w", err)
	}

	return nil
}

// GetByID retrieves the invoice header.
func (r *SalesInvoiceRepo) GetByID(ctx context.Context, invID id.ID) (*salesinvoice.SalesInvoice, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": invID}), invID.String())
}

// GetByNumber retrieves the invoice header by invoice number.
func (r *SalesInvoiceRepo) GetByNumber(ctx context.Context, number string) (*salesinvoice.SalesInvoice, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"invoice_number": number}), number)
}

// GetForUpdate retrieves the header with an exclusive row lock.
// Must be called inside a transaction.
func (r *SalesInvoiceRepo) GetForUpdate(ctx context.Context, invID id.ID) (*salesinvoice.SalesInvoice, error) {
	if r.txManager.GetTx(ctx) == nil {
		return nil, fmt.Errorf("GetForUpdate requires transaction context")
	}
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": invID}).Suffix("FOR UPDATE"), invID.String())
}

func (r *SalesInvoiceRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*salesinvoice.SalesInvoice, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	inv := &salesinvoice.SalesInvoice{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), inv, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sales invoice", key)
		}
		return nil, fmt.Errorf("get sales invoice: %w", err)
	}

	return inv, nil
}

// Update writes header fields with optimistic locking.
func (r *SalesInvoiceRepo) Update(ctx context.Context, inv *salesinvoice.SalesInvoice) error {
	data := postgres.StructToMap(inv)
	delete(data, "id")
	delete(data, "version")

	q := r.builder().
		Update("sales_invoices").
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": inv.ID}).
		Where(squirrel.Eq{"version": inv.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update sales_invoices: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("sales invoice", inv.ID.String())
	}

	return nil
}

// SetStatus updates only the status column.
func (r *SalesInvoiceRepo) SetStatus(ctx context.Context, invID id.ID, status salesinvoice.Status) error {
	q := r.builder().
		Update("sales_invoices").
		Set("status", status).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": invID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("sales invoice", invID.String())
	}

	return nil
}

// Delete removes the invoice lines and header.
func (r *SalesInvoiceRepo) Delete(ctx context.Context, invID id.ID) error {
	querier := r.txManager.GetQuerier(ctx)

	lineSQL, lineArgs, err := r.builder().
		Delete("sales_invoice_lines").
		Where(squirrel.Eq{"invoice_id": invID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}
	if _, err := querier.Exec(ctx, lineSQL, lineArgs...); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}

	headerSQL, headerArgs, err := r.builder().
		Delete("sales_invoices").
		Where(squirrel.Eq{"id": invID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete header: %w", err)
	}

	result, err := querier.Exec(ctx, headerSQL, headerArgs...)
	if err != nil {
		return fmt.Errorf("delete sales_invoices: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("sales invoice", invID.String())
	}

	return nil
}

// GetLines returns lines in line order.
func (r *SalesInvoiceRepo) GetLines(ctx context.Context, invID id.ID) ([]salesinvoice.Line, error) {
	q := r.builder().
		Select(lineColumns...).
		From("sales_invoice_lines").
		Where(squirrel.Eq{"invoice_id": invID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []salesinvoice.Line
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// ReplaceLines deletes all lines for the invoice and inserts the given set.
// Requires an active transaction.
func (r *SalesInvoiceRepo) ReplaceLines(ctx context.Context, invID id.ID, lines []salesinvoice.Line) error {
	if r.txManager.GetTx(ctx) == nil {
		return fmt.Errorf("ReplaceLines requires transaction context")
	}

	delSQL, delArgs, err := r.builder().
		Delete("sales_invoice_lines").
		Where(squirrel.Eq{"invoice_id": invID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, []any{
			line.LineID,
			line.InvoiceID,
			line.LineNo,
			line.ProductID,
			line.HSNCode,
			line.Quantity,
			line.UnitPrice,
			line.TaxableValue,
			line.GSTRate,
			line.CGSTAmount,
			line.SGSTAmount,
			line.IGSTAmount,
			line.LineTotal,
		})
	}

	copied, err := r.inserter.CopyFromSlice(ctx, "sales_invoice_lines", lineColumns, rows)
	if err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}
	if copied != int64(len(lines)) {
		return fmt.Errorf("insert lines: copied %d of %d rows", copied, len(lines))
	}

	return nil
}

// List retrieves invoice headers with filtering and pagination.
func (r *SalesInvoiceRepo) List(ctx context.Context, filter salesinvoice.ListFilter) (domain.ListResult[*salesinvoice.SalesInvoice], error) {
	result := domain.ListResult[*salesinvoice.SalesInvoice]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"invoice_number": "%" + filter.Search + "%"})
	}
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}
	if filter.CompanyID != nil {
		q = q.Where(squirrel.Eq{"company_id": *filter.CompanyID})
	}
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	countQ := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("date DESC", "invoice_number DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list invoices: %w", err)
	}

	return result, nil
}
