package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"billbook/internal/core/entity"
	"billbook/internal/core/id"
	"billbook/internal/domain/registers/ledger"
	"billbook/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ ledger.Repository = (*LedgerRepo)(nil)

var ledgerColumns = postgres.ExtractDBColumns[entity.CustomerLedgerEntry]()

// LedgerRepo is the PostgreSQL repository for the customer ledger.
// Rows are append-only; there is no update or delete path.
type LedgerRepo struct {
	txManager *postgres.TxManager
}

// NewLedgerRepo creates a customer ledger repository.
func NewLedgerRepo(txManager *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{txManager: txManager}
}

func (r *LedgerRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Append inserts one ledger row.
func (r *LedgerRepo) Append(ctx context.Context, entry entity.CustomerLedgerEntry) error {
	q := r.builder().
		Insert("customer_ledger").
		SetMap(postgres.StructToMap(entry))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert customer_ledger: %w", err)
	}

	return nil
}

// ListByCustomer returns ledger rows for one customer, oldest first.
func (r *LedgerRepo) ListByCustomer(ctx context.Context, customerID id.ID, filter ledger.Filter) ([]entity.CustomerLedgerEntry, error) {
	q := r.builder().
		Select(ledgerColumns...).
		From("customer_ledger").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("transaction_date", "created_at", "entry_id")

	if filter.CompanyID != nil {
		q = q.Where(squirrel.Eq{"company_id": *filter.CompanyID})
	}
	if filter.TransactionType != nil {
		q = q.Where(squirrel.Eq{"transaction_type": *filter.TransactionType})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"transaction_date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"transaction_date": *filter.ToDate})
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

	var entries []entity.CustomerLedgerEntry
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}

	return entries, nil
}

// GetByReference returns all rows referencing one document.
func (r *LedgerRepo) GetByReference(ctx context.Context, referenceID id.ID) ([]entity.CustomerLedgerEntry, error) {
	q := r.builder().
		Select(ledgerColumns...).
		From("customer_ledger").
		Where(squirrel.Eq{"reference_id": referenceID}).
		OrderBy("created_at", "entry_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []entity.CustomerLedgerEntry
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("get ledger by reference: %w", err)
	}

	return entries, nil
}

// GetBalance sums debit and credit for one customer.
func (r *LedgerRepo) GetBalance(ctx context.Context, customerID id.ID) (ledger.Balance, error) {
	balance := ledger.Balance{CustomerID: customerID}

	q := r.builder().
		Select(
			"COALESCE(SUM(debit), 0)",
			"COALESCE(SUM(credit), 0)",
		).
		From("customer_ledger").
		Where(squirrel.Eq{"customer_id": customerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return balance, fmt.Errorf("build query: %w", err)
	}

	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).
		Scan(&balance.TotalDebit, &balance.TotalCredit); err != nil {
		return balance, fmt.Errorf("get balance: %w", err)
	}

	balance.Outstanding = balance.TotalDebit.Sub(balance.TotalCredit)
	return balance, nil
}
