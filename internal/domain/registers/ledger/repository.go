// Package ledger provides the customer ledger register: append-only
// debit/credit rows per customer account.
package ledger

import (
	"context"
	"time"

	"billbook/internal/core/entity"
	"billbook/internal/core/id"
	"billbook/internal/core/types"
)

// Repository defines operations for the customer ledger.
type Repository interface {
	// Append inserts one ledger row (append-only, never updated or deleted)
	Append(ctx context.Context, entry entity.CustomerLedgerEntry) error

	// ListByCustomer returns ledger rows for one customer, oldest first
	ListByCustomer(ctx context.Context, customerID id.ID, filter Filter) ([]entity.CustomerLedgerEntry, error)

	// GetByReference returns all rows referencing one document
	GetByReference(ctx context.Context, referenceID id.ID) ([]entity.CustomerLedgerEntry, error)

	// GetBalance sums debit and credit for one customer
	GetBalance(ctx context.Context, customerID id.ID) (Balance, error)
}

// Filter for ledger statement queries.
type Filter struct {
	CompanyID       *id.ID
	TransactionType *entity.LedgerTransactionType
	FromDate        *time.Time
	ToDate          *time.Time
	Limit           int
	Offset          int
}

// Balance holds aggregated debit/credit totals for a customer.
// Outstanding = TotalDebit - TotalCredit.
type Balance struct {
	CustomerID  id.ID       `json:"customerId"`
	TotalDebit  types.Money `json:"totalDebit"`
	TotalCredit types.Money `json:"totalCredit"`
	Outstanding types.Money `json:"outstanding"`
}
