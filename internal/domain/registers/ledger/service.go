// Package ledger provides the customer ledger service.
package ledger

import (
	"context"
	"fmt"

	"billbook/internal/core/entity"
	"billbook/internal/core/id"
	"billbook/internal/core/types"
)

// Service provides read surfaces over the customer ledger.
// Writes go through the posting engine inside the caller-owned transaction.
type Service struct {
	repo Repository
}

// NewService creates a new customer ledger service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// StatementLine is one ledger row with a running balance.
type StatementLine struct {
	entity.CustomerLedgerEntry
	RunningBalance types.Money `json:"runningBalance"`
}

// GetStatement returns the customer's ledger rows with running
// debit-minus-credit balances, oldest first.
func (s *Service) GetStatement(ctx context.Context, customerID id.ID, filter Filter) ([]StatementLine, error) {
	entries, err := s.repo.ListByCustomer(ctx, customerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}

	lines := make([]StatementLine, 0, len(entries))
	running := types.ZeroMoney()
	for _, e := range entries {
		running = running.Add(e.Debit).Sub(e.Credit)
		lines = append(lines, StatementLine{
			CustomerLedgerEntry: e,
			RunningBalance:      running,
		})
	}

	return lines, nil
}

// GetBalance returns aggregated totals for one customer.
func (s *Service) GetBalance(ctx context.Context, customerID id.ID) (Balance, error) {
	return s.repo.GetBalance(ctx, customerID)
}

// GetByReference returns all rows referencing one document.
func (s *Service) GetByReference(ctx context.Context, referenceID id.ID) ([]entity.CustomerLedgerEntry, error) {
	return s.repo.GetByReference(ctx, referenceID)
}
