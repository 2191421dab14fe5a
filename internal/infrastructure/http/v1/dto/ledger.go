package dto

import (
	"time"

	"billbook/internal/core/entity"
	"billbook/internal/domain/registers/ledger"
)

// LedgerEntryResponse represents one customer ledger row.
type LedgerEntryResponse struct {
	EntryID         string    `json:"entryId"`
	CustomerID      string    `json:"customerId"`
	CompanyID       string    `json:"companyId"`
	TransactionType int16     `json:"transactionType"`
	ReferenceID     string    `json:"referenceId"`
	TransactionDate time.Time `json:"transactionDate"`
	Debit           string    `json:"debit"`
	Credit          string    `json:"credit"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FromLedgerEntry creates response from a ledger row.
func FromLedgerEntry(e entity.CustomerLedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:         e.EntryID.String(),
		CustomerID:      e.CustomerID.String(),
		CompanyID:       e.CompanyID.String(),
		TransactionType: int16(e.TransactionType),
		ReferenceID:     e.ReferenceID.String(),
		TransactionDate: e.TransactionDate,
		Debit:           e.Debit.String(),
		Credit:          e.Credit.String(),
		Description:     e.Description,
		CreatedAt:       e.CreatedAt,
	}
}

// StatementLineResponse is one statement row with running balance.
type StatementLineResponse struct {
	LedgerEntryResponse
	RunningBalance string `json:"runningBalance"`
}

// FromStatementLine creates response from a statement line.
func FromStatementLine(line ledger.StatementLine) StatementLineResponse {
	return StatementLineResponse{
		LedgerEntryResponse: FromLedgerEntry(line.CustomerLedgerEntry),
		RunningBalance:      line.RunningBalance.String(),
	}
}

// BalanceResponse holds aggregated totals for a customer.
type BalanceResponse struct {
	CustomerID  string `json:"customerId"`
	TotalDebit  string `json:"totalDebit"`
	TotalCredit string `json:"totalCredit"`
	Outstanding string `json:"outstanding"`
}

// FromBalance creates response from a balance.
func FromBalance(b ledger.Balance) BalanceResponse {
	return BalanceResponse{
		CustomerID:  b.CustomerID.String(),
		TotalDebit:  b.TotalDebit.String(),
		TotalCredit: b.TotalCredit.String(),
		Outstanding: b.Outstanding.String(),
	}
}
