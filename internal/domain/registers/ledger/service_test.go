package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billbook/internal/core/entity"
	"billbook/internal/core/id"
	"billbook/internal/core/types"
)

type fakeRepo struct {
	entries []entity.CustomerLedgerEntry
}

func (f *fakeRepo) Append(ctx context.Context, entry entity.CustomerLedgerEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeRepo) ListByCustomer(ctx context.Context, customerID id.ID, filter Filter) ([]entity.CustomerLedgerEntry, error) {
	var out []entity.CustomerLedgerEntry
	for _, e := range f.entries {
		if e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetByReference(ctx context.Context, referenceID id.ID) ([]entity.CustomerLedgerEntry, error) {
	return nil, nil
}

func (f *fakeRepo) GetBalance(ctx context.Context, customerID id.ID) (Balance, error) {
	b := Balance{
		CustomerID:  customerID,
		TotalDebit:  types.ZeroMoney(),
		TotalCredit: types.ZeroMoney(),
	}
	for _, e := range f.entries {
		if e.CustomerID == customerID {
			b.TotalDebit = b.TotalDebit.Add(e.Debit)
			b.TotalCredit = b.TotalCredit.Add(e.Credit)
		}
	}
	b.Outstanding = b.TotalDebit.Sub(b.TotalCredit)
	return b, nil
}

func TestService_GetStatement_RunningBalance(t *testing.T) {
	customerID := id.New()
	companyID := id.New()
	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	repo := &fakeRepo{}
	repo.entries = append(repo.entries,
		entity.NewCustomerLedgerEntry(customerID, companyID,
			entity.LedgerTransactionSales, id.New(), date,
			types.MustMoney("500"), types.ZeroMoney(), "Posted Invoice No: INV-2026-00001"),
		entity.NewCustomerLedgerEntry(customerID, companyID,
			entity.LedgerTransactionSales, id.New(), date.AddDate(0, 0, 1),
			types.MustMoney("300"), types.ZeroMoney(), "Posted Invoice No: INV-2026-00002"),
		entity.NewCustomerLedgerEntry(customerID, companyID,
			entity.LedgerTransactionReversal, id.New(), date.AddDate(0, 0, 2),
			types.ZeroMoney(), types.MustMoney("500"), "Cancelled Invoice No: INV-2026-00001"),
	)

	svc := NewService(repo)
	lines, err := svc.GetStatement(context.Background(), customerID, Filter{})
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.True(t, lines[0].RunningBalance.Equal(types.MustMoney("500")))
	assert.True(t, lines[1].RunningBalance.Equal(types.MustMoney("800")))
	assert.True(t, lines[2].RunningBalance.Equal(types.MustMoney("300")))
}

func TestService_GetStatement_Empty(t *testing.T) {
	svc := NewService(&fakeRepo{})

	lines, err := svc.GetStatement(context.Background(), id.New(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestService_GetBalance(t *testing.T) {
	customerID := id.New()
	repo := &fakeRepo{}
	repo.entries = append(repo.entries,
		entity.NewCustomerLedgerEntry(customerID, id.New(),
			entity.LedgerTransactionSales, id.New(), time.Now(),
			types.MustMoney("1000"), types.ZeroMoney(), ""),
		entity.NewCustomerLedgerEntry(customerID, id.New(),
			entity.LedgerTransactionReversal, id.New(), time.Now(),
			types.ZeroMoney(), types.MustMoney("250"), ""),
	)

	svc := NewService(repo)
	balance, err := svc.GetBalance(context.Background(), customerID)
	require.NoError(t, err)

	assert.True(t, balance.TotalDebit.Equal(types.MustMoney("1000")))
	assert.True(t, balance.TotalCredit.Equal(types.MustMoney("250")))
	assert.True(t, balance.Outstanding.Equal(types.MustMoney("750")))
}
