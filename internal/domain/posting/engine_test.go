package posting

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billbook/internal/core/apperror"
	"billbook/internal/core/entity"
	"billbook/internal/core/id"
	"billbook/internal/core/types"
	"billbook/internal/domain/registers/inventory"
	"billbook/internal/domain/registers/ledger"
)

// --- fakes ---

type stockKey struct {
	productID id.ID
	companyID id.ID
}

type fakeStockRepo struct {
	items     map[stockKey]*entity.StockItem
	movements []entity.StockMovement
	lockCalls int
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{items: make(map[stockKey]*entity.StockItem)}
}

func (f *fakeStockRepo) addItem(productID, companyID id.ID, stock types.Quantity, allowNegative bool) {
	f.items[stockKey{productID, companyID}] = &entity.StockItem{
		ProductID:     productID,
		CompanyID:     companyID,
		CurrentStock:  stock,
		AllowNegative: allowNegative,
	}
}

func (f *fakeStockRepo) CreateStockItem(ctx context.Context, item *entity.StockItem) error {
	f.items[stockKey{item.ProductID, item.CompanyID}] = item
	return nil
}

func (f *fakeStockRepo) GetStockItem(ctx context.Context, productID, companyID id.ID) (entity.StockItem, error) {
	item, ok := f.items[stockKey{productID, companyID}]
	if !ok {
		return entity.StockItem{}, apperror.NewNotFound("stock item", productID.String())
	}
	return *item, nil
}

func (f *fakeStockRepo) GetStockItemForUpdate(ctx context.Context, productID, companyID id.ID) (entity.StockItem, error) {
	f.lockCalls++
	return f.GetStockItem(ctx, productID, companyID)
}

func (f *fakeStockRepo) AdjustStock(ctx context.Context, productID, companyID id.ID, delta types.Quantity) error {
	item, ok := f.items[stockKey{productID, companyID}]
	if !ok {
		return apperror.NewNotFound("stock item", productID.String())
	}
	item.CurrentStock += delta
	return nil
}

func (f *fakeStockRepo) UpdateStockItem(ctx context.Context, item *entity.StockItem) error {
	return nil
}

func (f *fakeStockRepo) ListStockByCompany(ctx context.Context, companyID id.ID, filter inventory.StockFilter) ([]entity.StockItem, error) {
	return nil, nil
}

func (f *fakeStockRepo) AppendMovements(ctx context.Context, movements []entity.StockMovement) error {
	f.movements = append(f.movements, movements...)
	return nil
}

func (f *fakeStockRepo) GetMovementsBySource(ctx context.Context, sourceID id.ID) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, m := range f.movements {
		if m.SourceID == sourceID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStockRepo) GetMovementHistory(ctx context.Context, productID, companyID id.ID, filter inventory.MovementFilter) ([]entity.StockMovement, error) {
	return nil, nil
}

func (f *fakeStockRepo) BalanceFromLog(ctx context.Context, productID, companyID id.ID) (types.Quantity, error) {
	var sum types.Quantity
	for _, m := range f.movements {
		if m.ProductID == productID && m.CompanyID == companyID {
			sum += m.QuantityChange
		}
	}
	return sum, nil
}

type fakeLedgerRepo struct {
	entries []entity.CustomerLedgerEntry
}

func (f *fakeLedgerRepo) Append(ctx context.Context, entry entity.CustomerLedgerEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeLedgerRepo) ListByCustomer(ctx context.Context, customerID id.ID, filter ledger.Filter) ([]entity.CustomerLedgerEntry, error) {
	return nil, nil
}

func (f *fakeLedgerRepo) GetByReference(ctx context.Context, referenceID id.ID) ([]entity.CustomerLedgerEntry, error) {
	var out []entity.CustomerLedgerEntry
	for _, e := range f.entries {
		if e.ReferenceID == referenceID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) GetBalance(ctx context.Context, customerID id.ID) (ledger.Balance, error) {
	b := ledger.Balance{
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

// fakeDocument is a minimal posting.Document for engine tests.
type fakeDocument struct {
	docID      id.ID
	number     string
	companyID  id.ID
	customerID id.ID
	date       time.Time
	total      types.Money
	effects    []StockEffect
}

func (d *fakeDocument) GetID() id.ID                { return d.docID }
func (d *fakeDocument) GetNumber() string           { return d.number }
func (d *fakeDocument) GetCompanyID() id.ID         { return d.companyID }
func (d *fakeDocument) GetCustomerID() id.ID        { return d.customerID }
func (d *fakeDocument) GetDate() time.Time          { return d.date }
func (d *fakeDocument) GetTotalAmount() types.Money { return d.total }
func (d *fakeDocument) StockEffects() []StockEffect { return d.effects }

// --- tests ---

func TestEngine_PostThenCancel_RoundTrip(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStockRepo()
	ledgerRepo := &fakeLedgerRepo{}
	engine := NewEngine(stock, ledgerRepo)

	productID := id.New()
	companyID := id.New()
	customerID := id.New()
	stock.addItem(productID, companyID, types.NewQuantityFromFloat64(10), false)

	doc := &fakeDocument{
		docID:      id.New(),
		number:     "INV-2026-00001",
		companyID:  companyID,
		customerID: customerID,
		date:       time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		total:      types.MustMoney("400"),
		effects: []StockEffect{
			{ProductID: productID, Quantity: types.NewQuantityFromFloat64(4)},
		},
	}

	// Post: stock 10 -> 6, customer debited 400
	require.NoError(t, engine.Apply(ctx, doc, DirectionPost))

	item, err := stock.GetStockItem(ctx, productID, companyID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(6), item.CurrentStock)

	balance, err := ledgerRepo.GetBalance(ctx, customerID)
	require.NoError(t, err)
	assert.True(t, balance.Outstanding.Equal(types.MustMoney("400")))

	// Cancel: stock back to 10, outstanding back to zero
	require.NoError(t, engine.Apply(ctx, doc, DirectionCancel))

	item, err = stock.GetStockItem(ctx, productID, companyID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(10), item.CurrentStock)

	balance, err = ledgerRepo.GetBalance(ctx, customerID)
	require.NoError(t, err)
	assert.True(t, balance.Outstanding.IsZero())

	// Movement log carries both runs and sums to zero
	logSum, err := stock.BalanceFromLog(ctx, productID, companyID)
	require.NoError(t, err)
	assert.True(t, logSum.IsZero())
}

func TestEngine_Post_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStockRepo()
	ledgerRepo := &fakeLedgerRepo{}
	engine := NewEngine(stock, ledgerRepo)

	productID := id.New()
	companyID := id.New()
	stock.addItem(productID, companyID, types.NewQuantityFromFloat64(10), false)

	doc := &fakeDocument{
		docID:      id.New(),
		number:     "INV-2026-00002",
		companyID:  companyID,
		customerID: id.New(),
		date:       time.Now().UTC(),
		total:      types.MustMoney("1500"),
		effects: []StockEffect{
			{ProductID: productID, Quantity: types.NewQuantityFromFloat64(15)},
		},
	}

	err := engine.Apply(ctx, doc, DirectionPost)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Nothing was written
	item, err := stock.GetStockItem(ctx, productID, companyID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(10), item.CurrentStock)
	assert.Empty(t, stock.movements)
	assert.Empty(t, ledgerRepo.entries)
}

func TestEngine_Post_AllowNegative(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStockRepo()
	ledgerRepo := &fakeLedgerRepo{}
	engine := NewEngine(stock, ledgerRepo)

	productID := id.New()
	companyID := id.New()
	stock.addItem(productID, companyID, types.NewQuantityFromFloat64(2), true)

	doc := &fakeDocument{
		docID:      id.New(),
		number:     "INV-2026-00003",
		companyID:  companyID,
		customerID: id.New(),
		date:       time.Now().UTC(),
		total:      types.MustMoney("500"),
		effects: []StockEffect{
			{ProductID: productID, Quantity: types.NewQuantityFromFloat64(5)},
		},
	}

	require.NoError(t, engine.Apply(ctx, doc, DirectionPost))

	item, err := stock.GetStockItem(ctx, productID, companyID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(-3), item.CurrentStock)
}

func TestEngine_Cancel_SkipsStockGuard(t *testing.T) {
	// Cancellation restores stock, so the negative-inventory check never
	// applies and the locked read is not needed.
	ctx := context.Background()
	stock := newFakeStockRepo()
	ledgerRepo := &fakeLedgerRepo{}
	engine := NewEngine(stock, ledgerRepo)

	productID := id.New()
	companyID := id.New()
	stock.addItem(productID, companyID, types.NewQuantityFromFloat64(0), false)

	doc := &fakeDocument{
		docID:      id.New(),
		number:     "INV-2026-00004",
		companyID:  companyID,
		customerID: id.New(),
		date:       time.Now().UTC(),
		total:      types.MustMoney("100"),
		effects: []StockEffect{
			{ProductID: productID, Quantity: types.NewQuantityFromFloat64(1)},
		},
	}

	require.NoError(t, engine.Apply(ctx, doc, DirectionCancel))
	assert.Zero(t, stock.lockCalls)

	item, err := stock.GetStockItem(ctx, productID, companyID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(1), item.CurrentStock)
}

func TestEngine_MovementRowsPerLine(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStockRepo()
	ledgerRepo := &fakeLedgerRepo{}
	engine := NewEngine(stock, ledgerRepo)

	companyID := id.New()
	productA := id.New()
	productB := id.New()
	stock.addItem(productA, companyID, types.NewQuantityFromFloat64(10), false)
	stock.addItem(productB, companyID, types.NewQuantityFromFloat64(10), false)

	doc := &fakeDocument{
		docID:      id.New(),
		number:     "INV-2026-00005",
		companyID:  companyID,
		customerID: id.New(),
		date:       time.Now().UTC(),
		total:      types.MustMoney("300"),
		effects: []StockEffect{
			{ProductID: productA, Quantity: types.NewQuantityFromFloat64(2)},
			{ProductID: productB, Quantity: types.NewQuantityFromFloat64(3)},
		},
	}

	require.NoError(t, engine.Apply(ctx, doc, DirectionPost))

	movements, err := stock.GetMovementsBySource(ctx, doc.docID)
	require.NoError(t, err)
	require.Len(t, movements, 2)

	assert.Equal(t, productA, movements[0].ProductID)
	assert.Equal(t, types.NewQuantityFromFloat64(-2), movements[0].QuantityChange)
	assert.Equal(t, entity.MovementSourceSales, movements[0].SourceType)

	assert.Equal(t, productB, movements[1].ProductID)
	assert.Equal(t, types.NewQuantityFromFloat64(-3), movements[1].QuantityChange)

	require.NoError(t, engine.Apply(ctx, doc, DirectionCancel))

	movements, err = stock.GetMovementsBySource(ctx, doc.docID)
	require.NoError(t, err)
	require.Len(t, movements, 4)
	assert.Equal(t, entity.MovementSourceCancellation, movements[2].SourceType)
	assert.Equal(t, types.NewQuantityFromFloat64(2), movements[2].QuantityChange)
}

func TestEngine_LedgerEntries(t *testing.T) {
	ctx := context.Background()
	stock := newFakeStockRepo()
	ledgerRepo := &fakeLedgerRepo{}
	engine := NewEngine(stock, ledgerRepo)

	productID := id.New()
	companyID := id.New()
	customerID := id.New()
	stock.addItem(productID, companyID, types.NewQuantityFromFloat64(100), false)

	doc := &fakeDocument{
		docID:      id.New(),
		number:     "INV-2026-00042",
		companyID:  companyID,
		customerID: customerID,
		date:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		total:      types.MustMoney("1180.50"),
		effects: []StockEffect{
			{ProductID: productID, Quantity: types.NewQuantityFromFloat64(10)},
		},
	}

	require.NoError(t, engine.Apply(ctx, doc, DirectionPost))
	require.NoError(t, engine.Apply(ctx, doc, DirectionCancel))

	entries, err := ledgerRepo.GetByReference(ctx, doc.docID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	debit := entries[0]
	assert.Equal(t, entity.LedgerTransactionSales, debit.TransactionType)
	assert.True(t, debit.Debit.Equal(types.MustMoney("1180.50")))
	assert.True(t, debit.Credit.IsZero())
	assert.Equal(t, fmt.Sprintf("Posted Invoice No: %s", doc.number), debit.Description)
	assert.Equal(t, doc.date, debit.TransactionDate)

	credit := entries[1]
	assert.Equal(t, entity.LedgerTransactionReversal, credit.TransactionType)
	assert.True(t, credit.Debit.IsZero())
	assert.True(t, credit.Credit.Equal(types.MustMoney("1180.50")))
	assert.Equal(t, fmt.Sprintf("Cancelled Invoice No: %s", doc.number), credit.Description)
}

func TestEngine_MixedLines_FailureMidway(t *testing.T) {
	// Second line exceeds stock; the engine returns the error and leaves the
	// rest to the caller's rollback. The fake sees partial writes, which is
	// exactly why the real caller wraps the run in a transaction.
	ctx := context.Background()
	stock := newFakeStockRepo()
	ledgerRepo := &fakeLedgerRepo{}
	engine := NewEngine(stock, ledgerRepo)

	companyID := id.New()
	productA := id.New()
	productB := id.New()
	stock.addItem(productA, companyID, types.NewQuantityFromFloat64(10), false)
	stock.addItem(productB, companyID, types.NewQuantityFromFloat64(1), false)

	doc := &fakeDocument{
		docID:      id.New(),
		number:     "INV-2026-00006",
		companyID:  companyID,
		customerID: id.New(),
		date:       time.Now().UTC(),
		total:      types.MustMoney("999"),
		effects: []StockEffect{
			{ProductID: productA, Quantity: types.NewQuantityFromFloat64(2)},
			{ProductID: productB, Quantity: types.NewQuantityFromFloat64(5)},
		},
	}

	err := engine.Apply(ctx, doc, DirectionPost)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// No ledger row was appended after the failed line
	assert.Empty(t, ledgerRepo.entries)
}
