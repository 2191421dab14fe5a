package salesinvoice

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billbook/internal/core/apperror"
	"billbook/internal/core/entity"
	"billbook/internal/core/id"
	"billbook/internal/core/types"
	"billbook/internal/domain"
	"billbook/internal/domain/posting"
	"billbook/internal/domain/registers/inventory"
	"billbook/internal/domain/registers/ledger"
	"billbook/pkg/numerator"
)

// --- fakes ---

// noopTxManager runs the function directly; the fakes below have no
// transactional behavior to coordinate.
type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeInvoiceRepo struct {
	invoices map[id.ID]*SalesInvoice
	lines    map[id.ID][]Line
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[id.ID]*SalesInvoice),
		lines:    make(map[id.ID][]Line),
	}
}

func (f *fakeInvoiceRepo) clone(inv *SalesInvoice) *SalesInvoice {
	cp := *inv
	cp.Lines = nil
	return &cp
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, inv *SalesInvoice) error {
	f.invoices[inv.ID] = f.clone(inv)
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, invID id.ID) (*SalesInvoice, error) {
	inv, ok := f.invoices[invID]
	if !ok {
		return nil, apperror.NewNotFound("sales invoice", invID.String())
	}
	return f.clone(inv), nil
}

func (f *fakeInvoiceRepo) GetByNumber(ctx context.Context, number string) (*SalesInvoice, error) {
	for _, inv := range f.invoices {
		if inv.Number == number {
			return f.clone(inv), nil
		}
	}
	return nil, apperror.NewNotFound("sales invoice", number)
}

func (f *fakeInvoiceRepo) Update(ctx context.Context, inv *SalesInvoice) error {
	if _, ok := f.invoices[inv.ID]; !ok {
		return apperror.NewNotFound("sales invoice", inv.ID.String())
	}
	f.invoices[inv.ID] = f.clone(inv)
	return nil
}

func (f *fakeInvoiceRepo) SetStatus(ctx context.Context, invID id.ID, status Status) error {
	inv, ok := f.invoices[invID]
	if !ok {
		return apperror.NewNotFound("sales invoice", invID.String())
	}
	inv.Status = status
	return nil
}

func (f *fakeInvoiceRepo) Delete(ctx context.Context, invID id.ID) error {
	if _, ok := f.invoices[invID]; !ok {
		return apperror.NewNotFound("sales invoice", invID.String())
	}
	delete(f.invoices, invID)
	delete(f.lines, invID)
	return nil
}

func (f *fakeInvoiceRepo) GetLines(ctx context.Context, invID id.ID) ([]Line, error) {
	return append([]Line(nil), f.lines[invID]...), nil
}

func (f *fakeInvoiceRepo) ReplaceLines(ctx context.Context, invID id.ID, lines []Line) error {
	f.lines[invID] = append([]Line(nil), lines...)
	return nil
}

func (f *fakeInvoiceRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*SalesInvoice], error) {
	return domain.ListResult[*SalesInvoice]{}, nil
}

func (f *fakeInvoiceRepo) GetForUpdate(ctx context.Context, invID id.ID) (*SalesInvoice, error) {
	return f.GetByID(ctx, invID)
}

type invStockKey struct {
	productID id.ID
	companyID id.ID
}

type stubStockRepo struct {
	items     map[invStockKey]*entity.StockItem
	movements []entity.StockMovement
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{items: make(map[invStockKey]*entity.StockItem)}
}

func (f *stubStockRepo) addItem(productID, companyID id.ID, stock types.Quantity) {
	f.items[invStockKey{productID, companyID}] = &entity.StockItem{
		ProductID:    productID,
		CompanyID:    companyID,
		CurrentStock: stock,
	}
}

func (f *stubStockRepo) CreateStockItem(ctx context.Context, item *entity.StockItem) error {
	f.items[invStockKey{item.ProductID, item.CompanyID}] = item
	return nil
}

func (f *stubStockRepo) GetStockItem(ctx context.Context, productID, companyID id.ID) (entity.StockItem, error) {
	item, ok := f.items[invStockKey{productID, companyID}]
	if !ok {
		return entity.StockItem{}, apperror.NewNotFound("stock item", productID.String())
	}
	return *item, nil
}

func (f *stubStockRepo) GetStockItemForUpdate(ctx context.Context, productID, companyID id.ID) (entity.StockItem, error) {
	return f.GetStockItem(ctx, productID, companyID)
}

func (f *stubStockRepo) AdjustStock(ctx context.Context, productID, companyID id.ID, delta types.Quantity) error {
	item, ok := f.items[invStockKey{productID, companyID}]
	if !ok {
		return apperror.NewNotFound("stock item", productID.String())
	}
	item.CurrentStock += delta
	return nil
}

func (f *stubStockRepo) UpdateStockItem(ctx context.Context, item *entity.StockItem) error { return nil }

func (f *stubStockRepo) ListStockByCompany(ctx context.Context, companyID id.ID, filter inventory.StockFilter) ([]entity.StockItem, error) {
	return nil, nil
}

func (f *stubStockRepo) AppendMovements(ctx context.Context, movements []entity.StockMovement) error {
	f.movements = append(f.movements, movements...)
	return nil
}

func (f *stubStockRepo) GetMovementsBySource(ctx context.Context, sourceID id.ID) ([]entity.StockMovement, error) {
	return nil, nil
}

func (f *stubStockRepo) GetMovementHistory(ctx context.Context, productID, companyID id.ID, filter inventory.MovementFilter) ([]entity.StockMovement, error) {
	return nil, nil
}

func (f *stubStockRepo) BalanceFromLog(ctx context.Context, productID, companyID id.ID) (types.Quantity, error) {
	return 0, nil
}

type stubLedgerRepo struct {
	entries []entity.CustomerLedgerEntry
}

func (f *stubLedgerRepo) Append(ctx context.Context, entry entity.CustomerLedgerEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *stubLedgerRepo) ListByCustomer(ctx context.Context, customerID id.ID, filter ledger.Filter) ([]entity.CustomerLedgerEntry, error) {
	return nil, nil
}

func (f *stubLedgerRepo) GetByReference(ctx context.Context, referenceID id.ID) ([]entity.CustomerLedgerEntry, error) {
	return nil, nil
}

func (f *stubLedgerRepo) GetBalance(ctx context.Context, customerID id.ID) (ledger.Balance, error) {
	return ledger.Balance{}, nil
}

type recordingAuditor struct {
	actions []string
}

func (a *recordingAuditor) Record(ctx context.Context, invoiceID id.ID, action string, changes map[string]any) error {
	a.actions = append(a.actions, action)
	return nil
}

// sequenceRow feeds the numerator an incrementing counter.
type sequenceRow struct {
	val int64
}

func (r *sequenceRow) Scan(dest ...any) error {
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = r.val
		}
	}
	return nil
}

type sequenceQuerier struct {
	current int64
}

func (q *sequenceQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.current++
	return &sequenceRow{val: q.current}
}

// --- test harness ---

type testEnv struct {
	service *Service
	repo    *fakeInvoiceRepo
	stock   *stubStockRepo
	ledger  *stubLedgerRepo
	auditor *recordingAuditor

	companyID  id.ID
	customerID id.ID
	productID  id.ID
}

func newTestEnv(t *testing.T, cfg Config) *testEnv {
	t.Helper()

	env := &testEnv{
		repo:       newFakeInvoiceRepo(),
		stock:      newStubStockRepo(),
		ledger:     &stubLedgerRepo{},
		auditor:    &recordingAuditor{},
		companyID:  id.New(),
		customerID: id.New(),
		productID:  id.New(),
	}
	env.stock.addItem(env.productID, env.companyID, types.NewQuantityFromFloat64(100))

	engine := posting.NewEngine(env.stock, env.ledger)
	num := numerator.New(&sequenceQuerier{})

	env.service = NewService(env.repo, engine, num, noopTxManager{}, env.auditor, cfg)
	return env
}

func (env *testEnv) newInvoice(qty float64) *SalesInvoice {
	inv := NewSalesInvoice(env.companyID, env.customerID)
	inv.AddLine(Line{
		ProductID: env.productID,
		Quantity:  types.NewQuantityFromFloat64(qty),
		UnitPrice: types.MustMoney("100"),
		LineTotal: types.MustMoney("100").Mul(types.NewMoney(qty)),
	})
	return inv
}

// --- tests ---

func TestService_Create_Draft(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	inv := env.newInvoice(4)
	require.NoError(t, env.service.Create(ctx, inv))

	assert.Equal(t, StatusDraft, inv.Status)
	assert.NotEmpty(t, inv.Number)
	assert.True(t, inv.TotalAmount.Equal(types.MustMoney("400")))

	// Draft: no stock or ledger effect yet
	item, err := env.stock.GetStockItem(ctx, env.productID, env.companyID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(100), item.CurrentStock)
	assert.Empty(t, env.ledger.entries)

	assert.Equal(t, []string{"create"}, env.auditor.actions)
}

func TestService_Create_AndPost(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	inv := env.newInvoice(4)
	inv.Status = StatusActive
	require.NoError(t, env.service.Create(ctx, inv))

	assert.Equal(t, StatusActive, inv.Status)

	item, err := env.stock.GetStockItem(ctx, env.productID, env.companyID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(96), item.CurrentStock)
	require.Len(t, env.ledger.entries, 1)
	assert.True(t, env.ledger.entries[0].Debit.Equal(types.MustMoney("400")))

	assert.Equal(t, []string{"create", "post"}, env.auditor.actions)
}

func TestService_Create_LinePolicyDrop(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	inv := env.newInvoice(2)
	// No product reference: dropped silently under the default policy
	inv.AddLine(Line{
		Quantity:  types.NewQuantityFromFloat64(1),
		LineTotal: types.MustMoney("9999"),
	})

	require.NoError(t, env.service.Create(ctx, inv))

	require.Len(t, inv.Lines, 1)
	assert.Equal(t, 1, inv.Lines[0].LineNo)
	assert.True(t, inv.TotalAmount.Equal(types.MustMoney("200")))
}

func TestService_Create_LinePolicyReject(t *testing.T) {
	env := newTestEnv(t, Config{LinePolicy: LinePolicyReject})
	ctx := context.Background()

	inv := env.newInvoice(2)
	inv.AddLine(Line{
		Quantity:  types.NewQuantityFromFloat64(1),
		LineTotal: types.MustMoney("50"),
	})

	err := env.service.Create(ctx, inv)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestService_PostThenCancel(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	inv := env.newInvoice(10)
	require.NoError(t, env.service.Create(ctx, inv))

	require.NoError(t, env.service.Post(ctx, inv.ID))

	got, err := env.service.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, got.Status)

	item, err := env.stock.GetStockItem(ctx, env.productID, env.companyID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(90), item.CurrentStock)

	require.NoError(t, env.service.Cancel(ctx, inv.ID))

	got, err = env.service.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)

	item, err = env.stock.GetStockItem(ctx, env.productID, env.companyID)
	require.NoError(t, err)
	assert.Equal(t, types.NewQuantityFromFloat64(100), item.CurrentStock)

	assert.Equal(t, []string{"create", "post", "cancel"}, env.auditor.actions)
}

func TestService_Post_OnlyFromDraft(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	inv := env.newInvoice(1)
	require.NoError(t, env.service.Create(ctx, inv))
	require.NoError(t, env.service.Post(ctx, inv.ID))

	// Posting twice is rejected
	err := env.service.Post(ctx, inv.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))

	// And a cancelled invoice is terminal
	require.NoError(t, env.service.Cancel(ctx, inv.ID))
	err = env.service.Post(ctx, inv.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestService_Cancel_OnlyFromActive(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	inv := env.newInvoice(1)
	require.NoError(t, env.service.Create(ctx, inv))

	err := env.service.Cancel(ctx, inv.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestService_Update_DraftOnly(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	inv := env.newInvoice(2)
	require.NoError(t, env.service.Create(ctx, inv))

	// Draft update is fine and replaces the line set
	updated := env.newInvoice(5)
	updated.ID = inv.ID
	updated.Version = inv.Version
	require.NoError(t, env.service.Update(ctx, updated))
	assert.True(t, updated.TotalAmount.Equal(types.MustMoney("500")))

	lines, err := env.repo.GetLines(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, types.NewQuantityFromFloat64(5), lines[0].Quantity)

	// After posting, updates are rejected
	require.NoError(t, env.service.Post(ctx, inv.ID))
	err = env.service.Update(ctx, updated)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestService_Delete_DraftOnly(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	inv := env.newInvoice(1)
	require.NoError(t, env.service.Create(ctx, inv))
	require.NoError(t, env.service.Post(ctx, inv.ID))

	err := env.service.Delete(ctx, inv.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))

	// A fresh draft can be deleted
	draft := env.newInvoice(1)
	require.NoError(t, env.service.Create(ctx, draft))
	require.NoError(t, env.service.Delete(ctx, draft.ID))

	_, err = env.service.GetByID(ctx, draft.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_Post_InsufficientStockKeepsDraft(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	inv := env.newInvoice(500)
	require.NoError(t, env.service.Create(ctx, inv))

	err := env.service.Post(ctx, inv.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	got, err := env.service.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, got.Status)
}

func TestService_Create_NumbersAreSequential(t *testing.T) {
	env := newTestEnv(t, DefaultConfig())
	ctx := context.Background()

	first := env.newInvoice(1)
	require.NoError(t, env.service.Create(ctx, first))

	second := env.newInvoice(1)
	require.NoError(t, env.service.Create(ctx, second))

	assert.NotEqual(t, first.Number, second.Number)
	year := time.Now().Year()
	assert.Contains(t, first.Number, "INV")
	assert.Contains(t, first.Number, time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006"))
}
