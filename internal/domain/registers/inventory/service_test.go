package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billbook/internal/core/apperror"
	"billbook/internal/core/entity"
	"billbook/internal/core/id"
	"billbook/internal/core/types"
)

type fakeRepo struct {
	item      *entity.StockItem
	logSum    types.Quantity
	itemErr   error
	logErr    error
	updatedTo *entity.StockItem
}

func (f *fakeRepo) CreateStockItem(ctx context.Context, item *entity.StockItem) error { return nil }

func (f *fakeRepo) GetStockItem(ctx context.Context, productID, companyID id.ID) (entity.StockItem, error) {
	if f.itemErr != nil {
		return entity.StockItem{}, f.itemErr
	}
	return *f.item, nil
}

func (f *fakeRepo) GetStockItemForUpdate(ctx context.Context, productID, companyID id.ID) (entity.StockItem, error) {
	return f.GetStockItem(ctx, productID, companyID)
}

func (f *fakeRepo) AdjustStock(ctx context.Context, productID, companyID id.ID, delta types.Quantity) error {
	return nil
}

func (f *fakeRepo) UpdateStockItem(ctx context.Context, item *entity.StockItem) error {
	f.updatedTo = item
	return nil
}

func (f *fakeRepo) ListStockByCompany(ctx context.Context, companyID id.ID, filter StockFilter) ([]entity.StockItem, error) {
	return nil, nil
}

func (f *fakeRepo) AppendMovements(ctx context.Context, movements []entity.StockMovement) error {
	return nil
}

func (f *fakeRepo) GetMovementsBySource(ctx context.Context, sourceID id.ID) ([]entity.StockMovement, error) {
	return nil, nil
}

func (f *fakeRepo) GetMovementHistory(ctx context.Context, productID, companyID id.ID, filter MovementFilter) ([]entity.StockMovement, error) {
	return nil, nil
}

func (f *fakeRepo) BalanceFromLog(ctx context.Context, productID, companyID id.ID) (types.Quantity, error) {
	if f.logErr != nil {
		return 0, f.logErr
	}
	return f.logSum, nil
}

func TestService_AuditBalance_Consistent(t *testing.T) {
	productID := id.New()
	companyID := id.New()

	repo := &fakeRepo{
		item: &entity.StockItem{
			ProductID:    productID,
			CompanyID:    companyID,
			OpeningStock: types.NewQuantityFromFloat64(100),
			CurrentStock: types.NewQuantityFromFloat64(60),
		},
		logSum: types.NewQuantityFromFloat64(-40),
	}

	svc := NewService(repo)
	audit, err := svc.AuditBalance(context.Background(), productID, companyID)
	require.NoError(t, err)

	assert.True(t, audit.Consistent)
	assert.Equal(t, types.NewQuantityFromFloat64(60), audit.StoredBalance)
	assert.Equal(t, types.NewQuantityFromFloat64(60), audit.DerivedBalance)
}

func TestService_AuditBalance_Diverged(t *testing.T) {
	productID := id.New()
	companyID := id.New()

	repo := &fakeRepo{
		item: &entity.StockItem{
			ProductID:    productID,
			CompanyID:    companyID,
			OpeningStock: types.NewQuantityFromFloat64(100),
			CurrentStock: types.NewQuantityFromFloat64(55),
		},
		logSum: types.NewQuantityFromFloat64(-40),
	}

	svc := NewService(repo)
	audit, err := svc.AuditBalance(context.Background(), productID, companyID)
	require.NoError(t, err)

	assert.False(t, audit.Consistent)
	assert.Equal(t, types.NewQuantityFromFloat64(55), audit.StoredBalance)
	assert.Equal(t, types.NewQuantityFromFloat64(60), audit.DerivedBalance)
}

func TestService_GetStock_NotFound(t *testing.T) {
	repo := &fakeRepo{itemErr: apperror.NewNotFound("stock item", "x")}
	svc := NewService(repo)

	_, err := svc.GetStock(context.Background(), id.New(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}
