package salesinvoice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billbook/internal/core/apperror"
	"billbook/internal/core/id"
	"billbook/internal/core/types"
)

func validInvoice() *SalesInvoice {
	inv := NewSalesInvoice(id.New(), id.New())
	inv.AddLine(Line{
		ProductID: id.New(),
		Quantity:  types.NewQuantityFromFloat64(2),
		UnitPrice: types.MustMoney("50"),
		LineTotal: types.MustMoney("100"),
	})
	inv.RecalculateTotal()
	return inv
}

func TestSalesInvoice_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validInvoice().Validate(ctx))
	})

	t.Run("missing customer", func(t *testing.T) {
		inv := validInvoice()
		inv.CustomerID = id.Nil()
		assert.Error(t, inv.Validate(ctx))
	})

	t.Run("missing company", func(t *testing.T) {
		inv := validInvoice()
		inv.CompanyID = id.Nil()
		assert.Error(t, inv.Validate(ctx))
	})

	t.Run("no lines", func(t *testing.T) {
		inv := NewSalesInvoice(id.New(), id.New())
		assert.Error(t, inv.Validate(ctx))
	})

	t.Run("unknown status", func(t *testing.T) {
		inv := validInvoice()
		inv.Status = Status("archived")
		assert.Error(t, inv.Validate(ctx))
	})

	t.Run("zero quantity line", func(t *testing.T) {
		inv := validInvoice()
		inv.Lines[0].Quantity = 0
		assert.Error(t, inv.Validate(ctx))
	})

	t.Run("negative amounts", func(t *testing.T) {
		inv := validInvoice()
		inv.Lines[0].UnitPrice = types.MustMoney("-1")
		assert.Error(t, inv.Validate(ctx))
	})

	t.Run("line without product", func(t *testing.T) {
		inv := validInvoice()
		inv.Lines[0].ProductID = id.Nil()
		assert.Error(t, inv.Validate(ctx))
	})
}

func TestSalesInvoice_AddLineRenumbers(t *testing.T) {
	inv := NewSalesInvoice(id.New(), id.New())
	for i := 0; i < 3; i++ {
		inv.AddLine(Line{
			ProductID: id.New(),
			Quantity:  types.NewQuantityFromFloat64(1),
			LineTotal: types.MustMoney("10"),
		})
	}

	require.Len(t, inv.Lines, 3)
	for i, line := range inv.Lines {
		assert.Equal(t, i+1, line.LineNo)
		assert.Equal(t, inv.ID, line.InvoiceID)
		assert.False(t, id.IsNil(line.LineID))
	}
}

func TestSalesInvoice_RecalculateTotal(t *testing.T) {
	inv := NewSalesInvoice(id.New(), id.New())
	inv.AddLine(Line{ProductID: id.New(), Quantity: types.NewQuantityFromFloat64(1), LineTotal: types.MustMoney("118.00")})
	inv.AddLine(Line{ProductID: id.New(), Quantity: types.NewQuantityFromFloat64(2), LineTotal: types.MustMoney("236.50")})

	inv.RecalculateTotal()
	assert.True(t, inv.TotalAmount.Equal(types.MustMoney("354.50")))
}

func TestSalesInvoice_StateGuards(t *testing.T) {
	inv := validInvoice()

	// Draft: modify and post allowed, cancel not
	assert.NoError(t, inv.CanModify())
	assert.NoError(t, inv.CanPost())
	assert.True(t, apperror.IsInvalidState(inv.CanCancel()))

	// Active: only cancel allowed
	inv.Status = StatusActive
	assert.True(t, apperror.IsInvalidState(inv.CanModify()))
	assert.True(t, apperror.IsInvalidState(inv.CanPost()))
	assert.NoError(t, inv.CanCancel())

	// Cancelled: terminal
	inv.Status = StatusCancelled
	assert.True(t, apperror.IsInvalidState(inv.CanModify()))
	assert.True(t, apperror.IsInvalidState(inv.CanPost()))
	assert.True(t, apperror.IsInvalidState(inv.CanCancel()))
}

func TestSalesInvoice_StockEffects(t *testing.T) {
	inv := validInvoice()
	inv.AddLine(Line{
		ProductID: id.New(),
		Quantity:  types.NewQuantityFromFloat64(7),
		LineTotal: types.MustMoney("70"),
	})

	effects := inv.StockEffects()
	require.Len(t, effects, 2)
	assert.Equal(t, inv.Lines[0].ProductID, effects[0].ProductID)
	assert.Equal(t, types.NewQuantityFromFloat64(2), effects[0].Quantity)
	assert.Equal(t, types.NewQuantityFromFloat64(7), effects[1].Quantity)
}
