// Package posting provides the inventory and ledger posting engine.
// Given a document and a direction, it adjusts per-(company, product) stock
// under row locks, appends movement log rows, and appends one balancing
// customer ledger entry. The caller owns the transaction.
package posting

import (
	"context"
	"fmt"
	"time"

	"billbook/internal/core/apperror"
	"billbook/internal/core/entity"
	"billbook/internal/core/id"
	"billbook/internal/core/types"
	"billbook/internal/domain/registers/inventory"
	"billbook/internal/domain/registers/ledger"
	"billbook/pkg/logger"
)

// Direction of a posting run.
type Direction int

const (
	// DirectionPost applies the document's effect: stock down, customer debited
	DirectionPost Direction = iota
	// DirectionCancel reverses a prior post: stock restored, customer credited
	DirectionCancel
)

func (d Direction) String() string {
	if d == DirectionCancel {
		return "cancel"
	}
	return "post"
}

// movementSource maps the direction to the movement log source type code.
func (d Direction) movementSource() entity.MovementSource {
	if d == DirectionCancel {
		return entity.MovementSourceCancellation
	}
	return entity.MovementSourceSales
}

// ledgerType maps the direction to the customer ledger transaction type code.
func (d Direction) ledgerType() entity.LedgerTransactionType {
	if d == DirectionCancel {
		return entity.LedgerTransactionReversal
	}
	return entity.LedgerTransactionSales
}

// StockEffect is one line's contribution to the stock register.
// Quantity is the positive line quantity; the engine applies the sign.
type StockEffect struct {
	ProductID id.ID
	Quantity  types.Quantity
}

// Document is the view of a sales document the engine needs.
type Document interface {
	GetID() id.ID
	GetNumber() string
	GetCompanyID() id.ID
	GetCustomerID() id.ID
	GetDate() time.Time
	GetTotalAmount() types.Money

	// StockEffects returns per-line stock effects in line order.
	StockEffects() []StockEffect
}

// Engine applies a document's inventory and ledger effect.
type Engine struct {
	stock  inventory.Repository
	ledger ledger.Repository
}

// NewEngine creates a posting engine.
func NewEngine(stock inventory.Repository, ledgerRepo ledger.Repository) *Engine {
	return &Engine{
		stock:  stock,
		ledger: ledgerRepo,
	}
}

// Apply runs the full posting effect for the document in the given direction.
// Must be called inside a transaction owned by the lifecycle controller; any
// error leaves the transaction to be rolled back by the caller, so stock,
// movement log and customer ledger are never partially updated.
//
// Per line, in input order:
//  1. On POST, read the stock row with FOR UPDATE and enforce the
//     negative-inventory policy against the latest committed balance.
//  2. Apply the signed relative adjustment (-qty on POST, +qty on CANCEL).
//     The row must already exist.
//  3. Record a movement log row with the same signed delta.
//
// Then append exactly one customer ledger row: debit = total on POST,
// credit = total on CANCEL.
func (e *Engine) Apply(ctx context.Context, doc Document, direction Direction) error {
	effects := doc.StockEffects()
	companyID := doc.GetCompanyID()
	sourceType := direction.movementSource()

	movements := make([]entity.StockMovement, 0, len(effects))

	for _, eff := range effects {
		if direction == DirectionPost {
			// Lock the row first so the check and the adjustment are
			// serialized against concurrent posts on the same product
			item, err := e.stock.GetStockItemForUpdate(ctx, eff.ProductID, companyID)
			if err != nil {
				return err
			}

			if !item.AllowNegative && item.CurrentStock < eff.Quantity {
				return apperror.NewInsufficientStock(
					eff.ProductID.String(),
					eff.Quantity.Float64(),
					item.CurrentStock.Float64(),
				)
			}
		}

		delta := eff.Quantity
		if direction == DirectionPost {
			delta = -delta
		}

		if err := e.stock.AdjustStock(ctx, eff.ProductID, companyID, delta); err != nil {
			return fmt.Errorf("adjust stock for %s: %w", eff.ProductID, err)
		}

		movements = append(movements, entity.NewStockMovement(
			eff.ProductID,
			companyID,
			sourceType,
			doc.GetID(),
			delta,
		))
	}

	if len(movements) > 0 {
		if err := e.stock.AppendMovements(ctx, movements); err != nil {
			return fmt.Errorf("append movements: %w", err)
		}
	}

	total := doc.GetTotalAmount()
	debit, credit := total, types.ZeroMoney()
	description := fmt.Sprintf("Posted Invoice No: %s", doc.GetNumber())
	if direction == DirectionCancel {
		debit, credit = types.ZeroMoney(), total
		description = fmt.Sprintf("Cancelled Invoice No: %s", doc.GetNumber())
	}

	entry := entity.NewCustomerLedgerEntry(
		doc.GetCustomerID(),
		companyID,
		direction.ledgerType(),
		doc.GetID(),
		doc.GetDate(),
		debit,
		credit,
		description,
	)
	if err := e.ledger.Append(ctx, entry); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}

	logger.Info(ctx, "posting applied",
		"direction", direction.String(),
		"document_id", doc.GetID(),
		"number", doc.GetNumber(),
		"lines", len(effects),
	)

	return nil
}
