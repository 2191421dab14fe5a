package salesinvoice

import (
	"context"
	"fmt"
	"time"

	"billbook/internal/core/apperror"
	"billbook/internal/core/id"
	"billbook/internal/core/tx"
	"billbook/internal/domain"
	"billbook/internal/domain/posting"
	"billbook/pkg/logger"
	"billbook/pkg/numerator"
)

// Auditor records invoice lifecycle events. Implementations run inside the
// service's transaction (the storage layer picks the transaction up from the
// context), so a rolled-back operation leaves no audit row.
type Auditor interface {
	Record(ctx context.Context, invoiceID id.ID, action string, changes map[string]any) error
}

// Service is the invoice lifecycle controller. It owns the Draft -> Active ->
// Cancelled state machine and invokes the posting engine exactly on the
// Draft->Active and Active->Cancelled transitions, each operation inside one
// transaction.
type Service struct {
	repo      Repository
	engine    *posting.Engine
	numerator *numerator.Service
	txManager tx.Manager
	auditor   Auditor
	cfg       Config
}

// NewService creates a new sales invoice service.
// auditor may be nil; lifecycle events are then not recorded.
func NewService(
	repo Repository,
	engine *posting.Engine,
	num *numerator.Service,
	txManager tx.Manager,
	auditor Auditor,
	cfg Config,
) *Service {
	return &Service{
		repo:      repo,
		engine:    engine,
		numerator: num,
		txManager: txManager,
		auditor:   auditor,
		cfg:       cfg,
	}
}

// applyLinePolicy handles input lines without a product reference according
// to the configured policy, then renumbers the remaining lines.
func (s *Service) applyLinePolicy(inv *SalesInvoice) error {
	kept := inv.Lines[:0]
	for i, line := range inv.Lines {
		if id.IsNil(line.ProductID) {
			if s.cfg.LinePolicy == LinePolicyReject {
				return apperror.NewValidation("line has no product reference").
					WithDetail("field", "lines").
					WithDetail("lineNo", i+1)
			}
			continue
		}
		kept = append(kept, line)
	}
	inv.Lines = kept

	for i := range inv.Lines {
		inv.Lines[i].InvoiceID = inv.ID
		inv.Lines[i].LineNo = i + 1
		if id.IsNil(inv.Lines[i].LineID) {
			inv.Lines[i].LineID = id.New()
		}
	}

	return nil
}

// Create creates a new invoice. An input status of Active is honored as the
// create-and-post shortcut: the posting engine runs inside the same
// transaction as the insert. Any other input status creates a Draft.
func (s *Service) Create(ctx context.Context, inv *SalesInvoice) error {
	postImmediately := inv.Status == StatusActive
	inv.Status = StatusDraft

	if err := s.applyLinePolicy(inv); err != nil {
		return err
	}
	inv.RecalculateTotal()

	if err := inv.Validate(ctx); err != nil {
		return err
	}

	if inv.Number == "" {
		cfg := numerator.DefaultConfig(NumberPrefix)
		number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: NumeratorStrategy}, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		inv.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		if err := s.repo.ReplaceLines(ctx, inv.ID, inv.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		if err := s.audit(ctx, inv.ID, "create", map[string]any{
			"number": inv.Number,
			"total":  inv.TotalAmount,
		}); err != nil {
			return err
		}

		if postImmediately {
			if err := s.engine.Apply(ctx, inv, posting.DirectionPost); err != nil {
				return err
			}
			if err := s.repo.SetStatus(ctx, inv.ID, StatusActive); err != nil {
				return fmt.Errorf("set status: %w", err)
			}
			inv.Status = StatusActive

			if err := s.audit(ctx, inv.ID, "post", map[string]any{
				"number": inv.Number,
			}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "invoice created",
		"id", inv.ID,
		"number", inv.Number,
		"status", string(inv.Status),
	)
	return nil
}

// GetByID retrieves an invoice with its lines.
func (s *Service) GetByID(ctx context.Context, invID id.ID) (*SalesInvoice, error) {
	inv, err := s.repo.GetByID(ctx, invID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, invID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	inv.Lines = lines

	return inv, nil
}

// Update replaces the header fields and the full line set.
// Allowed only while the invoice is a Draft.
func (s *Service) Update(ctx context.Context, inv *SalesInvoice) error {
	current, err := s.repo.GetByID(ctx, inv.ID)
	if err != nil {
		return err
	}
	if err := current.CanModify(); err != nil {
		return err
	}

	// Status and number are not updatable through this path
	inv.Status = current.Status
	inv.Number = current.Number

	if err := s.applyLinePolicy(inv); err != nil {
		return err
	}
	inv.RecalculateTotal()

	if err := inv.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, inv); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		if err := s.repo.ReplaceLines(ctx, inv.ID, inv.Lines); err != nil {
			return fmt.Errorf("replace lines: %w", err)
		}

		return s.audit(ctx, inv.ID, "update", map[string]any{
			"number": inv.Number,
			"total":  inv.TotalAmount,
		})
	})
}

// Delete removes a Draft invoice and its lines.
func (s *Service) Delete(ctx context.Context, invID id.ID) error {
	inv, err := s.repo.GetByID(ctx, invID)
	if err != nil {
		return err
	}
	if err := inv.CanModify(); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, invID); err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}

		return s.audit(ctx, invID, "delete", map[string]any{
			"number": inv.Number,
		})
	})
}

// Post transitions Draft -> Active and applies the invoice's stock and
// ledger effect. The header is locked for the duration of the transaction so
// the status check and the engine run are serialized per invoice.
func (s *Service) Post(ctx context.Context, invID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.repo.GetForUpdate(ctx, invID)
		if err != nil {
			return err
		}
		if err := inv.CanPost(); err != nil {
			return err
		}

		lines, err := s.repo.GetLines(ctx, invID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}
		inv.Lines = lines

		if err := s.engine.Apply(ctx, inv, posting.DirectionPost); err != nil {
			return err
		}

		if err := s.repo.SetStatus(ctx, invID, StatusActive); err != nil {
			return fmt.Errorf("set status: %w", err)
		}

		return s.audit(ctx, invID, "post", map[string]any{
			"number": inv.Number,
		})
	})
}

// Cancel transitions Active -> Cancelled and reverses the invoice's stock
// and ledger effect.
func (s *Service) Cancel(ctx context.Context, invID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.repo.GetForUpdate(ctx, invID)
		if err != nil {
			return err
		}
		if err := inv.CanCancel(); err != nil {
			return err
		}

		lines, err := s.repo.GetLines(ctx, invID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}
		inv.Lines = lines

		if err := s.engine.Apply(ctx, inv, posting.DirectionCancel); err != nil {
			return err
		}

		if err := s.repo.SetStatus(ctx, invID, StatusCancelled); err != nil {
			return fmt.Errorf("set status: %w", err)
		}

		return s.audit(ctx, invID, "cancel", map[string]any{
			"number": inv.Number,
		})
	})
}

// List retrieves invoices with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*SalesInvoice], error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) audit(ctx context.Context, invID id.ID, action string, changes map[string]any) error {
	if s.auditor == nil {
		return nil
	}
	if err := s.auditor.Record(ctx, invID, action, changes); err != nil {
		return fmt.Errorf("audit %s: %w", action, err)
	}
	return nil
}
