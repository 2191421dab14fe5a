// Package inventory provides the stock register service.
package inventory

import (
	"context"
	"fmt"

	"billbook/internal/core/apperror"
	"billbook/internal/core/entity"
	"billbook/internal/core/id"
	"billbook/internal/core/types"
	"billbook/pkg/logger"
)

// Service provides read surfaces over the stock register.
// Transactional writes go through the posting engine, which talks to the
// repository directly inside the caller-owned transaction.
type Service struct {
	repo Repository
}

// NewService creates a new stock register service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// GetStock returns the balance row for one product.
func (s *Service) GetStock(ctx context.Context, productID, companyID id.ID) (entity.StockItem, error) {
	item, err := s.repo.GetStockItem(ctx, productID, companyID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return item, apperror.NewNotFound("stock item", productID.String())
		}
		return item, fmt.Errorf("get stock: %w", err)
	}
	return item, nil
}

// ListCompanyStock returns balance rows for one company.
func (s *Service) ListCompanyStock(ctx context.Context, companyID id.ID, filter StockFilter) ([]entity.StockItem, error) {
	return s.repo.ListStockByCompany(ctx, companyID, filter)
}

// GetMovementHistory returns the movement history for a product.
func (s *Service) GetMovementHistory(ctx context.Context, productID, companyID id.ID, filter MovementFilter) ([]entity.StockMovement, error) {
	return s.repo.GetMovementHistory(ctx, productID, companyID, filter)
}

// UpdateStockAttributes updates SKU, prices and the allow-negative flag.
// current_stock is never set absolutely here; balance changes go through
// posting only.
func (s *Service) UpdateStockAttributes(ctx context.Context, item *entity.StockItem) error {
	if err := s.repo.UpdateStockItem(ctx, item); err != nil {
		return fmt.Errorf("update stock item: %w", err)
	}
	return nil
}

// BalanceAudit compares the stored balance against the balance reconstructed
// from the movement log.
type BalanceAudit struct {
	ProductID      id.ID          `json:"productId"`
	CompanyID      id.ID          `json:"companyId"`
	OpeningStock   types.Quantity `json:"openingStock"`
	StoredBalance  types.Quantity `json:"storedBalance"`
	DerivedBalance types.Quantity `json:"derivedBalance"`
	Consistent     bool           `json:"consistent"`
}

// AuditBalance reconstructs the balance from the movement log and compares it
// with the stored row. The invariant is
// current_stock = opening_stock + sum(quantity_change); a mismatch means the
// log and the balance diverged.
func (s *Service) AuditBalance(ctx context.Context, productID, companyID id.ID) (BalanceAudit, error) {
	audit := BalanceAudit{
		ProductID: productID,
		CompanyID: companyID,
	}

	item, err := s.repo.GetStockItem(ctx, productID, companyID)
	if err != nil {
		return audit, fmt.Errorf("get stock: %w", err)
	}
	audit.OpeningStock = item.OpeningStock
	audit.StoredBalance = item.CurrentStock

	deltaSum, err := s.repo.BalanceFromLog(ctx, productID, companyID)
	if err != nil {
		return audit, fmt.Errorf("derive balance: %w", err)
	}
	audit.DerivedBalance = item.OpeningStock + deltaSum

	audit.Consistent = audit.StoredBalance == audit.DerivedBalance

	if !audit.Consistent {
		logger.Warn(ctx, "stock balance diverged from movement log",
			"product_id", productID,
			"company_id", companyID,
			"stored", audit.StoredBalance,
			"derived", audit.DerivedBalance,
		)
	}

	return audit, nil
}
