package product

import (
	"context"
	"fmt"
	"time"

	"billbook/internal/core/entity"
	"billbook/internal/core/tx"
	"billbook/internal/domain"
	"billbook/pkg/numerator"
)

// Service provides business logic for the Product catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Product]
	repo      Repository
	stock     StockInitializer
	txManager tx.Manager
	numerator *numerator.Service
}

// NewService creates a new Product service.
func NewService(
	repo Repository,
	stock StockInitializer,
	txManager tx.Manager,
	num *numerator.Service,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		stock:          stock,
		txManager:      txManager,
		numerator:      num,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)

	return svc
}

// prepareForCreate generates a code when none was provided.
func (s *Service) prepareForCreate(ctx context.Context, p *Product) error {
	if p.Code == "" {
		cfg := numerator.DefaultConfig("PR")
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		p.Code = code
	}
	return nil
}

// CreateWithStock creates the product and its stock ledger row in one
// transaction. The stock row must exist before the product can appear on
// a posted invoice.
func (s *Service) CreateWithStock(ctx context.Context, p *Product, params StockParams) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if err := s.prepareForCreate(ctx, p); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create product: %w", err)
		}

		item := &entity.StockItem{
			ProductID:     p.ID,
			CompanyID:     p.CompanyID,
			CurrentStock:  params.OpeningStock,
			OpeningStock:  params.OpeningStock,
			CustomSKU:     params.CustomSKU,
			SalesPrice:    params.SalesPrice,
			PurchasePrice: params.PurchasePrice,
			AllowNegative: params.AllowNegative,
			UpdatedAt:     time.Now().UTC(),
		}
		if err := s.stock.CreateStockItem(ctx, item); err != nil {
			return fmt.Errorf("create stock item: %w", err)
		}

		return nil
	})
}

// ListByCompany retrieves all products of one company.
func (s *Service) ListByCompany(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	return s.repo.List(ctx, filter)
}
