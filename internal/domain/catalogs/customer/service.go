package customer

import (
	"context"
	"fmt"
	"time"

	"billbook/internal/core/apperror"
	"billbook/internal/core/id"
	"billbook/internal/core/tx"
	"billbook/internal/domain"
	"billbook/pkg/numerator"
)

// Service provides business logic for the Customer catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Customer]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Customer service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	num *numerator.Service,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "customer",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)
	base.Hooks().On(domain.BeforeUpdate, svc.prepareForUpdate)

	return svc
}

// prepareForCreate handles code generation and uniqueness checks before create.
func (s *Service) prepareForCreate(ctx context.Context, c *Customer) error {
	if c.Code == "" {
		cfg := numerator.DefaultConfig("CU")
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		c.Code = code
	}

	return s.checkGSTINUnique(ctx, c)
}

// prepareForUpdate handles uniqueness checks before update.
func (s *Service) prepareForUpdate(ctx context.Context, c *Customer) error {
	return s.checkGSTINUnique(ctx, c)
}

// FindByGSTIN retrieves a customer by GSTIN.
func (s *Service) FindByGSTIN(ctx context.Context, gstin string) (*Customer, error) {
	return s.repo.FindByGSTIN(ctx, gstin)
}

func (s *Service) checkGSTINUnique(ctx context.Context, c *Customer) error {
	if c.GSTIN == nil || *c.GSTIN == "" {
		return nil
	}

	exists, err := s.checkGSTINExists(ctx, *c.GSTIN, c.ID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewConflict("customer with this GSTIN already exists").
			WithDetail("gstin", *c.GSTIN)
	}
	return nil
}

// checkGSTINExists reports whether the GSTIN is used by another customer.
func (s *Service) checkGSTINExists(ctx context.Context, gstin string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindByGSTIN(ctx, gstin)
	if err != nil {
		// Not found is OK; other errors must be propagated
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != excludeID, nil
}
