package customer

import (
	"context"

	"billbook/internal/domain"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	domain.CatalogRepository[*Customer]

	// FindByGSTIN retrieves a customer by GSTIN within a company.
	FindByGSTIN(ctx context.Context, gstin string) (*Customer, error)
}
