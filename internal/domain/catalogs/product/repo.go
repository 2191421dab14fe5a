package product

import (
	"context"

	"billbook/internal/core/entity"
	"billbook/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]
}

// StockInitializer creates the stock ledger row for a new product.
// Implemented by the inventory register repository.
type StockInitializer interface {
	CreateStockItem(ctx context.Context, item *entity.StockItem) error
}
