package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"billbook/internal/domain/catalogs/customer"
	"billbook/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ customer.Repository = (*CustomerRepo)(nil)

// CustomerRepo is the PostgreSQL repository for customers.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
}

// NewCustomerRepo creates a customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"customers",
			postgres.ExtractDBColumns[customer.Customer](),
			func() *customer.Customer { return &customer.Customer{} },
		),
	}
}

// FindByGSTIN returns the non-deleted customer with the given GSTIN.
func (r *CustomerRepo) FindByGSTIN(ctx context.Context, gstin string) (*customer.Customer, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[customer.Customer]()...).
		From("customers").
		Where(squirrel.Eq{"gstin": gstin}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	return r.FindOne(ctx, q)
}
