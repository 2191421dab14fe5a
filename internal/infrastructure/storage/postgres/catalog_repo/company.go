package catalog_repo

import (
	"billbook/internal/domain/catalogs/company"
	"billbook/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ company.Repository = (*CompanyRepo)(nil)

// CompanyRepo is the PostgreSQL repository for companies.
type CompanyRepo struct {
	*BaseCatalogRepo[*company.Company]
}

// NewCompanyRepo creates a company repository.
func NewCompanyRepo(txManager *postgres.TxManager) *CompanyRepo {
	return &CompanyRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"companies",
			postgres.ExtractDBColumns[company.Company](),
			func() *company.Company { return &company.Company{} },
		),
	}
}
