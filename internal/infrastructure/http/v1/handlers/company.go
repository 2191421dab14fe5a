package handlers

import (
	"billbook/internal/domain/catalogs/company"
	"billbook/internal/infrastructure/http/v1/dto"
)

// CompanyHTTPHandler is the generic catalog handler specialized for companies.
type CompanyHTTPHandler = CatalogHandler[
	*company.Company,
	dto.CreateCompanyRequest,
	dto.UpdateCompanyRequest,
]

// NewCompanyHandler creates the company handler with its DTO mapping.
func NewCompanyHandler(base *BaseHandler, service *company.Service) *CompanyHTTPHandler {
	config := CatalogHandlerConfig[
		*company.Company,
		dto.CreateCompanyRequest,
		dto.UpdateCompanyRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "company",
		MapCreateDTO: func(req dto.CreateCompanyRequest) *company.Company {
			return req.ToCompany()
		},
		MapUpdateDTO: func(req dto.UpdateCompanyRequest, existing *company.Company) *company.Company {
			return req.Apply(existing)
		},
		MapToDTO: func(c *company.Company) any {
			return dto.FromCompany(c)
		},
	}

	return NewCatalogHandler(base, config)
}
