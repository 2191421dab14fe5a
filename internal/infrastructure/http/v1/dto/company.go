package dto

import (
	"billbook/internal/domain/catalogs/company"
)

// CreateCompanyRequest for creating a company.
type CreateCompanyRequest struct {
	Code      string  `json:"code"`
	Name      string  `json:"name" binding:"required"`
	GSTIN     *string `json:"gstin"`
	Address   *string `json:"address"`
	StateCode *string `json:"stateCode"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
}

// ToCompany maps the request to a new domain entity.
func (r *CreateCompanyRequest) ToCompany() *company.Company {
	c := company.NewCompany(r.Code, r.Name)
	c.GSTIN = r.GSTIN
	c.Address = r.Address
	c.StateCode = r.StateCode
	c.Phone = r.Phone
	c.Email = r.Email
	return c
}

// UpdateCompanyRequest for updating a company.
// Nil fields are left unchanged.
type UpdateCompanyRequest struct {
	Name      *string `json:"name"`
	GSTIN     *string `json:"gstin"`
	Address   *string `json:"address"`
	StateCode *string `json:"stateCode"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Version   int     `json:"version" binding:"required,min=1"`
}

// Apply maps the request onto an existing entity.
func (r *UpdateCompanyRequest) Apply(c *company.Company) *company.Company {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.GSTIN != nil {
		c.GSTIN = r.GSTIN
	}
	if r.Address != nil {
		c.Address = r.Address
	}
	if r.StateCode != nil {
		c.StateCode = r.StateCode
	}
	if r.Phone != nil {
		c.Phone = r.Phone
	}
	if r.Email != nil {
		c.Email = r.Email
	}
	c.Version = r.Version
	return c
}

// CompanyResponse represents a company in API responses.
type CompanyResponse struct {
	CatalogResponse
	GSTIN     *string `json:"gstin,omitempty"`
	Address   *string `json:"address,omitempty"`
	StateCode *string `json:"stateCode,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// FromCompany creates response from domain entity.
func FromCompany(c *company.Company) *CompanyResponse {
	return &CompanyResponse{
		CatalogResponse: FromCatalog(c.Catalog),
		GSTIN:           c.GSTIN,
		Address:         c.Address,
		StateCode:       c.StateCode,
		Phone:           c.Phone,
		Email:           c.Email,
	}
}
