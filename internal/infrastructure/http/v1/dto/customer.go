package dto

import (
	"billbook/internal/core/id"
	"billbook/internal/domain/catalogs/customer"
)

// CreateCustomerRequest for creating a customer.
type CreateCustomerRequest struct {
	Code           string  `json:"code"`
	Name           string  `json:"name" binding:"required"`
	CompanyID      string  `json:"companyId" binding:"required,uuid"`
	GSTIN          *string `json:"gstin"`
	Mobile         *string `json:"mobile"`
	Email          *string `json:"email"`
	BillingAddress *string `json:"billingAddress"`
	StateCode      *string `json:"stateCode"`
}

// ToCustomer maps the request to a new domain entity.
// The company id is validated by the binding tag before parsing.
func (r *CreateCustomerRequest) ToCustomer() *customer.Customer {
	companyID, _ := id.Parse(r.CompanyID)
	c := customer.NewCustomer(r.Code, r.Name, companyID)
	c.GSTIN = r.GSTIN
	c.Mobile = r.Mobile
	c.Email = r.Email
	c.BillingAddress = r.BillingAddress
	c.StateCode = r.StateCode
	return c
}

// UpdateCustomerRequest for updating a customer.
type UpdateCustomerRequest struct {
	Name           *string `json:"name"`
	GSTIN          *string `json:"gstin"`
	Mobile         *string `json:"mobile"`
	Email          *string `json:"email"`
	BillingAddress *string `json:"billingAddress"`
	StateCode      *string `json:"stateCode"`
	Version        int     `json:"version" binding:"required,min=1"`
}

// Apply maps the request onto an existing entity.
func (r *UpdateCustomerRequest) Apply(c *customer.Customer) *customer.Customer {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.GSTIN != nil {
		c.GSTIN = r.GSTIN
	}
	if r.Mobile != nil {
		c.Mobile = r.Mobile
	}
	if r.Email != nil {
		c.Email = r.Email
	}
	if r.BillingAddress != nil {
		c.BillingAddress = r.BillingAddress
	}
	if r.StateCode != nil {
		c.StateCode = r.StateCode
	}
	c.Version = r.Version
	return c
}

// CustomerResponse represents a customer in API responses.
type CustomerResponse struct {
	CatalogResponse
	CompanyID      string  `json:"companyId"`
	GSTIN          *string `json:"gstin,omitempty"`
	Mobile         *string `json:"mobile,omitempty"`
	Email          *string `json:"email,omitempty"`
	BillingAddress *string `json:"billingAddress,omitempty"`
	StateCode      *string `json:"stateCode,omitempty"`
}

// FromCustomer creates response from domain entity.
func FromCustomer(c *customer.Customer) *CustomerResponse {
	return &CustomerResponse{
		CatalogResponse: FromCatalog(c.Catalog),
		CompanyID:       c.CompanyID.String(),
		GSTIN:           c.GSTIN,
		Mobile:          c.Mobile,
		Email:           c.Email,
		BillingAddress:  c.BillingAddress,
		StateCode:       c.StateCode,
	}
}
