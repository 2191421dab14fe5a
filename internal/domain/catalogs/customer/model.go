// Package customer provides the Customer catalog.
// Customers are the debit side of the customer ledger.
package customer

import (
	"context"
	"regexp"

	"billbook/internal/core/apperror"
	"billbook/internal/core/entity"
	"billbook/internal/core/id"
)

var (
	gstinRE  = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z]\d[A-Z]Z[0-9A-Z]$`)
	emailRE  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	mobileRE = regexp.MustCompile(`^\+?\d{10,15}$`)
)

// Customer represents a buyer belonging to one company.
type Customer struct {
	entity.Catalog

	// CompanyID is the owning company
	CompanyID id.ID `db:"company_id" json:"companyId"`

	// GSTIN is the customer's GST registration number
	GSTIN *string `db:"gstin" json:"gstin,omitempty"`

	// Mobile is the primary contact number
	Mobile *string `db:"mobile" json:"mobile,omitempty"`

	// Email is the primary contact email
	Email *string `db:"email" json:"email,omitempty"`

	// BillingAddress is the address printed on invoices
	BillingAddress *string `db:"billing_address" json:"billingAddress,omitempty"`

	// StateCode is the two-digit GST state code
	StateCode *string `db:"state_code" json:"stateCode,omitempty"`
}

// NewCustomer creates a new Customer with required fields.
func NewCustomer(code, name string, companyID id.ID) *Customer {
	return &Customer{
		Catalog:   entity.NewCatalog(code, name),
		CompanyID: companyID,
	}
}

// Validate implements entity.Validatable interface.
func (c *Customer) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(c.CompanyID) {
		return apperror.NewValidation("company is required").
			WithDetail("field", "companyId")
	}

	if c.GSTIN != nil && *c.GSTIN != "" && !gstinRE.MatchString(*c.GSTIN) {
		return apperror.NewValidation("invalid GSTIN format").
			WithDetail("field", "gstin").
			WithDetail("value", *c.GSTIN)
	}

	if c.Email != nil && *c.Email != "" && !emailRE.MatchString(*c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	if c.Mobile != nil && *c.Mobile != "" && !mobileRE.MatchString(*c.Mobile) {
		return apperror.NewValidation("invalid mobile format").
			WithDetail("field", "mobile")
	}

	return nil
}
