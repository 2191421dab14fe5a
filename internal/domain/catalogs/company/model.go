// Package company provides the Company catalog.
// A company is the owning organization for invoices, stock, and ledgers.
package company

import (
	"context"
	"regexp"

	"billbook/internal/core/apperror"
	"billbook/internal/core/entity"
)

// GSTIN: 2-digit state code, 10-char PAN, entity number, Z, check character
var gstinRE = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z]\d[A-Z]Z[0-9A-Z]$`)

// Company represents an owning organization.
type Company struct {
	entity.Catalog

	// GSTIN is the GST registration number
	GSTIN *string `db:"gstin" json:"gstin,omitempty"`

	// Address is the registered address
	Address *string `db:"address" json:"address,omitempty"`

	// StateCode is the two-digit GST state code
	StateCode *string `db:"state_code" json:"stateCode,omitempty"`

	// Phone is the primary contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Email is the primary contact email
	Email *string `db:"email" json:"email,omitempty"`
}

// NewCompany creates a new Company with required fields.
func NewCompany(code, name string) *Company {
	return &Company{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (c *Company) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.GSTIN != nil && *c.GSTIN != "" && !gstinRE.MatchString(*c.GSTIN) {
		return apperror.NewValidation("invalid GSTIN format").
			WithDetail("field", "gstin").
			WithDetail("value", *c.GSTIN)
	}

	if c.StateCode != nil && *c.StateCode != "" && len(*c.StateCode) != 2 {
		return apperror.NewValidation("state code must be 2 digits").
			WithDetail("field", "stateCode")
	}

	return nil
}
