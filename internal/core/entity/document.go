package entity

import (
	"context"
	"time"

	"billbook/internal/core/apperror"
	"billbook/internal/core/id"
)

// Document is the base type for business transactions (invoices and the like).
type Document struct {
	BaseDocument

	// Number is the document number (auto-generated, unique within type+period)
	Number string `db:"invoice_number" json:"invoiceNumber"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// CompanyID is the owning company
	CompanyID id.ID `db:"company_id" json:"companyId"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document with generated ID.
func NewDocument(companyID id.ID) Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
		CompanyID:    companyID,
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if id.IsNil(d.CompanyID) {
		return apperror.NewValidation("company is required").
			WithDetail("field", "companyId")
	}

	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	return nil
}

// GetID returns the document ID.
func (d *Document) GetID() id.ID {
	return d.ID
}

// GetNumber returns the document number.
func (d *Document) GetNumber() string {
	return d.Number
}

// GetCompanyID returns the owning company.
func (d *Document) GetCompanyID() id.ID {
	return d.CompanyID
}

// GetDate returns the business date.
func (d *Document) GetDate() time.Time {
	return d.Date
}
