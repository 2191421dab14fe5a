// Package salesinvoice provides the SalesInvoice document and its lifecycle:
// Draft -> Active -> Cancelled. Posting an invoice deducts stock and debits
// the customer ledger; cancelling reverses both.
package salesinvoice

import (
	"context"

	"billbook/internal/core/apperror"
	"billbook/internal/core/entity"
	"billbook/internal/core/id"
	"billbook/internal/core/types"
	"billbook/internal/domain/posting"
)

// Status of a sales invoice.
type Status string

const (
	// StatusDraft - editable, no stock or ledger effect yet
	StatusDraft Status = "draft"
	// StatusActive - posted; stock deducted, customer debited
	StatusActive Status = "active"
	// StatusCancelled - reversed; terminal state
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusCancelled:
		return true
	}
	return false
}

// SalesInvoice represents a sales invoice document.
type SalesInvoice struct {
	entity.Document

	// CustomerID is the buyer being debited
	CustomerID id.ID `db:"customer_id" json:"customerId"`

	// Status drives the lifecycle state machine
	Status Status `db:"status" json:"status"`

	// TotalAmount is the grand total (incl. taxes), posted to the ledger
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// Table part: invoice lines
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one invoice line.
// Tax amounts are precomputed by the caller and passed through; the server
// validates non-negativity but never recomputes tax.
type Line struct {
	LineID    id.ID `db:"line_id" json:"lineId"`
	InvoiceID id.ID `db:"invoice_id" json:"invoiceId"`
	LineNo    int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// HSNCode is the HSN/SAC tax classification code
	HSNCode string `db:"hsn_code" json:"hsnCode,omitempty"`

	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`

	// TaxableValue is the pre-tax line value
	TaxableValue types.Money `db:"taxable_value" json:"taxableValue"`

	// GSTRate and split tax amounts, precomputed by the caller
	GSTRate    types.Money `db:"gst_rate" json:"gstRate"`
	CGSTAmount types.Money `db:"cgst_amount" json:"cgstAmount"`
	SGSTAmount types.Money `db:"sgst_amount" json:"sgstAmount"`
	IGSTAmount types.Money `db:"igst_amount" json:"igstAmount"`

	// LineTotal is taxable value plus taxes
	LineTotal types.Money `db:"line_total" json:"lineTotal"`
}

// NewSalesInvoice creates a new invoice in Draft.
func NewSalesInvoice(companyID, customerID id.ID) *SalesInvoice {
	return &SalesInvoice{
		Document:   entity.NewDocument(companyID),
		CustomerID: customerID,
		Status:     StatusDraft,
		Lines:      make([]Line, 0),
	}
}

// AddLine appends a line and renumbers.
func (inv *SalesInvoice) AddLine(line Line) {
	if id.IsNil(line.LineID) {
		line.LineID = id.New()
	}
	line.InvoiceID = inv.ID
	line.LineNo = len(inv.Lines) + 1
	inv.Lines = append(inv.Lines, line)
}

// RecalculateTotal sums line totals into TotalAmount.
func (inv *SalesInvoice) RecalculateTotal() {
	total := types.ZeroMoney()
	for _, line := range inv.Lines {
		total = total.Add(line.LineTotal)
	}
	inv.TotalAmount = total
}

// Validate implements entity.Validatable.
func (inv *SalesInvoice) Validate(ctx context.Context) error {
	if err := inv.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(inv.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}

	if !inv.Status.Valid() {
		return apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(inv.Status))
	}

	if len(inv.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	if inv.TotalAmount.IsNegative() {
		return apperror.NewValidation("total amount must not be negative").
			WithDetail("field", "totalAmount")
	}

	for i, line := range inv.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.UnitPrice.IsNegative() || line.TaxableValue.IsNegative() || line.LineTotal.IsNegative() {
			return apperror.NewValidation("amounts must not be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// --- State machine guards ---

// CanModify reports whether the invoice may be edited or deleted.
func (inv *SalesInvoice) CanModify() error {
	if inv.Status != StatusDraft {
		return apperror.NewInvalidState("modify", string(inv.Status))
	}
	return nil
}

// CanPost reports whether the invoice may transition Draft -> Active.
func (inv *SalesInvoice) CanPost() error {
	if inv.Status != StatusDraft {
		return apperror.NewInvalidState("post", string(inv.Status))
	}
	return nil
}

// CanCancel reports whether the invoice may transition Active -> Cancelled.
func (inv *SalesInvoice) CanCancel() error {
	if inv.Status != StatusActive {
		return apperror.NewInvalidState("cancel", string(inv.Status))
	}
	return nil
}

// --- posting.Document implementation ---

// GetCustomerID returns the buyer.
func (inv *SalesInvoice) GetCustomerID() id.ID {
	return inv.CustomerID
}

// GetTotalAmount returns the grand total.
func (inv *SalesInvoice) GetTotalAmount() types.Money {
	return inv.TotalAmount
}

// StockEffects returns one effect per line in line order.
func (inv *SalesInvoice) StockEffects() []posting.StockEffect {
	effects := make([]posting.StockEffect, 0, len(inv.Lines))
	for _, line := range inv.Lines {
		effects = append(effects, posting.StockEffect{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	return effects
}

var _ posting.Document = (*SalesInvoice)(nil)
