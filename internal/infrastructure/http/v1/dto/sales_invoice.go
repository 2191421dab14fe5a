package dto

import (
	"time"

	"billbook/internal/core/id"
	"billbook/internal/core/types"
	"billbook/internal/domain/documents/salesinvoice"
)

// InvoiceLineRequest is one input line. ProductID may be empty; what happens
// to such lines depends on the configured line policy.
type InvoiceLineRequest struct {
	ProductID    string         `json:"productId" binding:"omitempty,uuid"`
	HSNCode      string         `json:"hsnCode"`
	Quantity     types.Quantity `json:"quantity"`
	UnitPrice    string         `json:"unitPrice"`
	TaxableValue string         `json:"taxableValue"`
	GSTRate      string         `json:"gstRate"`
	CGSTAmount   string         `json:"cgstAmount"`
	SGSTAmount   string         `json:"sgstAmount"`
	IGSTAmount   string         `json:"igstAmount"`
	LineTotal    string         `json:"lineTotal"`
}

func (r *InvoiceLineRequest) toLine() (salesinvoice.Line, error) {
	line := salesinvoice.Line{
		HSNCode:  r.HSNCode,
		Quantity: r.Quantity,
	}

	if r.ProductID != "" {
		productID, err := id.Parse(r.ProductID)
		if err != nil {
			return line, err
		}
		line.ProductID = productID
	}

	fields := []struct {
		src string
		dst *types.Money
	}{
		{r.UnitPrice, &line.UnitPrice},
		{r.TaxableValue, &line.TaxableValue},
		{r.GSTRate, &line.GSTRate},
		{r.CGSTAmount, &line.CGSTAmount},
		{r.SGSTAmount, &line.SGSTAmount},
		{r.IGSTAmount, &line.IGSTAmount},
		{r.LineTotal, &line.LineTotal},
	}
	for _, f := range fields {
		if f.src == "" {
			*f.dst = types.ZeroMoney()
			continue
		}
		v, err := types.NewMoneyFromString(f.src)
		if err != nil {
			return line, err
		}
		*f.dst = v
	}

	return line, nil
}

// CreateSalesInvoiceRequest for creating an invoice.
// Post=true is the create-and-post shortcut: the invoice is created and
// posted in one transaction.
type CreateSalesInvoiceRequest struct {
	CompanyID  string               `json:"companyId" binding:"required,uuid"`
	CustomerID string               `json:"customerId" binding:"required,uuid"`
	Date       *time.Time           `json:"date"`
	Comment    string               `json:"comment"`
	Post       bool                 `json:"post"`
	Lines      []InvoiceLineRequest `json:"lines" binding:"required,min=1"`
}

// ToSalesInvoice maps the request to a new domain entity.
func (r *CreateSalesInvoiceRequest) ToSalesInvoice() (*salesinvoice.SalesInvoice, error) {
	companyID, _ := id.Parse(r.CompanyID)
	customerID, _ := id.Parse(r.CustomerID)

	inv := salesinvoice.NewSalesInvoice(companyID, customerID)
	if r.Date != nil {
		inv.Date = *r.Date
	}
	inv.Comment = r.Comment
	if r.Post {
		inv.Status = salesinvoice.StatusActive
	}

	for _, lr := range r.Lines {
		line, err := lr.toLine()
		if err != nil {
			return nil, err
		}
		inv.Lines = append(inv.Lines, line)
	}

	return inv, nil
}

// UpdateSalesInvoiceRequest replaces header fields and the whole line set.
type UpdateSalesInvoiceRequest struct {
	CustomerID string               `json:"customerId" binding:"omitempty,uuid"`
	Date       *time.Time           `json:"date"`
	Comment    *string              `json:"comment"`
	Lines      []InvoiceLineRequest `json:"lines" binding:"required,min=1"`
	Version    int                  `json:"version" binding:"required,min=1"`
}

// Apply maps the request onto an existing invoice.
func (r *UpdateSalesInvoiceRequest) Apply(inv *salesinvoice.SalesInvoice) (*salesinvoice.SalesInvoice, error) {
	if r.CustomerID != "" {
		customerID, err := id.Parse(r.CustomerID)
		if err != nil {
			return nil, err
		}
		inv.CustomerID = customerID
	}
	if r.Date != nil {
		inv.Date = *r.Date
	}
	if r.Comment != nil {
		inv.Comment = *r.Comment
	}
	inv.Version = r.Version

	inv.Lines = inv.Lines[:0]
	for _, lr := range r.Lines {
		line, err := lr.toLine()
		if err != nil {
			return nil, err
		}
		inv.Lines = append(inv.Lines, line)
	}

	return inv, nil
}

// InvoiceLineResponse is one line in API responses.
type InvoiceLineResponse struct {
	LineID       string         `json:"lineId"`
	LineNo       int            `json:"lineNo"`
	ProductID    string         `json:"productId"`
	HSNCode      string         `json:"hsnCode,omitempty"`
	Quantity     types.Quantity `json:"quantity"`
	UnitPrice    string         `json:"unitPrice"`
	TaxableValue string         `json:"taxableValue"`
	GSTRate      string         `json:"gstRate"`
	CGSTAmount   string         `json:"cgstAmount"`
	SGSTAmount   string         `json:"sgstAmount"`
	IGSTAmount   string         `json:"igstAmount"`
	LineTotal    string         `json:"lineTotal"`
}

// SalesInvoiceResponse represents an invoice in API responses.
type SalesInvoiceResponse struct {
	BaseResponse
	InvoiceNumber string                `json:"invoiceNumber"`
	Date          time.Time             `json:"date"`
	CompanyID     string                `json:"companyId"`
	CustomerID    string                `json:"customerId"`
	Status        string                `json:"status"`
	TotalAmount   string                `json:"totalAmount"`
	Comment       string                `json:"comment,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
	Lines         []InvoiceLineResponse `json:"lines,omitempty"`
}

// FromSalesInvoice creates response from domain entity.
func FromSalesInvoice(inv *salesinvoice.SalesInvoice) *SalesInvoiceResponse {
	resp := &SalesInvoiceResponse{
		BaseResponse: BaseResponse{
			ID:           inv.ID.String(),
			DeletionMark: inv.DeletionMark,
			Version:      inv.Version,
		},
		InvoiceNumber: inv.Number,
		Date:          inv.Date,
		CompanyID:     inv.CompanyID.String(),
		CustomerID:    inv.CustomerID.String(),
		Status:        string(inv.Status),
		TotalAmount:   inv.TotalAmount.String(),
		Comment:       inv.Comment,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}

	for _, line := range inv.Lines {
		resp.Lines = append(resp.Lines, InvoiceLineResponse{
			LineID:       line.LineID.String(),
			LineNo:       line.LineNo,
			ProductID:    line.ProductID.String(),
			HSNCode:      line.HSNCode,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice.String(),
			TaxableValue: line.TaxableValue.String(),
			GSTRate:      line.GSTRate.String(),
			CGSTAmount:   line.CGSTAmount.String(),
			SGSTAmount:   line.SGSTAmount.String(),
			IGSTAmount:   line.IGSTAmount.String(),
			LineTotal:    line.LineTotal.String(),
		})
	}

	return resp
}
