package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"billbook/internal/core/apperror"
	"billbook/internal/core/id"
	"billbook/internal/domain/documents/salesinvoice"
	"billbook/internal/infrastructure/http/v1/dto"
)

// SalesInvoiceHandler handles sales invoice endpoints, including the
// lifecycle transitions (post, cancel).
type SalesInvoiceHandler struct {
	*BaseHandler
	service *salesinvoice.Service
}

// NewSalesInvoiceHandler creates a new sales invoice handler.
func NewSalesInvoiceHandler(base *BaseHandler, service *salesinvoice.Service) *SalesInvoiceHandler {
	return &SalesInvoiceHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /document/sales-invoices
func (h *SalesInvoiceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	base, err := h.ParseListFilter(c)
	if err != nil {
		h.Error(c, err)
		return
	}
	base.OrderBy = ""

	filter := salesinvoice.ListFilter{ListFilter: base}

	if customerID := c.Query("customerId"); customerID != "" {
		parsed, err := id.Parse(customerID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid customerId format"))
			return
		}
		filter.CustomerID = &parsed
	}

	if status := c.Query("status"); status != "" {
		s := salesinvoice.Status(status)
		if !s.Valid() {
			h.Error(c, apperror.NewValidation("invalid status").WithDetail("value", status))
			return
		}
		filter.Status = &s
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, inv := range result.Items {
		items[i] = dto.FromSalesInvoice(inv)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /document/sales-invoices/:id
func (h *SalesInvoiceHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	invID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	inv, err := h.service.GetByID(ctx, invID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSalesInvoice(inv))
}

// Create handles POST /document/sales-invoices
func (h *SalesInvoiceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateSalesInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := req.ToSalesInvoice()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid invoice data").WithDetail("error", err.Error()))
		return
	}

	if err := h.service.Create(ctx, inv); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromSalesInvoice(inv))
}

// Update handles PUT /document/sales-invoices/:id
func (h *SalesInvoiceHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	invID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateSalesInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, invID)
	if err != nil {
		h.Error(c, err)
		return
	}

	updated, err := req.Apply(existing)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid invoice data").WithDetail("error", err.Error()))
		return
	}

	if err := h.service.Update(ctx, updated); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSalesInvoice(updated))
}

// Delete handles DELETE /document/sales-invoices/:id
func (h *SalesInvoiceHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	invID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, invID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Post handles POST /document/sales-invoices/:id/post
func (h *SalesInvoiceHandler) Post(c *gin.Context) {
	h.transition(c, h.service.Post)
}

// Cancel handles POST /document/sales-invoices/:id/cancel
func (h *SalesInvoiceHandler) Cancel(c *gin.Context) {
	h.transition(c, h.service.Cancel)
}

func (h *SalesInvoiceHandler) transition(c *gin.Context, fn func(ctx context.Context, invID id.ID) error) {
	ctx := c.Request.Context()

	invID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := fn(ctx, invID); err != nil {
		h.Error(c, err)
		return
	}

	inv, err := h.service.GetByID(ctx, invID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSalesInvoice(inv))
}
