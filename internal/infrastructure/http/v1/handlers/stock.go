package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"billbook/internal/core/apperror"
	"billbook/internal/core/entity"
	"billbook/internal/core/id"
	"billbook/internal/core/types"
	"billbook/internal/domain/registers/inventory"
	"billbook/internal/infrastructure/http/v1/dto"
)

// StockHandler handles stock register endpoints.
type StockHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *inventory.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// ListBalances handles GET /registers/stock/balances?companyId=...
func (h *StockHandler) ListBalances(c *gin.Context) {
	ctx := c.Request.Context()

	companyID, err := id.Parse(c.Query("companyId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("companyId is required"))
		return
	}

	filter := inventory.StockFilter{
		ExcludeZero: c.Query("excludeZero") == "true",
		Limit:       h.ParseIntQuery(c, "limit", 50),
		Offset:      h.ParseIntQuery(c, "offset", 0),
	}

	items, err := h.service.ListCompanyStock(ctx, companyID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := make([]dto.StockItemResponse, len(items))
	for i, item := range items {
		response[i] = dto.FromStockItem(item)
	}

	c.JSON(http.StatusOK, gin.H{"items": response})
}

// GetBalance handles GET /registers/stock/balances/:productId?companyId=...
func (h *StockHandler) GetBalance(c *gin.Context) {
	ctx := c.Request.Context()

	productID, companyID, ok := h.stockKey(c)
	if !ok {
		return
	}

	item, err := h.service.GetStock(ctx, productID, companyID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockItem(item))
}

// UpdateAttributes handles PUT /registers/stock/balances/:productId
// Only SKU, prices and the negative stock policy are writable.
func (h *StockHandler) UpdateAttributes(c *gin.Context) {
	ctx := c.Request.Context()

	productID, companyID, ok := h.stockKey(c)
	if !ok {
		return
	}

	var req dto.UpdateStockItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.GetStock(ctx, productID, companyID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := applyStockAttributes(&item, req); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.UpdateStockAttributes(ctx, &item); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockItem(item))
}

// GetMovements handles GET /registers/stock/movements/:productId?companyId=...
func (h *StockHandler) GetMovements(c *gin.Context) {
	ctx := c.Request.Context()

	productID, companyID, ok := h.stockKey(c)
	if !ok {
		return
	}

	filter := inventory.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if sourceType := h.ParseIntQuery(c, "sourceType", 0); sourceType > 0 {
		st := entity.MovementSource(sourceType)
		filter.SourceType = &st
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid from date"))
			return
		}
		filter.FromDate = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid to date"))
			return
		}
		filter.ToDate = &t
	}

	movements, err := h.service.GetMovementHistory(ctx, productID, companyID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := make([]dto.StockMovementResponse, len(movements))
	for i, m := range movements {
		response[i] = dto.FromStockMovement(m)
	}

	c.JSON(http.StatusOK, gin.H{"items": response})
}

// AuditBalance handles GET /registers/stock/audit/:productId?companyId=...
// Compares the stored balance against the movement log.
func (h *StockHandler) AuditBalance(c *gin.Context) {
	ctx := c.Request.Context()

	productID, companyID, ok := h.stockKey(c)
	if !ok {
		return
	}

	audit, err := h.service.AuditBalance(ctx, productID, companyID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromBalanceAudit(audit))
}

func (h *StockHandler) stockKey(c *gin.Context) (productID, companyID id.ID, ok bool) {
	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return productID, companyID, false
	}

	companyID, err = id.Parse(c.Query("companyId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("companyId is required"))
		return productID, companyID, false
	}

	return productID, companyID, true
}

func applyStockAttributes(item *entity.StockItem, req dto.UpdateStockItemRequest) error {
	if req.CustomSKU != nil {
		item.CustomSKU = *req.CustomSKU
	}
	if req.SalesPrice != nil {
		price, err := types.NewMoneyFromString(*req.SalesPrice)
		if err != nil {
			return apperror.NewValidation("invalid salesPrice")
		}
		item.SalesPrice = price
	}
	if req.PurchasePrice != nil {
		price, err := types.NewMoneyFromString(*req.PurchasePrice)
		if err != nil {
			return apperror.NewValidation("invalid purchasePrice")
		}
		item.PurchasePrice = price
	}
	if req.AllowNegative != nil {
		item.AllowNegative = *req.AllowNegative
	}
	return nil
}
