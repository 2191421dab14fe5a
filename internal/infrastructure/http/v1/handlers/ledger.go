package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"billbook/internal/core/apperror"
	"billbook/internal/core/id"
	"billbook/internal/domain/registers/ledger"
	"billbook/internal/infrastructure/http/v1/dto"
)

// LedgerHandler handles customer ledger endpoints.
type LedgerHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(base *BaseHandler, service *ledger.Service) *LedgerHandler {
	return &LedgerHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetStatement handles GET /registers/ledger/:customerId/statement
func (h *LedgerHandler) GetStatement(c *gin.Context) {
	ctx := c.Request.Context()

	customerID, err := id.Parse(c.Param("customerId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid customerId format"))
		return
	}

	filter := ledger.Filter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if companyID := c.Query("companyId"); companyID != "" {
		parsed, err := id.Parse(companyID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid companyId format"))
			return
		}
		filter.CompanyID = &parsed
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

	lines, err := h.service.GetStatement(ctx, customerID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := make([]dto.StatementLineResponse, len(lines))
	for i, line := range lines {
		response[i] = dto.FromStatementLine(line)
	}

	c.JSON(http.StatusOK, gin.H{"items": response})
}

// GetBalance handles GET /registers/ledger/:customerId/balance
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	ctx := c.Request.Context()

	customerID, err := id.Parse(c.Param("customerId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid customerId format"))
		return
	}

	balance, err := h.service.GetBalance(ctx, customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromBalance(balance))
}

// GetByReference handles GET /registers/ledger/reference/:referenceId
// Returns all ledger rows raised by one document.
func (h *LedgerHandler) GetByReference(c *gin.Context) {
	ctx := c.Request.Context()

	referenceID, err := id.Parse(c.Param("referenceId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid referenceId format"))
		return
	}

	entries, err := h.service.GetByReference(ctx, referenceID)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := make([]dto.LedgerEntryResponse, len(entries))
	for i, e := range entries {
		response[i] = dto.FromLedgerEntry(e)
	}

	c.JSON(http.StatusOK, gin.H{"items": response})
}
