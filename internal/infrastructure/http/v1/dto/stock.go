package dto

import (
	"time"

	"billbook/internal/core/entity"
	"billbook/internal/core/types"
	"billbook/internal/domain/registers/inventory"
)

// StockItemResponse represents a stock balance row in API responses.
type StockItemResponse struct {
	ProductID     string         `json:"productId"`
	CompanyID     string         `json:"companyId"`
	CurrentStock  types.Quantity `json:"currentStock"`
	OpeningStock  types.Quantity `json:"openingStock"`
	CustomSKU     string         `json:"customSku,omitempty"`
	SalesPrice    string         `json:"salesPrice"`
	PurchasePrice string         `json:"purchasePrice"`
	AllowNegative bool           `json:"allowNegative"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// FromStockItem creates response from the balance row.
func FromStockItem(item entity.StockItem) StockItemResponse {
	return StockItemResponse{
		ProductID:     item.ProductID.String(),
		CompanyID:     item.CompanyID.String(),
		CurrentStock:  item.CurrentStock,
		OpeningStock:  item.OpeningStock,
		CustomSKU:     item.CustomSKU,
		SalesPrice:    item.SalesPrice.String(),
		PurchasePrice: item.PurchasePrice.String(),
		AllowNegative: item.AllowNegative,
		UpdatedAt:     item.UpdatedAt,
	}
}

// UpdateStockItemRequest updates company-specific stock attributes.
// The balance itself is never set through the API.
type UpdateStockItemRequest struct {
	CustomSKU     *string `json:"customSku"`
	SalesPrice    *string `json:"salesPrice"`
	PurchasePrice *string `json:"purchasePrice"`
	AllowNegative *bool   `json:"allowNegative"`
}

// StockMovementResponse represents one movement log row.
type StockMovementResponse struct {
	LineID         string         `json:"lineId"`
	ProductID      string         `json:"productId"`
	CompanyID      string         `json:"companyId"`
	SourceType     int16          `json:"sourceType"`
	SourceID       string         `json:"sourceId"`
	QuantityChange types.Quantity `json:"quantityChange"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// FromStockMovement creates response from a movement row.
func FromStockMovement(m entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		LineID:         m.LineID.String(),
		ProductID:      m.ProductID.String(),
		CompanyID:      m.CompanyID.String(),
		SourceType:     int16(m.SourceType),
		SourceID:       m.SourceID.String(),
		QuantityChange: m.QuantityChange,
		CreatedAt:      m.CreatedAt,
	}
}

// BalanceAuditResponse reports stored vs derived balance for one product.
type BalanceAuditResponse struct {
	ProductID      string         `json:"productId"`
	CompanyID      string         `json:"companyId"`
	OpeningStock   types.Quantity `json:"openingStock"`
	StoredBalance  types.Quantity `json:"storedBalance"`
	DerivedBalance types.Quantity `json:"derivedBalance"`
	Consistent     bool           `json:"consistent"`
}

// FromBalanceAudit creates response from an audit result.
func FromBalanceAudit(a inventory.BalanceAudit) BalanceAuditResponse {
	return BalanceAuditResponse{
		ProductID:      a.ProductID.String(),
		CompanyID:      a.CompanyID.String(),
		OpeningStock:   a.OpeningStock,
		StoredBalance:  a.StoredBalance,
		DerivedBalance: a.DerivedBalance,
		Consistent:     a.Consistent,
	}
}
