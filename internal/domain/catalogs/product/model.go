// Package product provides the Product catalog.
// Each product owned by a company has exactly one stock ledger row, created
// together with the product.
package product

import (
	"context"

	"billbook/internal/core/apperror"
	"billbook/internal/core/entity"
	"billbook/internal/core/id"
	"billbook/internal/core/types"
)

// ItemType distinguishes physical goods from services.
// Services have no stock effect.
type ItemType string

const (
	ItemGoods   ItemType = "goods"
	ItemService ItemType = "service"
)

// Product represents a sellable item owned by one company.
type Product struct {
	entity.Catalog

	// CompanyID is the owning company
	CompanyID id.ID `db:"company_id" json:"companyId"`

	// HSNCode is the HSN/SAC tax classification code
	HSNCode *string `db:"hsn_code" json:"hsnCode,omitempty"`

	// ItemType: goods or service
	ItemType ItemType `db:"item_type" json:"itemType"`

	// UnitCode is the unit of measure (e.g., "PCS", "KG")
	UnitCode string `db:"unit_code" json:"unitCode"`

	// GSTRate is the default GST percentage applied on invoice lines
	GSTRate types.Money `db:"gst_rate" json:"gstRate"`
}

// StockParams holds the opening stock ledger values captured at product creation.
type StockParams struct {
	CustomSKU     string
	OpeningStock  types.Quantity
	SalesPrice    types.Money
	PurchasePrice types.Money
	AllowNegative bool
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name string, companyID id.ID, itemType ItemType, unitCode string) *Product {
	return &Product{
		Catalog:   entity.NewCatalog(code, name),
		CompanyID: companyID,
		ItemType:  itemType,
		UnitCode:  unitCode,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.CompanyID) {
		return apperror.NewValidation("company is required").
			WithDetail("field", "companyId")
	}

	if p.ItemType != ItemGoods && p.ItemType != ItemService {
		return apperror.NewValidation("invalid item type").
			WithDetail("field", "itemType").
			WithDetail("value", string(p.ItemType))
	}

	if p.UnitCode == "" {
		return apperror.NewValidation("unit code is required").
			WithDetail("field", "unitCode")
	}

	if p.GSTRate.IsNegative() {
		return apperror.NewValidation("GST rate must not be negative").
			WithDetail("field", "gstRate")
	}

	return nil
}
