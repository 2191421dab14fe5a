package dto

import (
	"billbook/internal/core/id"
	"billbook/internal/core/types"
	"billbook/internal/domain/catalogs/product"
)

// CreateProductRequest for creating a product together with its stock row.
type CreateProductRequest struct {
	Code      string  `json:"code"`
	Name      string  `json:"name" binding:"required"`
	CompanyID string  `json:"companyId" binding:"required,uuid"`
	HSNCode   *string `json:"hsnCode"`
	ItemType  string  `json:"itemType" binding:"required,oneof=goods service"`
	UnitCode  string  `json:"unitCode" binding:"required"`
	GSTRate   string  `json:"gstRate"`

	// Opening stock ledger values
	CustomSKU     string         `json:"customSku"`
	OpeningStock  types.Quantity `json:"openingStock"`
	SalesPrice    string         `json:"salesPrice"`
	PurchasePrice string         `json:"purchasePrice"`
	AllowNegative bool           `json:"allowNegative"`
}

// ToProduct maps the request to a new domain entity.
func (r *CreateProductRequest) ToProduct() (*product.Product, error) {
	companyID, _ := id.Parse(r.CompanyID)
	p := product.NewProduct(r.Code, r.Name, companyID, product.ItemType(r.ItemType), r.UnitCode)
	p.HSNCode = r.HSNCode

	if r.GSTRate != "" {
		rate, err := types.NewMoneyFromString(r.GSTRate)
		if err != nil {
			return nil, err
		}
		p.GSTRate = rate
	}

	return p, nil
}

// ToStockParams maps the opening stock values.
func (r *CreateProductRequest) ToStockParams() (product.StockParams, error) {
	params := product.StockParams{
		CustomSKU:     r.CustomSKU,
		OpeningStock:  r.OpeningStock,
		AllowNegative: r.AllowNegative,
	}

	var err error
	if r.SalesPrice != "" {
		if params.SalesPrice, err = types.NewMoneyFromString(r.SalesPrice); err != nil {
			return params, err
		}
	}
	if r.PurchasePrice != "" {
		if params.PurchasePrice, err = types.NewMoneyFromString(r.PurchasePrice); err != nil {
			return params, err
		}
	}

	return params, nil
}

// UpdateProductRequest for updating a product.
type UpdateProductRequest struct {
	Name     *string `json:"name"`
	HSNCode  *string `json:"hsnCode"`
	ItemType *string `json:"itemType" binding:"omitempty,oneof=goods service"`
	UnitCode *string `json:"unitCode"`
	GSTRate  *string `json:"gstRate"`
	Version  int     `json:"version" binding:"required,min=1"`
}

// Apply maps the request onto an existing entity.
func (r *UpdateProductRequest) Apply(p *product.Product) (*product.Product, error) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.HSNCode != nil {
		p.HSNCode = r.HSNCode
	}
	if r.ItemType != nil {
		p.ItemType = product.ItemType(*r.ItemType)
	}
	if r.UnitCode != nil {
		p.UnitCode = *r.UnitCode
	}
	if r.GSTRate != nil {
		rate, err := types.NewMoneyFromString(*r.GSTRate)
		if err != nil {
			return nil, err
		}
		p.GSTRate = rate
	}
	p.Version = r.Version
	return p, nil
}

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	CatalogResponse
	CompanyID string  `json:"companyId"`
	HSNCode   *string `json:"hsnCode,omitempty"`
	ItemType  string  `json:"itemType"`
	UnitCode  string  `json:"unitCode"`
	GSTRate   string  `json:"gstRate"`
}

// FromProduct creates response from domain entity.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		CatalogResponse: FromCatalog(p.Catalog),
		CompanyID:       p.CompanyID.String(),
		HSNCode:         p.HSNCode,
		ItemType:        string(p.ItemType),
		UnitCode:        p.UnitCode,
		GSTRate:         p.GSTRate.String(),
	}
}
