// Package entity provides core domain entities.
package entity

import (
	"time"

	"billbook/internal/core/id"
	"billbook/internal/core/types"
)

// MovementSource identifies the document class that caused a stock change.
// Codes are fixed wire values shared with reporting.
type MovementSource int16

const (
	// MovementSourceSales - stock deducted by posting a sales invoice
	MovementSourceSales MovementSource = 1
	// MovementSourceCancellation - stock restored by cancelling a posted invoice
	MovementSourceCancellation MovementSource = 4
)

// LedgerTransactionType identifies the kind of customer ledger entry.
type LedgerTransactionType int16

const (
	// LedgerTransactionSales - debit raised by posting a sales invoice
	LedgerTransactionSales LedgerTransactionType = 1
	// LedgerTransactionReversal - credit raised by cancelling a posted invoice
	LedgerTransactionReversal LedgerTransactionType = 3
)

// StockItem is the per-(company, product) stock ledger row.
// Exactly one row per pair; mutated only by the posting engine via relative
// adjustments under a row lock.
type StockItem struct {
	// Dimensions
	ProductID id.ID `db:"product_id" json:"productId"`
	CompanyID id.ID `db:"company_id" json:"companyId"`

	// Resources
	CurrentStock types.Quantity `db:"current_stock" json:"currentStock"`

	// OpeningStock is the balance the row was created with. Immutable;
	// current_stock = opening_stock + sum(movement deltas) at all times.
	OpeningStock types.Quantity `db:"opening_stock" json:"openingStock"`

	// Company-specific product attributes
	CustomSKU     string      `db:"custom_sku" json:"customSku,omitempty"`
	SalesPrice    types.Money `db:"sales_price" json:"salesPrice"`
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`

	// AllowNegative permits current_stock to drop below zero during posting
	AllowNegative bool `db:"allow_negative" json:"allowNegative"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// StockMovement is one append-only movement log entry.
// Movements are immutable - never updated or deleted; summing quantity_change
// per (company, product) reconstructs the stock balance from ledger inception.
type StockMovement struct {
	// LineID is unique identifier for this movement line (UUIDv7)
	LineID id.ID `db:"line_id" json:"lineId"`

	// Dimensions
	ProductID id.ID `db:"product_id" json:"productId"`
	CompanyID id.ID `db:"company_id" json:"companyId"`

	// SourceType classifies the originating document (Sales=1, Cancellation=4)
	SourceType MovementSource `db:"source_type" json:"sourceType"`

	// SourceID is the originating document id (the invoice)
	SourceID id.ID `db:"source_id" json:"sourceId"`

	// QuantityChange is signed: negative deducts stock, positive restores it
	QuantityChange types.Quantity `db:"quantity_change" json:"quantityChange"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewStockMovement creates a new movement log entry.
func NewStockMovement(
	productID, companyID id.ID,
	sourceType MovementSource,
	sourceID id.ID,
	quantityChange types.Quantity,
) StockMovement {
	return StockMovement{
		LineID:         id.New(),
		ProductID:      productID,
		CompanyID:      companyID,
		SourceType:     sourceType,
		SourceID:       sourceID,
		QuantityChange: quantityChange,
		CreatedAt:      time.Now().UTC(),
	}
}

// CustomerLedgerEntry is one append-only debit/credit row on a customer account.
// Exactly one of Debit/Credit is non-zero.
type CustomerLedgerEntry struct {
	EntryID id.ID `db:"entry_id" json:"entryId"`

	// Dimensions
	CustomerID id.ID `db:"customer_id" json:"customerId"`
	CompanyID  id.ID `db:"company_id" json:"companyId"`

	// TransactionType classifies the entry (Sales=1, Reversal=3)
	TransactionType LedgerTransactionType `db:"transaction_type" json:"transactionType"`

	// ReferenceID is the originating document id (the invoice)
	ReferenceID id.ID `db:"reference_id" json:"referenceId"`

	TransactionDate time.Time `db:"transaction_date" json:"transactionDate"`

	Debit  types.Money `db:"debit" json:"debit"`
	Credit types.Money `db:"credit" json:"credit"`

	Description string `db:"description" json:"description,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewCustomerLedgerEntry creates a new customer ledger entry.
func NewCustomerLedgerEntry(
	customerID, companyID id.ID,
	transactionType LedgerTransactionType,
	referenceID id.ID,
	date time.Time,
	debit, credit types.Money,
	description string,
) CustomerLedgerEntry {
	return CustomerLedgerEntry{
		EntryID:         id.New(),
		CustomerID:      customerID,
		CompanyID:       companyID,
		TransactionType: transactionType,
		ReferenceID:     referenceID,
		TransactionDate: date,
		Debit:           debit,
		Credit:          credit,
		Description:     description,
		CreatedAt:       time.Now().UTC(),
	}
}
