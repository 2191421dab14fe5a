package salesinvoice

import (
	"context"
	"time"

	"billbook/internal/core/id"
	"billbook/internal/domain"
)

// Repository defines operations for sales invoice documents.
type Repository interface {
	Create(ctx context.Context, inv *SalesInvoice) error
	GetByID(ctx context.Context, invID id.ID) (*SalesInvoice, error)
	GetByNumber(ctx context.Context, number string) (*SalesInvoice, error)

	// Update writes header fields with optimistic locking
	Update(ctx context.Context, inv *SalesInvoice) error

	// SetStatus updates only the status column
	SetStatus(ctx context.Context, invID id.ID, status Status) error

	// Delete removes the invoice and its lines (Draft only, enforced by the service)
	Delete(ctx context.Context, invID id.ID) error

	// GetLines returns lines in line order
	GetLines(ctx context.Context, invID id.ID) ([]Line, error)

	// ReplaceLines deletes all lines and inserts the given set
	ReplaceLines(ctx context.Context, invID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*SalesInvoice], error)

	// GetForUpdate returns the header with a row lock
	GetForUpdate(ctx context.Context, invID id.ID) (*SalesInvoice, error)
}

// ListFilter for filtering invoices.
type ListFilter struct {
	domain.ListFilter

	CustomerID *id.ID
	Status     *Status
	DateFrom   *time.Time
	DateTo     *time.Time
}
