package auth

import (
	"context"

	"billbook/internal/core/id"
)

// EmployeeRepository persists employees.
type EmployeeRepository interface {
	Create(ctx context.Context, emp *Employee) error
	GetByID(ctx context.Context, empID id.ID) (*Employee, error)
	GetByEmail(ctx context.Context, email string) (*Employee, error)
	Update(ctx context.Context, emp *Employee) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
