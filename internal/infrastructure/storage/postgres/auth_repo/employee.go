// Package auth_repo provides the PostgreSQL employee repository.
package auth_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"billbook/internal/core/apperror"
	"billbook/internal/core/id"
	"billbook/internal/domain/auth"
	"billbook/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ auth.EmployeeRepository = (*EmployeeRepo)(nil)

var employeeColumns = postgres.ExtractDBColumns[auth.Employee]()

// EmployeeRepo is the PostgreSQL repository for employees.
type EmployeeRepo struct {
	txManager *postgres.TxManager
}

// NewEmployeeRepo creates an employee repository.
func NewEmployeeRepo(txManager *postgres.TxManager) *EmployeeRepo {
	return &EmployeeRepo{txManager: txManager}
}

func (r *EmployeeRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new employee.
func (r *EmployeeRepo) Create(ctx context.Context, emp *auth.Employee) error {
	q := r.builder().
		Insert("employees").
		SetMap(postgres.StructToMap(emp))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("employee", "email", emp.Email)
		}
		return fmt.Errorf("insert employees: %w", err)
	}

	return nil
}

// GetByID retrieves an employee by ID.
func (r *EmployeeRepo) GetByID(ctx context.Context, empID id.ID) (*auth.Employee, error) {
	return r.getOne(ctx, squirrel.Eq{"id": empID}, empID.String())
}

// GetByEmail retrieves an employee by email (case-insensitive).
func (r *EmployeeRepo) GetByEmail(ctx context.Context, email string) (*auth.Employee, error) {
	return r.getOne(ctx, squirrel.Eq{"email": strings.ToLower(email)}, email)
}

func (r *EmployeeRepo) getOne(ctx context.Context, where squirrel.Eq, key string) (*auth.Employee, error) {
	q := r.builder().
		Select(employeeColumns...).
		From("employees").
		Where(where).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	emp := &auth.Employee{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), emp, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("employee", key)
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}

	return emp, nil
}

// Update writes employee fields with optimistic locking.
func (r *EmployeeRepo) Update(ctx context.Context, emp *auth.Employee) error {
	data := postgres.StructToMap(emp)
	delete(data, "id")
	delete(data, "version")
	delete(data, "created_at")

	q := r.builder().
		Update("employees").
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": emp.ID}).
		Where(squirrel.Eq{"version": emp.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update employees: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("employee", emp.ID.String())
	}

	// Keep the in-memory version in step with the row.
	emp.Version++

	return nil
}

// ExistsByEmail checks if an employee with the given email exists.
func (r *EmployeeRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := r.builder().
		Select("1").
		From("employees").
		Where(squirrel.Eq{"email": strings.ToLower(email)}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists by email: %w", err)
	}

	return true, nil
}
