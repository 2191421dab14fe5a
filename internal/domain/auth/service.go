package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"billbook/internal/core/apperror"
	"billbook/internal/core/id"
	"billbook/internal/core/tx"
	"billbook/pkg/logger"
)

const (
	maxLoginAttempts = 5
	lockDuration     = 15 * time.Minute
	minPasswordLen   = 8
	bcryptCost       = 12
)

// Service handles registration and login.
type Service struct {
	employees EmployeeRepository
	jwt       *JWTService
	txManager tx.Manager
}

// NewService creates an auth service.
func NewService(employees EmployeeRepository, jwtService *JWTService, txManager tx.Manager) *Service {
	return &Service{
		employees: employees,
		jwt:       jwtService,
		txManager: txManager,
	}
}

// Register creates a new employee account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Employee, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if len(req.Password) < minPasswordLen {
		return nil, apperror.NewValidation("password must be at least 8 characters").
			WithDetail("field", "password")
	}

	exists, err := s.employees.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewDuplicate("employee", "email", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	emp := NewEmployee(email, string(hash))
	emp.Name = strings.TrimSpace(req.Name)

	if err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.employees.Create(ctx, emp)
	}); err != nil {
		return nil, err
	}

	logger.Info(ctx, "employee registered", "employee_id", emp.ID, "email", emp.Email)
	return emp, nil
}

// Login authenticates an employee and issues an access token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, *Employee, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	emp, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			// Equalize timing between unknown email and wrong password.
			_ = bcrypt.CompareHashAndPassword(
				[]byte("$2a$12$000000000000000000000uGZLKQyxQVHpZQaMYyrXuerxcUqYG1Gy"),
				[]byte(creds.Password))
			return nil, nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, nil, err
	}

	if err := emp.CanLogin(); err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(creds.Password)); err != nil {
		emp.RecordFailedLogin(maxLoginAttempts, lockDuration)
		if updateErr := s.updateLoginState(ctx, emp); updateErr != nil {
			logger.Warn(ctx, "failed to record failed login", "employee_id", emp.ID, "error", updateErr)
		}
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	emp.RecordSuccessfulLogin()
	if err := s.updateLoginState(ctx, emp); err != nil {
		logger.Warn(ctx, "failed to record successful login", "employee_id", emp.ID, "error", err)
	}

	token, err := s.jwt.GenerateAccessToken(emp)
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "employee logged in", "employee_id", emp.ID, "email", emp.Email)
	return token, emp, nil
}

// GetByID loads an employee.
func (s *Service) GetByID(ctx context.Context, empID id.ID) (*Employee, error) {
	return s.employees.GetByID(ctx, empID)
}

// ChangePassword verifies the current password and sets a new one.
func (s *Service) ChangePassword(ctx context.Context, empID id.ID, current, next string) error {
	emp, err := s.employees.GetByID(ctx, empID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(current)); err != nil {
		return apperror.NewUnauthorized("invalid credentials")
	}
	if len(next) < minPasswordLen {
		return apperror.NewValidation("password must be at least 8 characters").
			WithDetail("field", "password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcryptCost)
	if err != nil {
		return apperror.NewInternal(err)
	}
	emp.PasswordHash = string(hash)

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.employees.Update(ctx, emp)
	})
}

func (s *Service) updateLoginState(ctx context.Context, emp *Employee) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.employees.Update(ctx, emp)
	})
}
