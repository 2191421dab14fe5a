// Package auth provides employee authentication.
package auth

import (
	"context"
	"time"

	"billbook/internal/core/apperror"
	"billbook/internal/core/id"
)

// Employee represents a system user.
type Employee struct {
	ID                  id.ID      `db:"id" json:"id"`
	Email               string     `db:"email" json:"email"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	Name                string     `db:"name" json:"name,omitempty"`
	IsActive            bool       `db:"is_active" json:"isActive"`
	IsAdmin             bool       `db:"is_admin" json:"isAdmin"`
	LastLoginAt         *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time `db:"locked_until" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updatedAt"`
	Version             int        `db:"version" json:"version"`
}

// NewEmployee creates a new employee.
func NewEmployee(email, passwordHash string) *Employee {
	now := time.Now().UTC()
	return &Employee{
		ID:           id.New(),
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}
}

// Validate validates employee data.
func (e *Employee) Validate(ctx context.Context) error {
	if e.Email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	return nil
}

// IsLocked returns true if the account is locked.
func (e *Employee) IsLocked() bool {
	if e.LockedUntil == nil {
		return false
	}
	return time.Now().Before(*e.LockedUntil)
}

// CanLogin checks if the employee can login.
func (e *Employee) CanLogin() error {
	if !e.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	if e.IsLocked() {
		return apperror.NewForbidden("account is temporarily locked")
	}
	return nil
}

// RecordFailedLogin increments the failed login counter.
func (e *Employee) RecordFailedLogin(maxAttempts int, lockDuration time.Duration) {
	e.FailedLoginAttempts++
	if e.FailedLoginAttempts >= maxAttempts {
		lockUntil := time.Now().Add(lockDuration)
		e.LockedUntil = &lockUntil
	}
}

// RecordSuccessfulLogin resets the failed login counter.
func (e *Employee) RecordSuccessfulLogin() {
	e.FailedLoginAttempts = 0
	e.LockedUntil = nil
	now := time.Now()
	e.LastLoginAt = &now
}

// Credentials for login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
}

// RegisterRequest for employee registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}
