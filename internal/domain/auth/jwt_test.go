package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billbook/internal/core/id"
)

func testEmployee() *Employee {
	emp := NewEmployee("user@example.com", "hash")
	emp.Name = "Test User"
	return emp
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	emp := testEmployee()

	token, err := svc.GenerateAccessToken(emp)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	user, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, emp.ID.String(), user.UserID)
	assert.Equal(t, "user@example.com", user.Email)
	assert.Equal(t, "Test User", user.Name)
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	validator := NewJWTService(DefaultJWTConfig("secret-b"))

	token, err := issuer.GenerateAccessToken(testEmployee())
	require.NoError(t, err)

	_, err = validator.ValidateToken(token.AccessToken)
	assert.Error(t, err)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.TokenTTL = -time.Hour
	cfg.ClockSkew = 0
	svc := NewJWTService(cfg)

	token, err := svc.GenerateAccessToken(testEmployee())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token.AccessToken)
	assert.Error(t, err)
}

func TestJWTService_GarbageToken(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)

	_, err = svc.ValidateToken("")
	assert.Error(t, err)
}

func TestJWTService_WrongIssuer(t *testing.T) {
	cfgA := DefaultJWTConfig("test-secret")
	cfgA.Issuer = "someone-else"
	issuer := NewJWTService(cfgA)

	validator := NewJWTService(DefaultJWTConfig("test-secret"))

	token, err := issuer.GenerateAccessToken(testEmployee())
	require.NoError(t, err)

	_, err = validator.ValidateToken(token.AccessToken)
	assert.Error(t, err)
}

func TestNewEmployee_Defaults(t *testing.T) {
	emp := NewEmployee("User@Example.com", "hash")
	assert.False(t, id.IsNil(emp.ID))
	assert.True(t, emp.IsActive)
	assert.False(t, emp.IsAdmin)
	assert.Equal(t, 1, emp.Version)
}
