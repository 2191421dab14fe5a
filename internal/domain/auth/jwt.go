package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"billbook/internal/core/apperror"
	appctx "billbook/internal/core/context"
)

// JWTConfig holds token signing configuration.
type JWTConfig struct {
	Secret    []byte
	Issuer    string
	TokenTTL  time.Duration
	ClockSkew time.Duration
}

// DefaultJWTConfig returns sensible defaults.
func DefaultJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret:    []byte(secret),
		Issuer:    "billbook",
		TokenTTL:  24 * time.Hour,
		ClockSkew: 30 * time.Second,
	}
}

// Claims carried in access tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}

// JWTService issues and validates access tokens.
type JWTService struct {
	cfg JWTConfig
}

// NewJWTService creates a JWT service.
func NewJWTService(cfg JWTConfig) *JWTService {
	return &JWTService{cfg: cfg}
}

// GenerateAccessToken issues a signed token for the employee.
func (s *JWTService) GenerateAccessToken(emp *Employee) (*Token, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.TokenTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   emp.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: emp.ID.String(),
		Email:  emp.Email,
		Name:   emp.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("sign token: %w", err))
	}

	return &Token{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	}, nil
}

// ValidateToken parses a token string and returns the user context.
func (s *JWTService) ValidateToken(tokenString string) (*appctx.UserContext, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperror.NewUnauthorized("unexpected signing method")
		}
		return s.cfg.Secret, nil
	},
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithLeeway(s.cfg.ClockSkew),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid or expired token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperror.NewUnauthorized("invalid token claims")
	}

	return &appctx.UserContext{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}
