// Package auth verifies the bearer tokens dashboards present. Tokens are
// issued by the platform's identity service with the same HS256 secret.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/solarsync/internal/domain"
)

// leeway tolerates clock skew between the issuer and this service.
const leeway = 30 * time.Second

// JWTManager validates access tokens. GenerateAccessToken exists for tooling
// and tests.
type JWTManager struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
	parser    *jwt.Parser
}

// NewJWTManager creates a JWTManager. secret must be at least 32 characters;
// config validation enforces that.
func NewJWTManager(secret, issuer string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(leeway),
		),
	}
}

// accessClaims carries the scope of a dashboard caller: subject is the user
// id, role decides the row filters.
type accessClaims struct {
	jwt.RegisteredClaims
	Role domain.Role `json:"role"`
}

// GenerateAccessToken signs a token for userID with role.
func (m *JWTManager) GenerateAccessToken(userID uuid.UUID, role domain.Role) (string, error) {
	if !role.IsValid() {
		return "", fmt.Errorf("generate token: %w: unknown role %q", domain.ErrValidation, role)
	}
	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken returns the scope a token grants. Every failure wraps
// domain.ErrUnauthorized.
func (m *JWTManager) ValidateAccessToken(tokenString string) (domain.Scope, error) {
	if tokenString == "" {
		return domain.Scope{}, fmt.Errorf("%w: empty token", domain.ErrUnauthorized)
	}

	var claims accessClaims
	if _, err := m.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}); err != nil {
		return domain.Scope{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Scope{}, fmt.Errorf("%w: subject: %w", domain.ErrUnauthorized, err)
	}
	if !claims.Role.IsValid() {
		return domain.Scope{}, fmt.Errorf("%w: role %q", domain.ErrUnauthorized, claims.Role)
	}
	return domain.Scope{UserID: userID, Role: claims.Role}, nil
}

// ValidateToken adapts ValidateAccessToken to the HTTP auth middleware.
func (m *JWTManager) ValidateToken(_ context.Context, token string) (uuid.UUID, string, error) {
	scope, err := m.ValidateAccessToken(token)
	if err != nil {
		return uuid.Nil, "", err
	}
	return scope.UserID, string(scope.Role), nil
}
