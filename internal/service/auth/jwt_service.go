package auth

import (
	"context"
	"time"
)

// TokenTypeAccess is the only token type this service issues.
const TokenTypeAccess = "access"

// JWTService issues and verifies signed bearer tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for userID using the
	// configured lifetime.
	GenerateToken(ctx context.Context, userID int64) (*Token, error)

	// GenerateTokenWithLifetime creates a signed access token valid from now
	// until now+ttl.
	GenerateTokenWithLifetime(ctx context.Context, userID int64, ttl time.Duration) (*Token, error)

	// ValidateToken verifies the signature, algorithm, type and validity
	// window of tokenString. It returns ErrExpiredToken once the lifetime has
	// elapsed and ErrInvalidToken for every other failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Token is a signed token together with its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Claims is the verified content of a token.
type Claims struct {
	UserID    int64
	TokenType string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
