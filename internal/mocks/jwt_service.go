package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/bucketlist-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	GenerateTokenFn             func(ctx context.Context, userID int64) (*auth.Token, error)
	GenerateTokenWithLifetimeFn func(ctx context.Context, userID int64, ttl time.Duration) (*auth.Token, error)
	ValidateTokenFn             func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Defaults used when the function fields are nil.
	Token       string
	Err         error
	Claims      *auth.Claims
	ValidateErr error
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements auth.JWTService
func (m *MockJWTService) GenerateToken(ctx context.Context, userID int64) (*auth.Token, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return m.GenerateTokenWithLifetime(ctx, userID, time.Hour)
}

// GenerateTokenWithLifetime implements auth.JWTService
func (m *MockJWTService) GenerateTokenWithLifetime(
	ctx context.Context,
	userID int64,
	ttl time.Duration,
) (*auth.Token, error) {
	if m.GenerateTokenWithLifetimeFn != nil {
		return m.GenerateTokenWithLifetimeFn(ctx, userID, ttl)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &auth.Token{Value: m.Token, ExpiresAt: time.Now().Add(ttl)}, nil
}

// ValidateToken implements auth.JWTService
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	if m.ValidateErr != nil {
		return nil, m.ValidateErr
	}
	return m.Claims, nil
}
