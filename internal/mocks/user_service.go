package mocks

import (
	"context"

	"github.com/phrazzld/bucketlist-api/internal/domain"
	"github.com/phrazzld/bucketlist-api/internal/service"
	"github.com/phrazzld/bucketlist-api/internal/store"
)

// MockUserService implements service.UserService for testing
type MockUserService struct {
	RegisterFn          func(ctx context.Context, username, password string) (*domain.User, error)
	VerifyCredentialsFn func(ctx context.Context, username, password string) (*domain.User, error)
	GetUserFn           func(ctx context.Context, id int64) (*domain.User, error)
}

var _ service.UserService = (*MockUserService)(nil)

// Register implements service.UserService
func (m *MockUserService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, username, password)
	}
	return &domain.User{ID: 1, Username: username}, nil
}

// VerifyCredentials implements service.UserService
func (m *MockUserService) VerifyCredentials(
	ctx context.Context,
	username, password string,
) (*domain.User, error) {
	if m.VerifyCredentialsFn != nil {
		return m.VerifyCredentialsFn(ctx, username, password)
	}
	return nil, service.ErrInvalidCredentials
}

// GetUser implements service.UserService
func (m *MockUserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}
