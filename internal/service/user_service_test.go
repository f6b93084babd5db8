package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/bucketlist-api/internal/domain"
	"github.com/phrazzld/bucketlist-api/internal/mocks"
	"github.com/phrazzld/bucketlist-api/internal/service"
	"github.com/phrazzld/bucketlist-api/internal/service/auth"
	"github.com/phrazzld/bucketlist-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, "tim", "doe")
	require.NoError(t, err)
	assert.Positive(t, user.ID)
	assert.Empty(t, user.Password)
	assert.NotEqual(t, "doe", user.HashedPassword)

	_, err = f.users.Register(ctx, "tim", "another")
	assert.ErrorIs(t, err, store.ErrUsernameExists)

	_, err = f.users.Register(ctx, " ", "doe")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestVerifyCredentials(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	registered := f.register(t, "tim")

	user, err := f.users.VerifyCredentials(ctx, "tim", "password")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = f.users.VerifyCredentials(ctx, "tim", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = f.users.VerifyCredentials(ctx, "nobody", "password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	got, err := f.users.GetUser(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "tim", got.Username)

	_, err = f.users.GetUser(ctx, 9999)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestVerifyCredentialsUnknownUserStillCompares(t *testing.T) {
	t.Parallel()

	verifier := &mocks.MockPasswordVerifier{Match: false}
	users := &mocks.MockUserStore{
		GetByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return nil, store.ErrUserNotFound
		},
	}

	svc, err := service.NewUserService(users, verifier, nil, 4, nil)
	require.NoError(t, err)

	_, err = svc.VerifyCredentials(context.Background(), "ghost", "pw")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	assert.Equal(t, 1, verifier.Calls(), "unknown users still pay for a hash comparison")
}

func TestVerifyCredentialsStoreFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	users := &mocks.MockUserStore{
		GetByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return nil, boom
		},
	}
	svc, err := service.NewUserService(users, auth.NewBcryptVerifier(), nil, 4, nil)
	require.NoError(t, err)

	_, err = svc.VerifyCredentials(context.Background(), "tim", "pw")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, service.ErrInvalidCredentials)

	var svcErr *service.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "verify credentials", svcErr.Operation)
}

func TestNewUserServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := service.NewUserService(nil, auth.NewBcryptVerifier(), nil, 4, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.NewUserService(&mocks.MockUserStore{}, nil, nil, 4, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
