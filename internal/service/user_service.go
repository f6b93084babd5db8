package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bucketlist-api/internal/domain"
	"github.com/phrazzld/bucketlist-api/internal/platform/logger"
	"github.com/phrazzld/bucketlist-api/internal/service/auth"
	"github.com/phrazzld/bucketlist-api/internal/store"
)

// UserService registers users and checks their credentials.
type UserService interface {
	// Register creates a user with a hashed password.
	// Returns store.ErrUsernameExists if the username is taken.
	Register(ctx context.Context, username, password string) (*domain.User, error)

	// VerifyCredentials returns the user when password matches.
	// Returns ErrInvalidCredentials otherwise.
	VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

type userServiceImpl struct {
	userStore store.UserStore
	verifier  auth.PasswordVerifier
	db        *sql.DB
	dummyHash string
	logger    *slog.Logger
}

var _ UserService = (*userServiceImpl)(nil)

// NewUserService creates a UserService. bcryptCost should match the cost
// the store hashes with so that failed lookups take as long as failed
// comparisons.
func NewUserService(
	userStore store.UserStore,
	verifier auth.PasswordVerifier,
	db *sql.DB,
	bcryptCost int,
	logger *slog.Logger,
) (UserService, error) {
	if userStore == nil {
		return nil, domain.NewValidationError("userStore", "cannot be nil", nil)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	dummy, err := auth.HashPassword("bucketlist-dummy-password", bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &userServiceImpl{
		userStore: userStore,
		verifier:  verifier,
		db:        db,
		dummyHash: dummy,
		logger:    logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.
func (s *userServiceImpl) Register(ctx context.Context, username, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, password)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("registration with existing username", slog.String("username", username))
			return nil, err
		}
		log.Error("failed to register user", slog.String("error", err.Error()))
		return nil, wrapErr("user", "register", err)
	}

	log.Info("user registered", slog.Int64("user_id", user.ID))
	return user, nil
}

// VerifyCredentials implements UserService.
func (s *userServiceImpl) VerifyCredentials(
	ctx context.Context,
	username, password string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Spend the same bcrypt work as a real mismatch.
			_ = s.verifier.Compare(s.dummyHash, password)
			log.Debug("credential check for unknown username")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to load user for credential check", slog.String("error", err.Error()))
		return nil, wrapErr("user", "verify credentials", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("credential check failed", slog.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser implements UserService.
func (s *userServiceImpl) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, wrapErr("user", "get", err)
	}
	return user, nil
}
