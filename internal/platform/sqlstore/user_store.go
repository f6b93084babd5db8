package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bucketlist-api/internal/domain"
	"github.com/phrazzld/bucketlist-api/internal/platform/logger"
	"github.com/phrazzld/bucketlist-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// UserStore implements store.UserStore on top of database/sql.
type UserStore struct {
	db         store.DBTX
	dialect    Dialect
	bcryptCost int
	logger     *slog.Logger
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates a UserStore. bcryptCost is used to hash passwords
// on Create; values outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewUserStore(db store.DBTX, dialect Dialect, bcryptCost int, logger *slog.Logger) *UserStore {
	if db == nil {
		// ALLOW-PANIC: constructor precondition
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserStore{
		db:         db,
		dialect:    dialect,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("component", "user_store")),
	}
}

// WithTx returns a UserStore bound to tx.
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{db: tx, dialect: s.dialect, bcryptCost: s.bcryptCost, logger: s.logger}
}

// Create hashes the user's plaintext password and inserts the user.
// On success the plaintext is cleared and ID and HashedPassword are set.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if user.Password == "" {
		return fmt.Errorf("%w: password is required", store.ErrInvalidEntity)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return fmt.Errorf("failed to hash password: %w", err)
	}

	query := s.dialect.Rebind(`
		INSERT INTO "user" (username, password, date_created, date_modified)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)
	var id int64
	err = s.db.QueryRowContext(ctx, query,
		user.Username,
		string(hash),
		user.CreatedAt,
		user.ModifiedAt,
	).Scan(&id)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("username already taken", slog.String("username", user.Username))
			return store.ErrUsernameExists
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return wrapWriteError("user", opCreate, err)
	}

	user.ID = id
	user.HashedPassword = string(hash)
	user.Password = ""

	log.Info("user created", slog.Int64("user_id", id))
	return nil
}

const userColumns = `id, username, password, date_created, date_modified`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.HashedPassword, &u.CreatedAt, &u.ModifiedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by ID.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := s.dialect.Rebind(`SELECT ` + userColumns + ` FROM "user" WHERE id = ?`)
	return s.getOne(ctx, query, id, slog.Int64("user_id", id))
}

// GetByUsername retrieves a user by exact username.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := s.dialect.Rebind(`SELECT ` + userColumns + ` FROM "user" WHERE username = ?`)
	return s.getOne(ctx, query, username, slog.String("username", username))
}

func (s *UserStore) getOne(ctx context.Context, query string, arg any, attr slog.Attr) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", attr)
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to query user", attr, slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return user, nil
}
