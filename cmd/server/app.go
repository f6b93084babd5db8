package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bucketlist-api/internal/config"
	"github.com/phrazzld/bucketlist-api/internal/platform/sqlstore"
	"github.com/phrazzld/bucketlist-api/internal/service"
	"github.com/phrazzld/bucketlist-api/internal/service/auth"
	"github.com/phrazzld/bucketlist-api/internal/store"
)

// application holds the shared dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore       store.UserStore
	bucketListStore store.BucketListStore
	itemStore       store.ItemStore

	jwtService        auth.JWTService
	userService       service.UserService
	bucketListService service.BucketListService
	itemService       service.ItemService
}

// newApplication wires stores and services on top of an open database.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	dialect sqlstore.Dialect,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.userStore = sqlstore.NewUserStore(db, dialect, cfg.Auth.BcryptCost, logger)
	app.bucketListStore = sqlstore.NewBucketListStore(db, dialect, logger)
	app.itemStore = sqlstore.NewItemStore(db, dialect, logger)

	app.userService, err = service.NewUserService(
		app.userStore,
		auth.NewBcryptVerifier(),
		db,
		cfg.Auth.BcryptCost,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.bucketListService, err = service.NewBucketListService(app.bucketListStore, app.itemStore, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create bucket list service: %w", err)
	}

	app.itemService, err = service.NewItemService(app.bucketListStore, app.itemStore, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create item service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
