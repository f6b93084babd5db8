package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bucketlist-api/internal/config"
	"github.com/phrazzld/bucketlist-api/internal/platform/sqlstore"
)

// setupAppDatabase opens the configured database and verifies the connection.
func setupAppDatabase(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (sqlstore.Dialect, *sql.DB, error) {
	dialect, err := sqlstore.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return "", nil, err
	}

	db, err := sqlstore.Open(ctx, dialect, cfg.Database.URL, sqlstore.Options{
		MaxOpenConns: cfg.Database.MaxOpenConns,
	}, logger)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open database: %w", err)
	}
	return dialect, db, nil
}
