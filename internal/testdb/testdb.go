package testdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/bucketlist-api/internal/platform/sqlstore"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds setup work done against the test database.
const TestTimeout = 5 * time.Second

// DiscardLogger returns a logger that drops all output.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// URL returns a fresh SQLite database path inside t's temp directory.
func URL(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "bucketlist.db")
}

// Open creates a migrated SQLite database private to t. The database is
// closed when the test finishes.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := sqlstore.Open(ctx, sqlstore.SQLite, URL(t), sqlstore.Options{}, DiscardLogger())
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	err = sqlstore.Migrate(ctx, db, sqlstore.SQLite, sqlstore.MigrateUp, DiscardLogger())
	require.NoError(t, err, "failed to migrate test database")
	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}
