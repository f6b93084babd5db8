package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/bucketlist-api/internal/store"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

type violation int

const (
	noViolation violation = iota
	uniqueViolation
	foreignKeyViolation
	checkViolation
	notNullViolation
)

func classify(err error) violation {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return uniqueViolation
		case foreignKeyViolationCode:
			return foreignKeyViolation
		case checkViolationCode:
			return checkViolation
		case notNullViolationCode:
			return notNullViolation
		}
		return noViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return uniqueViolation
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return foreignKeyViolation
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return checkViolation
		case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return notNullViolation
		}
	}
	return noViolation
}

// MapError maps a database error to the matching store error, wrapping the
// original for debugging. Errors without a mapping are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	switch classify(err) {
	case uniqueViolation:
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case foreignKeyViolation:
		return fmt.Errorf("%w: %v", store.ErrForeignKeyViolation, err)
	case checkViolation:
		return fmt.Errorf("%w: check constraint violation: %v", store.ErrInvalidEntity, err)
	case notNullViolation:
		return fmt.Errorf("%w: not null violation: %v", store.ErrInvalidEntity, err)
	}
	return err
}

// Operations named in store errors.
const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// wrapWriteError maps err and records which entity and operation failed.
// Update and delete failures also match store.ErrUpdateFailed and
// store.ErrDeleteFailed.
func wrapWriteError(entity, operation string, err error) error {
	mapped := MapError(err)
	switch operation {
	case opUpdate:
		mapped = fmt.Errorf("%w: %w", store.ErrUpdateFailed, mapped)
	case opDelete:
		mapped = fmt.Errorf("%w: %w", store.ErrDeleteFailed, mapped)
	}
	return store.NewStoreError(entity, operation, "query failed", mapped)
}

// IsUniqueViolation reports whether err is a unique constraint violation
// from either backend.
func IsUniqueViolation(err error) bool {
	return classify(err) == uniqueViolation
}

// IsForeignKeyViolation reports whether err is a foreign key violation
// from either backend.
func IsForeignKeyViolation(err error) bool {
	return classify(err) == foreignKeyViolation
}

// checkRowsAffected returns notFound when an UPDATE or DELETE touched no rows.
func checkRowsAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
