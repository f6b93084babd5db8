// Package sqlstore implements the store interfaces with database/sql for
// PostgreSQL (through pgx) and SQLite (through modernc.org/sqlite).
//
// Queries are written with '?' placeholders and rebound per dialect.
// Schema migrations for both backends are embedded and applied with goose.
package sqlstore
