// Package testdb provides hermetic databases for tests: each call to Open
// yields a freshly migrated SQLite file that lives in the test's temp dir.
package testdb
