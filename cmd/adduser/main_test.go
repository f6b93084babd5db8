package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteArgs(t *testing.T, extra ...string) []string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "adduser.db")
	return append([]string{"-driver", "sqlite", "-db", dbPath, "-migrate", "-cost", "4"}, extra...)
}

func TestRun_Success(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	args := sqliteArgs(t, "-user", "alice", "-password", "secret")

	err := run(context.Background(), args, &bytes.Buffer{}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), "User alice created successfully")
}

func TestRun_PromptsForPassword(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	args := sqliteArgs(t, "-user", "alice")

	err := run(context.Background(), args, strings.NewReader("piped-secret\n"), &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), "Password: ")
	assert.Contains(t, stdout.String(), "created successfully")
}

func TestRun_DuplicateUser(t *testing.T) {
	t.Parallel()

	args := sqliteArgs(t, "-user", "alice", "-password", "secret")

	require.NoError(t, run(context.Background(), args, &bytes.Buffer{}, &bytes.Buffer{}, &bytes.Buffer{}))

	err := run(context.Background(), args, &bytes.Buffer{}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRun_MissingFlags(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	err := run(context.Background(), []string{"-password", "secret", "-db", "x.db"}, &bytes.Buffer{}, &stdout, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags")
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestRun_UnknownDriver(t *testing.T) {
	t.Parallel()

	args := []string{"-driver", "mysql", "-db", "x", "-user", "alice", "-password", "secret"}
	err := run(context.Background(), args, &bytes.Buffer{}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
}
