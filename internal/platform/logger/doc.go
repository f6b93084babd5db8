// Package logger configures the process-wide slog JSON logger and carries
// request-scoped loggers (with trace and user attributes) through contexts.
package logger
