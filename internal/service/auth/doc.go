// Package auth issues and verifies HS256 bearer tokens and compares
// bcrypt password hashes.
package auth
