package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token is malformed, signed with another
	// key or algorithm, or of the wrong type.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token's lifetime has elapsed.
	ErrExpiredToken = errors.New("authentication token has expired")
)
