package mocks

import (
	"errors"
	"sync/atomic"

	"github.com/phrazzld/bucketlist-api/internal/service/auth"
)

// ErrPasswordMismatch is returned by MockPasswordVerifier when Match is false.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	// Match is the result used when CompareFn is nil.
	Match     bool
	CompareFn func(hashedPassword, password string) error

	calls atomic.Int32
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements auth.PasswordVerifier
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.calls.Add(1)
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.Match {
		return nil
	}
	return ErrPasswordMismatch
}

// Calls reports how many times Compare ran.
func (m *MockPasswordVerifier) Calls() int {
	return int(m.calls.Load())
}
