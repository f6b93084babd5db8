package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Limits shared by the request schemas and the database columns.
const (
	// MaxUsernameLength counts characters, like VARCHAR and the validator's max tag.
	MaxUsernameLength = 32
	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72
)

// User represents a registered account. A user owns zero or more bucket lists.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Password       string    `json:"-"` // Plaintext, only set between registration and hashing
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"date_created"`
	ModifiedAt     time.Time `json:"date_modified"`
}

// NewUser creates a User with the given credentials and current timestamps.
// The ID is assigned by the store. The caller is responsible for hashing
// the password before the user is persisted.
func NewUser(username, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		Username:   username,
		Password:   password,
		CreatedAt:  now,
		ModifiedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return NewValidationError("username", "cannot be blank", nil)
	}
	if utf8.RuneCountInString(u.Username) > MaxUsernameLength {
		return NewValidationError("username", "is too long", nil)
	}

	// A new user carries a plaintext password; a persisted one only its hash.
	if u.Password != "" {
		if len(u.Password) > MaxPasswordLength {
			return NewValidationError("password", "is too long", nil)
		}
		return nil
	}
	if u.HashedPassword == "" {
		return NewValidationError("password", "cannot be blank", nil)
	}
	return nil
}
