package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxBucketListNameLength matches the width of bucketlists.name, in characters.
const MaxBucketListNameLength = 20

// BucketList is a named collection of items owned by a single user.
// OwnerID is fixed at creation.
type BucketList struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	OwnerID    int64     `json:"created_by"`
	Items      []*Item   `json:"items"`
	CreatedAt  time.Time `json:"date_created"`
	ModifiedAt time.Time `json:"date_modified"`
}

// NewBucketList creates a bucket list owned by ownerID.
func NewBucketList(ownerID int64, name string) (*BucketList, error) {
	now := time.Now().UTC()
	list := &BucketList{
		Name:       name,
		OwnerID:    ownerID,
		Items:      []*Item{},
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if err := list.Validate(); err != nil {
		return nil, err
	}
	return list, nil
}

// Validate checks if the BucketList has valid data.
func (b *BucketList) Validate() error {
	if b.OwnerID <= 0 {
		return NewValidationError("created_by", "must reference a user", ErrInvalidID)
	}
	if strings.TrimSpace(b.Name) == "" {
		return NewValidationError("name", "cannot be blank", nil)
	}
	if utf8.RuneCountInString(b.Name) > MaxBucketListNameLength {
		return NewValidationError("name", "is too long", nil)
	}
	return nil
}

// IsOwnedBy reports whether userID owns the bucket list.
func (b *BucketList) IsOwnedBy(userID int64) bool {
	return b.OwnerID == userID
}

// Rename sets a new name and bumps the modification time.
func (b *BucketList) Rename(name string) error {
	old := b.Name
	b.Name = name
	if err := b.Validate(); err != nil {
		b.Name = old
		return err
	}
	b.ModifiedAt = time.Now().UTC()
	return nil
}
