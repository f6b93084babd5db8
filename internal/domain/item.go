package domain

import (
	"strings"
	"time"
)

// Item is a single entry in a bucket list.
type Item struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Done         bool      `json:"done"`
	BucketListID int64     `json:"bucket_id"`
	CreatedAt    time.Time `json:"date_created"`
	ModifiedAt   time.Time `json:"date_modified"`
}

// NewItem creates an item in the given bucket list.
func NewItem(bucketListID int64, name string, done bool) (*Item, error) {
	now := time.Now().UTC()
	item := &Item{
		Name:         name,
		Done:         done,
		BucketListID: bucketListID,
		CreatedAt:    now,
		ModifiedAt:   now,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate checks if the Item has valid data.
func (i *Item) Validate() error {
	if i.BucketListID <= 0 {
		return NewValidationError("bucket_id", "must reference a bucket list", ErrInvalidID)
	}
	if strings.TrimSpace(i.Name) == "" {
		return NewValidationError("name", "cannot be blank", nil)
	}
	return nil
}

// Apply overwrites the fields that are non-nil and bumps the modification time.
func (i *Item) Apply(name *string, done *bool) error {
	old := *i
	if name != nil {
		i.Name = *name
	}
	if done != nil {
		i.Done = *done
	}
	if err := i.Validate(); err != nil {
		*i = old
		return err
	}
	i.ModifiedAt = time.Now().UTC()
	return nil
}
