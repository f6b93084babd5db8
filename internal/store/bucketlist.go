package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/bucketlist-api/internal/domain"
)

// ListParams selects a page of bucket lists for one owner.
type ListParams struct {
	OwnerID int64
	// Name filters to lists whose name equals it exactly. Empty means no filter.
	Name   string
	Limit  int
	Offset int
}

// BucketListStore defines the interface for bucket list persistence.
// Methods returning bucket lists do not populate Items; callers that need
// them load them through ItemStore.
type BucketListStore interface {
	// Create inserts the bucket list and populates its ID.
	Create(ctx context.Context, list *domain.BucketList) error

	// GetByID retrieves a bucket list regardless of owner.
	// Returns ErrBucketListNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.BucketList, error)

	// ListByOwner returns a page of the owner's bucket lists ordered by ID,
	// together with the total number matching the filter.
	ListByOwner(ctx context.Context, params ListParams) ([]*domain.BucketList, int, error)

	// Update persists the name and modification time.
	// Returns ErrBucketListNotFound if it does not exist.
	Update(ctx context.Context, list *domain.BucketList) error

	// Delete removes the bucket list; its items are removed with it.
	// Returns ErrBucketListNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new BucketListStore that uses the provided transaction.
	WithTx(tx *sql.Tx) BucketListStore
}
