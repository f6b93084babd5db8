package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/bucketlist-api/internal/domain"
)

// ItemStore defines the interface for bucket list item persistence.
type ItemStore interface {
	// Create inserts the item and populates its ID.
	// Returns ErrForeignKeyViolation if the bucket list does not exist.
	Create(ctx context.Context, item *domain.Item) error

	// GetByID retrieves an item by ID.
	// Returns ErrItemNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Item, error)

	// ListByBucketList returns the items of one bucket list ordered by ID.
	ListByBucketList(ctx context.Context, bucketListID int64) ([]*domain.Item, error)

	// ListByBucketLists returns the items of several bucket lists keyed by
	// bucket list ID. Lists without items have no key.
	ListByBucketLists(ctx context.Context, bucketListIDs []int64) (map[int64][]*domain.Item, error)

	// Update persists name, done and modification time.
	// Returns ErrItemNotFound if it does not exist.
	Update(ctx context.Context, item *domain.Item) error

	// Delete removes an item.
	// Returns ErrItemNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new ItemStore that uses the provided transaction.
	WithTx(tx *sql.Tx) ItemStore
}
