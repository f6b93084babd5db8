package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bucketlist-api/internal/domain"
	"github.com/phrazzld/bucketlist-api/internal/platform/logger"
	"github.com/phrazzld/bucketlist-api/internal/store"
)

// ItemStore implements store.ItemStore.
type ItemStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

var _ store.ItemStore = (*ItemStore)(nil)

// NewItemStore creates an ItemStore.
func NewItemStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *ItemStore {
	if db == nil {
		// ALLOW-PANIC: constructor precondition
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "item_store")),
	}
}

// WithTx returns an ItemStore bound to tx.
func (s *ItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return &ItemStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// Create inserts item and sets its ID.
func (s *ItemStore) Create(ctx context.Context, item *domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`
		INSERT INTO items (name, done, bid, date_created, date_modified)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := s.db.QueryRowContext(ctx, query,
		item.Name,
		item.Done,
		item.BucketListID,
		item.CreatedAt,
		item.ModifiedAt,
	).Scan(&item.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("item references missing bucket list",
				slog.Int64("bucketlist_id", item.BucketListID))
			return fmt.Errorf("%w: bucket list %d", store.ErrForeignKeyViolation, item.BucketListID)
		}
		log.Error("failed to create item",
			slog.Int64("bucketlist_id", item.BucketListID),
			slog.String("error", err.Error()))
		return wrapWriteError("item", opCreate, err)
	}
	return nil
}

const itemColumns = `id, name, done, bid, date_created, date_modified`

func scanItem(row interface{ Scan(...any) error }) (*domain.Item, error) {
	var i domain.Item
	if err := row.Scan(&i.ID, &i.Name, &i.Done, &i.BucketListID, &i.CreatedAt, &i.ModifiedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

// GetByID retrieves an item by ID.
func (s *ItemStore) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	query := s.dialect.Rebind(`SELECT ` + itemColumns + ` FROM items WHERE id = ?`)
	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrItemNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get item",
			slog.Int64("item_id", id),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return item, nil
}

// ListByBucketList returns a list's items ordered by ID.
func (s *ItemStore) ListByBucketList(ctx context.Context, bucketListID int64) ([]*domain.Item, error) {
	grouped, err := s.ListByBucketLists(ctx, []int64{bucketListID})
	if err != nil {
		return nil, err
	}
	if items, ok := grouped[bucketListID]; ok {
		return items, nil
	}
	return []*domain.Item{}, nil
}

// ListByBucketLists loads the items for several lists in one query.
func (s *ItemStore) ListByBucketLists(
	ctx context.Context,
	bucketListIDs []int64,
) (map[int64][]*domain.Item, error) {
	grouped := make(map[int64][]*domain.Item, len(bucketListIDs))
	if len(bucketListIDs) == 0 {
		return grouped, nil
	}

	args := make([]any, len(bucketListIDs))
	for i, id := range bucketListIDs {
		args[i] = id
	}
	query := s.dialect.Rebind(
		`SELECT ` + itemColumns + ` FROM items WHERE bid IN (` + placeholders(len(args)) + `) ORDER BY id`,
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list items",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, MapError(err)
		}
		grouped[item.BucketListID] = append(grouped[item.BucketListID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return grouped, nil
}

// Update persists name, done and modification time.
func (s *ItemStore) Update(ctx context.Context, item *domain.Item) error {
	query := s.dialect.Rebind(`UPDATE items SET name = ?, done = ?, date_modified = ? WHERE id = ?`)
	result, err := s.db.ExecContext(ctx, query, item.Name, item.Done, item.ModifiedAt, item.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update item",
			slog.Int64("item_id", item.ID),
			slog.String("error", err.Error()))
		return wrapWriteError("item", opUpdate, err)
	}
	return checkRowsAffected(result, store.ErrItemNotFound)
}

// Delete removes an item.
func (s *ItemStore) Delete(ctx context.Context, id int64) error {
	query := s.dialect.Rebind(`DELETE FROM items WHERE id = ?`)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete item",
			slog.Int64("item_id", id),
			slog.String("error", err.Error()))
		return wrapWriteError("item", opDelete, err)
	}
	return checkRowsAffected(result, store.ErrItemNotFound)
}
