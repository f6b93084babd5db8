package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/bucketlist-api/internal/domain"
	"github.com/phrazzld/bucketlist-api/internal/platform/logger"
	"github.com/phrazzld/bucketlist-api/internal/store"
)

// BucketListStore implements store.BucketListStore.
type BucketListStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

var _ store.BucketListStore = (*BucketListStore)(nil)

// NewBucketListStore creates a BucketListStore.
func NewBucketListStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *BucketListStore {
	if db == nil {
		// ALLOW-PANIC: constructor precondition
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BucketListStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "bucketlist_store")),
	}
}

// WithTx returns a BucketListStore bound to tx.
func (s *BucketListStore) WithTx(tx *sql.Tx) store.BucketListStore {
	return &BucketListStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// Create inserts list and sets its ID.
func (s *BucketListStore) Create(ctx context.Context, list *domain.BucketList) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`
		INSERT INTO bucketlists (name, created_by, date_created, date_modified)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)
	err := s.db.QueryRowContext(ctx, query,
		list.Name,
		list.OwnerID,
		list.CreatedAt,
		list.ModifiedAt,
	).Scan(&list.ID)
	if err != nil {
		log.Error("failed to create bucket list",
			slog.Int64("owner_id", list.OwnerID),
			slog.String("error", err.Error()))
		return wrapWriteError("bucketlist", opCreate, err)
	}

	log.Debug("bucket list created",
		slog.Int64("bucketlist_id", list.ID),
		slog.Int64("owner_id", list.OwnerID))
	return nil
}

const bucketListColumns = `id, name, created_by, date_created, date_modified`

func scanBucketList(row interface{ Scan(...any) error }) (*domain.BucketList, error) {
	var b domain.BucketList
	if err := row.Scan(&b.ID, &b.Name, &b.OwnerID, &b.CreatedAt, &b.ModifiedAt); err != nil {
		return nil, err
	}
	b.Items = []*domain.Item{}
	return &b, nil
}

// GetByID retrieves a bucket list by ID.
func (s *BucketListStore) GetByID(ctx context.Context, id int64) (*domain.BucketList, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`SELECT ` + bucketListColumns + ` FROM bucketlists WHERE id = ?`)
	list, err := scanBucketList(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBucketListNotFound
		}
		log.Error("failed to get bucket list",
			slog.Int64("bucketlist_id", id),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return list, nil
}

// ListByOwner returns one page of the owner's lists and the total count.
func (s *BucketListStore) ListByOwner(
	ctx context.Context,
	params store.ListParams,
) ([]*domain.BucketList, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where := ` WHERE created_by = ?`
	args := []any{params.OwnerID}
	if params.Name != "" {
		where += ` AND name = ?`
		args = append(args, params.Name)
	}

	var total int
	countQuery := s.dialect.Rebind(`SELECT COUNT(*) FROM bucketlists` + where)
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count bucket lists", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	query := s.dialect.Rebind(
		`SELECT ` + bucketListColumns + ` FROM bucketlists` + where + ` ORDER BY id LIMIT ? OFFSET ?`,
	)
	rows, err := s.db.QueryContext(ctx, query, append(args, params.Limit, params.Offset)...)
	if err != nil {
		log.Error("failed to list bucket lists", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	lists := make([]*domain.BucketList, 0, params.Limit)
	for rows.Next() {
		list, err := scanBucketList(rows)
		if err != nil {
			return nil, 0, MapError(err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err)
	}
	return lists, total, nil
}

// Update persists the list's name and modification time.
func (s *BucketListStore) Update(ctx context.Context, list *domain.BucketList) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`UPDATE bucketlists SET name = ?, date_modified = ? WHERE id = ?`)
	result, err := s.db.ExecContext(ctx, query, list.Name, list.ModifiedAt, list.ID)
	if err != nil {
		log.Error("failed to update bucket list",
			slog.Int64("bucketlist_id", list.ID),
			slog.String("error", err.Error()))
		return wrapWriteError("bucketlist", opUpdate, err)
	}
	return checkRowsAffected(result, store.ErrBucketListNotFound)
}

// Delete removes the list. Items go with it through ON DELETE CASCADE.
func (s *BucketListStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`DELETE FROM bucketlists WHERE id = ?`)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete bucket list",
			slog.Int64("bucketlist_id", id),
			slog.String("error", err.Error()))
		return wrapWriteError("bucketlist", opDelete, err)
	}
	return checkRowsAffected(result, store.ErrBucketListNotFound)
}
