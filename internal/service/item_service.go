package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/bucketlist-api/internal/domain"
	"github.com/phrazzld/bucketlist-api/internal/platform/logger"
	"github.com/phrazzld/bucketlist-api/internal/store"
)

// ItemUpdate holds the fields to overwrite; nil fields are left unchanged.
type ItemUpdate struct {
	Name *string
	Done *bool
}

// ItemService manages the items of a bucket list. Every call verifies that
// the parent list exists and belongs to userID before touching items, and
// that the addressed item belongs to that list.
type ItemService interface {
	CreateItem(ctx context.Context, userID, listID int64, name string, done bool) (*domain.Item, error)
	ListItems(ctx context.Context, userID, listID int64) ([]*domain.Item, error)
	GetItem(ctx context.Context, userID, listID, itemID int64) (*domain.Item, error)
	UpdateItem(ctx context.Context, userID, listID, itemID int64, update ItemUpdate) (*domain.Item, error)
	DeleteItem(ctx context.Context, userID, listID, itemID int64) error
}

type itemServiceImpl struct {
	lists  store.BucketListStore
	items  store.ItemStore
	db     *sql.DB
	logger *slog.Logger
}

var _ ItemService = (*itemServiceImpl)(nil)

// NewItemService creates an ItemService.
func NewItemService(
	lists store.BucketListStore,
	items store.ItemStore,
	db *sql.DB,
	logger *slog.Logger,
) (ItemService, error) {
	if lists == nil {
		return nil, domain.NewValidationError("lists", "cannot be nil", nil)
	}
	if items == nil {
		return nil, domain.NewValidationError("items", "cannot be nil", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &itemServiceImpl{
		lists:  lists,
		items:  items,
		db:     db,
		logger: logger.With(slog.String("component", "item_service")),
	}, nil
}

// itemInList loads itemID and checks it belongs to listID.
func itemInList(ctx context.Context, s store.ItemStore, listID, itemID int64) (*domain.Item, error) {
	item, err := s.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.BucketListID != listID {
		return nil, store.ErrItemNotFound
	}
	return item, nil
}

func (s *itemServiceImpl) CreateItem(
	ctx context.Context,
	userID, listID int64,
	name string,
	done bool,
) (*domain.Item, error) {
	return store.WithinTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) (*domain.Item, error) {
		if _, err := ownedList(ctx, s.lists.WithTx(tx), userID, listID); err != nil {
			return nil, err
		}
		item, err := domain.NewItem(listID, name, done)
		if err != nil {
			return nil, err
		}
		if err := s.items.WithTx(tx).Create(ctx, item); err != nil {
			return nil, err
		}
		logger.FromContextOrDefault(ctx, s.logger).Info("item created",
			slog.Int64("item_id", item.ID),
			slog.Int64("bucketlist_id", listID))
		return item, nil
	})
}

func (s *itemServiceImpl) ListItems(ctx context.Context, userID, listID int64) ([]*domain.Item, error) {
	if _, err := ownedList(ctx, s.lists, userID, listID); err != nil {
		return nil, err
	}
	items, err := s.items.ListByBucketList(ctx, listID)
	if err != nil {
		return nil, wrapErr("item", "list", err)
	}
	return items, nil
}

func (s *itemServiceImpl) GetItem(ctx context.Context, userID, listID, itemID int64) (*domain.Item, error) {
	if _, err := ownedList(ctx, s.lists, userID, listID); err != nil {
		return nil, err
	}
	return itemInList(ctx, s.items, listID, itemID)
}

func (s *itemServiceImpl) UpdateItem(
	ctx context.Context,
	userID, listID, itemID int64,
	update ItemUpdate,
) (*domain.Item, error) {
	return store.WithinTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) (*domain.Item, error) {
		if _, err := ownedList(ctx, s.lists.WithTx(tx), userID, listID); err != nil {
			return nil, err
		}
		items := s.items.WithTx(tx)
		item, err := itemInList(ctx, items, listID, itemID)
		if err != nil {
			return nil, err
		}
		if err := item.Apply(update.Name, update.Done); err != nil {
			return nil, err
		}
		if err := items.Update(ctx, item); err != nil {
			return nil, err
		}
		return item, nil
	})
}

func (s *itemServiceImpl) DeleteItem(ctx context.Context, userID, listID, itemID int64) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := ownedList(ctx, s.lists.WithTx(tx), userID, listID); err != nil {
			return err
		}
		items := s.items.WithTx(tx)
		if _, err := itemInList(ctx, items, listID, itemID); err != nil {
			return err
		}
		return items.Delete(ctx, itemID)
	})
}
