package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/bucketlist-api/internal/domain"
	"github.com/phrazzld/bucketlist-api/internal/platform/logger"
	"github.com/phrazzld/bucketlist-api/internal/store"
)

// Pagination bounds for ListBucketLists.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListQuery selects a page of the caller's bucket lists.
type ListQuery struct {
	Page  int
	Limit int
	// Name is an exact-match filter; empty disables it.
	Name string
}

// Normalize replaces out-of-range values with the defaults and caps Limit.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

// BucketListPage is one page of bucket lists with their items loaded.
type BucketListPage struct {
	Lists []*domain.BucketList
	Total int
	Page  int
	Limit int
}

// BucketListService manages bucket lists on behalf of their owner.
// Every method takes the authenticated user's ID first.
type BucketListService interface {
	CreateBucketList(ctx context.Context, userID int64, name string) (*domain.BucketList, error)
	ListBucketLists(ctx context.Context, userID int64, query ListQuery) (*BucketListPage, error)

	// GetBucketList returns the list with its items. It returns
	// store.ErrBucketListNotFound if the ID does not exist and ErrNotOwner if
	// another user owns it.
	GetBucketList(ctx context.Context, userID, listID int64) (*domain.BucketList, error)

	RenameBucketList(ctx context.Context, userID, listID int64, name string) (*domain.BucketList, error)

	// DeleteBucketList removes the list and all of its items.
	DeleteBucketList(ctx context.Context, userID, listID int64) error
}

type bucketListServiceImpl struct {
	lists  store.BucketListStore
	items  store.ItemStore
	db     *sql.DB
	logger *slog.Logger
}

var _ BucketListService = (*bucketListServiceImpl)(nil)

// NewBucketListService creates a BucketListService.
func NewBucketListService(
	lists store.BucketListStore,
	items store.ItemStore,
	db *sql.DB,
	logger *slog.Logger,
) (BucketListService, error) {
	if lists == nil {
		return nil, domain.NewValidationError("lists", "cannot be nil", nil)
	}
	if items == nil {
		return nil, domain.NewValidationError("items", "cannot be nil", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &bucketListServiceImpl{
		lists:  lists,
		items:  items,
		db:     db,
		logger: logger.With(slog.String("component", "bucketlist_service")),
	}, nil
}

// ownedList loads a list through s and checks it belongs to userID.
func ownedList(ctx context.Context, s store.BucketListStore, userID, listID int64) (*domain.BucketList, error) {
	list, err := s.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.IsOwnedBy(userID) {
		logger.FromContext(ctx).Warn("access to bucket list owned by another user",
			slog.Int64("bucketlist_id", listID),
			slog.Int64("user_id", userID))
		return nil, ErrNotOwner
	}
	return list, nil
}

func (s *bucketListServiceImpl) CreateBucketList(
	ctx context.Context,
	userID int64,
	name string,
) (*domain.BucketList, error) {
	list, err := domain.NewBucketList(userID, name)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.lists.WithTx(tx).Create(ctx, list)
	})
	if err != nil {
		return nil, wrapErr("bucketlist", "create", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("bucket list created",
		slog.Int64("bucketlist_id", list.ID),
		slog.Int64("user_id", userID))
	return list, nil
}

func (s *bucketListServiceImpl) ListBucketLists(
	ctx context.Context,
	userID int64,
	query ListQuery,
) (*BucketListPage, error) {
	query = query.Normalize()

	lists, total, err := s.lists.ListByOwner(ctx, store.ListParams{
		OwnerID: userID,
		Name:    query.Name,
		Limit:   query.Limit,
		Offset:  (query.Page - 1) * query.Limit,
	})
	if err != nil {
		return nil, wrapErr("bucketlist", "list", err)
	}

	ids := make([]int64, len(lists))
	for i, l := range lists {
		ids[i] = l.ID
	}
	grouped, err := s.items.ListByBucketLists(ctx, ids)
	if err != nil {
		return nil, wrapErr("bucketlist", "list items", err)
	}
	for _, l := range lists {
		if items, ok := grouped[l.ID]; ok {
			l.Items = items
		}
	}

	return &BucketListPage{Lists: lists, Total: total, Page: query.Page, Limit: query.Limit}, nil
}

func (s *bucketListServiceImpl) GetBucketList(
	ctx context.Context,
	userID, listID int64,
) (*domain.BucketList, error) {
	list, err := ownedList(ctx, s.lists, userID, listID)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListByBucketList(ctx, list.ID)
	if err != nil {
		return nil, wrapErr("bucketlist", "get items", err)
	}
	list.Items = items
	return list, nil
}

func (s *bucketListServiceImpl) RenameBucketList(
	ctx context.Context,
	userID, listID int64,
	name string,
) (*domain.BucketList, error) {
	return store.WithinTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) (*domain.BucketList, error) {
		lists := s.lists.WithTx(tx)
		list, err := ownedList(ctx, lists, userID, listID)
		if err != nil {
			return nil, err
		}
		if err := list.Rename(name); err != nil {
			return nil, err
		}
		if err := lists.Update(ctx, list); err != nil {
			return nil, err
		}
		items, err := s.items.WithTx(tx).ListByBucketList(ctx, list.ID)
		if err != nil {
			return nil, err
		}
		list.Items = items
		return list, nil
	})
}

func (s *bucketListServiceImpl) DeleteBucketList(ctx context.Context, userID, listID int64) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		lists := s.lists.WithTx(tx)
		if _, err := ownedList(ctx, lists, userID, listID); err != nil {
			return err
		}
		return lists.Delete(ctx, listID)
	})
	if err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("bucket list deleted",
		slog.Int64("bucketlist_id", listID),
		slog.Int64("user_id", userID))
	return nil
}
