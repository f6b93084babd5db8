package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/phrazzld/bucketlist-api/internal/service"
	"github.com/phrazzld/bucketlist-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQueryNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   service.ListQuery
		want service.ListQuery
	}{
		{in: service.ListQuery{}, want: service.ListQuery{Page: 1, Limit: 20}},
		{in: service.ListQuery{Page: -3, Limit: -1}, want: service.ListQuery{Page: 1, Limit: 20}},
		{in: service.ListQuery{Page: 2, Limit: 500, Name: "x"}, want: service.ListQuery{Page: 2, Limit: 100, Name: "x"}},
		{in: service.ListQuery{Page: 3, Limit: 5}, want: service.ListQuery{Page: 3, Limit: 5}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Normalize())
	}
}

func TestBucketListLifecycle(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	list, err := f.lists.CreateBucketList(ctx, alice.ID, "Travel")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, list.OwnerID)
	assert.Empty(t, list.Items)

	_, err = f.items.CreateItem(ctx, alice.ID, list.ID, "Visit Kyoto", false)
	require.NoError(t, err)

	got, err := f.lists.GetBucketList(ctx, alice.ID, list.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)

	_, err = f.lists.GetBucketList(ctx, bob.ID, list.ID)
	assert.ErrorIs(t, err, service.ErrNotOwner)

	_, err = f.lists.GetBucketList(ctx, alice.ID, 9999)
	assert.ErrorIs(t, err, store.ErrBucketListNotFound)

	renamed, err := f.lists.RenameBucketList(ctx, alice.ID, list.ID, "Adventures")
	require.NoError(t, err)
	assert.Equal(t, "Adventures", renamed.Name)
	assert.Len(t, renamed.Items, 1)
	assert.False(t, renamed.ModifiedAt.Before(list.ModifiedAt))

	_, err = f.lists.RenameBucketList(ctx, bob.ID, list.ID, "Mine now")
	assert.ErrorIs(t, err, service.ErrNotOwner)

	assert.ErrorIs(t, f.lists.DeleteBucketList(ctx, bob.ID, list.ID), service.ErrNotOwner)
	require.NoError(t, f.lists.DeleteBucketList(ctx, alice.ID, list.ID))
	assert.ErrorIs(t, f.lists.DeleteBucketList(ctx, alice.ID, list.ID), store.ErrBucketListNotFound)
}

func TestListBucketListsPagination(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	for i := range 25 {
		_, err := f.lists.CreateBucketList(ctx, alice.ID, fmt.Sprintf("list %d", i))
		require.NoError(t, err)
	}
	_, err := f.lists.CreateBucketList(ctx, bob.ID, "list 0")
	require.NoError(t, err)

	page, err := f.lists.ListBucketLists(ctx, alice.ID, service.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Len(t, page.Lists, 20)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
	for i := 1; i < len(page.Lists); i++ {
		assert.Less(t, page.Lists[i-1].ID, page.Lists[i].ID)
	}

	page, err = f.lists.ListBucketLists(ctx, alice.ID, service.ListQuery{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Lists, 5)

	page, err = f.lists.ListBucketLists(ctx, alice.ID, service.ListQuery{Name: "list 0"})
	require.NoError(t, err)
	require.Len(t, page.Lists, 1)
	assert.Equal(t, alice.ID, page.Lists[0].OwnerID)
}
