package service_test

import (
	"context"
	"testing"

	"github.com/phrazzld/bucketlist-api/internal/domain"
	"github.com/phrazzld/bucketlist-api/internal/platform/sqlstore"
	"github.com/phrazzld/bucketlist-api/internal/service"
	"github.com/phrazzld/bucketlist-api/internal/service/auth"
	"github.com/phrazzld/bucketlist-api/internal/testdb"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	users service.UserService
	lists service.BucketListService
	items service.ItemService
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db := testdb.Open(t)
	log := testdb.DiscardLogger()
	userStore := sqlstore.NewUserStore(db, sqlstore.SQLite, bcrypt.MinCost, log)
	listStore := sqlstore.NewBucketListStore(db, sqlstore.SQLite, log)
	itemStore := sqlstore.NewItemStore(db, sqlstore.SQLite, log)

	users, err := service.NewUserService(userStore, auth.NewBcryptVerifier(), db, bcrypt.MinCost, log)
	require.NoError(t, err)
	lists, err := service.NewBucketListService(listStore, itemStore, db, log)
	require.NoError(t, err)
	items, err := service.NewItemService(listStore, itemStore, db, log)
	require.NoError(t, err)

	return fixture{users: users, lists: lists, items: items}
}

func (f fixture) register(t *testing.T, username string) *domain.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), username, "password")
	require.NoError(t, err)
	return u
}
