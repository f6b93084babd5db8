package api

import (
	"time"

	"github.com/phrazzld/bucketlist-api/internal/domain"
)

// CredentialsRequest is the payload of /auth/register and /auth/login.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,notblank,max=32"`
	Password string `json:"password" validate:"required,notblank,max=72"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    int64     `json:"user_id"`
}

// CreateBucketListRequest is the payload for creating a bucket list.
// Any created_by in the body is ignored.
type CreateBucketListRequest struct {
	Name string `json:"name" validate:"required,notblank,max=20"`
}

// UpdateBucketListRequest is the payload for renaming a bucket list.
type UpdateBucketListRequest struct {
	Name *string `json:"name" validate:"required,notblank,max=20"`
}

// CreateItemRequest is the payload for adding an item. Done is a pointer so
// that an explicit false is distinguishable from a missing field.
type CreateItemRequest struct {
	Name string `json:"name" validate:"required,notblank"`
	Done *bool  `json:"done" validate:"required"`
}

// UpdateItemRequest is a partial item update.
type UpdateItemRequest struct {
	Name *string `json:"name" validate:"omitempty,notblank"`
	Done *bool   `json:"done"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"date_created"`
	ModifiedAt time.Time `json:"date_modified"`
}

// ItemResponse is the public view of an item.
type ItemResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Done         bool      `json:"done"`
	BucketListID int64     `json:"bucket_id"`
	CreatedAt    time.Time `json:"date_created"`
	ModifiedAt   time.Time `json:"date_modified"`
}

// BucketListResponse is the public view of a bucket list with its items.
type BucketListResponse struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	OwnerID    int64          `json:"created_by"`
	Items      []ItemResponse `json:"items"`
	CreatedAt  time.Time      `json:"date_created"`
	ModifiedAt time.Time      `json:"date_modified"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		CreatedAt:  u.CreatedAt.UTC(),
		ModifiedAt: u.ModifiedAt.UTC(),
	}
}

func itemToResponse(i *domain.Item) ItemResponse {
	return ItemResponse{
		ID:           i.ID,
		Name:         i.Name,
		Done:         i.Done,
		BucketListID: i.BucketListID,
		CreatedAt:    i.CreatedAt.UTC(),
		ModifiedAt:   i.ModifiedAt.UTC(),
	}
}

func itemsToResponse(items []*domain.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, itemToResponse(i))
	}
	return out
}

func bucketListToResponse(b *domain.BucketList) BucketListResponse {
	return BucketListResponse{
		ID:         b.ID,
		Name:       b.Name,
		OwnerID:    b.OwnerID,
		Items:      itemsToResponse(b.Items),
		CreatedAt:  b.CreatedAt.UTC(),
		ModifiedAt: b.ModifiedAt.UTC(),
	}
}
