// Package mocks provides hand-written mock implementations of the store,
// service and auth interfaces for tests.
//
// Each mock exposes function fields (CreateFn, ValidateTokenFn, ...) that
// override the default behaviour when set:
//
//	users := &mocks.MockUserService{
//	    GetUserFn: func(ctx context.Context, id int64) (*domain.User, error) {
//	        return &domain.User{ID: id, Username: "tim"}, nil
//	    },
//	}
package mocks
