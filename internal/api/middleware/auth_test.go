package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/bucketlist-api/internal/api/shared"
	"github.com/phrazzld/bucketlist-api/internal/domain"
	"github.com/phrazzld/bucketlist-api/internal/mocks"
	"github.com/phrazzld/bucketlist-api/internal/service"
	"github.com/phrazzld/bucketlist-api/internal/service/auth"
	"github.com/phrazzld/bucketlist-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	alice := &domain.User{ID: 7, Username: "alice"}

	jwtService := &mocks.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			switch token {
			case "good":
				return &auth.Claims{UserID: alice.ID}, nil
			case "orphan":
				return &auth.Claims{UserID: 99}, nil
			case "expired":
				return nil, auth.ErrExpiredToken
			default:
				return nil, auth.ErrInvalidToken
			}
		},
	}
	users := &mocks.MockUserService{
		GetUserFn: func(_ context.Context, id int64) (*domain.User, error) {
			if id == alice.ID {
				return alice, nil
			}
			return nil, store.ErrUserNotFound
		},
		VerifyCredentialsFn: func(_ context.Context, username, password string) (*domain.User, error) {
			if username == "alice" && password == "secret" {
				return alice, nil
			}
			return nil, service.ErrInvalidCredentials
		},
	}

	tests := []struct {
		name           string
		setup          func(r *http.Request)
		expectedStatus int
	}{
		{
			name:           "token header",
			setup:          func(r *http.Request) { r.Header.Set("token", "good") },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "bearer token",
			setup:          func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "basic credentials",
			setup:          func(r *http.Request) { r.SetBasicAuth("alice", "secret") },
			expectedStatus: http.StatusOK,
		},
		{
			name: "invalid token falls back to basic",
			setup: func(r *http.Request) {
				r.Header.Set("token", "garbage")
				r.SetBasicAuth("alice", "secret")
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "no credentials",
			setup:          func(r *http.Request) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			setup:          func(r *http.Request) { r.Header.Set("token", "expired") },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			setup:          func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "token for deleted user",
			setup:          func(r *http.Request) { r.Header.Set("token", "orphan") },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong basic password",
			setup:          func(r *http.Request) { r.SetBasicAuth("alice", "nope") },
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mw := NewAuthMiddleware(jwtService, users, nil)

			var captured *domain.User
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				captured, _ = shared.UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/bucketlists/", nil)
			tt.setup(req)
			rr := httptest.NewRecorder()

			mw.Authenticate(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusOK {
				require.True(t, called)
				require.NotNil(t, captured)
				assert.Equal(t, alice.ID, captured.ID)
				return
			}

			assert.False(t, called, "handler must not run for rejected requests")
			assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))

			var body shared.ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, "Unauthorized access", body.Error)
		})
	}
}

func TestAuthMiddleware_StoreFailureOnBasicIsUnauthorized(t *testing.T) {
	t.Parallel()

	users := &mocks.MockUserService{
		VerifyCredentialsFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, errors.New("connection refused")
		},
	}
	mw := NewAuthMiddleware(&mocks.MockJWTService{}, users, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("alice", "secret")
	rr := httptest.NewRecorder()
	mw.Authenticate(http.NotFoundHandler()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestExtractToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"none", nil, ""},
		{"token header", map[string]string{"token": "abc"}, "abc"},
		{"bearer", map[string]string{"Authorization": "Bearer abc"}, "abc"},
		{"bearer lowercase", map[string]string{"Authorization": "bearer abc"}, "abc"},
		{"token header wins", map[string]string{"token": "one", "Authorization": "Bearer two"}, "one"},
		{"basic is not a token", map[string]string{"Authorization": "Basic YWxpY2U6c2VjcmV0"}, ""},
		{"no scheme", map[string]string{"Authorization": "abc"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, extractToken(req))
		})
	}
}
