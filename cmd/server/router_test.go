package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/bucketlist-api/internal/config"
	"github.com/phrazzld/bucketlist-api/internal/platform/sqlstore"
	"github.com/phrazzld/bucketlist-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 0, LogLevel: "debug"},
		Database: config.DatabaseConfig{
			Driver: string(sqlstore.SQLite),
			URL:    "unused",
		},
		Auth: config.AuthConfig{
			JWTSecret:            testSecret,
			TokenLifetimeMinutes: 60,
			BcryptCost:           bcrypt.MinCost,
		},
	}
}

type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	db := testdb.Open(t)
	app, err := newApplication(cfg, testdb.DiscardLogger(), db, sqlstore.SQLite)
	require.NoError(t, err)
	return &testServer{handler: app.setupRouter()}
}

type requestOption func(*http.Request)

func withToken(token string) requestOption {
	return func(r *http.Request) { r.Header.Set("token", token) }
}

func withBearer(token string) requestOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withBasic(username, password string) requestOption {
	return func(r *http.Request) { r.SetBasicAuth(username, password) }
}

func (s *testServer) do(t *testing.T, method, path string, body any, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var v []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func (s *testServer) register(t *testing.T, username, password string) {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/auth/register", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/auth/login", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	token, _ := decode(t, rr)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (s *testServer) createList(t *testing.T, token, name string) int64 {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/bucketlists/", map[string]string{"name": name}, withToken(token))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	id, ok := decode(t, rr)["id"].(float64)
	require.True(t, ok)
	return int64(id)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())
	rr := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())
	s.register(t, "alice", "secret")

	for range 2 {
		rr := s.do(t, http.MethodPost, "/auth/register", map[string]string{"username": "alice", "password": "other"})
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "The username is already taken", decode(t, rr)["error"])
	}
}

func TestRegisterThenLoginAuthenticates(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())

	for _, creds := range []struct{ username, password string }{
		{"alice", "secret"},
		{"bob_the_builder", "pässwörd with spaces"},
		{"c", "x"},
	} {
		s.register(t, creds.username, creds.password)
		token := s.login(t, creds.username, creds.password)

		listID := s.createList(t, token, "mine")

		rr := s.do(t, http.MethodGet, fmt.Sprintf("/bucketlists/%d", listID), nil, withBearer(token))
		require.Equal(t, http.StatusOK, rr.Code, creds.username)

		rr = s.do(t, http.MethodGet, fmt.Sprintf("/bucketlists/%d", listID), nil, withBasic(creds.username, creds.password))
		assert.Equal(t, http.StatusOK, rr.Code, "basic credentials authenticate too")
	}
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())
	s.register(t, "alice", "secret")

	for _, body := range []map[string]string{
		{"username": "alice", "password": "wrong"},
		{"username": "nobody", "password": "secret"},
		{"username": "alice"},
	} {
		rr := s.do(t, http.MethodPost, "/auth/login", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Incorrect Login credentials", decode(t, rr)["error"])
	}
}

func TestRejectedTokens(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())
	s.register(t, "alice", "secret")
	token := s.login(t, "alice", "secret")

	// Flip the first character of the payload segment.
	parts := strings.SplitN(token, ".", 3)
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	expiredClaims := jwt.MapClaims{
		"uid":  1,
		"type": "access",
		"sub":  strconv.Itoa(1),
		"iat":  time.Now().Add(-2 * time.Hour).Unix(),
		"exp":  time.Now().Add(-time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	// Flip the lowest bit of the final signature character.
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	lastFlipped := []byte(token)
	last := len(lastFlipped) - 1
	lastFlipped[last] = alphabet[strings.IndexByte(alphabet, lastFlipped[last])^1]

	for name, tok := range map[string]string{
		"tampered":     tampered,
		"last flipped": string(lastFlipped),
		"expired":      expired,
		"garbage":      "not-a-token",
	} {
		rr := s.do(t, http.MethodGet, "/bucketlists/", nil, withToken(tok))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, name)
		assert.Equal(t, "Unauthorized access", decode(t, rr)["error"], name)
		assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"), name)
	}

	rr := s.do(t, http.MethodGet, "/bucketlists/", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestOwnershipScoping(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())
	s.register(t, "alice", "secret")
	s.register(t, "bob", "secret")
	alice := s.login(t, "alice", "secret")
	bob := s.login(t, "bob", "secret")

	listID := s.createList(t, alice, "Travel")
	path := fmt.Sprintf("/bucketlists/%d", listID)

	rr := s.do(t, http.MethodGet, path, nil, withToken(bob))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Unauthorized", decode(t, rr)["error"])

	rr = s.do(t, http.MethodGet, path, nil, withToken(alice))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Travel", decode(t, rr)["name"])

	rr = s.do(t, http.MethodPost, path+"/items/", map[string]any{"name": "Sneaky", "done": false}, withToken(bob))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestBucketListRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())
	s.register(t, "alice", "secret")
	token := s.login(t, "alice", "secret")

	listID := s.createList(t, token, "X")
	assert.Positive(t, listID)

	rr := s.do(t, http.MethodGet, fmt.Sprintf("/bucketlists/%d/", listID), nil, withToken(token))
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode(t, rr)
	assert.Equal(t, "X", got["name"])
	assert.Equal(t, float64(listID), got["id"])
	assert.NotNil(t, got["date_created"])
}

func TestListPaginationExcludesOtherUsers(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())
	s.register(t, "alice", "secret")
	s.register(t, "bob", "secret")
	alice := s.login(t, "alice", "secret")
	bob := s.login(t, "bob", "secret")

	for i := range 3 {
		s.createList(t, alice, fmt.Sprintf("alice-%d", i))
	}
	s.createList(t, bob, "bob-0")

	rr := s.do(t, http.MethodGet, "/bucketlists/?page=1&limit=2", nil, withToken(alice))
	require.Equal(t, http.StatusOK, rr.Code)
	lists := decodeList(t, rr)
	assert.LessOrEqual(t, len(lists), 2)
	for _, l := range lists {
		assert.NotEqual(t, "bob-0", l["name"])
	}
}

func TestDeleteThenFetchIsNotFound(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())
	s.register(t, "alice", "secret")
	token := s.login(t, "alice", "secret")

	listID := s.createList(t, token, "Doomed")
	path := fmt.Sprintf("/bucketlists/%d", listID)

	rr := s.do(t, http.MethodPost, path+"/items", map[string]any{"name": "Goes too", "done": true}, withToken(token))
	require.Equal(t, http.StatusCreated, rr.Code)
	itemID := int64(decode(t, rr)["id"].(float64))

	rr = s.do(t, http.MethodDelete, path, nil, withToken(token))
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(t, http.MethodGet, path, nil, withToken(token))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodGet, fmt.Sprintf("%s/items/%d", path, itemID), nil, withToken(token))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateItemWithoutDoneFails(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())
	s.register(t, "alice", "secret")
	token := s.login(t, "alice", "secret")
	listID := s.createList(t, token, "Travel")

	rr := s.do(t, http.MethodPost, fmt.Sprintf("/bucketlists/%d/items/", listID),
		map[string]any{"name": "Skydive"}, withToken(token))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	fields, ok := decode(t, rr)["error"].(map[string]any)
	require.True(t, ok, rr.Body.String())
	assert.Contains(t, fields, "done")
}

func TestItemLifecycle(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())
	s.register(t, "alice", "secret")
	token := s.login(t, "alice", "secret")
	listID := s.createList(t, token, "Travel")
	itemsPath := fmt.Sprintf("/bucketlists/%d/items", listID)

	rr := s.do(t, http.MethodPost, itemsPath+"/", map[string]any{"name": "Kyoto", "done": false}, withToken(token))
	require.Equal(t, http.StatusCreated, rr.Code)
	itemID := int64(decode(t, rr)["id"].(float64))
	itemPath := fmt.Sprintf("%s/%d", itemsPath, itemID)

	rr = s.do(t, http.MethodPut, itemPath, map[string]any{"done": true}, withToken(token))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, decode(t, rr)["done"])

	rr = s.do(t, http.MethodGet, itemsPath, nil, withToken(token))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeList(t, rr), 1)

	rr = s.do(t, http.MethodDelete, itemPath, nil, withToken(token))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestAuthRateLimit(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Auth.LoginRatePerMinute = 1
	cfg.Auth.LoginBurst = 2
	s := newTestServer(t, cfg)

	body := map[string]string{"username": "alice", "password": "secret"}
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/auth/login", body).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/auth/login", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(t, http.MethodPost, "/auth/login", body).Code)
}

func withForwardedFor(ip string) requestOption {
	return func(r *http.Request) { r.Header.Set("X-Forwarded-For", ip) }
}

func TestAuthRateLimitIgnoresForwardedForByDefault(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Auth.LoginRatePerMinute = 1
	cfg.Auth.LoginBurst = 1
	s := newTestServer(t, cfg)

	body := map[string]string{"username": "alice", "password": "secret"}
	rr := s.do(t, http.MethodPost, "/auth/login", body, withForwardedFor("203.0.113.1"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = s.do(t, http.MethodPost, "/auth/login", body, withForwardedFor("203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code, "a rotated X-Forwarded-For must not reset the bucket")
}

func TestAuthRateLimitHonorsForwardedForBehindProxy(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Server.TrustProxyHeaders = true
	cfg.Auth.LoginRatePerMinute = 1
	cfg.Auth.LoginBurst = 1
	s := newTestServer(t, cfg)

	body := map[string]string{"username": "alice", "password": "secret"}
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/auth/login", body, withForwardedFor("203.0.113.1")).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(t, http.MethodPost, "/auth/login", body, withForwardedFor("203.0.113.1")).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/auth/login", body, withForwardedFor("203.0.113.2")).Code)
}
