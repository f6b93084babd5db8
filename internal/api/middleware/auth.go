package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/bucketlist-api/internal/api/shared"
	"github.com/phrazzld/bucketlist-api/internal/domain"
	"github.com/phrazzld/bucketlist-api/internal/platform/logger"
	"github.com/phrazzld/bucketlist-api/internal/redact"
	"github.com/phrazzld/bucketlist-api/internal/service"
	"github.com/phrazzld/bucketlist-api/internal/service/auth"
)

// TokenHeader is the custom header a token may be sent in.
const TokenHeader = "token"

const (
	msgUnauthorizedAccess = "Unauthorized access"
	basicRealm            = `Basic realm="bucketlist"`
)

// AuthMiddleware resolves the caller from a token or HTTP Basic credentials.
type AuthMiddleware struct {
	jwtService auth.JWTService
	users      service.UserService
	logger     *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, users service.UserService, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
		logger:     logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate attaches the authenticated user to the request context.
//
// A token from the "token" header or an "Authorization: Bearer" header is
// tried first. When there is no token, or it does not verify, HTTP Basic
// credentials are checked instead. Requests that pass neither get a 401 and
// never reach next.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), m.logger)

		user := m.userFromToken(r, log)
		if user == nil {
			user = m.userFromBasic(r, log)
		}
		if user == nil {
			w.Header().Set("WWW-Authenticate", basicRealm)
			shared.RespondWithError(w, r, http.StatusUnauthorized, msgUnauthorizedAccess)
			return
		}

		ctx := shared.WithUser(r.Context(), user)
		ctx = logger.WithLogger(ctx, log.With(slog.Int64("user_id", user.ID)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) userFromToken(r *http.Request, log *slog.Logger) *domain.User {
	token := extractToken(r)
	if token == "" {
		return nil
	}

	claims, err := m.jwtService.ValidateToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			log.Debug("token expired")
		case errors.Is(err, auth.ErrInvalidToken):
			log.Debug("token rejected")
		default:
			log.Warn("failed to validate token", slog.String("error", redact.Error(err)))
		}
		return nil
	}

	user, err := m.users.GetUser(r.Context(), claims.UserID)
	if err != nil {
		log.Debug("token user not found",
			slog.Int64("user_id", claims.UserID),
			slog.String("error", redact.Error(err)))
		return nil
	}
	return user
}

func (m *AuthMiddleware) userFromBasic(r *http.Request, log *slog.Logger) *domain.User {
	username, password, ok := r.BasicAuth()
	if !ok || username == "" {
		return nil
	}

	user, err := m.users.VerifyCredentials(r.Context(), username, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("failed to verify basic credentials", slog.String("error", redact.Error(err)))
		}
		return nil
	}
	return user
}

// extractToken returns the token from the custom header, falling back to a
// Bearer authorization header.
func extractToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(TokenHeader)); token != "" {
		return token
	}

	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
