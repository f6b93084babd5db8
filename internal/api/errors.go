package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/bucketlist-api/internal/api/shared"
	"github.com/phrazzld/bucketlist-api/internal/domain"
	"github.com/phrazzld/bucketlist-api/internal/redact"
	"github.com/phrazzld/bucketlist-api/internal/service"
	"github.com/phrazzld/bucketlist-api/internal/service/auth"
	"github.com/phrazzld/bucketlist-api/internal/store"
)

// User-facing messages.
const (
	msgUnauthorized       = "Unauthorized"
	msgUsernameTaken      = "The username is already taken"
	msgIncorrectLogin     = "Incorrect Login credentials"
	msgBucketIDMissing    = "Bucket id missing"
	msgItemIDMissing      = "Item id missing"
	msgUnexpected         = "An unexpected error occurred"
	msgBucketListNotFound = "Bucket list not found"
	msgItemNotFound       = "Item not found"
	msgUserNotFound       = "User not found"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. Errors it
// does not recognise map to 500.
func MapErrorToStatusCode(err error) int {
	var vf *ValidationFailure
	switch {
	case errors.As(err, &vf),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrNotOwner):
		return http.StatusUnauthorized

	case errors.Is(err, store.ErrUsernameExists):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return msgUnexpected
	case errors.Is(err, service.ErrNotOwner),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return msgUnauthorized
	case errors.Is(err, service.ErrInvalidCredentials):
		return msgIncorrectLogin
	case errors.Is(err, store.ErrUsernameExists):
		return msgUsernameTaken
	case errors.Is(err, store.ErrBucketListNotFound):
		return msgBucketListNotFound
	case errors.Is(err, store.ErrItemNotFound):
		return msgItemNotFound
	case errors.Is(err, store.ErrUserNotFound):
		return msgUserNotFound
	case errors.Is(err, store.ErrNotFound):
		return "Not found"
	default:
		return msgUnexpected
	}
}

// handleReadError writes the response for a failed read. Unknown errors
// become a 500 with a generic message.
func handleReadError(w http.ResponseWriter, r *http.Request, err error) {
	if respondKnownError(w, r, err) {
		return
	}
	shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, msgUnexpected, err)
}

// handleMutationError writes the response for a failed create, update or
// delete. By the time it runs the transaction has been rolled back. Unknown
// persistence errors are reported as 400 with their redacted text.
func handleMutationError(w http.ResponseWriter, r *http.Request, err error) {
	if respondKnownError(w, r, err) {
		return
	}
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, redact.Error(err), err,
		shared.WithElevatedLogLevel())
}

func respondKnownError(w http.ResponseWriter, r *http.Request, err error) bool {
	var vf *ValidationFailure
	if errors.As(err, &vf) {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, vf.Fields, err)
		return true
	}
	if dvf, ok := fromDomainValidation(err); ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, dvf.Fields, err)
		return true
	}

	status := MapErrorToStatusCode(err)
	if status == http.StatusInternalServerError {
		return false
	}
	if status == http.StatusBadRequest {
		// Store-level entity errors carry no field detail.
		shared.RespondWithErrorAndLog(w, r, status, redact.Error(err), err)
		return true
	}

	var opts []shared.ResponseOption
	if errors.Is(err, service.ErrNotOwner) {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
	return true
}
