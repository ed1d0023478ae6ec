// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/tallybook/tallybook/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
//
// Unauthorized outcomes share one body whether the token was expired or
// forged, and not-owner is reported as not-found, so callers learn nothing
// about other accounts' data. Anything unmapped is an opaque 500; the caller
// never sees internal detail.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrDuplicateAccount):
		Problem(w, http.StatusConflict, "Duplicate", "account already exists")
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
	case errors.Is(err, shared.ErrTokenExpired), errors.Is(err, shared.ErrInvalidSignature):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
	case errors.Is(err, shared.ErrNotFound), errors.Is(err, shared.ErrNotOwner):
		Problem(w, http.StatusNotFound, "Not Found", "resource not found")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
