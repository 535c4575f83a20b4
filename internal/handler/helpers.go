package handler

import (
	"errors"
	"net/http"

	"appdeck/internal/domain"
	"appdeck/internal/httputil"
)

// handleError converts domain errors to envelope responses. Not-found gets a
// uniform message so "doesn't exist" and "someone else's" are
// indistinguishable; validation messages pass through verbatim.
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondErrorCode(w, http.StatusBadRequest, err.Error(), "validation_error")
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondErrorCode(w, http.StatusNotFound, "resource not found", "not_found")
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
