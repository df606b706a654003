package handler

// Response helpers shared by every handler. All error responses have the
// same shape:
//
//	{"error": "not_found", "message": "item not found with id abc123"}
//
// so the frontend can parse any failure the same way regardless of status.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alvaro-reta/solari-market/internal/apperror"
	"github.com/alvaro-reta/solari-market/internal/auth"
	"github.com/alvaro-reta/solari-market/internal/model"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`           // machine-readable category
	Message string `json:"message"`         // human-readable description
	Field   string `json:"field,omitempty"` // offending field for validation errors
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must be set before the body; once Encode writes, they are fixed.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// currentUser pulls the authenticated user injected by the auth middleware.
// Routes behind RequireAuth always have one; the guard covers a misrouted
// handler that was never put behind the middleware.
func currentUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
	}
	return user, ok
}

// writeError maps a domain error to an HTTP status code and sends it.
//
// The service layer returns apperror categories with no knowledge of HTTP;
// this is the single place where that translation happens. errors.Is walks
// the wrap chain, so services are free to annotate errors with fmt.Errorf
// and %w without breaking the mapping.
//
// A partial settlement maps to 500 with its own category rather than a
// generic internal error: the client must surface it differently, because
// money may have moved even though the request failed.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrSelfOffer):
			status = http.StatusBadRequest
			errorType = "self_offer"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrDuplicate):
			status = http.StatusConflict
			errorType = "duplicate"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		case errors.Is(err, apperror.ErrNotAvailable):
			status = http.StatusConflict
			errorType = "not_available"
		case errors.Is(err, apperror.ErrInsufficientFunds):
			status = http.StatusUnprocessableEntity
			errorType = "insufficient_funds"
		case errors.Is(err, apperror.ErrStoreUnavailable):
			status = http.StatusServiceUnavailable
			errorType = "store_unavailable"
		case errors.Is(err, apperror.ErrPartialSettlement):
			status = http.StatusInternalServerError
			errorType = "partial_settlement"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
			Field:   appErr.Field,
		})
		return
	}

	// Unknown error. Never expose internals to the client; the full error
	// is already in the server log.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
