package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jswain/turfsplit/internal/model"
	"github.com/jswain/turfsplit/internal/services/identity"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodeSessionNotFound      = "SESSION_NOT_FOUND"
	CodeEntryNotFound        = "ENTRY_NOT_FOUND"
	CodeIdentityNotFound     = "IDENTITY_NOT_FOUND"
	CodeAlreadyJoined        = "ALREADY_JOINED"
	CodeSquadFull            = "SQUAD_FULL"
	CodeNotClaimable         = "NOT_CLAIMABLE"
	CodeIllegalTransition    = "ILLEGAL_TRANSITION"
	CodeStatusConflict       = "STATUS_CONFLICT"
	CodeUsernameExists       = "USERNAME_EXISTS"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeStorageUnavailable   = "STORAGE_UNAVAILABLE"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrValidation):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}
	case errors.Is(err, model.ErrConfirmationRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeConfirmationRequired, "Destructive action requires confirmation"}}
	case errors.Is(err, model.ErrUnauthorized):
		return &httpError{http.StatusForbidden, APIError{CodeForbidden, "You are not allowed to perform this action"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrEntryNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeEntryNotFound, "Roster entry not found"}}
	case errors.Is(err, model.ErrIdentityNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeIdentityNotFound, "Identity not found"}}
	case errors.Is(err, model.ErrAlreadyJoined):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyJoined, "This identity already has a roster entry"}}
	case errors.Is(err, model.ErrSquadFull):
		return &httpError{http.StatusConflict, APIError{CodeSquadFull, "The roster is full"}}
	case errors.Is(err, model.ErrNotClaimable):
		return &httpError{http.StatusConflict, APIError{CodeNotClaimable, "This entry is already owned"}}
	case errors.Is(err, model.ErrIllegalTransition):
		return &httpError{http.StatusConflict, APIError{CodeIllegalTransition, "Payment status transition not allowed"}}
	case errors.Is(err, model.ErrStatusConflict):
		return &httpError{http.StatusConflict, APIError{CodeStatusConflict, "Payment status changed concurrently, reload and retry"}}
	case errors.Is(err, model.ErrRemoteWrite):
		return &httpError{http.StatusBadGateway, APIError{CodeStorageUnavailable, "Storage write failed, no changes were applied"}}

	// Map identity errors
	case errors.Is(err, identity.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, identity.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired token"}}
	case errors.Is(err, identity.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
