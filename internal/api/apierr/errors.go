package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sala-livre/batepapo/internal/model"
	"github.com/sala-livre/batepapo/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeNameTaken           = "NAME_TAKEN"
	CodeParticipantNotFound = "PARTICIPANT_NOT_FOUND"
	CodeMessageNotFound     = "MESSAGE_NOT_FOUND"
	CodeNotMessageOwner     = "NOT_MESSAGE_OWNER"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInternalError       = "INTERNAL_ERROR"
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

	// Validation failures carry the full violation list
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return &httpError{http.StatusUnprocessableEntity, APIError{
			Code:    CodeValidationFailed,
			Message: "Request validation failed",
			Details: verr.Violations,
		}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrNameTaken):
		return &httpError{http.StatusConflict, APIError{Code: CodeNameTaken, Message: "Participant name already taken"}}
	case errors.Is(err, model.ErrParticipantNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeParticipantNotFound, Message: "Participant not found"}}
	case errors.Is(err, model.ErrMessageNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeMessageNotFound, Message: "Message not found"}}
	case errors.Is(err, model.ErrNotMessageOwner):
		return &httpError{http.StatusForbidden, APIError{Code: CodeNotMessageOwner, Message: "Only the original sender may modify a message"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Invalid session"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Identity required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
