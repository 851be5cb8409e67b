package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/nickchat/internal/model"
)

// ErrorResponse is the JSON body of every error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodePlayerNotFound   = "PLAYER_NOT_FOUND"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeTooManyRequests  = "TOO_MANY_REQUESTS"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with a code and message
type httpError struct {
	status  int
	code    string
	message string
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.message, Code: he.code})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, CodePlayerNotFound, "Player not found"}
	case errors.Is(err, model.ErrNickRequired):
		return &httpError{http.StatusBadRequest, CodeInvalidRequest, "Missing 'nick' in JSON body"}
	case errors.Is(err, model.ErrNameRequired):
		return &httpError{http.StatusBadRequest, CodeInvalidRequest, "Missing 'name' query parameter"}
	case errors.Is(err, model.ErrMessageFieldsRequired):
		return &httpError{http.StatusBadRequest, CodeInvalidRequest, "Missing 'nick' or 'message_text' in JSON body"}
	case errors.Is(err, model.ErrInvalidRange):
		return &httpError{http.StatusBadRequest, CodeInvalidRequest, err.Error()}

	default:
		// Storage failures carry their message through unchanged
		msg := "Internal server error"
		if err != nil {
			msg = err.Error()
		}
		return &httpError{http.StatusInternalServerError, CodeInternalError, msg}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, CodeInvalidRequest, message}
}

// NewMissingAuthError is returned when no Authorization header is sent
func NewMissingAuthError() error {
	return &httpError{http.StatusUnauthorized, CodeUnauthorized, "Missing Authorization Header"}
}

// NewInvalidAPIKeyError is returned for a malformed header or wrong token
func NewInvalidAPIKeyError() error {
	return &httpError{http.StatusUnauthorized, CodeUnauthorized, "Invalid API Key"}
}

// NewNotFoundError creates a 404 for unknown routes
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, CodeNotFound, "Not found"}
}

// NewMethodNotAllowedError creates a 405 for known paths with the wrong method
func NewMethodNotAllowedError() error {
	return &httpError{http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed"}
}

// NewTooManyRequestsError creates a 429 for rate limited clients
func NewTooManyRequestsError() error {
	return &httpError{http.StatusTooManyRequests, CodeTooManyRequests, "Too many requests"}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, CodeInternalError, "Internal server error"}
}
