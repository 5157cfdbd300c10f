package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrEntryNotFound is returned when an entry is absent or not owned by the caller.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrMissingFields is returned when a required entry field is absent.
	ErrMissingFields = errors.New("Missing required fields")
	// ErrInvalidSales is returned when sales is negative.
	ErrInvalidSales = errors.New("sales must be non-negative")
	// ErrUnauthorized is returned when the bearer token is missing or invalid.
	ErrUnauthorized = errors.New("missing or invalid bearer token")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// RateLimitResponse is the 429 body; RetryAfter is seconds until the window resets.
type RateLimitResponse struct {
	Error      string `json:"error"`
	RetryAfter int64  `json:"retryAfter"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrEntryNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "ENTRY_NOT_FOUND")
	case ErrMissingFields:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MISSING_FIELDS")
	case ErrInvalidSales:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_SALES")
	case ErrUnauthorized:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
