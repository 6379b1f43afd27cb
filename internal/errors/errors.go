package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidRequest is returned when required input is missing or malformed.
	ErrInvalidRequest = errors.New("missing required fields")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenMissing is returned when a request carries no bearer token.
	ErrTokenMissing = errors.New("token is missing")
	// ErrTokenInvalid is returned when a token is malformed, expired, or names no user.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrFoodNotAvailable is returned when a listing is missing or already claimed.
	ErrFoodNotAvailable = errors.New("food not available")
	// ErrFileNotFound is returned when an uploaded file does not exist.
	ErrFileNotFound = errors.New("file not found")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
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
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped context is kept
// in the message for client errors; server errors get a generic message.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrTokenMissing), errors.Is(err, ErrTokenInvalid):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrFoodNotAvailable):
		return NewHTTPError(http.StatusNotFound, err.Error(), "FOOD_NOT_AVAILABLE")
	case errors.Is(err, ErrFileNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
