package errors

import (
	"errors"
	"net/http"

	"vidtube/internal/model"
)

var (
	// ErrMissingCredentials is returned when neither username nor email, or
	// no password, was supplied on login.
	ErrMissingCredentials = errors.New("username or email and password are required")
	// ErrUserNotFound is returned when no account matches the identifier.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidPassword is returned when password verification fails.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrMissingToken is returned when no refresh token was presented.
	ErrMissingToken = errors.New("refresh token is required")
	// ErrInvalidToken is returned when a token fails signature or expiry checks.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrTokenMismatch is returned when a refresh token verifies
	// cryptographically but does not match the stored value. The token has
	// been rotated or revoked and the client must log in again.
	ErrTokenMismatch = errors.New("refresh token is expired or has been used")
	// ErrDuplicateUser is returned when registering with a taken username or email.
	ErrDuplicateUser = errors.New("username or email already exists")
)

// HTTPError carries the client-facing status code for a failure.
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

// ToResponse converts an HTTPError to the error envelope.
func (e *HTTPError) ToResponse() model.ErrorResponse {
	return model.ErrorResponse{
		StatusCode: e.StatusCode,
		Message:    e.Message,
		Code:       e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors are
// rendered as opaque 500s so internal details never reach clients.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrMissingCredentials):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MISSING_CREDENTIALS")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrInvalidPassword):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_PASSWORD")
	case errors.Is(err, ErrMissingToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "MISSING_TOKEN")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrTokenMismatch):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "TOKEN_MISMATCH")
	case errors.Is(err, ErrDuplicateUser):
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_ALREADY_EXISTS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
