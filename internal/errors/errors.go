package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrAuctionNotFound is returned when an auction is not found.
	ErrAuctionNotFound = errors.New("auction not found")
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when registering with an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrCategoryTitleTaken is returned when a category title already exists.
	ErrCategoryTitleTaken = errors.New("category title already exists")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrSocialLoginRequired is returned when a password login is attempted
	// against an account that has no password set.
	ErrSocialLoginRequired = errors.New("account has no password, use social login")
	// ErrVerificationInvalid is returned for a missing, expired or already
	// consumed email verification token.
	ErrVerificationInvalid = errors.New("invalid or expired verification token")
	// ErrUpstreamStorage is returned when the object store rejects an operation.
	ErrUpstreamStorage = errors.New("object storage unavailable")
	// ErrUpstreamIdentity is returned when the OAuth provider exchange fails.
	ErrUpstreamIdentity = errors.New("identity provider unavailable")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
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
	switch {
	case errors.Is(err, ErrAuctionNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "AUCTION_NOT_FOUND")
	case errors.Is(err, ErrCategoryNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CATEGORY_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrCategoryTitleTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "CATEGORY_TITLE_TAKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrSocialLoginRequired):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "SOCIAL_LOGIN_REQUIRED")
	case errors.Is(err, ErrVerificationInvalid):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VERIFICATION_INVALID")
	case errors.Is(err, ErrUpstreamStorage):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "STORAGE_UNAVAILABLE")
	case errors.Is(err, ErrUpstreamIdentity):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "IDENTITY_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
