package errors

import (
	"errors"
	"net/http"

	"parkvendor/internal/booking"
	"parkvendor/internal/repository"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// FromServiceError maps the domain error taxonomy to HTTP responses.
func FromServiceError(err error) *HTTPError {
	var parseErr *booking.ParseError
	var rateErr *booking.RateNotConfiguredError
	var transitionErr *booking.InvalidTransitionError

	switch {
	case errors.As(err, &parseErr):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &rateErr):
		return NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrOtpMismatch):
		return NewHTTPError(http.StatusForbidden, "OTP does not match")
	case errors.As(err, &transitionErr):
		return NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrStaleWrite):
		return NewHTTPError(http.StatusConflict, "booking no longer in expected state, refresh and retry")
	case errors.Is(err, repository.ErrBookingNotFound):
		return NewHTTPError(http.StatusNotFound, "booking not found")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
