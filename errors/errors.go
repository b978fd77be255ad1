package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation         = fmt.Errorf("validation error")
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrDelivery           = fmt.Errorf("delivery error")
	ErrStorage            = fmt.Errorf("storage error")
	ErrNotFound           = fmt.Errorf("not found")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrInvalidPayload     = fmt.Errorf("invalid payload")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
)

// Validation wraps ErrValidation with the message surfaced to the caller.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Storage wraps a persistence failure so callers can match ErrStorage.
func Storage(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

// Delivery wraps a single live channel failure.
func Delivery(channelID string, err error) error {
	return fmt.Errorf("%w: channel %s: %v", ErrDelivery, channelID, err)
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// HTTPStatus maps domain errors to the status code returned at the HTTP boundary.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case Is(err, ErrValidation):
		return http.StatusBadRequest
	case Is(err, ErrUnauthorized), Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
