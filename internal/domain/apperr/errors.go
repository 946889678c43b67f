package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors. Wrap them with context, check with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrAuthorization   = errors.New("not authorized")
	ErrConflict        = errors.New("concurrent modification")
	ErrExternalService = errors.New("external service failure")
)

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Authorization(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAuthorization, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// External wraps a capability failure; cause stays reachable through errors.Is.
func External(cause error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", ErrExternalService, fmt.Sprintf(format, args...), cause)
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsClientError reports errors caused by the caller's input or identity.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrAuthorization) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict)
}
