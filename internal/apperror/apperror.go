package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// AppError carries a sentinel error for errors.Is dispatch plus a
// human-readable message. HTTP handlers map the sentinel to a status code.
type AppError struct {
	Err     error  // sentinel (ErrNotFound, ErrValidation, ...)
	Message string // human-readable error message
	Field   string // optional: request field causing the error
}

// Error includes the wrapped cause: log lines built from err.Error() carry
// the full story. The client-safe text is Message, which handlers read
// directly — it never includes the cause.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unauthenticated returns an AppError for a credential the identity provider
// rejected. A provider that is unreachable produces the same error kind: the
// caller cannot tell the two apart, only logs can. Pass the underlying cause
// as cause (may be nil) so it stays in the wrapped chain for diagnosis.
func Unauthenticated(message string, cause error) *AppError {
	err := error(ErrUnauthenticated)
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrUnauthenticated, cause)
	}
	return &AppError{
		Err:     err,
		Message: message,
	}
}
