// internal/app/system/errs/errs.go
//
// Package errs defines the stable error kinds shared by the stores, the
// engagement tracker, and the JSON boundary. Stores wrap driver errors into
// one of these kinds so handlers can map them to status codes without
// knowing anything about MongoDB or Elasticsearch.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a subject, unit, material, user, bookmark, or
	// request could not be addressed. Never retried.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateCode means a subject with the same code already exists.
	ErrDuplicateCode = errors.New("subject code already exists")

	// ErrDuplicateEmail means a user with the same email already exists.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrConflict means a uniqueness or concurrency conflict that the
	// caller may retry at a higher level.
	ErrConflict = errors.New("conflict")

	// ErrForbidden means the principal is authenticated but does not own
	// the resource it is trying to modify.
	ErrForbidden = errors.New("forbidden")

	// ErrIndexUnavailable is an internal routing signal: the external
	// search index cannot serve the request and the fallback engine should
	// be used. It must never reach a caller.
	ErrIndexUnavailable = errors.New("search index unavailable")
)

// ValidationError reports missing or malformed input. Reported to the
// caller as-is, never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
