package core

import "github.com/pkg/errors"

// FieldError ties a validation failure to one payload field, keyed by the
// field's JSON name so the form can highlight the offending input.
type FieldError struct {
	Field string
	Error string
}

// ValidationError rejects a submission or admin request as a 400 without
// touching the store. Fields carries per-field messages when they exist;
// Err alone covers whole-payload failures (e.g. an empty export).
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

type shutdown struct {
	message string
}

// NewShutdownError flags an integrity failure that should take the API
// process down gracefully instead of serving from a broken state.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
