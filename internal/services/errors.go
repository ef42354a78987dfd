package services

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a product id does not exist.
var ErrNotFound = errors.New("not_found")

// ValidationError names the offending input field and a short reason code.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StorageError wraps an engine-level failure. The transaction it happened in is rolled back.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	var ve *ValidationError
	if errors.As(err, &se) || errors.As(err, &ve) || errors.Is(err, ErrNotFound) {
		return err
	}
	return &StorageError{Op: op, Err: errors.WithStack(err)}
}

// IsNotFound reports whether err is ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// AsValidation extracts a ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
