// Package errors provides the error taxonomy for catalog operations.
package errors

import (
	"errors"
	"strings"
)

var ErrProductNotFound = errors.New("product not found")

var ErrTransactionBegin = errors.New("failed to begin transaction")
var ErrTransactionCommit = errors.New("failed to commit transaction")
var ErrTransactionRollback = errors.New("failed to rollback transaction")

// ValidationError reports caller-supplied input that failed validation before
// any store interaction. Fields names the missing or malformed fields.
type ValidationError struct {
	Fields []string
}

// NewValidationError creates a ValidationError for the given fields.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	return "invalid input: " + strings.Join(e.Fields, ", ")
}

// StorageError wraps a failure of the storage layer. The transaction has
// already been rolled back by the time it is returned; the underlying message
// is surfaced to the caller unchanged.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
