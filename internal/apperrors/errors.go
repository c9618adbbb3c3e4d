// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ValidationError is a client-side constraint violation. It never reaches
// the store; handlers surface it inline.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StorageError wraps a rejected object storage operation.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func NewStorageError(op, path string, err error) *StorageError {
	return &StorageError{Op: op, Path: path, Err: err}
}

// DataError wraps a rejected store operation, e.g. a constraint violation.
type DataError struct {
	Message string
	Err     error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DataError) Unwrap() error { return e.Err }

func NewDataError(message string, err error) *DataError {
	return &DataError{Message: message, Err: err}
}

// AuthError is a sign-in or sign-up rejection.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

// NotAuthorizedError means the session is valid but lacks the required role.
type NotAuthorizedError struct {
	Message string
}

func (e *NotAuthorizedError) Error() string { return e.Message }

func NewNotAuthorizedError(message string) *NotAuthorizedError {
	return &NotAuthorizedError{Message: message}
}

// ErrNotFound marks lookups that came back empty.
var ErrNotFound = errors.New("not found")

const pqForeignKeyViolation = "23503"

// IsForeignKeyViolation reports whether err is a referential integrity
// rejection from the store. Covers the postgres error code and the sqlite
// message used by the test database.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqForeignKeyViolation
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return false
}
