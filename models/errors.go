package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both "record absent" and "record owned by someone
	// else". The two must stay indistinguishable to the caller.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateLicensePlate is the license plate uniqueness violation.
	ErrDuplicateLicensePlate = errors.New("license plate already registered")

	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSelfDelete         = errors.New("cannot delete your own account")
)

// ValidationError maps field names to client-correctable messages. The
// frontend renders the first message per field.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil lets validators build up errors and return a plain nil when clean.
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}
