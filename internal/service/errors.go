package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the addressed item or post does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict means the wish item is already reserved
	ErrConflict = errors.New("already reserved")
)

// ValidationError reports a missing or invalid input field
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

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
