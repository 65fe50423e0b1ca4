package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by stores, services and the transport layer
var (
	ErrPersonNotFound = errors.New("person not found")
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrConflict       = errors.New("attendance record already exists")
	ErrValidation     = errors.New("validation error")
)

// FieldError describes a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError contains a list of field-level validation errors
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// StorageError wraps a persistence failure that is not otherwise classified
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err unless it is nil or already one of the domain errors
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrPersonNotFound, ErrRecordNotFound, ErrConflict, ErrValidation} {
		if errors.Is(err, known) {
			return err
		}
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
