package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorMessage(t *testing.T) {
	single := NewValidationError("personId", "is required")
	assert.Equal(t, "validation: personId: is required", single.Error())
	assert.ErrorIs(t, single, ErrValidation)

	multi := &ValidationError{Errors: []FieldError{{Field: "a"}, {Field: "b"}}}
	assert.Equal(t, "validation: 2 errors", multi.Error())
}

func TestNewStorageError(t *testing.T) {
	assert.NoError(t, NewStorageError("op", nil))

	wrapped := fmt.Errorf("record r1: %w", ErrRecordNotFound)
	assert.Same(t, wrapped, NewStorageError("op", wrapped))

	cause := errors.New("connection reset")
	err := NewStorageError("find", cause)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "find", se.Op)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "storage: find: connection reset", err.Error())

	assert.Same(t, err, NewStorageError("other", err))
}

func TestParseDeleteMode(t *testing.T) {
	mode, err := ParseDeleteMode("")
	require.NoError(t, err)
	assert.Equal(t, DeleteSoft, mode)

	mode, err = ParseDeleteMode("HARD")
	require.NoError(t, err)
	assert.Equal(t, DeleteHard, mode)

	_, err = ParseDeleteMode("purge")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPersonnelValidate(t *testing.T) {
	assert.NoError(t, (&Personnel{Name: "Anna", Role: "Engineer"}).Validate())

	err := (&Personnel{Name: " "}).Validate()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 2)

	var nilPerson *Personnel
	assert.Nil(t, nilPerson.Summary())
}
