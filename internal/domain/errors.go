package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrValidation             = errors.New("validation error")
	ErrInvalidCharacter       = errors.New("invalid character")
	ErrInvalidVolpianoOpening = errors.New("invalid volpiano opening")
	ErrEmptyInputs            = errors.New("empty inputs")
)

// CharacterError reports a rune the syllabifier cannot classify.
type CharacterError struct {
	Word   string
	Char   rune
	Offset int // byte offset of Char in Word
}

func (e *CharacterError) Error() string {
	return fmt.Sprintf("invalid character %q at offset %d in %q", e.Char, e.Offset, e.Word)
}

func (e *CharacterError) Unwrap() error { return ErrInvalidCharacter }

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
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

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
