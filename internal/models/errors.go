package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks a call rejected before any work was done.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDegenerateInput marks an empty sample set that was replaced by
	// an identity mapping.
	ErrDegenerateInput = errors.New("degenerate input")
)

// ValidationError represents a parameter validation error
type ValidationError struct {
	Parameter string
	Value     interface{}
	Message   string
}

// NewValidationError creates a new validation error
func NewValidationError(parameter string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Parameter: parameter,
		Value:     value,
		Message:   message,
	}
}

func (ve *ValidationError) Error() string {
	if ve.Value == nil {
		return fmt.Sprintf("%v: %s %s", ErrInvalidArgument, ve.Parameter, ve.Message)
	}
	return fmt.Sprintf("%v: %s %s, got %v", ErrInvalidArgument, ve.Parameter, ve.Message, ve.Value)
}

func (ve *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}
