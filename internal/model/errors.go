package model

import (
	"errors"
	"strings"
)

// Common errors used across the application
var (
	// Participant errors
	ErrNameTaken           = errors.New("participant name already taken")
	ErrParticipantNotFound = errors.New("participant not found")

	// Message errors
	ErrMessageNotFound = errors.New("message not found")
	ErrNotMessageOwner = errors.New("message belongs to another participant")
)

// ValidationError carries every rule the request violated, in rule order.
// It is only ever produced before any state is mutated.
type ValidationError struct {
	Violations []string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NewValidationError creates a ValidationError from violation messages
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}
