package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound           = errors.New("case file not found")
	ErrConflict           = errors.New("case file was modified concurrently")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// TransitionError reports an action requested against a case file that is
// not in the required state. Carries required vs. actual for diagnosability.
type TransitionError struct {
	Action   Action
	Required []Status
	Actual   Status
}

func (e *TransitionError) Error() string {
	if len(e.Required) == 0 {
		return fmt.Sprintf("action %q is not defined for state %q", e.Action, e.Actual)
	}
	return fmt.Sprintf("action %q requires state %v, case file is %q", e.Action, e.Required, e.Actual)
}

// RoleError reports an action requested by a role that does not own it.
type RoleError struct {
	Action   Action
	Role     Role
	Required Role
}

func (e *RoleError) Error() string {
	return fmt.Sprintf("action %q requires role %q, caller is %q", e.Action, e.Required, e.Role)
}

// ValidationError reports a missing or malformed field on input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
