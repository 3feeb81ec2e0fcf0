package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the entity id has no corresponding record.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a guarded state transition lost against the stored
	// state (e.g. marking a recording processed that is not processing).
	ErrConflict = errors.New("conflict")
)

// ValidationError is bad user input. It is always local and recoverable
// and is raised before any backend call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
