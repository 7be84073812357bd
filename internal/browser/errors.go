package browser

import (
	"errors"
	"fmt"
)

var (
	// ErrAtRoot is returned when ascending past the root directory
	ErrAtRoot = errors.New("already at the root directory")
	// ErrNoSelection is returned by commands that need a selected entry
	ErrNoSelection = errors.New("no entry selected")
	// ErrEditInProgress is returned when an edit starts while another is active
	ErrEditInProgress = errors.New("another edit is in progress")
	// ErrConfirmationRequired is returned by destructive commands until confirmed
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrCommandDisabled is returned when the gate does not enable a command
	ErrCommandDisabled = errors.New("command is not available")
	// ErrPermissionDenied is returned when the user level is below the command level
	ErrPermissionDenied = errors.New("insufficient permission level")
)

// ValidationError is a client-side rejection of user input
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Value, e.Reason)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
