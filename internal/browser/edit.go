package browser

import (
	"fmt"
	"strings"
)

// EditState is the modal operation currently in progress
type EditState int

const (
	EditIdle EditState = iota
	EditRenaming
	EditCreatingFolder
	EditUploading
	EditSearching
)

func (s EditState) String() string {
	switch s {
	case EditIdle:
		return "idle"
	case EditRenaming:
		return "rename"
	case EditCreatingFolder:
		return "new folder"
	case EditUploading:
		return "upload"
	case EditSearching:
		return "search"
	default:
		return fmt.Sprintf("EditState(%d)", int(s))
	}
}

// DefaultFolderName pre-fills the new folder prompt
const DefaultFolderName = "New Folder"

// maxNameLength matches the server's file name limit in bytes
const maxNameLength = 255

// EditWorkflow is the state machine behind the edit modal. Entering a state
// is immediate; the request to focus the input is raised separately and
// consumed once by the UI.
type EditWorkflow struct {
	state        EditState
	buffer       string
	focusPending bool
}

// Begin enters state from Idle. For a rename the buffer is pre-filled with
// selectedKey relative to currentPath.
func (w *EditWorkflow) Begin(state EditState, selectedKey, currentPath string) error {
	if w.state != EditIdle {
		return fmt.Errorf("cannot start %s: %w (%s)", state, ErrEditInProgress, w.state)
	}

	switch state {
	case EditRenaming:
		if selectedKey == "" {
			return ErrNoSelection
		}
		w.buffer = strings.TrimPrefix(selectedKey, Normalize(currentPath))
	case EditCreatingFolder:
		w.buffer = DefaultFolderName
	case EditUploading, EditSearching:
		w.buffer = ""
	default:
		return fmt.Errorf("cannot begin edit state %s", state)
	}

	w.state = state
	w.focusPending = true
	return nil
}

// State returns the current state
func (w *EditWorkflow) State() EditState { return w.state }

// Active reports whether a modal operation is in progress
func (w *EditWorkflow) Active() bool { return w.state != EditIdle }

// Buffer returns the text buffer
func (w *EditWorkflow) Buffer() string { return w.buffer }

// SetBuffer replaces the text buffer while a state is active
func (w *EditWorkflow) SetBuffer(s string) {
	if w.state == EditIdle {
		return
	}
	w.buffer = s
}

// TakeFocus reports and clears a pending focus request
func (w *EditWorkflow) TakeFocus() bool {
	pending := w.focusPending
	w.focusPending = false
	return pending
}

// Reset returns to Idle and clears the buffer
func (w *EditWorkflow) Reset() {
	w.state = EditIdle
	w.buffer = ""
	w.focusPending = false
}

// ValidateName checks a file or folder name typed by the user
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &ValidationError{Field: "name", Reason: "name must not be empty"}
	case strings.ContainsAny(name, `/\`):
		return &ValidationError{Field: "name", Value: name, Reason: "name must not contain path separators"}
	case len(name) > maxNameLength:
		return &ValidationError{Field: "name", Value: name, Reason: fmt.Sprintf("name longer than %d bytes", maxNameLength)}
	case name == "." || name == "..":
		return &ValidationError{Field: "name", Value: name, Reason: "reserved name"}
	}
	return nil
}
