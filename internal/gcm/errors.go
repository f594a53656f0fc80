package gcm

import (
	"errors"
	"fmt"
	"time"
)

// ErrExecutableNotFound reports that an external collaborator could not be
// located. ErrNoResult reports that a run finished without producing a
// partition file to publish.
var (
	ErrExecutableNotFound = errors.New("executable not found")
	ErrNoResult           = errors.New("no result exists")
)

// NonZeroExitError reports an external step that ran but exited unsuccessfully.
type NonZeroExitError struct {
	Step string
	Code int
}

func (e *NonZeroExitError) Error() string {
	return fmt.Sprintf("step %s exited with code %d", e.Step, e.Code)
}

// TimeoutError reports an external step that exceeded its allotted duration.
type TimeoutError struct {
	Step    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("step %s timed out after %s", e.Step, e.Timeout)
}

// MalformedKeyRecordError reports a key-file line that does not hold exactly
// an original label and an integer dense id.
type MalformedKeyRecordError struct {
	Path string
	Line int
	Text string
}

func (e *MalformedKeyRecordError) Error() string {
	return fmt.Sprintf("malformed key record %s:%d: %q", e.Path, e.Line, e.Text)
}

// UnknownDenseIDError reports an assignment line whose positional dense id
// has no entry in the key store. This signals a corrupted or mismatched run.
type UnknownDenseIDError struct {
	DenseID int
	Path    string
}

func (e *UnknownDenseIDError) Error() string {
	return fmt.Sprintf("assignment %s references dense id %d with no key entry", e.Path, e.DenseID)
}

// WorkspaceCreateError reports that the scratch workspace could not be
// created or staged.
type WorkspaceCreateError struct {
	Dir string
	Err error
}

func (e *WorkspaceCreateError) Error() string {
	return fmt.Sprintf("create workspace %s: %v", e.Dir, e.Err)
}

func (e *WorkspaceCreateError) Unwrap() error { return e.Err }
