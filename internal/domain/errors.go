package domain

import (
	"errors"
	"fmt"
)

// Launcher error categories. Every one of them is fatal.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrSpawn         = errors.New("failed to launch target binary")
	ErrWait          = errors.New("failed to wait for child process")

	ErrUpdateNotFound   = errors.New("update not found")
	ErrUpdateValidation = errors.New("update validation failed")
	ErrUpdateInstall    = errors.New("update installation failed")
)

// ProfileActionError reports a failed delete or rename of the profile directory.
type ProfileActionError struct {
	Op   string // "delete" or "rename"
	Path string
	Err  error
}

func (e *ProfileActionError) Error() string {
	return fmt.Sprintf("failed to %s profile directory %s: %v", e.Op, e.Path, e.Err)
}

func (e *ProfileActionError) Unwrap() error { return e.Err }

// UpdateError reports a failed update attempt. Kind is one of ErrUpdateNotFound,
// ErrUpdateValidation or ErrUpdateInstall.
type UpdateError struct {
	Kind error
	Err  error
}

// NewUpdateError wraps err with an update failure kind.
func NewUpdateError(kind, err error) *UpdateError {
	return &UpdateError{Kind: kind, Err: err}
}

func (e *UpdateError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *UpdateError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
