package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound         = errors.New("not found")
	ErrDecode           = errors.New("decode failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrConflict         = errors.New("remote version conflict")
	ErrNetwork          = errors.New("network failure")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrReadOnlySource   = errors.New("source is read-only")
	ErrNotConnected     = errors.New("sync not connected")
	ErrUnknownSource    = errors.New("unknown source")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SwitchError reports a failed source switch. The previously active
// source stays in place when it is returned.
type SwitchError struct {
	Source string
	Err    error
}

func (e *SwitchError) Error() string {
	return fmt.Sprintf("cannot switch to %s: %v", e.Source, e.Err)
}

func (e *SwitchError) Unwrap() error {
	return e.Err
}

// RemoteError represents a failed call to the remote store
type RemoteError struct {
	Op     string
	Status int
	Kind   error
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is lets callers match RemoteError against the sentinel taxonomy
func (e *RemoteError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// ParseError reports input that could not be recognized as any supported format
type ParseError struct {
	Format string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Format == "" {
		return "unrecognized input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Format, e.Reason)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrDecode
}
