package profile

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is.
var (
	ErrNotFound              = errors.New("profile not found")
	ErrAlreadyExists         = errors.New("profile already exists")
	ErrInvalidName           = errors.New("invalid profile name")
	ErrInvalidConfig         = errors.New("invalid profile configuration")
	ErrDeserializationFailed = errors.New("profile deserialization failed")
	ErrSerializationFailed   = errors.New("profile serialization failed")
)

// Error reports an existence or validation failure for a named profile.
type Error struct {
	Op     string // "create", "get", "update", "delete", "validate"
	Name   string
	Path   string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %q", e.Err, e.Name)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodecError carries the offending path and the underlying parse or
// encode diagnostic.
type CodecError struct {
	Path string
	Err  error
	kind error
}

func (e *CodecError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.kind, e.Err)
	}
	return fmt.Sprintf("%s at %s: %v", e.kind, e.Path, e.Err)
}

// Unwrap exposes both the kind sentinel and the diagnostic.
func (e *CodecError) Unwrap() []error {
	return []error{e.kind, e.Err}
}

// IsDeserialization reports whether e describes a read-side failure.
func (e *CodecError) IsDeserialization() bool {
	return e.kind == ErrDeserializationFailed
}

func deserializationError(path string, err error) *CodecError {
	return &CodecError{Path: path, Err: err, kind: ErrDeserializationFailed}
}

func serializationError(path string, err error) *CodecError {
	return &CodecError{Path: path, Err: err, kind: ErrSerializationFailed}
}

// IOError wraps a filesystem failure with the path that triggered it.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the profile does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists reports whether err means the profile name is taken.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
