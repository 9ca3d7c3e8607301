package device

import (
	"errors"
	"fmt"
)

// ErrNilLink is returned when a device is constructed or realized without
// a link. It indicates a caller bug.
var ErrNilLink = errors.New("device: nil link")

// ErrNotFound is returned by the Manager for unknown device names.
var ErrNotFound = errors.New("device not found")

// CompatErrorKind classifies a rejected profile.
type CompatErrorKind int

const (
	// ErrKindIncompatible means the profile can never apply to the device.
	ErrKindIncompatible CompatErrorKind = iota
	// ErrKindTemporary means the profile needs more configuration; it
	// may become compatible once edited.
	ErrKindTemporary
)

func (k CompatErrorKind) String() string {
	if k == ErrKindTemporary {
		return "temporary"
	}
	return "incompatible"
}

// CompatError is returned when a profile is rejected by a device.
type CompatError struct {
	Kind CompatErrorKind
	Msg  string
	Err  error
}

func (e *CompatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *CompatError) Unwrap() error { return e.Err }

func incompatible(format string, args ...interface{}) *CompatError {
	return &CompatError{Kind: ErrKindIncompatible, Msg: fmt.Sprintf(format, args...)}
}

func temporary(msg string) *CompatError {
	return &CompatError{Kind: ErrKindTemporary, Msg: msg}
}

// IsTemporary reports whether err is a recoverable profile rejection.
func IsTemporary(err error) bool {
	var ce *CompatError
	return errors.As(err, &ce) && ce.Kind == ErrKindTemporary
}
