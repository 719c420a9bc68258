// Package checks provides the codec's utility layer: size/value equality
// checks, arbitrary-precision numeric comparison, the named-item error
// wrapper, and the scratch buffer pool shared by the engines.
package checks

import (
	"errors"
	"fmt"
)

// Sentinel errors raised by the engines. Callers should use errors.Is to
// test for a specific kind; the wrapping ItemError preserves them.
var (
	ErrTruncated        = errors.New("truncated")
	ErrExcessBytes      = errors.New("excess bytes")
	ErrUnderWrite       = errors.New("under write")
	ErrSizeMismatch     = errors.New("size mismatch")
	ErrOutOfRange       = errors.New("out of range")
	ErrConstantMismatch = errors.New("constant mismatch")
	ErrUnknownSwitchID  = errors.New("unknown switch id")
	ErrUnknownField     = errors.New("unknown field")
	ErrIncompleteData   = errors.New("incomplete data")
	ErrMalformedLayout  = errors.New("malformed layout")
)

// ItemError attaches the name of the layout item in which an error
// occurred. Engines re-raise errors crossing a named item's boundary
// wrapped once in ItemError so callers can locate the offending field.
type ItemError struct {
	Name  string
	Cause error
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Cause)
}

// Unwrap provides compatibility with errors.Is / errors.As.
func (e *ItemError) Unwrap() error {
	return e.Cause
}

// WrapItem prefixes err with the name of the item that produced it. If err
// is nil, WrapItem returns nil. Every call adds one ItemError layer, even
// when err is already an *ItemError, so a field inside a field gets one
// name prefix per level at which the engines call WrapItem.
func WrapItem(name string, err error) error {
	if err == nil {
		return nil
	}
	return &ItemError{Name: name, Cause: err}
}
