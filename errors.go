package binlayout

import "github.com/scigolib/binlayout/internal/checks"

// Sentinel errors raised by CalcSize, Serialize, Deserialize, and
// BuildDiscriminator. Callers test for a specific cause with errors.Is;
// every error those operations raise themselves wraps one of these values,
// often inside an *ItemError naming the offending field. An error returned
// by a caller's conversion function is passed through as is, wrapped only
// in *ItemError layers.
var (
	ErrTruncated        = checks.ErrTruncated
	ErrExcessBytes      = checks.ErrExcessBytes
	ErrUnderWrite       = checks.ErrUnderWrite
	ErrSizeMismatch     = checks.ErrSizeMismatch
	ErrOutOfRange       = checks.ErrOutOfRange
	ErrConstantMismatch = checks.ErrConstantMismatch
	ErrUnknownSwitchID  = checks.ErrUnknownSwitchID
	ErrUnknownField     = checks.ErrUnknownField
	ErrIncompleteData   = checks.ErrIncompleteData
	ErrMalformedLayout  = checks.ErrMalformedLayout
)

// ItemError names the layout item an error occurred in. It is the same
// type internal/checks.WrapItem produces, re-exported so callers can
// errors.As into it without importing an internal package.
type ItemError = checks.ItemError
