package types

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
// The zero value means "no error" and is what an idle error state reports.
type ErrKind int

const (
	ErrKindNone            ErrKind = iota // no error recorded
	ErrKindInvalidArgument                // empty root or query, bad width
	ErrKindInvalidRoot                    // root exists but is not a directory
	ErrKindRootUnreadable                 // root cannot be stat'ed or listed
	ErrKindIO                             // nested directory or property file failed
	ErrKindState                          // operation invalid for current session state
	ErrKindNotFound                       // no device matched a lookup
	ErrKindRange                          // address outside a device's range
)

// String implements the Stringer interface for ErrKind.
func (k ErrKind) String() string {
	switch k {
	case ErrKindNone:
		return "none"
	case ErrKindInvalidArgument:
		return "invalid-argument"
	case ErrKindInvalidRoot:
		return "invalid-root"
	case ErrKindRootUnreadable:
		return "root-unreadable"
	case ErrKindIO:
		return "io"
	case ErrKindState:
		return "state"
	case ErrKindNotFound:
		return "not-found"
	case ErrKindRange:
		return "range"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same kind and message, so a sentinel
// matches copies that carry a cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind && e.Msg == t.Msg
}

// With returns a copy of e carrying cause as its underlying error.
func (e *Error) With(cause error) *Error {
	return &Error{Kind: e.Kind, Msg: e.Msg, Err: cause}
}

// Withf returns a copy of e whose cause is a formatted message.
func (e *Error) Withf(format string, args ...any) *Error {
	return e.With(fmt.Errorf(format, args...))
}

// KindOf returns the kind of the first *Error in err's chain, ErrKindNone
// for a nil error and ErrKindIO for untyped failures.
func KindOf(err error) ErrKind {
	if err == nil {
		return ErrKindNone
	}
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return ErrKindIO
}

// Sentinels commonly returned by implementations.
var (
	// ErrInvalidArgument indicates an empty root path or query.
	ErrInvalidArgument = &Error{Kind: ErrKindInvalidArgument, Msg: "invalid argument"}
	// ErrInvalidRoot indicates the root path is not a directory.
	ErrInvalidRoot = &Error{Kind: ErrKindInvalidRoot, Msg: "root dir is invalid"}
	// ErrCantReadRoot indicates the root directory could not be read.
	ErrCantReadRoot = &Error{Kind: ErrKindRootUnreadable, Msg: "cannot read root dir"}
	// ErrSubtree indicates a nested node or property could not be read.
	ErrSubtree = &Error{Kind: ErrKindIO, Msg: "cannot read device-tree node"}
	// ErrSessionOpen indicates Open was called on an already open session.
	ErrSessionOpen = &Error{Kind: ErrKindState, Msg: "session is already open"}
	// ErrNotOpen indicates an operation that needs an open session.
	ErrNotOpen = &Error{Kind: ErrKindState, Msg: "session is not open"}
	// ErrNotFound indicates no device matched a lookup.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "no such device"}
	// ErrOutOfRange indicates an offset past the device's high address.
	ErrOutOfRange = &Error{Kind: ErrKindRange, Msg: "address is out of range of the device"}
	// ErrBusAccess indicates physical memory could not be mapped or read.
	ErrBusAccess = &Error{Kind: ErrKindIO, Msg: "cannot access bus"}
	// ErrInvalidWidth indicates a bus access width other than 1, 2 or 4.
	ErrInvalidWidth = &Error{Kind: ErrKindInvalidArgument, Msg: "invalid access width"}
)

// -----------------------------------------------------------------------------
// Addresses
// -----------------------------------------------------------------------------

// Addr is a 32-bit physical address as found in device-tree unit names and
// reg properties.
type Addr = uint32
