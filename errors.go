package caterva

import (
	"errors"
	"fmt"
)

// Kind classifies a Caterva error the way gcerrors.Code classifies a
// gocloud.dev/blob error: callers branch on Kind, not on message text.
type Kind int

const (
	// Unknown is returned by KindOf for errors this package did not produce.
	Unknown Kind = iota
	InvalidArgument
	InvalidState
	ResourceExhausted
	StorageError
	DecodeError
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case InvalidState:
		return "InvalidState"
	case ResourceExhausted:
		return "ResourceExhausted"
	case StorageError:
		return "StorageError"
	case DecodeError:
		return "DecodeError"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by every public operation that
// can fail. It wraps an underlying cause (if any) so errors.Is/As and %w
// keep working through it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("caterva: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("caterva: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func newErrf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// errAlreadyWritten is the cause wrapped when an append/write path is
// invoked on a destination that is no longer empty.
var errAlreadyWritten = errors.New("destination already written")

// KindOf returns the Kind carried by err, or Unknown if err was not
// produced by this package.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return Unknown
}
