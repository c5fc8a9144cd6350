package trace

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures the schema-generation path can produce.
// Kinds are part of the package contract: callers decide whether a dump may
// be retried (channel/event dumps) or is fatal to the session (session dump)
// based on them.
type ErrorKind uint8

const (
	// KindOutOfMemory reports that the output buffer exceeded its
	// configured hard cap. Fatal, propagated immediately.
	KindOutOfMemory ErrorKind = iota + 1
	// KindFormatLimit reports that the output document would exceed the
	// 31-bit length field reserved by the format.
	KindFormatLimit
	// KindInvalidFormat reports a descriptor shape the format cannot
	// express (non-empty struct, non-integer array/sequence/enum
	// container, unknown tag). Always a producer bug, never retried.
	KindInvalidFormat
	// KindOverflow reports a truncated descriptor list: the walker needed
	// a slot past the end of the list.
	KindOverflow
	// KindNotFound reports a missing enumeration or session-identity
	// object. Fatal to the current dump attempt only.
	KindNotFound
	// KindIO reports a failed or short write to the mirrored metadata
	// copy. The in-memory buffer is left as-is.
	KindIO
)

// String returns a stable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindOutOfMemory:
		return "out of memory"
	case KindFormatLimit:
		return "format limit exceeded"
	case KindInvalidFormat:
		return "invalid format"
	case KindOverflow:
		return "descriptor list overflow"
	case KindNotFound:
		return "not found"
	case KindIO:
		return "i/o error"
	default:
		return "unknown"
	}
}

// Error is the structured error returned by the registry and the generator.
type Error struct {
	Kind ErrorKind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	s := e.Op + ": " + e.Kind.String()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds an *Error with a formatted message.
func Errorf(kind ErrorKind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// WrapError builds an *Error around an underlying cause.
func WrapError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// IsKind reports whether err or any error it wraps carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == kind
}
