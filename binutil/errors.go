// Package binutil provides bounds-checked little-/big-endian byte slice
// readers and writers, and the typed error taxonomy every other soundlog
// package wraps rather than replaces.
package binutil

import "fmt"

// Kind discriminates the fixed set of error conditions the binary codec
// layers can raise. Higher layers add context with fmt.Errorf("%w", ...)
// but never convert a Kind into ErrOther: the variant survives to the
// caller via errors.As.
type Kind int

const (
	KindUnexpectedEOF Kind = iota
	KindOffsetOutOfRange
	KindInvalidIdent
	KindUnsupportedVersion
	KindHeaderTooShort
	KindUnknownOpcode
	KindDataInconsistency
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindUnexpectedEOF:
		return "unexpected-eof"
	case KindOffsetOutOfRange:
		return "offset-out-of-range"
	case KindInvalidIdent:
		return "invalid-identifier"
	case KindUnsupportedVersion:
		return "unsupported-version"
	case KindHeaderTooShort:
		return "header-too-short"
	case KindUnknownOpcode:
		return "unknown-opcode"
	case KindDataInconsistency:
		return "data-inconsistency"
	default:
		return "other"
	}
}

// Error is the single error type every soundlog package raises for
// malformed input. It carries enough structured detail for the common
// variants (offset, opcode, identifier bytes) to be inspected without
// parsing a message string.
type Error struct {
	Kind Kind

	// Offset-out-of-range detail.
	Offset    int64
	Needed    int64
	Available int64
	Context   string

	// Invalid-identifier detail.
	Ident [4]byte

	// Unsupported-version detail.
	Version uint32

	// Unknown-opcode detail.
	Opcode byte

	// HeaderTooShort / Other freeform detail.
	Message string

	// Wrapped is the underlying error when this Error was produced by
	// wrapping one raised deeper in the call stack (e.g. the container
	// codec wrapping a binutil read failure with a field name).
	Wrapped error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnexpectedEOF:
		if e.Message != "" {
			return fmt.Sprintf("unexpected eof: %s", e.Message)
		}
		return "unexpected eof"
	case KindOffsetOutOfRange:
		msg := fmt.Sprintf("offset %d out of range: needed %d bytes, %d available", e.Offset, e.Needed, e.Available)
		if e.Context != "" {
			msg = e.Context + ": " + msg
		}
		return msg
	case KindInvalidIdent:
		return fmt.Sprintf("invalid identifier %q", e.Ident[:])
	case KindUnsupportedVersion:
		return fmt.Sprintf("unsupported version 0x%08X", e.Version)
	case KindHeaderTooShort:
		return fmt.Sprintf("header too short: %s", e.Message)
	case KindUnknownOpcode:
		return fmt.Sprintf("unknown opcode 0x%02X at offset %d", e.Opcode, e.Offset)
	case KindDataInconsistency:
		return fmt.Sprintf("data inconsistency: %s", e.Message)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, &binutil.Error{Kind: binutil.KindUnexpectedEOF}).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

// ErrUnexpectedEOF constructs a KindUnexpectedEOF error.
func ErrUnexpectedEOF(msg string) *Error {
	return &Error{Kind: KindUnexpectedEOF, Message: msg}
}

// ErrOffsetOutOfRange constructs a KindOffsetOutOfRange error.
func ErrOffsetOutOfRange(offset, needed, available int64, context string) *Error {
	return &Error{Kind: KindOffsetOutOfRange, Offset: offset, Needed: needed, Available: available, Context: context}
}

// ErrInvalidIdent constructs a KindInvalidIdent error.
func ErrInvalidIdent(ident [4]byte) *Error {
	return &Error{Kind: KindInvalidIdent, Ident: ident}
}

// ErrUnsupportedVersion constructs a KindUnsupportedVersion error.
func ErrUnsupportedVersion(version uint32) *Error {
	return &Error{Kind: KindUnsupportedVersion, Version: version}
}

// ErrHeaderTooShort constructs a KindHeaderTooShort error.
func ErrHeaderTooShort(msg string) *Error {
	return &Error{Kind: KindHeaderTooShort, Message: msg}
}

// ErrUnknownOpcode constructs a KindUnknownOpcode error.
func ErrUnknownOpcode(opcode byte, offset int64) *Error {
	return &Error{Kind: KindUnknownOpcode, Opcode: opcode, Offset: offset}
}

// ErrDataInconsistency constructs a KindDataInconsistency error.
func ErrDataInconsistency(msg string) *Error {
	return &Error{Kind: KindDataInconsistency, Message: msg}
}

// ErrOther constructs a KindOther error carrying a freeform message.
func ErrOther(msg string) *Error {
	return &Error{Kind: KindOther, Message: msg}
}

// WithContext returns a copy of err with Context set, for layers that want
// to identify which field was being decoded ("meta:data_offset") without
// discarding the original Kind.
func WithContext(err *Error, context string) *Error {
	cp := *err
	if cp.Context == "" {
		cp.Context = context
	} else {
		cp.Context = context + "." + cp.Context
	}
	return &cp
}
