// Package iplderr defines the structured error taxonomy shared by every
// codec package in this module.
package iplderr

import (
	"errors"
	"fmt"
)

// Kind is a stable category for programmatic error handling.
//
// These categories are intended to remain stable across versions.
// Callers should branch on Kind rather than matching error strings.
//
// NOTE: Error() strings are intentionally kept human-readable and may evolve.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindTruncated means the input ended before a complete item.
	KindTruncated Kind = "Truncated"
	// KindOverflow means a decoded quantity exceeds its representable range.
	KindOverflow Kind = "Overflow"
	// KindUnknownBase means a multibase prefix is not registered.
	KindUnknownBase Kind = "UnknownBase"
	// KindInvalidCharacter means a character outside the base alphabet, or
	// invalid UTF-8 where text is required.
	KindInvalidCharacter Kind = "InvalidCharacter"
	// KindInvalidPadding means malformed padding in a pad-aware base.
	KindInvalidPadding Kind = "InvalidPadding"
	// KindMalformedCid means a CID could not be parsed from text or bytes.
	KindMalformedCid Kind = "MalformedCid"
	// KindNonCanonical means the input is valid CBOR but not in the single
	// permitted canonical form.
	KindNonCanonical Kind = "NonCanonical"
	// KindInvalidLink means a tag other than 42 or a malformed link payload.
	KindInvalidLink Kind = "InvalidLink"
	// KindTrailingData means unconsumed bytes remain after a single
	// top-level value was requested.
	KindTrailingData Kind = "TrailingData"
	// KindDepthExceeded means nesting beyond the supported recursion bound.
	KindDepthExceeded Kind = "DepthExceeded"
	// KindMalformedCar means the archive header or framing is invalid.
	KindMalformedCar Kind = "MalformedCar"
)

// Error is the module's structured error type.
//
// Offset is the byte offset into the input at which the fault was detected,
// or -1 when no meaningful offset exists (e.g. encode-side failures).
//
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	Offset  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Offset >= 0 {
		return fmt.Sprintf("%s: %s (byte %d)", e.Kind, e.Message, e.Offset)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// New returns a structured error with no offset information.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Offset: -1, Message: msg}
}

// Newf is New with fmt.Sprintf formatting.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Offset: -1, Message: fmt.Sprintf(format, args...)}
}

// At returns a structured error carrying the input byte offset of the fault.
func At(kind Kind, offset int, msg string) error {
	return &Error{Kind: kind, Offset: offset, Message: msg}
}

// Atf is At with fmt.Sprintf formatting.
func Atf(kind Kind, offset int, format string, args ...any) error {
	return &Error{Kind: kind, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a structured error chaining an underlying cause.
func Wrap(kind Kind, msg string, cause error) error {
	if cause == nil {
		return New(kind, msg)
	}
	return &Error{Kind: kind, Offset: -1, Message: msg, Cause: cause}
}

// WrapAt is Wrap carrying the input byte offset of the fault.
func WrapAt(kind Kind, offset int, msg string, cause error) error {
	return &Error{Kind: kind, Offset: offset, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the Kind of a structured error, or "" if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}

// OffsetOf returns the input offset recorded on a structured error, or -1.
func OffsetOf(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return -1
	}
	return e.Offset
}
