// Package workshop holds the error taxonomy shared by every engine component.
package workshop

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error so callers can react without string matching.
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindAuth         Kind = "FORBIDDEN"
	KindPhase        Kind = "PHASE_CLOSED"
	KindValidation   Kind = "INVALID_INPUT"
	KindIneligible   Kind = "INELIGIBLE"
	KindAlreadyVoted Kind = "ALREADY_VOTED"
	KindConflict     Kind = "CONFLICT"
)

// Error carries a machine-checkable kind plus a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is allows errors.Is comparisons against a bare kind error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// NotFound reports an absent session or referenced entity.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized reports an admin key mismatch.
func Unauthorized(format string, args ...any) *Error {
	return &Error{Kind: KindAuth, Message: fmt.Sprintf(format, args...)}
}

// PhaseClosed reports an action attempted outside its required phase.
func PhaseClosed(format string, args ...any) *Error {
	return &Error{Kind: KindPhase, Message: fmt.Sprintf(format, args...)}
}

// Invalid reports malformed or out-of-range input.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Ineligible reports a ballot naming a proposal outside the eligible set.
func Ineligible(format string, args ...any) *Error {
	return &Error{Kind: KindIneligible, Message: fmt.Sprintf(format, args...)}
}

// AlreadyVoted reports a duplicate ballot for a round.
func AlreadyVoted(format string, args ...any) *Error {
	return &Error{Kind: KindAlreadyVoted, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a write that lost to an earlier one (duplicate finalize,
// exhausted code generation).
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an error, or "" for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is a workshop error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
