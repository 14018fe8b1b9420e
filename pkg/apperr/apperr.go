// Package apperr defines the typed error kinds shared by the scheduling
// engine. Validation failures carry a Kind so handlers can translate them
// into structured responses; storage faults are a separate, non-validation
// kind that propagates as a system error.
package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies a category of failure.
type Kind string

const (
	KindMissingField       Kind = "missing_field"
	KindNotFound           Kind = "not_found"
	KindServiceNotOffered  Kind = "service_not_offered_by_provider"
	KindPastDateTime       Kind = "past_date_time"
	KindInvalidDuration    Kind = "invalid_duration"
	KindSlotUnavailable    Kind = "slot_unavailable"
	KindIllegalTransition  Kind = "illegal_transition"
	KindTooEarly           Kind = "too_early"
	KindTooLate            Kind = "too_late"
	KindWithinGracePeriod  Kind = "within_grace_period"
	KindInvalidRule        Kind = "invalid_availability_rule"
	KindInvalidFormat      Kind = "invalid_format"
	KindProviderNotFound   Kind = "provider_not_found"
	KindStorageUnavailable Kind = "storage_unavailable"
)

// Error is a failure with an attached kind. The message is safe to return
// to API callers.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Storage wraps a storage-layer failure. These are faults, not validation
// results, and map to 503 at the API boundary.
func Storage(err error) *Error {
	return &Error{Kind: KindStorageUnavailable, Msg: "storage unavailable", Err: err}
}

// KindOf returns the kind carried by err, or "" if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsValidation reports whether err is an expected validation failure, as
// opposed to a storage fault or an unclassified error.
func IsValidation(err error) bool {
	k := KindOf(err)
	return k != "" && k != KindStorageUnavailable
}
