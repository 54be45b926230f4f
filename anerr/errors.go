// Package anerr defines the single outer error type the rest of this module
// returns. Every family from the design is a Kind under one of a handful of
// Families; callers match on Family/Kind rather than on package-specific
// sentinel errors.
package anerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Family groups related Kinds, matching the table in the specification's
// error-handling design.
type Family string

const (
	FamilyDecoding      Family = "decoding"
	FamilyIntegrity     Family = "integrity"
	FamilyLookup        Family = "lookup"
	FamilyEphemeris     Family = "ephemeris"
	FamilyOrientation   Family = "orientation"
	FamilyInterpolation Family = "interpolation"
	FamilyIO            Family = "io"
)

// Kind is a specific failure mode within a Family.
type Kind string

const (
	// Decoding
	KindInaccessible      Kind = "inaccessible"
	KindObscure           Kind = "obscure"
	KindWrongMagic        Kind = "wrong_magic"
	KindWrongEndian       Kind = "wrong_endian"
	KindFtpCorrupted      Kind = "ftp_corrupted"
	KindUnsupportedType   Kind = "unsupported_data_type"
	KindAniseVersion      Kind = "anise_version"

	// Integrity
	KindChecksumInvalid Kind = "checksum_invalid"
	KindSubNormal       Kind = "sub_normal"
	KindInvalidValue    Kind = "invalid_value"

	// Lookup
	KindUnknownID      Kind = "unknown_id"
	KindUnknownName    Kind = "unknown_name"
	KindInvalidIndex   Kind = "invalid_index"
	KindNoKeyProvided  Kind = "no_key_provided"

	// Ephemeris / Orientation
	KindNoMatchingSummary Kind = "no_matching_summary"
	KindNoCommonAncestor  Kind = "no_common_ancestor"
	KindMaxDepthExceeded  Kind = "max_depth_exceeded"
	KindFrameMismatch     Kind = "frame_mismatch"

	// Interpolation
	KindNoInterpolationData Kind = "no_interpolation_data"
	KindInterpDecoding      Kind = "interp_decoding"

	// IO
	KindIOFailure Kind = "io_failure"
)

// Error is the single error type every exported function in this module
// returns on failure.
type Error struct {
	family Family
	kind   Kind
	msg    string
	cause  error
}

// New builds a root error with a stack trace attached at the call site.
func New(family Family, kind Kind, msg string) *Error {
	return &Error{family: family, kind: kind, msg: msg, cause: errors.New(msg)}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(family Family, kind Kind, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{family: family, kind: kind, msg: msg, cause: errors.New(msg)}
}

// Wrap attaches a family/kind to an existing error, preserving it as the
// cause and always attaching a stack trace at this call site.
func Wrap(family Family, kind Kind, cause error, msg string) *Error {
	if cause == nil {
		return New(family, kind, msg)
	}
	return &Error{family: family, kind: kind, msg: msg, cause: errors.WithMessage(errors.WithStack(cause), msg)}
}

func (e *Error) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("%s/%s", e.family, e.kind)
	}
	return fmt.Sprintf("%s/%s: %s", e.family, e.kind, e.msg)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// Family reports which error family this belongs to.
func (e *Error) Family() Family { return e.family }

// Kind reports the specific failure mode.
func (e *Error) Kind() Kind { return e.kind }

// Is lets errors.Is match purely on Family+Kind, ignoring message/cause.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.family == e.family && other.kind == e.kind
}
