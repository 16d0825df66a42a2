// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"github.com/pkg/errors"
)

// Kind classifies why a job did not complete.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalidJob is a job missing a source or supplement, or otherwise unusable.
	KindInvalidJob
	// KindInvalidCoordinate is an artifact coordinate that is not group:artifact:version.
	KindInvalidCoordinate
	// KindNotFound is a source that cannot be located or opened.
	KindNotFound
	// KindIO is a read or write failure, including containers that are not valid zips.
	KindIO
	// KindFormat is a manifest that does not parse.
	KindFormat
	// KindSigned is a signed source archive. The job is skipped, not failed.
	KindSigned
)

func (k Kind) String() string {
	switch k {
	case KindInvalidJob:
		return "invalid-job"
	case KindInvalidCoordinate:
		return "invalid-coordinate"
	case KindNotFound:
		return "not-found"
	case KindIO:
		return "io"
	case KindFormat:
		return "format"
	case KindSigned:
		return "signed"
	default:
		return "unknown"
	}
}

// Recoverable reports whether a batch may continue past a job failing with this kind.
func (k Kind) Recoverable() bool {
	return k == KindSigned
}

// Error is a job failure tagged with its Kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind Kind, msg string) error {
	return &Error{Kind: kind, Err: errors.New(msg)}
}

func wrapError(kind Kind, err error, msg string) error {
	return &Error{Kind: kind, Err: errors.Wrap(err, msg)}
}

func wrapErrorf(kind Kind, err error, format string, args ...any) error {
	return &Error{Kind: kind, Err: errors.Wrapf(err, format, args...)}
}
