// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package errors implements the error type shared by every package in this
// module.
//
// Errors are values carrying a Kind and, for structural corruption, the byte
// count that explains the discrepancy. Deep decode loops report failures with
// Panic and the exported entry points convert them back with Recover.
package errors

import (
	"fmt"
	"runtime"
)

// Kind identifies why a decode call failed.
type Kind int

const (
	Unknown Kind = iota

	// Format errors: the input is not a recognized container.
	SectorNotFound
	UnsupportedFormat
	BufferTooSmall

	// Structural corruption: the tree or bitstream contradicts itself.
	TreeOverflow
	TrailingBytes
	TruncatedInput

	// Integrity errors: decoding succeeded but metadata disagrees.
	LengthMismatch
	ChecksumMismatch
)

var kindNames = [...]string{
	Unknown:           "Unknown",
	SectorNotFound:    "SectorNotFound",
	UnsupportedFormat: "UnsupportedFormat",
	BufferTooSmall:    "BufferTooSmall",
	TreeOverflow:      "TreeOverflow",
	TrailingBytes:     "TrailingBytes",
	TruncatedInput:    "TruncatedInput",
	LengthMismatch:    "LengthMismatch",
	ChecksumMismatch:  "ChecksumMismatch",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Error is the wrapper type for errors specific to this module.
type Error struct {
	Kind Kind   // Category of failure
	N    int    // Trailing or missing byte count, if applicable
	Pkg  string // Name of the package that reported the error
	Msg  string // Optional detail overriding the default message
}

func (e Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.message()
	}
	if e.Pkg == "" {
		return "pmoc: " + msg
	}
	return e.Pkg + ": " + msg
}

func (e Error) message() string {
	switch e.Kind {
	case SectorNotFound:
		return "not a compressed file"
	case UnsupportedFormat:
		return "unknown compression format"
	case BufferTooSmall:
		return "buffer too small"
	case TreeOverflow:
		return "position out of tree"
	case TrailingBytes:
		return fmt.Sprintf("stream had %d trailing bytes", e.N)
	case TruncatedInput:
		return fmt.Sprintf("stream ended with %d bytes missing", e.N)
	case LengthMismatch:
		return "unexpected decoded length"
	case ChecksumMismatch:
		return "unexpected checksum"
	default:
		return "unknown error"
	}
}

// Is reports whether target is an Error of the same Kind. A non-zero N in
// target must also match.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.N == 0 || t.N == e.N)
}

// IsFormat reports whether the input was not a recognized container.
func (e Error) IsFormat() bool {
	return e.Kind == SectorNotFound || e.Kind == UnsupportedFormat || e.Kind == BufferTooSmall
}

// IsCorrupted reports whether the tree or bitstream is inconsistent with
// its own declared length.
func (e Error) IsCorrupted() bool {
	return e.Kind == TreeOverflow || e.Kind == TrailingBytes || e.Kind == TruncatedInput
}

// IsIntegrity reports whether the decoded content disagrees with the
// metadata recorded in the sector header.
func (e Error) IsIntegrity() bool {
	return e.Kind == LengthMismatch || e.Kind == ChecksumMismatch
}

// Sentinel values usable as errors.Is targets.
var (
	ErrSectorNotFound    error = Error{Kind: SectorNotFound}
	ErrUnsupportedFormat error = Error{Kind: UnsupportedFormat}
	ErrBufferTooSmall    error = Error{Kind: BufferTooSmall}
	ErrTreeOverflow      error = Error{Kind: TreeOverflow}
	ErrTrailingBytes     error = Error{Kind: TrailingBytes}
	ErrTruncatedInput    error = Error{Kind: TruncatedInput}
	ErrLengthMismatch    error = Error{Kind: LengthMismatch}
	ErrChecksumMismatch  error = Error{Kind: ChecksumMismatch}
)

// Panic panics with err, which Recover turns back into a returned error.
func Panic(err error) { panic(err) }

// Recover stores a panicked error into err. Runtime errors and non-error
// values are re-panicked since they indicate a bug rather than bad input.
func Recover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}
