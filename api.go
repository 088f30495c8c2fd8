// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package pmoc decompresses files that embed a Huffman compressed sector.
//
// The file format is described in package container and the stream format
// in package huffman. This package only forwards to them and re-exports the
// error values so that callers need a single import.
package pmoc

import (
	"github.com/pmoc/pmoc/container"
	"github.com/pmoc/pmoc/internal/errors"
)

// Error is the error type returned by every decode operation.
type Error = errors.Error

// Kind identifies the cause of an Error.
type Kind = errors.Kind

const (
	SectorNotFound    = errors.SectorNotFound
	UnsupportedFormat = errors.UnsupportedFormat
	BufferTooSmall    = errors.BufferTooSmall
	TreeOverflow      = errors.TreeOverflow
	TrailingBytes     = errors.TrailingBytes
	TruncatedInput    = errors.TruncatedInput
	LengthMismatch    = errors.LengthMismatch
	ChecksumMismatch  = errors.ChecksumMismatch
)

var (
	ErrSectorNotFound    = errors.ErrSectorNotFound
	ErrUnsupportedFormat = errors.ErrUnsupportedFormat
	ErrBufferTooSmall    = errors.ErrBufferTooSmall
	ErrTreeOverflow      = errors.ErrTreeOverflow
	ErrTrailingBytes     = errors.ErrTrailingBytes
	ErrTruncatedInput    = errors.ErrTruncatedInput
	ErrLengthMismatch    = errors.ErrLengthMismatch
	ErrChecksumMismatch  = errors.ErrChecksumMismatch
)

// Decompress returns the decompressed form of file: the bytes preceding the
// compressed sector followed by the decoded payload.
func Decompress(file []byte) ([]byte, error) {
	return container.Decompress(file)
}
