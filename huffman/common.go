// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package huffman implements the 8-bit Huffman stream format (mode 0x28)
// embedded in compressed sectors.
//
// A stream has the following layout:
//
//	Offset  Size     Field
//	0       1        Format discriminator (0x28)
//	1       3        Decoded length (little-endian)
//	4       2+2*N    Tree, where N = stream[4] is the number of node pairs
//	6+2*N   4*k      Bitstream, as little-endian 32-bit words
//
// The tree is a flat array of one-byte entries. Entry 1 is the root and node
// pair p occupies entries 2p (left) and 2p+1 (right). An internal entry holds
// in its low 6 bits the distance to its child pair, minus one, relative to the
// pair that contains it. Bit 0x80 marks the left child as a leaf and bit 0x40
// marks the right child as a leaf. A leaf entry holds the literal byte.
//
// The bitstream is consumed one 32-bit word at a time, starting from the most
// significant bit of each word. A set bit selects the right child.
package huffman

import (
	"github.com/pmoc/pmoc/internal/errors"
)

const (
	// Mode is the format discriminator that begins every stream.
	Mode = 0x28

	minSize    = 7 // Smallest stream that can hold a header and a tree
	headerSize = 4 // Discriminator and 24-bit length
	wordSize   = 4 // Bitstream chunk size

	maskLeft   = 0x80 // Left child is a leaf
	maskRight  = 0x40 // Right child is a leaf
	maskOffset = 0x3f // Distance to child pair, minus one

	// MaxLength is the largest decoded length a stream can declare.
	MaxLength = 1<<24 - 1
)

func errorf(kind errors.Kind, n int) error {
	return errors.Error{Kind: kind, N: n, Pkg: "huffman"}
}

// Header describes a stream without decoding it.
type Header struct {
	OutLength  int // Decoded length in bytes
	TreeSize   int // Number of node pairs in the tree
	DataOffset int // Offset of the bitstream within the stream
}

// ReadHeader parses the fixed fields at the start of src.
func ReadHeader(src []byte) (Header, error) {
	if len(src) < minSize {
		return Header{}, errorf(errors.BufferTooSmall, 0)
	}
	if src[0] != Mode {
		return Header{}, errorf(errors.UnsupportedFormat, 0)
	}
	h := Header{
		OutLength:  int(src[1]) | int(src[2])<<8 | int(src[3])<<16,
		TreeSize:   int(src[headerSize]),
		DataOffset: headerSize + 2 + 2*int(src[headerSize]),
	}
	if len(src) <= h.DataOffset {
		return Header{}, errorf(errors.UnsupportedFormat, 0)
	}
	return h, nil
}
