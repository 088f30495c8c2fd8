// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package container implements decompression of files that carry a
// compressed sector.
//
// A compressed file begins with an uncompressed header whose length is a
// multiple of 64 bytes. The sector that follows starts with a 16-byte
// descriptor:
//
//	Offset  Size  Field
//	0       4     Marker "PMOC" (0x434f4d50 little-endian)
//	4       4     Unused
//	8       4     Decompressed length (little-endian)
//	12      4     CRC-32 of header and decompressed data (little-endian)
//	16      ...   Huffman stream (see package huffman)
//
// The decompressed file is the header followed by the decompressed data.
package container

import (
	"encoding/binary"

	"github.com/pmoc/pmoc/checksum"
	"github.com/pmoc/pmoc/huffman"
	"github.com/pmoc/pmoc/internal/errors"
)

const (
	// Magic is the marker that begins a compressed sector.
	Magic = 0x434f4d50

	// The marker is searched for at every Align bytes up to and including
	// offset Limit.
	Align = 64
	Limit = 1024

	descSize = 16
)

func errorf(kind errors.Kind, n int) error {
	return errors.Error{Kind: kind, N: n, Pkg: "container"}
}

// Header is the descriptor of a compressed sector.
type Header struct {
	Offset       int    // Offset of the marker, which is also the header length
	Length       uint32 // Expected decompressed length
	CRC          uint32 // Expected checksum
	HuffmanStart int    // Offset of the Huffman stream
}

// FindHeader locates the compressed sector in file.
func FindHeader(file []byte) (Header, error) {
	off := -1
	for i := 0; i <= Limit && i+3 < len(file); i += Align {
		if binary.LittleEndian.Uint32(file[i:]) == Magic {
			off = i
			break
		}
	}
	if off < 0 {
		return Header{}, errorf(errors.SectorNotFound, 0)
	}
	if len(file) < off+descSize {
		return Header{}, errorf(errors.BufferTooSmall, 0)
	}
	return Header{
		Offset:       off,
		Length:       binary.LittleEndian.Uint32(file[off+8:]),
		CRC:          binary.LittleEndian.Uint32(file[off+12:]),
		HuffmanStart: off + descSize,
	}, nil
}

// Decompress returns the decompressed form of file, which is the header
// preceding the sector followed by the decoded data. The input is not
// modified and the output never aliases it.
func Decompress(file []byte) ([]byte, error) {
	h, err := FindHeader(file)
	if err != nil {
		return nil, err
	}
	if err := checkMode(file, h); err != nil {
		return nil, err
	}

	data, err := huffman.Decode(file[h.HuffmanStart:])
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) != uint64(h.Length) {
		return nil, errorf(errors.LengthMismatch, 0)
	}

	hdr := file[:h.Offset]
	crc := ^checksum.Update(checksum.Update(^uint32(0), hdr), data)
	if crc != h.CRC {
		return nil, errorf(errors.ChecksumMismatch, 0)
	}

	out := make([]byte, 0, len(hdr)+len(data))
	out = append(out, hdr...)
	return append(out, data...), nil
}

// checkMode rejects sectors that do not hold a Huffman stream before any
// decoding is attempted.
func checkMode(file []byte, h Header) error {
	if len(file) <= h.HuffmanStart {
		return errorf(errors.BufferTooSmall, 0)
	}
	if file[h.HuffmanStart] != huffman.Mode {
		return errors.Error{
			Kind: errors.UnsupportedFormat,
			Pkg:  "container",
			Msg:  "not huffman mode 0x28",
		}
	}
	return nil
}

// Info summarizes a compressed file without decoding it.
type Info struct {
	Header
	Stream huffman.Header

	// HeaderCRC is the finalized checksum of the bytes preceding the sector.
	// Combined with the checksum of the decoded data via checksum.Combine,
	// it yields the expected CRC.
	HeaderCRC uint32
}

// Inspect parses the sector descriptor and the Huffman stream header.
func Inspect(file []byte) (Info, error) {
	h, err := FindHeader(file)
	if err != nil {
		return Info{}, err
	}
	if err := checkMode(file, h); err != nil {
		return Info{}, err
	}
	sh, err := huffman.ReadHeader(file[h.HuffmanStart:])
	if err != nil {
		return Info{}, err
	}
	return Info{
		Header:    h,
		Stream:    sh,
		HeaderCRC: checksum.Checksum(file[:h.Offset]),
	}, nil
}
