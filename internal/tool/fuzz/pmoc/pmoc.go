// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// +build gofuzz

package pmoc

import (
	"bytes"

	"github.com/pmoc/pmoc/container"
	"github.com/pmoc/pmoc/huffman"
	"github.com/pmoc/pmoc/internal/errors"
	"github.com/pmoc/pmoc/internal/testutil"
)

func Fuzz(data []byte) int {
	ok := testContainer(data)
	testStream(data)
	testRoundTrip(data)
	if ok {
		return 1 // Favor valid inputs
	}
	return 0
}

// checkError panics unless err is nil or an error of a known kind.
func checkError(err error) {
	if err == nil {
		return
	}
	e, ok := err.(errors.Error)
	if !ok {
		panic(err)
	}
	if !e.IsFormat() && !e.IsCorrupted() && !e.IsIntegrity() {
		panic("unknown error kind: " + e.Kind.String())
	}
}

// testContainer checks that decompression is deterministic, leaves the input
// untouched, and returns the header followed by the declared length of data.
func testContainer(data []byte) bool {
	orig := append([]byte(nil), data...)
	b1, err1 := container.Decompress(data)
	b2, err2 := container.Decompress(data)
	if !bytes.Equal(data, orig) {
		panic("input modified")
	}
	if err1 != err2 || !bytes.Equal(b1, b2) {
		panic("non-deterministic result")
	}
	checkError(err1)
	if err1 != nil {
		if b1 != nil {
			panic("output on error")
		}
		return false
	}

	h, err := container.FindHeader(data)
	if err != nil {
		panic(err)
	}
	if len(b1) != h.Offset+int(h.Length) || !bytes.Equal(b1[:h.Offset], data[:h.Offset]) {
		panic("mismatching output")
	}
	return true
}

// testStream checks that a successful stream decode yields exactly the
// length declared in the stream header.
func testStream(data []byte) {
	b, err := huffman.Decode(data)
	checkError(err)
	if err != nil {
		return
	}
	h, err := huffman.ReadHeader(data)
	if err != nil {
		panic(err)
	}
	if len(b) != h.OutLength {
		panic("mismatching length")
	}
}

// testRoundTrip encodes the input as a stream and checks that it decodes back.
func testRoundTrip(data []byte) {
	stream, err := testutil.EncodeHuffman(data)
	if err != nil {
		return // Alphabet too large for the tree format
	}
	b, err := huffman.Decode(stream)
	if err != nil {
		panic(err)
	}
	if !bytes.Equal(b, data) {
		panic("mismatching bytes")
	}
}
