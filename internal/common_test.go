// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package internal

import (
	"bytes"
	"testing"
)

func TestReverse(t *testing.T) {
	var vectors = []struct {
		input  uint64
		n      uint
		output uint64
	}{
		{0x0, 1, 0x0},
		{0x1, 1, 0x1},
		{0x1, 8, 0x80},
		{0x6, 3, 0x3},
		{0xf0, 8, 0x0f},
		{0x0123456789abcdef, 64, 0xf7b3d591e6a2c480},
	}

	for i, v := range vectors {
		if got := ReverseUint64N(v.input, v.n); got != v.output {
			t.Errorf("test %d, ReverseUint64N(0x%x, %d): got 0x%x, want 0x%x", i, v.input, v.n, got, v.output)
		}
		if v.n <= 32 {
			got := ReverseUint32N(uint32(v.input), v.n)
			if uint64(got) != v.output {
				t.Errorf("test %d, ReverseUint32N(0x%x, %d): got 0x%x, want 0x%x", i, v.input, v.n, got, v.output)
			}
		}
	}
}

func TestSwapWords(t *testing.T) {
	var vectors = []struct {
		input  []byte
		output []byte
	}{
		{nil, nil},
		{[]byte{1, 2, 3}, []byte{1, 2, 3}},
		{[]byte{1, 2, 3, 4}, []byte{4, 3, 2, 1}},
		{[]byte{1, 2, 3, 4, 5, 6, 7, 8, 9}, []byte{4, 3, 2, 1, 8, 7, 6, 5, 9}},
	}

	for i, v := range vectors {
		if got := SwapWords(append([]byte(nil), v.input...)); !bytes.Equal(got, v.output) {
			t.Errorf("test %d, SwapWords(%x): got %x, want %x", i, v.input, got, v.output)
		}
	}
}
