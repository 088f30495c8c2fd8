// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"bytes"
	"testing"
)

func TestResizeData(t *testing.T) {
	var vectors = []struct {
		input  string
		n      int
		output string
	}{
		{"abc", -1, "abc"},
		{"abc", 0, ""},
		{"abc", 2, "ab"},
		{"abc", 3, "abc"},
		{"abc", 8, "abcabcab"},
		{"x", 4, "xxxx"},
	}
	for i, v := range vectors {
		got := ResizeData([]byte(v.input), v.n)
		if string(got) != v.output {
			t.Errorf("test %d, ResizeData(%q, %d): got %q, want %q", i, v.input, v.n, got, v.output)
		}
	}

	// Replicated data never leaves the alphabet of the input.
	in := []byte("ACGT")
	for i, c := range ResizeData(in, 1000) {
		if bytes.IndexByte(in, c) < 0 {
			t.Fatalf("byte %d: got %q, outside of alphabet %q", i, c, in)
		}
	}
}
