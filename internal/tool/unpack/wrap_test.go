// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/pmoc/pmoc/internal/testutil"
)

func TestWrapRoundTrip(t *testing.T) {
	data := testutil.MustLoadFile("../../../testdata/twain.txt", -1)

	for i, format := range []string{wrapNone, wrapGzip, wrapXZ} {
		var buf bytes.Buffer
		if err := writeWrapped(&buf, data, format); err != nil {
			t.Errorf("test %d (%s), unexpected error: %v", i, format, err)
			continue
		}
		if got := detectWrap(buf.Bytes()); got != format {
			t.Errorf("test %d (%s), detectWrap: got %s, want %s", i, format, got, format)
		}
		output, got, err := unwrap(buf.Bytes())
		if err != nil {
			t.Errorf("test %d (%s), unexpected error: %v", i, format, err)
			continue
		}
		if got != format {
			t.Errorf("test %d (%s), unwrap format: got %s, want %s", i, format, got, format)
		}
		if !bytes.Equal(output, data) {
			t.Errorf("test %d (%s), output data mismatch", i, format)
		}
	}
}

func TestWriteWrappedError(t *testing.T) {
	data := testutil.NewRand(0).Bytes(1 << 16)
	for i, format := range []string{wrapNone, wrapGzip, wrapXZ} {
		bw := &testutil.BuggyWriter{W: new(bytes.Buffer), N: 10, Err: io.ErrShortWrite}
		err := writeWrapped(bw, data, format)
		if format == wrapNone && err != io.ErrShortWrite {
			t.Errorf("test %d (%s), error mismatch: got %v, want %v", i, format, err, io.ErrShortWrite)
		}
		if err == nil {
			t.Errorf("test %d (%s), unexpected success", i, format)
		}
	}
	if err := writeWrapped(new(bytes.Buffer), data, "lz4"); err == nil {
		t.Errorf("unknown format: got nil error")
	}
}

func TestUnwrapCorrupt(t *testing.T) {
	var vectors = []struct {
		desc  string
		input []byte
	}{
		{"gzip header only", append([]byte(nil), magicGzip...)},
		{"xz header only", append([]byte(nil), magicXZ...)},
		{"gzip with garbage body", append(append([]byte(nil), magicGzip...), bytes.Repeat([]byte{0xff}, 32)...)},
	}
	for i, v := range vectors {
		if _, _, err := unwrap(v.input); err == nil {
			t.Errorf("test %d (%s), unexpected success", i, v.desc)
		}
	}
}

func TestTrimWrapExt(t *testing.T) {
	var vectors = []struct {
		name, format, want string
	}{
		{"chapter0", wrapNone, "chapter0"},
		{"chapter0.gz", wrapGzip, "chapter0"},
		{"chapter0.xz", wrapXZ, "chapter0"},
		{"chapter0.bin", wrapGzip, "chapter0.bin"},
		{"chapter0.gz", wrapNone, "chapter0.gz"},
	}
	for i, v := range vectors {
		if got := trimWrapExt(v.name, v.format); got != v.want {
			t.Errorf("test %d, trimWrapExt(%q, %s): got %q, want %q", i, v.name, v.format, got, v.want)
		}
	}
}

func TestUnwrapLimit(t *testing.T) {
	defer func(n int64) { maxUnwrapped = n }(maxUnwrapped)
	maxUnwrapped = 1000

	for i, format := range []string{wrapGzip, wrapXZ} {
		for _, n := range []int{1000, 1001, 1 << 20} {
			var buf bytes.Buffer
			if err := writeWrapped(&buf, make([]byte, n), format); err != nil {
				t.Fatalf("test %d (%s), unexpected error: %v", i, format, err)
			}
			output, _, err := unwrap(buf.Bytes())
			switch {
			case n <= 1000 && (err != nil || len(output) != n):
				t.Errorf("test %d (%s), size %d: got (%d bytes, %v), want (%d bytes, nil)", i, format, n, len(output), err, n)
			case n > 1000 && err == nil:
				t.Errorf("test %d (%s), size %d: unexpected success", i, format, n)
			}
		}
	}

	// Plain inputs are read from disk as-is and are not bounded here.
	if _, _, err := unwrap(make([]byte, 2000)); err != nil {
		t.Errorf("plain input: unexpected error: %v", err)
	}
}
