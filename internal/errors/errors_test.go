// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError(t *testing.T) {
	var vectors = []struct {
		err       Error
		str       string
		format    bool
		corrupted bool
		integrity bool
	}{
		{Error{Kind: SectorNotFound, Pkg: "container"}, "container: not a compressed file", true, false, false},
		{Error{Kind: UnsupportedFormat, Pkg: "huffman"}, "huffman: unknown compression format", true, false, false},
		{Error{Kind: BufferTooSmall, Pkg: "huffman"}, "huffman: buffer too small", true, false, false},
		{Error{Kind: TreeOverflow, Pkg: "huffman"}, "huffman: position out of tree", false, true, false},
		{Error{Kind: TrailingBytes, N: 8, Pkg: "huffman"}, "huffman: stream had 8 trailing bytes", false, true, false},
		{Error{Kind: TruncatedInput, N: 3, Pkg: "huffman"}, "huffman: stream ended with 3 bytes missing", false, true, false},
		{Error{Kind: LengthMismatch, Pkg: "container"}, "container: unexpected decoded length", false, false, true},
		{Error{Kind: ChecksumMismatch}, "pmoc: unexpected checksum", false, false, true},
		{Error{Kind: UnsupportedFormat, Pkg: "container", Msg: "not huffman mode 0x28"}, "container: not huffman mode 0x28", true, false, false},
	}

	for i, v := range vectors {
		if got := v.err.Error(); got != v.str {
			t.Errorf("test %d, Error(): got %q, want %q", i, got, v.str)
		}
		if got := v.err.IsFormat(); got != v.format {
			t.Errorf("test %d, IsFormat(): got %v, want %v", i, got, v.format)
		}
		if got := v.err.IsCorrupted(); got != v.corrupted {
			t.Errorf("test %d, IsCorrupted(): got %v, want %v", i, got, v.corrupted)
		}
		if got := v.err.IsIntegrity(); got != v.integrity {
			t.Errorf("test %d, IsIntegrity(): got %v, want %v", i, got, v.integrity)
		}
	}
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("reading save: %w", Error{Kind: TruncatedInput, N: 5, Pkg: "huffman"})
	if !errors.Is(err, ErrTruncatedInput) {
		t.Errorf("errors.Is(%v, ErrTruncatedInput) = false, want true", err)
	}
	if !errors.Is(err, Error{Kind: TruncatedInput, N: 5}) {
		t.Errorf("errors.Is with matching count = false, want true")
	}
	if errors.Is(err, Error{Kind: TruncatedInput, N: 4}) {
		t.Errorf("errors.Is with different count = true, want false")
	}
	if errors.Is(err, ErrTrailingBytes) {
		t.Errorf("errors.Is(%v, ErrTrailingBytes) = true, want false", err)
	}

	var e Error
	if !errors.As(err, &e) || e.N != 5 {
		t.Errorf("errors.As: got %+v, want N=5", e)
	}
}

func TestRecover(t *testing.T) {
	run := func(f func()) (err error) {
		defer Recover(&err)
		f()
		return nil
	}

	if err := run(func() { Panic(ErrTreeOverflow) }); err != ErrTreeOverflow {
		t.Errorf("Recover: got %v, want %v", err, ErrTreeOverflow)
	}
	if err := run(func() {}); err != nil {
		t.Errorf("Recover: got %v, want nil", err)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("runtime error was not re-panicked")
		}
	}()
	run(func() {
		var b []byte
		_ = b[1]
	})
}

func TestKindString(t *testing.T) {
	if got, want := ChecksumMismatch.String(), "ChecksumMismatch"; got != want {
		t.Errorf("String(): got %q, want %q", got, want)
	}
	if got, want := Kind(99).String(), "Kind(99)"; got != want {
		t.Errorf("String(): got %q, want %q", got, want)
	}
}
