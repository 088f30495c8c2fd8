// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package container

import (
	"bytes"
	"io"
	"io/ioutil"
	"testing"

	"github.com/pmoc/pmoc/internal/errors"
	"github.com/pmoc/pmoc/internal/testutil"
)

func TestReader(t *testing.T) {
	payload := testutil.MustLoadFile(testdata+"twain.txt", -1)
	file := testutil.MustBuildContainer(make([]byte, 128), payload)
	want := append(make([]byte, 128), payload...)
	errBuggy := io.ErrShortBuffer

	var vectors = []struct {
		desc   string
		input  io.Reader
		output []byte
		inIdx  int64
		err    error
	}{{
		desc:   "valid file",
		input:  bytes.NewReader(file),
		output: want,
		inIdx:  int64(len(file)),
	}, {
		desc:  "empty input",
		input: bytes.NewReader(nil),
		err:   errorf(errors.SectorNotFound, 0),
	}, {
		desc:  "truncated file",
		input: bytes.NewReader(file[:len(file)-4]),
		inIdx: int64(len(file) - 4),
		err:   errors.ErrTruncatedInput,
	}, {
		desc:  "read error",
		input: &testutil.BuggyReader{R: bytes.NewReader(file), N: 100, Err: errBuggy},
		inIdx: 100,
		err:   errBuggy,
	}}

	for i, v := range vectors {
		rd := NewReader(v.input)
		output, err := ioutil.ReadAll(rd)
		if v.err == nil && err != nil {
			t.Errorf("test %d (%s), unexpected error: %v", i, v.desc, err)
		}
		if v.err != nil && !isErr(err, v.err) {
			t.Errorf("test %d (%s), error mismatch: got %v, want %v", i, v.desc, err, v.err)
		}
		if !bytes.Equal(output, v.output) {
			t.Errorf("test %d (%s), output mismatch: got %d bytes, want %d bytes", i, v.desc, len(output), len(v.output))
		}
		if rd.InputOffset != v.inIdx {
			t.Errorf("test %d (%s), input offset mismatch: got %d, want %d", i, v.desc, rd.InputOffset, v.inIdx)
		}
		if rd.OutputOffset != int64(len(v.output)) {
			t.Errorf("test %d (%s), output offset mismatch: got %d, want %d", i, v.desc, rd.OutputOffset, len(v.output))
		}

		cerr := rd.Close()
		if v.err == nil && cerr != nil {
			t.Errorf("test %d (%s), unexpected Close error: %v", i, v.desc, cerr)
		}
		if v.err != nil && !isErr(cerr, v.err) {
			t.Errorf("test %d (%s), Close error mismatch: got %v, want %v", i, v.desc, cerr, v.err)
		}
		if v.err == nil {
			if _, err := rd.Read(make([]byte, 1)); err != io.ErrClosedPipe {
				t.Errorf("test %d (%s), Read after Close: got %v, want %v", i, v.desc, err, io.ErrClosedPipe)
			}
		}
	}
}

func isErr(err, target error) bool {
	if e, ok := err.(errors.Error); ok {
		return e.Is(target)
	}
	return err == target
}

func TestReaderReset(t *testing.T) {
	a := testutil.MustBuildContainer(nil, []byte("first file"))
	b := testutil.MustBuildContainer(make([]byte, 64), []byte("second file"))

	rd := NewReader(bytes.NewReader(a))
	if got, err := ioutil.ReadAll(rd); err != nil || string(got) != "first file" {
		t.Fatalf("ReadAll: got (%q, %v), want (%q, nil)", got, err, "first file")
	}
	rd.Reset(bytes.NewReader(b))
	got, err := ioutil.ReadAll(rd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := append(make([]byte, 64), "second file"...); !bytes.Equal(got, want) {
		t.Errorf("ReadAll after Reset: got %q, want %q", got, want)
	}
	if rd.InputOffset != int64(len(b)) {
		t.Errorf("InputOffset after Reset: got %d, want %d", rd.InputOffset, len(b))
	}
}

func TestReaderSmallReads(t *testing.T) {
	payload := testutil.NewRand(3).Text(3000, []byte("xyz"), true)
	file := testutil.MustBuildContainer(nil, payload)

	rd := NewReader(bytes.NewReader(file))
	var got []byte
	buf := make([]byte, 7)
	for {
		n, err := rd.Read(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("output data mismatch")
	}
}
