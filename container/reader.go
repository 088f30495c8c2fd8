// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package container

import (
	"io"
	"io/ioutil"
)

// Reader is an io.Reader that decompresses a file read from an underlying
// io.Reader. The sector can only be verified once its checksum has been
// computed over the whole output, so the entire input is consumed on the
// first call to Read.
type Reader struct {
	InputOffset  int64 // Total number of bytes read from underlying io.Reader
	OutputOffset int64 // Total number of bytes emitted from Read

	rd     io.Reader
	toRead []byte // Decompressed data not yet emitted
	done   bool   // Input has been consumed
	err    error  // Persistent error
}

// NewReader creates a new Reader reading the given reader.
func NewReader(r io.Reader) *Reader {
	cr := new(Reader)
	cr.Reset(r)
	return cr
}

func (cr *Reader) Read(buf []byte) (int, error) {
	if !cr.done && cr.err == nil {
		cr.fill()
	}
	if len(cr.toRead) > 0 {
		cnt := copy(buf, cr.toRead)
		cr.toRead = cr.toRead[cnt:]
		cr.OutputOffset += int64(cnt)
		return cnt, nil
	}
	return 0, cr.err
}

func (cr *Reader) fill() {
	cr.done = true
	file, err := ioutil.ReadAll(cr.rd)
	cr.InputOffset += int64(len(file))
	if err != nil {
		cr.err = err
		return
	}
	if cr.toRead, cr.err = Decompress(file); cr.err == nil {
		cr.err = io.EOF
	}
}

// Close ends the decompression. It returns the persistent error, if any,
// other than io.EOF.
func (cr *Reader) Close() error {
	if cr.err == io.EOF || cr.err == io.ErrClosedPipe {
		cr.toRead = nil // Make sure future reads fail
		cr.err = io.ErrClosedPipe
		return nil
	}
	return cr.err
}

// Reset discards the Reader's state and makes it equivalent to the result
// of NewReader, but reading from r instead.
func (cr *Reader) Reset(r io.Reader) error {
	*cr = Reader{rd: r}
	return nil
}
