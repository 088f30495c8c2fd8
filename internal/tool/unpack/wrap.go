// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pmoc/pmoc/container"
	"github.com/pmoc/pmoc/huffman"
	"github.com/ulikunitz/xz"
)

// Outer compression formats that may surround a compressed file on disk.
const (
	wrapNone = "none"
	wrapGzip = "gzip"
	wrapXZ   = "xz"
)

// maxUnwrapped bounds the unwrapped size of an input: the largest header,
// the sector descriptor, a full tree, and a bitstream of the longest
// decoded length.
var maxUnwrapped int64 = container.Limit + 16 + 6 + 2*255 + huffman.MaxLength

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicXZ   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

func wrapExt(format string) string {
	switch format {
	case wrapGzip:
		return ".gz"
	case wrapXZ:
		return ".xz"
	default:
		return ""
	}
}

func checkWrap(format string) error {
	switch format {
	case wrapNone, wrapGzip, wrapXZ:
		return nil
	default:
		return fmt.Errorf("invalid wrap format %q", format)
	}
}

// detectWrap reports the outer format of b by its magic bytes.
func detectWrap(b []byte) string {
	switch {
	case bytes.HasPrefix(b, magicGzip):
		return wrapGzip
	case bytes.HasPrefix(b, magicXZ):
		return wrapXZ
	default:
		return wrapNone
	}
}

// unwrap strips an outer gzip or xz layer from b, if present.
func unwrap(b []byte) ([]byte, string, error) {
	format := detectWrap(b)
	var rd io.Reader
	switch format {
	case wrapGzip:
		zr, err := gzip.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, format, err
		}
		defer zr.Close()
		rd = zr
	case wrapXZ:
		xr, err := xz.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, format, err
		}
		rd = xr
	default:
		return b, format, nil
	}
	out, err := ioutil.ReadAll(io.LimitReader(rd, maxUnwrapped+1))
	if err != nil {
		return nil, format, err
	}
	if int64(len(out)) > maxUnwrapped {
		return nil, format, fmt.Errorf("%s data exceeds %d bytes", format, maxUnwrapped)
	}
	return out, format, nil
}

// trimWrapExt removes the extension belonging to format from name.
func trimWrapExt(name, format string) string {
	if ext := wrapExt(format); ext != "" {
		return strings.TrimSuffix(name, ext)
	}
	return name
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// newWrapper returns a writer that compresses into w using format.
// Closing it flushes the outer format but does not close w.
func newWrapper(w io.Writer, format string) (io.WriteCloser, error) {
	switch format {
	case wrapGzip:
		return gzip.NewWriter(w), nil
	case wrapXZ:
		return xz.NewWriter(w)
	case wrapNone:
		return nopCloser{w}, nil
	default:
		return nil, checkWrap(format)
	}
}

// writeWrapped writes data to w inside the outer format.
func writeWrapped(w io.Writer, data []byte, format string) error {
	wr, err := newWrapper(w, format)
	if err != nil {
		return err
	}
	_, err = wr.Write(data)
	if cerr := wr.Close(); err == nil {
		err = cerr
	}
	return err
}
