// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"bytes"
	stdgzip "compress/gzip"
	"io"
	"io/ioutil"

	kpgzip "github.com/klauspost/compress/gzip"
	"github.com/pmoc/pmoc/container"
	"github.com/pmoc/pmoc/internal/testutil"
	"github.com/ulikunitz/xz"
)

// sectorWriter buffers its input and emits a compressed file on Close,
// since the sector descriptor records the length and checksum up front.
type sectorWriter struct {
	w   io.Writer
	buf bytes.Buffer
}

func (sw *sectorWriter) Write(b []byte) (int, error) { return sw.buf.Write(b) }

func (sw *sectorWriter) Close() error {
	file, err := testutil.BuildContainer(nil, sw.buf.Bytes())
	if err != nil {
		return err
	}
	_, err = sw.w.Write(file)
	return err
}

func init() {
	RegisterEncoder(FormatPMOC, "pmoc",
		func(w io.Writer, _ int) io.WriteCloser {
			return &sectorWriter{w: w}
		})
	RegisterDecoder(FormatPMOC, "pmoc",
		func(r io.Reader) io.ReadCloser {
			return container.NewReader(r)
		})

	RegisterEncoder(FormatGzip, "std",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := stdgzip.NewWriterLevel(w, lvl)
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder(FormatGzip, "std",
		func(r io.Reader) io.ReadCloser {
			zr, err := stdgzip.NewReader(r)
			if err != nil {
				panic(err)
			}
			return zr
		})
	RegisterEncoder(FormatGzip, "kp",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := kpgzip.NewWriterLevel(w, lvl)
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder(FormatGzip, "kp",
		func(r io.Reader) io.ReadCloser {
			zr, err := kpgzip.NewReader(r)
			if err != nil {
				panic(err)
			}
			return zr
		})

	RegisterEncoder(FormatXZ, "xz",
		func(w io.Writer, _ int) io.WriteCloser {
			zw, err := xz.NewWriter(w)
			if err != nil {
				panic(err)
			}
			return zw
		})
	RegisterDecoder(FormatXZ, "xz",
		func(r io.Reader) io.ReadCloser {
			zr, err := xz.NewReader(r)
			if err != nil {
				panic(err)
			}
			return ioutil.NopCloser(zr)
		})
}
