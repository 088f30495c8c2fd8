// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/pmoc/pmoc/checksum"
	"github.com/pmoc/pmoc/container"
)

// config holds the settings that apply to every input file.
type config struct {
	OutDir string // Output directory; empty means next to the input
	Suffix string // Appended to the input name
	Wrap   string // Outer format of the output
	Info   bool   // Describe the sector instead of decompressing
	Digest bool   // Fingerprint the decompressed output
	Force  bool   // Overwrite existing outputs
}

// report describes the outcome for one input file.
type report struct {
	Input   string
	Output  string
	InWrap  string // Outer format detected on the input
	InSize  int64
	OutSize int64

	Info   *container.Info // Set in info mode
	CRC    uint32          // CRC-32 of the decompressed file
	XXHash uint64          // xxHash64 of the decompressed file
	Digest bool            // Checksums were requested
}

// outputPath derives the output name from the input name, dropping the
// extension of any outer format that was removed from the input.
func outputPath(in, inWrap string, cfg config) string {
	dir := cfg.OutDir
	if dir == "" {
		dir = filepath.Dir(in)
	}
	name := trimWrapExt(filepath.Base(in), inWrap)
	return filepath.Join(dir, name+cfg.Suffix+wrapExt(cfg.Wrap))
}

// unpackFile decompresses the file at path according to cfg.
func unpackFile(path string, cfg config) (rep report, err error) {
	rep.Input = path
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return rep, err
	}
	rep.InSize = int64(len(raw))

	file, inWrap, err := unwrap(raw)
	if err != nil {
		return rep, err
	}
	rep.InWrap = inWrap
	plog.Debugf("%s: read %d bytes (outer format %s)", path, len(raw), inWrap)

	if cfg.Info {
		info, err := container.Inspect(file)
		if err != nil {
			return rep, err
		}
		rep.Info = &info
		return rep, nil
	}

	var buf bytes.Buffer
	crc := checksum.New()
	xxh := xxhash.New()
	ws := []io.Writer{&buf, crc}
	if cfg.Digest {
		ws = append(ws, xxh)
	}
	rd := container.NewReader(bytes.NewReader(file))
	if _, err := io.Copy(io.MultiWriter(ws...), rd); err != nil {
		return rep, err
	}
	if err := rd.Close(); err != nil {
		return rep, err
	}
	rep.OutSize = rd.OutputOffset
	rep.CRC = crc.Sum32()
	if cfg.Digest {
		rep.XXHash, rep.Digest = xxh.Sum64(), true
	}

	rep.Output = outputPath(path, inWrap, cfg)
	if err := writeFile(rep.Output, buf.Bytes(), cfg); err != nil {
		return rep, err
	}
	plog.Debugf("%s: wrote %d bytes to %s", path, rep.OutSize, rep.Output)
	return rep, nil
}

// writeFile stores data at path inside the configured outer format.
// Existing files are only replaced when cfg.Force is set.
func writeFile(path string, data []byte, cfg config) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if cfg.Force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return err
	}
	err = writeWrapped(f, data, cfg.Wrap)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}
