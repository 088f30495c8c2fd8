// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bench compares the sector decompressor against general purpose
// formats with respect to encode speed, decode speed, and ratio.
//
// Implementations are referred to as codecs and register themselves per
// format. A PMOC encoder exists only so that decoders have input to consume.
package bench

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"

	strconv "github.com/dsnet/golib/unitconv"
	"github.com/pmoc/pmoc/internal/testutil"
)

const (
	FormatPMOC = iota
	FormatGzip
	FormatXZ
)

const (
	TestEncodeRate = iota
	TestDecodeRate
	TestCompressRatio
)

// Encoder wraps w with a compressor. Codecs without levels ignore lvl.
type Encoder func(w io.Writer, lvl int) io.WriteCloser

// Decoder wraps r with a decompressor.
type Decoder func(r io.Reader) io.ReadCloser

var (
	Encoders map[int]map[string]Encoder
	Decoders map[int]map[string]Decoder

	// List of search paths for test files.
	Paths []string
)

func RegisterEncoder(format int, name string, enc Encoder) {
	if Encoders == nil {
		Encoders = make(map[int]map[string]Encoder)
	}
	if Encoders[format] == nil {
		Encoders[format] = make(map[string]Encoder)
	}
	Encoders[format][name] = enc
}

func RegisterDecoder(format int, name string, dec Decoder) {
	if Decoders == nil {
		Decoders = make(map[int]map[string]Decoder)
	}
	if Decoders[format] == nil {
		Decoders[format] = make(map[string]Decoder)
	}
	Decoders[format][name] = dec
}

// Result is a single cell of a benchmark table.
type Result struct {
	R float64 // Rate (MB/s) or ratio (rawSize/compSize)
	D float64 // Delta ratio relative to the first codec
}

// rate converts a benchmark result into MB/s.
func rate(r testing.BenchmarkResult) Result {
	if r.N == 0 || r.T <= 0 {
		return Result{}
	}
	us := (float64(r.T.Nanoseconds()) / 1e3) / float64(r.N)
	return Result{R: float64(r.Bytes) / us}
}

// compress runs input through enc and returns the compressed form.
func compress(input []byte, enc Encoder, lvl int) ([]byte, error) {
	var buf bytes.Buffer
	wr := enc(&buf, lvl)
	_, err := io.Copy(wr, bytes.NewReader(input))
	if cerr := wr.Close(); err == nil {
		err = cerr
	}
	return buf.Bytes(), err
}

// BenchmarkEncoder benchmarks a single encoder on the given input data using
// the selected compression level.
func BenchmarkEncoder(input []byte, enc Encoder, lvl int) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		if enc == nil {
			b.Fatalf("unexpected error: nil Encoder")
		}
		runtime.GC()
		b.SetBytes(int64(len(input)))
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			wr := enc(ioutil.Discard, lvl)
			_, err := io.Copy(wr, bytes.NewReader(input))
			if cerr := wr.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
		}
	})
}

// BenchmarkDecoder benchmarks a single decoder on pre-compressed input.
// The reported byte count is the decompressed size.
func BenchmarkDecoder(input []byte, dec Decoder) testing.BenchmarkResult {
	return testing.Benchmark(func(b *testing.B) {
		b.StopTimer()
		if dec == nil {
			b.Fatalf("unexpected error: nil Decoder")
		}
		runtime.GC()
		b.StartTimer()
		for i := 0; i < b.N; i++ {
			rd := dec(bufio.NewReader(bytes.NewReader(input)))
			cnt, err := io.Copy(ioutil.Discard, rd)
			if cerr := rd.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				b.Fatalf("unexpected error: %v", err)
			}
			b.SetBytes(cnt)
		}
	})
}

// BenchmarkEncoderSuite runs the encoders across all files, levels, and sizes.
//
// The values returned have the following structure:
//	results: [len(files)*len(levels)*len(sizes)][len(encs)]Result
//	names:   [len(files)*len(levels)*len(sizes)]string
func BenchmarkEncoderSuite(format int, encs, files []string, levels, sizes []int, tick func()) ([][]Result, []string) {
	return benchmarkSuite(encs, files, levels, sizes, tick,
		func(input []byte, enc string, lvl int) Result {
			return rate(BenchmarkEncoder(input, Encoders[format][enc], lvl))
		})
}

// BenchmarkDecoderSuite runs the decoders across all files, levels, and
// sizes. Every decoder consumes the output of the same reference encoder.
func BenchmarkDecoderSuite(format int, decs, files []string, levels, sizes []int, ref Encoder, tick func()) ([][]Result, []string) {
	return benchmarkSuite(decs, files, levels, sizes, tick,
		func(input []byte, dec string, lvl int) Result {
			output, err := compress(input, ref, lvl)
			if err != nil {
				return Result{}
			}
			return rate(BenchmarkDecoder(output, Decoders[format][dec]))
		})
}

// BenchmarkRatioSuite reports the compression ratio of each encoder across
// all files, levels, and sizes.
func BenchmarkRatioSuite(format int, encs, files []string, levels, sizes []int, tick func()) ([][]Result, []string) {
	return benchmarkSuite(encs, files, levels, sizes, tick,
		func(input []byte, enc string, lvl int) Result {
			output, err := compress(input, Encoders[format][enc], lvl)
			if err != nil || len(output) == 0 {
				return Result{}
			}
			return Result{R: float64(len(input)) / float64(len(output))}
		})
}

type benchFunc func(input []byte, codec string, level int) Result

func benchmarkSuite(codecs, files []string, levels, sizes []int, tick func(), run benchFunc) ([][]Result, []string) {
	d0 := len(files) * len(levels) * len(sizes)
	results := make([][]Result, d0)
	for i := range results {
		results[i] = make([]Result, len(codecs))
	}
	names := make([]string, d0)

	var i int
	for _, f := range files {
		for _, l := range levels {
			for _, n := range sizes {
				b, err := testutil.LoadFile(getPath(f), n)
				names[i] = getName(f, l, len(b))
				for j, c := range codecs {
					if tick != nil {
						tick()
					}
					if err == nil {
						results[i][j] = run(b, c, l)
					}
					if base := results[i][0].R; base != 0 {
						results[i][j].D = results[i][j].R / base
					}
				}
				i++
			}
		}
	}
	return results, names
}

func getPath(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	for _, p := range Paths {
		p = filepath.Join(p, file)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return file
}

var reExp = regexp.MustCompile(`\.0*e\+0*`)

func getName(f string, l, n int) string {
	var sn string
	switch n {
	case 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9:
		sn = reExp.ReplaceAllString(fmt.Sprintf("%e", float64(n)), "e")
	default:
		s := strconv.FormatPrefix(float64(n), strconv.Base1024, 2)
		sn = strings.Replace(s, ".00", "", -1)
	}
	return fmt.Sprintf("%s:%d:%s", filepath.Base(f), l, sn)
}
