// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// +build ignore

// Benchmark tool to compare the sector decompressor with general purpose
// formats. Individual implementations are referred to as codecs.
//
// Example usage:
//	$ go build -o benchmark main.go
//	$ ./benchmark \
//		-formats pmoc,gz     \
//		-tests   decRate     \
//		-codecs  pmoc,std,kp \
//		-files   twain.txt   \
//		-sizes   1e4,1e5,1e6
//
//	BENCHMARK: pmoc:decRate
//		benchmark             pmoc MB/s  delta
//		twain.txt:6:1e4           61.35  1.00x
//		twain.txt:6:1e5           66.02  1.00x
//		twain.txt:6:1e6           66.90  1.00x
package main

import (
	"flag"
	"fmt"
	"go/build"
	"io/ioutil"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	strconv "github.com/dsnet/golib/unitconv"
	"github.com/pmoc/pmoc/internal/tool/bench"
)

// By default, the benchmark tool will look for test data in this directory.
const testPkg = "github.com/pmoc/pmoc/testdata"

const (
	defaultLevels = "6"
	defaultSizes  = "1e4,1e5,1e6"
)

// Decoders of a format all consume the output of one reference encoder,
// chosen in this order of priority.
var encRefs = []string{"pmoc", "std", "kp", "xz"}

var (
	fmtToEnum = map[string]int{
		"pmoc": bench.FormatPMOC,
		"gz":   bench.FormatGzip,
		"xz":   bench.FormatXZ,
	}
	enumToFmt = map[int]string{
		bench.FormatPMOC: "pmoc",
		bench.FormatGzip: "gz",
		bench.FormatXZ:   "xz",
	}
	testToEnum = map[string]int{
		"encRate": bench.TestEncodeRate,
		"decRate": bench.TestDecodeRate,
		"ratio":   bench.TestCompressRatio,
	}
	enumToTest = map[int]string{
		bench.TestEncodeRate:    "encRate",
		bench.TestDecodeRate:    "decRate",
		bench.TestCompressRatio: "ratio",
	}
)

func sortedKeys(m map[string]int, byValue bool) string {
	var s []string
	for k := range m {
		s = append(s, k)
	}
	sort.Slice(s, func(i, j int) bool {
		if byValue {
			return m[s[i]] < m[s[j]]
		}
		return s[i] < s[j]
	})
	return strings.Join(s, ",")
}

func defaultCodecs() string {
	m := make(map[string]int)
	for _, v := range bench.Encoders {
		for k := range v {
			m[k] = 0
		}
	}
	for _, v := range bench.Decoders {
		for k := range v {
			m[k] = 0
		}
	}
	return sortedKeys(m, false)
}

func defaultPaths() string {
	pkg, err := build.Import(testPkg, "", build.FindOnly)
	if err != nil {
		return "."
	}
	return pkg.Dir
}

func defaultFiles() string {
	fis, err := ioutil.ReadDir(strings.Split(defaultPaths(), ",")[0])
	if err != nil {
		return ""
	}
	var s []string
	for _, fi := range fis {
		if strings.HasSuffix(fi.Name(), ".txt") {
			s = append(s, fi.Name())
		}
	}
	return strings.Join(s, ",")
}

func main() {
	f0 := flag.String("formats", sortedKeys(fmtToEnum, true), "List of formats to benchmark")
	f1 := flag.String("tests", sortedKeys(testToEnum, true), "List of different benchmark tests")
	f2 := flag.String("codecs", defaultCodecs(), "List of codecs to benchmark")
	f3 := flag.String("paths", defaultPaths(), "List of paths to search for test files")
	f4 := flag.String("files", defaultFiles(), "List of input files to benchmark")
	f5 := flag.String("levels", defaultLevels, "List of compression levels to benchmark")
	f6 := flag.String("sizes", defaultSizes, "List of input sizes to benchmark")
	flag.Parse()

	var sep = regexp.MustCompile("[,:]")
	var formats, tests, levels, sizes []int
	codecs := sep.Split(*f2, -1)
	files := sep.Split(*f4, -1)
	for _, s := range sep.Split(*f0, -1) {
		ft, ok := fmtToEnum[s]
		if !ok {
			panic("invalid format: " + s)
		}
		formats = append(formats, ft)
	}
	for _, s := range sep.Split(*f1, -1) {
		tt, ok := testToEnum[s]
		if !ok {
			panic("invalid test: " + s)
		}
		tests = append(tests, tt)
	}
	for _, s := range sep.Split(*f5, -1) {
		lvl, err := strconv.ParsePrefix(s, strconv.AutoParse)
		if err != nil {
			panic("invalid level: " + s)
		}
		levels = append(levels, int(lvl))
	}
	for _, s := range sep.Split(*f6, -1) {
		nf, err := strconv.ParsePrefix(s, strconv.AutoParse)
		if err != nil {
			panic("invalid size: " + s)
		}
		sizes = append(sizes, int(nf))
	}

	ts := time.Now()
	bench.Paths = sep.Split(*f3, -1)
	runBenchmarks(files, codecs, formats, tests, levels, sizes)
	fmt.Printf("RUNTIME: %v\n", time.Since(ts))
}

func available(m map[string]bench.Encoder, d map[string]bench.Decoder, codecs []string) (encs, decs []string) {
	for _, c := range codecs {
		if _, ok := m[c]; ok {
			encs = append(encs, c)
		}
		if _, ok := d[c]; ok {
			decs = append(decs, c)
		}
	}
	return encs, decs
}

func runBenchmarks(files, codecs []string, formats, tests, levels, sizes []int) {
	for _, f := range formats {
		encs, decs := available(bench.Encoders[f], bench.Decoders[f], codecs)
		for _, t := range tests {
			fmt.Printf("BENCHMARK: %s:%s\n", enumToFmt[f], enumToTest[t])
			if len(encs) == 0 && t != bench.TestDecodeRate {
				fmt.Print("\tSKIP: There are no encoders available.\n\n")
				continue
			}
			ref := getReferenceEncoder(f)
			if (len(decs) == 0 || ref == nil) && t == bench.TestDecodeRate {
				fmt.Print("\tSKIP: There are no decoders available.\n\n")
				continue
			}

			var cnt, total int
			tick := func() {
				pct := 100.0 * float64(cnt) / float64(total)
				fmt.Printf("\t[%6.2f%%] %d of %d\r", pct, cnt, total)
				cnt++
			}

			var results [][]bench.Result
			var names, used []string
			var title, suffix string
			switch t {
			case bench.TestEncodeRate:
				used, title = encs, "MB/s"
				total = len(used) * len(files) * len(levels) * len(sizes)
				results, names = bench.BenchmarkEncoderSuite(f, encs, files, levels, sizes, tick)
			case bench.TestDecodeRate:
				used, title = decs, "MB/s"
				total = len(used) * len(files) * len(levels) * len(sizes)
				results, names = bench.BenchmarkDecoderSuite(f, decs, files, levels, sizes, ref, tick)
			case bench.TestCompressRatio:
				used, title, suffix = encs, "ratio", "x"
				total = len(used) * len(files) * len(levels) * len(sizes)
				results, names = bench.BenchmarkRatioSuite(f, encs, files, levels, sizes, tick)
			}
			printResults(results, names, used, title, suffix)
			fmt.Println()
		}
	}
}

func getReferenceEncoder(f int) bench.Encoder {
	for _, c := range encRefs {
		if enc, ok := bench.Encoders[f][c]; ok {
			return enc
		}
	}
	for _, enc := range bench.Encoders[f] {
		return enc
	}
	return nil
}

func printResults(results [][]bench.Result, names, codecs []string, title, suffix string) {
	cells := make([][]string, 1+len(names))
	for i := range cells {
		cells[i] = make([]string, 1+2*len(codecs))
	}
	cells[0][0] = "benchmark"
	for i, c := range codecs {
		cells[0][1+2*i] = c + " " + title
		cells[0][2+2*i] = "delta"
	}
	for j, row := range results {
		cells[1+j][0] = names[j]
		for i, r := range row {
			if r.R != 0 && !math.IsNaN(r.R) && !math.IsInf(r.R, 0) {
				cells[1+j][1+2*i] = fmt.Sprintf("%.2f", r.R) + suffix
			}
			if r.D != 0 && !math.IsNaN(r.D) && !math.IsInf(r.D, 0) {
				cells[1+j][2+2*i] = fmt.Sprintf("%.2f", r.D) + "x"
			}
		}
	}

	maxLens := make([]int, 1+2*len(codecs))
	for _, row := range cells {
		for i, s := range row {
			if maxLens[i] < len(s) {
				maxLens[i] = len(s)
			}
		}
	}
	for _, row := range cells {
		fmt.Print("\t")
		for i, s := range row {
			switch {
			case i == 0:
				fmt.Print(s + strings.Repeat(" ", maxLens[i]-len(s)))
			case i%2 == 1:
				fmt.Print(strings.Repeat(" ", 6+maxLens[i]-len(s)) + s)
			default:
				fmt.Print(strings.Repeat(" ", 2+maxLens[i]-len(s)) + s)
			}
		}
		fmt.Println()
	}
}
