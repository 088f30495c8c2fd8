// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cheggaaa/pb/v3"
	strconv "github.com/dsnet/golib/unitconv"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// printer writes one status line per input file.
type printer struct {
	w    io.Writer
	ok   *color.Color
	fail *color.Color
	note *color.Color
}

func newPrinter(w io.Writer, colored bool) *printer {
	p := &printer{
		w:    w,
		ok:   color.New(color.FgGreen, color.Bold),
		fail: color.New(color.FgRed, color.Bold),
		note: color.New(color.FgCyan),
	}
	if !colored {
		p.ok.DisableColor()
		p.fail.DisableColor()
		p.note.DisableColor()
	}
	return p
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func formatSize(n int64) string {
	s := strconv.FormatPrefix(float64(n), strconv.Base1024, 2)
	return strings.Replace(s, ".00", "", -1) + "B"
}

func (p *printer) print(rep report, err error) {
	switch {
	case err != nil:
		p.fail.Fprint(p.w, "FAIL")
		fmt.Fprintf(p.w, " %s: %v\n", rep.Input, err)
	case rep.Info != nil:
		p.printInfo(rep)
	default:
		p.ok.Fprint(p.w, "OK  ")
		fmt.Fprintf(p.w, " %s -> %s (%s -> %s)\n", rep.Input, rep.Output, formatSize(rep.InSize), formatSize(rep.OutSize))
		if rep.Digest {
			fmt.Fprintf(p.w, "     crc32:%08x xxh64:%016x\n", rep.CRC, rep.XXHash)
		}
	}
}

func (p *printer) printInfo(rep report) {
	info := rep.Info
	p.note.Fprint(p.w, "INFO")
	fmt.Fprintf(p.w, " %s", rep.Input)
	if rep.InWrap != wrapNone {
		fmt.Fprintf(p.w, " (%s)", rep.InWrap)
	}
	fmt.Fprintln(p.w)
	fmt.Fprintf(p.w, "     header:  %s, crc32:%08x\n", formatSize(int64(info.Offset)), info.HeaderCRC)
	fmt.Fprintf(p.w, "     sector:  length %s, crc32:%08x\n", formatSize(int64(info.Length)), info.CRC)
	fmt.Fprintf(p.w, "     stream:  mode 0x28, %d tree pairs, bitstream at %d\n",
		info.Stream.TreeSize, info.HuffmanStart+info.Stream.DataOffset)
	if uint32(info.Stream.OutLength) != info.Length {
		p.fail.Fprint(p.w, "     warning:")
		fmt.Fprintf(p.w, " stream declares %d bytes\n", info.Stream.OutLength)
	}
}

// progress tracks completed files on a terminal.
type progress struct {
	bar *pb.ProgressBar
}

func newProgress(w io.Writer, n int) *progress {
	bar := pb.New(n)
	bar.SetWriter(w)
	bar.SetTemplate(pb.Simple)
	return &progress{bar: bar.Start()}
}

func (p *progress) Increment() {
	if p != nil {
		p.bar.Increment()
	}
}

func (p *progress) Finish() {
	if p != nil {
		p.bar.Finish()
	}
}
