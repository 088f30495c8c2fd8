// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// +build ignore

// Generates chapter0 and chapter0_dec. The compressed file has a 320-byte
// save header followed by a sector holding twain.txt, and chapter0_dec is
// the expected decompressed file.
package main

import (
	"io/ioutil"

	"github.com/pmoc/pmoc/internal/testutil"
)

const headerSize = 320

func main() {
	hdr := make([]byte, headerSize)
	copy(hdr, "SAVEDATA chapter")
	for i := 16; i < len(hdr); i++ {
		hdr[i] = byte(i*7 + 3)
	}

	payload := testutil.MustLoadFile("twain.txt", -1)
	file := testutil.MustBuildContainer(hdr, payload)
	if err := ioutil.WriteFile("chapter0", file, 0664); err != nil {
		panic(err)
	}
	dec := append(hdr, payload...)
	if err := ioutil.WriteFile("chapter0_dec", dec, 0664); err != nil {
		panic(err)
	}
}
