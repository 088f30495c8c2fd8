// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"bytes"
	"encoding/hex"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/pmoc/pmoc/internal"
)

var (
	reBin = regexp.MustCompile("^[01]{1,64}$")
	reDec = regexp.MustCompile("^D[0-9]+:[0-9]+$")
	reHex = regexp.MustCompile("^H[0-9]+:[0-9a-fA-F]{1,16}$")
	reRaw = regexp.MustCompile("^X:[0-9a-fA-F]+$")
	reQnt = regexp.MustCompile("[*][0-9]+$")
)

// Bit-packing modes selected by the first token of a BitGen string.
const (
	packLE     = iota // "<<<": bits fill each byte from the LSB
	packBE            // ">>>": bits fill each byte from the MSB
	packWordBE        // ">>>w": bits fill 32-bit little-endian words from the MSB
)

// DecodeBitGen decodes a BitGen formatted string.
//
// BitGen scripts a bit-stream as a sequence of whitespace separated tokens so
// that test vectors can be written by hand with their intent documented
// inline. Any text after a '#' on a line is a comment.
//
// The first token selects how the resulting bits are packed into bytes:
//
//	<<<   little-endian: the first bit lands in the LSB of the first byte
//	>>>   big-endian: the first bit lands in the MSB of the first byte
//	>>>w  word big-endian: the first bit lands in the MSB of a 32-bit word,
//	      and each word is stored in little-endian byte order. The output is
//	      zero padded to a multiple of 4 bytes. This is the layout of the
//	      bitstream in a mode 0x28 Huffman stream.
//
// A lone "<" or ">" token sets the bit-parsing mode for the tokens that
// follow, and defaults to "<". The same character may also prefix a single
// token to override the mode for that token only.
//
// Value tokens:
//
//	[01]{1,64}               a bit-string (e.g. 0110)
//	D<n>:<decimal>           an n-bit unsigned value
//	H<n>:<hex>               an n-bit unsigned value
//	X:<hex>                  literal bytes, only valid on a byte boundary
//
// In little-endian parsing mode the right-most bit of a bit-string, or the
// least-significant bit of a value, is written first. Big-endian parsing mode
// writes the left-most or most-significant bit first. Literal bytes are not
// affected by either mode, although in word mode they are still subject to the
// byte swap of the word they fall in.
//
// Any token may end with "*<count>" to repeat it.
//
// If the bit-stream does not end on a byte (or, in word mode, word) boundary,
// it is padded with zero bits.
//
// Example BitGen string for the bitstream of "abba" under a tree whose left
// leaf is 'a' and right leaf is 'b':
//
//	>>>w      # Word packing, as used by mode 0x28 streams
//	> 0 1 1 0 # a b b a
//
// Generated output (in hexadecimal): "00000060"
func DecodeBitGen(str string) ([]byte, error) {
	// Tokenize the input string by removing comments and superfluous spaces.
	var toks []string
	for _, s := range strings.Split(str, "\n") {
		if i := strings.IndexByte(s, '#'); i >= 0 {
			s = s[:i]
		}
		for _, t := range strings.Fields(s) {
			toks = append(toks, t)
		}
	}
	if len(toks) == 0 {
		toks = append(toks, "")
	}

	var packMode int
	switch toks[0] {
	case "<<<":
		packMode = packLE
	case ">>>":
		packMode = packBE
	case ">>>w":
		packMode = packWordBE
	default:
		return nil, errors.New("testutil: unknown stream bit-packing mode")
	}
	toks = toks[1:]

	bw := bitBuffer{rev: packMode != packLE}
	var parseMode bool // Bit-parsing mode: false is LE, true is BE
	for _, t := range toks {
		pm := parseMode
		if t[0] == '<' || t[0] == '>' {
			pm = bool(t[0] == '>')
			t = t[1:]
			if len(t) == 0 {
				parseMode = pm // This is a global modifier, so remember it
				continue
			}
		}

		rep := 1
		if reQnt.MatchString(t) {
			i := strings.LastIndexByte(t, '*')
			tt, tn := t[:i], t[i+1:]
			n, err := strconv.Atoi(tn)
			if err != nil {
				return nil, errors.New("testutil: invalid quantified token: " + t)
			}
			t, rep = tt, n
		}

		switch {
		case reBin.MatchString(t):
			var v uint64
			for _, b := range t {
				v <<= 1
				v |= uint64(b - '0')
			}
			if pm {
				v = internal.ReverseUint64N(v, uint(len(t)))
			}
			for i := 0; i < rep; i++ {
				bw.WriteBits64(v, uint(len(t)))
			}
		case reDec.MatchString(t) || reHex.MatchString(t):
			i := strings.IndexByte(t, ':')
			tb, tn, tv := t[0], t[1:i], t[i+1:]

			base := 10
			if tb == 'H' {
				base = 16
			}
			n, err1 := strconv.Atoi(tn)
			v, err2 := strconv.ParseUint(tv, base, 64)
			if err1 != nil || err2 != nil || n > 64 {
				return nil, errors.New("testutil: invalid numeric token: " + t)
			}
			if n < 64 && v&((1<<uint(n))-1) != v {
				return nil, errors.New("testutil: integer overflow on token: " + t)
			}
			if pm {
				v = internal.ReverseUint64N(v, uint(n))
			}
			for i := 0; i < rep; i++ {
				bw.WriteBits64(v, uint(n))
			}
		case reRaw.MatchString(t):
			b, err := hex.DecodeString(t[2:])
			if err != nil {
				return nil, errors.New("testutil: invalid raw bytes token: " + t)
			}
			if _, err := bw.Write(bytes.Repeat(b, rep)); err != nil {
				return nil, err
			}
		default:
			return nil, errors.New("testutil: invalid token: " + t)
		}
	}

	buf := bw.Bytes()
	if packMode == packLE {
		return buf, nil
	}
	for i, b := range buf {
		buf[i] = internal.ReverseLUT[b]
	}
	if packMode == packWordBE {
		for len(buf)%4 != 0 {
			buf = append(buf, 0)
		}
		internal.SwapWords(buf)
	}
	return buf, nil
}

// bitBuffer is a minimal little-endian bit writer. If rev is set, literal
// bytes are stored bit-reversed so that the final big-endian pass restores them.
type bitBuffer struct {
	b   []byte
	m   byte
	rev bool
}

func (b *bitBuffer) Write(buf []byte) (int, error) {
	if b.m != 0x00 {
		return 0, errors.New("testutil: unaligned write")
	}
	for _, c := range buf {
		if b.rev {
			c = internal.ReverseLUT[c]
		}
		b.b = append(b.b, c)
	}
	return len(buf), nil
}

func (b *bitBuffer) WriteBits64(v uint64, n uint) {
	for i := uint(0); i < n; i++ {
		if b.m == 0x00 {
			b.m = 0x01
			b.b = append(b.b, 0x00)
		}
		if v&(1<<i) != 0 {
			b.b[len(b.b)-1] |= b.m
		}
		b.m <<= 1
	}
}

func (b *bitBuffer) Bytes() []byte {
	return b.b
}
