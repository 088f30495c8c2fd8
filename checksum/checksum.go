// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package checksum implements the CRC-32 used to validate decompressed
// sectors.
//
// The algorithm is the reflected CRC-32 with polynomial 0xedb88320. Update
// operates on the raw register so that callers can chain several inputs and
// apply the final complement themselves, which is how sector checksums are
// defined. Checksum is the conventional seeded and finalized form, and equals
// the IEEE checksum from hash/crc32.
package checksum

import (
	"hash"

	hashutil "github.com/dsnet/golib/hashmerge"
)

// Poly is the bit-reversed CRC-32 polynomial.
const Poly = 0xedb88320

// Size of a checksum in bytes.
const Size = 4

// Update returns the register after feeding all bytes of buf into reg.
// A fresh computation starts with a register of ^uint32(0).
func Update(reg uint32, buf []byte) uint32 {
	for _, b := range buf {
		x := (uint32(b) ^ reg) & 0xff
		for i := 0; i < 8; i++ {
			x = x>>1 ^ (x&1)*Poly
		}
		reg = x ^ reg>>8
	}
	return reg
}

// Checksum returns the finalized CRC-32 of buf.
func Checksum(buf []byte) uint32 {
	return ^Update(^uint32(0), buf)
}

// Combine returns the checksum of the concatenation of two inputs, given the
// finalized checksum of each and the length of the second.
func Combine(crc1, crc2 uint32, len2 int64) uint32 {
	return hashutil.CombineCRC32(Poly, crc1, crc2, len2)
}

type digest struct{ reg uint32 }

// New returns a hash.Hash32 computing the finalized checksum.
func New() hash.Hash32 {
	d := new(digest)
	d.Reset()
	return d
}

func (d *digest) Write(buf []byte) (int, error) {
	d.reg = Update(d.reg, buf)
	return len(buf), nil
}

func (d *digest) Sum(b []byte) []byte {
	s := d.Sum32()
	return append(b, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}

func (d *digest) Sum32() uint32  { return ^d.reg }
func (d *digest) Reset()         { d.reg = ^uint32(0) }
func (d *digest) Size() int      { return Size }
func (d *digest) BlockSize() int { return 1 }
