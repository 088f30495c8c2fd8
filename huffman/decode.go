// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffman

import (
	"encoding/binary"

	"github.com/pmoc/pmoc/internal/errors"
)

// Decode decodes the stream that begins at src[0] and returns the decoded
// bytes. The bitstream must end in the word that completes the final byte.
func Decode(src []byte) (b []byte, err error) {
	defer errors.Recover(&err)

	h, err := ReadHeader(src)
	if err != nil {
		return nil, err
	}
	tree := NewTree(src, h)
	out := make([]byte, h.OutLength)

	// An empty output is complete before the first word is read.
	if len(out) == 0 {
		if n := len(src) - h.DataOffset - wordSize; n > 0 {
			return nil, errorf(errors.TrailingBytes, n)
		}
		return out, nil
	}

	var (
		pos   int
		entry = tree.Root()
		leaf  bool
		cnt   int
	)
	for sp := h.DataOffset; sp+wordSize <= len(src); sp += wordSize {
		word := binary.LittleEndian.Uint32(src[sp:])
		for mask := uint32(1) << 31; mask != 0; mask >>= 1 {
			pos, entry, leaf = tree.Step(pos, entry, word&mask != 0)
			if !leaf {
				continue
			}
			out[cnt] = entry
			cnt++
			if cnt == len(out) {
				if n := len(src) - sp - wordSize; n != 0 {
					return nil, errorf(errors.TrailingBytes, n)
				}
				return out, nil
			}
			pos, entry = 0, tree.Root()
		}
	}
	return nil, errorf(errors.TruncatedInput, len(out)-cnt)
}
