// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffman

import "github.com/pmoc/pmoc/internal/errors"

// Tree is a read-only view over the flat tree of a stream.
// It must be at least 2 bytes long and hold 2+2*Size() bytes.
type Tree []byte

// NewTree returns the tree embedded in src, which must have a valid header.
func NewTree(src []byte, h Header) Tree {
	return Tree(src[headerSize:h.DataOffset])
}

// Size reports the number of node pairs, which bounds the cursor.
func (t Tree) Size() int { return int(t[0]) }

// Root reports the encoded root entry.
func (t Tree) Root() byte { return t[1] }

// Step follows one bit from the node described by entry, which lives in
// pair pos. It returns the pair holding the child, the child entry, and
// whether that entry is a leaf. It panics with TreeOverflow if the child
// pair lies beyond the tree.
func (t Tree) Step(pos int, entry byte, bit bool) (int, byte, bool) {
	pos += int(entry&maskOffset) + 1
	if pos > t.Size() {
		errors.Panic(errorf(errors.TreeOverflow, 0))
	}
	if bit {
		return pos, t[2*pos+1], entry&maskRight != 0
	}
	return pos, t[2*pos], entry&maskLeft != 0
}
