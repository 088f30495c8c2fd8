// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import (
	"container/heap"
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// The encoder below is deliberately independent of the decoder packages so
// that round trips exercise two separate readings of the format.

const (
	huffMode    = 0x28
	sectorMagic = 0x434f4d50
	sectorAlign = 64
	sectorLimit = 1024
)

type huffNode struct {
	sym         byte
	cnt         int
	seq         int // Tie-breaker to keep the tree deterministic
	left, right *huffNode
}

func (n *huffNode) leaf() bool { return n.left == nil }

type huffHeap []*huffNode

func (h huffHeap) Len() int { return len(h) }
func (h huffHeap) Less(i, j int) bool {
	if h[i].cnt != h[j].cnt {
		return h[i].cnt < h[j].cnt
	}
	return h[i].seq < h[j].seq
}
func (h huffHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *huffHeap) Push(x interface{}) { *h = append(*h, x.(*huffNode)) }
func (h *huffHeap) Pop() interface{} {
	n := (*h)[len(*h)-1]
	*h = (*h)[:len(*h)-1]
	return n
}

type huffCode struct {
	val uint64
	len uint
}

// EncodeHuffman encodes data as a mode 0x28 Huffman stream.
//
// Node pairs are laid out breadth-first. Since an internal entry can only
// reach 64 pairs ahead, data using more than 64 distinct byte values may not
// be representable, in which case an error is returned.
func EncodeHuffman(data []byte) ([]byte, error) {
	if len(data) > 1<<24-1 {
		return nil, errors.New("testutil: data too large for a huffman stream")
	}
	root := buildHuffTree(data)

	// Assign node pairs breadth-first. The children of the i-th internal
	// node occupy pair i+1, and loc records the pair holding each node.
	nodes := []*huffNode{root}
	loc := map[*huffNode]int{root: 0}
	idx := map[*huffNode]int{root: 0}
	for i := 0; i < len(nodes); i++ {
		for _, c := range []*huffNode{nodes[i].left, nodes[i].right} {
			if !c.leaf() {
				loc[c], idx[c] = i+1, len(nodes)
				nodes = append(nodes, c)
			}
		}
	}
	if len(nodes) > 0xff {
		return nil, errors.New("testutil: too many tree nodes")
	}

	entry := func(n *huffNode) (byte, error) {
		if n.leaf() {
			return n.sym, nil
		}
		off := idx[n] + 1 - loc[n] - 1
		if off > 0x3f {
			return 0, errors.New("testutil: tree offset out of range")
		}
		e := byte(off)
		if n.left.leaf() {
			e |= 0x80
		}
		if n.right.leaf() {
			e |= 0x40
		}
		return e, nil
	}

	out := []byte{huffMode, byte(len(data)), byte(len(data) >> 8), byte(len(data) >> 16)}
	tree := make([]byte, 2+2*len(nodes))
	tree[0] = byte(len(nodes))
	var err error
	if tree[1], err = entry(root); err != nil {
		return nil, err
	}
	for i, n := range nodes {
		if tree[2*(i+1)+0], err = entry(n.left); err != nil {
			return nil, err
		}
		if tree[2*(i+1)+1], err = entry(n.right); err != nil {
			return nil, err
		}
	}
	out = append(out, tree...)

	// Emit codes most-significant bit first into 32-bit words.
	var codes [256]huffCode
	if err := assignCodes(root, huffCode{}, &codes); err != nil {
		return nil, err
	}
	var words []uint32
	var nb uint
	for _, b := range data {
		c := codes[b]
		for i := c.len; i > 0; i-- {
			if nb%32 == 0 {
				words = append(words, 0)
			}
			if c.val&(1<<(i-1)) != 0 {
				words[len(words)-1] |= 1 << (31 - nb%32)
			}
			nb++
		}
	}
	if len(words) == 0 {
		words = append(words, 0) // An empty stream still carries one word
	}
	for _, w := range words {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], w)
		out = append(out, buf[:]...)
	}
	return out, nil
}

func buildHuffTree(data []byte) *huffNode {
	var cnts [256]int
	for _, b := range data {
		cnts[b]++
	}
	var h huffHeap
	for s, c := range cnts {
		if c > 0 {
			h = append(h, &huffNode{sym: byte(s), cnt: c, seq: s})
		}
	}

	// A tree always has a root with two children.
	switch len(h) {
	case 0:
		return &huffNode{left: &huffNode{}, right: &huffNode{}}
	case 1:
		return &huffNode{left: h[0], right: &huffNode{sym: h[0].sym}}
	}

	heap.Init(&h)
	seq := 256
	for h.Len() > 1 {
		l := heap.Pop(&h).(*huffNode)
		r := heap.Pop(&h).(*huffNode)
		heap.Push(&h, &huffNode{cnt: l.cnt + r.cnt, seq: seq, left: l, right: r})
		seq++
	}
	return h[0]
}

func assignCodes(n *huffNode, c huffCode, codes *[256]huffCode) error {
	if n.leaf() {
		if codes[n.sym].len == 0 {
			codes[n.sym] = c
		}
		return nil
	}
	if c.len == 64 {
		return errors.New("testutil: code length overflow")
	}
	if err := assignCodes(n.left, huffCode{c.val << 1, c.len + 1}, codes); err != nil {
		return err
	}
	return assignCodes(n.right, huffCode{c.val<<1 | 1, c.len + 1}, codes)
}

// BuildContainer returns a file consisting of hdr followed by a compressed
// sector holding payload. The length of hdr must be a multiple of 64 and at
// most 1024, and no earlier 64-byte boundary of hdr may hold the marker.
func BuildContainer(hdr, payload []byte) ([]byte, error) {
	if len(hdr)%sectorAlign != 0 || len(hdr) > sectorLimit {
		return nil, errors.New("testutil: invalid header length")
	}
	for i := 0; i+4 <= len(hdr); i += sectorAlign {
		if binary.LittleEndian.Uint32(hdr[i:]) == sectorMagic {
			return nil, errors.New("testutil: marker inside header")
		}
	}
	stream, err := EncodeHuffman(payload)
	if err != nil {
		return nil, err
	}
	crc := crc32.Update(crc32.ChecksumIEEE(hdr), crc32.IEEETable, payload)

	var sec [16]byte
	binary.LittleEndian.PutUint32(sec[0:], sectorMagic)
	binary.LittleEndian.PutUint32(sec[8:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(sec[12:], crc)

	out := append([]byte(nil), hdr...)
	out = append(out, sec[:]...)
	return append(out, stream...), nil
}

// MustBuildContainer must build a container or else panics.
func MustBuildContainer(hdr, payload []byte) []byte {
	b, err := BuildContainer(hdr, payload)
	if err != nil {
		panic(err)
	}
	return b
}

// MustEncodeHuffman must encode data or else panics.
func MustEncodeHuffman(data []byte) []byte {
	b, err := EncodeHuffman(data)
	if err != nil {
		panic(err)
	}
	return b
}
