// Package huffman builds static Huffman codes over byte alphabets and
// transmits them as tree shapes in a bitstream.
//
// Trees are stored as an arena of nodes addressed by index. A tree is
// serialized in preorder: a leaf is a 1 bit followed by its 8-bit symbol, an
// internal node is a 0 bit followed by its left and right subtrees. Only the
// shape and the symbol set are transmitted; frequencies are needed only to
// build the tree on the encoding side.
package huffman

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/andybalholm/lznf/bitstream"
)

// Errors returned when building trees and coding symbols.
var (
	ErrCorrupt       = errors.New("huffman: corrupt input")
	ErrUnknownSymbol = errors.New("huffman: symbol not in tree")
	ErrTooDeep       = errors.New("huffman: code longer than 64 bits")
)

// maxNodes is the size of a full tree over 256 symbols.
const maxNodes = 2*256 - 1

// A node of a Huffman tree. Leaves have left == -1.
type node struct {
	count  int
	left   int16
	right  int16
	symbol byte
}

func (n *node) isLeaf() bool {
	return n.left < 0
}

// A Tree is a prefix code tree. The zero symbol-count tree is empty: it
// serializes to no bits and can only encode an empty stream.
type Tree struct {
	nodes  []node
	root   int
	leaves int
}

// Build creates a tree from a table of at most 256 symbol frequencies, where
// freq[s] is the frequency of symbol s. Symbols with zero frequency get no
// leaf.
//
// The two lowest-frequency nodes are merged repeatedly, the first one
// becoming the left child. Leaves are ordered by (frequency, symbol), and a
// leaf is taken before a merged node of equal frequency, so the result is
// fully deterministic.
func Build(freq []int) *Tree {
	if len(freq) > 256 {
		panic("huffman: more than 256 symbols")
	}
	t := &Tree{root: -1}
	for s, f := range freq {
		if f > 0 {
			t.nodes = append(t.nodes, node{count: f, left: -1, right: -1, symbol: byte(s)})
		}
	}
	n := len(t.nodes)
	t.leaves = n
	if n == 0 {
		return t
	}

	slices.SortStableFunc(t.nodes, func(a, b node) int {
		return cmp.Compare(a.count, b.count)
	})

	// The nodes are:
	// [0, n): the sorted leaves.
	// [n, 2n-1): merged nodes, appended in non-decreasing count order.
	// i and j point to the next unused leaf and merged node.
	i, j := 0, n
	next := func() int {
		if i < n && (j >= len(t.nodes) || t.nodes[i].count <= t.nodes[j].count) {
			i++
			return i - 1
		}
		j++
		return j - 1
	}
	for k := n - 1; k > 0; k-- {
		left := next()
		right := next()
		t.nodes = append(t.nodes, node{
			count: t.nodes[left].count + t.nodes[right].count,
			left:  int16(left),
			right: int16(right),
		})
	}
	t.root = len(t.nodes) - 1
	return t
}

// Empty reports whether the tree has no symbols.
func (t *Tree) Empty() bool {
	return t.root < 0
}

// Leaves returns the number of symbols in the tree.
func (t *Tree) Leaves() int {
	return t.leaves
}

// Symbols returns the tree's symbols in ascending order.
func (t *Tree) Symbols() []byte {
	var syms []byte
	for i := range t.nodes {
		if t.nodes[i].isLeaf() {
			syms = append(syms, t.nodes[i].symbol)
		}
	}
	slices.Sort(syms)
	return syms
}

// Store appends the preorder shape of the tree to w.
func (t *Tree) Store(w *bitstream.Writer) {
	if t.root >= 0 {
		t.store(w, t.root)
	}
}

func (t *Tree) store(w *bitstream.Writer, i int) {
	n := &t.nodes[i]
	if n.isLeaf() {
		w.WriteBit(true)
		w.WriteBits(uint64(n.symbol), 8)
		return
	}
	w.WriteBit(false)
	t.store(w, int(n.left))
	t.store(w, int(n.right))
}

// LoadTree reads a tree shape written by Store. A reader with no bits left
// yields the empty tree.
func LoadTree(r *bitstream.Reader) (*Tree, error) {
	t := &Tree{root: -1}
	if r.EOF() {
		return t, nil
	}
	var seen [256]bool
	root, err := t.load(r, &seen)
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

func (t *Tree) load(r *bitstream.Reader, seen *[256]bool) (int, error) {
	if len(t.nodes) >= maxNodes {
		return -1, fmt.Errorf("%w: tree has too many nodes", ErrCorrupt)
	}
	leaf, err := r.ReadBit()
	if err != nil {
		return -1, fmt.Errorf("%w: truncated tree: %v", ErrCorrupt, err)
	}
	i := len(t.nodes)
	t.nodes = append(t.nodes, node{left: -1, right: -1})

	if leaf {
		s, err := r.ReadBits(8)
		if err != nil {
			return -1, fmt.Errorf("%w: truncated leaf: %v", ErrCorrupt, err)
		}
		if seen[s] {
			return -1, fmt.Errorf("%w: duplicate symbol %#02x", ErrCorrupt, s)
		}
		seen[s] = true
		t.nodes[i].symbol = byte(s)
		t.leaves++
		return i, nil
	}

	left, err := t.load(r, seen)
	if err != nil {
		return -1, err
	}
	right, err := t.load(r, seen)
	if err != nil {
		return -1, err
	}
	t.nodes[i].left = int16(left)
	t.nodes[i].right = int16(right)
	return i, nil
}

// Decode appends the symbols coded in r to dst, reading until r reaches its
// end. A stream that ends in the middle of a code is corrupt.
func (t *Tree) Decode(dst []byte, r *bitstream.Reader) ([]byte, error) {
	if t.root < 0 {
		if !r.EOF() {
			return dst, fmt.Errorf("%w: %d data bits without a tree", ErrCorrupt, r.Remaining())
		}
		return dst, nil
	}

	root := t.nodes[t.root]
	if root.isLeaf() {
		for !r.EOF() {
			bit, err := r.ReadBit()
			if err != nil {
				return dst, err
			}
			if bit {
				return dst, fmt.Errorf("%w: invalid code for single-symbol tree", ErrCorrupt)
			}
			dst = append(dst, root.symbol)
		}
		return dst, nil
	}

	for !r.EOF() {
		i := t.root
		for !t.nodes[i].isLeaf() {
			bit, err := r.ReadBit()
			if err == io.EOF {
				return dst, fmt.Errorf("%w: truncated code", ErrCorrupt)
			}
			if err != nil {
				return dst, err
			}
			if bit {
				i = int(t.nodes[i].right)
			} else {
				i = int(t.nodes[i].left)
			}
		}
		dst = append(dst, t.nodes[i].symbol)
	}
	return dst, nil
}
