package lznf

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/andybalholm/lznf/bitstream"
	"github.com/andybalholm/lznf/huffman"
)

// A Block is one Huffman-coded stream: the serialized tree followed by the
// coded data, each as a finalized bit stream.
type Block struct {
	tree       *huffman.Tree
	treeStream []byte
	dataStream []byte
}

// NewBlock counts the symbols of stream, builds a Huffman tree for them and
// encodes stream with it.
func NewBlock(stream []byte) (*Block, error) {
	var freq Frequencies
	freq.Count(stream)
	b := &Block{tree: huffman.Build(freq[:])}

	tw := bitstream.NewWriter()
	b.tree.Store(tw)
	var err error
	if b.treeStream, err = tw.Close(); err != nil {
		return nil, err
	}

	dw := bitstream.NewWriter()
	if err := b.tree.Encode(dw, stream); err != nil {
		return nil, err
	}
	if b.dataStream, err = dw.Close(); err != nil {
		return nil, err
	}
	if uint64(len(b.dataStream)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d byte data stream", ErrTooLarge, len(b.dataStream))
	}
	return b, nil
}

// Leaves returns the number of distinct symbols in the block.
func (b *Block) Leaves() int { return b.tree.Leaves() }

// Symbols returns the block's symbols in ascending order.
func (b *Block) Symbols() []byte { return b.tree.Symbols() }

// TreeLen returns the size of the tree stream in bytes, including its pad
// trailer.
func (b *Block) TreeLen() int { return len(b.treeStream) }

// DataLen returns the size of the data stream in bytes, including its pad
// trailer.
func (b *Block) DataLen() int { return len(b.dataStream) }

// Size returns the number of bytes AppendTo adds.
func (b *Block) Size() int { return 8 + len(b.treeStream) + len(b.dataStream) }

// AppendTo appends [treeLen][tree][dataLen][data] to dst, with big-endian
// 32-bit lengths.
func (b *Block) AppendTo(dst []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(b.treeStream)))
	dst = append(dst, b.treeStream...)
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(b.dataStream)))
	dst = append(dst, b.dataStream...)
	return dst
}

// parseBlock reads one block from the front of src and returns the rest.
// The tree is loaded and must use its whole stream; the data stream is only
// decoded by Decode.
func parseBlock(src []byte) (*Block, []byte, error) {
	treeStream, src, err := cutStream(src)
	if err != nil {
		return nil, nil, fmt.Errorf("tree stream: %w", err)
	}
	dataStream, src, err := cutStream(src)
	if err != nil {
		return nil, nil, fmt.Errorf("data stream: %w", err)
	}

	r, err := bitstream.Load(treeStream)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: tree stream: %w", ErrCorrupt, err)
	}
	tree, err := huffman.LoadTree(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if !r.EOF() {
		return nil, nil, fmt.Errorf("%w: %d bits after tree", ErrCorrupt, r.Remaining())
	}

	return &Block{
		tree:       tree,
		treeStream: treeStream,
		dataStream: dataStream,
	}, src, nil
}

// cutStream splits a length-prefixed stream off the front of src.
func cutStream(src []byte) (stream, rest []byte, err error) {
	if len(src) < 4 {
		return nil, nil, fmt.Errorf("%w: missing stream length", ErrCorrupt)
	}
	n := binary.BigEndian.Uint32(src)
	src = src[4:]
	if uint64(n) > uint64(len(src)) {
		return nil, nil, fmt.Errorf("%w: stream length %d exceeds remaining %d bytes", ErrCorrupt, n, len(src))
	}
	return src[:n], src[n:], nil
}

// Decode appends the decoded contents of the block to dst.
func (b *Block) Decode(dst []byte) ([]byte, error) {
	r, err := bitstream.Load(b.dataStream)
	if err != nil {
		return dst, fmt.Errorf("%w: data stream: %w", ErrCorrupt, err)
	}
	dst, err = b.tree.Decode(dst, r)
	if err != nil {
		return dst, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return dst, nil
}
