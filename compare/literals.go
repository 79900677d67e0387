package compare

import (
	"errors"

	"github.com/andybalholm/lznf"
	"github.com/andybalholm/lznf/bitstream"
	"github.com/andybalholm/lznf/lzp"
	"github.com/andybalholm/lznf/mtf"
	"github.com/klauspost/compress/huff0"
)

// A Model is one way of coding the literal stream. Size is in bytes.
type Model struct {
	Name string
	Size int
}

// Literals splits src with LZP and reports how large its literal stream
// becomes under several models:
//
//	raw          the literals as they are
//	huffman      one static Huffman block, as LZNF stores it
//	mtf+huffman  move-to-front ranks in a static Huffman block
//	mtf+prefix   move-to-front ranks in the fixed 2/5/7/10-bit prefix code
//	huff0-1x     klauspost huff0, single stream
//	huff0-4x     klauspost huff0, four streams
func Literals(src []byte) ([]Model, error) {
	lits := lzp.Split(src).Literals
	models := []Model{{"raw", len(lits)}}

	b, err := lznf.NewBlock(lits)
	if err != nil {
		return nil, err
	}
	models = append(models, Model{"huffman", b.TreeLen() + b.DataLen()})

	ranks := mtf.Encode(nil, lits)
	b, err = lznf.NewBlock(ranks)
	if err != nil {
		return nil, err
	}
	models = append(models, Model{"mtf+huffman", b.TreeLen() + b.DataLen()})

	w := bitstream.NewWriter()
	if err := mtf.WriteRanks(w, ranks); err != nil {
		return nil, err
	}
	coded, err := w.Close()
	if err != nil {
		return nil, err
	}
	models = append(models, Model{"mtf+prefix", len(coded)})

	for _, m := range []struct {
		name     string
		compress func([]byte, *huff0.Scratch) ([]byte, bool, error)
	}{
		{"huff0-1x", huff0.Compress1X},
		{"huff0-4x", huff0.Compress4X},
	} {
		size, err := huff0Size(lits, m.compress)
		if err != nil {
			return nil, err
		}
		models = append(models, Model{m.name, size})
	}
	return models, nil
}

// huff0Size returns the size huff0 needs for lits, coded in blocks of
// huff0.BlockSizeMax. A block that huff0 declines to compress is counted at
// its raw size, and a block of one repeated byte as one byte.
func huff0Size(lits []byte, compress func([]byte, *huff0.Scratch) ([]byte, bool, error)) (int, error) {
	s := huff0.Scratch{Reuse: huff0.ReusePolicyNone}
	size := 0
	for len(lits) > 0 {
		block := lits[:min(len(lits), huff0.BlockSizeMax)]
		lits = lits[len(block):]

		out, _, err := compress(block, &s)
		switch {
		case err == nil:
			size += len(out)
		case errors.Is(err, huff0.ErrIncompressible):
			size += len(block)
		case errors.Is(err, huff0.ErrUseRLE):
			size++
		default:
			return 0, err
		}
	}
	return size, nil
}
