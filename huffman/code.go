package huffman

import (
	"fmt"

	"github.com/andybalholm/lznf/bitstream"
)

// A Code is the bit sequence assigned to one symbol: the Len low bits of
// Bits, most significant first. A zero Len means the symbol has no code.
type Code struct {
	Bits uint64
	Len  uint8
}

func (c Code) String() string {
	if c.Len == 0 {
		return "-"
	}
	return fmt.Sprintf("%0*b", int(c.Len), c.Bits)
}

// A Table maps each byte value to its code.
type Table [256]Code

// Codes derives the code table of t. A left edge appends a 0 bit and a right
// edge a 1 bit. The only symbol of a single-leaf tree gets the 1-bit code 0.
func (t *Tree) Codes() (*Table, error) {
	tab := new(Table)
	if t.root < 0 {
		return tab, nil
	}
	if root := t.nodes[t.root]; root.isLeaf() {
		tab[root.symbol] = Code{Bits: 0, Len: 1}
		return tab, nil
	}

	type entry struct {
		node int
		code Code
	}
	stack := []entry{{node: t.root}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[e.node]
		if n.isLeaf() {
			tab[n.symbol] = e.code
			continue
		}
		if e.code.Len == 64 {
			return nil, ErrTooDeep
		}
		c := Code{Bits: e.code.Bits << 1, Len: e.code.Len + 1}
		stack = append(stack,
			entry{node: int(n.right), code: Code{Bits: c.Bits | 1, Len: c.Len}},
			entry{node: int(n.left), code: c},
		)
	}
	return tab, nil
}

// Encode appends the code of every byte of src to w.
func (tab *Table) Encode(w *bitstream.Writer, src []byte) error {
	for _, b := range src {
		c := tab[b]
		if c.Len == 0 {
			return fmt.Errorf("%w: %#02x", ErrUnknownSymbol, b)
		}
		w.WriteBits(c.Bits, c.Len)
	}
	return w.Err()
}

// Encode appends the codes of src to w using the code table of t.
func (t *Tree) Encode(w *bitstream.Writer, src []byte) error {
	tab, err := t.Codes()
	if err != nil {
		return err
	}
	return tab.Encode(w, src)
}

// Size returns the number of bits needed to encode a stream with the given
// symbol frequencies.
func (tab *Table) Size(freq []int) uint64 {
	var n uint64
	for s, f := range freq {
		if s < len(tab) {
			n += uint64(f) * uint64(tab[s].Len)
		}
	}
	return n
}
