// Package mtf implements the move-to-front transform and a small prefix
// code for the ranks it produces.
//
// Move-to-front replaces each byte with its position in a list of all 256
// byte values, then moves that value to the front of the list. Recently used
// bytes get small ranks, which makes the output easier to model for an
// entropy coder.
package mtf

import (
	"errors"
	"fmt"

	"github.com/andybalholm/lznf/bitstream"
)

// ErrCorrupt is returned when a rank stream cannot be decoded.
var ErrCorrupt = errors.New("mtf: corrupt rank stream")

type list [256]byte

func newList() *list {
	l := new(list)
	for i := range l {
		l[i] = byte(i)
	}
	return l
}

// moveToFront moves the entry at position i to position 0.
func (l *list) moveToFront(i int) {
	b := l[i]
	copy(l[1:i+1], l[:i])
	l[0] = b
}

// Encode appends the ranks of src to dst.
func Encode(dst, src []byte) []byte {
	l := newList()
	for _, b := range src {
		i := 0
		for l[i] != b {
			i++
		}
		dst = append(dst, byte(i))
		l.moveToFront(i)
	}
	return dst
}

// Decode appends the bytes described by ranks to dst.
func Decode(dst, ranks []byte) []byte {
	l := newList()
	for _, r := range ranks {
		dst = append(dst, l[r])
		l.moveToFront(int(r))
	}
	return dst
}

// Rank classes of the prefix code: a 2-bit selector followed by the given
// number of payload bits.
//
//	00            rank 0
//	01 + 3 bits   ranks 1-8
//	10 + 5 bits   ranks 9-40
//	11 + 8 bits   any rank
var classes = [4]struct {
	base  int
	width uint8
}{
	{0, 0},
	{1, 3},
	{9, 5},
	{0, 8},
}

// WriteRanks appends the prefix code of every rank to w.
func WriteRanks(w *bitstream.Writer, ranks []byte) error {
	for _, r := range ranks {
		sel := 3
		switch {
		case r == 0:
			sel = 0
		case r <= 8:
			sel = 1
		case r <= 40:
			sel = 2
		}
		c := classes[sel]
		w.WriteBits(uint64(sel), 2)
		w.WriteBits(uint64(int(r)-c.base), c.width)
	}
	return w.Err()
}

// ReadRanks decodes ranks from r until it is exhausted.
func ReadRanks(dst []byte, r *bitstream.Reader) ([]byte, error) {
	for !r.EOF() {
		sel, err := r.ReadBits(2)
		if err != nil {
			return dst, fmt.Errorf("%w: truncated selector", ErrCorrupt)
		}
		c := classes[sel]
		v, err := r.ReadBits(c.width)
		if err != nil {
			return dst, fmt.Errorf("%w: truncated rank", ErrCorrupt)
		}
		dst = append(dst, byte(c.base+int(v)))
	}
	return dst, nil
}

// Size returns the number of bits WriteRanks would use for ranks.
func Size(ranks []byte) uint64 {
	var n uint64
	for _, r := range ranks {
		switch {
		case r == 0:
			n += 2
		case r <= 8:
			n += 5
		case r <= 40:
			n += 7
		default:
			n += 10
		}
	}
	return n
}
