// Package bitstream implements the bit-granular buffer used by LZNF for
// Huffman trees and Huffman-coded data.
//
// A stream is written with a Writer, most significant bit first, and
// finalized by Close. The finalized byte slice carries one trailer byte
// holding the number of padding bits (0-7) in the byte before it, so a Reader
// created with Load knows exactly where the meaningful bits end.
package bitstream

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/icza/bitio"
)

// Errors returned by Writer and Reader.
var (
	ErrClosed   = errors.New("bitstream: write after close")
	ErrEmpty    = errors.New("bitstream: missing pad trailer")
	ErrBadPad   = errors.New("bitstream: invalid pad trailer")
	ErrTooLong  = errors.New("bitstream: more than 64 bits requested")
	ErrTruncate = errors.New("bitstream: not enough bits left")
)

// A Writer accumulates bits in write mode. The zero value is not usable;
// call NewWriter.
type Writer struct {
	buf   bytes.Buffer
	bw    *bitio.Writer
	nbits uint64

	err    error
	closed bool
}

// NewWriter returns an empty Writer. Its buffer grows as bits are written.
func NewWriter() *Writer {
	w := new(Writer)
	w.bw = bitio.NewWriter(&w.buf)
	return w
}

// WriteBit appends a single bit.
func (w *Writer) WriteBit(bit bool) {
	if !w.writable() {
		return
	}
	if err := w.bw.WriteBool(bit); err != nil {
		w.err = err
		return
	}
	w.nbits++
}

// WriteBits appends the n low bits of value, most significant first.
// Bits of value above n are ignored, so a short value is zero-padded on the
// left.
func (w *Writer) WriteBits(value uint64, n uint8) {
	if !w.writable() || n == 0 {
		return
	}
	if n > 64 {
		w.err = ErrTooLong
		return
	}
	if n < 64 {
		value &= 1<<n - 1
	}
	if err := w.bw.WriteBits(value, n); err != nil {
		w.err = err
		return
	}
	w.nbits += uint64(n)
}

func (w *Writer) writable() bool {
	if w.err != nil {
		return false
	}
	if w.closed {
		w.err = ErrClosed
		return false
	}
	return true
}

// Len returns the number of bits written so far.
func (w *Writer) Len() uint64 {
	return w.nbits
}

// Err returns the first error encountered while writing.
func (w *Writer) Err() error {
	return w.err
}

// Close finalizes the stream: the partial last byte is flushed with zero
// bits and the pad count is appended as a trailer byte. It returns the exact
// finalized buffer. Close may only be called once.
func (w *Writer) Close() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.closed {
		return nil, ErrClosed
	}
	w.closed = true

	pad := byte((8 - w.nbits%8) % 8)
	if err := w.bw.Close(); err != nil {
		w.err = err
		return nil, err
	}
	w.buf.WriteByte(pad)
	return w.buf.Bytes(), nil
}

// A Reader reads back a finalized stream in read mode.
type Reader struct {
	br        *bitio.Reader
	remaining uint64
}

// Load creates a Reader from a finalized stream. The last byte of data is the
// pad count written by Writer.Close. Padding bits must be zero.
func Load(data []byte) (*Reader, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	pad := data[len(data)-1]
	body := data[:len(data)-1]
	if pad > 7 {
		return nil, fmt.Errorf("%w: pad count %d", ErrBadPad, pad)
	}
	if len(body) == 0 {
		if pad != 0 {
			return nil, fmt.Errorf("%w: pad count %d on empty stream", ErrBadPad, pad)
		}
	} else if body[len(body)-1]&(1<<pad-1) != 0 {
		return nil, fmt.Errorf("%w: non-zero padding bits", ErrBadPad)
	}

	return &Reader{
		br:        bitio.NewReader(bytes.NewReader(body)),
		remaining: uint64(len(body))*8 - uint64(pad),
	}, nil
}

// ReadBit returns the next bit. It returns io.EOF once every meaningful bit
// has been read.
func (r *Reader) ReadBit() (bool, error) {
	if r.remaining == 0 {
		return false, io.EOF
	}
	b, err := r.br.ReadBool()
	if err != nil {
		return false, err
	}
	r.remaining--
	return b, nil
}

// ReadBits reads n bits and assembles them most significant bit first.
func (r *Reader) ReadBits(n uint8) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	if n > 64 {
		return 0, ErrTooLong
	}
	if uint64(n) > r.remaining {
		return 0, fmt.Errorf("%w: want %d, have %d", ErrTruncate, n, r.remaining)
	}
	v, err := r.br.ReadBits(n)
	if err != nil {
		return 0, err
	}
	r.remaining -= uint64(n)
	return v, nil
}

// EOF reports whether every meaningful bit has been read.
func (r *Reader) EOF() bool {
	return r.remaining == 0
}

// Remaining returns the number of unread meaningful bits.
func (r *Reader) Remaining() uint64 {
	return r.remaining
}
