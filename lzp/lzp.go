// Package lzp implements an order-4 LZP (Lempel-Ziv-Predict) transform.
//
// LZP does not transmit match offsets. Encoder and decoder both keep a table
// from each 4-byte context to the latest position where it occurred, and the
// bytes following that position are taken as the prediction for the bytes
// following the current one. The encoder only sends how many predicted bytes
// were right.
//
// The output is two parallel streams: literals (bytes that were not
// predicted) and match lengths. A match length is emitted only when the
// context had been seen before; it is 255-escaped, so lengths of 255 or more
// are sent as a run of 255 bytes followed by a remainder below 255.
package lzp

import (
	"errors"
	"fmt"
)

// Order is the context length in bytes.
const Order = 4

// escape marks a match-length byte that continues into the next one.
const escape = 255

// ErrCorrupt is returned when the streams do not describe any encoder output.
var ErrCorrupt = errors.New("lzp: corrupt streams")

// Streams holds the output of the encoder.
type Streams struct {
	Literals []byte
	Matches  []byte
}

// MatchedBytes returns the total number of bytes covered by matches.
func (s Streams) MatchedBytes() int {
	n := 0
	for _, b := range s.Matches {
		n += int(b)
	}
	return n
}

// Runs returns the number of match lengths in the stream, counting an
// escaped length once.
func (s Streams) Runs() int {
	n := 0
	for _, b := range s.Matches {
		if b != escape {
			n++
		}
	}
	return n
}

// An Encoder splits data into literal and match streams.
// The zero value is ready to use.
type Encoder struct {
	table contextTable
}

// Encode appends the streams for src to dst and returns the result.
// src must be shorter than 4 GiB.
func (e *Encoder) Encode(dst Streams, src []byte) Streams {
	e.table.reset(len(src))

	// The first bytes have no context and are always literals.
	n := min(Order, len(src))
	dst.Literals = append(dst.Literals, src[:n]...)
	current := n

	for current < len(src) {
		pointer := e.table.swap(contextAt(src, current), current)

		if pointer > 0 {
			matchLen := 0
			for src[pointer] == src[current] {
				pointer++
				current++
				matchLen++
				if len(src)-current < Order {
					break
				}
			}
			dst.Matches = appendLength(dst.Matches, matchLen)
		}

		if current >= len(src) {
			break
		}
		dst.Literals = append(dst.Literals, src[current])
		current++
	}
	return dst
}

func appendLength(dst []byte, n int) []byte {
	for n >= escape {
		dst = append(dst, escape)
		n -= escape
	}
	return append(dst, byte(n))
}

// readLength decodes one 255-escaped length from the front of m.
func readLength(m []byte) (n int, rest []byte, err error) {
	for {
		if len(m) == 0 {
			return 0, nil, fmt.Errorf("%w: truncated match length", ErrCorrupt)
		}
		b := m[0]
		m = m[1:]
		n += int(b)
		if b != escape {
			return n, m, nil
		}
	}
}

// A Decoder rebuilds data from literal and match streams.
// The zero value is ready to use.
type Decoder struct {
	// If Bounded is set, Limit is the largest output the decoder will
	// produce, even when it is zero. Streams describing more data are
	// reported as corrupt.
	Limit   int
	Bounded bool

	table contextTable
}

// Decode appends the data described by s to dst.
func (d *Decoder) Decode(dst []byte, s Streams) ([]byte, error) {
	return d.decode(dst, s, nil)
}

// decode replays the encoder. Contexts are taken from the output produced so
// far, which is exactly the encoder's input. If onMatch is not nil, it is
// called with the output position and length of every match.
func (d *Decoder) decode(dst []byte, s Streams, onMatch func(pos, n int)) ([]byte, error) {
	base := len(dst)
	lits, matches := s.Literals, s.Matches
	d.table.reset(len(lits) + s.MatchedBytes())

	n := min(Order, len(lits))
	if d.Bounded && n > d.Limit {
		return dst, fmt.Errorf("%w: output exceeds %d bytes", ErrCorrupt, d.Limit)
	}
	dst = append(dst, lits[:n]...)
	lits = lits[n:]

	for len(lits) > 0 || len(matches) > 0 {
		current := len(dst) - base
		if current < Order {
			return dst, fmt.Errorf("%w: match lengths without context", ErrCorrupt)
		}
		pointer := d.table.swap(contextAt(dst[base:], current), current)

		if pointer > 0 {
			length, rest, err := readLength(matches)
			if err != nil {
				return dst, err
			}
			matches = rest
			// The encoder follows a failed prediction with a literal.
			if length == 0 && len(lits) == 0 {
				return dst, fmt.Errorf("%w: zero-length match at end of stream", ErrCorrupt)
			}
			if d.Bounded && current+length > d.Limit {
				return dst, fmt.Errorf("%w: output exceeds %d bytes", ErrCorrupt, d.Limit)
			}
			if onMatch != nil {
				onMatch(current, length)
			}
			// Byte by byte: the source may overlap the bytes being written.
			for i := 0; i < length; i++ {
				dst = append(dst, dst[base+pointer+i])
			}
		} else if len(lits) == 0 {
			return dst, fmt.Errorf("%w: %d match bytes left over", ErrCorrupt, len(matches))
		}

		if len(lits) == 0 {
			break
		}
		if d.Bounded && len(dst)-base >= d.Limit {
			return dst, fmt.Errorf("%w: output exceeds %d bytes", ErrCorrupt, d.Limit)
		}
		dst = append(dst, lits[0])
		lits = lits[1:]
	}

	if len(matches) > 0 {
		return dst, fmt.Errorf("%w: %d match bytes left over", ErrCorrupt, len(matches))
	}
	return dst, nil
}

// Split is a convenience wrapper for Encoder.Encode with a fresh Encoder.
func Split(src []byte) Streams {
	var e Encoder
	return e.Encode(Streams{}, src)
}

// Join is a convenience wrapper for Decoder.Decode with a fresh Decoder.
func Join(s Streams) ([]byte, error) {
	var d Decoder
	return d.Decode(nil, s)
}
