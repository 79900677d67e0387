package lznf

import (
	"encoding/binary"
	"fmt"
	"math"
)

const magic = "LZNF"

// fixedHeaderLen is the size of a header with an empty name.
const fixedHeaderLen = 20

// offset of the data offset field within the header.
const dataOffsetPos = 16

// A Header describes the original data stored in a container.
//
// All integer fields are stored big-endian in 4 bytes:
//
//	0   "LZNF"
//	4   original length
//	8   CRC-32 (IEEE) of the original data
//	12  name length N
//	16  data offset, always 20+N
//	20  name
type Header struct {
	Length     int
	CRC        uint32
	Name       string
	DataOffset int
}

// AppendTo appends the header to dst. The data offset field is written as
// zero; SetDataOffset fills it in once the blocks are in place.
func (h *Header) AppendTo(dst []byte) ([]byte, error) {
	if h.Length < 0 || h.Length > math.MaxInt32 {
		return dst, fmt.Errorf("%w: length %d", ErrTooLarge, h.Length)
	}
	if len(h.Name) > math.MaxInt32-fixedHeaderLen {
		return dst, fmt.Errorf("%w: %d byte name", ErrTooLarge, len(h.Name))
	}
	dst = append(dst, magic...)
	dst = binary.BigEndian.AppendUint32(dst, uint32(h.Length))
	dst = binary.BigEndian.AppendUint32(dst, h.CRC)
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(h.Name)))
	dst = binary.BigEndian.AppendUint32(dst, 0)
	dst = append(dst, h.Name...)
	return dst, nil
}

// SetDataOffset records the data offset in h and patches it into buf, which
// must start with the header written by AppendTo.
func (h *Header) SetDataOffset(buf []byte) {
	h.DataOffset = fixedHeaderLen + len(h.Name)
	binary.BigEndian.PutUint32(buf[dataOffsetPos:], uint32(h.DataOffset))
}

// parseHeader reads a header from the front of src and returns the rest.
// The magic number is checked before anything else.
func parseHeader(src []byte) (*Header, []byte, error) {
	if len(src) < len(magic) || string(src[:len(magic)]) != magic {
		return nil, nil, fmt.Errorf("%w: bad magic number", ErrInvalidContainer)
	}
	if len(src) < fixedHeaderLen {
		return nil, nil, fmt.Errorf("%w: %d byte header", ErrInvalidContainer, len(src))
	}

	length := int32(binary.BigEndian.Uint32(src[4:]))
	crc := binary.BigEndian.Uint32(src[8:])
	nameLen := int32(binary.BigEndian.Uint32(src[12:]))
	offset := int32(binary.BigEndian.Uint32(src[dataOffsetPos:]))

	if nameLen < 0 || int64(nameLen) > int64(len(src)-fixedHeaderLen) {
		return nil, nil, fmt.Errorf("%w: name length %d", ErrInvalidContainer, nameLen)
	}
	if length < 0 {
		return nil, nil, fmt.Errorf("%w: negative length %d", ErrCorrupt, length)
	}
	if int64(offset) != fixedHeaderLen+int64(nameLen) {
		return nil, nil, fmt.Errorf("%w: data offset %d, want %d", ErrCorrupt, offset, fixedHeaderLen+nameLen)
	}

	h := &Header{
		Length:     int(length),
		CRC:        crc,
		Name:       string(src[fixedHeaderLen : fixedHeaderLen+nameLen]),
		DataOffset: int(offset),
	}
	return h, src[offset:], nil
}
